// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package analysis

import (
	"github.com/awslabs/ucfg-tools/analysis/bundle"
	"github.com/awslabs/ucfg-tools/analysis/cfg"
	"github.com/awslabs/ucfg-tools/analysis/ucfg"
	"github.com/awslabs/ucfg-tools/internal/formatutil"
	"github.com/awslabs/ucfg-tools/internal/funcutil"
	"github.com/awslabs/ucfg-tools/internal/graphutil"
)

// MethodStats reports the compiled shape of one method: the size of its UCFG and the loop
// structure of the control-flow graph it came from.
type MethodStats struct {
	Method       string `json:"method"`
	File         string `json:"file"`
	Blocks       int    `json:"blocks"`
	Instructions int    `json:"instructions"`
	LoopRegions  int    `json:"loop_regions"`
	Cycles       int    `json:"cycles"`
}

// BundleStatistics compiles every method of the bundles and returns general statistics about the
// basic blocks and instructions of each resulting UCFG. Loop regions and elementary cycles are
// counted on the source control-flow graph. Methods not matching the configured method filter are
// skipped, and methods that fail to compile are logged and skipped rather than aborting the pass.
func BundleStatistics(state *State, bundles []*bundle.Bundle) []MethodStats {
	stats := make([]MethodStats, 0)
	for _, b := range bundles {
		for _, m := range b.Methods {
			name := ucfg.ResolveMethodID(b.Model, m.Symbol)
			if !state.Config.MatchMethodFilter(name) {
				continue
			}
			u, err := ucfg.Assemble(b.Model, b.Tree, m.Graph, b.File,
				ucfg.MethodFacts{Symbol: m.Symbol, Range: m.Range}, state.IsEntryPoint)
			if err != nil {
				state.Logger.Errorf("error while compiling %s: %v", formatutil.Sanitize(name), err)
				continue
			}
			instructions := 0
			for _, block := range u.BasicBlocks {
				instructions += len(block.Instructions)
			}
			stats = append(stats, MethodStats{
				Method:       u.MethodID,
				File:         b.File,
				Blocks:       len(u.BasicBlocks),
				Instructions: instructions,
				LoopRegions:  countLoopRegions(m.Graph),
				Cycles:       len(graphutil.FindAllElementaryCycles(graphutil.NewBlockIterator(m.Graph))),
			})
		}
	}
	return stats
}

// countLoopRegions counts the strongly connected components of the graph that loop, i.e.
// components of two or more blocks plus single blocks that are their own successor.
func countLoopRegions(g *cfg.Graph) int {
	sccs := graphutil.StronglyConnectedComponents(g.BlockIDs(), func(id cfg.BlockID) []cfg.BlockID {
		return g.Block(id).Successors
	})
	regions := 0
	for _, scc := range sccs {
		if len(scc) > 1 || funcutil.Contains(g.Block(scc[0]).Successors, scc[0]) {
			regions++
		}
	}
	return regions
}
