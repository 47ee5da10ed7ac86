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

package graphutil_test

import (
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/awslabs/ucfg-tools/analysis/cfg"
	"github.com/awslabs/ucfg-tools/internal/funcutil"
	"github.com/awslabs/ucfg-tools/internal/graphutil"
	"github.com/yourbasic/graph"
	"golang.org/x/exp/slices"
)

// buildGraph adds one block per successor list, in order, so block ids are 1..len(succs).
func buildGraph(succs [][]cfg.BlockID) *cfg.Graph {
	g := cfg.NewGraph()
	for _, out := range succs {
		g.Add(cfg.Block{Kind: cfg.KindSimple, Successors: out})
	}
	g.Entry = 1
	g.Exit = cfg.BlockID(len(succs))
	return g
}

// cycleStrings renders each cycle as its concatenated block ids and sorts the result, since the
// order in which cycles are discovered is not deterministic.
func cycleStrings(cycles [][]cfg.BlockID) []string {
	results := make([]string, len(cycles))
	for i, cycle := range cycles {
		results[i] = strings.Join(
			funcutil.Map(cycle, func(_x cfg.BlockID) string { return strconv.Itoa(int(_x)) }),
			"")
	}
	sort.Strings(results)
	return results
}

func TestFindAllElementaryCycles(t *testing.T) {
	// A while loop whose body branches, with both arms jumping back to the loop head:
	// 1 is the entry, 2 the loop head, 3 the branch, 4 and 5 the arms, 6 the exit.
	g := buildGraph([][]cfg.BlockID{
		{2},
		{3, 6},
		{4, 5},
		{2},
		{2},
		{},
	})
	iterator := graphutil.NewBlockIterator(g)
	stats := graph.Check(iterator)
	t.Logf("Stats:\n\tsize: %d\n\tmulti: %d\n\tloops: %d\n\tisolated: %d",
		stats.Size, stats.Multi, stats.Loops, stats.Isolated)

	cycles := graphutil.FindAllElementaryCycles(iterator)
	expected := []string{"2342", "2352"}

	results := cycleStrings(cycles)
	if !slices.Equal(results, expected) {
		t.Logf("Cycles:")
		for i, s := range results {
			t.Logf("Cycle %d: %s", i, s)
		}
		t.Fatalf("Cycles not as expected")
	}
}

func TestFindAllElementaryCyclesOnDag(t *testing.T) {
	// A diamond has no cycles.
	g := buildGraph([][]cfg.BlockID{
		{2, 3},
		{4},
		{4},
		{},
	})
	cycles := graphutil.FindAllElementaryCycles(graphutil.NewBlockIterator(g))
	if len(cycles) != 0 {
		t.Fatalf("Expected no elementary cycles, found %d", len(cycles))
	}
}

func TestFindAllElementaryCyclesSelfLoop(t *testing.T) {
	// Block 2 loops on itself and also sits on the larger 2-3 loop. The self loop must be
	// reported exactly once.
	g := buildGraph([][]cfg.BlockID{
		{2},
		{2, 3},
		{2, 4},
		{},
	})
	cycles := graphutil.FindAllElementaryCycles(graphutil.NewBlockIterator(g))
	expected := []string{"22", "232"}

	results := cycleStrings(cycles)
	if !slices.Equal(results, expected) {
		t.Fatalf("Expected cycles %v, found %v", expected, results)
	}
}

func TestFindAllElementaryCyclesIsolatedSelfLoop(t *testing.T) {
	// A single-block infinite loop forms a strongly connected component of size one.
	g := buildGraph([][]cfg.BlockID{
		{2},
		{2},
	})
	cycles := graphutil.FindAllElementaryCycles(graphutil.NewBlockIterator(g))
	expected := []string{"22"}

	results := cycleStrings(cycles)
	if !slices.Equal(results, expected) {
		t.Fatalf("Expected cycles %v, found %v", expected, results)
	}
}

func TestBlockGraphInterface(t *testing.T) {
	g := buildGraph([][]cfg.BlockID{
		{2, 3},
		{4},
		{4},
		{},
	})
	bg := graphutil.NewBlockIterator(g)
	if bg.Order() != 4 {
		t.Fatalf("Expected order 4, got %d", bg.Order())
	}
	if !bg.HasEdgeBetween(0, 1) || !bg.HasEdgeBetween(1, 0) {
		t.Errorf("HasEdgeBetween should hold in both directions")
	}
	if bg.Edge(1, 0) != nil {
		t.Errorf("Edge is directed, there is no edge 1 -> 0")
	}
	e := bg.Edge(0, 1)
	if e == nil || e.From().ID() != 0 || e.To().ID() != 1 {
		t.Fatalf("Expected edge 0 -> 1, got %v", e)
	}
	rev := e.ReversedEdge()
	if rev.From().ID() != 1 || rev.To().ID() != 0 {
		t.Errorf("Expected reversed edge 1 -> 0, got %v", rev)
	}
	if node := bg.Node(0).(graphutil.BlockNode); node.BlockID != 1 || node.String() != "simple" {
		t.Errorf("Expected node 0 to wrap block 1, got %v", node)
	}

	nodes := bg.Nodes()
	if nodes.Len() != 4 {
		t.Fatalf("Expected 4 nodes, got %d", nodes.Len())
	}
	count := 0
	for nodes.Next() {
		node := nodes.Node().(graphutil.BlockNode)
		if !g.Contains(node.BlockID) {
			t.Errorf("Node %v does not belong to the graph", node)
		}
		count++
	}
	if count != 4 {
		t.Errorf("Iterated over %d nodes, expected 4", count)
	}

	succs := bg.From(0)
	if succs.Len() != 2 {
		t.Errorf("Expected 2 successors of node 0, got %d", succs.Len())
	}

	sub := graphutil.Subgraph(bg, []int64{0, 1})
	if sub.Edges[1][3] {
		t.Errorf("Subgraph should drop edges to excluded nodes")
	}
	if !sub.Edges[0][1] {
		t.Errorf("Subgraph should keep edges between included nodes")
	}
	if sub.Order() != 4 {
		t.Errorf("Subgraph order should stay consistent with the original, got %d", sub.Order())
	}
}
