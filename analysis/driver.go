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

// Package analysis contains the driver that runs compilation passes over
// method bundles.
package analysis

import (
	"fmt"
	"time"

	"github.com/awslabs/ucfg-tools/analysis/bundle"
	"github.com/awslabs/ucfg-tools/analysis/config"
	"github.com/awslabs/ucfg-tools/analysis/semantics"
	"github.com/awslabs/ucfg-tools/analysis/ucfg"
	"github.com/awslabs/ucfg-tools/internal/formatutil"
	"github.com/awslabs/ucfg-tools/internal/funcutil"
)

// State carries the configuration and the logger shared by every job of one
// pass. Jobs never mutate it.
type State struct {
	Config *config.Config
	Logger *config.LogGroup
}

// NewState builds the pass state for a loaded configuration.
func NewState(cfg *config.Config) *State {
	return &State{Config: cfg, Logger: config.NewLogGroup(cfg)}
}

// IsEntryPoint is the predicate the assembler consults: a method is an entry
// point when its code identifier matches one of the configured entry-points.
func (s *State) IsEntryPoint(sym *semantics.Symbol) bool {
	if sym == nil {
		return false
	}
	return s.Config.IsEntryPoint(config.CodeIdentifier{
		Namespace: sym.Namespace,
		Type:      sym.Container,
		Method:    sym.Name,
	})
}

// LoadBundles loads every named bundle file, in order.
func LoadBundles(state *State, filenames []string) ([]*bundle.Bundle, error) {
	bundles := make([]*bundle.Bundle, 0, len(filenames))
	for _, filename := range filenames {
		state.Logger.Debugf("Loading bundle %s", filename)
		b, err := bundle.Load(filename)
		if err != nil {
			return nil, err
		}
		bundles = append(bundles, b)
	}
	return bundles, nil
}

// CompileResult is the outcome of compiling one method of one bundle. A
// failed method carries its error here; one failure does not stop the pass.
type CompileResult struct {
	File string
	UCFG *ucfg.UCFG
	Err  error
}

// compileJob contains all the information necessary to compile one method.
type compileJob struct {
	state  *State
	bundle *bundle.Bundle
	method bundle.Method
	name   string
}

// RunCompile compiles every method of every bundle in parallel using
// numRoutines goroutines. Results keep the bundle/method order. Methods not
// matching the configured method filter are skipped. Builds share nothing
// mutable, so methods compile concurrently without locking.
func RunCompile(state *State, numRoutines int, bundles []*bundle.Bundle) []CompileResult {
	state.Logger.Infof("Starting UCFG compilation ...")
	start := time.Now()
	if numRoutines < 1 {
		numRoutines = 1
	}

	var jobs []compileJob
	for _, b := range bundles {
		for _, m := range b.Methods {
			name := ucfg.ResolveMethodID(b.Model, m.Symbol)
			if !state.Config.MatchMethodFilter(name) {
				state.Logger.Tracef("Skipping %s (method filter)", formatutil.Sanitize(name))
				continue
			}
			jobs = append(jobs, compileJob{state: state, bundle: b, method: m, name: name})
		}
	}

	results := funcutil.MapParallel(jobs, runCompileJob, numRoutines)
	state.Logger.Infof("Compilation done (%.2f s).", time.Since(start).Seconds())
	return results
}

func runCompileJob(job compileJob) CompileResult {
	b := job.bundle
	job.state.Logger.Debugf("%-10sFile: %-50s | Method: %-40s", "Compiling",
		formatutil.Sanitize(b.File), formatutil.Sanitize(job.name))
	u, err := ucfg.Assemble(b.Model, b.Tree, job.method.Graph, b.File,
		ucfg.MethodFacts{Symbol: job.method.Symbol, Range: job.method.Range},
		job.state.IsEntryPoint)
	if err != nil {
		job.state.Logger.Errorf("error while compiling %s: %v", formatutil.Sanitize(job.name), err)
		return CompileResult{File: b.File, Err: fmt.Errorf("%s: %w", job.name, err)}
	}
	return CompileResult{File: b.File, UCFG: u}
}
