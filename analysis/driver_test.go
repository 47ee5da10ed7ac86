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
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"golang.org/x/tools/txtar"

	"github.com/awslabs/ucfg-tools/analysis/bundle"
	"github.com/awslabs/ucfg-tools/analysis/config"
	"github.com/awslabs/ucfg-tools/analysis/semantics"
	"github.com/awslabs/ucfg-tools/analysis/ucfg"
)

// unpackArchive writes every file of the named testdata archive into dir.
func unpackArchive(t *testing.T, name string, dir string) {
	t.Helper()
	archive, err := txtar.ParseFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("could not parse archive %s: %v", name, err)
	}
	for _, f := range archive.Files {
		if err := os.WriteFile(filepath.Join(dir, f.Name), f.Data, 0600); err != nil {
			t.Fatalf("could not unpack %s: %v", f.Name, err)
		}
	}
}

func TestRunCompileEndToEnd(t *testing.T) {
	dir := t.TempDir()
	unpackArchive(t, "orders.txtar", dir)

	cfg, err := config.Load(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatalf("could not load config: %v", err)
	}
	state := NewState(cfg)
	bundles, err := LoadBundles(state, []string{filepath.Join(dir, "bundle.yaml")})
	if err != nil {
		t.Fatalf("could not load bundles: %v", err)
	}

	results := RunCompile(state, 2, bundles)
	if len(results) != 1 {
		t.Fatalf("expected 1 compiled method, got %d", len(results))
	}
	res := results[0]
	if res.Err != nil {
		t.Fatalf("unexpected compile error: %v", res.Err)
	}
	if res.File != "Web/Controllers/OrdersController.cs" {
		t.Errorf("result should name the bundle file, got %q", res.File)
	}

	data, err := os.ReadFile(filepath.Join(dir, "expected.json"))
	if err != nil {
		t.Fatalf("could not read expected output: %v", err)
	}
	var want ucfg.UCFG
	if err := json.Unmarshal(data, &want); err != nil {
		t.Fatalf("could not unmarshal expected output: %v", err)
	}
	if !reflect.DeepEqual(res.UCFG, &want) {
		got, _ := json.MarshalIndent(res.UCFG, "", "  ")
		t.Errorf("compiled UCFG drifted from the expected output:\n%s", got)
	}
}

func TestRunCompileAppliesMethodFilter(t *testing.T) {
	cfg := config.NewDefault()
	cfg.MethodFilter = "Billing."
	state := NewState(cfg)

	b, err := bundle.Parse([]byte(`
file: A.cs
symbols:
  - id: 1
    kind: method
    name: Get
    display: Web.Controllers.OrdersController.Get()
methods:
  - symbol: 1
    range: {start_line: 0, start_col: 0, end_line: 1, end_col: 1}
    entry: 1
    exit: 1
    blocks:
      - id: 1
        kind: exit
`))
	if err != nil {
		t.Fatalf("could not parse bundle: %v", err)
	}

	if results := RunCompile(state, 1, []*bundle.Bundle{b}); len(results) != 0 {
		t.Errorf("expected the method filter to skip everything, got %d results", len(results))
	}

	cfg.MethodFilter = "Web."
	if results := RunCompile(state, 1, []*bundle.Bundle{b}); len(results) != 1 {
		t.Errorf("expected the method filter to keep the method, got %d results", len(results))
	}
}

func TestRunCompileReportsMethodErrors(t *testing.T) {
	cfg := config.NewDefault()
	cfg.LogLevel = int(config.ErrLevel)
	state := NewState(cfg)

	// The method record has no declaration range, which is fatal for its
	// build but must not stop the pass.
	b, err := bundle.Parse([]byte(`
file: A.cs
methods:
  - entry: 1
    exit: 1
    blocks:
      - id: 1
        kind: exit
  - range: {start_line: 0, start_col: 0, end_line: 1, end_col: 1}
    entry: 1
    exit: 1
    blocks:
      - id: 1
        kind: exit
`))
	if err != nil {
		t.Fatalf("could not parse bundle: %v", err)
	}

	results := RunCompile(state, 1, []*bundle.Bundle{b})
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if !errors.Is(results[0].Err, ucfg.ErrMissingLocation) {
		t.Errorf("expected the rangeless method to fail with the missing-location error, got %v", results[0].Err)
	}
	if results[1].Err != nil || results[1].UCFG == nil {
		t.Errorf("the second method should still compile, got err=%v", results[1].Err)
	}
	if results[1].UCFG.MethodID != ucfg.MethodIDUnknown {
		t.Errorf("a method without a symbol compiles under the unknown identity, got %q",
			results[1].UCFG.MethodID)
	}
}

func TestStateEntryPointPredicate(t *testing.T) {
	dir := t.TempDir()
	unpackArchive(t, "orders.txtar", dir)
	cfg, err := config.Load(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatalf("could not load config: %v", err)
	}
	state := NewState(cfg)

	if state.IsEntryPoint(nil) {
		t.Errorf("a nil symbol is never an entry point")
	}
	bundles, err := LoadBundles(state, []string{filepath.Join(dir, "bundle.yaml")})
	if err != nil {
		t.Fatalf("could not load bundles: %v", err)
	}
	model := bundles[0].Model
	get := model.Symbol(bundles[0].Methods[0].Symbol)
	if !state.IsEntryPoint(get) {
		t.Errorf("the configured controller method should be an entry point")
	}
	// Sanitize shares the namespace but not the method name.
	for i := 1; i <= model.NumSymbols(); i++ {
		sym := model.Symbol(semantics.SymbolID(i))
		if sym.Name == "Sanitize" && state.IsEntryPoint(sym) {
			t.Errorf("Sanitize must not match the Get entry-point spec")
		}
	}
}
