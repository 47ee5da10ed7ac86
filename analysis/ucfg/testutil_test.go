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

package ucfg

import (
	"testing"

	"github.com/awslabs/ucfg-tools/analysis/lang"
	"github.com/awslabs/ucfg-tools/analysis/semantics"
)

const testFile = "Orders.cs"

// fixture assembles small syntax trees and fact tables for the tests in this
// package. Every added node gets its own one-line source range, so location
// translation succeeds unless a test drops the range on purpose.
type fixture struct {
	model *semantics.Model
	tree  *lang.Tree
	str   semantics.TypeID
	num   semantics.TypeID
	line  int
}

func newFixture() *fixture {
	m := semantics.NewModel()
	return &fixture{
		model: m,
		tree:  lang.NewTree(),
		str:   m.AddType(semantics.Type{Name: "string", IsString: true}),
		num:   m.AddType(semantics.Type{Name: "int"}),
	}
}

func (f *fixture) node(kind lang.NodeKind, text string, operands ...lang.NodeID) lang.NodeID {
	f.line++
	return f.tree.Add(lang.Node{
		Kind:     kind,
		Text:     text,
		Operands: operands,
		Range: &lang.Range{
			StartLine: f.line,
			StartCol:  4,
			EndLine:   f.line,
			EndCol:    4 + len(text) + 1,
		},
	})
}

// bareNode adds a node without a source range.
func (f *fixture) bareNode(kind lang.NodeKind, text string, operands ...lang.NodeID) lang.NodeID {
	return f.tree.Add(lang.Node{Kind: kind, Text: text, Operands: operands})
}

func (f *fixture) stringLocal(name string) semantics.SymbolID {
	return f.model.AddSymbol(semantics.Symbol{Kind: semantics.KindLocal, Name: name, Type: f.str})
}

func (f *fixture) intLocal(name string) semantics.SymbolID {
	return f.model.AddSymbol(semantics.Symbol{Kind: semantics.KindLocal, Name: name, Type: f.num})
}

func (f *fixture) method(display string, ret semantics.TypeID, params ...semantics.Param) semantics.SymbolID {
	return f.model.AddSymbol(semantics.Symbol{
		Kind:    semantics.KindMethod,
		Display: display,
		Return:  ret,
		Params:  params,
	})
}

// ident adds an identifier node named text, bound to sym when sym is valid.
func (f *fixture) ident(text string, sym semantics.SymbolID) lang.NodeID {
	n := f.node(lang.KindIdentifier, text)
	if sym.IsValid() {
		f.model.Bind(n, sym)
	}
	return n
}

func (f *fixture) literal(text string) lang.NodeID {
	return f.node(lang.KindLiteral, text)
}

// builder returns a fresh builder already aimed at a new block.
func (f *fixture) builder() (*builder, *BasicBlock) {
	bb := NewBasicBlock("0")
	b := newBuilder(f.model, f.tree, testFile)
	b.block = bb
	return b, bb
}

// methodFacts gives the method a declaration range of its own.
func (f *fixture) methodFacts(sym semantics.SymbolID) MethodFacts {
	f.line++
	return MethodFacts{
		Symbol: sym,
		Range:  &lang.Range{StartLine: f.line, StartCol: 0, EndLine: f.line + 5, EndCol: 2},
	}
}

func checkInstruction(t *testing.T, ins Instruction, methodID, variable string, args ...Expression) {
	t.Helper()
	if ins.MethodID != methodID {
		t.Errorf("expected method id %q, got %q", methodID, ins.MethodID)
	}
	if ins.Variable != variable {
		t.Errorf("expected target variable %q, got %q", variable, ins.Variable)
	}
	if len(ins.Args) != len(args) {
		t.Fatalf("expected %d args, got %d (%v)", len(args), len(ins.Args), ins.Args)
	}
	for i, a := range args {
		if ins.Args[i] != a {
			t.Errorf("arg %d: expected %v, got %v", i, a, ins.Args[i])
		}
	}
}
