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
	"fmt"

	"github.com/awslabs/ucfg-tools/analysis/cfg"
	"github.com/awslabs/ucfg-tools/analysis/lang"
	"github.com/awslabs/ucfg-tools/analysis/semantics"
	"github.com/awslabs/ucfg-tools/internal/funcutil"
)

// MethodFacts names the method being compiled: its symbol and the source
// range of its declaration.
type MethodFacts struct {
	Symbol semantics.SymbolID
	Range  *lang.Range
}

// EntryPointPredicate recognizes methods whose parameters are taint sources.
// The predicate is external to the compiler; a nil predicate recognizes
// nothing.
type EntryPointPredicate func(*semantics.Symbol) bool

// Assemble compiles one method's control-flow graph into its UCFG. Basic
// blocks appear in the CFG's own block order, each carrying the instructions
// lowered from its statements and exactly one terminal: an explicit return
// produced by the block's content wins, the designated exit block otherwise
// returns the constant, and every other block jumps to its successors in the
// CFG's successor order. Entry-point methods get one synthetic block that
// introduces their parameters and then jumps to the real entry block.
func Assemble(model *semantics.Model, tree *lang.Tree, graph *cfg.Graph, fileID string,
	method MethodFacts, isEntryPoint EntryPointPredicate) (*UCFG, error) {
	if graph == nil || graph.Len() == 0 {
		return nil, fmt.Errorf("method has no control-flow graph")
	}
	if !graph.Contains(graph.Entry) || !graph.Contains(graph.Exit) {
		return nil, fmt.Errorf("control-flow graph needs designated entry and exit blocks")
	}
	loc, err := TranslateRange(fileID, method.Range)
	if err != nil {
		return nil, fmt.Errorf("method declaration: %w", err)
	}

	var sym *semantics.Symbol
	parameters := []string{}
	if method.Symbol.IsValid() {
		sym = model.Symbol(method.Symbol)
		parameters = funcutil.Map(sym.Params, func(p semantics.Param) string { return p.Name })
	}

	ids := NewBlockIDs()
	b := newBuilder(model, tree, fileID)
	blocks := make([]*BasicBlock, 0, graph.Len()+1)
	for _, bid := range graph.BlockIDs() {
		block := graph.Block(bid)
		bb := NewBasicBlock(ids.Get(bid))
		if err := b.buildBlock(bb, block); err != nil {
			return nil, fmt.Errorf("block %s: %w", bb.ID, err)
		}
		if !bb.HasTerminal() {
			if bid == graph.Exit {
				bb.SetReturn(ConstExpr())
			} else {
				bb.SetJump(funcutil.Map(block.Successors, ids.Get))
			}
		}
		blocks = append(blocks, bb)
	}

	entries := []string{ids.Get(graph.Entry)}
	if sym != nil && isEntryPoint != nil && isEntryPoint(sym) {
		entry := b.synthesizeEntry(ids.Fresh(), sym, loc, entries[0])
		blocks = append(blocks, entry)
		entries = []string{entry.ID}
	}

	return &UCFG{
		MethodID:    ResolveMethodID(model, method.Symbol),
		Location:    loc,
		Parameters:  parameters,
		BasicBlocks: blocks,
		Entries:     entries,
	}, nil
}

// synthesizeEntry builds the block an entry-point method starts in: one
// instruction introducing every parameter as a variable, then, per parameter
// and per attribute with a resolvable constructor, a constructor call into a
// fresh temp and an annotation binding that temp to the parameter. Control
// then jumps to the method's real entry block. The synthetic instructions
// carry the method declaration's location.
func (b *builder) synthesizeEntry(id string, method *semantics.Symbol, loc Location, realEntry string) *BasicBlock {
	bb := NewBasicBlock(id)
	b.block = bb

	args := make([]Expression, 0, len(method.Params))
	for _, p := range method.Params {
		args = append(args, VarExpr(p.Name))
	}
	b.emit(Instruction{
		Location: loc,
		MethodID: MethodIDEntryPoint,
		Variable: b.freshTemp(),
		Args:     args,
	})

	for _, p := range method.Params {
		for _, attr := range p.Attrs {
			if !attr.IsValid() {
				continue
			}
			temp := b.freshTemp()
			b.emit(Instruction{
				Location: loc,
				MethodID: ResolveMethodID(b.model, attr),
				Variable: temp,
				Args:     []Expression{},
			})
			b.emit(Instruction{
				Location: loc,
				MethodID: MethodIDAnnotation,
				Variable: p.Name,
				Args:     []Expression{VarExpr(temp)},
			})
		}
	}

	bb.SetJump([]string{realEntry})
	return bb
}
