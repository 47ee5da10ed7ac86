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
	"strconv"

	"github.com/awslabs/ucfg-tools/analysis/cfg"
	"github.com/awslabs/ucfg-tools/analysis/lang"
	"github.com/awslabs/ucfg-tools/analysis/semantics"
	"github.com/awslabs/ucfg-tools/internal/funcutil"
)

// builder lowers syntax nodes into instructions. One builder serves one
// method build: the expression cache and the temp counter span every block of
// the method, while the target block changes as the assembler walks the CFG.
type builder struct {
	model  *semantics.Model
	tree   *lang.Tree
	fileID string

	// cache memoizes lowered nodes by identity, after paren stripping, so a
	// shared subexpression emits its instructions once.
	cache     map[lang.NodeID]Expression
	tempCount int
	block     *BasicBlock
}

func newBuilder(model *semantics.Model, tree *lang.Tree, fileID string) *builder {
	return &builder{
		model:  model,
		tree:   tree,
		fileID: fileID,
		cache:  make(map[lang.NodeID]Expression),
	}
}

// buildBlock lowers every statement of block into bb, in statement order.
func (b *builder) buildBlock(bb *BasicBlock, block *cfg.Block) error {
	b.block = bb
	for _, stmt := range block.Statements {
		if _, err := b.buildExpression(stmt); err != nil {
			return err
		}
	}
	return nil
}

// buildExpression lowers one node, memoized. Re-lowering a node returns its
// cached expression and emits nothing.
func (b *builder) buildExpression(id lang.NodeID) (Expression, error) {
	if !id.IsValid() {
		return ConstExpr(), nil
	}
	id = b.tree.Unparen(id)
	if e, ok := b.cache[id]; ok {
		return e, nil
	}
	e, err := b.lower(id)
	if err != nil {
		return Expression{}, err
	}
	b.cache[id] = e
	return e, nil
}

func (b *builder) lower(id lang.NodeID) (Expression, error) {
	node := b.tree.Node(id)
	switch node.Kind {
	case lang.KindAdd:
		return b.lowerConcat(id, node)
	case lang.KindAssign:
		return b.lowerAssign(id, node)
	case lang.KindInvocation:
		return b.lowerInvocation(id, node)
	case lang.KindIdentifier, lang.KindMemberAccess:
		return b.lowerReference(id)
	case lang.KindDeclarator:
		return b.lowerDeclarator(id, node)
	case lang.KindReturn:
		return b.lowerReturn(node)
	case lang.KindObjectCreation:
		return b.lowerCreation(id, node)
	default:
		// Anything the lowering has no rule for carries no string
		// information.
		return ConstExpr(), nil
	}
}

// lowerConcat treats binary addition as string concatenation. The argument
// order is right operand first, then left: the downstream engine consumes
// that exact order, so it must not be normalized.
func (b *builder) lowerConcat(id lang.NodeID, node *lang.Node) (Expression, error) {
	if len(node.Operands) != 2 {
		return ConstExpr(), nil
	}
	right, err := b.buildExpression(node.Operands[1])
	if err != nil {
		return Expression{}, err
	}
	left, err := b.buildExpression(node.Operands[0])
	if err != nil {
		return Expression{}, err
	}
	loc, err := b.location(id)
	if err != nil {
		return Expression{}, err
	}
	temp := b.freshTemp()
	b.emit(Instruction{
		Location: loc,
		MethodID: MethodIDConcat,
		Variable: temp,
		Args:     []Expression{right, left},
	})
	return VarExpr(temp), nil
}

// lowerAssign builds the right-hand side first, so its nested instructions
// exist whatever becomes of the assignment itself. A string-typed local or
// parameter target becomes an assignment instruction; a property target
// becomes a call to its setter; any other target folds away.
func (b *builder) lowerAssign(id lang.NodeID, node *lang.Node) (Expression, error) {
	if len(node.Operands) != 2 {
		return ConstExpr(), nil
	}
	value, err := b.buildExpression(node.Operands[1])
	if err != nil {
		return Expression{}, err
	}
	target := b.model.SymbolOf(b.tree.Unparen(node.Operands[0]))
	if b.model.IsStringVariable(target) {
		loc, err := b.location(id)
		if err != nil {
			return Expression{}, err
		}
		name := b.model.Symbol(target).Name
		b.emit(Instruction{
			Location: loc,
			MethodID: MethodIDAssignment,
			Variable: name,
			Args:     []Expression{value},
		})
		return VarExpr(name), nil
	}
	if target.IsValid() {
		if sym := b.model.Symbol(target); sym.Kind == semantics.KindProperty && sym.Setter.IsValid() {
			return b.emitCall(id, sym.Setter, []Expression{value})
		}
	}
	return ConstExpr(), nil
}

// lowerInvocation resolves the callee before anything else; an unresolved
// callee folds the whole call without lowering its arguments. Once resolved,
// all arguments are built before the keep-or-fold decision, so side effects
// nested in arguments always surface.
func (b *builder) lowerInvocation(id lang.NodeID, node *lang.Node) (Expression, error) {
	if len(node.Operands) == 0 {
		return ConstExpr(), nil
	}
	calleeNode := b.tree.Unparen(node.Operands[0])
	callee := b.model.SymbolOf(calleeNode)
	if !callee.IsValid() || !b.model.Symbol(callee).IsCallable() {
		return ConstExpr(), nil
	}
	sym := b.model.Symbol(callee)
	args := make([]Expression, 0, len(node.Operands))
	// Instance calls on the string type and extension methods invoked in
	// reduced form track the receiver as a leading argument.
	if cn := b.tree.Node(calleeNode); cn.Kind == lang.KindMemberAccess && len(cn.Operands) == 1 &&
		(b.model.IsString(sym.Owner) || sym.ReducedFrom.IsValid()) {
		recv, err := b.buildExpression(cn.Operands[0])
		if err != nil {
			return Expression{}, err
		}
		args = append(args, recv)
	}
	for _, argID := range node.Operands[1:] {
		arg, err := b.buildExpression(argID)
		if err != nil {
			return Expression{}, err
		}
		args = append(args, arg)
	}
	return b.emitCall(id, callee, args)
}

// lowerReference lowers a plain name or member access. A property reference
// reads through its getter, a string-typed local or parameter becomes a
// variable reference, everything else folds.
func (b *builder) lowerReference(id lang.NodeID) (Expression, error) {
	sym := b.model.SymbolOf(id)
	if !sym.IsValid() {
		return ConstExpr(), nil
	}
	s := b.model.Symbol(sym)
	if s.Kind == semantics.KindProperty {
		if !s.Getter.IsValid() {
			return ConstExpr(), nil
		}
		return b.emitCall(id, s.Getter, nil)
	}
	if b.model.IsStringVariable(sym) {
		return VarExpr(s.Name), nil
	}
	return ConstExpr(), nil
}

// lowerDeclarator handles a variable declaration with an initializer. Only
// string-typed variables leave a trace; their initialization becomes an
// assignment instruction naming the declared variable.
func (b *builder) lowerDeclarator(id lang.NodeID, node *lang.Node) (Expression, error) {
	if len(node.Operands) == 0 {
		return ConstExpr(), nil
	}
	declared := b.model.SymbolOf(id)
	if !b.model.IsStringVariable(declared) {
		return ConstExpr(), nil
	}
	value, err := b.buildExpression(node.Operands[0])
	if err != nil {
		return Expression{}, err
	}
	loc, err := b.location(id)
	if err != nil {
		return Expression{}, err
	}
	name := b.model.Symbol(declared).Name
	b.emit(Instruction{
		Location: loc,
		MethodID: MethodIDAssignment,
		Variable: name,
		Args:     []Expression{value},
	})
	return VarExpr(name), nil
}

// lowerReturn decides the owning block's terminal. A bare return leaves the
// method with the constant.
func (b *builder) lowerReturn(node *lang.Node) (Expression, error) {
	returned := ConstExpr()
	if len(node.Operands) == 1 {
		e, err := b.buildExpression(node.Operands[0])
		if err != nil {
			return Expression{}, err
		}
		returned = e
	}
	b.block.SetReturn(returned)
	return ConstExpr(), nil
}

// lowerCreation treats object creation as a call to the resolved constructor.
func (b *builder) lowerCreation(id lang.NodeID, node *lang.Node) (Expression, error) {
	ctor := b.model.SymbolOf(id)
	if !ctor.IsValid() || !b.model.Symbol(ctor).IsCallable() {
		return ConstExpr(), nil
	}
	args := make([]Expression, 0, len(node.Operands))
	for _, argID := range node.Operands {
		arg, err := b.buildExpression(argID)
		if err != nil {
			return Expression{}, err
		}
		args = append(args, arg)
	}
	return b.emitCall(id, ctor, args)
}

// emitCall applies the call-inclusion filter and, when the call is kept,
// appends a call instruction at the node's location. A call matters when the
// callee accepts or returns a string, or when some already-built argument is
// a variable reference and may carry a traced value. A folded call emits
// nothing and needs no location.
func (b *builder) emitCall(id lang.NodeID, callee semantics.SymbolID, args []Expression) (Expression, error) {
	if args == nil {
		args = []Expression{}
	}
	keep := b.model.AcceptsString(callee) || b.model.ReturnsString(callee) ||
		funcutil.Exists(args, Expression.IsVar)
	if !keep {
		return ConstExpr(), nil
	}
	loc, err := b.location(id)
	if err != nil {
		return Expression{}, err
	}
	temp := b.freshTemp()
	b.emit(Instruction{
		Location: loc,
		MethodID: ResolveMethodID(b.model, callee),
		Variable: temp,
		Args:     args,
	})
	if b.model.ReturnsString(callee) {
		return VarExpr(temp), nil
	}
	return ConstExpr(), nil
}

func (b *builder) emit(ins Instruction) {
	b.block.Instructions = append(b.block.Instructions, ins)
}

// freshTemp returns the next generated variable name. Uniqueness within the
// build is all it guarantees.
func (b *builder) freshTemp() string {
	name := "%" + strconv.Itoa(b.tempCount)
	b.tempCount++
	return name
}

func (b *builder) location(id lang.NodeID) (Location, error) {
	node := b.tree.Node(id)
	loc, err := TranslateRange(b.fileID, node.Range)
	if err != nil {
		return Location{}, fmt.Errorf("%s node %d: %w", node.Kind, id, err)
	}
	return loc, nil
}
