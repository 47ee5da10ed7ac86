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

// Package lang models the syntax of the analyzed language as an arena of node
// records. Nodes are referenced by index-based NodeIDs rather than by object
// links, so trees are flat, cheap to serialize and carry no reference cycles.
// The package is purely syntactic: semantic facts about a node (its resolved
// symbol, its type) live in the semantics package, keyed by NodeID.
package lang

import "fmt"

// NodeID identifies a node within one Tree. The zero value means "no node".
type NodeID uint32

// NoNode is the absent-node sentinel.
const NoNode NodeID = 0

// IsValid reports whether the id refers to a node.
func (id NodeID) IsValid() bool { return id != NoNode }

// NodeKind discriminates the syntactic form of a node. Only the kinds the
// instruction builder dispatches on are enumerated; anything else is
// represented as KindOther and lowered to the constant expression.
type NodeKind int

const (
	// KindOther is any syntactic form the builder has no special handling for.
	KindOther NodeKind = iota

	// KindAdd is a binary addition, operands [left, right].
	KindAdd

	// KindAssign is a simple assignment, operands [target, value].
	KindAssign

	// KindInvocation is a call, operands [callee, args...]. The callee is an
	// identifier or a member access; the invocation node itself carries the
	// resolution binding for the invoked method.
	KindInvocation

	// KindIdentifier is a simple name, no operands.
	KindIdentifier

	// KindMemberAccess is a qualified name, operands [receiver]. The node
	// carries the binding for the accessed member.
	KindMemberAccess

	// KindDeclarator is a variable declarator, operands [initializer] or
	// empty. The node carries the binding for the declared local.
	KindDeclarator

	// KindReturn is a return statement, operands [value] or empty.
	KindReturn

	// KindObjectCreation is a constructor invocation, operands [args...].
	KindObjectCreation

	// KindParen is a parenthesized expression, operands [inner]. The builder
	// strips these before memoizing.
	KindParen

	// KindLiteral is a literal token, no operands.
	KindLiteral
)

var kindNames = map[NodeKind]string{
	KindOther:          "other",
	KindAdd:            "add",
	KindAssign:         "assign",
	KindInvocation:     "invocation",
	KindIdentifier:     "identifier",
	KindMemberAccess:   "member-access",
	KindDeclarator:     "declarator",
	KindReturn:         "return",
	KindObjectCreation: "object-creation",
	KindParen:          "paren",
	KindLiteral:        "literal",
}

func (k NodeKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "other"
}

// KindFromName returns the kind named by s, or KindOther when the name is not
// recognized. Unrecognized kinds are not an error: the builder folds them.
func KindFromName(s string) NodeKind {
	for k, name := range kindNames {
		if name == s {
			return k
		}
	}
	return KindOther
}

// Range is a half-open source position: 0-based lines and columns, with the
// end column exclusive. A nil *Range on a node means the position is unknown,
// which is fatal for any node that must produce an instruction.
type Range struct {
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// Node is one syntax record. Operands are kind-specific (see the kind
// comments); Text is the raw source text, used only by the graph serializer.
type Node struct {
	Kind     NodeKind
	Operands []NodeID
	Text     string
	Range    *Range
}

// Tree is an arena of nodes for one file. Index 0 is reserved so that NoNode
// never aliases a real record.
type Tree struct {
	nodes []Node
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{nodes: make([]Node, 1)}
}

// Add appends a node and returns its id.
func (t *Tree) Add(n Node) NodeID {
	t.nodes = append(t.nodes, n)
	return NodeID(len(t.nodes) - 1)
}

// Node returns the node record for id. It panics on NoNode or an id from
// another tree; callers hold ids handed out by this tree's Add.
func (t *Tree) Node(id NodeID) *Node {
	if id == NoNode || int(id) >= len(t.nodes) {
		panic(fmt.Sprintf("lang: node id %d out of range", id))
	}
	return &t.nodes[id]
}

// Contains reports whether id refers to a node of this tree.
func (t *Tree) Contains(id NodeID) bool {
	return id != NoNode && int(id) < len(t.nodes)
}

// Len returns the number of nodes in the tree, excluding the reserved slot.
func (t *Tree) Len() int { return len(t.nodes) - 1 }

// Unparen returns id with any parenthesization layers stripped. Since the
// expression cache is keyed by node identity, two references that differ only
// in redundant parentheses must resolve to the same id.
func (t *Tree) Unparen(id NodeID) NodeID {
	for id.IsValid() {
		n := t.Node(id)
		if n.Kind != KindParen || len(n.Operands) != 1 {
			return id
		}
		id = n.Operands[0]
	}
	return id
}
