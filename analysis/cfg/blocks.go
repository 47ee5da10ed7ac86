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

// Package cfg holds the control-flow graph records this module consumes. The
// graph is externally owned: it arrives already partitioned into blocks with
// their successor edges decided, and this package adds no construction logic.
// Blocks live in an arena and reference each other by BlockID, so graphs with
// back edges carry no pointer cycles.
package cfg

import (
	"fmt"

	"github.com/awslabs/ucfg-tools/analysis/lang"
)

// BlockID identifies a block within one Graph. The zero value means "no
// block".
type BlockID uint32

// NoBlock is the absent-block sentinel.
const NoBlock BlockID = 0

// IsValid reports whether the id refers to a block.
func (id BlockID) IsValid() bool { return id != NoBlock }

// BlockKind is the variant of a CFG block as decided by the graph builder.
type BlockKind int

const (
	// KindBlock is a plain straight-line block.
	KindBlock BlockKind = iota

	// KindExit is the designated exit block of the graph.
	KindExit

	// KindSimple is an unconditional branch block.
	KindSimple

	// KindBinaryBranch is a two-way conditional; TrueSucc and FalseSucc
	// distinguish its successors.
	KindBinaryBranch

	// KindForInitializer is the loop-initialization block of a for statement.
	KindForInitializer

	// KindJump ends in an explicit jump statement (break, continue, return,
	// goto, throw).
	KindJump

	// KindLock is the body of a lock statement.
	KindLock

	// KindUsingEnd closes a using scope.
	KindUsingEnd

	// KindForeachProducer evaluates the collection of a foreach loop.
	KindForeachProducer
)

var blockKindNames = map[BlockKind]string{
	KindBlock:           "block",
	KindExit:            "exit",
	KindSimple:          "simple",
	KindBinaryBranch:    "binary-branch",
	KindForInitializer:  "for-initializer",
	KindJump:            "jump",
	KindLock:            "lock",
	KindUsingEnd:        "using-end",
	KindForeachProducer: "foreach-producer",
}

func (k BlockKind) String() string {
	if s, ok := blockKindNames[k]; ok {
		return s
	}
	return "block"
}

// BlockKindFromName returns the kind named by s. Unrecognized names map to
// the plain block kind; the serializer treats those as generic nodes.
func BlockKindFromName(s string) BlockKind {
	for k, name := range blockKindNames {
		if name == s {
			return k
		}
	}
	return KindBlock
}

// Block is one CFG node: an ordered list of statement-level syntax nodes, the
// successor blocks in the graph builder's order, and, for branch-like
// variants, the statement that decided the branch. For binary branches,
// TrueSucc and FalseSucc name the two successors by id; for every other kind
// they are NoBlock.
type Block struct {
	Kind       BlockKind
	Statements []lang.NodeID
	Successors []BlockID
	TrueSucc   BlockID
	FalseSucc  BlockID
	Branch     lang.NodeID
}

// Graph is an arena of blocks for one method, with designated entry and exit
// blocks. Index 0 is reserved so NoBlock never aliases a real record.
type Graph struct {
	blocks []Block
	Entry  BlockID
	Exit   BlockID
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{blocks: make([]Block, 1)}
}

// Add appends a block and returns its id.
func (g *Graph) Add(b Block) BlockID {
	g.blocks = append(g.blocks, b)
	return BlockID(len(g.blocks) - 1)
}

// Block returns the record for id. It panics on NoBlock or a foreign id.
func (g *Graph) Block(id BlockID) *Block {
	if id == NoBlock || int(id) >= len(g.blocks) {
		panic(fmt.Sprintf("cfg: block id %d out of range", id))
	}
	return &g.blocks[id]
}

// Contains reports whether id refers to a block of this graph.
func (g *Graph) Contains(id BlockID) bool {
	return id != NoBlock && int(id) < len(g.blocks)
}

// Len returns the number of blocks, excluding the reserved slot.
func (g *Graph) Len() int { return len(g.blocks) - 1 }

// BlockIDs returns every block id in arena order. This is the CFG-declared
// order that the assembler and the serializer must preserve.
func (g *Graph) BlockIDs() []BlockID {
	ids := make([]BlockID, 0, g.Len())
	for i := 1; i < len(g.blocks); i++ {
		ids = append(ids, BlockID(i))
	}
	return ids
}
