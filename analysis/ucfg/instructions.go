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

// Operation identities reserved for instructions that do not name a callable
// of the analyzed program. They are stable tokens of the wire format; the
// downstream engine matches them literally. The leading underscores keep them
// out of the namespace of real canonical method identities.
const (
	// MethodIDAssignment marks a plain assignment to a traced variable.
	MethodIDAssignment = "__assignment"
	// MethodIDConcat marks a string concatenation.
	MethodIDConcat = "__concat"
	// MethodIDAnnotation links an attribute value to an entry-point parameter.
	MethodIDAnnotation = "__annotation"
	// MethodIDEntryPoint introduces the parameters of an entry-point method.
	MethodIDEntryPoint = "__entrypoint"
	// MethodIDUnknown stands for a callable whose symbol could not be
	// resolved.
	MethodIDUnknown = "__unknown"
)

// Instruction is one IR operation: an operation identity applied to argument
// expressions, storing its result in the named variable, at a source
// location.
type Instruction struct {
	Location Location     `json:"location"`
	MethodID string       `json:"method_id"`
	Variable string       `json:"variable"`
	Args     []Expression `json:"args"`
}

// Jump is the terminal of a block that transfers control to one of the listed
// destination blocks. The order of destinations is the CFG's successor order.
type Jump struct {
	Destinations []string `json:"destinations"`
}

// Return is the terminal of a block that leaves the method with the given
// expression.
type Return struct {
	ReturnedExpression Expression `json:"returned_expression"`
}

// BasicBlock is one node of the UCFG: a stable string id, the lowered
// instructions in emission order, and exactly one terminal. At most one of
// Jump and Ret is non-nil once assembly finishes; use SetJump and SetReturn
// to keep it that way.
type BasicBlock struct {
	ID           string        `json:"id"`
	Instructions []Instruction `json:"instructions"`
	Jump         *Jump         `json:"jump,omitempty"`
	Ret          *Return       `json:"ret,omitempty"`
}

// NewBasicBlock returns an empty block with the given id and no terminal.
func NewBasicBlock(id string) *BasicBlock {
	return &BasicBlock{ID: id, Instructions: []Instruction{}}
}

// SetReturn makes the block terminal a Return of e, dropping any previously
// decided terminal.
func (b *BasicBlock) SetReturn(e Expression) {
	b.Ret = &Return{ReturnedExpression: e}
	b.Jump = nil
}

// SetJump makes the block terminal a Jump to the given destinations, dropping
// any previously decided terminal.
func (b *BasicBlock) SetJump(destinations []string) {
	b.Jump = &Jump{Destinations: destinations}
	b.Ret = nil
}

// HasTerminal reports whether a terminal has been decided.
func (b *BasicBlock) HasTerminal() bool {
	return b.Jump != nil || b.Ret != nil
}

// UCFG is the compiled record for one method.
type UCFG struct {
	MethodID    string        `json:"method_id"`
	Location    Location      `json:"location"`
	Parameters  []string      `json:"parameters"`
	BasicBlocks []*BasicBlock `json:"basic_blocks"`
	Entries     []string      `json:"entries"`
}
