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

// Package semantics carries the symbol and type facts resolved by the
// frontend. Like the syntax tree and the control-flow graph, these facts are
// externally computed inputs: the compiler only queries them, it never
// performs name or overload resolution itself. Unresolved references are a
// normal condition, modeled as the absence of a binding.
package semantics

import (
	"fmt"

	"github.com/awslabs/ucfg-tools/analysis/lang"
)

// SymbolID identifies a symbol within one Model. 0 means unresolved.
type SymbolID uint32

// TypeID identifies a type within one Model. 0 means no/unknown type.
type TypeID uint32

// Sentinels for absent references.
const (
	NoSymbol SymbolID = 0
	NoType   TypeID   = 0
)

// IsValid reports whether the id refers to a symbol.
func (id SymbolID) IsValid() bool { return id != NoSymbol }

// IsValid reports whether the id refers to a type.
func (id TypeID) IsValid() bool { return id != NoType }

// SymbolKind discriminates the symbol records the compiler cares about.
// Anything else the frontend resolved is recorded as KindOther and folds to
// a constant during lowering.
type SymbolKind int

const (
	KindOther SymbolKind = iota
	KindMethod
	KindConstructor
	KindProperty
	KindParameter
	KindLocal
	KindField
)

var symbolKindNames = map[SymbolKind]string{
	KindOther:       "other",
	KindMethod:      "method",
	KindConstructor: "ctor",
	KindProperty:    "property",
	KindParameter:   "param",
	KindLocal:       "local",
	KindField:       "field",
}

func (k SymbolKind) String() string {
	if s, ok := symbolKindNames[k]; ok {
		return s
	}
	return "other"
}

// SymbolKindFromName returns the kind named by s, or KindOther when the name
// is not recognized.
func SymbolKindFromName(s string) SymbolKind {
	for k, name := range symbolKindNames {
		if name == s {
			return k
		}
	}
	return KindOther
}

// Param is one formal parameter of a callable symbol: its declared name, its
// type, and the constructors of the attributes applied to it. Attributes
// whose constructor the frontend could not resolve are simply not listed.
type Param struct {
	Name  string
	Type  TypeID
	Attrs []SymbolID
}

// Symbol is one resolved program entity.
//
// Display is the fully qualified display string of the symbol's original
// definition, precomputed by the frontend; callable identity canonicalization
// reads it as-is. For extension methods resolved in reduced (instance-call)
// form, ReducedFrom names the unreduced original definition. For methods that
// explicitly implement an interface member, Implements names that member.
// Properties carry their accessor methods in Getter and Setter.
type Symbol struct {
	Kind      SymbolKind
	Name      string
	Namespace string
	Container string
	Display   string

	// Owner is the type declaring the symbol, when the frontend recorded it.
	Owner TypeID
	// Type is the value type of a parameter, local, field, or property.
	Type TypeID
	// Return is the return type of a callable; NoType means void.
	Return TypeID

	Params      []Param
	ReducedFrom SymbolID
	Implements  SymbolID
	Getter      SymbolID
	Setter      SymbolID
}

// IsCallable reports whether the symbol can be invoked.
func (s *Symbol) IsCallable() bool {
	return s.Kind == KindMethod || s.Kind == KindConstructor
}

// Type is one entry of the type table. The compiler only ever asks one
// question of a type, so the record holds exactly that answer.
type Type struct {
	Name     string
	IsString bool
}

// Model is the fact table for one analyzed file: arenas of types and symbols
// plus the node-to-symbol resolution bindings. Index 0 of each arena is
// reserved so the zero id never aliases a real record.
type Model struct {
	types    []Type
	symbols  []Symbol
	bindings map[lang.NodeID]SymbolID
}

// NewModel returns an empty fact table.
func NewModel() *Model {
	return &Model{
		types:    make([]Type, 1),
		symbols:  make([]Symbol, 1),
		bindings: make(map[lang.NodeID]SymbolID),
	}
}

// AddType appends a type record and returns its id.
func (m *Model) AddType(t Type) TypeID {
	m.types = append(m.types, t)
	return TypeID(len(m.types) - 1)
}

// AddSymbol appends a symbol record and returns its id.
func (m *Model) AddSymbol(s Symbol) SymbolID {
	m.symbols = append(m.symbols, s)
	return SymbolID(len(m.symbols) - 1)
}

// Bind records that node n resolves to symbol s.
func (m *Model) Bind(n lang.NodeID, s SymbolID) {
	m.bindings[n] = s
}

// SymbolOf returns the symbol a node resolves to, or NoSymbol when the
// frontend left it unresolved.
func (m *Model) SymbolOf(n lang.NodeID) SymbolID {
	return m.bindings[n]
}

// Symbol returns the record for id. It panics on NoSymbol or a foreign id;
// callers check IsValid first.
func (m *Model) Symbol(id SymbolID) *Symbol {
	if id == NoSymbol || int(id) >= len(m.symbols) {
		panic(fmt.Sprintf("semantics: symbol id %d out of range", id))
	}
	return &m.symbols[id]
}

// Type returns the record for id, panicking on NoType or a foreign id.
func (m *Model) Type(id TypeID) *Type {
	if id == NoType || int(id) >= len(m.types) {
		panic(fmt.Sprintf("semantics: type id %d out of range", id))
	}
	return &m.types[id]
}

// NumSymbols returns the number of symbol records, excluding the reserved
// slot.
func (m *Model) NumSymbols() int { return len(m.symbols) - 1 }

// NumTypes returns the number of type records, excluding the reserved slot.
func (m *Model) NumTypes() int { return len(m.types) - 1 }

// IsString reports whether id names the string type. The unknown type is not
// string.
func (m *Model) IsString(id TypeID) bool {
	if !id.IsValid() || int(id) >= len(m.types) {
		return false
	}
	return m.types[id].IsString
}

// AcceptsString reports whether any formal parameter of the callable is
// string-typed. The receiver of an instance call is not a formal parameter
// and does not count.
func (m *Model) AcceptsString(id SymbolID) bool {
	if !id.IsValid() {
		return false
	}
	for _, p := range m.Symbol(id).Params {
		if m.IsString(p.Type) {
			return true
		}
	}
	return false
}

// ReturnsString reports whether the callable returns a string.
func (m *Model) ReturnsString(id SymbolID) bool {
	if !id.IsValid() {
		return false
	}
	return m.IsString(m.Symbol(id).Return)
}

// IsStringVariable reports whether id is a string-typed local variable or
// parameter, the only symbols a plain name can flow through as a traced
// variable.
func (m *Model) IsStringVariable(id SymbolID) bool {
	if !id.IsValid() {
		return false
	}
	s := m.Symbol(id)
	if s.Kind != KindLocal && s.Kind != KindParameter {
		return false
	}
	return m.IsString(s.Type)
}
