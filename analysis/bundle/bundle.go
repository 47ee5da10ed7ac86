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

// Package bundle loads method bundles: yaml documents carrying the
// already-materialized inputs of the compiler for one analyzed file. A bundle
// holds the file id, the type and symbol fact tables, the syntax node records
// and, per method, the control-flow graph and the method's identity facts.
//
// The loader validates every id reference and rejects dangling ones; it does
// no block partitioning, no branch detection and never invents source
// locations. Unrecognized kind names are not errors: they map to the generic
// kind and the compiler degrades accordingly.
package bundle

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/awslabs/ucfg-tools/analysis/cfg"
	"github.com/awslabs/ucfg-tools/analysis/lang"
	"github.com/awslabs/ucfg-tools/analysis/semantics"
)

// Method is one compilable method of a bundle: the method symbol, the source
// range of its declaration and its control-flow graph.
type Method struct {
	Symbol semantics.SymbolID
	Range  *lang.Range
	Graph  *cfg.Graph
}

// Bundle is the materialized compiler input for one analyzed file.
type Bundle struct {
	File    string
	Tree    *lang.Tree
	Model   *semantics.Model
	Methods []Method
}

// Record types mirror the yaml schema. All ids are bundle-scoped positive
// integers chosen by the producer; 0 (or an absent key) marks an optional
// reference as empty.

type typeRecord struct {
	ID     int    `yaml:"id"`
	Name   string `yaml:"name"`
	String bool   `yaml:"string"`
}

type paramRecord struct {
	Name  string `yaml:"name"`
	Type  int    `yaml:"type"`
	Attrs []int  `yaml:"attrs"`
}

type symbolRecord struct {
	ID          int           `yaml:"id"`
	Kind        string        `yaml:"kind"`
	Name        string        `yaml:"name"`
	Namespace   string        `yaml:"namespace"`
	Container   string        `yaml:"container"`
	Display     string        `yaml:"display"`
	Owner       int           `yaml:"owner"`
	Type        int           `yaml:"type"`
	Return      int           `yaml:"return"`
	Params      []paramRecord `yaml:"params"`
	ReducedFrom int           `yaml:"reduced_from"`
	Implements  int           `yaml:"implements"`
	Getter      int           `yaml:"getter"`
	Setter      int           `yaml:"setter"`
}

type rangeRecord struct {
	StartLine int `yaml:"start_line"`
	StartCol  int `yaml:"start_col"`
	EndLine   int `yaml:"end_line"`
	EndCol    int `yaml:"end_col"`
}

type nodeRecord struct {
	ID       int          `yaml:"id"`
	Kind     string       `yaml:"kind"`
	Text     string       `yaml:"text"`
	Operands []int        `yaml:"operands"`
	Symbol   int          `yaml:"symbol"`
	Range    *rangeRecord `yaml:"range"`
}

type blockRecord struct {
	ID         int    `yaml:"id"`
	Kind       string `yaml:"kind"`
	Statements []int  `yaml:"statements"`
	Successors []int  `yaml:"successors"`
	TrueSucc   int    `yaml:"true_successor"`
	FalseSucc  int    `yaml:"false_successor"`
	Branch     int    `yaml:"branch"`
}

type methodRecord struct {
	Symbol int           `yaml:"symbol"`
	Range  *rangeRecord  `yaml:"range"`
	Blocks []blockRecord `yaml:"blocks"`
	Entry  int           `yaml:"entry"`
	Exit   int           `yaml:"exit"`
}

type bundleFile struct {
	File    string         `yaml:"file"`
	Types   []typeRecord   `yaml:"types"`
	Symbols []symbolRecord `yaml:"symbols"`
	Nodes   []nodeRecord   `yaml:"nodes"`
	Methods []methodRecord `yaml:"methods"`
}

// Load reads and parses the bundle in the named file.
func Load(filename string) (*Bundle, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not read bundle file: %w", err)
	}
	b, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("bundle %s: %w", filename, err)
	}
	return b, nil
}

// Parse builds a Bundle from yaml data, validating every id reference.
func Parse(data []byte) (*Bundle, error) {
	var bf bundleFile
	if err := yaml.Unmarshal(data, &bf); err != nil {
		return nil, fmt.Errorf("could not unmarshal bundle: %w", err)
	}
	if bf.File == "" {
		return nil, fmt.Errorf("bundle names no file")
	}

	b := &Bundle{File: bf.File, Tree: lang.NewTree(), Model: semantics.NewModel()}
	types, err := loadTypes(b.Model, bf.Types)
	if err != nil {
		return nil, err
	}
	symbols, err := loadSymbols(b.Model, bf.Symbols, types)
	if err != nil {
		return nil, err
	}
	nodes, err := loadNodes(b.Tree, b.Model, bf.Nodes, symbols)
	if err != nil {
		return nil, err
	}
	for i, mr := range bf.Methods {
		m, err := loadMethod(mr, nodes, symbols)
		if err != nil {
			return nil, fmt.Errorf("method %d: %w", i, err)
		}
		b.Methods = append(b.Methods, m)
	}
	return b, nil
}

func loadTypes(model *semantics.Model, records []typeRecord) (map[int]semantics.TypeID, error) {
	ids := make(map[int]semantics.TypeID, len(records))
	for _, r := range records {
		if r.ID <= 0 {
			return nil, fmt.Errorf("type %q: id must be positive, got %d", r.Name, r.ID)
		}
		if _, seen := ids[r.ID]; seen {
			return nil, fmt.Errorf("duplicate type id %d", r.ID)
		}
		ids[r.ID] = model.AddType(semantics.Type{Name: r.Name, IsString: r.String})
	}
	return ids, nil
}

// loadSymbols allocates all symbol records first and patches the
// symbol-to-symbol references in a second pass, so records may reference each
// other regardless of their order in the document.
func loadSymbols(model *semantics.Model, records []symbolRecord,
	types map[int]semantics.TypeID) (map[int]semantics.SymbolID, error) {
	ids := make(map[int]semantics.SymbolID, len(records))
	for _, r := range records {
		if r.ID <= 0 {
			return nil, fmt.Errorf("symbol %q: id must be positive, got %d", r.Display, r.ID)
		}
		if _, seen := ids[r.ID]; seen {
			return nil, fmt.Errorf("duplicate symbol id %d", r.ID)
		}
		sym := semantics.Symbol{
			Kind:      semantics.SymbolKindFromName(r.Kind),
			Name:      r.Name,
			Namespace: r.Namespace,
			Container: r.Container,
			Display:   r.Display,
		}
		var err error
		if sym.Owner, err = lookupType(types, r.Owner); err != nil {
			return nil, fmt.Errorf("symbol %d: owner: %w", r.ID, err)
		}
		if sym.Type, err = lookupType(types, r.Type); err != nil {
			return nil, fmt.Errorf("symbol %d: type: %w", r.ID, err)
		}
		if sym.Return, err = lookupType(types, r.Return); err != nil {
			return nil, fmt.Errorf("symbol %d: return: %w", r.ID, err)
		}
		for _, p := range r.Params {
			pt, err := lookupType(types, p.Type)
			if err != nil {
				return nil, fmt.Errorf("symbol %d: param %q: %w", r.ID, p.Name, err)
			}
			sym.Params = append(sym.Params, semantics.Param{Name: p.Name, Type: pt})
		}
		ids[r.ID] = model.AddSymbol(sym)
	}

	for _, r := range records {
		sym := model.Symbol(ids[r.ID])
		var err error
		if sym.ReducedFrom, err = lookupSymbol(ids, r.ReducedFrom); err != nil {
			return nil, fmt.Errorf("symbol %d: reduced_from: %w", r.ID, err)
		}
		if sym.Implements, err = lookupSymbol(ids, r.Implements); err != nil {
			return nil, fmt.Errorf("symbol %d: implements: %w", r.ID, err)
		}
		if sym.Getter, err = lookupSymbol(ids, r.Getter); err != nil {
			return nil, fmt.Errorf("symbol %d: getter: %w", r.ID, err)
		}
		if sym.Setter, err = lookupSymbol(ids, r.Setter); err != nil {
			return nil, fmt.Errorf("symbol %d: setter: %w", r.ID, err)
		}
		for i, p := range r.Params {
			for _, attr := range p.Attrs {
				a, err := lookupSymbol(ids, attr)
				if err != nil {
					return nil, fmt.Errorf("symbol %d: param %q: attr: %w", r.ID, p.Name, err)
				}
				sym.Params[i].Attrs = append(sym.Params[i].Attrs, a)
			}
		}
	}
	return ids, nil
}

// loadNodes allocates all node records first and patches operand references
// in a second pass.
func loadNodes(tree *lang.Tree, model *semantics.Model, records []nodeRecord,
	symbols map[int]semantics.SymbolID) (map[int]lang.NodeID, error) {
	ids := make(map[int]lang.NodeID, len(records))
	for _, r := range records {
		if r.ID <= 0 {
			return nil, fmt.Errorf("node %q: id must be positive, got %d", r.Text, r.ID)
		}
		if _, seen := ids[r.ID]; seen {
			return nil, fmt.Errorf("duplicate node id %d", r.ID)
		}
		id := tree.Add(lang.Node{
			Kind:  lang.KindFromName(r.Kind),
			Text:  r.Text,
			Range: rangeOf(r.Range),
		})
		ids[r.ID] = id
		if r.Symbol != 0 {
			sym, err := lookupSymbol(symbols, r.Symbol)
			if err != nil {
				return nil, fmt.Errorf("node %d: %w", r.ID, err)
			}
			model.Bind(id, sym)
		}
	}

	for _, r := range records {
		node := tree.Node(ids[r.ID])
		for _, op := range r.Operands {
			o, err := lookupNode(ids, op)
			if err != nil {
				return nil, fmt.Errorf("node %d: operand: %w", r.ID, err)
			}
			node.Operands = append(node.Operands, o)
		}
	}
	return ids, nil
}

func loadMethod(r methodRecord, nodes map[int]lang.NodeID,
	symbols map[int]semantics.SymbolID) (Method, error) {
	sym, err := lookupSymbol(symbols, r.Symbol)
	if err != nil {
		return Method{}, err
	}
	if len(r.Blocks) == 0 {
		return Method{}, fmt.Errorf("method has no blocks")
	}

	g := cfg.NewGraph()
	blocks := make(map[int]cfg.BlockID, len(r.Blocks))
	for _, br := range r.Blocks {
		if br.ID <= 0 {
			return Method{}, fmt.Errorf("block id must be positive, got %d", br.ID)
		}
		if _, seen := blocks[br.ID]; seen {
			return Method{}, fmt.Errorf("duplicate block id %d", br.ID)
		}
		block := cfg.Block{Kind: cfg.BlockKindFromName(br.Kind)}
		for _, st := range br.Statements {
			s, err := lookupNode(nodes, st)
			if err != nil {
				return Method{}, fmt.Errorf("block %d: statement: %w", br.ID, err)
			}
			block.Statements = append(block.Statements, s)
		}
		if br.Branch != 0 {
			if block.Branch, err = lookupNode(nodes, br.Branch); err != nil {
				return Method{}, fmt.Errorf("block %d: branch: %w", br.ID, err)
			}
		}
		blocks[br.ID] = g.Add(block)
	}

	for _, br := range r.Blocks {
		block := g.Block(blocks[br.ID])
		for _, succ := range br.Successors {
			s, err := lookupBlock(blocks, succ)
			if err != nil {
				return Method{}, fmt.Errorf("block %d: successor: %w", br.ID, err)
			}
			block.Successors = append(block.Successors, s)
		}
		if br.TrueSucc != 0 {
			if block.TrueSucc, err = lookupBlock(blocks, br.TrueSucc); err != nil {
				return Method{}, fmt.Errorf("block %d: true_successor: %w", br.ID, err)
			}
		}
		if br.FalseSucc != 0 {
			if block.FalseSucc, err = lookupBlock(blocks, br.FalseSucc); err != nil {
				return Method{}, fmt.Errorf("block %d: false_successor: %w", br.ID, err)
			}
		}
	}

	if g.Entry, err = lookupBlock(blocks, r.Entry); err != nil {
		return Method{}, fmt.Errorf("entry: %w", err)
	}
	if g.Exit, err = lookupBlock(blocks, r.Exit); err != nil {
		return Method{}, fmt.Errorf("exit: %w", err)
	}
	return Method{Symbol: sym, Range: rangeOf(r.Range), Graph: g}, nil
}

func lookupType(ids map[int]semantics.TypeID, ref int) (semantics.TypeID, error) {
	if ref == 0 {
		return semantics.NoType, nil
	}
	id, ok := ids[ref]
	if !ok {
		return semantics.NoType, fmt.Errorf("unknown type %d", ref)
	}
	return id, nil
}

func lookupSymbol(ids map[int]semantics.SymbolID, ref int) (semantics.SymbolID, error) {
	if ref == 0 {
		return semantics.NoSymbol, nil
	}
	id, ok := ids[ref]
	if !ok {
		return semantics.NoSymbol, fmt.Errorf("unknown symbol %d", ref)
	}
	return id, nil
}

func lookupNode(ids map[int]lang.NodeID, ref int) (lang.NodeID, error) {
	if ref == 0 {
		return lang.NoNode, fmt.Errorf("node reference must be positive, got 0")
	}
	id, ok := ids[ref]
	if !ok {
		return lang.NoNode, fmt.Errorf("unknown node %d", ref)
	}
	return id, nil
}

func lookupBlock(ids map[int]cfg.BlockID, ref int) (cfg.BlockID, error) {
	if ref == 0 {
		return cfg.NoBlock, fmt.Errorf("block reference must be positive, got 0")
	}
	id, ok := ids[ref]
	if !ok {
		return cfg.NoBlock, fmt.Errorf("unknown block %d", ref)
	}
	return id, nil
}

func rangeOf(r *rangeRecord) *lang.Range {
	if r == nil {
		return nil
	}
	return &lang.Range{
		StartLine: r.StartLine,
		StartCol:  r.StartCol,
		EndLine:   r.EndLine,
		EndCol:    r.EndCol,
	}
}
