package render

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/awslabs/ucfg-tools/analysis/cfg"
	"github.com/awslabs/ucfg-tools/analysis/lang"
	"github.com/awslabs/ucfg-tools/analysis/ucfg"
)

// blockLabel is the caption of a block node: the upper-cased first word of
// the kind name, plus the kind of the branching statement when a branch-like
// block records one. Exit blocks, plain blocks and unrecognized kinds show
// the bare caption.
func blockLabel(tree *lang.Tree, block *cfg.Block) string {
	name := block.Kind.String()
	if i := strings.IndexByte(name, '-'); i >= 0 {
		name = name[:i]
	}
	label := strings.ToUpper(name)
	switch block.Kind {
	case cfg.KindBinaryBranch, cfg.KindForInitializer, cfg.KindJump,
		cfg.KindLock, cfg.KindUsingEnd, cfg.KindForeachProducer:
		if block.Branch.IsValid() {
			label += ":" + tree.Node(block.Branch).Kind.String()
		}
	}
	return label
}

func edgeLabel(block *cfg.Block, succ cfg.BlockID) string {
	if block.Kind != cfg.KindBinaryBranch {
		return ""
	}
	switch succ {
	case block.TrueSucc:
		return " [label=\"True\"]"
	case block.FalseSucc:
		return " [label=\"False\"]"
	}
	return ""
}

func escapeDOT(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}

// WriteDot writes a graphviz representation of the control-flow graph to w.
// Each block becomes one node captioned with its kind and listing its raw
// statement text; each successor becomes one edge, unlabeled except for the
// True/False edges out of a binary branch.
func WriteDot(w io.Writer, tree *lang.Tree, graph *cfg.Graph, name string) error {
	if _, err := fmt.Fprintf(w, "digraph \"%s\" {\n", escapeDOT(name)); err != nil {
		return fmt.Errorf("error while writing in file: %w", err)
	}
	if _, err := fmt.Fprintf(w, "  node [shape=box];\n"); err != nil {
		return fmt.Errorf("error while writing in file: %w", err)
	}

	ids := ucfg.NewBlockIDs()
	for _, bid := range graph.BlockIDs() {
		block := graph.Block(bid)
		var label strings.Builder
		label.WriteString(blockLabel(tree, block))
		for _, stmt := range block.Statements {
			label.WriteString("\\n")
			label.WriteString(escapeDOT(tree.Node(stmt).Text))
		}
		if _, err := fmt.Fprintf(w, "  %s [label=\"%s\"];\n", ids.Get(bid), label.String()); err != nil {
			return fmt.Errorf("error while writing in file: %w", err)
		}
	}
	for _, bid := range graph.BlockIDs() {
		block := graph.Block(bid)
		for _, succ := range block.Successors {
			if _, err := fmt.Fprintf(w, "  %s -> %s%s;\n",
				ids.Get(bid), ids.Get(succ), edgeLabel(block, succ)); err != nil {
				return fmt.Errorf("error while writing in file: %w", err)
			}
		}
	}

	if _, err := fmt.Fprintf(w, "}\n"); err != nil {
		return fmt.Errorf("error while writing in file: %w", err)
	}
	return nil
}

// DotToFile renders the control-flow graph into the named file.
func DotToFile(tree *lang.Tree, graph *cfg.Graph, name string, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("could not create file: %w", err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	defer w.Flush()

	if err := WriteDot(w, tree, graph, name); err != nil {
		return fmt.Errorf("error while writing graph: %w", err)
	}
	return nil
}
