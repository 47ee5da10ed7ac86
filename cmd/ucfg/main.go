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

package main

import (
	"fmt"
	"os"

	"github.com/awslabs/ucfg-tools/analysis"
	"github.com/awslabs/ucfg-tools/cmd/ucfg/compile"
	"github.com/awslabs/ucfg-tools/cmd/ucfg/render"
	"github.com/awslabs/ucfg-tools/cmd/ucfg/stats"
	"github.com/awslabs/ucfg-tools/cmd/ucfg/tools"
)

const usage = `Ucfg: universal control-flow graph compiler
Usage:
  ucfg [tool] [options] <bundle path(s)>
Tools:
  - compile: compiles method bundles into universal control-flow graphs
  - render: renders the control-flow graphs of method bundles in Graphviz format
  - stats: prints statistics about the methods in bundle files
Examples:
  Compile a bundle: ucfg compile -config=config.yaml bundles/orders.yaml
  Render its graphs: ucfg render -output graphs/ bundles/orders.yaml`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "error: expected subcommand\n%s\n", usage)
		os.Exit(2)
	}

	// hardcode help flag
	if snd := os.Args[1]; snd == "-help" || snd == "--help" {
		fmt.Println(usage)
		return
	}

	// hardcode version flag
	if snd := os.Args[1]; snd == "-version" || snd == "--version" {
		fmt.Println(analysis.Version)
		return
	}

	args := os.Args[2:]
	switch cmd := os.Args[1]; cmd {
	case "compile":
		flags, err := compile.NewFlags(args)
		if err != nil {
			errExit(err)
		}
		if err := compile.Run(flags); err != nil {
			errExit(err)
		}
	case "render":
		flags, err := render.NewFlags(args)
		if err != nil {
			errExit(err)
		}
		if err := render.Run(flags); err != nil {
			errExit(err)
		}
	case "stats":
		flags, err := stats.NewFlags(args)
		if err != nil {
			errExit(err)
		}
		if err := stats.Run(flags); err != nil {
			errExit(err)
		}
	default:
		fmt.Fprintf(os.Stderr, "error: unexpected command: %v\n", cmd)
		fmt.Fprintf(os.Stderr, "usage:\n%s\n", usage)
	}
}

func errExit(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	hint := tools.HintForErrorMessage(err.Error())
	if hint != "" {
		fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
	}
	os.Exit(2)
}
