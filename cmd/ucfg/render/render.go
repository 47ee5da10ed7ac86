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

// Package render implements a tool for rendering the control-flow graphs of method bundles in
// Graphviz format, one .dot file per method.
package render

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/awslabs/ucfg-tools/analysis"
	"github.com/awslabs/ucfg-tools/analysis/config"
	rendering "github.com/awslabs/ucfg-tools/analysis/rendering"
	"github.com/awslabs/ucfg-tools/analysis/ucfg"
	"github.com/awslabs/ucfg-tools/cmd/ucfg/tools"
	"github.com/awslabs/ucfg-tools/internal/formatutil"
)

const usage = `Render the control-flow graphs of method bundles in Graphviz format.
Usage:
  ucfg render [options] <bundle path(s)>
Examples:
  % ucfg render -output graphs/ bundles/orders.yaml
`

// Flags represents the parsed render sub-command flags.
type Flags struct {
	tools.CommonFlags
	outputDir string
}

// NewFlags returns the parsed render sub-command flags from args.
func NewFlags(args []string) (Flags, error) {
	flags := tools.NewUnparsedCommonFlags("render")
	outputDir := flags.FlagSet.String("output", "", "output directory for the .dot files (defaults to the config output-dir)")
	tools.SetUsage(flags.FlagSet, usage)
	if err := flags.FlagSet.Parse(args); err != nil {
		return Flags{}, fmt.Errorf("failed to parse command render with args %v: %v", args, err)
	}

	return Flags{
		CommonFlags: tools.CommonFlags{
			FlagSet:    flags.FlagSet,
			ConfigPath: *flags.ConfigPath,
			Verbose:    *flags.Verbose,
		},
		outputDir: *outputDir,
	}, nil
}

// Run renders every method of the bundles given as arguments with flags. The config file is
// optional here; without one every method is rendered.
func Run(flags Flags) error {
	cfg := config.NewDefault()
	if flags.ConfigPath != "" {
		loaded, err := tools.LoadConfig(flags.ConfigPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if flags.Verbose {
		cfg.LogLevel = int(config.DebugLevel)
	}
	outputDir := flags.outputDir
	if outputDir == "" {
		outputDir = cfg.OutputDir
	}
	if outputDir == "" {
		outputDir = "."
	}
	if err := os.MkdirAll(outputDir, 0700); err != nil {
		return fmt.Errorf("could not create directory %s: %v", outputDir, err)
	}

	state := analysis.NewState(cfg)
	bundles, err := analysis.LoadBundles(state, flags.FlagSet.Args())
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, formatutil.Faint("Rendering graphs in ")+outputDir+"\n")
	rendered := 0
	for _, b := range bundles {
		for _, m := range b.Methods {
			name := ucfg.ResolveMethodID(b.Model, m.Symbol)
			if !state.Config.MatchMethodFilter(name) {
				state.Logger.Tracef("Skipping %s (method filter)", formatutil.Sanitize(name))
				continue
			}
			filename := filepath.Join(outputDir, tools.MethodFileName(name, ".dot"))
			if err := rendering.DotToFile(b.Tree, m.Graph, name, filename); err != nil {
				return fmt.Errorf("could not render %s: %v", name, err)
			}
			state.Logger.Debugf("Wrote %s", filename)
			rendered++
		}
	}
	state.Logger.Infof("Rendered %d graphs.", rendered)
	return nil
}
