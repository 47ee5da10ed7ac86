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

// Package compile implements the front-end of the bundle compiler: it loads method bundles,
// compiles every method into a UCFG and writes one JSON file per method.
package compile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/awslabs/ucfg-tools/analysis"
	"github.com/awslabs/ucfg-tools/analysis/config"
	"github.com/awslabs/ucfg-tools/analysis/ucfg"
	"github.com/awslabs/ucfg-tools/cmd/ucfg/tools"
	"github.com/awslabs/ucfg-tools/internal/formatutil"
)

const usage = `Compile method bundles into UCFG files.
Usage:
  ucfg compile [options] <bundle path(s)>
Examples:
  % ucfg compile -config config.yaml -output out/ bundles/*.yaml
`

// Flags represents the parsed flags for the compile sub-command.
type Flags struct {
	tools.CommonFlags
	outputDir string
	routines  int
}

// NewFlags returns the parsed flags for the compile sub-command with args.
func NewFlags(args []string) (Flags, error) {
	flags := tools.NewUnparsedCommonFlags("compile")
	outputDir := flags.FlagSet.String("output", "", "output directory for the compiled files (defaults to the config output-dir)")
	routines := flags.FlagSet.Int("routines", 4, "number of goroutines compiling methods")
	tools.SetUsage(flags.FlagSet, usage)
	if err := flags.FlagSet.Parse(args); err != nil {
		return Flags{}, fmt.Errorf("failed to parse command compile with args %v: %v", args, err)
	}

	return Flags{
		CommonFlags: tools.CommonFlags{
			FlagSet:    flags.FlagSet,
			ConfigPath: *flags.ConfigPath,
			Verbose:    *flags.Verbose,
		},
		outputDir: *outputDir,
		routines:  *routines,
	}, nil
}

// Run compiles the bundles given as arguments with flags.
func Run(flags Flags) error {
	cfg, err := tools.LoadConfig(flags.ConfigPath)
	if err != nil {
		return err
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
	state.Logger.Infof(formatutil.Faint("Ucfg compiler - " + analysis.Version))

	bundles, err := analysis.LoadBundles(state, flags.FlagSet.Args())
	if err != nil {
		return err
	}

	results := analysis.RunCompile(state, flags.routines, bundles)
	failed := 0
	written := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			continue
		}
		filename := filepath.Join(outputDir, tools.MethodFileName(res.UCFG.MethodID, ".json"))
		if err := writeUCFG(res.UCFG, filename); err != nil {
			return err
		}
		state.Logger.Debugf("Wrote %s", filename)
		written++
	}

	if failed > 0 {
		state.Logger.Errorf("RESULT:\n\t\t%s",
			formatutil.Red(fmt.Sprintf("%d of %d methods failed to compile", failed, len(results)))) // safe %s
		return fmt.Errorf("%d of %d methods failed to compile", failed, len(results))
	}
	state.Logger.Infof("RESULT:\n\t\t%s",
		formatutil.Green(fmt.Sprintf("Compiled %d methods ✓", written))) // safe %s
	return nil
}

// writeUCFG writes the wire form of one compiled method.
func writeUCFG(u *ucfg.UCFG, filename string) error {
	buf, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("could not marshal %s: %v", u.MethodID, err)
	}
	if err := os.WriteFile(filename, buf, 0600); err != nil {
		return fmt.Errorf("could not write %s: %v", filename, err)
	}
	return nil
}
