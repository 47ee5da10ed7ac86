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

// Package stats implements the front-end for the bundle statistics analysis.
package stats

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/awslabs/ucfg-tools/analysis"
	"github.com/awslabs/ucfg-tools/analysis/config"
	"github.com/awslabs/ucfg-tools/cmd/ucfg/tools"
	"github.com/awslabs/ucfg-tools/internal/formatutil"
)

const usage = `Print statistics about the methods in bundle files.
Usage:
  ucfg stats [options] <bundle path(s)>
Examples:
  % ucfg stats -json bundles/*.yaml
`

// Flags represents the parsed stats sub-command flags.
type Flags struct {
	tools.CommonFlags
	outputJson bool
}

// NewFlags returns the parsed stats sub-command flags from args.
func NewFlags(args []string) (Flags, error) {
	flags := tools.NewUnparsedCommonFlags("stats")
	outputJson := flags.FlagSet.Bool("json", false, "output results as JSON")
	tools.SetUsage(flags.FlagSet, usage)
	if err := flags.FlagSet.Parse(args); err != nil {
		return Flags{}, fmt.Errorf("failed to parse command stats with args %v: %v", args, err)
	}

	return Flags{
		CommonFlags: tools.CommonFlags{
			FlagSet:    flags.FlagSet,
			ConfigPath: *flags.ConfigPath,
			Verbose:    *flags.Verbose,
		},
		outputJson: *outputJson,
	}, nil
}

// Run prints per-method statistics for the bundles given as arguments with flags. The config
// file is optional here; without one every method is counted.
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

	fmt.Fprintf(os.Stderr, formatutil.Faint("Reading bundles")+"\n")
	state := analysis.NewState(cfg)
	bundles, err := analysis.LoadBundles(state, flags.FlagSet.Args())
	if err != nil {
		return err
	}

	result := analysis.BundleStatistics(state, bundles)
	if flags.outputJson {
		buf, err := json.Marshal(result)
		if err != nil {
			return fmt.Errorf("could not marshal statistics: %v", err)
		}
		fmt.Println(string(buf))
		return nil
	}

	blocks, instructions := 0, 0
	data := make([][]string, 0, len(result))
	for _, s := range result {
		data = append(data, []string{
			formatutil.Sanitize(s.Method),
			strconv.Itoa(s.Blocks),
			strconv.Itoa(s.Instructions),
			strconv.Itoa(s.LoopRegions),
			strconv.Itoa(s.Cycles),
		})
		blocks += s.Blocks
		instructions += s.Instructions
	}
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Method", "Blocks", "Instructions", "Loop regions", "Cycles"})
	table.SetFooter([]string{fmt.Sprintf("%d methods", len(result)), strconv.Itoa(blocks), strconv.Itoa(instructions), "", ""})
	table.AppendBulk(data)
	table.Render()
	return nil
}
