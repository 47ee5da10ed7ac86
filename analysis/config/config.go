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

package config

import (
	"fmt"
	"os"
	"path"
	"regexp"
	"strings"

	"github.com/awslabs/ucfg-tools/internal/funcutil"
	"gopkg.in/yaml.v3"
)

var (
	// The global config file
	configFile string
)

// SetGlobalConfig sets the global config filename
func SetGlobalConfig(filename string) {
	configFile = filename
}

// LoadGlobal loads the config file that has been set by SetGlobalConfig
func LoadGlobal() (*Config, error) {
	return Load(configFile)
}

// Config contains the entry-point specifications and the options of the tool.
// To add elements to a config file, add fields to this struct.
// If some field is not defined in the config file, it will be empty/zero in the struct.
// private fields are not populated from a yaml file, but computed after initialization
type Config struct {
	Options `yaml:",inline"`

	sourceFile string

	// EntryPoints lists the code identifiers of methods whose parameters are
	// treated as taint sources; matching methods get a synthetic entry block
	EntryPoints []CodeIdentifier `yaml:"entry-points"`

	// if the MethodFilter is specified
	methodFilterRegex *regexp.Regexp
}

// Options holds the tool-level settings shared by the commands.
type Options struct {
	// OutputDir is the directory where compiled graphs will be stored. If the yaml config file this config struct
	// has been loaded from does not specify an OutputDir, the commands write into the working directory unless
	// their -output flag says otherwise.
	OutputDir string `yaml:"output-dir"`

	// MethodFilter restricts compilation to the methods whose display string matches. Empty means all
	// methods are compiled
	MethodFilter string `yaml:"method-filter"`

	// LogLevel controls the verbosity of the tool
	LogLevel int `yaml:"log-level"`

	// Suppress warnings
	SilenceWarn bool `yaml:"silence-warn"`
}

// NewDefault returns an empty default config.
func NewDefault() *Config {
	return &Config{
		sourceFile:  "",
		EntryPoints: nil,
		Options: Options{
			OutputDir:    "",
			MethodFilter: "",
			LogLevel:     int(InfoLevel),
			SilenceWarn:  false,
		},
	}
}

// Load reads a configuration from a file
func Load(filename string) (*Config, error) {
	cfg := NewDefault()
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}
	if errYaml := yaml.Unmarshal(b, cfg); errYaml != nil {
		return nil, fmt.Errorf("could not unmarshal config file: %w", errYaml)
	}

	cfg.sourceFile = filename

	if cfg.OutputDir != "" {
		if err := os.Mkdir(cfg.OutputDir, 0750); err != nil && !os.IsExist(err) {
			return nil, fmt.Errorf("could not create directory %s", cfg.OutputDir)
		}
	}

	// If logLevel has not been specified (i.e. it is 0) set the default to Info
	if cfg.LogLevel == 0 {
		cfg.LogLevel = int(InfoLevel)
	}

	if cfg.MethodFilter != "" {
		r, err := regexp.Compile(cfg.MethodFilter)
		if err == nil {
			cfg.methodFilterRegex = r
		}
	}

	cfg.EntryPoints = funcutil.Map(cfg.EntryPoints, CompileRegexes)

	return cfg, nil
}

// RelPath returns filename path relative to the config source file
func (c Config) RelPath(filename string) string {
	return path.Join(path.Dir(c.sourceFile), filename)
}

// MatchMethodFilter returns true if the method display string matches the method filter set in the config file. If
// no method filter has been set in the config file, the regex will match anything and return true. This function
// safely considers the case where a filter has been specified by the user, but it could not be compiled to a regex.
// The safe case is to check whether the method filter string is a prefix of the display string
func (c Config) MatchMethodFilter(display string) bool {
	if c.methodFilterRegex != nil {
		return c.methodFilterRegex.MatchString(display)
	} else if c.MethodFilter != "" {
		return strings.HasPrefix(display, c.MethodFilter)
	} else {
		return true
	}
}

// IsEntryPoint returns true if the code identifier matches an entry-point specification in the config file
func (c Config) IsEntryPoint(cid CodeIdentifier) bool {
	return funcutil.Exists(c.EntryPoints, cid.equalOnNonEmptyFields)
}

// Verbose returns true is the configuration verbosity setting is larger than Info (i.e. Debug or Trace)
func (c Config) Verbose() bool {
	return c.LogLevel >= int(DebugLevel)
}
