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
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

func checkEqualOnNonEmptyFields(t *testing.T, cid1 CodeIdentifier, cid2 CodeIdentifier) {
	cid2c := CompileRegexes(cid2)
	if !cid1.equalOnNonEmptyFields(cid2c) {
		t.Errorf("%v should be equal modulo empty fields to %v", cid1, cid2)
	}
}

func checkNotEqualOnNonEmptyFields(t *testing.T, cid1 CodeIdentifier, cid2 CodeIdentifier) {
	cid2c := CompileRegexes(cid2)
	if cid1.equalOnNonEmptyFields(cid2c) {
		t.Errorf("%v should not be equal modulo empty fields to %v", cid1, cid2)
	}
}

func TestCodeIdentifier_equalOnNonEmptyFields_selfEquals(t *testing.T) {
	cid1 := CodeIdentifier{"a", "", "b", nil}
	checkEqualOnNonEmptyFields(t, cid1, cid1)
}

func TestCodeIdentifier_equalOnNonEmptyFields_emptyMatchesAny(t *testing.T) {
	cid1 := CodeIdentifier{"a", "b", "c", nil}
	cid2 := CodeIdentifier{"de", "234jbn", "ef", nil}
	cidEmpty := CodeIdentifier{}
	checkEqualOnNonEmptyFields(t, cid1, cidEmpty)
	checkEqualOnNonEmptyFields(t, cid2, cidEmpty)
}

func TestCodeIdentifier_equalOnNonEmptyFields_oneDiff(t *testing.T) {
	cid1 := CodeIdentifier{"a", "b", "", nil}
	cid2 := CodeIdentifier{"a", "", "", nil}
	checkEqualOnNonEmptyFields(t, cid1, cid2)
	checkNotEqualOnNonEmptyFields(t, cid2, cid1)
}

func TestCodeIdentifier_equalOnNonEmptyFields_regexes(t *testing.T) {
	cid1 := CodeIdentifier{"Web.Controllers", "OrdersController", "Get", nil}
	cid1bis := CodeIdentifier{"Web.Api", "OrdersController", "GetById", nil}
	cid2 := CodeIdentifier{"(Web.Controllers)|(Web.Api)$", "", "Get.*", nil}
	checkEqualOnNonEmptyFields(t, cid1, cid2)
	checkEqualOnNonEmptyFields(t, cid1bis, cid2)
}

func loadFromTestDir(filename string) (string, *Config, error) {
	filename = filepath.Join("testdata", filename)
	config, err := Load(filename)
	if err != nil {
		return filename, nil, fmt.Errorf("failed to load file %v: %v", filename, err)
	}
	return filename, config, err
}

func testLoadOneFile(t *testing.T, filename string, expected Config) {
	// set default log level that may not be specified
	if expected.LogLevel == 0 {
		expected.LogLevel = int(InfoLevel)
	}
	configFileName, config, err := loadFromTestDir(filename)
	if err != nil {
		t.Errorf("Error loading %q: %v", configFileName, err)
		return
	}
	c1, err1 := yaml.Marshal(config)
	c2, err2 := yaml.Marshal(expected)
	if err1 != nil {
		t.Errorf("Error marshalling %v", config)
	}
	if err2 != nil {
		t.Errorf("Error marshalling %v", expected)
	}
	if string(c1) != string(c2) {
		t.Errorf("Error in %q:\n%q is not\n%q\n", filename, c1, c2)
	}
}

func TestNewDefault(t *testing.T) {
	c := NewDefault()
	if c.MethodFilter != "" {
		t.Errorf("Default for MethodFilter should be empty")
	}
	if c.sourceFile != "" {
		t.Errorf("Default for sourceFile should be empty")
	}
	if c.LogLevel != int(InfoLevel) {
		t.Errorf("Default log level should be info")
	}
}

func TestLoadNonExistentFileReturnsError(t *testing.T) {
	c, err := Load(filepath.Join("testdata", "no-such-config.yaml"))
	if c != nil || err == nil {
		t.Errorf("Expected error and nil value when trying to load non existent file.")
	}
}

func TestLoadBadFormatFileReturnsError(t *testing.T) {
	_, config, err := loadFromTestDir("bad_format.yaml")
	if config != nil || err == nil {
		t.Errorf("Expected error and nil value when trying to load a badly formatted file.")
	}
}

func TestLoadMinimalConfig(t *testing.T) {
	expected := *NewDefault()
	expected.EntryPoints = []CodeIdentifier{
		{Namespace: "Web.Controllers", Method: "Get"},
	}
	testLoadOneFile(t, "config.yaml", expected)
}

func TestLoadFullConfig(t *testing.T) {
	fileName, config, err := loadFromTestDir("full-config.yaml")
	if config == nil || err != nil {
		t.Errorf("Could not load %s", fileName)
		return
	}
	if config.LogLevel != int(TraceLevel) {
		t.Error("full config should have set trace")
	}
	if !config.SilenceWarn {
		t.Error("full config should have silence-warn set to true")
	}
	if config.OutputDir == "" {
		t.Error("full config should specify an output-dir")
	}
	if config.MethodFilter == "" {
		t.Error("full config should specify a method-filter")
	}
	if !config.MatchMethodFilter("Web.Controllers.OrdersController.Get(string)") {
		t.Error("full config method filter should match controller methods")
	}
	if config.MatchMethodFilter("Internal.Helpers.Pad(string)") {
		t.Error("full config method filter should not match helper methods")
	}
	if len(config.EntryPoints) != 2 {
		t.Errorf("full config should have two entry points, got %d", len(config.EntryPoints))
	}
	if !config.IsEntryPoint(CodeIdentifier{Namespace: "Web.Controllers", Type: "OrdersController", Method: "GetById"}) {
		t.Error("full config should recognize the controller method as an entry point")
	}
	if config.IsEntryPoint(CodeIdentifier{Namespace: "Internal.Helpers", Type: "Strings", Method: "Pad"}) {
		t.Error("full config should not recognize a helper as an entry point")
	}
	// Remove the directory created for output-dir
	os.Remove(config.OutputDir)
}

func TestVerbose(t *testing.T) {
	c := NewDefault()
	if c.Verbose() {
		t.Errorf("default config should not be verbose")
	}
	c.LogLevel = int(DebugLevel)
	if !c.Verbose() {
		t.Errorf("debug level config should be verbose")
	}
}
