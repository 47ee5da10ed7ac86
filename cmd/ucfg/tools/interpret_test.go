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

package tools

import (
	"strings"
	"testing"
)

func validateHint(t *testing.T, errorMsg string, containedHint string) {
	hint := HintForErrorMessage(errorMsg)
	if !strings.Contains(hint, containedHint) {
		t.Fatalf("incorrect hint; check and update error message if necessary")
	}
}

func TestHintForMissingBundle(t *testing.T) {
	errorMsg := "error: could not read bundle file: open bundles/orders.yaml: no such file or directory"
	containedHint := "must be the path to a method bundle"
	validateHint(t, errorMsg, containedHint)
}

func TestHintForNonBundleArgument(t *testing.T) {
	errorMsg := "error: bundle config.yaml: could not unmarshal bundle: yaml: unmarshal errors"
	containedHint := "produced by the language front end"
	validateHint(t, errorMsg, containedHint)
}

func TestHintForMissingConfig(t *testing.T) {
	errorMsg := "error: config file not specified"
	containedHint := "pass -config with the path"
	validateHint(t, errorMsg, containedHint)
}

func TestHintForMissingLocation(t *testing.T) {
	errorMsg := "error: 2 of 3 methods failed to compile: Web.Loop.Spin(): node has no source location"
	containedHint := "did not record a source range"
	validateHint(t, errorMsg, containedHint)
}
