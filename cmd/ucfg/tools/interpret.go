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

import "regexp"

// Captures errors happening before any compilation starts (a bundle could not be opened)
var regexCouldNotReadBundle = regexp.MustCompile("could not read bundle file")

// Captures the kind of error that happen when a file is yaml but not a method bundle
var regexNotABundle = regexp.MustCompile("could not unmarshal bundle|bundle names no file")

// Captures sub-commands that were started without the configuration they need
var regexMissingConfig = regexp.MustCompile("config file not specified")

// Captures compilation failures on methods whose statements carry no ranges
var regexMissingLocation = regexp.MustCompile("has no source location")

// HintForErrorMessage looks for specific error message and returns some other message that might help the user
// resolve the problem.
func HintForErrorMessage(errMsg string) string {
	if regexCouldNotReadBundle.MatchString(errMsg) {
		return "every argument after the options must be the path to a method bundle file"
	}
	if regexNotABundle.MatchString(errMsg) {
		return "bundles are yaml files produced by the language front end, with file, symbols, nodes and methods sections"
	}
	if regexMissingConfig.MatchString(errMsg) {
		return "pass -config with the path to a yaml configuration file"
	}
	if regexMissingLocation.MatchString(errMsg) {
		return "the front end did not record a source range; the compiler needs one for the method and for every statement it keeps"
	}
	return ""
}
