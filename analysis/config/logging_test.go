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
	"bytes"
	"strings"
	"testing"
)

func newTestLogGroup(c *Config) (*LogGroup, *bytes.Buffer) {
	lg := NewLogGroup(c)
	buf := &bytes.Buffer{}
	lg.SetAllOutput(buf)
	lg.SetAllFlags(0)
	return lg, buf
}

func TestLogGroupLevelFiltering(t *testing.T) {
	c := NewDefault()
	lg, buf := newTestLogGroup(c)

	lg.Errorf("e")
	lg.Warnf("w")
	lg.Infof("i")
	lg.Debugf("d")
	lg.Tracef("t")

	got := buf.String()
	for _, want := range []string{"[ERROR] e", "[WARN] w", "[INFO] i"} {
		if !strings.Contains(got, want) {
			t.Errorf("info level should log %q, got:\n%s", want, got)
		}
	}
	for _, unwanted := range []string{"[DEBUG]", "[TRACE]"} {
		if strings.Contains(got, unwanted) {
			t.Errorf("info level should drop %s messages, got:\n%s", unwanted, got)
		}
	}
}

func TestLogGroupTraceLevelLogsEverything(t *testing.T) {
	c := NewDefault()
	c.LogLevel = int(TraceLevel)
	lg, buf := newTestLogGroup(c)

	lg.Debugf("d")
	lg.Tracef("t")
	got := buf.String()
	if !strings.Contains(got, "[DEBUG] d") || !strings.Contains(got, "[TRACE] t") {
		t.Errorf("trace level should log debug and trace messages, got:\n%s", got)
	}
}

func TestLogGroupSilenceWarn(t *testing.T) {
	c := NewDefault()
	c.SilenceWarn = true
	lg, buf := newTestLogGroup(c)

	lg.Warnf("w")
	lg.Errorf("e")
	got := buf.String()
	if strings.Contains(got, "[WARN]") {
		t.Errorf("silence-warn should drop warnings, got:\n%s", got)
	}
	if !strings.Contains(got, "[ERROR] e") {
		t.Errorf("silence-warn must not drop errors, got:\n%s", got)
	}
}
