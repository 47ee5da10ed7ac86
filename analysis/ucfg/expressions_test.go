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

package ucfg

import (
	"encoding/json"
	"testing"
)

func TestExpressionValueSemantics(t *testing.T) {
	if ConstExpr() != ConstExpr() {
		t.Errorf("constant expressions should compare equal")
	}
	if VarExpr("x") != VarExpr("x") {
		t.Errorf("references to the same variable should compare equal")
	}
	if VarExpr("x") == VarExpr("y") || VarExpr("x") == ConstExpr() {
		t.Errorf("distinct expressions should not compare equal")
	}
	if ConstExpr().IsVar() || !VarExpr("x").IsVar() {
		t.Errorf("IsVar misclassifies expressions")
	}
	if ConstExpr().Name() != ConstValue || VarExpr("x").Name() != "x" {
		t.Errorf("Name misreads expressions")
	}
}

func TestExpressionJSON(t *testing.T) {
	expected := map[string]Expression{
		`{"const":""}`: ConstExpr(),
		`{"var":"%0"}`: VarExpr("%0"),
	}
	for wire, expr := range expected {
		b, err := json.Marshal(expr)
		if err != nil {
			t.Fatalf("marshal %v: %v", expr, err)
		}
		if string(b) != wire {
			t.Errorf("expected %s, got %s", wire, b)
		}
		var back Expression
		if err := json.Unmarshal([]byte(wire), &back); err != nil {
			t.Fatalf("unmarshal %s: %v", wire, err)
		}
		if back != expr {
			t.Errorf("round trip of %s gave %v, expected %v", wire, back, expr)
		}
	}
	var e Expression
	if err := json.Unmarshal([]byte(`{}`), &e); err == nil {
		t.Errorf("an expression with neither variant should not decode")
	}
}
