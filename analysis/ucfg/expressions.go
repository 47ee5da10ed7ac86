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
	"fmt"
)

// ConstValue is the payload of every constant expression. The constant
// carries no information beyond "not a traced string", so one shared value is
// enough.
const ConstValue = ""

// Expression is the value domain of the UCFG: either a reference to a named
// variable, or the shared constant that stands for any value irrelevant to
// string tracking. It is an immutable value type; two expressions are equal
// exactly when == says so.
type Expression struct {
	isVar bool
	name  string
}

// ConstExpr returns the shared constant expression.
func ConstExpr() Expression {
	return Expression{}
}

// VarExpr returns a reference to the variable named name.
func VarExpr(name string) Expression {
	return Expression{isVar: true, name: name}
}

// IsVar reports whether the expression is a variable reference.
func (e Expression) IsVar() bool { return e.isVar }

// IsConst reports whether the expression is the shared constant.
func (e Expression) IsConst() bool { return !e.isVar }

// Name returns the referenced variable name, or the empty string for the
// constant.
func (e Expression) Name() string {
	if e.isVar {
		return e.name
	}
	return ConstValue
}

func (e Expression) String() string {
	if e.isVar {
		return fmt.Sprintf("Var(%s)", e.name)
	}
	return "Const"
}

type jsonExpression struct {
	Const *string `json:"const,omitempty"`
	Var   *string `json:"var,omitempty"`
}

// MarshalJSON encodes the expression as {"var": name} or {"const": ""}.
func (e Expression) MarshalJSON() ([]byte, error) {
	if e.isVar {
		return json.Marshal(jsonExpression{Var: &e.name})
	}
	c := ConstValue
	return json.Marshal(jsonExpression{Const: &c})
}

// UnmarshalJSON decodes the wire form produced by MarshalJSON.
func (e *Expression) UnmarshalJSON(b []byte) error {
	var j jsonExpression
	if err := json.Unmarshal(b, &j); err != nil {
		return err
	}
	switch {
	case j.Var != nil:
		*e = VarExpr(*j.Var)
	case j.Const != nil:
		*e = ConstExpr()
	default:
		return fmt.Errorf("expression has neither const nor var")
	}
	return nil
}
