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
	"github.com/awslabs/ucfg-tools/analysis/semantics"
)

// ResolveMethodID canonicalizes a callable into the identity string the
// downstream engine matches against. An explicit interface implementation
// resolves to the identity of the interface member it implements, so a call
// through the interface and the implementation itself share one id. An
// extension method invoked in reduced (instance-call) form resolves to the
// display of its unreduced original definition. Everything else resolves to
// the display of its own original definition. An absent symbol yields
// MethodIDUnknown; resolution never fails.
func ResolveMethodID(model *semantics.Model, id semantics.SymbolID) string {
	if !id.IsValid() {
		return MethodIDUnknown
	}
	sym := model.Symbol(id)
	if sym.Implements.IsValid() {
		return ResolveMethodID(model, sym.Implements)
	}
	if sym.ReducedFrom.IsValid() {
		return model.Symbol(sym.ReducedFrom).Display
	}
	return sym.Display
}
