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

/*
Package ucfg compiles one method's control-flow graph and semantic facts into
a universal control-flow graph (UCFG): a reduced representation that keeps
only the control flow and the string-relevant data dependencies of the method.
A downstream taint engine consumes UCFG records to trace untrusted values from
entry-point parameters to sensitive operations; this package never decides
whether a flow is tainted.

[Assemble] drives one build. Per block, the instruction builder lowers the
block's statement nodes into instructions over two expression forms: a
variable reference, for values that can carry a traced string, and a single
shared constant that stands for everything else. Values with no string
relevance fold away entirely; calls survive only when the callee touches
strings or one argument is a variable reference. Callable identities are
canonicalized across interface and extension-method indirection so that the
taint engine can match them against its rule set.

Every build owns its own block identity map, expression cache, and temporary
name counter, so distinct methods can be compiled concurrently.

The only fatal input defect is a statement node without a source range: an
instruction without a location would corrupt the downstream diagnostics, so
the build of that method is abandoned. Everything else degrades: unresolved
symbols fold to the shared constant and unresolvable callables are named by
an unknown sentinel.
*/
package ucfg
