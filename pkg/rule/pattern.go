// Copyright isle-typeinf contributors
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package rule

// Pattern is a left-hand-side match form. Exactly one of the concrete
// pattern types below implements it.
type Pattern interface {
	isPattern()
}

// TermPattern matches a term application: the named term applied to a
// fixed-arity list of argument sub-patterns.
type TermPattern struct {
	Term TermID
	Args []Pattern
}

func (*TermPattern) isPattern() {}

// VarPattern matches (and binds, on first occurrence) a rule-local
// variable.
type VarPattern struct {
	Var VarID
}

func (*VarPattern) isPattern() {}

// BindPattern binds a rule-local variable to whatever the sub-pattern
// matches (ISLE's `x @ p` syntax).
type BindPattern struct {
	Var     VarID
	SubPat  Pattern
}

func (*BindPattern) isPattern() {}

// WildcardPattern matches anything and binds nothing.
type WildcardPattern struct{}

func (*WildcardPattern) isPattern() {}

// ConstPrimPattern matches a named primitive constant token (e.g. `I32`,
// `true`).
type ConstPrimPattern struct {
	Name string
}

func (*ConstPrimPattern) isPattern() {}

// ConstIntPattern matches a literal integer.
type ConstIntPattern struct {
	Value int64
}

func (*ConstIntPattern) isPattern() {}

// AndPattern requires every sub-pattern to match the same value.
type AndPattern struct {
	SubPats []Pattern
}

func (*AndPattern) isPattern() {}
