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

package annotation

import "github.com/yelhsams/isle-typeinf/pkg/rule"

// TermSignature is one externally supplied annotation for a term: the
// annotation-language names and types of its arguments and return value,
// plus any side-conditions a rule instantiating this term must also
// satisfy. A term may carry several signatures (overloads), distinguished
// by argument/return type shape; the engine tries each in turn.
type TermSignature struct {
	Term rule.TermID

	ArgNames []string
	ArgTypes []Type

	RetName string
	RetType Type

	// Assumptions must hold for this signature to apply; they become
	// solver assumptions (spec.md "Assumptions") rather than proof
	// obligations.
	Assumptions []Expr

	// Assertions are side-conditions the signature additionally claims
	// about its arguments and result (e.g. a width relation between two
	// polymorphic arguments); they become assertions against the rule
	// using this instantiation.
	Assertions []Expr
}

// ArgCount returns the number of arguments in this signature.
func (s *TermSignature) ArgCount() int { return len(s.ArgNames) }
