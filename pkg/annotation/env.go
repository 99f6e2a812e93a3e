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

// Env is the full set of externally supplied annotations available to the
// engine for one run: every term's known signatures, plus the model map
// binding each host-IR type to the concrete annotation type it denotes
// (e.g. the ISLE type bound to a 32-bit register class denotes
// BitVectorOfWidth(32)).
type Env struct {
	// Signatures indexed by term. A term absent from this map, or mapped
	// to an empty slice, has no usable annotation and any rule rooted at
	// it is skipped.
	Signatures map[rule.TermID][]*TermSignature

	// Model maps a host-IR TypeID to the concrete annotation type it is
	// declared to mean. This belongs to the annotation environment, not
	// rule.TypeEnv, because the mapping is a property of how the
	// annotation author modeled the host IR's types, not of the host IR
	// itself.
	Model map[rule.TypeID]Type
}

// NewEnv constructs an empty annotation environment.
func NewEnv() *Env {
	return &Env{
		Signatures: make(map[rule.TermID][]*TermSignature),
		Model:      make(map[rule.TypeID]Type),
	}
}

// SignaturesFor returns every signature known for a term, in the order
// they should be tried.
func (e *Env) SignaturesFor(term rule.TermID) []*TermSignature {
	return e.Signatures[term]
}

// AddSignature registers one signature for a term.
func (e *Env) AddSignature(sig *TermSignature) {
	e.Signatures[sig.Term] = append(e.Signatures[sig.Term], sig)
}

// ModelOf returns the concrete type a host-IR type is declared to mean,
// and whether any model entry exists for it.
func (e *Env) ModelOf(t rule.TypeID) (Type, bool) {
	ty, ok := e.Model[t]
	return ty, ok
}
