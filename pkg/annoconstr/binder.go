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

package annoconstr

import (
	"github.com/yelhsams/isle-typeinf/pkg/annotation"
	"github.com/yelhsams/isle-typeinf/pkg/constraint"
	"github.com/yelhsams/isle-typeinf/pkg/rule"
)

// BindIsleTypes is the isle-type binder (C4): for a term application's
// candidate signature, it ties each annotation argument/return variable's
// type variable to the concrete type the host IR's model map declares for
// the term's corresponding declared isle type, wherever the model map has
// an opinion. An annotation variable never referenced in the annotation's
// own assertions still gets a type variable allocated here, so that a term
// whose annotation ignores one of its arguments is still fully typed.
func (w *Walker) BindIsleTypes(term *rule.TermDef, sig *annotation.TermSignature, model *annotation.Env, info *Info) {
	names := make([]string, 0, len(sig.ArgNames)+1)
	names = append(names, sig.ArgNames...)
	names = append(names, sig.RetName)

	isleTypes := make([]rule.TypeID, 0, len(term.ArgTys)+1)
	isleTypes = append(isleTypes, term.ArgTys...)
	isleTypes = append(isleTypes, term.RetTy)

	for i, isleType := range isleTypes {
		varName := names[i]

		tv, seen := info.VarToTypeVar[varName]
		if !seen {
			tv = w.fresh()
			info.VarToTypeVar[varName] = tv
		}

		if ty, ok := model.ModelOf(isleType); ok {
			w.Store.AddConcrete(constraint.Concrete{V: tv, T: ty})
		}
	}
}
