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

package loader

import (
	"fmt"

	"github.com/yelhsams/isle-typeinf/internal/sexp"
	"github.com/yelhsams/isle-typeinf/pkg/rule"
)

// loadDefTerm processes `(defterm <name> (<arg-type>...) <ret-type>)`,
// registering a fresh term id with its declared isle-type signature.
func (l *Loader) loadDefTerm(list *sexp.List) error {
	name, err := symbolAt(list, 1)
	if err != nil {
		return err
	}

	if _, exists := l.termIDs[name.Value]; exists {
		return fmt.Errorf("loader: term %q declared twice", name.Value)
	}

	argList, err := listAt(list, 2)
	if err != nil {
		return err
	}

	argTys := make([]rule.TypeID, argList.Len())

	for i := 0; i < argList.Len(); i++ {
		argSym := argList.Get(i).AsSymbol()
		if argSym == nil {
			return fmt.Errorf("loader: defterm %q has malformed argument type list", name.Value)
		}

		id, err := l.lookupType(argSym.Value)
		if err != nil {
			return err
		}

		argTys[i] = id
	}

	retSym, err := symbolAt(list, 3)
	if err != nil {
		return err
	}

	retTy, err := l.lookupType(retSym.Value)
	if err != nil {
		return err
	}

	id := rule.TermID(len(l.terms))
	l.terms = append(l.terms, rule.TermDef{Name: name.Value, ArgTys: argTys, RetTy: retTy})
	l.termIDs[name.Value] = id

	return nil
}
