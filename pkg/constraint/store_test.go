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

package constraint

import (
	"testing"

	"github.com/yelhsams/isle-typeinf/pkg/annotation"
	"github.com/yelhsams/isle-typeinf/pkg/typevar"
)

func TestStore_DeduplicatesConstraints(t *testing.T) {
	s := NewStore()

	if s.AddConcrete(Concrete{V: 1, T: annotation.Bool()}) {
		t.Errorf("expected first insert to report not-already-present")
	}

	if !s.AddConcrete(Concrete{V: 1, T: annotation.Bool()}) {
		t.Errorf("expected duplicate insert to report already-present")
	}

	if got := s.Len(); got != 1 {
		t.Errorf("got Len() = %d, want 1", got)
	}
}

func TestStore_VariableEqualsIsSymmetric(t *testing.T) {
	s := NewStore()

	s.AddVariable(Variable{A: 1, B: 2})

	if !s.AddVariable(Variable{A: 2, B: 1}) {
		t.Errorf("expected the swapped-operand constraint to be treated as a duplicate")
	}
}

func TestStore_MissingTypeVars(t *testing.T) {
	s := NewStore()

	s.AddConcrete(Concrete{V: 0, T: annotation.Bool()})
	s.AddVariable(Variable{A: 1, B: 2})

	missing := s.MissingTypeVars(4)
	if len(missing) != 1 || missing[0] != 3 {
		t.Errorf("got %v, want [3]", missing)
	}
}

func TestStore_SymbolicSumCoversBothSides(t *testing.T) {
	s := NewStore()

	s.AddSymbolicSum(SymbolicSum{Ls: []typevar.TypeVar{0, 1}, Rs: []typevar.TypeVar{2}})

	missing := s.MissingTypeVars(3)
	if len(missing) != 0 {
		t.Errorf("got missing = %v, want none", missing)
	}
}
