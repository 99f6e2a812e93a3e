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

package engine

import (
	"testing"

	"github.com/yelhsams/isle-typeinf/pkg/rule"
)

func TestFirstUnknownConstPrim_AllKnown(t *testing.T) {
	r := &rule.Rule{
		Args: []rule.Pattern{
			&rule.TermPattern{Args: []rule.Pattern{&rule.ConstPrimPattern{Name: "I32"}}},
		},
		RHS: &rule.ConstPrimExpr{Name: "true"},
	}

	if _, ok := firstUnknownConstPrim(r); ok {
		t.Errorf("expected no unknown const-prim token")
	}
}

func TestFirstUnknownConstPrim_UnknownInArgs(t *testing.T) {
	r := &rule.Rule{
		Args: []rule.Pattern{
			&rule.AndPattern{SubPats: []rule.Pattern{&rule.ConstPrimPattern{Name: "I37"}}},
		},
		RHS: &rule.ConstPrimExpr{Name: "true"},
	}

	tok, ok := firstUnknownConstPrim(r)
	if !ok || tok != "I37" {
		t.Errorf("got (%q, %v), want (\"I37\", true)", tok, ok)
	}
}

func TestFirstUnknownConstPrim_UnknownInRHS(t *testing.T) {
	r := &rule.Rule{
		RHS: &rule.LetExpr{
			Bindings: []rule.LetBinding{{Expr: &rule.ConstPrimExpr{Name: "bogus"}}},
			Body:     &rule.VarExpr{},
		},
	}

	tok, ok := firstUnknownConstPrim(r)
	if !ok || tok != "bogus" {
		t.Errorf("got (%q, %v), want (\"bogus\", true)", tok, ok)
	}
}

func TestFirstUnknownConstPrim_UnknownInIfLet(t *testing.T) {
	r := &rule.Rule{
		RHS: &rule.ConstPrimExpr{Name: "true"},
		IfLets: []rule.IfLet{
			{
				LHS: &rule.BindPattern{SubPat: &rule.ConstPrimPattern{Name: "nope"}},
				RHS: &rule.VarExpr{},
			},
		},
	}

	tok, ok := firstUnknownConstPrim(r)
	if !ok || tok != "nope" {
		t.Errorf("got (%q, %v), want (\"nope\", true)", tok, ok)
	}
}

func TestRuleLabel(t *testing.T) {
	if got := ruleLabel(7, ""); got != "rule#7" {
		t.Errorf("got %q, want %q", got, "rule#7")
	}

	if got := ruleLabel(7, "my-rule"); got != "my-rule" {
		t.Errorf("got %q, want %q", got, "my-rule")
	}
}
