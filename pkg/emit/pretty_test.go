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

package emit

import (
	"testing"

	"github.com/yelhsams/isle-typeinf/pkg/annotation"
	"github.com/yelhsams/isle-typeinf/pkg/ruletree"
	"github.com/yelhsams/isle-typeinf/pkg/typevar"
)

func varNode(ident string, tv typevar.TypeVar) *ruletree.Node {
	return &ruletree.Node{Ident: ident, Construct: ruletree.ConstructVar, TypeVar: tv}
}

func TestPretty_Var(t *testing.T) {
	n := varNode("x", 1)
	types := map[typevar.TypeVar]annotation.Type{1: annotation.BitVectorOfWidth(32)}

	got := Pretty(n, types, 80)
	want := "x:bv32"

	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPretty_MissingTypeVarRendersUnknownSigil(t *testing.T) {
	n := varNode("x", 1)
	types := map[typevar.TypeVar]annotation.Type{}

	got := Pretty(n, types, 80)
	want := "x:?"

	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPretty_Term(t *testing.T) {
	arg := varNode("a", 2)
	term := &ruletree.Node{
		Ident:     "bvadd__3",
		Construct: ruletree.ConstructTerm,
		TypeVar:   3,
		Children:  []*ruletree.Node{arg},
	}

	types := map[typevar.TypeVar]annotation.Type{
		2: annotation.BitVectorOfWidth(32),
		3: annotation.BitVectorOfWidth(32),
	}

	got := Pretty(term, types, 80)
	want := "(bvadd a:bv32):bv32"

	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPretty_WrapsToWidth(t *testing.T) {
	a := varNode("aaaaaaaaaa", 1)
	b := varNode("bbbbbbbbbb", 2)
	term := &ruletree.Node{
		Ident:     "op__3",
		Construct: ruletree.ConstructTerm,
		TypeVar:   3,
		Children:  []*ruletree.Node{a, b},
	}

	types := map[typevar.TypeVar]annotation.Type{
		1: annotation.Int(),
		2: annotation.Int(),
		3: annotation.Int(),
	}

	got := Pretty(term, types, 20)

	for _, line := range splitLines(got) {
		if len(line) > 20 {
			t.Errorf("line %q exceeds width 20", line)
		}
	}
}

func TestWrap_ZeroWidthIsNoop(t *testing.T) {
	s := "a b c d e f g h"
	if got := wrap(s, 0); got != s {
		t.Errorf("got %q, want %q", got, s)
	}
}

func splitLines(s string) []string {
	var (
		lines []string
		cur   []byte
	)

	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, string(cur))
			cur = nil

			continue
		}

		cur = append(cur, s[i])
	}

	lines = append(lines, string(cur))

	return lines
}
