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
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/yelhsams/isle-typeinf/pkg/annotation"
	"github.com/yelhsams/isle-typeinf/pkg/ruletree"
	"github.com/yelhsams/isle-typeinf/pkg/typevar"
)

// defaultWidth is used whenever stdout is not a terminal (e.g. the driver
// is writing to a file or a CI log), mirroring the fallback the teacher's
// termio package implicitly relies on an interactive terminal for.
const defaultWidth = 80

// terminalWidth returns the detected width of the controlling terminal, or
// defaultWidth if stdout is not a terminal.
func terminalWidth() uint {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return defaultWidth
	}

	return uint(w)
}

// Pretty renders a parse-tree node (and its children) as a single
// s-expression-shaped string, with every leaf and term form followed by
// ":" and the compact type sigil the solver assigned it (the sigil comes
// after the identifier, not before it), then wraps the result
// to width columns (0 selects the detected terminal width).
func Pretty(n *ruletree.Node, types map[typevar.TypeVar]annotation.Type, width uint) string {
	if width == 0 {
		width = terminalWidth()
	}

	return wrap(render(n, types), width)
}

func render(n *ruletree.Node, types map[typevar.TypeVar]annotation.Type) string {
	sigil := sigilFor(n.TypeVar, types)

	switch n.Construct {
	case ruletree.ConstructVar:
		return fmt.Sprintf("%s:%s", n.Ident, sigil)

	case ruletree.ConstructWildcard:
		return fmt.Sprintf("_:%s", sigil)

	case ruletree.ConstructConst:
		return fmt.Sprintf("%s:%s", n.Ident, sigil)

	case ruletree.ConstructBindPattern:
		// Children[0] is the bound variable's own node, Children[1] the
		// sub-pattern it is bound to.
		return fmt.Sprintf("(bind %s %s):%s", render(n.Children[0], types), render(n.Children[1], types), sigil)

	case ruletree.ConstructAnd:
		parts := renderChildren(n, types)
		return fmt.Sprintf("(and %s):%s", strings.Join(parts, " "), sigil)

	case ruletree.ConstructLet:
		bindings := make([]string, len(n.LetNames))
		for i, name := range n.LetNames {
			bindings[i] = fmt.Sprintf("(%s %s)", name, render(n.Children[i], types))
		}

		body := render(n.Children[len(n.Children)-1], types)

		return fmt.Sprintf("(let (%s) %s):%s", strings.Join(bindings, " "), body, sigil)

	case ruletree.ConstructTerm:
		name := termName(n.Ident)

		if len(n.Children) == 0 {
			return fmt.Sprintf("(%s):%s", name, sigil)
		}

		parts := renderChildren(n, types)

		return fmt.Sprintf("(%s %s):%s", name, strings.Join(parts, " "), sigil)

	default:
		return fmt.Sprintf("?:%s", sigil)
	}
}

func renderChildren(n *ruletree.Node, types map[typevar.TypeVar]annotation.Type) []string {
	parts := make([]string, len(n.Children))
	for i, c := range n.Children {
		parts[i] = render(c, types)
	}

	return parts
}

// termName strips the "__<tv>" suffix ruletree appends to every term
// node's identifier, so the pretty-printer shows the bare term name with
// its own sigil instead of a numeric-suffixed one.
func termName(ident string) string {
	if i := strings.LastIndex(ident, "__"); i >= 0 {
		return ident[:i]
	}

	return ident
}

func sigilFor(v typevar.TypeVar, types map[typevar.TypeVar]annotation.Type) string {
	t, ok := types[v]
	if !ok {
		return "?"
	}

	return t.String()
}

// wrap greedily breaks s into lines no wider than width columns, splitting
// only at spaces so a single long parenthesised form is never torn in the
// middle of a token.
func wrap(s string, width uint) string {
	if width == 0 {
		return s
	}

	words := strings.Fields(s)
	if len(words) == 0 {
		return s
	}

	var (
		lines []string
		cur   strings.Builder
	)

	for _, w := range words {
		if cur.Len() > 0 && uint(cur.Len()+1+len(w)) > width {
			lines = append(lines, cur.String())
			cur.Reset()
		}

		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}

		cur.WriteString(w)
	}

	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}

	return strings.Join(lines, "\n")
}
