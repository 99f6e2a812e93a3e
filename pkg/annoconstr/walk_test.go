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
	"testing"

	"github.com/yelhsams/isle-typeinf/pkg/annotation"
	"github.com/yelhsams/isle-typeinf/pkg/constraint"
	"github.com/yelhsams/isle-typeinf/pkg/typevar"
)

func newWalker() *Walker {
	return NewWalker(typevar.NewAllocator(), constraint.NewStore())
}

// TestWalk_SameWidthBinaryFamily checks every op in sameWidthBinaryOps is
// actually dispatched to walkBVSameWidthBinary through Walk's default case,
// not just present in the generated table.
func TestWalk_SameWidthBinaryFamily(t *testing.T) {
	for op, specOp := range sameWidthBinaryOps {
		w := newWalker()
		info := NewInfo("t")

		e := annotation.Binary(op, annotation.Var("a"), annotation.Var("b"))

		got, _ := w.Walk(e, info)

		if got.Op != specOp {
			t.Errorf("op %v: got specexpr op %v, want %v", op, got.Op, specOp)
		}
	}
}

func TestWalk_UnknownOpPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected Walk to panic on an unrecognized op")
		}
	}()

	w := newWalker()
	w.Walk(annotation.Expr{Op: annotation.Op(255)}, NewInfo("t"))
}
