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
	"strconv"

	"github.com/yelhsams/isle-typeinf/internal/sexp"
	"github.com/yelhsams/isle-typeinf/pkg/annotation"
	"github.com/yelhsams/isle-typeinf/pkg/rule"
)

// loadDefType processes `(deftype <name>)`, registering a fresh host-IR
// type id.
func (l *Loader) loadDefType(list *sexp.List) error {
	name, err := symbolAt(list, 1)
	if err != nil {
		return err
	}

	if _, exists := l.typeIDs[name.Value]; exists {
		return fmt.Errorf("loader: type %q declared twice", name.Value)
	}

	id := rule.TypeID(len(l.typeNames))
	l.typeNames = append(l.typeNames, name.Value)
	l.typeIDs[name.Value] = id

	return nil
}

// loadDefModel processes `(defmodel <type-name> <annotation-type>)`,
// binding a previously declared host-IR type to the concrete annotation
// type it denotes.
func (l *Loader) loadDefModel(list *sexp.List) error {
	name, err := symbolAt(list, 1)
	if err != nil {
		return err
	}

	id, err := l.lookupType(name.Value)
	if err != nil {
		return err
	}

	if list.Len() < 3 {
		return fmt.Errorf("loader: defmodel %q missing annotation type", name.Value)
	}

	ty, err := parseAnnotationType(list.Get(2))
	if err != nil {
		return err
	}

	l.env.Model[id] = ty

	return nil
}

// parseAnnotationType reads one annotation.Type from its surface form:
// `bv`, `(bv <width>)`, `bvunk`, `int`, `bool`, `(poly <name>)`.
func parseAnnotationType(s sexp.SExp) (annotation.Type, error) {
	if sym := s.AsSymbol(); sym != nil {
		switch sym.Value {
		case "bv":
			return annotation.BitVector(), nil
		case "bvunk":
			return annotation.BitVectorUnknown(), nil
		case "int":
			return annotation.Int(), nil
		case "bool":
			return annotation.Bool(), nil
		default:
			return annotation.Type{}, fmt.Errorf("loader: unknown annotation type %q", sym.Value)
		}
	}

	list := s.AsList()
	if list == nil || list.Len() < 2 {
		return annotation.Type{}, fmt.Errorf("loader: malformed annotation type %q", s.String())
	}

	head := list.Get(0).AsSymbol()
	if head == nil {
		return annotation.Type{}, fmt.Errorf("loader: malformed annotation type %q", s.String())
	}

	switch head.Value {
	case "bv":
		width, err := parseInt(list.Get(1))
		if err != nil {
			return annotation.Type{}, err
		}

		return annotation.BitVectorOfWidth(width), nil
	case "poly":
		param := list.Get(1).AsSymbol()
		if param == nil {
			return annotation.Type{}, fmt.Errorf("loader: malformed poly type %q", s.String())
		}

		return annotation.Poly(param.Value), nil
	default:
		return annotation.Type{}, fmt.Errorf("loader: unknown annotation type form %q", s.String())
	}
}

func parseInt(s sexp.SExp) (int64, error) {
	sym := s.AsSymbol()
	if sym == nil {
		return 0, fmt.Errorf("loader: expected integer, got %q", s.String())
	}

	n, err := strconv.ParseInt(sym.Value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("loader: invalid integer %q", sym.Value)
	}

	return n, nil
}
