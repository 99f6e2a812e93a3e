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

// Command gen emits pkg/annoconstr/samewidth_gen.go: the lookup table from
// a bit-vector same-width binary annotation operator to the specexpr op its
// typed form renders as. Ten of the Annotation Constraint Generator's (C3)
// operator cases share one handler (walkBVSameWidthBinary) and differ only
// in this mapping, so it is generated from a template instead of hand
// duplicated, the same shape as the teacher's field/internal/generator.
package main

import (
	"fmt"
	"os"

	"github.com/consensys/bavard"
)

type opPair struct {
	AnnotationOp string
	SpecOp       string
}

// sameWidthBinaryOps is the source of truth the template renders; keep this
// in sync with pkg/annotation's and pkg/specexpr's Op vocabularies.
var sameWidthBinaryOps = []opPair{
	{"OpBVMul", "OpBVMul"},
	{"OpBVUDiv", "OpBVUDiv"},
	{"OpBVSDiv", "OpBVSDiv"},
	{"OpBVAdd", "OpBVAdd"},
	{"OpBVSub", "OpBVSub"},
	{"OpBVUrem", "OpBVUrem"},
	{"OpBVSrem", "OpBVSrem"},
	{"OpBVAnd", "OpBVAnd"},
	{"OpBVOr", "OpBVOr"},
	{"OpBVXor", "OpBVXor"},
}

//go:generate go run main.go
func main() {
	bgen := bavard.NewBatchGenerator("isle-typeinf contributors", 2026, "isle-typeinf")

	data := struct{ Ops []opPair }{Ops: sameWidthBinaryOps}

	err := bgen.Generate(data, "annoconstr", "templates",
		bavard.Entry{
			File:      "../../pkg/annoconstr/samewidth_gen.go",
			Templates: []string{"samewidth.go.tmpl"},
		},
	)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
