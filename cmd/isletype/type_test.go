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

package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSiblingFile_Present(t *testing.T) {
	dir := t.TempDir()
	anchor := filepath.Join(dir, "rules.isletype")
	sibling := filepath.Join(dir, "prelude.isletype")

	if err := os.WriteFile(anchor, nil, 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	if err := os.WriteFile(sibling, nil, 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	if got := siblingFile(anchor, "prelude.isletype"); got != sibling {
		t.Errorf("got %q, want %q", got, sibling)
	}
}

func TestSiblingFile_Absent(t *testing.T) {
	dir := t.TempDir()
	anchor := filepath.Join(dir, "rules.isletype")

	if got := siblingFile(anchor, "prelude.isletype"); got != "" {
		t.Errorf("got %q, want empty string", got)
	}
}
