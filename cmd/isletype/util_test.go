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
	"testing"
	"time"

	"github.com/spf13/cobra"
)

func testCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().Bool("verbose", true, "")
	cmd.Flags().String("root-term", "lower", "")
	cmd.Flags().StringArray("rule", []string{"a", "b"}, "")
	cmd.Flags().Uint("width", 120, "")
	cmd.Flags().Duration("solver-timeout", 5*time.Second, "")

	return cmd
}

func TestGetFlag(t *testing.T) {
	if !GetFlag(testCmd(), "verbose") {
		t.Errorf("expected true")
	}
}

func TestGetString(t *testing.T) {
	if got := GetString(testCmd(), "root-term"); got != "lower" {
		t.Errorf("got %q, want %q", got, "lower")
	}
}

func TestGetStringArray(t *testing.T) {
	got := GetStringArray(testCmd(), "rule")
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("got %v, want [a b]", got)
	}
}

func TestGetUint(t *testing.T) {
	if got := GetUint(testCmd(), "width"); got != 120 {
		t.Errorf("got %d, want 120", got)
	}
}

func TestGetDuration(t *testing.T) {
	if got := GetDuration(testCmd(), "solver-timeout"); got != 5*time.Second {
		t.Errorf("got %v, want 5s", got)
	}
}
