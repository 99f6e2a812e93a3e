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

import "testing"

func TestConfig_Selects_WrongRootTerm(t *testing.T) {
	c := &Config{RootTerm: "lower"}

	if c.Selects("iadd", "r1") {
		t.Errorf("expected no selection for mismatched root term")
	}
}

func TestConfig_Selects_NoAllowlistAcceptsAny(t *testing.T) {
	c := &Config{RootTerm: "lower"}

	if !c.Selects("lower", "anything") {
		t.Errorf("expected selection with empty allowlist")
	}
}

func TestConfig_Selects_Allowlist(t *testing.T) {
	c := &Config{RootTerm: "lower", RuleNames: map[string]bool{"r1": true}}

	if !c.Selects("lower", "r1") {
		t.Errorf("expected r1 to be selected")
	}

	if c.Selects("lower", "r2") {
		t.Errorf("expected r2 to be rejected by the allowlist")
	}
}

func TestStatus_String(t *testing.T) {
	cases := []struct {
		status Status
		want   string
	}{
		{StatusTyped, "Typed"},
		{StatusRejected, "Rejected"},
		{StatusSkipped, "Skipped"},
		{Status(99), "Unknown"},
	}

	for _, tc := range cases {
		if got := tc.status.String(); got != tc.want {
			t.Errorf("Status(%d).String() = %q, want %q", tc.status, got, tc.want)
		}
	}
}
