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
	"github.com/yelhsams/isle-typeinf/pkg/emit"
	"github.com/yelhsams/isle-typeinf/pkg/rule"
)

// Status is the terminal state a (rule, root-term-signature-instantiation)
// pair reaches, per spec.md's state machine's three terminal states.
type Status uint8

// Terminal states. Fresh/Parsed/Constrained/Solving are transient and not
// surfaced on RuleResult; only the state a run settles in is reported.
const (
	StatusTyped Status = iota
	StatusRejected
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusTyped:
		return "Typed"
	case StatusRejected:
		return "Rejected"
	case StatusSkipped:
		return "Skipped"
	default:
		return "Unknown"
	}
}

// RuleResult is the outcome of running C2-C7 once for one rule against one
// candidate signature instantiation of its root term.
type RuleResult struct {
	RuleID   rule.RuleID
	RuleName string

	// Instantiation is the index, within the root term's signature list,
	// of the candidate this result was produced against (spec.md §4.8 /
	// SPEC_FULL.md §5 item 4: a root term may have several width
	// instantiations).
	Instantiation int

	Status Status

	// Reason explains a Rejected or Skipped outcome; empty for Typed.
	Reason string

	// Record is populated iff Status == StatusTyped.
	Record *emit.Record
}
