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

// Package engine is the driver (C8): it iterates a rule corpus, selects the
// rules rooted at a configured term, and runs the parse-tree builder (C2),
// annotation constraint generator (C3/C4), solver (C6), and emitter (C7)
// over each selected rule against every signature instantiation of its root
// term, producing one RuleResult per (rule, instantiation) pair.
package engine

import "time"

// Config is the plain, explicitly threaded configuration a driver run is
// parameterized by, matching the teacher's corset.CompilationConfig pattern
// of a struct populated from CLI flags rather than package-level globals.
type Config struct {
	// RootTerm is the name of the term a rule's left-hand side must be
	// rooted at for the rule to be selected.
	RootTerm string

	// RuleNames, if non-empty, restricts selection to rules whose name is
	// in this set. An empty set imposes no restriction.
	RuleNames map[string]bool

	// SolverTimeout bounds how long a single rule's SMT session may run
	// before that instantiation is rejected with a timeout reason. Zero
	// disables the timeout.
	SolverTimeout time.Duration

	// ReplayDir, if non-empty, is the directory a "<rule-id>-<instantiation>.smt2"
	// replay transcript is written to for every rule instantiation solved.
	ReplayDir string

	// TermWidth is passed through to the emitter's pretty-printer; 0
	// selects the detected terminal width.
	TermWidth uint
}

// Selects reports whether a rule (identified by its root-term name and its
// own, possibly empty, name) is chosen for processing under this config.
func (c *Config) Selects(rootTermName, ruleName string) bool {
	if rootTermName != c.RootTerm {
		return false
	}

	if len(c.RuleNames) == 0 {
		return true
	}

	return c.RuleNames[ruleName]
}
