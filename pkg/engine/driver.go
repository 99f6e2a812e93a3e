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
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/yelhsams/isle-typeinf/pkg/annoconstr"
	"github.com/yelhsams/isle-typeinf/pkg/annotation"
	"github.com/yelhsams/isle-typeinf/pkg/emit"
	"github.com/yelhsams/isle-typeinf/pkg/rule"
	"github.com/yelhsams/isle-typeinf/pkg/ruletree"
	"github.com/yelhsams/isle-typeinf/pkg/specexpr"
	"github.com/yelhsams/isle-typeinf/pkg/typesolve"
	"github.com/yelhsams/isle-typeinf/pkg/typevar"
)

// FatalError wraps the two error classes spec.md §7 calls fatal to the
// whole process rather than local to one rule: a dropped constraint
// reaching the emitter, and a solver-protocol failure. Run returns early
// with a FatalError; the replay log (if configured) is left on disk for
// diagnosis.
type FatalError struct {
	RuleID   rule.RuleID
	RuleName string
	Err      error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("engine: fatal processing rule %s: %s", ruleLabel(e.RuleID, e.RuleName), e.Err)
}

func (e *FatalError) Unwrap() error { return e.Err }

// Driver is the C8 driver: it owns the read-only environments shared by
// every rule in a run and the configuration selecting which rules to
// process.
type Driver struct {
	Terms *rule.TermEnv
	Types *rule.TypeEnv
	Env   *annotation.Env
	Cfg   Config
}

// New constructs a driver over the given read-only environments.
func New(terms *rule.TermEnv, types *rule.TypeEnv, env *annotation.Env, cfg Config) *Driver {
	return &Driver{Terms: terms, Types: types, Env: env, Cfg: cfg}
}

// Run iterates rules in order, selects the ones rooted at the configured
// term (and, if restricted, named in the configured set), and runs every
// signature instantiation of the root term through C2-C7. It returns the
// accumulated per-instantiation results, or a FatalError if a bug-class
// invariant violation or solver-protocol failure interrupts the run.
func (d *Driver) Run(rules []*rule.Rule) ([]RuleResult, error) {
	var results []RuleResult

	for _, r := range rules {
		rootName := d.Terms.Name(r.RootTerm)

		if !d.Cfg.Selects(rootName, r.Name) {
			continue
		}

		sigs := d.Env.SignaturesFor(r.RootTerm)
		if len(sigs) == 0 {
			log.WithField("rule", ruleLabel(r.ID, r.Name)).
				Infof("skipped: root term %q has no annotation", rootName)

			results = append(results, RuleResult{
				RuleID:   r.ID,
				RuleName: r.Name,
				Status:   StatusSkipped,
				Reason:   fmt.Sprintf("root term %q has no annotation", rootName),
			})

			continue
		}

		for i, sig := range sigs {
			res, err := d.runInstantiation(r, rootName, i, sig)
			if err != nil {
				return results, err
			}

			results = append(results, res)
		}
	}

	return results, nil
}

func (d *Driver) runInstantiation(r *rule.Rule, rootName string, idx int, sig *annotation.TermSignature) (RuleResult, error) {
	base := RuleResult{RuleID: r.ID, RuleName: r.Name, Instantiation: idx}

	if tok, ok := firstUnknownConstPrim(r); ok {
		log.WithField("rule", ruleLabel(r.ID, r.Name)).
			Warnf("rejected: unrecognized constant-primitive token %q", tok)

		base.Status = StatusRejected
		base.Reason = fmt.Sprintf("unrecognized constant-primitive token %q", tok)

		return base, nil
	}

	builder := ruletree.NewBuilder(r, d.Terms, d.Types, rootName)
	tree := ruletree.Build(builder, sig)

	walker := annoconstr.NewWalker(builder.Alloc, builder.Store)

	ok := true

	for _, arg := range tree.Args {
		if _, applied := walker.Apply(arg, d.Terms, d.Env, false); !applied {
			ok = false
			break
		}
	}

	if ok {
		for _, il := range tree.IfLets {
			lhsExpr, appliedL := walker.Apply(il.LHS, d.Terms, d.Env, false)
			if !appliedL {
				ok = false
				break
			}

			rhsExpr, appliedR := walker.Apply(il.RHS, d.Terms, d.Env, false)
			if !appliedR {
				ok = false
				break
			}

			walker.Assumptions = append(walker.Assumptions, specexpr.Binary(0, specexpr.OpEq, lhsExpr, rhsExpr))
		}
	}

	var rhsExpr specexpr.Expr

	if ok {
		var applied bool

		rhsExpr, applied = walker.Apply(tree.RHS, d.Terms, d.Env, true)
		if !applied {
			ok = false
		}
	}

	_ = rhsExpr

	if !ok {
		log.WithField("rule", ruleLabel(r.ID, r.Name)).
			Info("skipped: a term referenced by this rule has no annotation")

		base.Status = StatusSkipped
		base.Reason = "a term referenced by this rule has no annotation"

		return base, nil
	}

	replay, closeReplay, err := d.openReplay(r.ID, idx)
	if err != nil {
		return base, &FatalError{RuleID: r.ID, RuleName: r.Name, Err: err}
	}
	defer closeReplay()

	solver, err := typesolve.NewSolver(replay)
	if err != nil {
		return base, &FatalError{RuleID: r.ID, RuleName: r.Name, Err: err}
	}
	defer solver.Close() //nolint:errcheck

	solver.AddConstraints(builder.Store, builder.Alloc.Count(), walker.TypeVarToValue)

	types, solveErr := d.solveWithTimeout(solver)
	if solveErr != nil {
		if errors.Is(solveErr, typesolve.ErrUnsat) {
			log.WithField("rule", ruleLabel(r.ID, r.Name)).Warn("rejected: constraints are unsatisfiable")

			base.Status = StatusRejected
			base.Reason = "constraints are unsatisfiable"

			return base, nil
		}

		if errors.Is(solveErr, errSolverTimeout) {
			log.WithField("rule", ruleLabel(r.ID, r.Name)).Warn("rejected: solver timeout")

			base.Status = StatusRejected
			base.Reason = "solver timeout"

			return base, nil
		}

		return base, &FatalError{RuleID: r.ID, RuleName: r.Name, Err: solveErr}
	}

	rec, err := emit.Build(r, tree, walker, types, d.Cfg.TermWidth)
	if err != nil {
		return base, &FatalError{RuleID: r.ID, RuleName: r.Name, Err: err}
	}

	base.Status = StatusTyped
	base.Record = rec

	return base, nil
}

var errSolverTimeout = errors.New("engine: solver timeout")

// solveWithTimeout runs the solver synchronously when no timeout is
// configured, and otherwise races it against a timer, killing the
// subprocess if the timer fires first (spec.md §5: "implementations may
// impose a per-rule solver timeout; on timeout the rule transitions to
// Rejected with a timeout reason").
func (d *Driver) solveWithTimeout(solver *typesolve.Solver) (map[typevar.TypeVar]annotation.Type, error) {
	if d.Cfg.SolverTimeout <= 0 {
		return solver.Solve()
	}

	type result struct {
		types map[typevar.TypeVar]annotation.Type
		err   error
	}

	done := make(chan result, 1)

	go func() {
		types, err := solver.Solve()
		done <- result{types: types, err: err}
	}()

	select {
	case r := <-done:
		return r.types, r.err
	case <-time.After(d.Cfg.SolverTimeout):
		solver.Kill() //nolint:errcheck
		return nil, errSolverTimeout
	}
}

// openReplay opens the per-instantiation SMT-LIB2 replay log, returning a
// genuinely nil io.Writer (not a typed nil *os.File, which would defeat
// internal/smt.Builder's nil check) when no replay directory is configured.
func (d *Driver) openReplay(id rule.RuleID, instantiation int) (io.Writer, func(), error) {
	if d.Cfg.ReplayDir == "" {
		return nil, func() {}, nil
	}

	if err := os.MkdirAll(d.Cfg.ReplayDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("engine: creating replay directory: %w", err)
	}

	name := filepath.Join(d.Cfg.ReplayDir, fmt.Sprintf("%d-%d.smt2", id, instantiation))

	f, err := os.Create(name)
	if err != nil {
		return nil, nil, fmt.Errorf("engine: creating replay log: %w", err)
	}

	return f, func() { f.Close() }, nil //nolint:errcheck
}

// firstUnknownConstPrim walks a rule's patterns and expression for a
// constant-primitive token not in the known width/boolean vocabulary,
// returning the first one found.
func firstUnknownConstPrim(r *rule.Rule) (string, bool) {
	for _, p := range r.Args {
		if tok, ok := unknownConstPrimInPattern(p); ok {
			return tok, true
		}
	}

	for _, il := range r.IfLets {
		if tok, ok := unknownConstPrimInPattern(il.LHS); ok {
			return tok, true
		}

		if tok, ok := unknownConstPrimInExpr(il.RHS); ok {
			return tok, true
		}
	}

	return unknownConstPrimInExpr(r.RHS)
}

func unknownConstPrimInPattern(p rule.Pattern) (string, bool) {
	switch n := p.(type) {
	case *rule.ConstPrimPattern:
		if !ruletree.KnownConstPrim(n.Name) {
			return n.Name, true
		}
	case *rule.TermPattern:
		for _, a := range n.Args {
			if tok, ok := unknownConstPrimInPattern(a); ok {
				return tok, true
			}
		}
	case *rule.BindPattern:
		return unknownConstPrimInPattern(n.SubPat)
	case *rule.AndPattern:
		for _, a := range n.SubPats {
			if tok, ok := unknownConstPrimInPattern(a); ok {
				return tok, true
			}
		}
	}

	return "", false
}

func unknownConstPrimInExpr(e rule.Expr) (string, bool) {
	switch n := e.(type) {
	case *rule.ConstPrimExpr:
		if !ruletree.KnownConstPrim(n.Name) {
			return n.Name, true
		}
	case *rule.TermExpr:
		for _, a := range n.Args {
			if tok, ok := unknownConstPrimInExpr(a); ok {
				return tok, true
			}
		}
	case *rule.LetExpr:
		for _, b := range n.Bindings {
			if tok, ok := unknownConstPrimInExpr(b.Expr); ok {
				return tok, true
			}
		}

		return unknownConstPrimInExpr(n.Body)
	}

	return "", false
}

func ruleLabel(id rule.RuleID, name string) string {
	if name != "" {
		return name
	}

	return fmt.Sprintf("rule#%d", id)
}
