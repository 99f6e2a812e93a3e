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

package smt

import (
	"bufio"
	"fmt"
	"io"
	"os/exec"

	"github.com/yelhsams/isle-typeinf/internal/sexp"
	"github.com/yelhsams/isle-typeinf/internal/source"
)

// Session owns one `z3 -smt2 -in` subprocess. Each rule being typed gets
// its own Session, so that one rule's unsatisfiable constraints (or a
// solver crash) can never affect another rule's solve -- the engine's
// per-rule workers are independent and so are their SMT sessions.
type Session struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader

	Builder *Builder
}

// NewSession spawns a fresh z3 subprocess in interactive SMT-LIB2 mode.
// replay, if non-nil, receives a verbatim copy of every statement sent to
// the solver for later offline replay.
func NewSession(replay io.Writer) (*Session, error) {
	cmd := exec.Command("z3", "-smt2", "-in")

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("smt: stdin pipe: %w", err)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("smt: stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("smt: starting z3: %w", err)
	}

	return &Session{
		cmd:     cmd,
		stdin:   stdin,
		stdout:  bufio.NewReader(stdout),
		Builder: NewBuilder(stdin, replay),
	}, nil
}

// Close terminates the solver subprocess, releasing its pipes.
func (s *Session) Close() error {
	s.stdin.Close() //nolint:errcheck
	return s.cmd.Wait()
}

// Kill forcibly terminates the solver subprocess, for use when a per-rule
// solver timeout (spec.md §5) has expired and the session can no longer be
// trusted to respond to a graceful Close.
func (s *Session) Kill() error {
	if s.cmd.Process == nil {
		return nil
	}

	return s.cmd.Process.Kill()
}

// CheckSat issues `(check-sat)` and reads back the one-line sat/unsat/
// unknown response.
func (s *Session) CheckSat() (string, error) {
	s.Builder.CheckSat()

	line, err := s.readLine()
	if err != nil {
		return "", err
	}

	return line, nil
}

// GetValue issues `(get-value (exprs...))` and parses the response as an
// S-expression list of (expr value) pairs via the shared S-expression
// parser, returning each pair's value as plain text.
func (s *Session) GetValue(exprs ...string) (map[string]string, error) {
	s.Builder.GetValue(exprs...)

	resp, err := s.readSExpr()
	if err != nil {
		return nil, err
	}

	list, ok := resp.(*sexp.List)
	if !ok {
		return nil, fmt.Errorf("smt: get-value response is not a list: %s", resp.String())
	}

	out := make(map[string]string, list.Len())

	for _, el := range list.Elements {
		pair, ok := el.(*sexp.List)
		if !ok || pair.Len() != 2 {
			return nil, fmt.Errorf("smt: malformed get-value pair: %s", el.String())
		}

		out[pair.Elements[0].String()] = pair.Elements[1].String()
	}

	return out, nil
}

// readLine reads one newline-terminated response from the solver.
func (s *Session) readLine() (string, error) {
	line, err := s.stdout.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("smt: reading response: %w", err)
	}

	return trimNewline(line), nil
}

// readSExpr reads one balanced S-expression response from the solver,
// accumulating lines until parenthesis depth returns to zero.
func (s *Session) readSExpr() (sexp.SExp, error) {
	var buf []byte

	depth := 0
	started := false

	for {
		b, err := s.stdout.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("smt: reading s-expression: %w", err)
		}

		switch b {
		case '(':
			depth++
			started = true
		case ')':
			depth--
		}

		buf = append(buf, b)

		if started && depth == 0 {
			break
		}
	}

	file := source.NewSourceFile("<smt-response>", buf)

	parsed, _, err := sexp.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("smt: parsing response %q: %w", string(buf), err)
	}

	return parsed, nil
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}

	return s
}
