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
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yelhsams/isle-typeinf/internal/source"
	"github.com/yelhsams/isle-typeinf/pkg/engine"
	"github.com/yelhsams/isle-typeinf/pkg/loader"
	"github.com/yelhsams/isle-typeinf/pkg/util/termio"
)

var typeCmd = &cobra.Command{
	Use:   "type [flags] rule_file(s)",
	Short: "type a rule corpus against its annotations.",
	Long: `Load one or more .isletype source files (type/term/signature declarations and
rewrite rules), run type inference over every rule rooted at the configured
term, and print the resulting typed-rule records.`,
	Run: func(cmd *cobra.Command, args []string) {
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}

		if len(args) == 0 {
			fmt.Println("isletype: no input files given")
			os.Exit(1)
		}

		filenames := args

		if GetFlag(cmd, "prelude") {
			if p := siblingFile(args[0], "prelude.isletype"); p != "" {
				filenames = append([]string{p}, filenames...)
			}
		}

		if GetFlag(cmd, "arch") {
			if p := siblingFile(args[0], "arch.isletype"); p != "" {
				filenames = append([]string{p}, filenames...)
			}
		}

		files, err := source.ReadFiles(filenames...)
		if err != nil {
			fmt.Printf("isletype: %s\n", err.Error())
			os.Exit(1)
		}

		l := loader.New()

		for i := range files {
			if err := l.LoadFile(&files[i]); err != nil {
				fmt.Printf("isletype: %s\n", err.Error())
				os.Exit(1)
			}
		}

		cfg := engine.Config{
			RootTerm:      GetString(cmd, "root-term"),
			SolverTimeout: GetDuration(cmd, "solver-timeout"),
			ReplayDir:     GetString(cmd, "replay-dir"),
			TermWidth:     GetUint(cmd, "width"),
		}

		if names := GetStringArray(cmd, "rule"); len(names) > 0 {
			cfg.RuleNames = make(map[string]bool, len(names))
			for _, n := range names {
				cfg.RuleNames[n] = true
			}
		}

		d := engine.New(l.TermEnv(), l.TypeEnv(), l.AnnotationEnv(), cfg)

		results, err := d.Run(l.Rules())
		if err != nil {
			fmt.Printf("isletype: %s\n", err.Error())
			os.Exit(1)
		}

		if GetFlag(cmd, "summary") {
			printSummary(results)
		} else {
			printResults(results)
		}
	},
}

func siblingFile(anchor, name string) string {
	p := filepath.Join(filepath.Dir(anchor), name)

	if _, err := os.Stat(p); err != nil {
		return ""
	}

	return p
}

func printResults(results []engine.RuleResult) {
	for _, r := range results {
		label := r.RuleName
		if label == "" {
			label = fmt.Sprintf("rule#%d", r.RuleID)
		}

		switch r.Status {
		case engine.StatusTyped:
			fmt.Printf("=== %s [%d] : Typed ===\n", label, r.Instantiation)

			for _, lhs := range r.Record.LHSPretty {
				fmt.Println(lhs)
			}

			fmt.Println("=>")
			fmt.Println(r.Record.RHSPretty)
		case engine.StatusRejected:
			fmt.Printf("=== %s [%d] : Rejected (%s) ===\n", label, r.Instantiation, r.Reason)
		case engine.StatusSkipped:
			fmt.Printf("=== %s : Skipped (%s) ===\n", label, r.Reason)
		}
	}
}

func printSummary(results []engine.RuleResult) {
	table := termio.NewFormattedTable(4, uint(len(results))+1)
	table.SetRow(0,
		termio.NewText("rule"),
		termio.NewText("instantiation"),
		termio.NewText("status"),
		termio.NewText("reason"))

	for i, r := range results {
		row := uint(i) + 1
		label := r.RuleName

		if label == "" {
			label = fmt.Sprintf("rule#%d", r.RuleID)
		}

		var status termio.FormattedText

		switch r.Status {
		case engine.StatusTyped:
			status = termio.NewColouredText(r.Status.String(), termio.TERM_GREEN)
		case engine.StatusRejected:
			status = termio.NewColouredText(r.Status.String(), termio.TERM_RED)
		case engine.StatusSkipped:
			status = termio.NewColouredText(r.Status.String(), termio.TERM_YELLOW)
		}

		table.SetRow(row,
			termio.NewText(label),
			termio.NewText(fmt.Sprintf("%d", r.Instantiation)),
			status,
			termio.NewText(r.Reason))
	}

	table.SetMaxWidths(60)
	table.Print(true)
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(typeCmd)
	typeCmd.Flags().Bool("verbose", false, "enable debug-level logging.")
	typeCmd.Flags().String("root-term", "lower", "name of the root term rules are selected against.")
	typeCmd.Flags().StringArray("rule", []string{}, "restrict processing to these rule names (repeatable).")
	typeCmd.Flags().Bool("prelude", false, "include prelude.isletype from the first input file's directory, if present.")
	typeCmd.Flags().Bool("arch", false, "include arch.isletype from the first input file's directory, if present.")
	typeCmd.Flags().Duration("solver-timeout", 0, "per-rule SMT solver timeout (0 disables).")
	typeCmd.Flags().String("replay-dir", "", "directory to write per-rule SMT-LIB2 replay logs to.")
	typeCmd.Flags().Uint("width", 0, "wrap annotated pretty-print output to this column width (0: detect terminal width).")
	typeCmd.Flags().Bool("summary", false, "print a condensed, coloured one-row-per-rule summary table instead of full records.")
}
