// Copyright 2026 The gdbsearch Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/askervin/gdbsearch/internal/report"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <rawDataFile>",
		Short: "Interactively browse a previously saved raw-data file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := report.ReadRawDataFile(args[0])
			if err != nil {
				return err
			}
			return inspectREPL(cmd.OutOrStdout(), store)
		},
	}
}

// inspectREPL runs a small line-editor loop over a loaded Store: "pages"
// lists every (sourceFile, parentCallPath) page, "show <n>" prints the
// findings on the nth listed page, "quit" (or EOF/Ctrl-D) ends the loop.
func inspectREPL(out io.Writer, store *report.Store) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:      "gdbsearch> ",
		HistoryFile: "",
	})
	if err != nil {
		return fmt.Errorf("inspect: starting line editor: %w", err)
	}
	defer rl.Close()

	pages := store.Pages()
	fmt.Fprintf(out, "%d pages loaded, %d findings total. Type \"help\" for commands.\n", len(pages), store.Len())

	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF on Ctrl-D, readline.ErrInterrupt on Ctrl-C
			return nil
		}
		if !inspectCommand(out, pages, line) {
			return nil
		}
	}
}

// inspectCommand executes one REPL line against pages, writing its output
// to out. It returns false when the loop should end ("quit"/"exit").
func inspectCommand(out io.Writer, pages []report.Page, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return true
	}

	switch fields[0] {
	case "help":
		fmt.Fprintln(out, "commands: pages | show <n> | quit")
	case "quit", "exit":
		return false
	case "pages":
		for i, p := range pages {
			fmt.Fprintf(out, "%d: %s %s (%d findings)\n", i, p.SourceFile, p.ParentCallPath.PageFilename(), len(p.Findings))
		}
	case "show":
		if len(fields) != 2 {
			fmt.Fprintln(out, "usage: show <n>")
			return true
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil || n < 0 || n >= len(pages) {
			fmt.Fprintf(out, "no such page %q\n", fields[1])
			return true
		}
		for _, f := range pages[n].Findings {
			fmt.Fprintf(out, "  line %d: %d -> %d (step %d)\n", f.Line, f.PrevMetric, f.NewMetric, f.StepIndex)
		}
	default:
		fmt.Fprintf(out, "unknown command %q, type \"help\"\n", fields[0])
	}
	return true
}
