// Copyright 2026 The gdbsearch Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/askervin/gdbsearch/internal/callpath"
	"github.com/askervin/gdbsearch/internal/config"
	"github.com/askervin/gdbsearch/internal/logging"
	"github.com/askervin/gdbsearch/internal/predicate"
	"github.com/askervin/gdbsearch/internal/probe"
	"github.com/askervin/gdbsearch/internal/report"
	"github.com/askervin/gdbsearch/internal/search"
	"github.com/askervin/gdbsearch/internal/source"
)

var (
	exprFlag     string
	outdirFlag   string
	rawFlag      bool
	loadFlag     string
	maxDepthFlag int
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <debuggerCommand> [metricName] [initialPaths]",
		Short: "Run a recursive search over a debugged program",
		Args:  cobra.RangeArgs(1, 3),
		RunE:  runRun,
	}
	cmd.Flags().StringVarP(&exprFlag, "expr", "e", "", "delta predicate, default from config or \"n > p\"")
	cmd.Flags().StringVarP(&outdirFlag, "outdir", "o", "", "HTML output directory, default a process-specific temp directory")
	cmd.Flags().BoolVarP(&rawFlag, "raw", "d", false, "emit the raw-data file instead of HTML")
	cmd.Flags().StringVarP(&loadFlag, "load", "l", "", "load a previously-saved raw-data file and render HTML without running the debugger")
	cmd.Flags().IntVarP(&maxDepthFlag, "max-depth", "m", 0, "optional depth bound on the search")
	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(resolveConfigPath(configPathFlag))
	if err != nil {
		return err
	}

	outDir := outdirFlag
	if outDir == "" {
		outDir, err = os.MkdirTemp("", "gdbsearch-")
		if err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	resolver := source.New(cfg.SearchDirs)
	renderer := report.NewRenderer(outDir, resolver.Resolve)

	var store *report.Store
	if loadFlag != "" {
		store, err = report.ReadRawDataFile(loadFlag)
		if err != nil {
			return err
		}
	} else {
		store, err = runSearch(args, cfg, resolver)
		if err != nil {
			return err
		}
	}

	if rawFlag {
		rawPath := filepath.Join(outDir, "gdbsearch.raw")
		if err := report.WriteRawDataFile(rawPath, store); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), rawPath)
		return nil
	}

	if err := renderer.Render(store); err != nil {
		return err
	}

	printSummary(cmd, store, outDir)
	return nil
}

func runSearch(args []string, cfg config.Config, resolver *source.Resolver) (*report.Store, error) {
	debuggerCommand := args[0]

	probeName := cfg.DefaultProbe
	if len(args) >= 2 && args[1] != "" {
		probeName = args[1]
	}
	probeFn, ok := probe.Lookup(probeName)
	if !ok {
		return nil, fmt.Errorf("run: unknown metric probe %q (see \"gdbsearch probes\")", probeName)
	}

	initialPathsLiteral := ""
	if len(args) >= 3 {
		initialPathsLiteral = args[2]
	}
	initialPaths, err := callpath.ParseInitialPaths(initialPathsLiteral)
	if err != nil {
		return nil, err
	}

	exprSrc := exprFlag
	if exprSrc == "" {
		exprSrc = cfg.DefaultExpr
	}
	pred, err := predicate.Parse(exprSrc)
	if err != nil {
		return nil, err
	}

	logLevel := cfg.LogLevel
	if verboseFlag {
		logLevel = "debug"
	}
	logger := logging.New(cfg.LogFile, logging.ParseLevel(logLevel))

	store := report.NewStore()
	ctx := &search.Context{
		GdbCommand: debuggerCommand,
		Probe:      probeFn,
		Predicate:  pred,
		Resolver:   resolver,
		Store:      store,
		MaxDepth:   maxDepthFlag,
		Logger:     logger,
	}
	driver := search.New(ctx, initialPaths)
	stats := driver.Run()
	if stats.PathsExplored > 0 && stats.PathsAborted == stats.PathsExplored {
		return nil, &fatalRunError{err: fmt.Errorf("run: debugger interaction failed for every explored call path (%d aborted)", stats.PathsAborted)}
	}
	return store, nil
}

func resolveConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if _, err := os.Stat("gdbsearch.toml"); err == nil {
		return "gdbsearch.toml"
	}
	return ""
}

func printSummary(cmd *cobra.Command, store *report.Store, outDir string) {
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)

	bold.Fprintln(cmd.OutOrStdout(), "gdbsearch complete")
	green.Fprintf(cmd.OutOrStdout(), "  findings: %d\n", store.Len())
	fmt.Fprintf(cmd.OutOrStdout(), "  pages:    %d\n", len(store.Pages()))
	fmt.Fprintf(cmd.OutOrStdout(), "  output:   %s\n", outDir)
}
