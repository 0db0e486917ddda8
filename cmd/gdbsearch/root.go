// Copyright 2026 The gdbsearch Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/spf13/cobra"
)

// configPathFlag is a root-level flag shared by every subcommand that
// needs the ambient TOML configuration.
var configPathFlag string

// verboseFlag raises the logger to Debug regardless of the config file's
// log_level.
var verboseFlag bool

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "gdbsearch",
		Short:         "Recursively trace a debugged program for metric deltas",
		Long:          rootLongDescription,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPathFlag, "config", "", "path to the TOML config file (default ./gdbsearch.toml if present)")
	root.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "log at debug level")

	root.AddCommand(newRunCmd())
	root.AddCommand(newProbesCmd())
	root.AddCommand(newInspectCmd())
	return root
}

const rootLongDescription = `gdbsearch drives an external debugger (gdb by default) through a target
program, single-stepping recursively explored call frames and recording
every line whose sampled metric satisfies a delta predicate. Findings are
rendered as a set of cross-linked HTML pages, one per explored frame.`
