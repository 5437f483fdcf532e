// Copyright (C) 2026 Relevel Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"github.com/spf13/cobra"
)

// --- Global Command Variables ---
var (
	configPath  string
	verbose     bool
	gradeFlag   string
	curriculum  string
	extraPrompt string
	backendURL  string
	apiToken    string
	oracleFlag  string
	sessionPath string

	rootCmd = &cobra.Command{
		Use:   "relevel",
		Short: "A cli to rewrite text to a target grade level, reversibly",
		Long: `Relevel rewrites text to a chosen grade level through an LLM oracle,
remembers every rewrite in a session ledger, and can revert any rewritten
text back to its exact original wording.`,
	}

	rewriteCmd = &cobra.Command{
		Use:   "rewrite [text...]",
		Short: "Rewrite text to the target grade level",
		Long: `Rewrites each argument (or stdin when no arguments are given) to the
target grade level. Rewrites are recorded in the session file so a later
revert can restore the original wording. Text already produced by an
earlier rewrite is resolved back to its original before rewriting, so
repeated runs never compound.`,
		Run: runRewrite, // Defined in cmd_rewrite.go
	}

	revertCmd = &cobra.Command{
		Use:   "revert [text...]",
		Short: "Restore previously rewritten text to its original wording",
		Long: `Looks each argument (or stdin when no arguments are given) up in the
session ledger and prints the original wording. Text the ledger does not
know is printed unchanged. Never contacts the oracle.`,
		Run: runRevert, // Defined in cmd_revert.go
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the leveler backend service",
		Run:   runServe, // Defined in cmd_serve.go
	}

	resetCmd = &cobra.Command{
		Use:   "reset",
		Short: "Discard the session ledger",
		Long: `Deletes the session file. Rewrites recorded so far become
unrevertable; the original wording is unrecoverable once the ledger is gone.`,
		Run: runReset, // Defined in cmd_revert.go
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "relevel.yaml",
		"Path to the configuration file (missing file is fine)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&sessionPath, "session", "",
		"Path to the session ledger file (default ~/.relevel/session.json)")

	rewriteCmd.Flags().StringVar(&backendURL, "backend", "",
		"Base URL of a running leveler service (default: talk to the oracle directly)")
	rewriteCmd.Flags().StringVar(&apiToken, "token", "",
		"Bearer token for the leveler service")
	rewriteCmd.Flags().StringVar(&gradeFlag, "grade", "",
		"Target grade level, e.g. 'third' (default 'seventh')")
	rewriteCmd.Flags().StringVar(&curriculum, "curriculum", "",
		"Curriculum to adapt to (default 'NSW Education')")
	rewriteCmd.Flags().StringVar(&extraPrompt, "extra-prompt", "",
		"Extra instruction appended to the rewrite prompt")
	rewriteCmd.Flags().StringVar(&oracleFlag, "oracle", "",
		"Oracle backend for direct mode: openai or ollama")

	rootCmd.AddCommand(rewriteCmd)
	rootCmd.AddCommand(revertCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(resetCmd)
}
