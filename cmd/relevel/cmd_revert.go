// Copyright (C) 2026 Relevel Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/relevel/relevel/services/session"
)

// runRevert restores each input text to its recorded original wording.
// Purely local: the ledger in the session file is the only source.
func runRevert(cmd *cobra.Command, args []string) {
	texts := gatherTexts(args)
	if len(texts) == 0 {
		log.Fatalf("Nothing to revert: pass text arguments or pipe text on stdin")
	}

	sess, path := loadSession()
	orchestrator := session.NewOrchestrator(sess, nil, logger.Slog())
	result, err := orchestrator.Run(context.Background(), session.NewSnapshot(texts...),
		session.TransformParams{}, session.ModeRevert)
	if err != nil {
		log.Fatalf("Revert run failed: %v", err)
	}

	if result.Reverted == 0 {
		logger.Warn("No input matched a recorded rewrite, output is unchanged")
	}
	for _, item := range result.Items {
		fmt.Println(item.Text)
	}
	saveSession(sess, path)
}

// runReset deletes the session file.
func runReset(cmd *cobra.Command, args []string) {
	path := resolveSessionPath()
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			logger.Info("No session file to remove", "path", path)
			return
		}
		log.Fatalf("Failed to remove the session file: %v", err)
	}
	logger.Info("Session ledger discarded", "path", path)
}
