// Copyright (C) 2026 Relevel Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"

	"github.com/relevel/relevel/services/session"
)

// sessionFile is the on-disk shape of a CLI session. The panel keeps its
// session in memory; the CLI is one-shot, so the ledger rides in a file
// between invocations instead.
type sessionFile struct {
	Ledger *session.Ledger `json:"ledger"`
}

func resolveSessionPath() string {
	path := sessionPath
	if path == "" {
		path = config.SessionFile
	}
	if len(path) > 0 && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[1:])
		}
	}
	return path
}

// loadSession builds a session seeded from the session file. A missing or
// unreadable file starts a fresh session; a corrupt one is fatal rather
// than silently dropping the ledger.
func loadSession() (*session.Session, string) {
	path := resolveSessionPath()
	sess := session.New()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return sess, path
	}
	if err != nil {
		log.Fatalf("Failed to read the session file %s: %v", path, err)
	}
	var file sessionFile
	file.Ledger = sess.Ledger()
	if err := json.Unmarshal(data, &file); err != nil {
		log.Fatalf("Session file %s is corrupt: %v (use 'relevel reset' to discard it)", path, err)
	}
	return sess, path
}

// saveSession writes the session's ledger back to path.
func saveSession(sess *session.Session, path string) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		log.Fatalf("Failed to create the session directory: %v", err)
	}
	data, err := json.MarshalIndent(sessionFile{Ledger: sess.Ledger()}, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode the session file: %v", err)
	}
	if err := os.WriteFile(path, data, 0640); err != nil {
		log.Fatalf("Failed to write the session file %s: %v", path, err)
	}
	logger.Debug("Session saved", "path", path, "entries", sess.Ledger().Len())
}
