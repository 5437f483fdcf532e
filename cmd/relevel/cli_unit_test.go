// Copyright (C) 2026 Relevel Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relevel/relevel/pkg/logging"
	"github.com/relevel/relevel/services/session"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "12310", cfg.Port)
	assert.Equal(t, "~/.relevel/session.json", cfg.SessionFile)
	assert.Empty(t, cfg.BaseURL)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relevel.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"base_url: http://file-host:12310\ngrade: fourth\noracle: ollama\n"), 0640))
	t.Setenv("LEVELER_BASE_URL", "http://env-host:12310")
	t.Setenv("LEVELER_ORACLE", "")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "http://env-host:12310", cfg.BaseURL, "env beats file")
	assert.Equal(t, "fourth", cfg.Grade)
	assert.Equal(t, "ollama", cfg.Oracle, "empty env does not clobber the file value")
}

func TestLoadConfigRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relevel.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml"), 0640))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestSessionFileRoundTrip(t *testing.T) {
	logger = logging.New(logging.Config{Quiet: true})
	sessionPath = filepath.Join(t.TempDir(), "nested", "session.json")
	defer func() { sessionPath = "" }()

	sess := session.New()
	sess.Ledger().Record("The cat sat on the mat today happily.", "The cat sat down.")
	saveSession(sess, resolveSessionPath())

	restored, path := loadSession()
	assert.Equal(t, sessionPath, path)
	got, ok := restored.Ledger().ResolveOriginal("The cat sat down.")
	require.True(t, ok)
	assert.Equal(t, "The cat sat on the mat today happily.", got)
}

func TestLoadSessionMissingFileIsFresh(t *testing.T) {
	logger = logging.New(logging.Config{Quiet: true})
	sessionPath = filepath.Join(t.TempDir(), "absent.json")
	defer func() { sessionPath = "" }()

	sess, _ := loadSession()
	assert.Equal(t, 0, sess.Ledger().Len())
}

func TestGatherTextsFromArgs(t *testing.T) {
	assert.Equal(t, []string{"one", "two"}, gatherTexts([]string{"one", "two"}))
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "flag", firstNonEmpty("flag", "config"))
	assert.Equal(t, "config", firstNonEmpty("", "config"))
	assert.Empty(t, firstNonEmpty("", ""))
}
