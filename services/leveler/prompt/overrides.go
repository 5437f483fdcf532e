// Copyright (C) 2026 Relevel Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package prompt

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// LoadOverrides reads a YAML template-overrides file and applies it to the
// builder. Only the tunable fields (role, defaults) can be overridden;
// unknown keys are rejected so typos don't silently no-op.
func LoadOverrides(path string, b *Builder) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read prompt overrides: %w", err)
	}
	var tpl Template
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&tpl); err != nil && err != io.EOF {
		return fmt.Errorf("parse prompt overrides: %w", err)
	}
	b.SetTemplate(tpl)
	slog.Info("Loaded prompt overrides", "path", path)
	return nil
}

// WatchOverrides hot-reloads the overrides file whenever it changes,
// until ctx is cancelled. Reload failures keep the previous template.
func WatchOverrides(ctx context.Context, path string, b *Builder) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create overrides watcher: %w", err)
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return fmt.Errorf("watch prompt overrides: %w", err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if err := LoadOverrides(path, b); err != nil {
					slog.Warn("Prompt overrides reload failed, keeping previous template",
						"path", path, "error", err)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Warn("Prompt overrides watcher error", "error", err)
			}
		}
	}()
	return nil
}
