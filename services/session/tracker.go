// Copyright (C) 2026 Relevel Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package session

import "sync"

// View is the tracker's read model for the panel: everything the UI needs
// to decide which actions to enable.
type View struct {
	// HasSelection is true when the current snapshot holds at least one
	// item.
	HasSelection bool
	// SelectionChanged is true when the current snapshot is a different
	// notification object than the one the last run executed over. The
	// comparison is by identity, not content: re-selecting identical text
	// still counts as a change because the provider delivers a fresh
	// snapshot.
	SelectionChanged bool
	// AnyTransformed is true when at least one selected item's text is a
	// known rewrite, i.e. Revert would do something.
	AnyTransformed bool
}

// Tracker observes selection-change notifications and derives the View.
// It holds the latest snapshot and consults the session for the
// last-executed snapshot and the ledger.
//
// Safe for concurrent use; the provider's notification goroutine and the
// UI goroutine may interleave freely.
type Tracker struct {
	mu      sync.Mutex
	session *Session
	current *Snapshot
}

// NewTracker returns a tracker bound to the session, with no selection.
func NewTracker(s *Session) *Tracker {
	return &Tracker{session: s}
}

// OnSelectionChange records the latest snapshot. Pass nil for "nothing
// selected". The snapshot pointer is retained as-is; providers must hand
// over a fresh object per notification and never mutate it afterwards.
func (t *Tracker) OnSelectionChange(snap *Snapshot) {
	t.mu.Lock()
	t.current = snap
	t.mu.Unlock()
}

// Current returns the latest snapshot, or nil when nothing is selected.
func (t *Tracker) Current() *Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// View derives the current read model.
func (t *Tracker) View() View {
	t.mu.Lock()
	snap := t.current
	t.mu.Unlock()

	v := View{}
	if snap == nil || len(snap.Items) == 0 {
		return v
	}
	v.HasSelection = true
	v.SelectionChanged = snap != t.session.LastExecuted()

	ledger := t.session.Ledger()
	for _, item := range snap.Items {
		if ledger.Contains(item.Text) {
			v.AnyTransformed = true
			break
		}
	}
	return v
}
