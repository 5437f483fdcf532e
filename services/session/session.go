// Copyright (C) 2026 Relevel Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package session

import "sync"

// Session is the explicit owner of all per-editing-session mutable state:
// the conversion ledger, the run state machine, and the snapshot of the
// last executed selection. Create one per open editing session and pass
// it into the Orchestrator and Tracker; there is deliberately no ambient
// process-wide instance.
type Session struct {
	mu           sync.Mutex
	ledger       *Ledger
	state        State
	lastExecuted *Snapshot
}

// New returns a fresh session in the idle state with an empty ledger.
func New() *Session {
	return &Session{ledger: NewLedger(), state: StateIdle}
}

// Ledger returns the session's conversion ledger.
func (s *Session) Ledger() *Ledger {
	return s.ledger
}

// State returns the current run state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastExecuted returns the selection snapshot of the last transform run,
// or nil before the first run.
func (s *Session) LastExecuted() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastExecuted
}

// beginRun flips idle/success/error -> loading, establishing run
// exclusion. Returns ErrRunInProgress when a run already holds the flag.
func (s *Session) beginRun() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateLoading {
		return ErrRunInProgress
	}
	s.state = StateLoading
	return nil
}

// endRun records the run's terminal state.
func (s *Session) endRun(terminal State) {
	s.mu.Lock()
	s.state = terminal
	s.mu.Unlock()
}

// markExecuted records snap as the last executed selection. Called by the
// orchestrator at the start of a transform run; the tracker's
// SelectionChanged flag clears as a consequence (it compares against this
// snapshot by identity).
func (s *Session) markExecuted(snap *Snapshot) {
	s.mu.Lock()
	s.lastExecuted = snap
	s.mu.Unlock()
}

// Reset returns the session to its initial state: empty ledger, idle, no
// executed selection. Tied to the editing session's end/restart;
// fingerprints recorded before a reset are unrecoverable by design.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger.Clear()
	s.state = StateIdle
	s.lastExecuted = nil
}
