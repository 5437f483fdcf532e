// Copyright (C) 2026 Relevel Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package session implements the client-side core of Relevel: the
// reversible text-transformation tracker and the request-orchestration
// pipeline behind the panel's Rewrite and Revert actions.
//
// # Description
//
// One Session exists per open editing session. It owns the conversion
// ledger (fingerprint-of-rewritten-text -> original text), the run state
// machine (idle/loading/success/error), and the snapshot of the last
// executed selection. The Orchestrator drives a run over the current
// selection: items already produced by a prior rewrite are resolved back
// to their true original before being sent to the backend, so repeated
// "try again" presses rewrite the original each time instead of
// compounding drift on top of rewritten text, and Revert can restore the
// exact original wording at any point.
//
// # Concurrency
//
// One run is in flight at a time; the loading state doubles as the
// run-exclusion flag and concurrent Run calls are rejected with
// ErrRunInProgress. Ledger access is internally synchronized.
package session

// TextItem is one unit of selectable content. Items carry no identity
// beyond their text: two items with equal text are indistinguishable to
// the tracker.
type TextItem struct {
	Text string `json:"text"`
}

// Snapshot is one externally reported selection: an item count plus the
// per-item text. The selection provider delivers a fresh Snapshot object
// on every change notification; the tracker relies on that identity (see
// Tracker.SelectionChanged).
type Snapshot struct {
	Count int        `json:"count"`
	Items []TextItem `json:"items"`
}

// NewSnapshot builds a snapshot from raw item texts.
func NewSnapshot(texts ...string) *Snapshot {
	items := make([]TextItem, len(texts))
	for i, t := range texts {
		items[i] = TextItem{Text: t}
	}
	return &Snapshot{Count: len(items), Items: items}
}

// TransformParams configures one rewrite run. All fields are free-form
// and forwarded to the backend verbatim; empty values fall back to the
// backend's defaults.
type TransformParams struct {
	TargetGrade string
	Curriculum  string
	ExtraPrompt string
}

// State is the session's run state. Transitions are global: the session
// assumes one pipeline run at a time.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateSuccess
	StateError
)

// String returns "idle", "loading", "success", or "error".
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Mode selects what a run does with each item.
type Mode int

const (
	// ModeTransform rewrites eligible items via the backend.
	ModeTransform Mode = iota
	// ModeRevert restores originals from the ledger, never calling the
	// backend.
	ModeRevert
)

// String returns "transform" or "revert".
func (m Mode) String() string {
	switch m {
	case ModeTransform:
		return "transform"
	case ModeRevert:
		return "revert"
	default:
		return "unknown"
	}
}
