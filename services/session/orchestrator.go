// Copyright (C) 2026 Relevel Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package session

import (
	"context"
	"log/slog"
	"strings"
)

// MinTransformWords is the minimum word count an item must have to be
// sent to the backend. Shorter items are skipped with a warning and left
// untouched; rewriting a two-word fragment to a grade level is noise.
const MinTransformWords = 5

// Transformer is the backend seam the orchestrator calls per item.
// BackendClient implements it over HTTP; DirectTransformer implements it
// in-process for the CLI.
type Transformer interface {
	Transform(ctx context.Context, text string, params TransformParams) (string, error)
}

// Outcome says what a run did with one item.
type Outcome int

const (
	// OutcomeUnchanged: empty item, or revert found no ledger entry.
	OutcomeUnchanged Outcome = iota
	// OutcomeSkippedShort: below MinTransformWords; never sent, never
	// ledgered.
	OutcomeSkippedShort
	// OutcomeTransformed: backend rewrite applied and ledgered.
	OutcomeTransformed
	// OutcomeReverted: original wording restored from the ledger.
	OutcomeReverted
	// OutcomeFailed: the backend call failed; the item keeps its prior
	// text and Err carries the classified failure.
	OutcomeFailed
)

// String returns the outcome's log-stable name.
func (o Outcome) String() string {
	switch o {
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeSkippedShort:
		return "skipped_short"
	case OutcomeTransformed:
		return "transformed"
	case OutcomeReverted:
		return "reverted"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ItemResult is the per-item outcome of a run. Text is the item's text
// after the run, whatever the outcome.
type ItemResult struct {
	Index   int
	Text    string
	Outcome Outcome
	Err     error
}

// RunResult summarizes one run. Items is index-aligned with the input
// snapshot.
type RunResult struct {
	State        State
	Items        []ItemResult
	Transformed  int
	Reverted     int
	Failed       int
	ShortSkipped int
}

// ShortInputWarning reports whether the run skipped any too-short items.
// The UI surfaces this as a warning, not an error.
func (r *RunResult) ShortInputWarning() bool {
	return r.ShortSkipped > 0
}

// Orchestrator drives transform and revert runs over a selection
// snapshot, applying the per-item policy and the session's run exclusion.
type Orchestrator struct {
	session *Session
	backend Transformer
	logger  *slog.Logger
}

// NewOrchestrator binds a session to a backend. A nil logger falls back
// to slog.Default.
func NewOrchestrator(s *Session, backend Transformer, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{session: s, backend: backend, logger: logger}
}

// Run executes one transform or revert pass over snap.
//
// Exactly one run may be in flight per session; a second concurrent call
// fails fast with ErrRunInProgress and changes nothing. A nil or empty
// snapshot fails with ErrNoSelection.
//
// Transform policy per item: empty text is untouched; text below
// MinTransformWords is skipped with a warning and never ledgered; text
// the ledger knows is resolved back to its true original before the
// backend call, so repeat runs never compound rewrites; a successful
// rewrite is ledgered and replaces the item; a failed call keeps the
// item's prior text and the run continues. The run's terminal state is
// success when at least one item transformed and none failed, error when
// any failed, idle otherwise.
//
// Revert never calls the backend: each item with a ledger entry is
// restored to its original, the rest stay untouched, and the session
// returns to idle.
func (o *Orchestrator) Run(ctx context.Context, snap *Snapshot, params TransformParams, mode Mode) (*RunResult, error) {
	if snap == nil || len(snap.Items) == 0 {
		return nil, ErrNoSelection
	}
	if err := o.session.beginRun(); err != nil {
		return nil, err
	}

	var result *RunResult
	switch mode {
	case ModeRevert:
		result = o.runRevert(snap)
	default:
		result = o.runTransform(ctx, snap, params)
	}

	o.session.endRun(result.State)
	o.logger.Info("run complete",
		"mode", mode.String(),
		"state", result.State.String(),
		"items", len(result.Items),
		"transformed", result.Transformed,
		"reverted", result.Reverted,
		"failed", result.Failed,
		"short_skipped", result.ShortSkipped)
	return result, nil
}

func (o *Orchestrator) runTransform(ctx context.Context, snap *Snapshot, params TransformParams) *RunResult {
	o.session.markExecuted(snap)
	ledger := o.session.Ledger()
	result := &RunResult{Items: make([]ItemResult, len(snap.Items))}

	for i, item := range snap.Items {
		res := ItemResult{Index: i, Text: item.Text, Outcome: OutcomeUnchanged}

		switch {
		case strings.TrimSpace(item.Text) == "":
			// leave empty items alone

		case len(strings.Fields(item.Text)) < MinTransformWords:
			res.Outcome = OutcomeSkippedShort
			result.ShortSkipped++
			o.logger.Warn("item too short to rewrite, skipping",
				"index", i, "words", len(strings.Fields(item.Text)))

		default:
			source := item.Text
			if original, ok := ledger.ResolveOriginal(source); ok {
				source = original
			}
			rewritten, err := o.backend.Transform(ctx, source, params)
			if err != nil {
				res.Outcome = OutcomeFailed
				res.Err = err
				result.Failed++
				o.logger.Error("item rewrite failed", "index", i, "error", err)
				break
			}
			ledger.Record(source, rewritten)
			res.Text = rewritten
			res.Outcome = OutcomeTransformed
			result.Transformed++
		}

		result.Items[i] = res
	}

	switch {
	case result.Failed > 0:
		result.State = StateError
	case result.Transformed > 0:
		result.State = StateSuccess
	default:
		result.State = StateIdle
	}
	return result
}

func (o *Orchestrator) runRevert(snap *Snapshot) *RunResult {
	ledger := o.session.Ledger()
	result := &RunResult{State: StateIdle, Items: make([]ItemResult, len(snap.Items))}

	for i, item := range snap.Items {
		res := ItemResult{Index: i, Text: item.Text, Outcome: OutcomeUnchanged}
		if original, ok := ledger.ResolveOriginal(item.Text); ok {
			res.Text = original
			res.Outcome = OutcomeReverted
			result.Reverted++
		}
		result.Items[i] = res
	}
	return result
}
