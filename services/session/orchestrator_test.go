// Copyright (C) 2026 Relevel Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend rewrites deterministically ("simpler: " + input) and records
// every text it was asked to transform. Inputs listed in failOn error out.
type fakeBackend struct {
	mu      sync.Mutex
	sent    []string
	failOn  map[string]error
	started chan struct{}
	release chan struct{}
}

func (f *fakeBackend) Transform(ctx context.Context, text string, params TransformParams) (string, error) {
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	f.mu.Lock()
	f.sent = append(f.sent, text)
	f.mu.Unlock()
	if err, ok := f.failOn[text]; ok {
		return "", err
	}
	return "simpler: " + text, nil
}

func (f *fakeBackend) sentTexts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

func TestRunTransformSuccess(t *testing.T) {
	s := New()
	backend := &fakeBackend{}
	o := NewOrchestrator(s, backend, nil)

	original := "The cat sat on the mat today happily."
	snap := NewSnapshot(original)
	result, err := o.Run(context.Background(), snap, TransformParams{}, ModeTransform)
	require.NoError(t, err)

	assert.Equal(t, StateSuccess, result.State)
	assert.Equal(t, StateSuccess, s.State())
	require.Len(t, result.Items, 1)
	assert.Equal(t, OutcomeTransformed, result.Items[0].Outcome)
	assert.Equal(t, "simpler: "+original, result.Items[0].Text)
	assert.Equal(t, 1, result.Transformed)
	assert.False(t, result.ShortInputWarning())

	got, ok := s.Ledger().ResolveOriginal("simpler: " + original)
	require.True(t, ok)
	assert.Equal(t, original, got)
	assert.Same(t, snap, s.LastExecuted())
}

func TestRunTransformNeverCompounds(t *testing.T) {
	s := New()
	backend := &fakeBackend{}
	o := NewOrchestrator(s, backend, nil)

	original := "The cat sat on the mat today happily."
	first, err := o.Run(context.Background(), NewSnapshot(original), TransformParams{}, ModeTransform)
	require.NoError(t, err)
	rewritten := first.Items[0].Text

	// "Try again" over the rewritten text must resend the original, not
	// the rewrite.
	second, err := o.Run(context.Background(), NewSnapshot(rewritten), TransformParams{}, ModeTransform)
	require.NoError(t, err)

	assert.Equal(t, []string{original, original}, backend.sentTexts())
	got, ok := s.Ledger().ResolveOriginal(second.Items[0].Text)
	require.True(t, ok)
	assert.Equal(t, original, got, "second rewrite still resolves to the true original")
}

func TestRunTransformSkipsShortInput(t *testing.T) {
	s := New()
	backend := &fakeBackend{}
	o := NewOrchestrator(s, backend, nil)

	result, err := o.Run(context.Background(), NewSnapshot("Hi there."), TransformParams{}, ModeTransform)
	require.NoError(t, err)

	assert.Equal(t, StateIdle, result.State, "nothing transformed, nothing failed")
	assert.Equal(t, OutcomeSkippedShort, result.Items[0].Outcome)
	assert.Equal(t, "Hi there.", result.Items[0].Text)
	assert.True(t, result.ShortInputWarning())
	assert.Empty(t, backend.sentTexts(), "short items never reach the backend")
	assert.Equal(t, 0, s.Ledger().Len(), "skipped items are never ledgered")
}

func TestRunTransformMixedLengths(t *testing.T) {
	s := New()
	backend := &fakeBackend{}
	o := NewOrchestrator(s, backend, nil)

	long := "The quick brown fox jumps over the lazy dog."
	result, err := o.Run(context.Background(),
		NewSnapshot("Hello!", long, ""), TransformParams{}, ModeTransform)
	require.NoError(t, err)

	assert.Equal(t, StateSuccess, result.State)
	assert.Equal(t, OutcomeSkippedShort, result.Items[0].Outcome)
	assert.Equal(t, OutcomeTransformed, result.Items[1].Outcome)
	assert.Equal(t, OutcomeUnchanged, result.Items[2].Outcome)
	assert.Equal(t, []string{long}, backend.sentTexts())
}

func TestRunTransformErrorContinuesBatch(t *testing.T) {
	s := New()
	bad := "This sentence is going to fail remotely."
	good := "This sentence is going to work out fine."
	backend := &fakeBackend{failOn: map[string]error{
		bad: &TransformError{Kind: KindTransport, Err: errors.New("connection refused")},
	}}
	o := NewOrchestrator(s, backend, nil)

	result, err := o.Run(context.Background(), NewSnapshot(bad, good), TransformParams{}, ModeTransform)
	require.NoError(t, err, "per-item failures do not fail the run call")

	assert.Equal(t, StateError, result.State)
	assert.Equal(t, OutcomeFailed, result.Items[0].Outcome)
	assert.Equal(t, bad, result.Items[0].Text, "failed item keeps its text")
	assert.True(t, IsKind(result.Items[0].Err, KindTransport))
	assert.Equal(t, OutcomeTransformed, result.Items[1].Outcome)
	assert.Len(t, backend.sentTexts(), 2, "the batch continued past the failure")
	assert.False(t, s.Ledger().Contains(bad), "failed items are never ledgered")
}

func TestRunRevertRestoresOriginals(t *testing.T) {
	s := New()
	backend := &fakeBackend{}
	o := NewOrchestrator(s, backend, nil)

	original := "The cat sat on the mat today happily."
	first, err := o.Run(context.Background(), NewSnapshot(original), TransformParams{}, ModeTransform)
	require.NoError(t, err)
	rewritten := first.Items[0].Text

	result, err := o.Run(context.Background(),
		NewSnapshot(rewritten, "never transformed text here"), TransformParams{}, ModeRevert)
	require.NoError(t, err)

	assert.Equal(t, StateIdle, result.State)
	assert.Equal(t, OutcomeReverted, result.Items[0].Outcome)
	assert.Equal(t, original, result.Items[0].Text)
	assert.Equal(t, OutcomeUnchanged, result.Items[1].Outcome)
	assert.Equal(t, 1, result.Reverted)
	assert.Len(t, backend.sentTexts(), 1, "revert never calls the backend")
}

func TestRunRejectsEmptySelection(t *testing.T) {
	o := NewOrchestrator(New(), &fakeBackend{}, nil)

	_, err := o.Run(context.Background(), nil, TransformParams{}, ModeTransform)
	assert.ErrorIs(t, err, ErrNoSelection)

	_, err = o.Run(context.Background(), &Snapshot{}, TransformParams{}, ModeTransform)
	assert.ErrorIs(t, err, ErrNoSelection)
}

func TestRunExclusion(t *testing.T) {
	s := New()
	backend := &fakeBackend{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	o := NewOrchestrator(s, backend, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := o.Run(context.Background(),
			NewSnapshot("The first run is holding the loading state."),
			TransformParams{}, ModeTransform)
		assert.NoError(t, err)
	}()

	<-backend.started
	assert.Equal(t, StateLoading, s.State())

	_, err := o.Run(context.Background(),
		NewSnapshot("A second run must be rejected outright."),
		TransformParams{}, ModeTransform)
	assert.ErrorIs(t, err, ErrRunInProgress)

	close(backend.release)
	wg.Wait()
	assert.Equal(t, StateSuccess, s.State())
}

func TestRunParamsForwarded(t *testing.T) {
	recorded := TransformParams{}
	backend := transformerFunc(func(ctx context.Context, text string, params TransformParams) (string, error) {
		recorded = params
		return "simpler: " + text, nil
	})
	o := NewOrchestrator(New(), backend, nil)

	params := TransformParams{TargetGrade: "third", Curriculum: "IB", ExtraPrompt: "Keep names intact."}
	_, err := o.Run(context.Background(),
		NewSnapshot("The quick brown fox jumps over the lazy dog."), params, ModeTransform)
	require.NoError(t, err)
	assert.Equal(t, params, recorded)
}

type transformerFunc func(ctx context.Context, text string, params TransformParams) (string, error)

func (f transformerFunc) Transform(ctx context.Context, text string, params TransformParams) (string, error) {
	return f(ctx, text, params)
}

func TestSessionReset(t *testing.T) {
	s := New()
	o := NewOrchestrator(s, &fakeBackend{}, nil)

	_, err := o.Run(context.Background(),
		NewSnapshot("The cat sat on the mat today happily."), TransformParams{}, ModeTransform)
	require.NoError(t, err)
	require.NotZero(t, s.Ledger().Len())

	s.Reset()
	assert.Equal(t, StateIdle, s.State())
	assert.Equal(t, 0, s.Ledger().Len())
	assert.Nil(t, s.LastExecuted())
}

func TestOutcomeAndKindNames(t *testing.T) {
	assert.Equal(t, "transformed", OutcomeTransformed.String())
	assert.Equal(t, "skipped_short", OutcomeSkippedShort.String())
	assert.Equal(t, "transport", KindTransport.String())
	assert.Equal(t, "declined", KindDeclined.String())
	te := &TransformError{Kind: KindRequestFailed, Err: errors.New("boom")}
	assert.Equal(t, fmt.Sprintf("transform failed (%s): boom", KindRequestFailed), te.Error())
}
