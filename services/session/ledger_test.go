// Copyright (C) 2026 Relevel Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package session

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerRoundTrip(t *testing.T) {
	l := NewLedger()

	original := "The cat sat on the mat today happily."
	transformed := "The cat sat on the mat."
	l.Record(original, transformed)

	got, ok := l.ResolveOriginal(transformed)
	require.True(t, ok)
	assert.Equal(t, original, got)
	assert.True(t, l.Contains(transformed))
	assert.Equal(t, 1, l.Len())
}

func TestLedgerUnknownCandidate(t *testing.T) {
	l := NewLedger()
	l.Record("an original", "a rewrite")

	_, ok := l.ResolveOriginal("never seen before")
	assert.False(t, ok)
	assert.False(t, l.Contains("never seen before"))
}

func TestLedgerRecordIdempotent(t *testing.T) {
	l := NewLedger()
	l.Record("original", "rewrite")
	l.Record("original", "rewrite")

	assert.Equal(t, 1, l.Len())
	got, ok := l.ResolveOriginal("rewrite")
	require.True(t, ok)
	assert.Equal(t, "original", got)
}

func TestLedgerLastWriteWins(t *testing.T) {
	l := NewLedger()
	l.Record("first original", "rewrite")
	l.Record("second original", "rewrite")

	got, ok := l.ResolveOriginal("rewrite")
	require.True(t, ok)
	assert.Equal(t, "second original", got)
	assert.Equal(t, 1, l.Len())
}

func TestLedgerDistinctRewritesOfOneOriginal(t *testing.T) {
	// The oracle is non-deterministic: re-transforming an original adds a
	// second entry, both resolving back to the same original.
	l := NewLedger()
	l.Record("original", "rewrite one")
	l.Record("original", "rewrite two")

	assert.Equal(t, 2, l.Len())
	for _, rewrite := range []string{"rewrite one", "rewrite two"} {
		got, ok := l.ResolveOriginal(rewrite)
		require.True(t, ok)
		assert.Equal(t, "original", got)
	}
}

func TestLedgerJSONRoundTrip(t *testing.T) {
	l := NewLedger()
	l.Record("The cat sat on the mat today happily.", "The cat sat down.")
	l.Record("another original", "another rewrite")

	data, err := json.Marshal(l)
	require.NoError(t, err)

	restored := NewLedger()
	require.NoError(t, json.Unmarshal(data, restored))

	assert.Equal(t, 2, restored.Len())
	got, ok := restored.ResolveOriginal("The cat sat down.")
	require.True(t, ok)
	assert.Equal(t, "The cat sat on the mat today happily.", got)
}

func TestLedgerUnmarshalRejectsBadKeys(t *testing.T) {
	l := NewLedger()
	assert.Error(t, json.Unmarshal([]byte(`{"not-a-number":"text"}`), l))
	assert.Error(t, json.Unmarshal([]byte(`["wrong shape"]`), l))
}

func TestLedgerClear(t *testing.T) {
	l := NewLedger()
	l.Record("original", "rewrite")
	l.Clear()

	assert.Equal(t, 0, l.Len())
	assert.False(t, l.Contains("rewrite"))
}
