// Copyright (C) 2026 Relevel Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package session

import (
	"encoding/json"
	"strconv"
	"sync"

	"github.com/relevel/relevel/pkg/fingerprint"
)

// Ledger maps fingerprint-of-rewritten-text to the original wording. It is
// the session's memory of every rewrite performed, and what makes Revert
// and the no-compounding rule possible.
//
// Entries are never evicted; the ledger lives for the editing session and
// is rebuilt empty at session start. The backend is non-deterministic, so
// an entry is a best-effort cache, not a proof: re-transforming an
// original will generally produce different text with a different
// fingerprint, which simply adds another entry.
//
// Safe for concurrent use.
type Ledger struct {
	mu      sync.RWMutex
	entries map[uint64]string
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{entries: make(map[uint64]string)}
}

// Record stores transformed -> original. Re-recording the same pair is a
// no-op in effect; re-recording the same transformed text with a new
// original overwrites (last write wins).
func (l *Ledger) Record(original, transformed string) {
	key := fingerprint.Hash(transformed)
	l.mu.Lock()
	l.entries[key] = original
	l.mu.Unlock()
}

// ResolveOriginal returns the recorded original for candidate, if
// candidate was produced by a prior rewrite. The second return is false
// when the candidate is unknown; the candidate itself is then the
// original, and falling back is the caller's responsibility.
func (l *Ledger) ResolveOriginal(candidate string) (string, bool) {
	key := fingerprint.Hash(candidate)
	l.mu.RLock()
	original, ok := l.entries[key]
	l.mu.RUnlock()
	return original, ok
}

// Contains reports whether candidate was produced by a prior rewrite.
//
// Fingerprint collisions make a false positive possible; the probability
// is bounded by the 53-bit hash and accepted as an approximation, not
// treated as a bug.
func (l *Ledger) Contains(candidate string) bool {
	key := fingerprint.Hash(candidate)
	l.mu.RLock()
	_, ok := l.entries[key]
	l.mu.RUnlock()
	return ok
}

// Len returns the number of recorded conversions.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Clear drops every entry. Used on session reset only.
func (l *Ledger) Clear() {
	l.mu.Lock()
	l.entries = make(map[uint64]string)
	l.mu.Unlock()
}

// MarshalJSON encodes the ledger as a fingerprint -> original map.
// Fingerprints are decimal strings: they exceed JSON's safe integer range
// and hosts that read the file must not round them.
func (l *Ledger) MarshalJSON() ([]byte, error) {
	l.mu.RLock()
	out := make(map[string]string, len(l.entries))
	for key, original := range l.entries {
		out[strconv.FormatUint(key, 10)] = original
	}
	l.mu.RUnlock()
	return json.Marshal(out)
}

// UnmarshalJSON replaces the ledger's entries with the encoded map. The
// CLI uses this to carry a session across invocations.
func (l *Ledger) UnmarshalJSON(data []byte) error {
	var in map[string]string
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	entries := make(map[uint64]string, len(in))
	for keyStr, original := range in {
		key, err := strconv.ParseUint(keyStr, 10, 64)
		if err != nil {
			return err
		}
		entries[key] = original
	}
	l.mu.Lock()
	l.entries = entries
	l.mu.Unlock()
	return nil
}
