// Copyright (C) 2026 Relevel Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package session

import (
	"context"
	"sync"
)

// Provider is the editor-side selection seam: it reports selection
// changes and applies content edits back to the document. The panel
// binds a real editor here; the CLI and tests use MemoryProvider.
type Provider interface {
	// RegisterOnChange subscribes fn to selection-change notifications.
	// The provider must deliver a fresh Snapshot object per notification
	// (nil for "nothing selected") and never mutate one after delivery.
	RegisterOnChange(fn func(*Snapshot))

	// ApplyContentTransform reads each selected item under the provider's
	// consistency rules and replaces its text with fn's result. An fn
	// error for one item leaves that item untouched and continues; the
	// first error encountered is returned after the pass completes.
	ApplyContentTransform(ctx context.Context, fn func(ctx context.Context, index int, item TextItem) (string, error)) error
}

// MemoryProvider is an in-memory Provider over a plain string slice.
type MemoryProvider struct {
	mu        sync.Mutex
	items     []string
	listeners []func(*Snapshot)
}

// NewMemoryProvider returns a provider with nothing selected.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{}
}

// RegisterOnChange implements Provider.
func (p *MemoryProvider) RegisterOnChange(fn func(*Snapshot)) {
	p.mu.Lock()
	p.listeners = append(p.listeners, fn)
	p.mu.Unlock()
}

// Select replaces the selection and notifies listeners with a fresh
// snapshot. Selecting zero items notifies with nil.
func (p *MemoryProvider) Select(texts ...string) {
	p.mu.Lock()
	p.items = append([]string(nil), texts...)
	listeners := append([]func(*Snapshot){}, p.listeners...)
	p.mu.Unlock()

	var snap *Snapshot
	if len(texts) > 0 {
		snap = NewSnapshot(texts...)
	}
	for _, fn := range listeners {
		fn(snap)
	}
}

// Items returns a copy of the current item texts.
func (p *MemoryProvider) Items() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.items...)
}

// ApplyContentTransform implements Provider. Edits are applied in place
// and listeners are notified once with the post-edit snapshot.
func (p *MemoryProvider) ApplyContentTransform(ctx context.Context, fn func(ctx context.Context, index int, item TextItem) (string, error)) error {
	p.mu.Lock()
	items := append([]string(nil), p.items...)
	p.mu.Unlock()

	var firstErr error
	for i, text := range items {
		updated, err := fn(ctx, i, TextItem{Text: text})
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		items[i] = updated
	}

	p.mu.Lock()
	p.items = items
	listeners := append([]func(*Snapshot){}, p.listeners...)
	p.mu.Unlock()

	var snap *Snapshot
	if len(items) > 0 {
		snap = NewSnapshot(items...)
	}
	for _, l := range listeners {
		l(snap)
	}
	return firstErr
}
