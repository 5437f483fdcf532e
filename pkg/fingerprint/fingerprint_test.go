// Copyright (C) 2026 Relevel Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Reference values produced by the canonical cyrb53 implementation the
// panel ships. These pin the port bit-for-bit; do not regenerate them from
// this package.
func TestHash_ReferenceVectors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want uint64
	}{
		{"empty string", "", 3338908027751811},
		{"single ascii char", "a", 7929297801672961},
		{"two words", "hello world", 3259054761512980},
		{"sentence", "The cat sat on the mat.", 6553696750173312},
		{"longer sentence", "The cat sat on the mat today happily.", 3711023060336036},
		{"latin-1 and bmp symbols", "héllo wörld ☃", 8883511031095416},
		{"astral plane surrogate pair", "😀 emoji", 8698685537604968},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Hash(tt.in))
		})
	}
}

func TestHashSeed_ReferenceVectors(t *testing.T) {
	tests := []struct {
		in   string
		want uint64
	}{
		{"", 237522606461695},
		{"a", 1768335378950291},
		{"hello world", 8598010756496894},
		{"The cat sat on the mat.", 3624273072400978},
		{"😀 emoji", 5170680731170854},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HashSeed(tt.in, 42), "input %q", tt.in)
	}
}

func TestHash_Deterministic(t *testing.T) {
	inputs := []string{"", "a", "The cat sat on the mat.", "two identical calls"}
	for _, in := range inputs {
		assert.Equal(t, Hash(in), Hash(in))
	}
}

func TestHash_SeedChangesValue(t *testing.T) {
	assert.NotEqual(t, HashSeed("hello world", 0), HashSeed("hello world", 42))
}

func TestHash_Fits53Bits(t *testing.T) {
	for _, in := range []string{"", "a", "hello world", "😀 emoji"} {
		assert.Less(t, Hash(in), uint64(1)<<53, "input %q", in)
	}
}

func TestHash_EqualStringsEqualHashes(t *testing.T) {
	a := "copied " + "string"
	b := "copied string"
	assert.Equal(t, Hash(a), Hash(b))
}
