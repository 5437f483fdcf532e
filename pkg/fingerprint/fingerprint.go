// Copyright (C) 2026 Relevel Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package fingerprint computes the 53-bit content hash used to key the
// conversion ledger.
//
// # Description
//
// The hash is a faithful port of the cyrb53 string hash the panel has always
// used: two 32-bit multiply-mix accumulators over the UTF-16 code units of
// the input, two avalanche rounds, combined into a value spanning 53 bits.
// It must stay bit-for-bit identical across implementations that share
// ledger state, so the constants and the UTF-16 iteration order are part of
// the contract and must not be "improved".
//
// # Limitations
//
//   - Not cryptographic. Collisions across unequal strings are possible and
//     accepted; callers treat a ledger hit as a strong hint, not a proof.
package fingerprint

import "unicode/utf16"

// Hash returns the content fingerprint of text with a zero seed.
//
// Deterministic: Hash(s) == Hash(s) across calls, processes, and platforms.
func Hash(text string) uint64 {
	return HashSeed(text, 0)
}

// HashSeed returns the content fingerprint of text for the given seed.
//
// The zero seed is the one the ledger uses; other seeds exist only for
// callers that need independent hash families.
func HashSeed(text string, seed uint32) uint64 {
	h1 := 0xdeadbeef ^ seed
	h2 := 0x41c6ce57 ^ seed

	// Iterate UTF-16 code units, not runes, for parity with fingerprints
	// produced by the panel's JavaScript. Astral code points hash as their
	// surrogate pair.
	for _, unit := range utf16.Encode([]rune(text)) {
		c := uint32(unit)
		h1 = (h1 ^ c) * 2654435761
		h2 = (h2 ^ c) * 1597334677
	}

	h1 = (h1 ^ (h1 >> 16)) * 2246822507
	h1 ^= (h2 ^ (h2 >> 13)) * 3266489909
	h2 = (h2 ^ (h2 >> 16)) * 2246822507
	h2 ^= (h1 ^ (h1 >> 13)) * 3266489909

	// high 21 bits from h2, low 32 from h1: 53 usable bits, mirroring
	// 4294967296 * (2097151 & h2) + (h1 >>> 0).
	return uint64(h2&0x1FFFFF)<<32 + uint64(h1)
}
