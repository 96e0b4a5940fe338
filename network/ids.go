// SPDX-License-Identifier: MIT
// File: ids.go
// Role: explicit derivation of synthetic ids (merged edges, clipped boundary nodes).

package network

import (
	"cmp"
	"fmt"
)

// IDMinter derives a candidate id from base. attempt starts at 1 and grows
// until the caller finds a candidate that is not taken.
type IDMinter[K cmp.Ordered] func(base K, attempt int) K

// SuffixMinter returns a minter for string ids: base+suffix, then
// base+suffix+"2", base+suffix+"3", ...
func SuffixMinter(suffix string) IDMinter[string] {
	return func(base string, attempt int) string {
		if attempt <= 1 {
			return base + suffix
		}

		return fmt.Sprintf("%s%s%d", base, suffix, attempt)
	}
}

// OffsetMinter returns a minter for integer ids: base+offset*attempt.
func OffsetMinter[K ~int | ~int32 | ~int64 | ~uint | ~uint32 | ~uint64](offset K) IDMinter[K] {
	return func(base K, attempt int) K {
		return base + offset*K(attempt)
	}
}

// MaxMintAttempts bounds the search for a free minted id.
const MaxMintAttempts = 1 << 16

// Mint returns the first id produced by m that taken rejects.
func Mint[K cmp.Ordered](m IDMinter[K], base K, taken func(K) bool) (K, error) {
	for attempt := 1; attempt <= MaxMintAttempts; attempt++ {
		if id := m(base, attempt); !taken(id) {
			return id, nil
		}
	}
	var zero K

	return zero, fmt.Errorf("%w: no free id derived from %v", ErrDuplicateEdge, base)
}
