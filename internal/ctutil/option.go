// Package ctutil provides small constant-time helpers shared by the ATPM
// engine packages: a branchless presence-bit option type and a
// non-short-circuiting byte comparison.
package ctutil

import "crypto/subtle"

// Option holds a value that was computed unconditionally alongside a
// constant-time presence bit. Unlike a conventional nullable, the zero value
// of T is never distinguished from "absent" by inspecting T itself — callers
// must observe Ok.
//
// This mirrors the source protocol's CtOption: the value is produced whether
// or not the underlying operation "succeeded" (e.g. a scalar inversion of
// zero), and the choice of whether to trust it is merged into a single bit
// rather than taken by branching on the secret that produced it.
type Option[T any] struct {
	value T
	ok    int // 1 or 0, never branched on by callers
}

// Some wraps a value that is present unconditionally (ok=1).
func Some[T any](v T) Option[T] {
	return Option[T]{value: v, ok: 1}
}

// None returns an absent option carrying the zero value of T.
func None[T any]() Option[T] {
	var zero T
	return Option[T]{value: zero, ok: 0}
}

// Select merges a candidate value with a presence bit computed elsewhere
// (e.g. from a scalar-inverse success flag), without branching on choice.
func Select[T any](v T, present int) Option[T] {
	return Option[T]{value: v, ok: present & 1}
}

// IsSome reports whether the option is present. This is the one place the
// bit is finally observed; everything upstream of it must stay branchless.
func (o Option[T]) IsSome() bool {
	return o.ok == 1
}

// Unwrap returns the carried value regardless of presence. Callers must
// check IsSome first; Unwrap never panics, matching the "merge branchlessly,
// observe once" discipline described in the design notes.
func (o Option[T]) Unwrap() T {
	return o.value
}

// FoldEqual16 compares two 16-byte tags without short-circuiting: every byte
// pair is compared and folded into the result regardless of earlier
// mismatches. Used for TokenIdentifier tag equality, where exiting early on
// the first differing byte would leak the position of the mismatch.
func FoldEqual16(a, b [16]byte) bool {
	return subtle.ConstantTimeCompare(a[:], b[:]) == 1
}
