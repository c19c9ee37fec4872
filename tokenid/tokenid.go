// Package tokenid implements the token identifier (TID): a 16-byte unique
// tag per token, optionally derived from caller-supplied hidden metadata
// that is visible to the client and verifier but never to the signer.
package tokenid

import (
	"crypto/rand"
	"crypto/sha512"

	"github.com/hiddentag/atpm/internal/ctutil"
)

// hiddenDomain is the domain separation prefix mixed into the hash that
// folds hidden metadata into a token's 16-byte tag.
const hiddenDomain = "Domain of hidden metadata"

// ID is the tagged union described in spec.md §3: either a bare random
// 16-byte identifier, or one with caller-supplied hidden metadata folded in.
type ID struct {
	t         [16]byte
	hidden    []byte
	hasHidden bool
	slot      int
	slotted   bool
}

// New creates a token identifier from 16 fresh CSPRNG bytes.
func New() (ID, error) {
	var t [16]byte
	if _, err := rand.Read(t[:]); err != nil {
		return ID{}, err
	}
	return ID{t: t}, nil
}

// WithHidden creates a token identifier carrying hidden public metadata.
// hidden is never transmitted to the signer; only its folded effect on the
// 16-byte tag is ever visible to it, and that effect is indistinguishable
// from a plain New() identifier.
func WithHidden(hidden []byte) (ID, error) {
	var t [16]byte
	if _, err := rand.Read(t[:]); err != nil {
		return ID{}, err
	}
	h := make([]byte, len(hidden))
	copy(h, hidden)
	return ID{t: t, hidden: h, hasHidden: true}, nil
}

// NewSlotted derives a batched-mode identifier whose tag folds hidden
// metadata together with the slot's own nonce and index, so that sharing one
// hidden value across N tokens does not collapse their tags (spec.md §9,
// "hidden-metadata in batched mode").
func NewSlotted(hidden []byte, slot int) (ID, error) {
	if hidden == nil {
		return New()
	}
	id, err := WithHidden(hidden)
	if err != nil {
		return ID{}, err
	}
	id.slot = slot
	id.slotted = true
	return id, nil
}

// FromTag reconstructs an identifier from an already-folded 16-byte tag,
// for decoding a presented token off the wire. The result has no hidden
// metadata of its own — Tag() returns the given bytes verbatim — since a
// presented token is verify-only and never re-randomized.
func FromTag(tag [16]byte) ID {
	return ID{t: tag}
}

// Tag returns the 16-byte value the token is hashed by. For a plain
// identifier this is t verbatim; for one with hidden metadata it is the
// first 16 bytes of SHA-512(domain ‖ hidden ‖ t [‖ slot index]).
func (id ID) Tag() [16]byte {
	if !id.hasHidden {
		return id.t
	}
	h := sha512.New()
	h.Write([]byte(hiddenDomain))
	h.Write(id.hidden)
	h.Write(id.t[:])
	if id.slotted {
		var slotBytes [8]byte
		putUint64(slotBytes[:], uint64(id.slot))
		h.Write(slotBytes[:])
	}
	sum := h.Sum(nil)
	var tag [16]byte
	copy(tag[:], sum[:16])
	return tag
}

// Equal compares two identifiers by their consumed tag, using a
// non-short-circuiting fold so the WithHidden variant stays indistinguishable
// from Id to anything timing the comparison.
func (id ID) Equal(other ID) bool {
	return ctutil.FoldEqual16(id.Tag(), other.Tag())
}

// HasHidden reports whether this identifier carries hidden metadata.
func (id ID) HasHidden() bool {
	return id.hasHidden
}

func putUint64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (56 - 8*i))
	}
}
