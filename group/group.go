// Package group defines the minimal scalar/group-element contract the NIZKP
// token engines and the DLEQ proof are written against (spec.md §4.1, §4.4),
// so that atpmristretto and atpmk256 share one implementation of the
// protocol and of dleq instead of duplicating them per curve.
//
// The pairing variant (atpmpairing) does not implement this interface: it
// needs a second group (G2) and a pairing operation that this contract
// deliberately does not generalize over, and is built directly against
// group/pairing instead.
package group

// Scalar is an element of a prime-order field.
type Scalar interface {
	Add(Scalar) Scalar
	Sub(Scalar) Scalar
	Mul(Scalar) Scalar
	Negate() Scalar
	// Invert returns the multiplicative inverse and ok=false iff the
	// receiver is zero. The returned Scalar is always a valid value —
	// callers merge ok in branchlessly rather than branching on it here.
	Invert() (inv Scalar, ok bool)
	Equal(Scalar) bool
	IsZero() bool
	Bytes() []byte
}

// Element is a point in a prime-order group.
type Element interface {
	Add(Element) Element
	ScalarMult(Scalar) Element
	Equal(Element) bool
	IsIdentity() bool
	Bytes() []byte
}

// Group is a prime-order group together with the oracles and codecs the
// ATPM engine needs: uniform scalar sampling, hash-to-scalar (H_s),
// hash-to-point (H_t), and canonical encode/decode for both.
type Group interface {
	Name() string

	// RandomScalar samples a random nonzero scalar. The secp256k1 backend
	// rejection-samples against the field modulus; the Ristretto255
	// backend wide-reduces 64 random bytes instead.
	RandomScalar() (Scalar, error)

	// ScalarFromHash implements H_s over this field (spec.md §4.1).
	ScalarFromHash(data []byte) Scalar

	// Base returns the group's fixed generator.
	Base() Element

	// Identity returns the group's identity element.
	Identity() Element

	// HashToPoint implements H_t: hash(tag ‖ metadata) into a group
	// element (spec.md §4.1).
	HashToPoint(tag [16]byte, metadata []byte) Element

	DecodeScalar(b []byte) (Scalar, error)
	DecodeElement(b []byte) (Element, error)

	ScalarSize() int
	ElementSize() int
}
