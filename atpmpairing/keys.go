// Package atpmpairing implements the BLS12-381 pairing-based, publicly
// verifiable ATPM engine (spec.md §1, §4.4), grounded on
// original_source/src/atpm_pairing. Unlike atpmristretto/atpmk256 it needs
// no DLEQ proof: the pairing equation itself lets anyone holding the
// issuer's public key verify a token, so this package is written directly
// against group/pairing's concrete G1/G2/GT types instead of group.Group.
package atpmpairing

import (
	"github.com/hiddentag/atpm/group/pairing"
)

// PrivateKey is the issuer's signing key.
type PrivateKey struct {
	scalar pairing.Scalar
}

// NewPrivateKey draws a fresh uniformly random signing key.
func NewPrivateKey() (PrivateKey, error) {
	s, err := pairing.RandomScalar()
	if err != nil {
		return PrivateKey{}, err
	}
	return PrivateKey{scalar: s}, nil
}

// Public derives the publicly-shareable verification key: anyone holding
// it can check a finished token without the issuer's involvement
// (spec.md §1's "publicly verifiable" construction).
func (k PrivateKey) Public() PublicKey {
	return PublicKey{point: pairing.G2Generator().ScalarMult(k.scalar)}
}

// PublicKey is the issuer's G2 point.
type PublicKey struct {
	point pairing.G2
}
