// Package atpmk256 implements the NIZKP-based, privately-verifiable ATPM
// engine over secp256k1 (spec.md §1, REDESIGN FLAGS §1's resolution of the
// curve's hash-to-curve open question), grounded on
// original_source/src/nizkp_curve25519 generalized to group/k256.
package atpmk256

import (
	"github.com/hiddentag/atpm/group"
	"github.com/hiddentag/atpm/group/k256"
)

var grp = k256.New()

// PrivateKey is the issuer's signing key, and also its own NIZKP
// verification key: this construction is privately verifiable.
type PrivateKey struct {
	scalar group.Scalar
}

// NewPrivateKey draws a fresh uniformly random signing key.
func NewPrivateKey() (PrivateKey, error) {
	s, err := grp.RandomScalar()
	if err != nil {
		return PrivateKey{}, err
	}
	return PrivateKey{scalar: s}, nil
}

// Public derives the user-facing public key handed to clients at issuance
// time (spec.md §3's "UserVerification" data).
func (k PrivateKey) Public() PublicKey {
	return PublicKey{point: grp.Base().ScalarMult(k.scalar)}
}

// PublicKey is the issuer's public point, used by clients to check the
// DLEQ proof during VerifyAndUnrandomize.
type PublicKey struct {
	point group.Element
}
