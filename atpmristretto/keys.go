// Package atpmristretto implements the NIZKP-based, privately-verifiable
// ATPM engine over Ristretto255 (spec.md §1, §4.3), grounded on
// original_source/src/nizkp_curve25519.
package atpmristretto

import (
	"github.com/hiddentag/atpm/group"
	"github.com/hiddentag/atpm/group/ristretto"
)

var grp = ristretto.New()

// PrivateKey is the issuer's signing key, and also its own NIZKP
// verification key: this construction is privately verifiable, so whoever
// checks a signed token later needs this same scalar (spec.md §1).
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
// DLEQ proof during VerifyAndUnrandomize. It does not let its holder verify
// a finished token — that needs the PrivateKey itself.
type PublicKey struct {
	point group.Element
}
