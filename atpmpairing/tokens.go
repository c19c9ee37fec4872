package atpmpairing

import (
	"fmt"

	"github.com/hiddentag/atpm/group/pairing"
	"github.com/hiddentag/atpm/protocol"
	"github.com/hiddentag/atpm/tokenid"
)

// UnsignedToken is the client's self-chosen token before any interaction
// with the issuer (spec.md §3).
type UnsignedToken struct {
	id       tokenid.ID
	metadata []byte
}

func (u UnsignedToken) point() pairing.G1 {
	return pairing.HashToG1(u.id.Tag(), u.metadata)
}

// RandomizedUnsignedToken is what the client sends the issuer.
type RandomizedUnsignedToken struct {
	point    pairing.G1
	metadata []byte
}

func (ru RandomizedUnsignedToken) Metadata() []byte {
	return append([]byte(nil), ru.metadata...)
}

// RandomizedSignedToken is the issuer's response: a blinded signature
// point. No proof accompanies it — the pairing equation itself is what
// anyone later checks, so there is nothing to prove out-of-band here
// (unlike the NIZKP variants' DLEQ proof).
type RandomizedSignedToken struct {
	point pairing.G1
}

// SignedToken is a finished, presentable token.
type SignedToken struct {
	id       tokenid.ID
	metadata []byte
	point    pairing.G1
}

// Engine implements protocol.Engine for the single-token BLS12-381 pairing
// construction, grounded on original_source/src/atpm_pairing/tokens.rs.
type Engine struct{}

func (Engine) Generate(metadata []byte) (UnsignedToken, error) {
	id, err := tokenid.New()
	if err != nil {
		return UnsignedToken{}, err
	}
	return UnsignedToken{id: id, metadata: append([]byte(nil), metadata...)}, nil
}

func (Engine) GenerateWithHidden(metadata, hidden []byte) (UnsignedToken, error) {
	id, err := tokenid.WithHidden(hidden)
	if err != nil {
		return UnsignedToken{}, err
	}
	return UnsignedToken{id: id, metadata: append([]byte(nil), metadata...)}, nil
}

func (Engine) Randomize(u UnsignedToken) (pairing.Scalar, RandomizedUnsignedToken, error) {
	r, err := pairing.RandomScalar()
	if err != nil {
		return pairing.Scalar{}, RandomizedUnsignedToken{}, err
	}
	inv, ok := r.Invert()
	if !ok {
		return pairing.Scalar{}, RandomizedUnsignedToken{}, fmt.Errorf("atpmpairing: zero randomization scalar")
	}
	return r, RandomizedUnsignedToken{
		point:    u.point().ScalarMult(inv),
		metadata: u.metadata,
	}, nil
}

// SignRandomized is the constant-time-over-sk half of the protocol: the
// candidate signature point is always computed, ok merged in afterward
// (spec.md §9).
func (Engine) SignRandomized(ru RandomizedUnsignedToken, sk PrivateKey) (RandomizedSignedToken, bool) {
	d := pairing.ScalarFromHash(ru.metadata)
	k := d.Add(sk.scalar)
	eInverse, ok := k.Invert()
	w := ru.point.ScalarMult(eInverse)
	return RandomizedSignedToken{point: w}, ok
}

func (Engine) VerifyAndUnrandomize(u UnsignedToken, ru RandomizedUnsignedToken, rs RandomizedSignedToken, uv PublicKey, r pairing.Scalar) (SignedToken, bool) {
	d := pairing.ScalarFromHash(u.metadata)
	uPoint := pairing.G2Generator().ScalarMult(d).Add(uv.point)

	w := rs.point.ScalarMult(r)
	t := u.point()

	if !pairing.Pair(w, uPoint).Equal(pairing.Pair(t, pairing.G2Generator())) {
		return SignedToken{}, false
	}

	return SignedToken{id: u.id, metadata: u.metadata, point: w}, true
}

func (e Engine) Sign(u UnsignedToken, uv PublicKey, signFn func(RandomizedUnsignedToken) (RandomizedSignedToken, bool)) (SignedToken, bool) {
	r, ru, err := e.Randomize(u)
	if err != nil {
		return SignedToken{}, false
	}
	rs, ok := signFn(ru)
	if !ok {
		return SignedToken{}, false
	}
	return e.VerifyAndUnrandomize(u, ru, rs, uv, r)
}

// Verify checks a finished token against the issuer's public key: this
// construction is publicly verifiable (spec.md §1).
func (Engine) Verify(s SignedToken, vk PublicKey) bool {
	t := pairing.HashToG1(s.id.Tag(), s.metadata)
	d := pairing.ScalarFromHash(s.metadata)
	uPoint := pairing.G2Generator().ScalarMult(d).Add(vk.point)
	return pairing.Pair(s.point, uPoint).Equal(pairing.Pair(t, pairing.G2Generator()))
}

var _ protocol.Engine[UnsignedToken, RandomizedUnsignedToken, RandomizedSignedToken, SignedToken, pairing.Scalar, PublicKey, PublicKey, PrivateKey] = Engine{}
