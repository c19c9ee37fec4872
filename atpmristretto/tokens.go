package atpmristretto

import (
	"fmt"

	"github.com/hiddentag/atpm/dleq"
	"github.com/hiddentag/atpm/group"
	"github.com/hiddentag/atpm/protocol"
	"github.com/hiddentag/atpm/tokenid"
)

// UnsignedToken is the client's self-chosen token before any interaction
// with the issuer (spec.md §3).
type UnsignedToken struct {
	id       tokenid.ID
	metadata []byte
}

func (u UnsignedToken) point() group.Element {
	return grp.HashToPoint(u.id.Tag(), u.metadata)
}

// RandomizedUnsignedToken is what the client sends the issuer: the blinded
// token point plus the public metadata it's signed over.
type RandomizedUnsignedToken struct {
	point    group.Element
	metadata []byte
}

// Metadata returns the public metadata carried alongside the blinded
// point, for an issuer's authorization policy to inspect.
func (ru RandomizedUnsignedToken) Metadata() []byte {
	return append([]byte(nil), ru.metadata...)
}

// RandomizedSignedToken is the issuer's response: the blinded signature
// point plus a DLEQ proof that it was computed under the claimed key.
type RandomizedSignedToken struct {
	point group.Element
	proof dleq.Proof
}

// SignedToken is a finished, presentable token.
type SignedToken struct {
	id       tokenid.ID
	metadata []byte
	point    group.Element
}

// Engine implements protocol.Engine for the single-token Ristretto255
// NIZKP construction.
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

func (Engine) Randomize(u UnsignedToken) (group.Scalar, RandomizedUnsignedToken, error) {
	r, err := grp.RandomScalar()
	if err != nil {
		return nil, RandomizedUnsignedToken{}, err
	}
	inv, ok := r.Invert()
	if !ok {
		return nil, RandomizedUnsignedToken{}, fmt.Errorf("atpmristretto: zero randomization scalar")
	}
	return r, RandomizedUnsignedToken{
		point:    u.point().ScalarMult(inv),
		metadata: u.metadata,
	}, nil
}

// SignRandomized is the constant-time-over-sk half of the protocol: e and
// the candidate signature point are always computed, and ok is merged in
// afterward rather than gating the computation (spec.md §9).
func (Engine) SignRandomized(ru RandomizedUnsignedToken, sk PrivateKey) (RandomizedSignedToken, bool) {
	d := grp.ScalarFromHash(ru.metadata)
	k := d.Add(sk.scalar)
	eInverse, ok := k.Invert()
	w := ru.point.ScalarMult(eInverse)

	proof, err := dleq.Create(grp, ru.point, w, k)
	if err != nil {
		return RandomizedSignedToken{}, false
	}
	return RandomizedSignedToken{point: w, proof: proof}, ok
}

func (Engine) VerifyAndUnrandomize(u UnsignedToken, ru RandomizedUnsignedToken, rs RandomizedSignedToken, uv PublicKey, r group.Scalar) (SignedToken, bool) {
	d := grp.ScalarFromHash(u.metadata)
	userPoint := grp.Base().ScalarMult(d).Add(uv.point)

	if !dleq.Verify(grp, rs.proof, ru.point, rs.point, userPoint) {
		return SignedToken{}, false
	}

	return SignedToken{
		id:       u.id,
		metadata: u.metadata,
		point:    rs.point.ScalarMult(r),
	}, true
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

// Verify checks a finished token against the issuer's private key — this
// construction is privately verifiable (spec.md §1).
func (Engine) Verify(s SignedToken, vk PrivateKey) bool {
	t := grp.HashToPoint(s.id.Tag(), s.metadata)
	d := grp.ScalarFromHash(s.metadata)
	eInverse := d.Add(vk.scalar)
	return s.point.ScalarMult(eInverse).Equal(t)
}

var _ protocol.Engine[UnsignedToken, RandomizedUnsignedToken, RandomizedSignedToken, SignedToken, group.Scalar, PublicKey, PrivateKey, PrivateKey] = Engine{}
