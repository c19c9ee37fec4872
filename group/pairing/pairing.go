// Package pairing adapts github.com/supranational/blst (BLS12-381) for the
// publicly-verifiable token engine (atpmpairing). Unlike group.Group, this
// package exposes two groups (G1, for tokens, and G2, for the signer's
// public key) plus the pairing operation the verifier's check needs —
// a single Scalar/Element contract can't express that, so atpmpairing is
// written directly against these concrete types instead of group.Group.
package pairing

import (
	"crypto/rand"
	"fmt"
	"math/big"

	blst "github.com/supranational/blst/bindings/go"

	"github.com/hiddentag/atpm/internal/oracle"
)

// frModulus is BLS12-381's scalar field order r. blst's minimal Go binding
// exposes Scalar only as a byte-oriented handle for curve scalar
// multiplication — it has no Add/Mul/Invert over Fr — so field arithmetic
// (needed for the signing equation's d+k and its inverse) is done here with
// math/big, reduced mod r, and only converted to a blst.Scalar at the point
// a curve operation actually needs one.
var frModulus, _ = new(big.Int).SetString("73eda753299d7d483339d80809a1d80553bda402fffe5bfeffffffff00000001", 16)

// frModulusMinus2 is the public exponent for Fermat's-little-theorem
// inversion: a^(r-2) = a^-1 mod r.
var frModulusMinus2 = new(big.Int).Sub(frModulus, big.NewInt(2))

// Scalar is an element of the BLS12-381 scalar field Fr.
type Scalar struct {
	v *big.Int
}

func reduce(v *big.Int) Scalar {
	return Scalar{v: new(big.Int).Mod(v, frModulus)}
}

// RandomScalar draws a uniformly random nonzero scalar, rejecting any draw
// that does not fall strictly below the field's modulus (spec.md §3).
func RandomScalar() (Scalar, error) {
	for {
		var raw [32]byte
		if _, err := rand.Read(raw[:]); err != nil {
			return Scalar{}, err
		}
		v := new(big.Int).SetBytes(raw[:])
		if v.Cmp(frModulus) >= 0 || v.Sign() == 0 {
			continue
		}
		return Scalar{v: v}, nil
	}
}

// ScalarFromHash implements H_s over Fr: SHA-256(domain ‖ data), rejection
// sampled until the digest decodes to a canonical scalar (spec.md §4.1).
func ScalarFromHash(data []byte) Scalar {
	raw := oracle.HashToScalarSHA256(data, func(b []byte) ([]byte, bool) {
		v := new(big.Int).SetBytes(b[:32])
		if v.Cmp(frModulus) >= 0 {
			return nil, false
		}
		return b[:32], true
	})
	return Scalar{v: new(big.Int).SetBytes(raw[:32])}
}

// DecodeScalar parses a canonical 32-byte big-endian Fr element.
func DecodeScalar(b []byte) (Scalar, error) {
	if len(b) != 32 {
		return Scalar{}, fmt.Errorf("pairing: scalar must be 32 bytes, got %d", len(b))
	}
	v := new(big.Int).SetBytes(b)
	if v.Cmp(frModulus) >= 0 {
		return Scalar{}, fmt.Errorf("pairing: non-canonical scalar")
	}
	return Scalar{v: v}, nil
}

func (s Scalar) Add(o Scalar) Scalar { return reduce(new(big.Int).Add(s.v, o.v)) }
func (s Scalar) Sub(o Scalar) Scalar { return reduce(new(big.Int).Sub(s.v, o.v)) }
func (s Scalar) Mul(o Scalar) Scalar { return reduce(new(big.Int).Mul(s.v, o.v)) }
func (s Scalar) Negate() Scalar      { return reduce(new(big.Int).Neg(s.v)) }

// Invert returns the multiplicative inverse and ok=false iff the receiver
// is zero. The inverse is computed as s^(r-2) mod r (Fermat's little
// theorem): Exp's square-and-multiply ladder only branches on the bits of
// the public exponent r-2, never on the secret base, unlike a binary-GCD
// ModInverse — spec.md §5/§9's signing path inverts the secret key itself
// and needs this (original_source/src/atpm_pairing/tokens.rs:234).
func (s Scalar) Invert() (Scalar, bool) {
	ok := s.v.Sign() != 0
	inv := new(big.Int).Exp(s.v, frModulusMinus2, frModulus)
	return Scalar{v: inv}, ok
}

func (s Scalar) Equal(o Scalar) bool { return s.v.Cmp(o.v) == 0 }
func (s Scalar) IsZero() bool        { return s.v.Sign() == 0 }

func (s Scalar) Bytes() []byte {
	var b [32]byte
	s.v.FillBytes(b[:])
	return b[:]
}

// blstScalar converts to blst's byte-oriented handle, the only form its
// curve scalar-multiplication entry points accept.
func (s Scalar) blstScalar() *blst.Scalar {
	return new(blst.Scalar).FromBEndian(s.Bytes())
}

// G1 is a point in BLS12-381's G1 subgroup, used for tokens and the h_1
// hash-to-curve oracle's image.
type G1 struct {
	p *blst.P1
}

// G1Generator returns G1's fixed generator.
func G1Generator() G1 {
	one := Scalar{v: big.NewInt(1)}
	return G1{new(blst.P1).From(one.blstScalar())}
}

// G1Identity returns G1's identity element.
func G1Identity() G1 {
	return G1{new(blst.P1)}
}

// HashToG1 implements h_1: tag‖metadata is the hash-to-curve message, and
// the oracle's domain-separation string is passed as the expand_message_xmd
// DST itself, matching original_source/src/atpm_pairing/util.rs::h_1
// exactly (spec.md §4.1).
func HashToG1(tag [16]byte, metadata []byte) G1 {
	msg := make([]byte, 0, 16+len(metadata))
	msg = append(msg, tag[:]...)
	msg = append(msg, metadata...)
	p := blst.HashToG1(msg, []byte(oracle.HashToCurveDomain), nil)
	return G1{p}
}

func (a G1) Add(b G1) G1 {
	return G1{new(blst.P1).Add(a.p, b.p)}
}

func (a G1) ScalarMult(s Scalar) G1 {
	return G1{new(blst.P1).Mult(a.p, s.blstScalar(), 255)}
}

func (a G1) Negate() G1 {
	neg := *a.p
	neg.Neg(false)
	return G1{&neg}
}

func (a G1) Equal(b G1) bool {
	return a.p.ToAffine().Equals(b.p.ToAffine())
}

func (a G1) IsIdentity() bool {
	return a.p.ToAffine().Equals(new(blst.P1Affine))
}

func (a G1) Bytes() []byte {
	return a.p.ToAffine().Compress()
}

// DecodeG1 parses a 48-byte compressed G1 point and checks subgroup
// membership.
func DecodeG1(b []byte) (G1, error) {
	aff := new(blst.P1Affine).Uncompress(b)
	if aff == nil || !aff.SigInGroup() {
		return G1{}, fmt.Errorf("pairing: invalid G1 point")
	}
	return G1{new(blst.P1).FromAffine(aff)}, nil
}

// G2 is a point in BLS12-381's G2 subgroup; the signer's public key lives
// here.
type G2 struct {
	p *blst.P2
}

// G2Generator returns G2's fixed generator.
func G2Generator() G2 {
	one := Scalar{v: big.NewInt(1)}
	return G2{new(blst.P2).From(one.blstScalar())}
}

func (a G2) Add(b G2) G2 {
	return G2{new(blst.P2).Add(a.p, b.p)}
}

func (a G2) ScalarMult(s Scalar) G2 {
	return G2{new(blst.P2).Mult(a.p, s.blstScalar(), 255)}
}

func (a G2) Bytes() []byte {
	return a.p.ToAffine().Compress()
}

// DecodeG2 parses a 96-byte compressed G2 point and checks subgroup
// membership.
func DecodeG2(b []byte) (G2, error) {
	aff := new(blst.P2Affine).Uncompress(b)
	if aff == nil || !aff.SigInGroup() {
		return G2{}, fmt.Errorf("pairing: invalid G2 point")
	}
	return G2{new(blst.P2).FromAffine(aff)}, nil
}

// GT is a pairing target-group element.
type GT struct {
	fp12 *blst.Fp12
}

// Pair computes e(g1, g2).
func Pair(g1 G1, g2 G2) GT {
	fp := new(blst.Fp12).MillerLoop(g2.p.ToAffine(), g1.p.ToAffine())
	return GT{fp.FinalExp()}
}

// Equal reports whether two target-group elements are equal — the
// verifier's entire job reduces to one or more of these (spec.md §4.3,
// §4.5).
func (a GT) Equal(b GT) bool {
	return a.fp12.Equals(b.fp12)
}
