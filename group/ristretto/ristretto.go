// Package ristretto adapts github.com/gtank/ristretto255 to the group.Group
// contract, for use by the NIZKP token engine over Ristretto255
// (atpmristretto).
package ristretto

import (
	"crypto/rand"
	"crypto/sha512"
	"fmt"

	"github.com/gtank/ristretto255"

	"github.com/hiddentag/atpm/group"
	"github.com/hiddentag/atpm/internal/oracle"
)

// Group is the Ristretto255 instantiation of group.Group. Ristretto255
// accepts wide-reduction (biased) scalar sampling directly — unlike the
// pairing variant's Fr, its order is such that a 64-byte uniform input
// reduces onto the field without rejection, so neither RandomScalar nor
// ScalarFromHash retries on an out-of-range draw; RandomScalar redraws only
// when the reduced scalar is zero (spec.md §3, §9 "RNG sampling").
type Group struct{}

// New returns the Ristretto255 group adapter.
func New() Group { return Group{} }

func (Group) Name() string { return "ristretto255" }

func (Group) RandomScalar() (group.Scalar, error) {
	for {
		var b [64]byte
		if _, err := rand.Read(b[:]); err != nil {
			return nil, err
		}
		s, err := ristretto255.NewScalar().SetUniformBytes(b[:])
		if err != nil {
			return nil, fmt.Errorf("ristretto: wide reduction failed: %w", err)
		}
		if s.Equal(ristretto255.NewScalar()) == 1 {
			continue
		}
		return scalar{s}, nil
	}
}

func (Group) ScalarFromHash(data []byte) group.Scalar {
	raw := oracle.HashToScalarSHA512(data, func(b []byte) ([]byte, bool) {
		// SetUniformBytes performs wide reduction and never rejects, so
		// this decoder always succeeds on the first 64-byte digest.
		return b, true
	})
	s, _ := ristretto255.NewScalar().SetUniformBytes(raw)
	return scalar{s}
}

func (Group) Base() group.Element {
	return element{ristretto255.NewGeneratorElement()}
}

func (Group) Identity() group.Element {
	return element{ristretto255.NewIdentityElement()}
}

func (Group) HashToPoint(tag [16]byte, metadata []byte) group.Element {
	h := sha512.New()
	h.Write([]byte(oracle.RistrettoPointDomain))
	h.Write(tag[:])
	h.Write(metadata)
	e, _ := ristretto255.NewIdentityElement().SetUniformBytes(h.Sum(nil))
	return element{e}
}

func (Group) DecodeScalar(b []byte) (group.Scalar, error) {
	if len(b) != 32 {
		return nil, fmt.Errorf("ristretto: scalar must be 32 bytes, got %d", len(b))
	}
	s, err := ristretto255.NewScalar().SetCanonicalBytes(b)
	if err != nil {
		return nil, fmt.Errorf("ristretto: non-canonical scalar: %w", err)
	}
	return scalar{s}, nil
}

func (Group) DecodeElement(b []byte) (group.Element, error) {
	if len(b) != 32 {
		return nil, fmt.Errorf("ristretto: element must be 32 bytes, got %d", len(b))
	}
	e, err := ristretto255.NewIdentityElement().SetCanonicalBytes(b)
	if err != nil {
		return nil, fmt.Errorf("ristretto: non-canonical element: %w", err)
	}
	return element{e}, nil
}

func (Group) ScalarSize() int  { return 32 }
func (Group) ElementSize() int { return 32 }

type scalar struct{ s *ristretto255.Scalar }

func (a scalar) Add(b group.Scalar) group.Scalar {
	return scalar{ristretto255.NewScalar().Add(a.s, b.(scalar).s)}
}

func (a scalar) Sub(b group.Scalar) group.Scalar {
	return scalar{ristretto255.NewScalar().Subtract(a.s, b.(scalar).s)}
}

func (a scalar) Mul(b group.Scalar) group.Scalar {
	return scalar{ristretto255.NewScalar().Multiply(a.s, b.(scalar).s)}
}

func (a scalar) Negate() group.Scalar {
	return scalar{ristretto255.NewScalar().Negate(a.s)}
}

func (a scalar) Invert() (group.Scalar, bool) {
	zero := ristretto255.NewScalar()
	ok := a.s.Equal(zero) == 0
	inv := ristretto255.NewScalar().Invert(a.s)
	return scalar{inv}, ok
}

func (a scalar) Equal(b group.Scalar) bool {
	return a.s.Equal(b.(scalar).s) == 1
}

func (a scalar) IsZero() bool {
	return a.s.Equal(ristretto255.NewScalar()) == 1
}

func (a scalar) Bytes() []byte { return a.s.Bytes() }

type element struct{ e *ristretto255.Element }

func (a element) Add(b group.Element) group.Element {
	return element{ristretto255.NewIdentityElement().Add(a.e, b.(element).e)}
}

func (a element) ScalarMult(s group.Scalar) group.Element {
	return element{ristretto255.NewIdentityElement().ScalarMult(s.(scalar).s, a.e)}
}

func (a element) Equal(b group.Element) bool {
	return a.e.Equal(b.(element).e) == 1
}

func (a element) IsIdentity() bool {
	return a.e.Equal(ristretto255.NewIdentityElement()) == 1
}

func (a element) Bytes() []byte { return a.e.Bytes() }
