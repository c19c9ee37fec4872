package atpmristretto

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hiddentag/atpm/group"
	"github.com/hiddentag/atpm/tokenid"
)

// negateElement returns -e using only the group.Scalar/Element contract:
// -1 is derived as (s * s^-1).Negate() for an arbitrary nonzero s, since
// group.Group exposes no constant for 1 or -1 directly.
func negateElement(e group.Element) group.Element {
	s, err := grp.RandomScalar()
	if err != nil {
		panic(err)
	}
	sInv, ok := s.Invert()
	if !ok {
		panic("unexpected zero scalar")
	}
	negOne := s.Mul(sInv).Negate()
	return e.ScalarMult(negOne)
}

// TestBatchedVerifyRejectsNoLinCombForgery demonstrates scenario E from
// spec.md §8: a forged batch whose per-slot (tag, point) pairs are
// individually garbage, but whose SUMS satisfy the unweighted equation,
// passes verifyNoLinearCombination (the literal
// original_source/src/nizkp_curve25519/tokens_batched.rs verify) while
// Verify's per-slot random coefficients catch it. Grounded on
// original_source/src/atpm_pairing/tokens_batched.rs's attack_no_lincomb.
func TestBatchedVerifyRejectsNoLinCombForgery(t *testing.T) {
	const n = 10
	metadata := []byte("attack metadata")

	sk, err := NewPrivateKey()
	require.NoError(t, err)

	ids := make([]tokenid.ID, n)
	sumT := grp.Identity()
	for i := range ids {
		id, err := tokenid.New()
		require.NoError(t, err)
		ids[i] = id
		sumT = sumT.Add(grp.HashToPoint(id.Tag(), metadata))
	}

	// Legitimately sign the SUM of the N tags as if it were one token.
	r, err := grp.RandomScalar()
	require.NoError(t, err)
	rInv, ok := r.Invert()
	require.True(t, ok)

	ru := RandomizedUnsignedToken{point: sumT.ScalarMult(rInv), metadata: metadata}
	rs, ok := Engine{}.SignRandomized(ru, sk)
	require.True(t, ok)
	w := rs.point.ScalarMult(r) // == sumT * eInverse

	// N-2 arbitrary points plus one compensating point that together sum
	// to zero, so the aggregate signature sum is still exactly w.
	randoms := make([]group.Element, n-2)
	sumRandoms := grp.Identity()
	for i := range randoms {
		s, err := grp.RandomScalar()
		require.NoError(t, err)
		randoms[i] = grp.Base().ScalarMult(s)
		sumRandoms = sumRandoms.Add(randoms[i])
	}
	compensating := negateElement(sumRandoms)

	points := make([]group.Element, n)
	points[0] = w
	for i := 0; i < n-2; i++ {
		points[i+1] = randoms[i]
	}
	points[n-1] = compensating

	forged := BatchedSignedToken{ids: ids, metadata: metadata, points: points}
	engine := BatchedEngine{N: n}

	require.True(t, engine.verifyNoLinearCombination(forged, sk), "aggregate-only check should accept the forgery")
	require.False(t, engine.Verify(forged, sk), "random-linear-combination check must reject the forgery")
}
