package atpmpairing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hiddentag/atpm/group/pairing"
	"github.com/hiddentag/atpm/tokenid"
)

// TestBatchedVerifyRejectsNoLinCombForgery ports
// original_source/src/atpm_pairing/tokens_batched.rs's attack_no_lincomb:
// sign a single token standing in for the SUM of N honest tags, then
// distribute that one signature across N slots as an arbitrary (N-2)
// garbage points plus one compensating point that makes the per-slot
// garbage sum to zero. The aggregate-only check accepts this; a verifier
// drawing its own random coefficients per slot does not.
func TestBatchedVerifyRejectsNoLinCombForgery(t *testing.T) {
	const n = 50
	metadata := []byte("sample metadata")

	sk, err := NewPrivateKey()
	require.NoError(t, err)
	pk := sk.Public()

	ids := make([]tokenid.ID, n)
	sumT := pairing.G1Identity()
	for i := range ids {
		id, err := tokenid.New()
		require.NoError(t, err)
		ids[i] = id
		sumT = sumT.Add(pairing.HashToG1(id.Tag(), metadata))
	}

	r, err := pairing.RandomScalar()
	require.NoError(t, err)
	rInv, ok := r.Invert()
	require.True(t, ok)

	ru := RandomizedUnsignedToken{point: sumT.ScalarMult(rInv), metadata: metadata}
	rs, ok := Engine{}.SignRandomized(ru, sk)
	require.True(t, ok)
	w := rs.point.ScalarMult(r) // == sumT's signature, unblinded

	randoms := make([]pairing.G1, n-2)
	sumRandoms := pairing.G1Identity()
	for i := range randoms {
		s, err := pairing.RandomScalar()
		require.NoError(t, err)
		randoms[i] = pairing.G1Generator().ScalarMult(s)
		sumRandoms = sumRandoms.Add(randoms[i])
	}
	compensating := sumRandoms.Negate()

	points := make([]pairing.G1, n)
	points[0] = w
	for i := 0; i < n-2; i++ {
		points[i+1] = randoms[i]
	}
	points[n-1] = compensating

	forged := BatchedSignedToken{ids: ids, metadata: metadata, points: points}
	engine := BatchedEngine{N: n}

	require.True(t, engine.verifyNoLinearCombination(forged, pk), "aggregate-only check should accept the forgery")
	require.False(t, engine.Verify(forged, pk), "random-linear-combination check must reject the forgery")
}
