package dleq_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hiddentag/atpm/dleq"
	"github.com/hiddentag/atpm/group"
	"github.com/hiddentag/atpm/group/ristretto"
)

func TestCreateVerifyRoundTrip(t *testing.T) {
	g := ristretto.New()

	k, err := g.RandomScalar()
	require.NoError(t, err)
	u := g.Base().ScalarMult(k)

	tid, err := g.RandomScalar()
	require.NoError(t, err)
	tPoint := g.Base().ScalarMult(tid)
	w := tPoint.ScalarMult(mustInvert(t, k))

	proof, err := dleq.Create(g, tPoint, w, k)
	require.NoError(t, err)
	require.True(t, dleq.Verify(g, proof, tPoint, w, u))
}

func TestVerifyRejectsWrongExponent(t *testing.T) {
	g := ristretto.New()

	k, err := g.RandomScalar()
	require.NoError(t, err)
	u := g.Base().ScalarMult(k)

	tid, err := g.RandomScalar()
	require.NoError(t, err)
	tPoint := g.Base().ScalarMult(tid)
	w := tPoint.ScalarMult(mustInvert(t, k))

	proof, err := dleq.Create(g, tPoint, w, k)
	require.NoError(t, err)

	otherK, err := g.RandomScalar()
	require.NoError(t, err)
	otherU := g.Base().ScalarMult(otherK)
	require.False(t, dleq.Verify(g, proof, tPoint, w, otherU))
}

func TestBatchedCreateVerifyRoundTrip(t *testing.T) {
	g := ristretto.New()

	k, err := g.RandomScalar()
	require.NoError(t, err)
	u := g.Base().ScalarMult(k)

	const n = 5
	tList := make([]group.Element, n)
	wList := make([]group.Element, n)
	for i := range n {
		tid, err := g.RandomScalar()
		require.NoError(t, err)
		tList[i] = g.Base().ScalarMult(tid)
		wList[i] = tList[i].ScalarMult(mustInvert(t, k))
	}

	proof, err := dleq.CreateBatched(g, tList, wList, k)
	require.NoError(t, err)
	require.True(t, dleq.VerifyBatched(g, proof, tList, wList, u))
}

func TestBatchedVerifyRejectsTamperedSlot(t *testing.T) {
	g := ristretto.New()

	k, err := g.RandomScalar()
	require.NoError(t, err)
	u := g.Base().ScalarMult(k)

	const n = 4
	tList := make([]group.Element, n)
	wList := make([]group.Element, n)
	for i := range n {
		tid, err := g.RandomScalar()
		require.NoError(t, err)
		tList[i] = g.Base().ScalarMult(tid)
		wList[i] = tList[i].ScalarMult(mustInvert(t, k))
	}

	proof, err := dleq.CreateBatched(g, tList, wList, k)
	require.NoError(t, err)

	garbage, err := g.RandomScalar()
	require.NoError(t, err)
	wList[2] = g.Base().ScalarMult(garbage)

	require.False(t, dleq.VerifyBatched(g, proof, tList, wList, u))
}

func mustInvert(t *testing.T, s group.Scalar) group.Scalar {
	t.Helper()
	inv, ok := s.Invert()
	require.True(t, ok)
	return inv
}
