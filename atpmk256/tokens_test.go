package atpmk256_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hiddentag/atpm/atpmk256"
	"github.com/hiddentag/atpm/group"
	"github.com/hiddentag/atpm/protocol"
)

func mustKeys(t *testing.T) (atpmk256.PrivateKey, atpmk256.PublicKey) {
	t.Helper()
	sk, err := atpmk256.NewPrivateKey()
	require.NoError(t, err)
	return sk, sk.Public()
}

func TestEngineConformance(t *testing.T) {
	sk, pk := mustKeys(t)
	badSk, _ := mustKeys(t)

	protocol.RunConformance[
		atpmk256.UnsignedToken,
		atpmk256.RandomizedUnsignedToken,
		atpmk256.RandomizedSignedToken,
		atpmk256.SignedToken,
		group.Scalar,
		atpmk256.PublicKey,
		atpmk256.PrivateKey,
		atpmk256.PrivateKey,
	](t, atpmk256.Engine{}, protocol.Keys[atpmk256.PublicKey, atpmk256.PrivateKey, atpmk256.PrivateKey]{
		SignKey:          sk,
		UserVerification: pk,
		VerificationKey:  sk,
	}, badSk, badSk, []byte("example metadata"))
}

func TestEncodingRoundTrip(t *testing.T) {
	sk, pk := mustKeys(t)
	e := atpmk256.Engine{}

	u, err := e.Generate([]byte("round trip metadata"))
	require.NoError(t, err)

	signed, ok := e.Sign(u, pk, func(ru atpmk256.RandomizedUnsignedToken) (atpmk256.RandomizedSignedToken, bool) {
		return e.SignRandomized(ru, sk)
	})
	require.True(t, ok)

	data, err := signed.MarshalJSON()
	require.NoError(t, err)

	var decoded atpmk256.SignedToken
	require.NoError(t, decoded.UnmarshalJSON(data))
	require.True(t, e.Verify(decoded, sk))
}
