package atpmristretto_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hiddentag/atpm/atpmristretto"
	"github.com/hiddentag/atpm/group"
	"github.com/hiddentag/atpm/protocol"
)

func mustKeys(t *testing.T) (atpmristretto.PrivateKey, atpmristretto.PublicKey) {
	t.Helper()
	sk, err := atpmristretto.NewPrivateKey()
	require.NoError(t, err)
	return sk, sk.Public()
}

func TestEngineConformance(t *testing.T) {
	sk, pk := mustKeys(t)
	badSk, _ := mustKeys(t)

	protocol.RunConformance[
		atpmristretto.UnsignedToken,
		atpmristretto.RandomizedUnsignedToken,
		atpmristretto.RandomizedSignedToken,
		atpmristretto.SignedToken,
		group.Scalar,
		atpmristretto.PublicKey,
		atpmristretto.PrivateKey,
		atpmristretto.PrivateKey,
	](t, atpmristretto.Engine{}, protocol.Keys[atpmristretto.PublicKey, atpmristretto.PrivateKey, atpmristretto.PrivateKey]{
		SignKey:          sk,
		UserVerification: pk,
		VerificationKey:  sk,
	}, badSk, badSk, []byte("example metadata"))
}

func TestEncodingRoundTrip(t *testing.T) {
	sk, pk := mustKeys(t)
	e := atpmristretto.Engine{}

	u, err := e.Generate([]byte("round trip metadata"))
	require.NoError(t, err)

	signed, ok := e.Sign(u, pk, func(ru atpmristretto.RandomizedUnsignedToken) (atpmristretto.RandomizedSignedToken, bool) {
		return e.SignRandomized(ru, sk)
	})
	require.True(t, ok)

	data, err := signed.MarshalJSON()
	require.NoError(t, err)

	var decoded atpmristretto.SignedToken
	require.NoError(t, decoded.UnmarshalJSON(data))
	require.True(t, e.Verify(decoded, sk))
}
