package atpmpairing_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hiddentag/atpm/atpmpairing"
	"github.com/hiddentag/atpm/group/pairing"
	"github.com/hiddentag/atpm/protocol"
)

func mustKeys(t *testing.T) (atpmpairing.PrivateKey, atpmpairing.PublicKey) {
	t.Helper()
	sk, err := atpmpairing.NewPrivateKey()
	require.NoError(t, err)
	return sk, sk.Public()
}

func TestEngineConformance(t *testing.T) {
	sk, pk := mustKeys(t)
	badSk, badPk := mustKeys(t)

	protocol.RunConformance[
		atpmpairing.UnsignedToken,
		atpmpairing.RandomizedUnsignedToken,
		atpmpairing.RandomizedSignedToken,
		atpmpairing.SignedToken,
		pairing.Scalar,
		atpmpairing.PublicKey,
		atpmpairing.PublicKey,
		atpmpairing.PrivateKey,
	](t, atpmpairing.Engine{}, protocol.Keys[atpmpairing.PublicKey, atpmpairing.PublicKey, atpmpairing.PrivateKey]{
		SignKey:          sk,
		UserVerification: pk,
		VerificationKey:  pk,
	}, badSk, badPk, []byte("example metadata"))
}

func TestEncodingRoundTrip(t *testing.T) {
	sk, pk := mustKeys(t)
	e := atpmpairing.Engine{}

	u, err := e.Generate([]byte("round trip metadata"))
	require.NoError(t, err)

	signed, ok := e.Sign(u, pk, func(ru atpmpairing.RandomizedUnsignedToken) (atpmpairing.RandomizedSignedToken, bool) {
		return e.SignRandomized(ru, sk)
	})
	require.True(t, ok)

	data, err := signed.MarshalJSON()
	require.NoError(t, err)

	var decoded atpmpairing.SignedToken
	require.NoError(t, decoded.UnmarshalJSON(data))
	require.True(t, e.Verify(decoded, pk))
}
