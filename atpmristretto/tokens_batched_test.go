package atpmristretto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hiddentag/atpm/atpmristretto"
	"github.com/hiddentag/atpm/protocol"
)

func TestBatchedEngineConformance(t *testing.T) {
	sk, pk := mustKeys(t)
	badSk, _ := mustKeys(t)
	engine := atpmristretto.BatchedEngine{N: 5}

	protocol.RunConformance[
		atpmristretto.BatchedUnsignedToken,
		atpmristretto.BatchedRandomizedUnsignedToken,
		atpmristretto.BatchedRandomizedSignedToken,
		atpmristretto.BatchedSignedToken,
		[32]byte,
		atpmristretto.PublicKey,
		atpmristretto.PrivateKey,
		atpmristretto.PrivateKey,
	](t, engine, protocol.Keys[atpmristretto.PublicKey, atpmristretto.PrivateKey, atpmristretto.PrivateKey]{
		SignKey:          sk,
		UserVerification: pk,
		VerificationKey:  sk,
	}, badSk, badSk, []byte("batched metadata"))
}

func TestBatchedSignedTokenIterMatchesSingleVerify(t *testing.T) {
	sk, pk := mustKeys(t)
	engine := atpmristretto.BatchedEngine{N: 4}

	u, err := engine.Generate([]byte("iter metadata"))
	require.NoError(t, err)

	signed, ok := engine.Sign(u, pk, func(ru atpmristretto.BatchedRandomizedUnsignedToken) (atpmristretto.BatchedRandomizedSignedToken, bool) {
		return engine.SignRandomized(ru, sk)
	})
	require.True(t, ok)

	single := atpmristretto.Engine{}
	for _, t2 := range signed.Iter() {
		assert.True(t, single.Verify(t2, sk))
	}
}
