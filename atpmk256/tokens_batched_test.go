package atpmk256_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hiddentag/atpm/atpmk256"
	"github.com/hiddentag/atpm/protocol"
)

func TestBatchedEngineConformance(t *testing.T) {
	sk, pk := mustKeys(t)
	badSk, _ := mustKeys(t)
	engine := atpmk256.BatchedEngine{N: 5}

	protocol.RunConformance[
		atpmk256.BatchedUnsignedToken,
		atpmk256.BatchedRandomizedUnsignedToken,
		atpmk256.BatchedRandomizedSignedToken,
		atpmk256.BatchedSignedToken,
		[32]byte,
		atpmk256.PublicKey,
		atpmk256.PrivateKey,
		atpmk256.PrivateKey,
	](t, engine, protocol.Keys[atpmk256.PublicKey, atpmk256.PrivateKey, atpmk256.PrivateKey]{
		SignKey:          sk,
		UserVerification: pk,
		VerificationKey:  sk,
	}, badSk, badSk, []byte("batched metadata"))
}

func TestBatchedSignedTokenIterMatchesSingleVerify(t *testing.T) {
	sk, pk := mustKeys(t)
	engine := atpmk256.BatchedEngine{N: 4}

	u, err := engine.Generate([]byte("iter metadata"))
	require.NoError(t, err)

	signed, ok := engine.Sign(u, pk, func(ru atpmk256.BatchedRandomizedUnsignedToken) (atpmk256.BatchedRandomizedSignedToken, bool) {
		return engine.SignRandomized(ru, sk)
	})
	require.True(t, ok)

	single := atpmk256.Engine{}
	for _, tok := range signed.Iter() {
		assert.True(t, single.Verify(tok, sk))
	}
}
