package atpmpairing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hiddentag/atpm/atpmpairing"
	"github.com/hiddentag/atpm/protocol"
)

func TestBatchedEngineConformance(t *testing.T) {
	sk, pk := mustKeys(t)
	badSk, badPk := mustKeys(t)
	engine := atpmpairing.BatchedEngine{N: 5}

	protocol.RunConformance[
		atpmpairing.BatchedUnsignedToken,
		atpmpairing.BatchedRandomizedUnsignedToken,
		atpmpairing.BatchedRandomizedSignedToken,
		atpmpairing.BatchedSignedToken,
		[32]byte,
		atpmpairing.PublicKey,
		atpmpairing.PublicKey,
		atpmpairing.PrivateKey,
	](t, engine, protocol.Keys[atpmpairing.PublicKey, atpmpairing.PublicKey, atpmpairing.PrivateKey]{
		SignKey:          sk,
		UserVerification: pk,
		VerificationKey:  pk,
	}, badSk, badPk, []byte("batched metadata"))
}

func TestBatchedSignedTokenIterMatchesSingleVerify(t *testing.T) {
	sk, pk := mustKeys(t)
	engine := atpmpairing.BatchedEngine{N: 4}

	u, err := engine.Generate([]byte("iter metadata"))
	require.NoError(t, err)

	signed, ok := engine.Sign(u, pk, func(ru atpmpairing.BatchedRandomizedUnsignedToken) (atpmpairing.BatchedRandomizedSignedToken, bool) {
		return engine.SignRandomized(ru, sk)
	})
	require.True(t, ok)

	single := atpmpairing.Engine{}
	for _, tok := range signed.Iter() {
		assert.True(t, single.Verify(tok, pk))
	}
}
