// Conformance holds the generic property tests every concrete engine must
// pass, exported so atpmpairing, atpmristretto, and atpmk256's own _test.go
// files can each call RunConformance instead of duplicating the same
// assertions per curve (spec.md §8's scenarios A-D, run once per engine).
package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Keys is whatever a conformance run needs to mint a fresh keypair.
type Keys[UV, VK, SK any] struct {
	SignKey          SK
	UserVerification UV
	VerificationKey  VK
}

// RunConformance exercises scenarios A-D from spec.md §8 against any engine
// implementing Engine[U,RU,RS,S,R,UV,VK,SK]: correctness, wrong-signing-key
// rejection, and wrong-verification-key rejection.
func RunConformance[U, RU, RS, S, R, UV, VK, SK any](
	t *testing.T,
	e Engine[U, RU, RS, S, R, UV, VK, SK],
	goodKeys Keys[UV, VK, SK],
	badSignKey SK,
	badVerificationKey VK,
	metadata []byte,
) {
	t.Run("correctness", func(t *testing.T) {
		u, err := e.Generate(metadata)
		require.NoError(t, err)

		signed, ok := e.Sign(u, goodKeys.UserVerification, func(ru RU) (RS, bool) {
			return e.SignRandomized(ru, goodKeys.SignKey)
		})
		require.True(t, ok, "sign composite should succeed with matching keys")

		assert.True(t, e.Verify(signed, goodKeys.VerificationKey), "token signed with the matching key should verify")
	})

	t.Run("wrong signing key is rejected", func(t *testing.T) {
		u, err := e.Generate(metadata)
		require.NoError(t, err)

		_, ok := e.Sign(u, goodKeys.UserVerification, func(ru RU) (RS, bool) {
			return e.SignRandomized(ru, badSignKey)
		})
		assert.False(t, ok, "signing under a mismatched key should fail verification during unrandomize")
	})

	t.Run("wrong verification key is rejected", func(t *testing.T) {
		u, err := e.Generate(metadata)
		require.NoError(t, err)

		signed, ok := e.Sign(u, goodKeys.UserVerification, func(ru RU) (RS, bool) {
			return e.SignRandomized(ru, goodKeys.SignKey)
		})
		require.True(t, ok)

		assert.False(t, e.Verify(signed, badVerificationKey), "a correctly-signed token should not verify under an unrelated key")
	})

	t.Run("hidden metadata round trip", func(t *testing.T) {
		u, err := e.GenerateWithHidden(metadata, []byte("a secret only the holder knows"))
		require.NoError(t, err)

		signed, ok := e.Sign(u, goodKeys.UserVerification, func(ru RU) (RS, bool) {
			return e.SignRandomized(ru, goodKeys.SignKey)
		})
		require.True(t, ok)

		assert.True(t, e.Verify(signed, goodKeys.VerificationKey))
	})
}
