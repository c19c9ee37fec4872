// Package protocol defines the abstract ATPM contract every concrete engine
// (atpmpairing, atpmristretto, atpmk256, and their batched counterparts)
// implements: the eight operations from spec.md §4.2 — generate,
// generate-with-hidden, randomize, sign-randomized, verify-and-unrandomize,
// the sign composite, verify, and batched parameterization by N — expressed
// once as a generic interface so property tests run against all engines
// without duplication (spec.md §9 "Generics vs dynamic dispatch").
package protocol

// Engine is satisfied by every concrete token engine. Type parameters:
//
//	U  - unsigned token
//	RU - randomized unsigned token (sent to the issuer)
//	RS - randomized signed token (the issuer's response)
//	S  - final signed token, ready to present
//	R  - randomization material needed to unrandomize later
//	UV - user-facing verification data handed to the client alongside issuance
//	     (the issuer's public key in both variants)
//	VK - the key a holder of a signed token verifies against: the issuer's
//	     public key for the pairing engine, its private key for the NIZKP
//	     engines (spec.md §1: "publicly" vs "privately" verifiable)
//	SK - the issuer's signing key
type Engine[U, RU, RS, S, R, UV, VK, SK any] interface {
	// Generate creates a fresh unsigned token over the given public
	// metadata.
	Generate(metadata []byte) (U, error)

	// GenerateWithHidden creates a fresh unsigned token whose identifier
	// additionally folds in hidden metadata, visible to client and
	// verifier but never transmitted to the signer.
	GenerateWithHidden(metadata, hidden []byte) (U, error)

	// Randomize blinds u for issuance, returning the randomization
	// material the client must retain to unrandomize the response later.
	Randomize(u U) (R, RU, error)

	// SignRandomized is the issuer's half: sign a blinded token under sk.
	// The returned bool is a constant-time presence bit, not an early
	// return — the signer's secret-dependent path never branches on it.
	SignRandomized(ru RU, sk SK) (RS, bool)

	// VerifyAndUnrandomize checks the issuer's response against uv and, on
	// success, strips the randomization to produce a presentable token.
	VerifyAndUnrandomize(u U, ru RU, rs RS, uv UV, r R) (S, bool)

	// Sign is the client-side composite: randomize, hand to signFn
	// (normally a network round trip to the issuer), then verify and
	// unrandomize.
	Sign(u U, uv UV, signFn func(RU) (RS, bool)) (S, bool)

	// Verify checks a signed token against vk, confirming it binds the
	// expected public metadata.
	Verify(s S, vk VK) bool
}
