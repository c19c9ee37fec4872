// Package atpm is the root of the ATPM (Anonymous Tokens with Public
// Metadata) module: a client obtains a signature over a self-chosen secret
// token identifier while revealing only public metadata, the issuer cannot
// later link the presented token to any signing interaction, and the
// verifier confirms the signature binds exactly the claimed metadata.
//
// Three concrete engines share the protocol contract defined in package
// protocol: atpmpairing (BLS12-381, publicly verifiable), atpmristretto and
// atpmk256 (NIZKP over Ristretto255/secp256k1, privately verifiable via a
// DLEQ proof). Each ships a single-token and a batched variant.
package atpm

import "errors"

// ErrInvalidSignature names the failure of a token's final verification
// equation, or of an issuer's blind signature to unrandomize. The engines in
// this module do not return it: they report both failures as a false result.
var ErrInvalidSignature = errors.New("atpm: invalid signature")

// ErrEncodingFailure is returned when wire-format bytes do not decode to a
// canonical scalar, point, key, or proof.
var ErrEncodingFailure = errors.New("atpm: malformed wire encoding")
