// Package dleq implements the discrete-log-equality proof shared by the
// NIZKP token engines (atpmristretto, atpmk256): a Fiat-Shamir proof that
// log_W(T) = log_g(U) without revealing the exponent, plus its batched
// random-linear-combination form (spec.md §4.4, §4.5).
//
// It is written generically against group.Group/Scalar/Element so both
// curve instantiations share one implementation, grounded on
// original_source/src/nizkp_curve25519/tokens.rs's DLEQProof and
// tokens_batched.rs's DLEQProofBatched.
package dleq

import (
	"crypto/sha512"
	"fmt"

	"github.com/hiddentag/atpm/group"
	"github.com/hiddentag/atpm/internal/oracle"
)

// Proof is the {c, z} pair from spec.md §4.4.
type Proof struct {
	C group.Scalar
	Z group.Scalar
}

// Create proves log_w(t) = k, where the caller has arranged w = k^{-1}·t
// (spec.md §4.3's blind-signature equation). u = g.Base()·k is the public
// point the verifier already knows (the signer's public key, offset by the
// metadata scalar).
func Create(g group.Group, t, w group.Element, k group.Scalar) (Proof, error) {
	r, err := g.RandomScalar()
	if err != nil {
		return Proof{}, err
	}
	a := g.Base().ScalarMult(r)
	b := w.ScalarMult(r)
	u := g.Base().ScalarMult(k)

	c := challenge(g, u, t, w, a, b)
	z := r.Sub(k.Mul(c))
	return Proof{C: c, Z: z}, nil
}

// Verify checks a Create-produced proof against the claimed public point u.
func Verify(g group.Group, proof Proof, t, w, u group.Element) bool {
	a := g.Base().ScalarMult(proof.Z).Add(u.ScalarMult(proof.C))
	b := w.ScalarMult(proof.Z).Add(t.ScalarMult(proof.C))
	c := challenge(g, u, t, w, a, b)
	return c.Equal(proof.C)
}

// CreateBatched proves the single DLEQ relation over a random linear
// combination of N (t_i, w_i) pairs, collapsing an N-way proof into one
// (spec.md §4.5 steps 1-2). The combination coefficients are drawn from a
// transcript-seeded DRBG so the verifier can rederive them independently.
func CreateBatched(g group.Group, tList, wList []group.Element, k group.Scalar) (Proof, error) {
	if len(tList) != len(wList) || len(tList) == 0 {
		return Proof{}, fmt.Errorf("dleq: batched lists must be equal length and non-empty")
	}
	u := g.Base().ScalarMult(k)
	m, z := linearCombination(g, tList, wList, u)
	return Create(g, m, z, k)
}

// VerifyBatched rederives the same linear combination the signer used and
// checks the single resulting proof.
func VerifyBatched(g group.Group, proof Proof, tList, wList []group.Element, u group.Element) bool {
	if len(tList) != len(wList) || len(tList) == 0 {
		return false
	}
	m, z := linearCombination(g, tList, wList, u)
	return Verify(g, proof, m, z, u)
}

// linearCombination derives per-slot coefficients from a transcript-seeded
// DRBG and folds tList/wList down to a single (T, W) pair, grounded on
// DLEQProofBatched::hash_random_linear_combination.
func linearCombination(g group.Group, tList, wList []group.Element, u group.Element) (group.Element, group.Element) {
	frames := make([][]byte, 0, 2*len(tList)+2)
	frames = append(frames, g.Base().Bytes())
	frames = append(frames, u.Bytes())
	for _, t := range tList {
		frames = append(frames, t.Bytes())
	}
	for _, w := range wList {
		frames = append(frames, w.Bytes())
	}
	seed := oracle.SeedFromTranscript(frames...)
	drbg, err := oracle.NewBatchDRBG(seed)
	if err != nil {
		panic(fmt.Sprintf("dleq: batch DRBG seeding failed: %v", err))
	}

	tsum := g.Identity()
	wsum := g.Identity()
	for i := range tList {
		coeff := RejectScalar(g, drbg.Bytes(64))
		tsum = tsum.Add(tList[i].ScalarMult(coeff))
		wsum = wsum.Add(wList[i].ScalarMult(coeff))
	}
	return tsum, wsum
}

// challenge hashes the six DLEQ transcript points (spec.md §4.1's DLEQ
// oracle) and rejection-samples the digest into a scalar of g's field.
func challenge(g group.Group, u, t, w, a, b group.Element) group.Scalar {
	tr := oracle.NewDLEQTranscript()
	tr.Write(g.Base().Bytes())
	tr.Write(u.Bytes())
	tr.Write(t.Bytes())
	tr.Write(w.Bytes())
	tr.Write(a.Bytes())
	tr.Write(b.Bytes())
	return RejectScalar(g, tr.Sum())
}

// RejectScalar decodes the leading ScalarSize() bytes of digest as a
// canonical scalar, rehashing and retrying on failure. This departs from
// curve25519-dalek's wide-reduction Scalar::from_hash (which never rejects)
// so that all group backends — Ristretto255 and secp256k1 alike — derive
// DLEQ challenge and batch coefficients through the same canonical
// rejection loop as H_s (spec.md §4.1), rather than special-casing
// Ristretto's always-succeeding reduction.
func RejectScalar(g group.Group, digest []byte) group.Scalar {
	for {
		if s, err := g.DecodeScalar(digest[:g.ScalarSize()]); err == nil {
			return s
		}
		h := sha512.New()
		h.Write(digest)
		digest = h.Sum(nil)
	}
}
