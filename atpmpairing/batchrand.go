package atpmpairing

import (
	"crypto/rand"

	"github.com/hiddentag/atpm/group/pairing"
	"github.com/hiddentag/atpm/internal/oracle"
)

var randRead = rand.Read

// newSeededScalars derives n deterministic Fr scalars from seed via
// internal/oracle's ChaCha20 DRBG, so both sides of a batch rederive
// identical r_0..r_{N-1} from the same retained 32-byte seed (spec.md
// §4.5, "RNG-seeded coefficients").
func newSeededScalars(seed [32]byte, n int) ([]pairing.Scalar, error) {
	drbg, err := oracle.NewBatchDRBG(seed)
	if err != nil {
		return nil, err
	}
	out := make([]pairing.Scalar, n)
	for i := range out {
		for {
			s, err := pairing.DecodeScalar(drbg.Bytes(32))
			if err == nil {
				out[i] = s
				break
			}
		}
	}
	return out, nil
}
