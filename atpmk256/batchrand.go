package atpmk256

import (
	"crypto/rand"

	"github.com/hiddentag/atpm/dleq"
	"github.com/hiddentag/atpm/group"
	"github.com/hiddentag/atpm/internal/oracle"
)

var randRead = rand.Read

// newSeededScalars derives n deterministic scalars from seed via
// internal/oracle's ChaCha20 DRBG, so both sides of a batch rederive
// identical r_0..r_{N-1} from the same retained 32-byte seed (spec.md
// §4.5, "RNG-seeded coefficients").
func newSeededScalars(seed [32]byte, n int) ([]group.Scalar, error) {
	drbg, err := oracle.NewBatchDRBG(seed)
	if err != nil {
		return nil, err
	}
	out := make([]group.Scalar, n)
	for i := range out {
		out[i] = dleq.RejectScalar(grp, drbg.Bytes(64))
	}
	return out, nil
}
