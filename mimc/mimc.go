// Package mimc exposes the MiMC hash used by the circuits as a plain
// bytes-in, bytes-out function. Inputs must be canonical field elements
// (at most 32 bytes for BN254); shorter inputs are left-padded.
package mimc

import (
	"log"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/hash"
)

// NewMimcF returns a hash function over the scalar field of the given curve.
func NewMimcF(curve ecc.ID) func(...[]byte) []byte {
	var h hash.Hash
	switch curve {
	case ecc.BN254:
		h = hash.MIMC_BN254
	case ecc.BLS12_381:
		h = hash.MIMC_BLS12_381
	default:
		log.Fatalf("unsupported curve for mimc: %v", curve)
	}
	fieldSize := curve.ScalarField().BitLen() / 8
	return func(data ...[]byte) []byte {
		hasher := h.New()
		for _, d := range data {
			if len(d) < fieldSize {
				padded := make([]byte, fieldSize)
				copy(padded[fieldSize-len(d):], d)
				d = padded
			}
			if _, err := hasher.Write(d); err != nil {
				log.Fatalf("mimc write: %v", err)
			}
		}
		return hasher.Sum(nil)
	}
}
