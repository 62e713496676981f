// Package field reduces byte digests into canonical BN254 scalar-field
// elements. The modulus must be the exact prime the withdrawal circuit
// operates over; a mismatch produces unprovable statements.
package field

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
)

var modulus = ecc.BN254.ScalarField()

// Modulus returns a copy of the scalar-field prime.
func Modulus() *big.Int {
	return new(big.Int).Set(modulus)
}

// ReduceToField interprets b as an unsigned big-endian integer and
// reduces it modulo the scalar-field prime.
func ReduceToField(b []byte) *big.Int {
	n := new(big.Int).SetBytes(b)
	return n.Mod(n, modulus)
}

// InField reports whether n is a canonical field element.
func InField(n *big.Int) bool {
	return n.Sign() >= 0 && n.Cmp(modulus) < 0
}

// Bytes32 returns the 32-byte big-endian encoding of a field element.
func Bytes32(n *big.Int) []byte {
	b := make([]byte, 32)
	n.FillBytes(b)
	return b
}
