package keys

import (
	"crypto/sha512"
	"math/big"

	"github.com/veilpool/VeilPool-sdk/config"
	"github.com/veilpool/VeilPool-sdk/field"

	"golang.org/x/crypto/ed25519"
)

// Domain tags for the two derived scalars. 32-byte values with the tag
// in the last byte, hashed together with the inputs so nullifiers and
// secrets never collide for the same (key, scope, index).
var (
	nullifierDomain = make([]byte, 32)
	secretDomain    = make([]byte, 32)
)

func init() {
	nullifierDomain[31] = 'n'
	secretDomain[31] = 's'
}

// spendingScalar maps the account key to a field element. The key seed
// is domain-separated and reduced so the scalar is canonical and stable
// across process restarts.
func spendingScalar(key ed25519.PrivateKey) *big.Int {
	h := sha512.Sum512_256(append([]byte("veilpool/spending/v1"), key.Seed()...))
	return field.ReduceToField(h[:])
}

// DeriveNullifier returns the nullifier scalar for (key, scope, index).
// Replaying the same inputs always reproduces the same value; this is
// what lets a recovered account re-derive its spend proofs.
func DeriveNullifier(key ed25519.PrivateKey, scope *big.Int, index uint64) *big.Int {
	return deriveScalar(key, scope, index, nullifierDomain)
}

// DeriveSecret returns the secret scalar for (key, scope, index).
func DeriveSecret(key ed25519.PrivateKey, scope *big.Int, index uint64) *big.Int {
	return deriveScalar(key, scope, index, secretDomain)
}

func deriveScalar(key ed25519.PrivateKey, scope *big.Int, index uint64, domain []byte) *big.Int {
	indexBytes := new(big.Int).SetUint64(index)
	h := config.Hash(
		field.Bytes32(spendingScalar(key)),
		field.Bytes32(scope),
		field.Bytes32(indexBytes),
		domain,
	)
	return new(big.Int).SetBytes(h)
}
