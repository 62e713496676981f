// Package keys normalizes account credentials into a single signing /
// derivation key and derives the per-note nullifier and secret scalars
// from it.
package keys

import (
	"errors"
	"fmt"
	"strings"

	"github.com/algorand/go-algorand-sdk/v2/mnemonic"
	"golang.org/x/crypto/ed25519"
)

// ErrMissingCredential is returned when a credential carries neither a
// private key nor a mnemonic.
var ErrMissingCredential = errors.New("no private key or mnemonic provided")

// Credential is the account credential accepted by the withdrawal
// pipeline: a direct ed25519 private key, a mnemonic passphrase, or a
// pre-split word list. Exactly one form needs to be set.
type Credential struct {
	PrivateKey ed25519.PrivateKey
	Mnemonic   string
	Words      []string
}

// Resolve returns the account private key for the credential.
// A direct key is returned verbatim; a mnemonic (phrase or word list)
// is restored via the standard 25-word derivation. The returned key
// must only be passed to the deterministic derivation routines, never
// logged or persisted.
func Resolve(c Credential) (ed25519.PrivateKey, error) {
	if len(c.PrivateKey) > 0 {
		if len(c.PrivateKey) != ed25519.PrivateKeySize {
			return nil, fmt.Errorf("private key has %d bytes, want %d",
				len(c.PrivateKey), ed25519.PrivateKeySize)
		}
		return c.PrivateKey, nil
	}
	phrase := c.Mnemonic
	if phrase == "" && len(c.Words) > 0 {
		phrase = strings.Join(c.Words, " ")
	}
	if phrase == "" {
		return nil, ErrMissingCredential
	}
	privateKey, err := mnemonic.ToPrivateKey(phrase)
	if err != nil {
		return nil, fmt.Errorf("failed to restore key from mnemonic: %v", err)
	}
	return ed25519.PrivateKey(privateKey), nil
}
