package keys

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/algorand/go-algorand-sdk/v2/mnemonic"
)

func TestResolveDirectKey(t *testing.T) {
	account := crypto.GenerateAccount()
	key, err := Resolve(Credential{PrivateKey: account.PrivateKey})
	if err != nil {
		t.Fatalf("failed to resolve direct key: %v", err)
	}
	if !bytes.Equal(key, account.PrivateKey) {
		t.Fatal("direct key was not returned verbatim")
	}
}

func TestResolveMnemonic(t *testing.T) {
	account := crypto.GenerateAccount()
	phrase, err := mnemonic.FromPrivateKey(account.PrivateKey)
	if err != nil {
		t.Fatal(err)
	}

	key, err := Resolve(Credential{Mnemonic: phrase})
	if err != nil {
		t.Fatalf("failed to resolve mnemonic: %v", err)
	}
	if !bytes.Equal(key, account.PrivateKey) {
		t.Fatal("mnemonic did not restore the original key")
	}

	// a pre-split word list resolves the same way
	key, err = Resolve(Credential{Words: strings.Fields(phrase)})
	if err != nil {
		t.Fatalf("failed to resolve word list: %v", err)
	}
	if !bytes.Equal(key, account.PrivateKey) {
		t.Fatal("word list did not restore the original key")
	}
}

func TestResolveMissingCredential(t *testing.T) {
	_, err := Resolve(Credential{})
	if !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("got %v, want ErrMissingCredential", err)
	}
}

func TestResolveBadKeySize(t *testing.T) {
	if _, err := Resolve(Credential{PrivateKey: []byte{1, 2, 3}}); err == nil {
		t.Fatal("a truncated key must be rejected")
	}
}
