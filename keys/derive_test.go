package keys

import (
	"math/big"
	"testing"

	"github.com/veilpool/VeilPool-sdk/field"

	"github.com/algorand/go-algorand-sdk/v2/crypto"
)

func TestDeriveDeterministic(t *testing.T) {
	account := crypto.GenerateAccount()
	scope := big.NewInt(123456789)

	n1 := DeriveNullifier(account.PrivateKey, scope, 7)
	n2 := DeriveNullifier(account.PrivateKey, scope, 7)
	if n1.Cmp(n2) != 0 {
		t.Fatal("deriving the same nullifier twice gave different values")
	}

	s1 := DeriveSecret(account.PrivateKey, scope, 7)
	s2 := DeriveSecret(account.PrivateKey, scope, 7)
	if s1.Cmp(s2) != 0 {
		t.Fatal("deriving the same secret twice gave different values")
	}

	if n1.Cmp(s1) == 0 {
		t.Fatal("nullifier and secret collide for the same (key, scope, index)")
	}
	if !field.InField(n1) || !field.InField(s1) {
		t.Fatal("derived scalars are not canonical field elements")
	}
}

func TestDeriveSeparatesInputs(t *testing.T) {
	account := crypto.GenerateAccount()
	other := crypto.GenerateAccount()
	scope := big.NewInt(1)

	base := DeriveNullifier(account.PrivateKey, scope, 0)
	if base.Cmp(DeriveNullifier(account.PrivateKey, scope, 1)) == 0 {
		t.Fatal("different indices derived the same nullifier")
	}
	if base.Cmp(DeriveNullifier(account.PrivateKey, big.NewInt(2), 0)) == 0 {
		t.Fatal("different scopes derived the same nullifier")
	}
	if base.Cmp(DeriveNullifier(other.PrivateKey, scope, 0)) == 0 {
		t.Fatal("different keys derived the same nullifier")
	}
}
