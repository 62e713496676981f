package field

import (
	"bytes"
	"math/big"
	"testing"
)

func TestReduceToField(t *testing.T) {
	// a 64-byte digest is always above the modulus and must be reduced
	digest := bytes.Repeat([]byte{0xff}, 64)
	n := ReduceToField(digest)
	if !InField(n) {
		t.Fatalf("reduced value %s is not in the field", n)
	}

	// reduction is deterministic
	if n.Cmp(ReduceToField(digest)) != 0 {
		t.Fatal("reducing the same digest twice gave different values")
	}

	// values below the modulus pass through unchanged
	small := big.NewInt(42)
	if ReduceToField(small.Bytes()).Cmp(small) != 0 {
		t.Fatal("value below the modulus was changed by reduction")
	}
}

func TestReduceMatchesModulus(t *testing.T) {
	m := Modulus()
	if ReduceToField(m.Bytes()).Sign() != 0 {
		t.Fatal("the modulus itself must reduce to zero")
	}
	if InField(m) {
		t.Fatal("the modulus is not a canonical field element")
	}
}

func TestBytes32(t *testing.T) {
	n := big.NewInt(0x0102)
	b := Bytes32(n)
	if len(b) != 32 {
		t.Fatalf("Bytes32 returned %d bytes", len(b))
	}
	if got := new(big.Int).SetBytes(b); got.Cmp(n) != 0 {
		t.Fatalf("round trip gave %s, want %s", got, n)
	}
}
