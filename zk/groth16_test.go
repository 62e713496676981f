package zk

import (
	"errors"
	"math/big"
	"testing"

	"github.com/veilpool/VeilPool-sdk/circuits"
	"github.com/veilpool/VeilPool-sdk/config"

	"github.com/consensys/gnark/test"
)

func testInputs() *WithdrawalInputs {
	label := big.NewInt(42)
	nullifier := big.NewInt(111)
	secret := big.NewInt(222)
	value := uint64(1_000_000)
	commitment := NoteCommitment(value, label, nullifier, secret)

	return &WithdrawalInputs{
		ExistingCommitment: commitment,
		ExistingValue:      value,
		ExistingNullifier:  nullifier,
		ExistingSecret:     secret,
		NewNullifier:       big.NewInt(333),
		NewSecret:          big.NewInt(444),
		WithdrawnValue:     400_000,
		Context:            big.NewInt(987654321),
		Label:              label,
		StateTreeLeaves:    []*big.Int{big.NewInt(7), commitment, big.NewInt(9)},
		ApprovedLabels:     []*big.Int{big.NewInt(1), label},
	}
}

// the assembled witness must satisfy the withdrawal circuit; this
// exercises the full mapping without running the Groth16 backend
func TestBuildAssignmentSatisfiesCircuit(t *testing.T) {
	inputs := testInputs()
	assignment, publics, err := buildAssignment(inputs)
	if err != nil {
		t.Fatal(err)
	}
	if len(publics) != 6 {
		t.Fatalf("got %d public signals, want 6", len(publics))
	}

	if err := test.IsSolved(&circuits.WithdrawalCircuit{}, assignment,
		config.Curve.ScalarField()); err != nil {
		t.Fatalf("witness does not satisfy the circuit: %v", err)
	}
}

func TestBuildAssignmentPublicSignals(t *testing.T) {
	inputs := testInputs()
	_, publics, err := buildAssignment(inputs)
	if err != nil {
		t.Fatal(err)
	}

	if publics[0].Uint64() != inputs.WithdrawnValue {
		t.Fatal("public signal 0 is not the withdrawn value")
	}
	if publics[3].Cmp(inputs.Context) != 0 {
		t.Fatal("public signal 3 is not the context scalar")
	}
	change := inputs.ExistingValue - inputs.WithdrawnValue
	wantCommitment := NoteCommitment(change, inputs.Label,
		inputs.NewNullifier, inputs.NewSecret)
	if publics[4].Cmp(wantCommitment) != 0 {
		t.Fatal("public signal 4 is not the change commitment")
	}
	if publics[5].Cmp(NullifierHash(inputs.ExistingNullifier)) != 0 {
		t.Fatal("public signal 5 is not the nullifier hash")
	}
}

func TestBuildAssignmentRejectsBadWitness(t *testing.T) {
	// commitment not in the tree
	inputs := testInputs()
	inputs.StateTreeLeaves = []*big.Int{big.NewInt(7), big.NewInt(9)}
	if _, _, err := buildAssignment(inputs); !errors.Is(err, ErrBadWitness) {
		t.Fatalf("got %v, want ErrBadWitness for missing commitment", err)
	}

	// label not approved
	inputs = testInputs()
	inputs.ApprovedLabels = []*big.Int{big.NewInt(1)}
	if _, _, err := buildAssignment(inputs); !errors.Is(err, ErrBadWitness) {
		t.Fatalf("got %v, want ErrBadWitness for unapproved label", err)
	}

	// overdraw
	inputs = testInputs()
	inputs.WithdrawnValue = inputs.ExistingValue + 1
	if _, _, err := buildAssignment(inputs); !errors.Is(err, ErrBadWitness) {
		t.Fatalf("got %v, want ErrBadWitness for overdraw", err)
	}
}

func TestNoteCommitmentDeterministic(t *testing.T) {
	a := NoteCommitment(100, big.NewInt(1), big.NewInt(2), big.NewInt(3))
	b := NoteCommitment(100, big.NewInt(1), big.NewInt(2), big.NewInt(3))
	if a.Cmp(b) != 0 {
		t.Fatal("same note produced different commitments")
	}
	c := NoteCommitment(101, big.NewInt(1), big.NewInt(2), big.NewInt(3))
	if a.Cmp(c) == 0 {
		t.Fatal("different values produced the same commitment")
	}
}
