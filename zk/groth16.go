package zk

import (
	"context"
	"fmt"
	"math/big"

	"github.com/veilpool/VeilPool-sdk/circuits"
	"github.com/veilpool/VeilPool-sdk/config"
	"github.com/veilpool/VeilPool-sdk/field"
	"github.com/veilpool/VeilPool-sdk/merkle"

	"github.com/consensys/gnark/backend/groth16"
	groth16_bn254 "github.com/consensys/gnark/backend/groth16/bn254"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
)

// Groth16Prover proves the withdrawal circuit with gnark's Groth16
// backend over BN254.
type Groth16Prover struct {
	ccs constraint.ConstraintSystem
	pk  groth16.ProvingKey
	vk  groth16.VerifyingKey
}

// NewGroth16Prover compiles the withdrawal circuit and runs the Groth16
// setup. Compilation is expensive; build one prover and reuse it.
func NewGroth16Prover() (*Groth16Prover, error) {
	ccs, err := frontend.Compile(config.Curve.ScalarField(), r1cs.NewBuilder,
		&circuits.WithdrawalCircuit{})
	if err != nil {
		return nil, fmt.Errorf("failed to compile withdrawal circuit: %v", err)
	}
	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		return nil, fmt.Errorf("failed to run groth16 setup: %v", err)
	}
	return &Groth16Prover{ccs: ccs, pk: pk, vk: vk}, nil
}

// VerifyingKey returns the verifying key matching the proving key.
func (p *Groth16Prover) VerifyingKey() groth16.VerifyingKey {
	return p.vk
}

// GenerateWithdrawalProof builds the Merkle paths, assigns the circuit
// witness, and invokes the prover exactly once.
func (p *Groth16Prover) GenerateWithdrawalProof(ctx context.Context, inputs *WithdrawalInputs) (*Proof, error) {
	assignment, publics, err := buildAssignment(inputs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProofGeneration, err)
	}

	witness, err := frontend.NewWitness(assignment, config.Curve.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("%w: failed to build witness: %v", ErrProofGeneration, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProofGeneration, err)
	}
	proof, err := groth16.Prove(p.ccs, p.pk, witness)
	if err != nil {
		// an unsatisfied constraint means the witness is bad, not the backend
		return nil, fmt.Errorf("%w: %w: %v", ErrProofGeneration, ErrBadWitness, err)
	}

	bn254Proof, ok := proof.(*groth16_bn254.Proof)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected proof type %T", ErrProofGeneration, proof)
	}
	piA := bn254Proof.Ar.Bytes()
	piB := bn254Proof.Bs.Bytes()
	piC := bn254Proof.Krs.Bytes()

	return &Proof{
		PiA:           piA[:],
		PiB:           piB[:],
		PiC:           piC[:],
		PublicSignals: publics,
	}, nil
}

// buildAssignment maps the input schema onto the circuit witness. It
// also returns the ordered public signals, matching the circuit's
// public variable order.
func buildAssignment(inputs *WithdrawalInputs) (*circuits.WithdrawalCircuit, []*big.Int, error) {
	stateTree := merkle.BuildTree(config.StateTree, inputs.StateTreeLeaves)
	aspTree := merkle.BuildTree(config.ASPTree, inputs.ApprovedLabels)

	stateIndex, ok := stateTree.IndexOf(inputs.ExistingCommitment)
	if !ok {
		return nil, nil, fmt.Errorf("%w: note commitment not in the state tree",
			ErrBadWitness)
	}
	statePath, err := stateTree.CreateProof(stateIndex)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrBadWitness, err)
	}

	aspIndex, ok := aspTree.IndexOf(inputs.Label)
	if !ok {
		return nil, nil, fmt.Errorf("%w: note label not in the approved set", ErrBadWitness)
	}
	aspPath, err := aspTree.CreateProof(aspIndex)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrBadWitness, err)
	}

	if inputs.WithdrawnValue > inputs.ExistingValue {
		return nil, nil, fmt.Errorf("%w: withdrawn value %d exceeds note value %d",
			ErrBadWitness, inputs.WithdrawnValue, inputs.ExistingValue)
	}
	change := inputs.ExistingValue - inputs.WithdrawnValue

	newCommitment := NoteCommitment(change, inputs.Label, inputs.NewNullifier, inputs.NewSecret)
	nullifierHash := NullifierHash(inputs.ExistingNullifier)
	stateRoot := new(big.Int).SetBytes(stateTree.Root())
	aspRoot := new(big.Int).SetBytes(aspTree.Root())

	assignment := &circuits.WithdrawalCircuit{
		WithdrawnValue:        inputs.WithdrawnValue,
		StateRoot:             stateRoot,
		ASPRoot:               aspRoot,
		Context:               inputs.Context,
		NewCommitment:         newCommitment,
		ExistingNullifierHash: nullifierHash,
		Label:                 inputs.Label,
		ExistingValue:         inputs.ExistingValue,
		ExistingNullifier:     inputs.ExistingNullifier,
		ExistingSecret:        inputs.ExistingSecret,
		NewNullifier:          inputs.NewNullifier,
		NewSecret:             inputs.NewSecret,
		StateIndex:            stateIndex,
		ASPIndex:              aspIndex,
	}
	for i, v := range statePath {
		assignment.StatePath[i] = v
	}
	for i, v := range aspPath {
		assignment.ASPPath[i] = v
	}

	publics := []*big.Int{
		new(big.Int).SetUint64(inputs.WithdrawnValue),
		stateRoot,
		aspRoot,
		new(big.Int).Set(inputs.Context),
		newCommitment,
		nullifierHash,
	}
	return assignment, publics, nil
}

// NoteCommitment computes hash(value, label, hash(nullifier, secret)),
// the leaf value stored in the state tree for a note.
func NoteCommitment(value uint64, label, nullifier, secret *big.Int) *big.Int {
	precommitment := config.Hash(field.Bytes32(nullifier), field.Bytes32(secret))
	h := config.Hash(
		field.Bytes32(new(big.Int).SetUint64(value)),
		field.Bytes32(label),
		precommitment,
	)
	return new(big.Int).SetBytes(h)
}

// NullifierHash computes the public hash revealed when a note is spent.
func NullifierHash(nullifier *big.Int) *big.Int {
	return new(big.Int).SetBytes(config.Hash(field.Bytes32(nullifier)))
}
