// Package zk assembles withdrawal proof inputs and invokes the prover.
// The prover is a black box with a fixed input schema: it either
// returns a valid proof or fails because the witness does not satisfy
// the circuit or the proving backend is unavailable.
package zk

import (
	"context"
	"errors"
	"math/big"
)

// ErrProofGeneration wraps every prover failure.
var ErrProofGeneration = errors.New("proof generation failed")

// ErrBadWitness marks failures where the supplied values cannot satisfy
// the circuit (note not in the tree, label not approved, amounts
// inconsistent), as opposed to prover infrastructure failures.
// Retrying with the same inputs reproduces the same failure.
var ErrBadWitness = errors.New("witness does not satisfy the circuit")

// Proof is the prover output: the three Groth16 group elements in
// compressed encoding plus the ordered public signals. Opaque and
// immutable after creation.
type Proof struct {
	PiA           []byte
	PiB           []byte
	PiC           []byte
	PublicSignals []*big.Int
}

// WithdrawalInputs is the prover's fixed input schema. Every value must
// already be a canonical scalar (or base-unit integer); the prover does
// not validate meaning, only circuit satisfiability.
type WithdrawalInputs struct {
	ExistingCommitment *big.Int
	ExistingValue      uint64
	ExistingNullifier  *big.Int
	ExistingSecret     *big.Int
	NewNullifier       *big.Int
	NewSecret          *big.Int
	WithdrawnValue     uint64
	Context            *big.Int
	Label              *big.Int
	StateTreeLeaves    []*big.Int
	ApprovedLabels     []*big.Int
}

// Prover generates a withdrawal proof from assembled inputs.
type Prover interface {
	GenerateWithdrawalProof(ctx context.Context, inputs *WithdrawalInputs) (*Proof, error)
}
