package circuits

import (
	"github.com/veilpool/VeilPool-sdk/config"

	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/accumulator/merkle"
	"github.com/consensys/gnark/std/hash/mimc"
)

const (
	StateTreeLevels = config.StateTreeLevels
	ASPTreeLevels   = config.ASPTreeLevels
)

// WithdrawalCircuit proves that a withdrawal spends a commitment that
// is in the state tree, carries a label approved by the ASP, conserves
// value into the change commitment, and is bound to the context scalar
// derived from the withdrawal's public parameters.
type WithdrawalCircuit struct {
	WithdrawnValue        frontend.Variable `gnark:",public"`
	StateRoot             frontend.Variable `gnark:",public"`
	ASPRoot               frontend.Variable `gnark:",public"`
	Context               frontend.Variable `gnark:",public"`
	NewCommitment         frontend.Variable `gnark:",public"`
	ExistingNullifierHash frontend.Variable `gnark:",public"`

	Label             frontend.Variable
	ExistingValue     frontend.Variable
	ExistingNullifier frontend.Variable
	ExistingSecret    frontend.Variable
	NewNullifier      frontend.Variable
	NewSecret         frontend.Variable

	StateIndex frontend.Variable
	StatePath  [StateTreeLevels + 1]frontend.Variable
	ASPIndex   frontend.Variable
	ASPPath    [ASPTreeLevels + 1]frontend.Variable
}

func (c *WithdrawalCircuit) Define(api frontend.API) error {
	mimc, _ := mimc.NewMiMC(api)

	// hash(ExistingNullifier) == ExistingNullifierHash
	mimc.Write(c.ExistingNullifier)
	api.AssertIsEqual(c.ExistingNullifierHash, mimc.Sum())

	mimc.Reset()

	// StatePath[0] == commitment(ExistingValue, Label, ExistingNullifier, ExistingSecret)
	existingCommitment := noteCommitment(&mimc,
		c.ExistingValue, c.Label, c.ExistingNullifier, c.ExistingSecret)
	api.AssertIsEqual(c.StatePath[0], existingCommitment)

	// the existing commitment is in the state tree at StateIndex
	sp := merkle.MerkleProof{
		RootHash: c.StateRoot,
		Path:     c.StatePath[:],
	}
	sp.VerifyProof(api, &mimc, c.StateIndex)

	// the note label is in the ASP approved set at ASPIndex
	api.AssertIsEqual(c.ASPPath[0], c.Label)
	ap := merkle.MerkleProof{
		RootHash: c.ASPRoot,
		Path:     c.ASPPath[:],
	}
	ap.VerifyProof(api, &mimc, c.ASPIndex)

	// Change == ExistingValue - WithdrawnValue, both non-negative.
	// We express it by:
	//		W <= E
	//		C = E - W
	api.AssertIsLessOrEqual(c.WithdrawnValue, c.ExistingValue)
	change := api.Sub(c.ExistingValue, c.WithdrawnValue)

	// NewCommitment == commitment(Change, Label, NewNullifier, NewSecret)
	newCommitment := noteCommitment(&mimc, change, c.Label, c.NewNullifier, c.NewSecret)
	api.AssertIsEqual(c.NewCommitment, newCommitment)

	// bind the context into the constraint system so a proof cannot be
	// replayed for a different recipient/fee/scope
	api.Mul(c.Context, c.Context)

	return nil
}
