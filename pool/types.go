// Package pool implements the withdrawal pipeline: it turns a spendable
// note, a recipient address and an account credential into a
// zero-knowledge proof plus an unsigned on-chain operation that spends
// the note's commitment and creates a new change commitment, without
// revealing which deposit is spent.
package pool

import (
	"math/big"

	"github.com/veilpool/VeilPool-sdk/avm"
	"github.com/veilpool/VeilPool-sdk/keys"
	"github.com/veilpool/VeilPool-sdk/zk"

	"github.com/algorand/go-algorand-sdk/v2/types"
)

// Note is a previously created, unspent commitment in the pool, as
// discovered by the caller's wallet. The pipeline only reads it; the
// note is marked logically spent by deriving its nullifier.
type Note struct {
	Commitment *big.Int
	Amount     string // decimal Algo string
	Label      *big.Int
	NoteIndex  uint64
}

// WithdrawalRequest is one withdrawal attempt. It is consumed once and
// carries no mutable state.
type WithdrawalRequest struct {
	Note             *Note
	WithdrawAmount   string // decimal Algo string
	RecipientAddress string
	Credential       keys.Credential
}

// WithdrawalContext aggregates the fetched anchor data, the canonical
// withdrawal-data tuple, the derived context scalar, and the
// nullifier/secret pairs for the spent and the new note.
//
// The context scalar binds this withdrawal to its recipient, fee and
// pool scope; it is recomputed fresh for every request and never reused.
// NextNoteIndex comes from the index tracker exactly once per request,
// immediately before deriving the new pair.
type WithdrawalContext struct {
	StateTreeLeaves []*big.Int
	ApprovedLabels  []*big.Int
	ASPRoot         *big.Int
	PoolScope       *big.Int

	Processor   types.Address
	EncodedData []byte
	Context     *big.Int

	ExistingNullifier *big.Int
	ExistingSecret    *big.Int
	NewNullifier      *big.Int
	NewSecret         *big.Int
	NextNoteIndex     uint64
}

// PreparedWithdrawal is the terminal artifact: context, proof, amount
// breakdown and the unsigned operation. Nothing is on-chain until the
// caller explicitly executes it.
type PreparedWithdrawal struct {
	Context   *WithdrawalContext
	Proof     *zk.Proof
	Amounts   *Amounts
	Operation *avm.WithdrawalOperation
}
