package pool

import (
	"context"
	"fmt"

	"github.com/veilpool/VeilPool-sdk/avm"
	"github.com/veilpool/VeilPool-sdk/indexer"
	"github.com/veilpool/VeilPool-sdk/tracker"
	"github.com/veilpool/VeilPool-sdk/zk"

	"github.com/algorand/go-algorand-sdk/v2/types"
	"github.com/rs/zerolog"
)

// TransactionPreparer builds the unsigned withdrawal operation from a
// proof and its execution data.
type TransactionPreparer interface {
	Prepare(ctx context.Context, call *avm.WithdrawalCall) (*avm.WithdrawalOperation, error)
}

// Pipeline runs withdrawal preparations. All collaborators are injected
// so they can be mocked; the pipeline itself holds no mutable state and
// is safe for concurrent use.
type Pipeline struct {
	Fetcher   indexer.Fetcher
	Tracker   tracker.NoteIndexTracker
	Prover    zk.Prover
	Preparer  TransactionPreparer
	Processor types.Address
	PoolAppID uint64
	Logger    zerolog.Logger
}

// ProcessWithdrawal runs the pipeline in strict order: validate, fetch
// anchor data, calculate the context, generate the proof, prepare the
// transaction. Any failure aborts the whole run; no partial artifact is
// returned. Nothing is submitted on-chain; that is ExecuteWithdrawal's
// job, invoked explicitly by the caller after reviewing the artifact.
func (p *Pipeline) ProcessWithdrawal(ctx context.Context,
	request *WithdrawalRequest) (*PreparedWithdrawal, error) {

	logger := p.Logger.With().Uint64("pool", p.PoolAppID).Logger()

	if err := Validate(request); err != nil {
		logger.Warn().Err(err).Msg("withdrawal request rejected")
		return nil, err
	}
	amounts, err := CalculateAmounts(request.WithdrawAmount)
	if err != nil {
		return nil, err
	}
	logger.Info().
		Str("withdraw", amounts.WithdrawAmount).
		Str("fee", amounts.ExecutionFee).
		Str("receive", amounts.YouReceive).
		Msg("withdrawal request validated")

	snapshot, err := indexer.Fetch(ctx, p.Fetcher)
	if err != nil {
		logger.Error().Err(err).Msg("failed to fetch withdrawal data")
		return nil, err
	}
	logger.Info().
		Int("leaves", len(snapshot.StateTreeLeaves)).
		Int("labels", len(snapshot.ApprovedLabels)).
		Msg("withdrawal data fetched")

	wctx, err := CalculateContext(request, snapshot, p.Tracker, p.Processor,
		p.PoolAppID)
	if err != nil {
		logger.Error().Err(err).Msg("failed to calculate context")
		return nil, err
	}
	logger.Info().
		Uint64("noteIndex", wctx.NextNoteIndex).
		Msg("context calculated")

	proof, err := p.generateProof(ctx, request, wctx)
	if err != nil {
		logger.Error().Err(err).Msg("failed to generate proof")
		return nil, err
	}
	logger.Info().Msg("proof generated")

	operation, err := p.Preparer.Prepare(ctx, &avm.WithdrawalCall{
		Proof:       proof,
		Processor:   wctx.Processor,
		EncodedData: wctx.EncodedData,
	})
	if err != nil {
		logger.Error().Err(err).Msg("failed to prepare transaction")
		return nil, fmt.Errorf("failed to prepare withdrawal transaction: %v", err)
	}
	logger.Info().Int("txnCount", operation.TxnCount).Msg("withdrawal prepared")

	return &PreparedWithdrawal{
		Context:   wctx,
		Proof:     proof,
		Amounts:   amounts,
		Operation: operation,
	}, nil
}

// generateProof maps the request and context onto the prover's input
// schema and invokes the prover exactly once.
func (p *Pipeline) generateProof(ctx context.Context, request *WithdrawalRequest,
	wctx *WithdrawalContext) (*zk.Proof, error) {

	existingValue, err := ParseAmount(request.Note.Amount)
	if err != nil {
		return nil, err
	}
	withdrawnValue, err := ParseAmount(request.WithdrawAmount)
	if err != nil {
		return nil, err
	}

	return p.Prover.GenerateWithdrawalProof(ctx, &zk.WithdrawalInputs{
		ExistingCommitment: request.Note.Commitment,
		ExistingValue:      existingValue,
		ExistingNullifier:  wctx.ExistingNullifier,
		ExistingSecret:     wctx.ExistingSecret,
		NewNullifier:       wctx.NewNullifier,
		NewSecret:          wctx.NewSecret,
		WithdrawnValue:     withdrawnValue,
		Context:            wctx.Context,
		Label:              request.Note.Label,
		StateTreeLeaves:    wctx.StateTreeLeaves,
		ApprovedLabels:     wctx.ApprovedLabels,
	})
}

// ExecuteWithdrawal submits a prepared withdrawal and returns the ids
// of the transactions in the group. It is never called implicitly.
func (p *Pipeline) ExecuteWithdrawal(ctx context.Context,
	prepared *PreparedWithdrawal) ([]string, error) {

	txIDs, err := prepared.Operation.Execute(ctx)
	if err != nil {
		p.Logger.Error().Err(err).Msg("failed to execute withdrawal")
		return nil, err
	}
	p.Logger.Info().Strs("txIDs", txIDs).Msg("withdrawal executed")
	return txIDs, nil
}
