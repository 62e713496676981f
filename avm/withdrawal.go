package avm

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/veilpool/VeilPool-sdk/config"
	"github.com/veilpool/VeilPool-sdk/deployed"
	"github.com/veilpool/VeilPool-sdk/field"
	"github.com/veilpool/VeilPool-sdk/zk"

	"github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/algorand/go-algorand-sdk/v2/transaction"
	"github.com/algorand/go-algorand-sdk/v2/types"
)

// App is the deployed pool application together with the accounts
// needed to build a withdrawal group.
type App struct {
	Id       uint64
	Schema   *Arc32Schema
	Verifier *Lsig
	Relay    *crypto.Account
}

type Lsig struct {
	Account crypto.LogicSigAccount
	Address types.Address
}

// LoadApp reads the deployed app files for the network and pairs them
// with the relay account. Initialize must have been called first.
func LoadApp(network deployed.Network) (*App, error) {
	info, err := deployed.ReadAppInfo(network)
	if err != nil {
		return nil, fmt.Errorf("failed to read app info: %v", err)
	}
	app := &App{Id: info.Id, Relay: GetRelayAccount()}

	schemaPath := filepath.Join(network.DirPath(), deployed.AppSchemaFilename)
	app.Schema, err = ReadArc32Schema(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read app schema: %v", err)
	}

	bytecodePath := filepath.Join(network.DirPath(), deployed.VerifierBytecodeFilename)
	bytecode, err := os.ReadFile(bytecodePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read verifier bytecode: %v", err)
	}
	app.Verifier, err = readLogicSig(bytecode)
	if err != nil {
		return nil, err
	}

	return app, nil
}

// readLogicSig takes teal bytecode and returns a Lsig
func readLogicSig(bytecode []byte) (*Lsig, error) {
	lsigAccount, err := crypto.MakeLogicSigAccountEscrowChecked(bytecode, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create logic sig account: %v", err)
	}
	address, err := lsigAccount.Address()
	if err != nil {
		return nil, fmt.Errorf("failed to get lsig address: %v", err)
	}
	return &Lsig{
		Account: lsigAccount,
		Address: address,
	}, nil
}

// WithdrawalCall holds everything the withdraw method call needs: the
// proof, its public signals, and the execution data the contract hashes
// to recompute the context binding.
type WithdrawalCall struct {
	Proof       *zk.Proof
	Processor   types.Address
	EncodedData []byte
}

// WithdrawalOperation is a fully built, unsigned-by-the-user withdrawal
// group. Nothing reaches the network until Execute is called.
type WithdrawalOperation struct {
	AppId     uint64
	TxnCount  int
	GroupSize int
	atc       transaction.AtomicTransactionComposer
}

// Prepare builds the withdrawal transaction group: the withdraw method
// call signed by the verifier logicsig, a relay-signed call covering the
// group fees, and noop calls to meet the verifier opcode budget.
// It does not send anything.
func (app *App) Prepare(ctx context.Context, call *WithdrawalCall) (*WithdrawalOperation, error) {
	if call.Proof == nil || len(call.Proof.PublicSignals) != 6 {
		return nil, fmt.Errorf("malformed proof: expected 6 public signals")
	}

	signals := make([][]byte, len(call.Proof.PublicSignals))
	for i, s := range call.Proof.PublicSignals {
		signals[i] = field.Bytes32(s)
	}
	// public signal order: withdrawn value, state root, asp root,
	// context, new commitment, nullifier hash
	nullifierHash := signals[5]

	args := []any{
		call.Proof.PiA, call.Proof.PiB, call.Proof.PiC,
		signals,
		call.Processor[:],
		call.EncodedData,
	}

	sp, err := algodClient.SuggestedParams().Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get suggested params: %v", err)
	}
	sp.Fee = 0
	sp.FlatFee = true

	method, err := app.Schema.Contract.GetMethodByName(config.WithdrawalMethodName)
	if err != nil {
		return nil, fmt.Errorf("failed to get method %s: %v",
			config.WithdrawalMethodName, err)
	}

	// the app call signed by the withdrawal verifier
	txnParams := transaction.AddMethodCallParams{
		AppID:           app.Id,
		Sender:          app.Verifier.Address,
		SuggestedParams: sp,
		OnComplete:      types.NoOpOC,
		Signer: transaction.LogicSigAccountTransactionSigner{
			LogicSigAccount: app.Verifier.Account},
		Method:     method,
		MethodArgs: args,
		BoxReferences: []types.AppBoxReference{
			{AppID: app.Id, Name: nullifierHash},
			{AppID: app.Id, Name: []byte(config.SubtreeBoxName)},
			{AppID: app.Id, Name: []byte(config.RootsBoxName)},
		},
	}

	op := &WithdrawalOperation{AppId: app.Id}
	if err := op.atc.AddMethodCall(txnParams); err != nil {
		return nil, fmt.Errorf("failed to add %s method call: %v",
			config.WithdrawalMethodName, err)
	}

	noopMethod, err := app.Schema.Contract.GetMethodByName(config.NoOpMethodName)
	if err != nil {
		return nil, fmt.Errorf("failed to get method %s: %v",
			config.NoOpMethodName, err)
	}

	relaySigner := transaction.BasicAccountTransactionSigner{Account: *app.Relay}

	groupFee := config.WithdrawalMinFeeMultiplier*transaction.MinTxnFee +
		config.NullifierMbr
	sp.Fee = types.MicroAlgos(groupFee - config.NullifierMbr)

	// the relay-signed transaction paying the group fees
	txnParams = transaction.AddMethodCallParams{
		AppID:           app.Id,
		Sender:          app.Relay.Address,
		SuggestedParams: sp,
		OnComplete:      types.NoOpOC,
		Signer:          relaySigner,
		Method:          noopMethod,
		MethodArgs:      []any{0},
	}

	if err := op.atc.AddMethodCall(txnParams); err != nil {
		return nil, fmt.Errorf("failed to add %s method call: %v",
			config.NoOpMethodName, err)
	}

	// additional transactions to meet the verifier opcode budget
	txnNeeded := config.VerifierTopLevelTxnNeeded - 2
	sp.Fee = 0

	txnParams = transaction.AddMethodCallParams{
		AppID:           app.Id,
		Sender:          app.Relay.Address,
		SuggestedParams: sp,
		OnComplete:      types.NoOpOC,
		Signer:          relaySigner,
		Method:          noopMethod,
	}

	for i := range txnNeeded {
		txnParams.MethodArgs = []any{i + 1}
		if err := op.atc.AddMethodCall(txnParams); err != nil {
			return nil, fmt.Errorf("failed to add %s method call: %v",
				config.NoOpMethodName, err)
		}
	}

	op.TxnCount = op.atc.Count()
	op.GroupSize = config.VerifierTopLevelTxnNeeded
	return op, nil
}

// Execute signs and sends the prepared group, waiting for confirmation.
func (op *WithdrawalOperation) Execute(ctx context.Context) ([]string, error) {
	res, err := op.atc.Execute(algodClient, ctx, 4)
	if err != nil {
		return nil, fmt.Errorf("failed to execute withdrawal group: %v", err)
	}
	return res.TxIDs, nil
}
