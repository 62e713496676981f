package pool

import (
	"crypto/sha512"
	"fmt"
	"math/big"

	"github.com/veilpool/VeilPool-sdk/config"
	"github.com/veilpool/VeilPool-sdk/field"
	"github.com/veilpool/VeilPool-sdk/indexer"
	"github.com/veilpool/VeilPool-sdk/keys"
	"github.com/veilpool/VeilPool-sdk/tracker"

	"github.com/algorand/go-algorand-sdk/v2/abi"
	"github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/algorand/go-algorand-sdk/v2/types"
)

// abi encodings forming the context preimage; the layout is part of the
// protocol and must byte-match the on-chain decoder
const (
	withdrawalDataABIType = "(address,uint64)"
	contextABIType        = "((address,byte[]),uint256)"
)

// CalculateContext builds the canonical withdrawal-data tuple, reduces
// its encoding plus the pool scope into the context scalar, resolves the
// account key, reserves the next note index, and derives the
// nullifier/secret pairs for the new and the existing note.
func CalculateContext(request *WithdrawalRequest, snapshot *indexer.Snapshot,
	indexes tracker.NoteIndexTracker, processor types.Address,
	poolAppID uint64) (*WithdrawalContext, error) {

	recipient, err := types.DecodeAddress(request.RecipientAddress)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRecipient, request.RecipientAddress)
	}

	encodedData, err := encodeWithdrawalData(recipient)
	if err != nil {
		return nil, err
	}
	contextScalar, err := contextFromData(processor, encodedData, snapshot.PoolScope)
	if err != nil {
		return nil, err
	}

	key, err := keys.Resolve(request.Credential)
	if err != nil {
		return nil, err
	}
	account, err := crypto.AccountFromPrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("failed to derive account address: %v", err)
	}

	// the tracker is the single source of truth for the next index; ask
	// it exactly once, right before deriving the new pair
	nextIndex, err := indexes.NextNoteIndex(account.Address.String(), poolAppID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIndexTracker, err)
	}

	scope := snapshot.PoolScope
	return &WithdrawalContext{
		StateTreeLeaves:   snapshot.StateTreeLeaves,
		ApprovedLabels:    snapshot.ApprovedLabels,
		ASPRoot:           snapshot.ASPRoot,
		PoolScope:         scope,
		Processor:         processor,
		EncodedData:       encodedData,
		Context:           contextScalar,
		ExistingNullifier: keys.DeriveNullifier(key, scope, request.Note.NoteIndex),
		ExistingSecret:    keys.DeriveSecret(key, scope, request.Note.NoteIndex),
		NewNullifier:      keys.DeriveNullifier(key, scope, nextIndex),
		NewSecret:         keys.DeriveSecret(key, scope, nextIndex),
		NextNoteIndex:     nextIndex,
	}, nil
}

// encodeWithdrawalData abi-encodes (recipient, relayFeeBasisPoints),
// the opaque data blob the relay processor decodes on-chain.
func encodeWithdrawalData(recipient types.Address) ([]byte, error) {
	dataType, err := abi.TypeOf(withdrawalDataABIType)
	if err != nil {
		return nil, fmt.Errorf("failed to parse abi type %s: %v",
			withdrawalDataABIType, err)
	}
	encoded, err := dataType.Encode([]interface{}{
		recipient[:], uint64(config.RelayFeeBasisPoints),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode withdrawal data: %v", err)
	}
	return encoded, nil
}

// contextFromData abi-encodes the withdrawal-data tuple together with
// the pool scope, hashes the encoding, and reduces the digest into the
// scalar field.
func contextFromData(processor types.Address, encodedData []byte,
	scope *big.Int) (*big.Int, error) {

	contextType, err := abi.TypeOf(contextABIType)
	if err != nil {
		return nil, fmt.Errorf("failed to parse abi type %s: %v",
			contextABIType, err)
	}
	preimage, err := contextType.Encode([]interface{}{
		[]interface{}{processor[:], encodedData},
		scope,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode context preimage: %v", err)
	}
	digest := sha512.Sum512_256(preimage)
	return field.ReduceToField(digest[:]), nil
}
