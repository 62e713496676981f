package indexer

import (
	"context"
	"encoding/base64"
	"fmt"
	"math/big"

	"github.com/veilpool/VeilPool-sdk/config"
	"github.com/veilpool/VeilPool-sdk/merkle"

	"github.com/algorand/go-algorand-sdk/v2/client/v2/algod"
)

// AlgodFetcher reads the anchor data straight from the pool
// application's boxes and global state.
type AlgodFetcher struct {
	Client *algod.Client
	AppID  uint64
}

func NewAlgodFetcher(client *algod.Client, appID uint64) *AlgodFetcher {
	return &AlgodFetcher{Client: client, AppID: appID}
}

// StateTreeLeaves reads the "leaves" box: the ordered concatenation of
// 32-byte commitment values, one per inserted leaf.
func (f *AlgodFetcher) StateTreeLeaves(ctx context.Context) ([]*big.Int, error) {
	return f.readScalarBox(ctx, config.LeavesBoxName)
}

// ASPData reads the "labels" box holding the approved-label set and
// computes the root it commits to.
func (f *AlgodFetcher) ASPData(ctx context.Context) (*ASPData, error) {
	labels, err := f.readScalarBox(ctx, config.LabelsBoxName)
	if err != nil {
		return nil, err
	}
	return &ASPData{ApprovedLabels: labels, Root: aspRoot(labels)}, nil
}

// PoolScope reads the scope scalar from the app's global state.
func (f *AlgodFetcher) PoolScope(ctx context.Context) (*big.Int, error) {
	appInfo, err := f.Client.GetApplicationByID(f.AppID).Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get app info: %v", err)
	}
	for _, kv := range appInfo.Params.GlobalState {
		k, _ := base64.StdEncoding.DecodeString(kv.Key)
		if string(k) == config.ScopeStateKey {
			scopeBytes, err := base64.StdEncoding.DecodeString(kv.Value.Bytes)
			if err != nil {
				return nil, fmt.Errorf("failed to decode scope from b64: %v", err)
			}
			return new(big.Int).SetBytes(scopeBytes), nil
		}
	}
	return nil, fmt.Errorf("%s not found in global state", config.ScopeStateKey)
}

// readScalarBox reads a box holding concatenated 32-byte scalars.
func (f *AlgodFetcher) readScalarBox(ctx context.Context, name string) ([]*big.Int, error) {
	box, err := f.Client.GetApplicationBoxByName(f.AppID, []byte(name)).Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read box %s: %v", name, err)
	}
	if len(box.Value)%32 != 0 {
		return nil, fmt.Errorf("box %s has %d bytes, not a multiple of 32",
			name, len(box.Value))
	}
	scalars := make([]*big.Int, 0, len(box.Value)/32)
	for i := 0; i < len(box.Value); i += 32 {
		scalars = append(scalars, new(big.Int).SetBytes(box.Value[i:i+32]))
	}
	return scalars, nil
}

// aspRoot computes the root of the ASP label tree, the same tree the
// withdrawal circuit verifies membership against.
func aspRoot(labels []*big.Int) *big.Int {
	return new(big.Int).SetBytes(merkle.BuildTree(config.ASPTree, labels).Root())
}
