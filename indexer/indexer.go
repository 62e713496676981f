// Package indexer gathers the on-chain state a withdrawal proof must
// anchor to: the state-tree leaves, the ASP approved-label set, and the
// pool scope.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"golang.org/x/sync/errgroup"
)

// ErrDataFetch wraps any failure of the three anchor-data fetches.
var ErrDataFetch = errors.New("failed to fetch withdrawal data")

// ASPData is the approved-label set published by the association-set
// provider together with the root it commits to.
type ASPData struct {
	ApprovedLabels []*big.Int
	Root           *big.Int
}

// Snapshot holds the jointly fetched anchor data. All three values come
// from the same fetch round; a proof built on a partial snapshot would
// be rejected on-chain, so partial snapshots are never constructed.
type Snapshot struct {
	StateTreeLeaves []*big.Int
	ApprovedLabels  []*big.Int
	ASPRoot         *big.Int
	PoolScope       *big.Int
}

// Fetcher retrieves the three anchor datasets from an indexer or the
// pool contract directly.
type Fetcher interface {
	StateTreeLeaves(ctx context.Context) ([]*big.Int, error)
	ASPData(ctx context.Context) (*ASPData, error)
	PoolScope(ctx context.Context) (*big.Int, error)
}

// Fetch runs the three retrievals concurrently and joins them. If any
// one fails the whole fetch fails; no partial snapshot is returned.
func Fetch(ctx context.Context, f Fetcher) (*Snapshot, error) {
	var (
		leaves []*big.Int
		asp    *ASPData
		scope  *big.Int
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		leaves, err = f.StateTreeLeaves(ctx)
		if err != nil {
			return fmt.Errorf("state tree leaves: %v", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		asp, err = f.ASPData(ctx)
		if err != nil {
			return fmt.Errorf("asp data: %v", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		scope, err = f.PoolScope(ctx)
		if err != nil {
			return fmt.Errorf("pool scope: %v", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataFetch, err)
	}
	return &Snapshot{
		StateTreeLeaves: leaves,
		ApprovedLabels:  asp.ApprovedLabels,
		ASPRoot:         asp.Root,
		PoolScope:       scope,
	}, nil
}
