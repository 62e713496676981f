package indexer

import (
	"context"
	"errors"
	"math/big"
	"testing"
)

type stubFetcher struct {
	failLeaves bool
	failASP    bool
	failScope  bool
}

func (f *stubFetcher) StateTreeLeaves(ctx context.Context) ([]*big.Int, error) {
	if f.failLeaves {
		return nil, errors.New("leaves unavailable")
	}
	return []*big.Int{big.NewInt(1), big.NewInt(2)}, nil
}

func (f *stubFetcher) ASPData(ctx context.Context) (*ASPData, error) {
	if f.failASP {
		return nil, errors.New("asp unavailable")
	}
	return &ASPData{
		ApprovedLabels: []*big.Int{big.NewInt(42)},
		Root:           big.NewInt(7),
	}, nil
}

func (f *stubFetcher) PoolScope(ctx context.Context) (*big.Int, error) {
	if f.failScope {
		return nil, errors.New("scope unavailable")
	}
	return big.NewInt(99), nil
}

func TestFetch(t *testing.T) {
	snapshot, err := Fetch(context.Background(), &stubFetcher{})
	if err != nil {
		t.Fatal(err)
	}
	if len(snapshot.StateTreeLeaves) != 2 {
		t.Fatalf("got %d leaves, want 2", len(snapshot.StateTreeLeaves))
	}
	if len(snapshot.ApprovedLabels) != 1 {
		t.Fatalf("got %d labels, want 1", len(snapshot.ApprovedLabels))
	}
	if snapshot.ASPRoot.Cmp(big.NewInt(7)) != 0 {
		t.Fatal("asp root not carried into the snapshot")
	}
	if snapshot.PoolScope.Cmp(big.NewInt(99)) != 0 {
		t.Fatal("pool scope not carried into the snapshot")
	}
}

// a single failed fetch fails the whole join; no partial snapshot
func TestFetchPartialFailure(t *testing.T) {
	for _, f := range []*stubFetcher{
		{failLeaves: true}, {failASP: true}, {failScope: true},
	} {
		snapshot, err := Fetch(context.Background(), f)
		if !errors.Is(err, ErrDataFetch) {
			t.Fatalf("got %v, want ErrDataFetch", err)
		}
		if snapshot != nil {
			t.Fatal("a partial snapshot was returned on failure")
		}
	}
}
