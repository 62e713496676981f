package pool

import (
	"errors"
	"math/big"
	"testing"

	"github.com/veilpool/VeilPool-sdk/field"
	"github.com/veilpool/VeilPool-sdk/indexer"
	"github.com/veilpool/VeilPool-sdk/tracker"

	"github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/algorand/go-algorand-sdk/v2/types"
)

func testSnapshot() *indexer.Snapshot {
	return &indexer.Snapshot{
		StateTreeLeaves: []*big.Int{big.NewInt(111), big.NewInt(222)},
		ApprovedLabels:  []*big.Int{big.NewInt(42)},
		ASPRoot:         big.NewInt(777),
		PoolScope:       big.NewInt(987654321),
	}
}

func TestCalculateContextDeterministic(t *testing.T) {
	request := validRequest()
	snapshot := testSnapshot()
	processor := crypto.GenerateAccount().Address

	// fixed tracker state: both runs see the same next index
	tr1 := tracker.NewInMemory()
	tr2 := tracker.NewInMemory()

	first, err := CalculateContext(request, snapshot, tr1, processor, 1)
	if err != nil {
		t.Fatal(err)
	}
	second, err := CalculateContext(request, snapshot, tr2, processor, 1)
	if err != nil {
		t.Fatal(err)
	}

	if first.Context.Cmp(second.Context) != 0 {
		t.Fatal("same inputs gave different context scalars")
	}
	if first.NewNullifier.Cmp(second.NewNullifier) != 0 ||
		first.NewSecret.Cmp(second.NewSecret) != 0 {
		t.Fatal("same inputs gave different new nullifier/secret")
	}
	if !field.InField(first.Context) {
		t.Fatal("context is not a canonical field element")
	}
}

func TestCalculateContextBindsRecipient(t *testing.T) {
	snapshot := testSnapshot()
	processor := crypto.GenerateAccount().Address

	request := validRequest()
	first, err := CalculateContext(request, snapshot, tracker.NewInMemory(), processor, 1)
	if err != nil {
		t.Fatal(err)
	}

	request.RecipientAddress = crypto.GenerateAccount().Address.String()
	second, err := CalculateContext(request, snapshot, tracker.NewInMemory(), processor, 1)
	if err != nil {
		t.Fatal(err)
	}

	if first.Context.Cmp(second.Context) == 0 {
		t.Fatal("different recipients produced the same context")
	}
}

func TestCalculateContextBindsScope(t *testing.T) {
	request := validRequest()
	processor := crypto.GenerateAccount().Address

	first, err := CalculateContext(request, testSnapshot(), tracker.NewInMemory(), processor, 1)
	if err != nil {
		t.Fatal(err)
	}

	other := testSnapshot()
	other.PoolScope = big.NewInt(1)
	second, err := CalculateContext(request, other, tracker.NewInMemory(), processor, 1)
	if err != nil {
		t.Fatal(err)
	}

	if first.Context.Cmp(second.Context) == 0 {
		t.Fatal("different pool scopes produced the same context")
	}
}

func TestCalculateContextNewPairDiffersFromExisting(t *testing.T) {
	request := validRequest()
	request.Note.NoteIndex = 5
	wctx, err := CalculateContext(request, testSnapshot(), tracker.NewInMemory(),
		crypto.GenerateAccount().Address, 1)
	if err != nil {
		t.Fatal(err)
	}
	if wctx.NewNullifier.Cmp(wctx.ExistingNullifier) == 0 {
		t.Fatal("new and existing nullifier collide across different indices")
	}
}

func TestCalculateContextTrackerFailure(t *testing.T) {
	request := validRequest()
	_, err := CalculateContext(request, testSnapshot(),
		tracker.Unavailable{Reason: "down"}, types.Address{}, 1)
	if !errors.Is(err, ErrIndexTracker) {
		t.Fatalf("got %v, want ErrIndexTracker", err)
	}
}
