package tracker

import (
	"path/filepath"
	"sync"
	"testing"
)

func TestInMemorySequential(t *testing.T) {
	tr := NewInMemory()
	for want := uint64(0); want < 5; want++ {
		got, err := tr.NextNoteIndex("account", 1)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Fatalf("got index %d, want %d", got, want)
		}
	}

	// a different pool has its own counter
	got, err := tr.NextNoteIndex("account", 2)
	if err != nil {
		t.Fatal(err)
	}
	if got != 0 {
		t.Fatalf("new pool started at %d, want 0", got)
	}
}

func TestInMemoryConcurrentUniqueness(t *testing.T) {
	tr := NewInMemory()
	const n = 100

	indices := make(chan uint64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			index, err := tr.NextNoteIndex("account", 1)
			if err != nil {
				t.Error(err)
				return
			}
			indices <- index
		}()
	}
	wg.Wait()
	close(indices)

	seen := make(map[uint64]bool)
	for index := range indices {
		if seen[index] {
			t.Fatalf("index %d was issued twice", index)
		}
		seen[index] = true
	}
	if len(seen) != n {
		t.Fatalf("issued %d unique indices, want %d", len(seen), n)
	}
}

func TestInMemorySeed(t *testing.T) {
	tr := NewInMemory()
	tr.Seed("account", 1, 42)
	got, err := tr.NextNoteIndex("account", 1)
	if err != nil {
		t.Fatal(err)
	}
	if got != 42 {
		t.Fatalf("got index %d after seeding, want 42", got)
	}
}

func TestFileTrackerPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "indexes.json")

	tr, err := NewFileTracker(path)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if _, err := tr.NextNoteIndex("account", 1); err != nil {
			t.Fatal(err)
		}
	}

	// a new tracker on the same file continues where the old one left off
	reopened, err := NewFileTracker(path)
	if err != nil {
		t.Fatal(err)
	}
	got, err := reopened.NextNoteIndex("account", 1)
	if err != nil {
		t.Fatal(err)
	}
	if got != 3 {
		t.Fatalf("reopened tracker issued %d, want 3", got)
	}
}

func TestUnavailable(t *testing.T) {
	if _, err := (Unavailable{Reason: "down"}).NextNoteIndex("a", 1); err == nil {
		t.Fatal("unavailable tracker must fail")
	}
}
