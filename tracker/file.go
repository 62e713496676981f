package tracker

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// FileTracker persists reserved indices to a JSON file so indices
// survive process restarts. Reservation writes through before
// returning: a crash after NextNoteIndex never reissues an index.
// Single-process only; cross-process callers need a shared service.
type FileTracker struct {
	mu   sync.Mutex
	path string
	next map[string]uint64 // "<account>/<pool>" -> next index
}

func NewFileTracker(path string) (*FileTracker, error) {
	t := &FileTracker{path: path, next: make(map[string]uint64)}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return t, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read tracker file %s: %v", path, err)
	}
	if err := json.Unmarshal(data, &t.next); err != nil {
		return nil, fmt.Errorf("failed to decode tracker file %s: %v", path, err)
	}
	return t, nil
}

// NextNoteIndex reserves and returns the next index for (account, pool),
// persisting the advanced counter before returning it.
func (t *FileTracker) NextNoteIndex(account string, pool uint64) (uint64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	k := fmt.Sprintf("%s/%d", account, pool)
	index := t.next[k]
	t.next[k] = index + 1
	if err := t.flush(); err != nil {
		t.next[k] = index
		return 0, err
	}
	return index, nil
}

func (t *FileTracker) flush() error {
	data, err := json.MarshalIndent(t.next, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode tracker state: %v", err)
	}
	tmp := t.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write tracker file: %v", err)
	}
	if err := os.Rename(tmp, t.path); err != nil {
		return fmt.Errorf("failed to replace tracker file: %v", err)
	}
	return nil
}
