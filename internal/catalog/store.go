package catalog

import (
	"fmt"
	"sort"
	"sync"
)

// Store holds every media record known to the process. The catalog is
// append-only: there is no update or delete.
type Store interface {
	Insert(record *MediaRecord) error
	ListNewestFirst() ([]MediaRecord, error)
}

// MemoryStore is the default backend. Uploads do not survive a restart;
// the catalog is rebuilt from the preloaded directory on startup.
type MemoryStore struct {
	mu      sync.Mutex
	records []MediaRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Insert(record *MediaRecord) error {
	if record.ID == "" {
		return fmt.Errorf("record has no id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, *record)
	return nil
}

// ListNewestFirst returns a snapshot sorted by descending timestamp. The
// sort is stable, so records sharing a timestamp keep insertion order.
func (s *MemoryStore) ListNewestFirst() ([]MediaRecord, error) {
	s.mu.Lock()
	out := make([]MediaRecord, len(s.records))
	copy(out, s.records)
	s.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp > out[j].Timestamp
	})
	return out, nil
}
