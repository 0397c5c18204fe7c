package journal

import (
	"context"
	"fmt"
	"sync"

	"github.com/atlas-pos/atlas-pos/internal/platform/store"
)

// Store is the append-only sales journal. The checkout service is the sole
// writer; reporting holds a read-only view through Snapshot.
type Store struct {
	mu      sync.RWMutex
	path    string
	records []SaleRecord
}

// Open loads the journal file. A missing or corrupt file is an error; the
// caller is expected to treat it as fatal.
func Open(path string) (*Store, error) {
	var records []SaleRecord
	if err := store.Load(path, &records); err != nil {
		return nil, fmt.Errorf("journal: load: %w", err)
	}
	return &Store{path: path, records: records}, nil
}

// Len reports the number of recorded sales.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Snapshot returns a copy of all records in append order.
func (s *Store) Snapshot() []SaleRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]SaleRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Page returns one page of records in append order plus the total count.
func (s *Store) Page(offset, limit int) ([]SaleRecord, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := len(s.records)
	if offset < 0 || offset >= total || limit <= 0 {
		return nil, total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	out := make([]SaleRecord, end-offset)
	copy(out, s.records[offset:end])
	return out, total
}

// StageAppend durably writes the journal plus one new record without making
// it visible, mirroring ledger staging so both files commit together.
func (s *Store) StageAppend(ctx context.Context, rec SaleRecord) (*store.Staged, error) {
	s.mu.RLock()
	next := make([]SaleRecord, len(s.records), len(s.records)+1)
	copy(next, s.records)
	s.mu.RUnlock()
	next = append(next, rec)
	return store.Stage(ctx, s.path, next)
}

// CommitAppend makes the staged record visible in memory. The caller must
// have renamed the staged file into place first.
func (s *Store) CommitAppend(rec SaleRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
}
