package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/atlas-pos/atlas-pos/internal/platform/store"
)

// Store is the authoritative stock ledger. In-memory state is the source of
// truth for fulfillment decisions; every committed change is also written
// back to the ledger file. The checkout service is the only writer.
type Store struct {
	mu      sync.RWMutex
	path    string
	entries []StockEntry
	index   map[string]int
}

// Open loads the ledger file. A missing or corrupt file is an error; the
// caller is expected to treat it as fatal.
func Open(path string) (*Store, error) {
	var entries []StockEntry
	if err := store.Load(path, &entries); err != nil {
		return nil, fmt.Errorf("ledger: load: %w", err)
	}

	index := make(map[string]int, len(entries))
	for i, e := range entries {
		if e.ID == "" {
			return nil, fmt.Errorf("ledger: entry at position %d has no id", i)
		}
		if _, dup := index[e.ID]; dup {
			return nil, fmt.Errorf("ledger: duplicate entry id %q", e.ID)
		}
		if e.Stock < 0 {
			return nil, fmt.Errorf("ledger: entry %q has negative stock", e.ID)
		}
		if e.CostPrice < 0 {
			return nil, fmt.Errorf("ledger: entry %q has negative cost price", e.ID)
		}
		index[e.ID] = i
	}

	return &Store{path: path, entries: entries, index: index}, nil
}

// Lookup returns the entry for id.
func (s *Store) Lookup(id string) (StockEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return StockEntry{}, false
	}
	return s.entries[i], true
}

// CostPrice returns the unit cost for id.
func (s *Store) CostPrice(id string) (float64, error) {
	entry, ok := s.Lookup(id)
	if !ok {
		return 0, ErrNotFound
	}
	return entry.CostPrice, nil
}

// List returns all entries in ledger-file order.
func (s *Store) List() []StockEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]StockEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Begin returns a working copy of the ledger. Reservations made on the
// sheet leave the store untouched until Commit, which gives checkout its
// all-or-nothing semantics: a rejected cart simply discards the sheet.
func (s *Store) Begin() *Sheet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := make([]StockEntry, len(s.entries))
	copy(entries, s.entries)
	index := make(map[string]int, len(s.index))
	for id, i := range s.index {
		index[id] = i
	}
	return &Sheet{entries: entries, index: index}
}

// Stage durably writes the sheet's state next to the ledger file without
// making it visible. The returned handle is renamed into place by the
// caller once every file in the transaction has been staged.
func (s *Store) Stage(ctx context.Context, sheet *Sheet) (*store.Staged, error) {
	return store.Stage(ctx, s.path, sheet.entries)
}

// Commit swaps the sheet in as the new in-memory state. The caller must
// have staged and renamed the on-disk state first.
func (s *Store) Commit(sheet *Sheet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = sheet.entries
	s.index = sheet.index
}

// Sheet is a private working copy of the ledger used by one transaction.
type Sheet struct {
	entries []StockEntry
	index   map[string]int
}

// Lookup returns the entry for id as the sheet currently sees it.
func (sh *Sheet) Lookup(id string) (StockEntry, bool) {
	i, ok := sh.index[id]
	if !ok {
		return StockEntry{}, false
	}
	return sh.entries[i], true
}

// Reserve atomically checks availability and decrements stock on the sheet.
// On shortfall it returns InsufficientStockError carrying the remaining
// quantity and leaves the sheet unchanged.
func (sh *Sheet) Reserve(id string, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("ledger: reserve quantity must be positive, got %d", quantity)
	}
	i, ok := sh.index[id]
	if !ok {
		return &InsufficientStockError{ID: id, Available: 0}
	}
	if sh.entries[i].Stock < quantity {
		return &InsufficientStockError{ID: id, Available: sh.entries[i].Stock}
	}
	sh.entries[i].Stock -= quantity
	return nil
}
