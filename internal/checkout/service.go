package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/atlas-pos/atlas-pos/internal/catalog"
	"github.com/atlas-pos/atlas-pos/internal/journal"
	"github.com/atlas-pos/atlas-pos/internal/ledger"
	"github.com/atlas-pos/atlas-pos/internal/shared"
)

// Invalidator is notified after a committed sale so derived read models can
// drop stale state.
type Invalidator interface {
	Bump(ctx context.Context) error
}

// Service runs checkout transactions. It is the sole writer of the ledger
// and the journal; mu serializes whole transactions so two concurrent carts
// can never both win the same unit of stock.
type Service struct {
	mu sync.Mutex

	logger  *slog.Logger
	catalog *catalog.Store
	ledger  *ledger.Store
	journal *journal.Store

	invalidator    Invalidator
	persistTimeout time.Duration
	now            func() time.Time
}

// ServiceConfig groups optional settings.
type ServiceConfig struct {
	// PersistTimeout bounds the durable write at the end of a
	// transaction. Zero means 5s.
	PersistTimeout time.Duration
}

// NewService builds Service.
func NewService(logger *slog.Logger, cat *catalog.Store, led *ledger.Store, jrn *journal.Store, inv Invalidator, cfg ServiceConfig) *Service {
	timeout := cfg.PersistTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Service{
		logger:         logger,
		catalog:        cat,
		ledger:         led,
		journal:        jrn,
		invalidator:    inv,
		persistTimeout: timeout,
		now:            time.Now,
	}
}

// Process validates the cart, reserves stock for every line or none,
// computes profit, appends a sale record and durably persists ledger and
// journal together.
//
// Validation runs per line in cart order. Availability for the whole cart
// is decided on a working copy of the ledger before anything is committed,
// so a shortfall on any line rejects the cart with the live ledger exactly
// as it was. Both files are staged on disk before either the rename pass
// or the in-memory commit happens; a persistence failure therefore leaves
// the in-memory state untouched and is surfaced as ErrPersistence.
func (s *Service) Process(ctx context.Context, cart []journal.CartLine) (journal.SaleRecord, error) {
	if len(cart) == 0 {
		return journal.SaleRecord{}, ErrInvalidCart
	}
	for _, line := range cart {
		if line.ID == "" || line.Quantity <= 0 {
			return journal.SaleRecord{}, ErrInvalidCart
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sheet := s.ledger.Begin()

	var profit float64
	var shortfalls []ShortfallItem
	for _, line := range cart {
		product, inCatalog := s.catalog.Get(line.ID)
		entry, inLedger := sheet.Lookup(line.ID)
		if !inCatalog {
			// Without a catalog price the line cannot be priced,
			// whether or not stock exists for it.
			return journal.SaleRecord{}, &ProductNotFoundError{ID: line.ID}
		}
		if !inLedger {
			shortfalls = append(shortfalls, ShortfallItem{ID: line.ID, Available: 0})
			continue
		}
		if err := sheet.Reserve(line.ID, line.Quantity); err != nil {
			// Sheet untouched for this line; keep scanning so the
			// rejection names every short line.
			shortfalls = append(shortfalls, ShortfallItem{ID: line.ID, Available: entry.Stock})
			continue
		}
		profit += (product.Price - entry.CostPrice) * float64(line.Quantity)
	}
	if len(shortfalls) > 0 {
		return journal.SaleRecord{}, &OutOfStockError{Items: shortfalls}
	}

	record := journal.SaleRecord{
		ID:        uuid.NewString(),
		Timestamp: s.now().UTC().Format(time.RFC3339),
		Items:     cart,
		Profit:    shared.RoundCents(profit),
	}

	if err := s.persist(ctx, sheet, record); err != nil {
		s.logger.Error("persist checkout transaction", slog.Any("error", err))
		return journal.SaleRecord{}, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	s.ledger.Commit(sheet)
	s.journal.CommitAppend(record)

	if s.invalidator != nil {
		if err := s.invalidator.Bump(ctx); err != nil {
			s.logger.Warn("invalidate report cache", slog.Any("error", err))
		}
	}

	s.logger.Info("sale recorded",
		slog.String("sale_id", record.ID),
		slog.Int("lines", len(record.Items)),
		slog.Float64("profit", record.Profit),
	)
	return record, nil
}

// persist stages both files, then renames both into place. Staging first
// keeps the common failure modes (full disk, missing directory, timeout)
// from ever touching the previous on-disk state.
func (s *Service) persist(ctx context.Context, sheet *ledger.Sheet, record journal.SaleRecord) error {
	pctx, cancel := context.WithTimeout(ctx, s.persistTimeout)
	defer cancel()

	ledgerStaged, err := s.ledger.Stage(pctx, sheet)
	if err != nil {
		return fmt.Errorf("stage ledger: %w", err)
	}
	journalStaged, err := s.journal.StageAppend(pctx, record)
	if err != nil {
		ledgerStaged.Discard()
		return fmt.Errorf("stage journal: %w", err)
	}

	if err := ledgerStaged.Commit(); err != nil {
		journalStaged.Discard()
		return fmt.Errorf("commit ledger: %w", err)
	}
	if err := journalStaged.Commit(); err != nil {
		// The ledger file is already renamed; disk and memory diverge
		// until the next successful transaction. Surfaced, never
		// swallowed.
		return fmt.Errorf("commit journal: %w", err)
	}
	return nil
}
