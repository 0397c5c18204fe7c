package report

import (
	"context"

	"github.com/atlas-pos/atlas-pos/internal/catalog"
	"github.com/atlas-pos/atlas-pos/internal/journal"
	"github.com/atlas-pos/atlas-pos/internal/shared"
)

// Summary aggregates the sales journal for reporting.
type Summary struct {
	SalesCount   int    `json:"salesCount"`
	TotalRevenue string `json:"totalRevenue"`
	TotalProfit  string `json:"totalProfit"`
}

// Service derives summary statistics from the journal and the catalog. It
// only ever reads; an empty journal yields a zero summary.
type Service struct {
	catalog *catalog.Store
	journal *journal.Store
	cache   *Cache
}

// NewService builds Service.
func NewService(cat *catalog.Store, jrn *journal.Store, cache *Cache) *Service {
	return &Service{catalog: cat, journal: jrn, cache: cache}
}

// Summarize returns sales count, total revenue and total profit.
//
// Revenue is valued at the current catalog price; lines whose product no
// longer exists contribute zero. Profit sums each record's stored profit,
// fixed at transaction time.
func (s *Service) Summarize(ctx context.Context) (Summary, error) {
	key, err := s.cache.BuildKey(ctx, "report", "summary")
	if err != nil {
		return Summary{}, err
	}

	var summary Summary
	err = s.cache.FetchJSON(ctx, key, &summary, func(ctx context.Context) (any, error) {
		return s.compute(), nil
	})
	if err != nil {
		return Summary{}, err
	}
	return summary, nil
}

func (s *Service) compute() Summary {
	records := s.journal.Snapshot()

	var revenue, profit float64
	for _, rec := range records {
		for _, line := range rec.Items {
			if product, ok := s.catalog.Get(line.ID); ok {
				revenue += product.Price * float64(line.Quantity)
			}
		}
		profit += rec.Profit
	}

	return Summary{
		SalesCount:   len(records),
		TotalRevenue: shared.FormatAmount(shared.RoundCents(revenue)),
		TotalProfit:  shared.FormatAmount(shared.RoundCents(profit)),
	}
}
