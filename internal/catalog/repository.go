package catalog

import (
	"fmt"

	"github.com/atlas-pos/atlas-pos/internal/platform/store"
)

// Store holds the product catalog. It is read-only after Open, so lookups
// need no locking.
type Store struct {
	products []Product
	index    map[string]int
}

// Open loads the catalog file. A missing or corrupt file is an error; the
// caller is expected to treat it as fatal.
func Open(path string) (*Store, error) {
	var products []Product
	if err := store.Load(path, &products); err != nil {
		return nil, fmt.Errorf("catalog: load: %w", err)
	}

	index := make(map[string]int, len(products))
	for i, p := range products {
		if p.ID == "" {
			return nil, fmt.Errorf("catalog: product at position %d has no id", i)
		}
		if _, dup := index[p.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate product id %q", p.ID)
		}
		index[p.ID] = i
	}

	return &Store{products: products, index: index}, nil
}

// Get returns the product with the given id.
func (s *Store) Get(id string) (Product, bool) {
	i, ok := s.index[id]
	if !ok {
		return Product{}, false
	}
	return s.products[i], true
}

// List returns all products in catalog-file order.
func (s *Store) List() []Product {
	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out
}

// Len reports the number of products.
func (s *Store) Len() int {
	return len(s.products)
}
