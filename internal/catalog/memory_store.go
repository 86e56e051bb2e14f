package catalog

import (
	"sort"
	"sync"

	"github.com/Courage4/market-trader-platform-sub001/internal/domain"
)

// MemoryStore implements Store with an RWMutex-guarded snapshot.
type MemoryStore struct {
	mu       sync.RWMutex
	products map[int64]domain.Product
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products: make(map[int64]domain.Product),
	}
}

// Load replaces the whole snapshot.
func (s *MemoryStore) Load(products []domain.Product) {
	next := make(map[int64]domain.Product, len(products))
	for _, p := range products {
		next[p.ID] = p
	}

	s.mu.Lock()
	s.products = next
	s.mu.Unlock()
}

func (s *MemoryStore) GetProduct(id int64) (domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.products[id]
	if !exists {
		return domain.Product{}, ErrProductNotFound
	}
	return p, nil
}

func (s *MemoryStore) ListProducts() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}
