package catalog

import (
	"errors"

	"github.com/Courage4/market-trader-platform-sub001/internal/domain"
)

var ErrProductNotFound = errors.New("product not found")

// Store is the request-path view of the catalog: cheap reads over an
// in-memory snapshot, loaded once at startup and refreshed by whoever
// owns the backing repository.
type Store interface {
	GetProduct(id int64) (domain.Product, error)
	ListProducts() []domain.Product
	Load(products []domain.Product)
}
