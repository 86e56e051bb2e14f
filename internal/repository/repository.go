package repository

import (
	"context"

	"github.com/Courage4/market-trader-platform-sub001/internal/domain"
)

// CartRepository defines the interface for cart data operations
// Consumers define this interface, not the MongoDB implementation
type CartRepository interface {
	GetCart(ctx context.Context, userID string) (*domain.Cart, error)
	UpsertCart(ctx context.Context, cart *domain.Cart) error
	AddItem(ctx context.Context, userID string, item domain.CartLineItem) error
	DeleteCart(ctx context.Context, userID string) error
}
