package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Courage4/market-trader-platform-sub001/internal/cache"
	"github.com/Courage4/market-trader-platform-sub001/internal/catalog"
	"github.com/Courage4/market-trader-platform-sub001/internal/domain"
	"github.com/Courage4/market-trader-platform-sub001/internal/pricing"
	"github.com/Courage4/market-trader-platform-sub001/internal/repository"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/sync/singleflight"
)

var (
	ErrProductNotFound     = errors.New("product not found")
	ErrProductOutOfStock   = errors.New("product is out of stock")
	ErrUnknownDeliveryTier = errors.New("unknown delivery option")
)

type CartService struct {
	repo    repository.CartRepository
	cache   cache.CartCache
	catalog catalog.Store
	sfg     singleflight.Group // Prevents cache stampede
	breaker *gobreaker.CircuitBreaker[*domain.Cart]
}

func NewCartService(repo repository.CartRepository, cache cache.CartCache, store catalog.Store) *CartService {
	return &CartService{
		repo:    repo,
		cache:   cache,
		catalog: store,
		breaker: gobreaker.NewCircuitBreaker[*domain.Cart](gobreaker.Settings{
			Name:    "cart-repository",
			Timeout: 10 * time.Second,
			// A missing cart is a normal read for first-time shoppers,
			// not a repository failure.
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, repository.ErrCartNotFound)
			},
		}),
	}
}

func (s *CartService) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	// Use singleflight to prevent multiple concurrent cache misses for same key
	v, err, _ := s.sfg.Do(userID, func() (interface{}, error) {

		cart, err := s.cache.Get(ctx, userID)
		if err == nil {
			return cart, nil // cart is in cache
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v \n", err) // log cache error but continue
		}

		cart, errGet := s.loadCart(ctx, userID)
		if errGet != nil {
			return nil, errGet
		}

		// set cache
		go func() {
			errSet := s.cache.Set(context.Background(), userID, cart)
			if errSet != nil {
				log.Printf("cache set error: %v \n", errSet)
			}
		}()

		return cart, nil // cart was not in cache, return it from repo
	})

	if err != nil {
		return nil, err
	}

	return v.(*domain.Cart), nil
}

// loadCart reads the cart from the repository through the circuit breaker.
// A missing cart comes back as an empty one; nothing in the read path
// distinguishes "never shopped" from "cart deleted".
func (s *CartService) loadCart(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.breaker.Execute(func() (*domain.Cart, error) {
		return s.repo.GetCart(ctx, userID)
	})
	if err != nil && errors.Is(err, repository.ErrCartNotFound) {
		return &domain.Cart{
			UserID:    userID,
			Items:     nil,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// AddItem seeds a line item from the catalog snapshot and stores it.
// Adding a product already in the cart replaces its quantity.
func (s *CartService) AddItem(ctx context.Context, userID string, productID int64, quantity int) error {
	product, err := s.catalog.GetProduct(productID)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("catalog lookup failed: %w", err)
	}
	if !product.InStock() {
		return ErrProductOutOfStock
	}

	item, err := domain.NewLineItem(product, quantity)
	if err != nil {
		return err
	}

	if errAdd := s.repo.AddItem(ctx, userID, item); errAdd != nil {
		log.Printf("repo add item error: %v \n", errAdd)
		return errAdd
	}

	invalidateCache(s, userID)
	return nil
}

func (s *CartService) SetQuantity(ctx context.Context, userID, itemID string, quantity int) error {
	return s.mutate(ctx, userID, func(cart *domain.Cart) error {
		if !cart.SetQuantity(itemID, quantity) {
			return repository.ErrItemNotFound
		}
		return nil
	})
}

// RemoveItem deletes a line item. Removing an id that is not in the cart
// is a no-op, not an error.
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID string) error {
	return s.mutate(ctx, userID, func(cart *domain.Cart) error {
		cart.RemoveItem(itemID)
		return nil
	})
}

func (s *CartService) ToggleSelected(ctx context.Context, userID, itemID string) error {
	return s.mutate(ctx, userID, func(cart *domain.Cart) error {
		if !cart.ToggleSelected(itemID) {
			return repository.ErrItemNotFound
		}
		return nil
	})
}

func (s *CartService) SelectAll(ctx context.Context, userID string, selected bool) error {
	return s.mutate(ctx, userID, func(cart *domain.Cart) error {
		cart.SelectAll(selected)
		return nil
	})
}

// ApplyPromo validates the code against the allow-list. A rejected code
// leaves the cart untouched, including any promo already applied; a valid
// one replaces the active promo.
func (s *CartService) ApplyPromo(ctx context.Context, userID, code string) (domain.AppliedPromo, error) {
	promo, err := pricing.LookupPromo(code)
	if err != nil {
		return domain.AppliedPromo{}, err
	}

	errMutate := s.mutate(ctx, userID, func(cart *domain.Cart) error {
		cart.Promo = &promo
		return nil
	})
	if errMutate != nil {
		return domain.AppliedPromo{}, errMutate
	}
	return promo, nil
}

func (s *CartService) RemovePromo(ctx context.Context, userID string) error {
	return s.mutate(ctx, userID, func(cart *domain.Cart) error {
		cart.Promo = nil
		return nil
	})
}

func (s *CartService) SetDelivery(ctx context.Context, userID string, option domain.DeliveryOption) error {
	if !pricing.ValidDeliveryOption(option) {
		return ErrUnknownDeliveryTier
	}
	return s.mutate(ctx, userID, func(cart *domain.Cart) error {
		cart.Delivery = option
		return nil
	})
}

// Summary recomputes the order totals from the current cart state. The
// computation is pure; nothing is cached between calls.
func (s *CartService) Summary(ctx context.Context, userID string) (domain.OrderSummary, error) {
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return domain.OrderSummary{}, err
	}
	return pricing.ComputeSummary(cart.Items, cart.Promo, cart.Delivery), nil
}

func (s *CartService) ClearCart(ctx context.Context, userID string) error {
	errDelete := s.repo.DeleteCart(ctx, userID)
	if errDelete != nil {
		log.Printf("repo delete cart error: %v \n", errDelete)
		return errDelete
	}

	invalidateCache(s, userID)
	return nil
}

// mutate loads the cart from the repository (never the cache), applies the
// mutation, and writes the whole cart back. The cache entry is dropped so
// the next read sees the new state.
func (s *CartService) mutate(ctx context.Context, userID string, fn func(cart *domain.Cart) error) error {
	cart, err := s.loadCart(ctx, userID)
	if err != nil {
		return err
	}

	if errFn := fn(cart); errFn != nil {
		return errFn
	}

	if errUpsert := s.repo.UpsertCart(ctx, cart); errUpsert != nil {
		log.Printf("repo upsert cart error: %v \n", errUpsert)
		return errUpsert
	}

	invalidateCache(s, userID)
	return nil
}

func invalidateCache(s *CartService, userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	errInvalidate := s.cache.Delete(ctx, userID)
	if errInvalidate != nil {
		log.Printf("cache invalidate error: %v \n", errInvalidate)
	}
}
