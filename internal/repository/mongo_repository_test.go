package repository

import (
	"context"
	"testing"

	"github.com/Courage4/market-trader-platform-sub001/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
)

func setupTestDB(t *testing.T) (CartRepository, func()) {
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	ctx := context.Background()

	// Start MongoDB container
	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)

	// Get connection string
	uri, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err)

	// Connect to MongoDB
	db, err := ConnectMongoDB(ctx, uri, "testdb")
	require.NoError(t, err)

	// Create repository
	repo := NewMongoRepository(db)

	// Create indexes
	mongoRepo := repo.(*mongoRepository)
	err = mongoRepo.CreateIndexes(ctx)
	require.NoError(t, err)

	cleanup := func() {
		if err := mongoContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return repo, cleanup
}

func lineItem(id string, productID int64, price domain.Pesewas, qty int) domain.CartLineItem {
	return domain.CartLineItem{
		ID:          id,
		ProductID:   productID,
		Name:        "test product",
		VendorID:    "vendor-test",
		Price:       price,
		Quantity:    qty,
		MaxQuantity: 10,
		InStock:     true,
		Selected:    true,
	}
}

func TestGetCart_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	cart, err := repo.GetCart(ctx, "nonexistent")

	assert.ErrorIs(t, err, ErrCartNotFound)
	assert.Nil(t, cart)
}

func TestAddItem_NewCart(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	userID := "user123"

	err := repo.AddItem(ctx, userID, lineItem("a", 1, 800, 3))
	require.NoError(t, err)

	cart, err := repo.GetCart(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, userID, cart.UserID)
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, int64(1), cart.Items[0].ProductID)
	assert.Equal(t, domain.Pesewas(800), cart.Items[0].Price)
	assert.Equal(t, 3, cart.Items[0].Quantity)
}

func TestAddItem_ExistingProduct_ReplacesQuantity(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	userID := "user123"

	require.NoError(t, repo.AddItem(ctx, userID, lineItem("a", 1, 800, 2)))
	require.NoError(t, repo.AddItem(ctx, userID, lineItem("b", 1, 800, 5)))

	cart, err := repo.GetCart(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
}

func TestUpsertCart_RoundTripsPromoAndDelivery(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	cart := &domain.Cart{
		UserID:   "user123",
		Items:    []domain.CartLineItem{lineItem("a", 1, 800, 2)},
		Promo:    &domain.AppliedPromo{Code: "SAVE10", RateBps: 1000},
		Delivery: domain.DeliveryExpress,
	}

	require.NoError(t, repo.UpsertCart(ctx, cart))

	loaded, err := repo.GetCart(ctx, "user123")
	require.NoError(t, err)
	require.NotNil(t, loaded.Promo)
	assert.Equal(t, "SAVE10", loaded.Promo.Code)
	assert.Equal(t, int64(1000), loaded.Promo.RateBps)
	assert.Equal(t, domain.DeliveryExpress, loaded.Delivery)
	assert.False(t, loaded.CreatedAt.IsZero())
}

func TestUpsertCart_ClearsPromo(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	cart := &domain.Cart{
		UserID: "user123",
		Items:  []domain.CartLineItem{lineItem("a", 1, 800, 2)},
		Promo:  &domain.AppliedPromo{Code: "SAVE10", RateBps: 1000},
	}
	require.NoError(t, repo.UpsertCart(ctx, cart))

	cart.Promo = nil
	require.NoError(t, repo.UpsertCart(ctx, cart))

	loaded, err := repo.GetCart(ctx, "user123")
	require.NoError(t, err)
	assert.Nil(t, loaded.Promo)
}

func TestDeleteCart(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	userID := "user123"

	require.NoError(t, repo.AddItem(ctx, userID, lineItem("a", 1, 800, 1)))
	require.NoError(t, repo.DeleteCart(ctx, userID))

	_, err := repo.GetCart(ctx, userID)
	assert.ErrorIs(t, err, ErrCartNotFound)

	err = repo.DeleteCart(ctx, userID)
	assert.ErrorIs(t, err, ErrCartNotFound)
}
