package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProduct() Product {
	return Product{
		ID:            1,
		Name:          "Kente Scarf",
		VendorID:      "vendor-ama",
		Price:         800,
		OriginalPrice: 1000,
		Stock:         25,
		MaxPerOrder:   5,
	}
}

func TestNewLineItem(t *testing.T) {
	item, err := NewLineItem(testProduct(), 2)
	require.NoError(t, err)

	assert.NotEmpty(t, item.ID)
	assert.Equal(t, int64(1), item.ProductID)
	assert.Equal(t, Pesewas(800), item.Price)
	assert.Equal(t, 2, item.Quantity)
	assert.True(t, item.InStock)
	assert.True(t, item.Selected)
}

func TestNewLineItem_ClampsQuantity(t *testing.T) {
	item, err := NewLineItem(testProduct(), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, item.Quantity)

	item, err = NewLineItem(testProduct(), 100)
	require.NoError(t, err)
	assert.Equal(t, 5, item.Quantity)
}

func TestNewLineItem_OutOfStockNotSelected(t *testing.T) {
	p := testProduct()
	p.Stock = 0

	item, err := NewLineItem(p, 1)
	require.NoError(t, err)
	assert.False(t, item.InStock)
	assert.False(t, item.Selected)
}

func TestNewLineItem_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Product)
	}{
		{"negative price", func(p *Product) { p.Price = -1 }},
		{"original below price", func(p *Product) { p.OriginalPrice = 500 }},
		{"zero max per order", func(p *Product) { p.MaxPerOrder = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testProduct()
			tt.mutate(&p)
			_, err := NewLineItem(p, 1)
			assert.ErrorIs(t, err, ErrInvalidLineItem)
		})
	}
}

func testCart() *Cart {
	return &Cart{
		UserID: "user-1",
		Items: []CartLineItem{
			{ID: "a", ProductID: 1, Price: 800, Quantity: 2, MaxQuantity: 5, InStock: true, Selected: true},
			{ID: "b", ProductID: 2, Price: 1200, Quantity: 1, MaxQuantity: 10, InStock: true, Selected: false},
			{ID: "c", ProductID: 3, Price: 1500, Quantity: 3, MaxQuantity: 3, InStock: false, Selected: false},
		},
	}
}

func TestCart_SetQuantity_Clamps(t *testing.T) {
	cart := testCart()

	require.True(t, cart.SetQuantity("a", 0))
	assert.Equal(t, 1, cart.FindItem("a").Quantity)

	require.True(t, cart.SetQuantity("a", 105))
	assert.Equal(t, 5, cart.FindItem("a").Quantity)

	require.True(t, cart.SetQuantity("a", 3))
	assert.Equal(t, 3, cart.FindItem("a").Quantity)
}

func TestCart_SetQuantity_UnknownItem(t *testing.T) {
	cart := testCart()
	assert.False(t, cart.SetQuantity("zzz", 2))
	assert.Len(t, cart.Items, 3)
}

func TestCart_RemoveItem_Idempotent(t *testing.T) {
	cart := testCart()

	cart.RemoveItem("b")
	assert.Len(t, cart.Items, 2)
	assert.Nil(t, cart.FindItem("b"))

	// Second remove of the same id is a no-op.
	cart.RemoveItem("b")
	assert.Len(t, cart.Items, 2)
}

func TestCart_ToggleSelected(t *testing.T) {
	cart := testCart()

	require.True(t, cart.ToggleSelected("b"))
	assert.True(t, cart.FindItem("b").Selected)

	require.True(t, cart.ToggleSelected("b"))
	assert.False(t, cart.FindItem("b").Selected)

	// Toggling does not touch stock state.
	require.True(t, cart.ToggleSelected("c"))
	assert.False(t, cart.FindItem("c").InStock)
}

func TestCart_SelectAll(t *testing.T) {
	cart := testCart()

	cart.SelectAll(true)
	assert.True(t, cart.FindItem("a").Selected)
	assert.True(t, cart.FindItem("b").Selected)
	// Bulk select can never pick up an out-of-stock item.
	assert.False(t, cart.FindItem("c").Selected)

	// Force-select the out-of-stock item, then bulk deselect: everything
	// clears regardless of stock.
	cart.FindItem("c").Selected = true
	cart.SelectAll(false)
	for _, item := range cart.Items {
		assert.False(t, item.Selected, "item %s", item.ID)
	}
}

func TestLineItem_SavingsWithoutOriginalPrice(t *testing.T) {
	item := CartLineItem{Price: 1200, Quantity: 3}
	assert.Equal(t, Pesewas(0), item.Savings())

	item.OriginalPrice = 1500
	assert.Equal(t, Pesewas(900), item.Savings())
}

func TestPesewasString(t *testing.T) {
	assert.Equal(t, "GHS 28.00", Cedis(28).String())
	assert.Equal(t, "GHS 2.80", Pesewas(280).String())
	assert.Equal(t, "GHS 0.05", Pesewas(5).String())
	assert.Equal(t, "-GHS 1.50", Pesewas(-150).String())
}
