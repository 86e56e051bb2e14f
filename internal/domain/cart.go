package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidLineItem = errors.New("invalid line item")

// DeliveryOption is a named delivery tier. An empty value means the user
// has not picked one yet; pricing falls back to the standard tier.
type DeliveryOption string

const (
	DeliveryStandard DeliveryOption = "standard"
	DeliveryExpress  DeliveryOption = "express"
)

// AppliedPromo is the promo state stored on a cart after a successful
// allow-list match. Code is the canonical (uppercase) form, RateBps the
// discount rate in basis points (1000 = 10%).
type AppliedPromo struct {
	Code    string `bson:"code" json:"code"`
	RateBps int64  `bson:"rate_bps" json:"rate_bps"`
}

type CartLineItem struct {
	ID            string    `bson:"item_id" json:"item_id"`
	ProductID     int64     `bson:"product_id" json:"product_id"`
	Name          string    `bson:"name" json:"name"`
	VendorID      string    `bson:"vendor_id" json:"vendor_id"`
	Price         Pesewas   `bson:"price" json:"price"`
	OriginalPrice Pesewas   `bson:"original_price,omitempty" json:"original_price,omitempty"`
	Quantity      int       `bson:"quantity" json:"quantity"`
	MaxQuantity   int       `bson:"max_quantity" json:"max_quantity"`
	InStock       bool      `bson:"in_stock" json:"in_stock"`
	Selected      bool      `bson:"selected" json:"selected"`
	AddedAt       time.Time `bson:"added_at" json:"added_at"`
}

// NewLineItem builds a cart line item from a catalog product. The
// requested quantity is clamped to [1, MaxPerOrder]; invalid catalog
// values are rejected here so summary computation never sees them.
func NewLineItem(p Product, quantity int) (CartLineItem, error) {
	item := CartLineItem{
		ID:            uuid.New().String(),
		ProductID:     p.ID,
		Name:          p.Name,
		VendorID:      p.VendorID,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		Quantity:      quantity,
		MaxQuantity:   p.MaxPerOrder,
		InStock:       p.InStock(),
		Selected:      p.InStock(),
		AddedAt:       time.Now(),
	}
	if err := item.Validate(); err != nil {
		return CartLineItem{}, err
	}
	item.Quantity = clampQuantity(quantity, item.MaxQuantity)
	return item, nil
}

// Validate checks the value constraints on a line item. Quantity is not
// checked here because mutation paths clamp it instead of rejecting.
func (i CartLineItem) Validate() error {
	switch {
	case i.Price < 0:
		return fmt.Errorf("%w: price must not be negative", ErrInvalidLineItem)
	case i.OriginalPrice != 0 && i.OriginalPrice < i.Price:
		return fmt.Errorf("%w: original price must not be below price", ErrInvalidLineItem)
	case i.MaxQuantity < 1:
		return fmt.Errorf("%w: max quantity must be at least 1", ErrInvalidLineItem)
	}
	return nil
}

// LineTotal is price times quantity.
func (i CartLineItem) LineTotal() Pesewas {
	return i.Price * Pesewas(i.Quantity)
}

// Savings is the per-line difference against the original price, zero when
// no original price is present. Informational only: the price already
// reflects the markdown, so savings is never subtracted from a total.
func (i CartLineItem) Savings() Pesewas {
	if i.OriginalPrice == 0 {
		return 0
	}
	return (i.OriginalPrice - i.Price) * Pesewas(i.Quantity)
}

func clampQuantity(q, maxQ int) int {
	if q < 1 {
		return 1
	}
	if q > maxQ {
		return maxQ
	}
	return q
}

type Cart struct {
	ID        string         `bson:"_id,omitempty" json:"-"`
	UserID    string         `bson:"user_id" json:"user_id"`
	Items     []CartLineItem `bson:"items" json:"items"`
	Promo     *AppliedPromo  `bson:"promo,omitempty" json:"promo,omitempty"`
	Delivery  DeliveryOption `bson:"delivery,omitempty" json:"delivery,omitempty"`
	CreatedAt time.Time      `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time      `bson:"updated_at" json:"updated_at"`
}

// SetQuantity clamps the requested quantity into [1, MaxQuantity] for the
// given item. Zero never survives this path; emptying a line goes through
// RemoveItem. Returns false when the item is not in the cart.
func (c *Cart) SetQuantity(itemID string, quantity int) bool {
	for idx := range c.Items {
		if c.Items[idx].ID == itemID {
			c.Items[idx].Quantity = clampQuantity(quantity, c.Items[idx].MaxQuantity)
			return true
		}
	}
	return false
}

// RemoveItem deletes the line item. Removing an unknown id is a no-op, so
// a second remove of the same id changes nothing.
func (c *Cart) RemoveItem(itemID string) {
	for idx := range c.Items {
		if c.Items[idx].ID == itemID {
			c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
			return
		}
	}
}

// ToggleSelected flips the selection flag. Stock state is untouched.
// Returns false when the item is not in the cart.
func (c *Cart) ToggleSelected(itemID string) bool {
	for idx := range c.Items {
		if c.Items[idx].ID == itemID {
			c.Items[idx].Selected = !c.Items[idx].Selected
			return true
		}
	}
	return false
}

// SelectAll applies a bulk selection. Selecting can never pick up an
// out-of-stock item; deselecting always clears everything.
func (c *Cart) SelectAll(selected bool) {
	for idx := range c.Items {
		c.Items[idx].Selected = selected && c.Items[idx].InStock
	}
}

// FindItem returns the line item with the given id, or nil.
func (c *Cart) FindItem(itemID string) *CartLineItem {
	for idx := range c.Items {
		if c.Items[idx].ID == itemID {
			return &c.Items[idx]
		}
	}
	return nil
}
