package domain

// OrderSummary is the derived set of totals for a cart. It is recomputed
// from cart state on every read and never stored.
type OrderSummary struct {
	Subtotal      Pesewas `json:"subtotal"`
	Savings       Pesewas `json:"savings"`
	PromoDiscount Pesewas `json:"promo_discount"`
	DeliveryFee   Pesewas `json:"delivery_fee"`
	Total         Pesewas `json:"total"`
}
