package domain

import "time"

type Product struct {
	ID            int64
	Name          string
	Description   string
	VendorID      string
	Price         Pesewas
	OriginalPrice Pesewas // 0 when the product has never been discounted
	Stock         int32
	MaxPerOrder   int
	ImageURL      string
	CreatedAt     time.Time
}

func (p Product) InStock() bool {
	return p.Stock > 0
}
