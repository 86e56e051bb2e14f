// Package pricing turns cart state into an order summary. Everything is a
// pure function over the snapshot it receives; nothing here is cached, so
// a summary can never go stale against its inputs.
package pricing

import (
	"errors"
	"strings"

	"github.com/Courage4/market-trader-platform-sub001/internal/domain"
)

// ErrInvalidPromoCode is returned when a code is not on the allow-list.
// Reason code for API callers: invalid_code.
var ErrInvalidPromoCode = errors.New("invalid promo code")

// promoCodes is the allow-list, keyed by canonical (uppercase) code with
// the discount rate in basis points.
var promoCodes = map[string]int64{
	"SAVE10": 1000,
}

// LookupPromo matches a code case-insensitively against the allow-list.
// On a match it returns the canonical code and rate; on a miss it returns
// ErrInvalidPromoCode and the caller must leave existing promo state
// untouched.
func LookupPromo(code string) (domain.AppliedPromo, error) {
	canonical := strings.ToUpper(strings.TrimSpace(code))
	rate, ok := promoCodes[canonical]
	if !ok {
		return domain.AppliedPromo{}, ErrInvalidPromoCode
	}
	return domain.AppliedPromo{Code: canonical, RateBps: rate}, nil
}

var deliveryFees = map[domain.DeliveryOption]domain.Pesewas{
	domain.DeliveryStandard: 200,
	domain.DeliveryExpress:  500,
}

// ValidDeliveryOption reports whether the option names a known tier.
func ValidDeliveryOption(opt domain.DeliveryOption) bool {
	_, ok := deliveryFees[opt]
	return ok
}

// DeliveryFee returns the fee for a tier. Unset or unknown options fall
// back to the standard tier.
func DeliveryFee(opt domain.DeliveryOption) domain.Pesewas {
	if fee, ok := deliveryFees[opt]; ok {
		return fee
	}
	return deliveryFees[domain.DeliveryStandard]
}

// ComputeSummary derives the order totals from a cart snapshot.
//
// Only items that are both selected and in stock contribute. The promo
// rate applies to the subtotal alone, never to the delivery fee. Savings
// is informational: the price already carries the markdown, so it is
// reported but never subtracted from the total a second time.
func ComputeSummary(items []domain.CartLineItem, promo *domain.AppliedPromo, delivery domain.DeliveryOption) domain.OrderSummary {
	var subtotal, savings domain.Pesewas
	for _, item := range items {
		if !item.Selected || !item.InStock {
			continue
		}
		subtotal += item.LineTotal()
		savings += item.Savings()
	}

	var promoDiscount domain.Pesewas
	if promo != nil {
		promoDiscount = subtotal * domain.Pesewas(promo.RateBps) / 10000
	}

	fee := DeliveryFee(delivery)

	return domain.OrderSummary{
		Subtotal:      subtotal,
		Savings:       savings,
		PromoDiscount: promoDiscount,
		DeliveryFee:   fee,
		Total:         subtotal - promoDiscount + fee,
	}
}
