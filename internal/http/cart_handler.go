package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Courage4/market-trader-platform-sub001/internal/domain"
	"github.com/Courage4/market-trader-platform-sub001/internal/pricing"
	"github.com/Courage4/market-trader-platform-sub001/internal/repository"
	"github.com/Courage4/market-trader-platform-sub001/internal/service"
	"github.com/go-chi/chi/v5"
)

// CartOperations is what the handler needs from the cart service.
type CartOperations interface {
	GetCart(ctx context.Context, userID string) (*domain.Cart, error)
	AddItem(ctx context.Context, userID string, productID int64, quantity int) error
	SetQuantity(ctx context.Context, userID, itemID string, quantity int) error
	RemoveItem(ctx context.Context, userID, itemID string) error
	ToggleSelected(ctx context.Context, userID, itemID string) error
	SelectAll(ctx context.Context, userID string, selected bool) error
	ApplyPromo(ctx context.Context, userID, code string) (domain.AppliedPromo, error)
	RemovePromo(ctx context.Context, userID string) error
	SetDelivery(ctx context.Context, userID string, option domain.DeliveryOption) error
	Summary(ctx context.Context, userID string) (domain.OrderSummary, error)
}

type CartHandler struct {
	carts   CartOperations
	timeout time.Duration
}

func NewCartHandler(carts CartOperations, timeout time.Duration) *CartHandler {
	return &CartHandler{
		carts:   carts,
		timeout: timeout,
	}
}

type AddItemRequestDTO struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type SelectionRequestDTO struct {
	Selected bool `json:"selected"`
}

type PromoRequestDTO struct {
	Code string `json:"code"`
}

type DeliveryRequestDTO struct {
	Option string `json:"option"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel, userID, ok := h.begin(w, r)
	if !ok {
		return
	}
	defer cancel()

	cart, err := h.carts.GetCart(ctx, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel, userID, ok := h.begin(w, r)
	if !ok {
		return
	}
	defer cancel()

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}
	if req.Quantity <= 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	if err := h.carts.AddItem(ctx, userID, req.ProductID, req.Quantity); err != nil {
		handleServiceError(w, err)
		return
	}

	cart, err := h.carts.GetCart(ctx, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, cart)
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel, userID, ok := h.begin(w, r)
	if !ok {
		return
	}
	defer cancel()

	itemID := chi.URLParam(r, "item_id")
	if itemID == "" {
		respondError(w, http.StatusBadRequest, "invalid_item_id", "item_id is required")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	// Out-of-range quantities are clamped into [1, max], not rejected.
	if err := h.carts.SetQuantity(ctx, userID, itemID, req.Quantity); err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel, userID, ok := h.begin(w, r)
	if !ok {
		return
	}
	defer cancel()

	itemID := chi.URLParam(r, "item_id")
	if itemID == "" {
		respondError(w, http.StatusBadRequest, "invalid_item_id", "item_id is required")
		return
	}

	if err := h.carts.RemoveItem(ctx, userID, itemID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CartHandler) ToggleSelected(w http.ResponseWriter, r *http.Request) {
	ctx, cancel, userID, ok := h.begin(w, r)
	if !ok {
		return
	}
	defer cancel()

	itemID := chi.URLParam(r, "item_id")
	if itemID == "" {
		respondError(w, http.StatusBadRequest, "invalid_item_id", "item_id is required")
		return
	}

	if err := h.carts.ToggleSelected(ctx, userID, itemID); err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *CartHandler) SelectAll(w http.ResponseWriter, r *http.Request) {
	ctx, cancel, userID, ok := h.begin(w, r)
	if !ok {
		return
	}
	defer cancel()

	var req SelectionRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.carts.SelectAll(ctx, userID, req.Selected); err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *CartHandler) ApplyPromo(w http.ResponseWriter, r *http.Request) {
	ctx, cancel, userID, ok := h.begin(w, r)
	if !ok {
		return
	}
	defer cancel()

	var req PromoRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	promo, err := h.carts.ApplyPromo(ctx, userID, req.Code)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, promo)
}

func (h *CartHandler) RemovePromo(w http.ResponseWriter, r *http.Request) {
	ctx, cancel, userID, ok := h.begin(w, r)
	if !ok {
		return
	}
	defer cancel()

	if err := h.carts.RemovePromo(ctx, userID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CartHandler) SetDelivery(w http.ResponseWriter, r *http.Request) {
	ctx, cancel, userID, ok := h.begin(w, r)
	if !ok {
		return
	}
	defer cancel()

	var req DeliveryRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.carts.SetDelivery(ctx, userID, domain.DeliveryOption(req.Option)); err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *CartHandler) Summary(w http.ResponseWriter, r *http.Request) {
	ctx, cancel, userID, ok := h.begin(w, r)
	if !ok {
		return
	}
	defer cancel()

	summary, err := h.carts.Summary(ctx, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

// begin resolves the caller and builds the request-scoped context. A false
// return means the 401 has already been written.
func (h *CartHandler) begin(w http.ResponseWriter, r *http.Request) (context.Context, context.CancelFunc, string, bool) {
	ident, ok := identityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return nil, nil, "", false
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	return ctx, cancel, ident.ID, true
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, pricing.ErrInvalidPromoCode):
		respondError(w, http.StatusUnprocessableEntity, "invalid_code", "promo code is not valid")
	case errors.Is(err, service.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "not_found", "product not found")
	case errors.Is(err, service.ErrProductOutOfStock):
		respondError(w, http.StatusConflict, "out_of_stock", "product is out of stock")
	case errors.Is(err, service.ErrUnknownDeliveryTier):
		respondError(w, http.StatusBadRequest, "invalid_delivery_option", "unknown delivery option")
	case errors.Is(err, repository.ErrItemNotFound):
		respondError(w, http.StatusNotFound, "not_found", "item not found in cart")
	case errors.Is(err, domain.ErrInvalidLineItem):
		respondError(w, http.StatusBadRequest, "invalid_line_item", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
