// Package poller consumes order events published by the checkout system
// and empties the buyer's cart once an order completes. Checkout itself
// lives outside this service; the topic is the only contract.
package poller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	c "github.com/Courage4/market-trader-platform-sub001/internal/cache"
	r "github.com/Courage4/market-trader-platform-sub001/internal/repository"
	"github.com/segmentio/kafka-go"
)

const orderCompleted = "completed"

type orderEvent struct {
	UserID string `json:"user_id"`
	Status string `json:"status"`
}

type Poller struct {
	repo   r.CartRepository
	reader *kafka.Reader
	cache  c.CartCache
}

func NewPoller(repo r.CartRepository, cache c.CartCache, brokers ...string) *Poller {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    "order-events",
		GroupID:  "marketplace-cart-consumer",
		MaxBytes: 10e6, // 10MB
	})
	return &Poller{repo, reader, cache}
}

func (p *Poller) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		m, err := p.reader.ReadMessage(ctx)
		if err != nil {
			fmt.Printf("error reading message: %v\n", err)
			continue
		}
		p.handleMessage(ctx, m.Value)
	}
}

func (p *Poller) Close() {
	err := p.reader.Close()
	if err != nil {
		fmt.Printf("error closing reader: %v\n", err)
	}
}

func (p *Poller) handleMessage(ctx context.Context, value []byte) {
	var event orderEvent
	if errUnMarshal := json.Unmarshal(value, &event); errUnMarshal != nil {
		fmt.Printf("error parsing message: %v\n", errUnMarshal)
		return
	}
	if event.UserID == "" {
		fmt.Println("missing or invalid user_id")
		return
	}
	if event.Status != orderCompleted {
		return
	}

	if err := p.repo.DeleteCart(ctx, event.UserID); err != nil && !errors.Is(err, r.ErrCartNotFound) {
		fmt.Printf("error clearing cart for %s: %v\n", event.UserID, err)
		return
	}

	if err := p.cache.Delete(ctx, event.UserID); err != nil {
		fmt.Printf("error invalidating cart cache for %s: %v\n", event.UserID, err)
	}
}
