package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product event types published after successful writes.
const (
	ProductCreated = "product.created"
	ProductUpdated = "product.updated"
	ProductDeleted = "product.deleted"
)

// ProductEvent describes a change to the catalog.
type ProductEvent struct {
	Type       string          `json:"type"`
	ProductID  int64           `json:"product_id"`
	Name       string          `json:"name,omitempty"`
	Price      decimal.Decimal `json:"price"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// NewProductEvent builds an event of the given type for p.
func NewProductEvent(eventType string, p *Product) ProductEvent {
	return ProductEvent{
		Type:       eventType,
		ProductID:  p.ID,
		Name:       p.Name,
		Price:      p.Price,
		OccurredAt: time.Now().UTC(),
	}
}
