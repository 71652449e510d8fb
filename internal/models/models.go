package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// The product and order services expect plain JSON numbers for prices.
	decimal.MarshalJSONWithoutQuotes = true
}

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

// ProductInput is the create payload; the id is assigned by the product service.
type ProductInput struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description" validate:"required"`
	Price       decimal.Decimal `json:"price"`
}

type InventoryRecord struct {
	SkuCode string `json:"skuCode"`
	InStock bool   `json:"inStock"`
}

type OrderLineItem struct {
	SkuCode  string           `json:"skuCode" validate:"required"`
	Quantity int              `json:"quantity" validate:"min=1"`
	Price    *decimal.Decimal `json:"price,omitempty"`
}

type OrderRequest struct {
	OrderLineItemsList []OrderLineItem `json:"orderLineItemsList" validate:"min=1,dive"`
}

// OrderConfirmation is what the order service answered on success. Fields is
// only set when the body was a JSON object.
type OrderConfirmation struct {
	Text   string
	Fields map[string]any
}

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Icon returns the icon name rendered next to a notification.
func (s Severity) Icon() string {
	switch s {
	case SeveritySuccess:
		return "check-circle"
	case SeverityError:
		return "exclamation-circle"
	default:
		return "info-circle"
	}
}

type Notification struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Severity  Severity  `json:"severity"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the notification should no longer be shown at now.
func (n Notification) Expired(now time.Time) bool {
	return !now.Before(n.ExpiresAt)
}

// RemainingMillis is how long the notification stays visible after now,
// never negative. Browsers schedule removal from this relative value.
func (n Notification) RemainingMillis(now time.Time) int64 {
	return max(n.ExpiresAt.Sub(now).Milliseconds(), 0)
}
