package transport

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

type CreateOrderRequest struct {
	Email     string          `json:"email"`
	Total     decimal.Decimal `json:"total"`
	Items     json.RawMessage `json:"items,omitempty"`
	UserID    string          `json:"user_id"`
	PaymentID string          `json:"payment_id"`
}

// UpdateOrderRequest carries a partial update; nil fields stay untouched.
type UpdateOrderRequest struct {
	Status *string          `json:"status,omitempty"`
	Total  *decimal.Decimal `json:"total,omitempty"`
	Items  json.RawMessage  `json:"items,omitempty"`
}
