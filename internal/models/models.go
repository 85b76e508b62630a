package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusPaid       OrderStatus = "paid"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusFailed     OrderStatus = "failed"
)

func (s OrderStatus) String() string {
	return string(s)
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled, OrderStatusFailed:
		return true
	}
	return false
}

func ParseOrderStatus(v string) (OrderStatus, error) {
	s := OrderStatus(v)
	if !s.Valid() {
		return "", fmt.Errorf("unknown order status %q", v)
	}
	return s, nil
}

type Order struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"             json:"id"`
	Email     string          `gorm:"not null"                         json:"email"`
	Status    OrderStatus     `gorm:"type:varchar(255);index;not null" json:"status"`
	Total     decimal.Decimal `gorm:"type:numeric(10,2);not null"      json:"total"`
	Items     datatypes.JSON  `gorm:"not null"                         json:"items"`
	UserID    string          `gorm:"index;not null"                   json:"user_id"`
	PaymentID string          `gorm:"index;not null"                   json:"payment_id"`
	CreatedAt time.Time       `gorm:"index;not null"                   json:"created_at"`
	UpdatedAt time.Time       `gorm:"not null"                         json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}
