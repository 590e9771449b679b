package model

import (
	"time"
)

// OrderStatus is the fulfillment axis of an order.
type OrderStatus string

const (
	OrderStatusNew       OrderStatus = "NEW"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"

	// Legacy values kept only so historical rows still load.
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusRefunded   OrderStatus = "REFUNDED"
)

// Valid accepts current and legacy values.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusNew, OrderStatusConfirmed, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return s.Legacy()
}

// Legacy reports whether s is a read-only historical value.
func (s OrderStatus) Legacy() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusRefunded:
		return true
	}
	return false
}

// Terminal reports whether no transition leaves s.
func (s OrderStatus) Terminal() bool {
	switch s {
	case OrderStatusDelivered, OrderStatusCancelled, OrderStatusRefunded:
		return true
	}
	return false
}

// PaymentStatus is the payment axis of an order, independent of fulfillment.
type PaymentStatus string

const (
	PaymentStatusUnpaid   PaymentStatus = "UNPAID"
	PaymentStatusPaid     PaymentStatus = "PAID"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
)

// Valid reports whether s is a known payment status.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusUnpaid, PaymentStatusPaid, PaymentStatusRefunded:
		return true
	}
	return false
}

type Order struct {
	ID             int64         `gorm:"primaryKey" json:"id"`
	WorkspaceID    int64         `gorm:"not null;index" json:"workspace_id"`
	LeadID         *int64        `gorm:"index" json:"lead_id,omitempty"`
	ConversationID *int64        `gorm:"index" json:"conversation_id,omitempty"`
	CustomerName   string        `gorm:"size:100" json:"customer_name"`
	CustomerHandle string        `gorm:"size:100" json:"customer_handle"`
	Items          string        `gorm:"type:text" json:"items"`
	Amount         float64       `gorm:"type:decimal(12,2);not null" json:"amount"`
	Currency       string        `gorm:"size:3;not null;default:USD" json:"currency"`
	Status         OrderStatus   `gorm:"size:20;not null;default:NEW;index" json:"status"`
	PaymentStatus  PaymentStatus `gorm:"size:20;not null;default:UNPAID;index" json:"payment_status"`
	ConfirmedAt    *time.Time    `json:"confirmed_at,omitempty"`
	ShippedAt      *time.Time    `json:"shipped_at,omitempty"`
	DeliveredAt    *time.Time    `json:"delivered_at,omitempty"`
	CancelledAt    *time.Time    `json:"cancelled_at,omitempty"`
	PaidAt         *time.Time    `json:"paid_at,omitempty"`
	CreatedAt      time.Time     `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}
