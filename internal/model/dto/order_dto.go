package dto

import (
	"github.com/inboop/inboop_server/internal/model"
)

type CreateOrderRequest struct {
	LeadID         *int64  `json:"lead_id"`
	ConversationID *int64  `json:"conversation_id"`
	CustomerName   string  `json:"customer_name" binding:"max=100"`
	CustomerHandle string  `json:"customer_handle" binding:"max=100"`
	Items          string  `json:"items"`
	Amount         float64 `json:"amount" binding:"gte=0"`
	Currency       string  `json:"currency" binding:"omitempty,len=3"`
}

type ListOrdersRequest struct {
	Status        string `form:"status"`
	PaymentStatus string `form:"payment_status"`
	Page          int    `form:"page,default=1" binding:"min=1"`
	PageSize      int    `form:"page_size,default=20" binding:"min=1,max=100"`
}

type UpdateOrderStatusRequest struct {
	Status model.OrderStatus `json:"status" binding:"required"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus model.PaymentStatus `json:"payment_status" binding:"required"`
}

// OrderDetail adds the statuses the order may move to next.
type OrderDetail struct {
	*model.Order
	NextStatuses []model.OrderStatus `json:"next_statuses"`
}
