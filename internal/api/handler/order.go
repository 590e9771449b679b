package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/inboop/inboop_server/internal/model/dto"
	"github.com/inboop/inboop_server/internal/pkg/response"
	"github.com/inboop/inboop_server/internal/service"
)

type OrderHandler struct {
	orderService *service.OrderService
}

func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Create
// POST /api/v1/workspaces/:workspace_id/orders
func (h *OrderHandler) Create(c *gin.Context) {
	_, workspaceID, ok := scope(c)
	if !ok {
		return
	}

	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	order, err := h.orderService.Create(workspaceID, &req)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, order)
}

// List
// GET /api/v1/workspaces/:workspace_id/orders?status=&payment_status=&page=&page_size=
func (h *OrderHandler) List(c *gin.Context) {
	_, workspaceID, ok := scope(c)
	if !ok {
		return
	}

	var req dto.ListOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	orders, total, err := h.orderService.List(workspaceID, &req)
	if err != nil {
		fail(c, err)
		return
	}
	response.SuccessPage(c, total, req.Page, req.PageSize, orders)
}

// Get
// GET /api/v1/workspaces/:workspace_id/orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	_, workspaceID, ok := scope(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.Get(workspaceID, id)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, order)
}

// UpdateStatus
// PATCH /api/v1/workspaces/:workspace_id/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	_, workspaceID, ok := scope(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	order, err := h.orderService.UpdateStatus(workspaceID, id, req.Status)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, order)
}

// UpdatePaymentStatus
// PATCH /api/v1/workspaces/:workspace_id/orders/:id/payment
func (h *OrderHandler) UpdatePaymentStatus(c *gin.Context) {
	_, workspaceID, ok := scope(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	order, err := h.orderService.UpdatePaymentStatus(workspaceID, id, req.PaymentStatus)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, order)
}
