package service

import (
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/inboop/inboop_server/internal/model"
	"github.com/inboop/inboop_server/internal/model/dto"
	"github.com/inboop/inboop_server/internal/repository"
)

var ErrOrderNotFound = errors.New("order not found")

const defaultCurrency = "USD"

type OrderService struct {
	orderRepo *repository.OrderRepository
	leadRepo  *repository.LeadRepository
	now       func() time.Time
}

func NewOrderService(orderRepo *repository.OrderRepository, leadRepo *repository.LeadRepository) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		leadRepo:  leadRepo,
		now:       time.Now,
	}
}

// Create opens an order in NEW/UNPAID. Customer details missing from the
// request are copied from the lead.
func (s *OrderService) Create(workspaceID int64, req *dto.CreateOrderRequest) (*dto.OrderDetail, error) {
	order := &model.Order{
		WorkspaceID:    workspaceID,
		LeadID:         req.LeadID,
		ConversationID: req.ConversationID,
		CustomerName:   strings.TrimSpace(req.CustomerName),
		CustomerHandle: strings.TrimSpace(req.CustomerHandle),
		Items:          req.Items,
		Amount:         req.Amount,
		Currency:       strings.ToUpper(req.Currency),
		Status:         model.OrderStatusNew,
		PaymentStatus:  model.PaymentStatusUnpaid,
	}
	if order.Currency == "" {
		order.Currency = defaultCurrency
	}

	if req.LeadID != nil {
		lead, err := s.leadRepo.GetByID(workspaceID, *req.LeadID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrLeadNotFound
			}
			return nil, err
		}
		if order.CustomerName == "" {
			order.CustomerName = lead.CustomerName
		}
		if order.CustomerHandle == "" {
			order.CustomerHandle = lead.CustomerHandle
		}
		if order.ConversationID == nil {
			order.ConversationID = lead.ConversationID
		}
	}

	if err := s.orderRepo.Create(order); err != nil {
		return nil, err
	}
	return detail(order), nil
}

func (s *OrderService) List(workspaceID int64, req *dto.ListOrdersRequest) ([]*model.Order, int64, error) {
	if req.Status != "" && !model.OrderStatus(req.Status).Valid() {
		return nil, 0, ErrInvalidStatusFilter
	}
	if req.PaymentStatus != "" && !model.PaymentStatus(req.PaymentStatus).Valid() {
		return nil, 0, ErrInvalidStatusFilter
	}
	return s.orderRepo.List(workspaceID, req.Status, req.PaymentStatus, req.Page, req.PageSize)
}

func (s *OrderService) Get(workspaceID, id int64) (*dto.OrderDetail, error) {
	order, err := s.load(workspaceID, id)
	if err != nil {
		return nil, err
	}
	return detail(order), nil
}

func (s *OrderService) load(workspaceID, id int64) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(workspaceID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// UpdateStatus moves the fulfillment axis and stamps the matching timestamp.
func (s *OrderService) UpdateStatus(workspaceID, id int64, to model.OrderStatus) (*dto.OrderDetail, error) {
	order, err := s.load(workspaceID, id)
	if err != nil {
		return nil, err
	}
	if err := ValidateOrderTransition(order.Status, to); err != nil {
		return nil, err
	}

	from := order.Status
	now := s.now()
	order.Status = to
	switch to {
	case model.OrderStatusConfirmed:
		order.ConfirmedAt = &now
	case model.OrderStatusShipped:
		order.ShippedAt = &now
	case model.OrderStatusDelivered:
		order.DeliveredAt = &now
	case model.OrderStatusCancelled:
		order.CancelledAt = &now
	}
	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}

	log.Info().
		Int64("workspace_id", workspaceID).
		Int64("order_id", id).
		Str("from", string(from)).
		Str("to", string(to)).
		Msg("order status changed")
	return detail(order), nil
}

// UpdatePaymentStatus moves the payment axis, independent of fulfillment.
func (s *OrderService) UpdatePaymentStatus(workspaceID, id int64, to model.PaymentStatus) (*dto.OrderDetail, error) {
	order, err := s.load(workspaceID, id)
	if err != nil {
		return nil, err
	}
	if err := ValidatePaymentTransition(order.PaymentStatus, to); err != nil {
		return nil, err
	}

	order.PaymentStatus = to
	if to == model.PaymentStatusPaid {
		now := s.now()
		order.PaidAt = &now
	}
	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}

	log.Info().Int64("workspace_id", workspaceID).Int64("order_id", id).Str("payment_status", string(to)).Msg("order payment changed")
	return detail(order), nil
}

func detail(order *model.Order) *dto.OrderDetail {
	next := NextOrderStatuses(order.Status)
	if next == nil {
		next = []model.OrderStatus{}
	}
	return &dto.OrderDetail{Order: order, NextStatuses: next}
}
