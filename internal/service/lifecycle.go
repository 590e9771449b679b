package service

import (
	"errors"
	"fmt"

	"github.com/inboop/inboop_server/internal/model"
)

// Kinds of *TransitionError, for errors.Is.
var (
	ErrInvalidOrderTransition   = errors.New("invalid order status transition")
	ErrInvalidPaymentTransition = errors.New("invalid payment status transition")
	ErrInvalidLeadTransition    = errors.New("invalid lead status transition")
)

// TransitionError reports a rejected status change.
type TransitionError struct {
	kind error
	From string `json:"from"`
	To   string `json:"to"`
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", e.kind, e.From, e.To)
}

func (e *TransitionError) Is(target error) bool {
	return target == e.kind
}

func (e *TransitionError) Unwrap() error {
	return e.kind
}

// Fulfillment track. Rows in a legacy status are frozen: they have no
// entry here, so every transition out of them is rejected.
var orderTransitions = map[model.OrderStatus]map[model.OrderStatus]bool{
	model.OrderStatusNew:       {model.OrderStatusConfirmed: true, model.OrderStatusCancelled: true},
	model.OrderStatusConfirmed: {model.OrderStatusShipped: true, model.OrderStatusCancelled: true},
	model.OrderStatusShipped:   {model.OrderStatusDelivered: true, model.OrderStatusCancelled: true},
	model.OrderStatusDelivered: {},
	model.OrderStatusCancelled: {},
}

var paymentTransitions = map[model.PaymentStatus]map[model.PaymentStatus]bool{
	model.PaymentStatusUnpaid:   {model.PaymentStatusPaid: true},
	model.PaymentStatusPaid:     {model.PaymentStatusRefunded: true},
	model.PaymentStatusRefunded: {},
}

// Only NEW moves. Legacy statuses are frozen like the terminal ones.
var leadTransitions = map[model.LeadStatus]map[model.LeadStatus]bool{
	model.LeadStatusNew: {
		model.LeadStatusConverted: true,
		model.LeadStatusClosed:    true,
		model.LeadStatusLost:      true,
	},
}

// ValidateOrderTransition checks a fulfillment change. Payment status is
// never consulted.
func ValidateOrderTransition(from, to model.OrderStatus) error {
	if to.Legacy() || !orderTransitions[from][to] {
		return &TransitionError{kind: ErrInvalidOrderTransition, From: string(from), To: string(to)}
	}
	return nil
}

// ValidatePaymentTransition checks a payment change. Fulfillment status is
// never consulted.
func ValidatePaymentTransition(from, to model.PaymentStatus) error {
	if !paymentTransitions[from][to] {
		return &TransitionError{kind: ErrInvalidPaymentTransition, From: string(from), To: string(to)}
	}
	return nil
}

func ValidateLeadTransition(from, to model.LeadStatus) error {
	if to.Legacy() || !leadTransitions[from][to] {
		return &TransitionError{kind: ErrInvalidLeadTransition, From: string(from), To: string(to)}
	}
	return nil
}

// NextOrderStatuses lists the legal targets from s, in track order.
func NextOrderStatuses(s model.OrderStatus) []model.OrderStatus {
	var next []model.OrderStatus
	for _, to := range []model.OrderStatus{
		model.OrderStatusConfirmed,
		model.OrderStatusShipped,
		model.OrderStatusDelivered,
		model.OrderStatusCancelled,
	} {
		if orderTransitions[s][to] {
			next = append(next, to)
		}
	}
	return next
}
