// Package domain defines the order domain model and its status state machine.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus represents the fulfillment state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusFailed     OrderStatus = "failed"
)

// Order is a paid-for piece of work owned by exactly one customer.
// TotalAmount is expressed in the smallest currency unit (cents for USD) so
// arithmetic stays exact.
type Order struct {
	ID              uuid.UUID
	CustomerID      uuid.UUID
	Status          OrderStatus
	TotalAmount     int64
	Currency        string
	PaymentIntentID *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// validTransitions holds the forward-only status graph. The single backward
// edge, failed -> pending, exists for explicit operator requeue only.
var validTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusFailed},
	OrderStatusProcessing: {OrderStatusCompleted, OrderStatusFailed},
	OrderStatusCompleted:  {},
	OrderStatusFailed:     {OrderStatusPending},
}

// CanTransitionTo reports whether the order may move to the target status.
// A completed order never regresses.
func (o *Order) CanTransitionTo(target OrderStatus) bool {
	for _, allowed := range validTransitions[o.Status] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsPending reports whether the order is still awaiting fulfillment.
func (o *Order) IsPending() bool {
	return o.Status == OrderStatusPending
}

// IsTerminal reports whether the order reached a final state for this
// fulfillment attempt.
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusCompleted || o.Status == OrderStatusFailed
}

// IsOwnedBy reports whether the order belongs to the given customer.
func (o *Order) IsOwnedBy(customerID uuid.UUID) bool {
	return o.CustomerID == customerID
}
