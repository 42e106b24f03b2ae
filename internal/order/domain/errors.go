package domain

import "errors"

var (
	// ErrOrderNotFound indicates no order exists for the given id.
	ErrOrderNotFound = errors.New("order not found")

	// ErrOrderNotPending indicates the order already left the pending state.
	// Duplicate webhook deliveries observe this as a benign no-op.
	ErrOrderNotPending = errors.New("order is not pending")

	// ErrInvalidTransition indicates a status change the state machine forbids.
	ErrInvalidTransition = errors.New("invalid order status transition")
)
