package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestOrder_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name     string
		from     OrderStatus
		to       OrderStatus
		expected bool
	}{
		{"Pending to processing", OrderStatusPending, OrderStatusProcessing, true},
		{"Pending to failed", OrderStatusPending, OrderStatusFailed, true},
		{"Pending to completed skips processing", OrderStatusPending, OrderStatusCompleted, false},
		{"Processing to completed", OrderStatusProcessing, OrderStatusCompleted, true},
		{"Processing to failed", OrderStatusProcessing, OrderStatusFailed, true},
		{"Processing back to pending", OrderStatusProcessing, OrderStatusPending, false},
		{"Completed never regresses to pending", OrderStatusCompleted, OrderStatusPending, false},
		{"Completed never regresses to failed", OrderStatusCompleted, OrderStatusFailed, false},
		{"Completed never regresses to processing", OrderStatusCompleted, OrderStatusProcessing, false},
		{"Failed to pending via operator requeue", OrderStatusFailed, OrderStatusPending, true},
		{"Failed to completed", OrderStatusFailed, OrderStatusCompleted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := &Order{Status: tt.from}
			assert.Equal(t, tt.expected, order.CanTransitionTo(tt.to))
		})
	}
}

func TestOrder_IsPending(t *testing.T) {
	assert.True(t, (&Order{Status: OrderStatusPending}).IsPending())
	assert.False(t, (&Order{Status: OrderStatusProcessing}).IsPending())
	assert.False(t, (&Order{Status: OrderStatusCompleted}).IsPending())
}

func TestOrder_IsTerminal(t *testing.T) {
	assert.False(t, (&Order{Status: OrderStatusPending}).IsTerminal())
	assert.False(t, (&Order{Status: OrderStatusProcessing}).IsTerminal())
	assert.True(t, (&Order{Status: OrderStatusCompleted}).IsTerminal())
	assert.True(t, (&Order{Status: OrderStatusFailed}).IsTerminal())
}

func TestOrder_IsOwnedBy(t *testing.T) {
	owner := uuid.Must(uuid.NewV7())
	other := uuid.Must(uuid.NewV7())

	order := &Order{CustomerID: owner}
	assert.True(t, order.IsOwnedBy(owner))
	assert.False(t, order.IsOwnedBy(other))
}
