// Package mocks provides mock implementations for testing the webhook
// reconciliation use case.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	billingDomain "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/billing/domain"
	orderDomain "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/order/domain"
	registrationDomain "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/registration/domain"
)

// MockWebhookEventRepository is a mock implementation of WebhookEventRepository for testing.
type MockWebhookEventRepository struct {
	mock.Mock
}

// CreateIfNew mocks the CreateIfNew method of WebhookEventRepository.
func (m *MockWebhookEventRepository) CreateIfNew(
	ctx context.Context,
	event *billingDomain.WebhookEvent,
) (bool, error) {
	args := m.Called(ctx, event)
	return args.Bool(0), args.Error(1)
}

// MockOrderRepository is a mock implementation of OrderRepository for testing.
type MockOrderRepository struct {
	mock.Mock
}

// GetByID mocks the GetByID method of OrderRepository.
func (m *MockOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*orderDomain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orderDomain.Order), args.Error(1)
}

// TransitionStatus mocks the TransitionStatus method of OrderRepository.
func (m *MockOrderRepository) TransitionStatus(
	ctx context.Context,
	id uuid.UUID,
	from, to orderDomain.OrderStatus,
) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}

// SetPaymentIntent mocks the SetPaymentIntent method of OrderRepository.
func (m *MockOrderRepository) SetPaymentIntent(
	ctx context.Context,
	id uuid.UUID,
	paymentIntentID string,
) error {
	args := m.Called(ctx, id, paymentIntentID)
	return args.Error(0)
}

// MockRegistrationRepository is a mock implementation of RegistrationRepository for testing.
type MockRegistrationRepository struct {
	mock.Mock
}

// Create mocks the Create method of RegistrationRepository.
func (m *MockRegistrationRepository) Create(
	ctx context.Context,
	registration *registrationDomain.DomainRegistration,
) error {
	args := m.Called(ctx, registration)
	return args.Error(0)
}

// Update mocks the Update method of RegistrationRepository.
func (m *MockRegistrationRepository) Update(
	ctx context.Context,
	registration *registrationDomain.DomainRegistration,
) error {
	args := m.Called(ctx, registration)
	return args.Error(0)
}
