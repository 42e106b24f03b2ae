package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	auditDomain "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/audit/domain"
	notificationDomain "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/notification/domain"

	"github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/registrar"
)

// MockNotificationDispatcher is a mock implementation of NotificationDispatcher for testing.
type MockNotificationDispatcher struct {
	mock.Mock
}

// Dispatch mocks the Dispatch method of NotificationDispatcher.
func (m *MockNotificationDispatcher) Dispatch(
	ctx context.Context,
	notification *notificationDomain.Notification,
) {
	m.Called(ctx, notification)
}

// MockAuditRecorder is a mock implementation of AuditRecorder for testing.
type MockAuditRecorder struct {
	mock.Mock
}

// Record mocks the Record method of AuditRecorder.
func (m *MockAuditRecorder) Record(ctx context.Context, entry *auditDomain.AuditLog) {
	m.Called(ctx, entry)
}

// MockRegistrarClient is a mock implementation of registrar.Client for testing.
type MockRegistrarClient struct {
	mock.Mock
}

// Purchase mocks the Purchase method of registrar.Client.
func (m *MockRegistrarClient) Purchase(
	ctx context.Context,
	req registrar.PurchaseRequest,
) (*registrar.PurchaseResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registrar.PurchaseResult), args.Error(1)
}

// ConfigureNameservers mocks the ConfigureNameservers method of registrar.Client.
func (m *MockRegistrarClient) ConfigureNameservers(
	ctx context.Context,
	sld, tld string,
	nameservers []string,
) error {
	args := m.Called(ctx, sld, tld, nameservers)
	return args.Error(0)
}
