package usecase

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/audit/domain"
	apperrors "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/errors"
	orderDomain "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/order/domain"
	registrationDomain "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/registration/domain"
)

type passthroughTxManager struct{}

func (passthroughTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockOrderRepository struct {
	mock.Mock
}

func (m *mockOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*orderDomain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orderDomain.Order), args.Error(1)
}

func (m *mockOrderRepository) TransitionStatus(
	ctx context.Context,
	id uuid.UUID,
	from, to orderDomain.OrderStatus,
) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}

type mockRegistrationRepository struct {
	mock.Mock
}

func (m *mockRegistrationRepository) GetByOrderID(
	ctx context.Context,
	orderID uuid.UUID,
) (*registrationDomain.DomainRegistration, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registrationDomain.DomainRegistration), args.Error(1)
}

type mockAuditRecorder struct {
	mock.Mock
}

func (m *mockAuditRecorder) Record(ctx context.Context, entry *auditDomain.AuditLog) {
	m.Called(ctx, entry)
}

func testOrder(status orderDomain.OrderStatus) *orderDomain.Order {
	now := time.Now().UTC()
	return &orderDomain.Order{
		ID:          uuid.Must(uuid.NewV7()),
		CustomerID:  uuid.Must(uuid.NewV7()),
		Status:      status,
		TotalAmount: 1499,
		Currency:    "usd",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func newOrderUseCaseForTest() (OrderUseCase, *mockOrderRepository, *mockRegistrationRepository, *mockAuditRecorder) {
	orderRepo := &mockOrderRepository{}
	registrationRepo := &mockRegistrationRepository{}
	auditor := &mockAuditRecorder{}

	uc := NewOrderUseCase(
		passthroughTxManager{},
		orderRepo,
		registrationRepo,
		auditor,
		slog.New(slog.DiscardHandler),
	)
	return uc, orderRepo, registrationRepo, auditor
}

func TestOrderUseCase_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the order with its registration", func(t *testing.T) {
		uc, orderRepo, registrationRepo, _ := newOrderUseCaseForTest()

		order := testOrder(orderDomain.OrderStatusCompleted)
		registration := registrationDomain.NewDomainRegistration(
			order.ID, order.CustomerID, "example.com", "com", 1, false,
			[]string{"ns1.example.net", "ns2.example.net"},
		)

		orderRepo.On("GetByID", ctx, order.ID).Return(order, nil).Once()
		registrationRepo.On("GetByOrderID", ctx, order.ID).Return(registration, nil).Once()

		detail, err := uc.Get(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, order, detail.Order)
		assert.Equal(t, registration, detail.Registration)
	})

	t.Run("returns the order alone when no registration exists yet", func(t *testing.T) {
		uc, orderRepo, registrationRepo, _ := newOrderUseCaseForTest()

		order := testOrder(orderDomain.OrderStatusPending)

		orderRepo.On("GetByID", ctx, order.ID).Return(order, nil).Once()
		registrationRepo.On("GetByOrderID", ctx, order.ID).Return(nil, apperrors.ErrNotFound).Once()

		detail, err := uc.Get(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, order, detail.Order)
		assert.Nil(t, detail.Registration)
	})

	t.Run("propagates order not found", func(t *testing.T) {
		uc, orderRepo, _, _ := newOrderUseCaseForTest()

		orderID := uuid.Must(uuid.NewV7())
		orderRepo.On("GetByID", ctx, orderID).Return(nil, orderDomain.ErrOrderNotFound).Once()

		_, err := uc.Get(ctx, orderID)
		assert.ErrorIs(t, err, orderDomain.ErrOrderNotFound)
	})
}

func TestOrderUseCase_Requeue(t *testing.T) {
	ctx := context.Background()

	t.Run("moves a failed order back to pending with an audit entry", func(t *testing.T) {
		uc, orderRepo, _, auditor := newOrderUseCaseForTest()

		order := testOrder(orderDomain.OrderStatusFailed)

		orderRepo.On("GetByID", ctx, order.ID).Return(order, nil).Once()
		orderRepo.On("TransitionStatus", ctx, order.ID,
			orderDomain.OrderStatusFailed, orderDomain.OrderStatusPending).Return(nil).Once()
		auditor.On("Record", ctx,
			mock.MatchedBy(func(entry *auditDomain.AuditLog) bool {
				return entry.Action == auditDomain.ActionOrderRequeued
			})).Once()

		err := uc.Requeue(ctx, order.ID)
		require.NoError(t, err)

		orderRepo.AssertExpectations(t)
		auditor.AssertExpectations(t)
	})

	t.Run("rejects requeue of a completed order", func(t *testing.T) {
		uc, orderRepo, _, auditor := newOrderUseCaseForTest()

		order := testOrder(orderDomain.OrderStatusCompleted)
		orderRepo.On("GetByID", ctx, order.ID).Return(order, nil).Once()

		err := uc.Requeue(ctx, order.ID)
		assert.ErrorIs(t, err, orderDomain.ErrInvalidTransition)

		orderRepo.AssertNotCalled(t, "TransitionStatus",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		auditor.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
	})

	t.Run("rejects requeue of a pending order", func(t *testing.T) {
		uc, orderRepo, _, _ := newOrderUseCaseForTest()

		order := testOrder(orderDomain.OrderStatusPending)
		orderRepo.On("GetByID", ctx, order.ID).Return(order, nil).Once()

		err := uc.Requeue(ctx, order.ID)
		assert.ErrorIs(t, err, orderDomain.ErrInvalidTransition)
	})
}
