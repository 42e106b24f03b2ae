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

	"github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/registrar"

	auditDomain "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/audit/domain"
	billingDomain "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/billing/domain"
	usecaseMocks "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/billing/usecase/mocks"
	apperrors "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/errors"
	notificationDomain "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/notification/domain"
	orderDomain "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/order/domain"
	registrationDomain "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/registration/domain"
)

// passthroughTxManager runs the transactional function directly, without a
// database, so use case logic can be tested in isolation.
type passthroughTxManager struct{}

func (passthroughTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type webhookTestDeps struct {
	eventRepo        *usecaseMocks.MockWebhookEventRepository
	orderRepo        *usecaseMocks.MockOrderRepository
	registrationRepo *usecaseMocks.MockRegistrationRepository
	registrarClient  *usecaseMocks.MockRegistrarClient
	dispatcher       *usecaseMocks.MockNotificationDispatcher
	auditor          *usecaseMocks.MockAuditRecorder
}

func newWebhookUseCaseForTest(t *testing.T) (WebhookUseCase, *webhookTestDeps) {
	t.Helper()

	deps := &webhookTestDeps{
		eventRepo:        &usecaseMocks.MockWebhookEventRepository{},
		orderRepo:        &usecaseMocks.MockOrderRepository{},
		registrationRepo: &usecaseMocks.MockRegistrationRepository{},
		registrarClient:  &usecaseMocks.MockRegistrarClient{},
		dispatcher:       &usecaseMocks.MockNotificationDispatcher{},
		auditor:          &usecaseMocks.MockAuditRecorder{},
	}

	uc := NewWebhookUseCase(
		passthroughTxManager{},
		deps.eventRepo,
		deps.orderRepo,
		deps.registrationRepo,
		deps.registrarClient,
		deps.dispatcher,
		deps.auditor,
		5*time.Second,
		slog.New(slog.DiscardHandler),
	)
	return uc, deps
}

func checkoutEvent(orderID, customerID uuid.UUID) *billingDomain.Event {
	return &billingDomain.Event{
		ID:      "evt_test_1",
		Type:    billingDomain.EventTypeCheckoutCompleted,
		Created: time.Now().Unix(),
		Data: billingDomain.EventData{
			Object: billingDomain.CheckoutSession{
				ID:            "cs_test_1",
				PaymentIntent: "pi_test_1",
				AmountTotal:   1499,
				Currency:      "usd",
				Metadata: map[string]string{
					"order_id":    orderID.String(),
					"customer_id": customerID.String(),
					"domain":      "example.com",
					"years":       "2",
					"id_protect":  "true",
					"nameservers": "ns1.example.net,ns2.example.net",
				},
			},
		},
	}
}

func pendingOrder(orderID, customerID uuid.UUID) *orderDomain.Order {
	now := time.Now().UTC()
	return &orderDomain.Order{
		ID:          orderID,
		CustomerID:  customerID,
		Status:      orderDomain.OrderStatusPending,
		TotalAmount: 1499,
		Currency:    "usd",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestWebhookUseCase_HandleEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("completes the order when the registrar purchase succeeds", func(t *testing.T) {
		uc, deps := newWebhookUseCaseForTest(t)

		orderID := uuid.Must(uuid.NewV7())
		customerID := uuid.Must(uuid.NewV7())
		event := checkoutEvent(orderID, customerID)

		deps.eventRepo.On("CreateIfNew", mock.Anything, mock.Anything).Return(true, nil).Once()
		deps.orderRepo.On("GetByID", mock.Anything, orderID).
			Return(pendingOrder(orderID, customerID), nil).Once()
		deps.orderRepo.On("TransitionStatus", mock.Anything, orderID,
			orderDomain.OrderStatusPending, orderDomain.OrderStatusProcessing).Return(nil).Once()
		deps.orderRepo.On("SetPaymentIntent", mock.Anything, orderID, "pi_test_1").Return(nil).Once()

		deps.registrationRepo.On("Create", mock.Anything,
			mock.MatchedBy(func(r *registrationDomain.DomainRegistration) bool {
				return r.DomainName == "example.com" && r.TLD == "com" && r.Years == 2 &&
					r.IDProtect && r.Status == registrationDomain.RegistrationStatusRegistering
			})).Return(nil).Once()

		deps.registrarClient.On("Purchase", mock.Anything, registrar.PurchaseRequest{
			SLD:         "example",
			TLD:         "com",
			Years:       2,
			Nameservers: []string{"ns1.example.net", "ns2.example.net"},
			IDProtect:   true,
		}).Return(&registrar.PurchaseResult{ExternalOrderID: "reg_abc123"}, nil).Once()

		deps.registrationRepo.On("Update", mock.Anything,
			mock.MatchedBy(func(r *registrationDomain.DomainRegistration) bool {
				return r.Status == registrationDomain.RegistrationStatusActive &&
					r.ExternalRegistrarID != nil && *r.ExternalRegistrarID == "reg_abc123" &&
					r.ExpiryDate != nil
			})).Return(nil).Once()
		deps.orderRepo.On("TransitionStatus", mock.Anything, orderID,
			orderDomain.OrderStatusProcessing, orderDomain.OrderStatusCompleted).Return(nil).Once()

		deps.dispatcher.On("Dispatch", mock.Anything,
			mock.MatchedBy(func(n *notificationDomain.Notification) bool {
				return n.UserID == customerID && n.Severity == notificationDomain.SeveritySuccess
			})).Once()
		deps.auditor.On("Record", mock.Anything, mock.Anything)

		deps.registrarClient.On("ConfigureNameservers", mock.Anything, "example", "com",
			[]string{"ns1.example.net", "ns2.example.net"}).Return(nil).Once()

		err := uc.HandleEvent(ctx, event)
		require.NoError(t, err)

		deps.orderRepo.AssertExpectations(t)
		deps.registrationRepo.AssertExpectations(t)
		deps.registrarClient.AssertExpectations(t)
		deps.dispatcher.AssertNumberOfCalls(t, "Dispatch", 1)
	})

	t.Run("fails the order when the registrar rejects the purchase", func(t *testing.T) {
		uc, deps := newWebhookUseCaseForTest(t)

		orderID := uuid.Must(uuid.NewV7())
		customerID := uuid.Must(uuid.NewV7())
		event := checkoutEvent(orderID, customerID)

		deps.eventRepo.On("CreateIfNew", mock.Anything, mock.Anything).Return(true, nil).Once()
		deps.orderRepo.On("GetByID", mock.Anything, orderID).
			Return(pendingOrder(orderID, customerID), nil).Once()
		deps.orderRepo.On("TransitionStatus", mock.Anything, orderID,
			orderDomain.OrderStatusPending, orderDomain.OrderStatusProcessing).Return(nil).Once()
		deps.orderRepo.On("SetPaymentIntent", mock.Anything, orderID, "pi_test_1").Return(nil).Once()
		deps.registrationRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

		deps.registrarClient.On("Purchase", mock.Anything, mock.Anything).
			Return(nil, &registrar.APIError{Codes: []string{"DOMAIN_UNAVAILABLE"}}).Once()

		deps.registrationRepo.On("Update", mock.Anything,
			mock.MatchedBy(func(r *registrationDomain.DomainRegistration) bool {
				return r.Status == registrationDomain.RegistrationStatusFailed &&
					r.LastError != nil
			})).Return(nil).Once()
		deps.orderRepo.On("TransitionStatus", mock.Anything, orderID,
			orderDomain.OrderStatusProcessing, orderDomain.OrderStatusFailed).Return(nil).Once()

		deps.dispatcher.On("Dispatch", mock.Anything,
			mock.MatchedBy(func(n *notificationDomain.Notification) bool {
				return n.Severity == notificationDomain.SeverityError
			})).Once()
		deps.auditor.On("Record", mock.Anything, mock.Anything)

		err := uc.HandleEvent(ctx, event)
		require.NoError(t, err)

		deps.orderRepo.AssertExpectations(t)
		deps.registrationRepo.AssertExpectations(t)
		deps.dispatcher.AssertNumberOfCalls(t, "Dispatch", 1)
		deps.registrarClient.AssertNotCalled(t, "ConfigureNameservers",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("acknowledges a duplicate event without touching the order", func(t *testing.T) {
		uc, deps := newWebhookUseCaseForTest(t)

		orderID := uuid.Must(uuid.NewV7())
		customerID := uuid.Must(uuid.NewV7())
		event := checkoutEvent(orderID, customerID)

		deps.eventRepo.On("CreateIfNew", mock.Anything, mock.Anything).Return(false, nil).Once()
		deps.auditor.On("Record", mock.Anything, mock.Anything)

		err := uc.HandleEvent(ctx, event)
		assert.ErrorIs(t, err, billingDomain.ErrDuplicateEvent)

		deps.orderRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
		deps.registrarClient.AssertNotCalled(t, "Purchase", mock.Anything, mock.Anything)
	})

	t.Run("rejects an ownership mismatch without mutating the order", func(t *testing.T) {
		uc, deps := newWebhookUseCaseForTest(t)

		orderID := uuid.Must(uuid.NewV7())
		ownerID := uuid.Must(uuid.NewV7())
		attackerID := uuid.Must(uuid.NewV7())
		event := checkoutEvent(orderID, attackerID)

		deps.eventRepo.On("CreateIfNew", mock.Anything, mock.Anything).Return(true, nil).Once()
		deps.orderRepo.On("GetByID", mock.Anything, orderID).
			Return(pendingOrder(orderID, ownerID), nil).Once()
		deps.auditor.On("Record", mock.Anything,
			mock.MatchedBy(func(entry *auditDomain.AuditLog) bool {
				return entry.Action == auditDomain.ActionOwnershipViolation
			})).Once()

		err := uc.HandleEvent(ctx, event)
		assert.ErrorIs(t, err, billingDomain.ErrOwnershipMismatch)

		deps.auditor.AssertExpectations(t)
		deps.orderRepo.AssertNotCalled(t, "TransitionStatus",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		deps.registrarClient.AssertNotCalled(t, "Purchase", mock.Anything, mock.Anything)
	})

	t.Run("acknowledges an order that already left pending", func(t *testing.T) {
		uc, deps := newWebhookUseCaseForTest(t)

		orderID := uuid.Must(uuid.NewV7())
		customerID := uuid.Must(uuid.NewV7())
		event := checkoutEvent(orderID, customerID)

		order := pendingOrder(orderID, customerID)
		order.Status = orderDomain.OrderStatusCompleted

		deps.eventRepo.On("CreateIfNew", mock.Anything, mock.Anything).Return(true, nil).Once()
		deps.orderRepo.On("GetByID", mock.Anything, orderID).Return(order, nil).Once()

		err := uc.HandleEvent(ctx, event)
		assert.ErrorIs(t, err, orderDomain.ErrOrderNotPending)

		deps.registrarClient.AssertNotCalled(t, "Purchase", mock.Anything, mock.Anything)
	})

	t.Run("rejects invalid metadata before any registrar call", func(t *testing.T) {
		uc, deps := newWebhookUseCaseForTest(t)

		event := checkoutEvent(uuid.Must(uuid.NewV7()), uuid.Must(uuid.NewV7()))
		event.Data.Object.Metadata["years"] = "11"

		deps.auditor.On("Record", mock.Anything,
			mock.MatchedBy(func(entry *auditDomain.AuditLog) bool {
				return entry.Action == auditDomain.ActionMetadataRejected
			})).Once()

		err := uc.HandleEvent(ctx, event)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

		deps.eventRepo.AssertNotCalled(t, "CreateIfNew", mock.Anything, mock.Anything)
		deps.registrarClient.AssertNotCalled(t, "Purchase", mock.Anything, mock.Anything)
	})

	t.Run("ignores event types other than checkout completion", func(t *testing.T) {
		uc, deps := newWebhookUseCaseForTest(t)

		event := checkoutEvent(uuid.Must(uuid.NewV7()), uuid.Must(uuid.NewV7()))
		event.Type = "invoice.paid"

		err := uc.HandleEvent(ctx, event)
		require.NoError(t, err)

		deps.eventRepo.AssertNotCalled(t, "CreateIfNew", mock.Anything, mock.Anything)
	})

	t.Run("treats a nameserver configuration failure as non-fatal", func(t *testing.T) {
		uc, deps := newWebhookUseCaseForTest(t)

		orderID := uuid.Must(uuid.NewV7())
		customerID := uuid.Must(uuid.NewV7())
		event := checkoutEvent(orderID, customerID)

		deps.eventRepo.On("CreateIfNew", mock.Anything, mock.Anything).Return(true, nil).Once()
		deps.orderRepo.On("GetByID", mock.Anything, orderID).
			Return(pendingOrder(orderID, customerID), nil).Once()
		deps.orderRepo.On("TransitionStatus", mock.Anything, orderID,
			orderDomain.OrderStatusPending, orderDomain.OrderStatusProcessing).Return(nil).Once()
		deps.orderRepo.On("SetPaymentIntent", mock.Anything, orderID, "pi_test_1").Return(nil).Once()
		deps.registrationRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
		deps.registrarClient.On("Purchase", mock.Anything, mock.Anything).
			Return(&registrar.PurchaseResult{ExternalOrderID: "reg_abc123"}, nil).Once()
		deps.registrationRepo.On("Update", mock.Anything, mock.Anything).Return(nil).Once()
		deps.orderRepo.On("TransitionStatus", mock.Anything, orderID,
			orderDomain.OrderStatusProcessing, orderDomain.OrderStatusCompleted).Return(nil).Once()
		deps.dispatcher.On("Dispatch", mock.Anything, mock.Anything).Once()
		deps.registrarClient.On("ConfigureNameservers",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(assert.AnError).Once()

		deps.auditor.On("Record", mock.Anything, mock.Anything)

		err := uc.HandleEvent(ctx, event)
		require.NoError(t, err)

		deps.auditor.AssertCalled(t, "Record", mock.Anything,
			mock.MatchedBy(func(entry *auditDomain.AuditLog) bool {
				return entry.Action == auditDomain.ActionNameserverConfigSkip
			}))
	})
}
