// Package usecase implements the webhook reconciliation flow: it turns a
// verified checkout event into an order transition, a domain registration and
// the customer-facing notification, exactly once per external event id.
package usecase

import (
	"context"

	"github.com/google/uuid"

	auditDomain "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/audit/domain"
	billingDomain "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/billing/domain"
	notificationDomain "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/notification/domain"
	orderDomain "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/order/domain"
	registrationDomain "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/registration/domain"
)

// WebhookEventRepository defines the idempotency ledger persistence operations.
type WebhookEventRepository interface {
	// CreateIfNew records the event id and reports whether this call was the
	// first to see it.
	CreateIfNew(ctx context.Context, event *billingDomain.WebhookEvent) (bool, error)
}

// OrderRepository defines the order persistence operations the flow needs.
type OrderRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*orderDomain.Order, error)
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to orderDomain.OrderStatus) error
	SetPaymentIntent(ctx context.Context, id uuid.UUID, paymentIntentID string) error
}

// RegistrationRepository defines the domain registration persistence operations.
type RegistrationRepository interface {
	Create(ctx context.Context, registration *registrationDomain.DomainRegistration) error
	Update(ctx context.Context, registration *registrationDomain.DomainRegistration) error
}

// NotificationDispatcher queues user-facing notifications. Implementations are
// best-effort: they log failures instead of returning them.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, notification *notificationDomain.Notification)
}

// AuditRecorder appends audit trail entries. Implementations are best-effort:
// they log failures instead of returning them.
type AuditRecorder interface {
	Record(ctx context.Context, entry *auditDomain.AuditLog)
}

// WebhookUseCase defines the webhook reconciliation business logic.
type WebhookUseCase interface {
	// HandleEvent reconciles one verified webhook event. Sentinel errors
	// classify outcomes the HTTP layer still acknowledges with 200:
	// billingDomain.ErrDuplicateEvent, billingDomain.ErrOwnershipMismatch,
	// orderDomain.ErrOrderNotFound and orderDomain.ErrOrderNotPending.
	HandleEvent(ctx context.Context, event *billingDomain.Event) error
}
