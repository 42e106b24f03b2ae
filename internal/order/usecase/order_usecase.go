// Package usecase implements order queries and the operator requeue flow.
package usecase

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/database"

	auditDomain "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/audit/domain"
	apperrors "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/errors"
	orderDomain "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/order/domain"
	registrationDomain "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/registration/domain"
)

// OrderRepository defines the order persistence operations.
type OrderRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*orderDomain.Order, error)
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to orderDomain.OrderStatus) error
}

// RegistrationRepository defines the registration lookup used by order detail.
type RegistrationRepository interface {
	GetByOrderID(ctx context.Context, orderID uuid.UUID) (*registrationDomain.DomainRegistration, error)
}

// AuditRecorder appends audit trail entries.
type AuditRecorder interface {
	Record(ctx context.Context, entry *auditDomain.AuditLog)
}

// OrderDetail is an order together with its registration, when one exists.
type OrderDetail struct {
	Order        *orderDomain.Order
	Registration *registrationDomain.DomainRegistration
}

// OrderUseCase defines order business logic.
type OrderUseCase interface {
	// Get retrieves an order and, when present, its domain registration.
	Get(ctx context.Context, id uuid.UUID) (*OrderDetail, error)

	// Requeue moves a failed order back to pending so the next webhook
	// redelivery can retry fulfillment. Only the failed state is requeueable.
	Requeue(ctx context.Context, id uuid.UUID) error
}

// orderUseCase implements the OrderUseCase interface.
type orderUseCase struct {
	txManager        database.TxManager
	orderRepo        OrderRepository
	registrationRepo RegistrationRepository
	auditor          AuditRecorder
	logger           *slog.Logger
}

// NewOrderUseCase creates a new order use case instance.
func NewOrderUseCase(
	txManager database.TxManager,
	orderRepo OrderRepository,
	registrationRepo RegistrationRepository,
	auditor AuditRecorder,
	logger *slog.Logger,
) OrderUseCase {
	return &orderUseCase{
		txManager:        txManager,
		orderRepo:        orderRepo,
		registrationRepo: registrationRepo,
		auditor:          auditor,
		logger:           logger,
	}
}

// Get retrieves an order with its registration. An order without a
// registration is a valid state: payment may not have arrived yet.
func (uc *orderUseCase) Get(ctx context.Context, id uuid.UUID) (*OrderDetail, error) {
	order, err := uc.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	registration, err := uc.registrationRepo.GetByOrderID(ctx, order.ID)
	if err != nil && !apperrors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	return &OrderDetail{Order: order, Registration: registration}, nil
}

// Requeue transitions a failed order back to pending.
func (uc *orderUseCase) Requeue(ctx context.Context, id uuid.UUID) error {
	err := uc.txManager.WithTx(ctx, func(txCtx context.Context) error {
		order, err := uc.orderRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		if !order.CanTransitionTo(orderDomain.OrderStatusPending) {
			return apperrors.Wrapf(orderDomain.ErrInvalidTransition,
				"order %s is %s, only failed orders can be requeued", id, order.Status)
		}

		return uc.orderRepo.TransitionStatus(txCtx, id,
			orderDomain.OrderStatusFailed, orderDomain.OrderStatusPending)
	})
	if err != nil {
		return err
	}

	uc.auditor.Record(ctx, auditDomain.NewAuditLog(
		uuid.Nil,
		auditDomain.ActionOrderRequeued,
		auditDomain.EntityTypeOrder,
		id.String(),
		"operator requeued failed order for retry",
		map[string]any{"status": string(orderDomain.OrderStatusFailed)},
		map[string]any{"status": string(orderDomain.OrderStatusPending)},
	))

	uc.logger.Info("order requeued", slog.String("order_id", id.String()))
	return nil
}
