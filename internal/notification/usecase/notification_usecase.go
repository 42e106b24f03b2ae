// Package usecase implements notification queueing and the background
// delivery loop.
package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/database"
	"github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/mailer"
	"github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/notification/domain"
)

// Config holds notification delivery configuration
type Config struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
}

// NotificationRepository defines notification repository operations
type NotificationRepository interface {
	Create(ctx context.Context, notification *domain.Notification) error
	GetPendingNotifications(ctx context.Context, limit int) ([]*domain.Notification, error)
	Update(ctx context.Context, notification *domain.Notification) error
	ListByUserID(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*domain.Notification, error)
}

// RecipientResolver maps a user id to a deliverable email address. Customer
// accounts live in the storefront, so deployments plug in whatever lookup
// they have.
type RecipientResolver interface {
	EmailFor(ctx context.Context, userID uuid.UUID) (string, error)
}

// StaticRecipientResolver routes every notification email to one inbox,
// typically the support mailbox, when no per-customer lookup is wired in.
type StaticRecipientResolver struct {
	Address string
}

// EmailFor returns the configured inbox for any user.
func (r StaticRecipientResolver) EmailFor(ctx context.Context, userID uuid.UUID) (string, error) {
	return r.Address, nil
}

// NotificationUseCase defines notification business logic.
type NotificationUseCase interface {
	// Dispatch queues a notification. Best-effort: failures are logged, never
	// returned, so queueing can sit on fulfillment paths without risk.
	Dispatch(ctx context.Context, notification *domain.Notification)

	// ListByUserID retrieves a page of a user's notifications.
	ListByUserID(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*domain.Notification, error)

	// Start runs the delivery loop until the context is cancelled.
	Start(ctx context.Context) error

	// DeliverPending delivers one batch of pending notifications.
	DeliverPending(ctx context.Context) error
}

// notificationUseCase implements the NotificationUseCase interface.
type notificationUseCase struct {
	config           Config
	txManager        database.TxManager
	notificationRepo NotificationRepository
	sender           mailer.Sender
	resolver         RecipientResolver
	logger           *slog.Logger
}

// NewNotificationUseCase creates a new notification use case instance.
func NewNotificationUseCase(
	config Config,
	txManager database.TxManager,
	notificationRepo NotificationRepository,
	sender mailer.Sender,
	resolver RecipientResolver,
	logger *slog.Logger,
) NotificationUseCase {
	return &notificationUseCase{
		config:           config,
		txManager:        txManager,
		notificationRepo: notificationRepo,
		sender:           sender,
		resolver:         resolver,
		logger:           logger,
	}
}

// Dispatch queues a notification for delivery.
func (uc *notificationUseCase) Dispatch(ctx context.Context, notification *domain.Notification) {
	if err := uc.notificationRepo.Create(ctx, notification); err != nil {
		uc.logger.Error("failed to queue notification",
			slog.String("user_id", notification.UserID.String()),
			slog.String("title", notification.Title),
			slog.Any("error", err),
		)
	}
}

// ListByUserID retrieves a page of a user's notifications.
func (uc *notificationUseCase) ListByUserID(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*domain.Notification, error) {
	return uc.notificationRepo.ListByUserID(ctx, userID, offset, limit)
}

// Start runs the delivery loop.
func (uc *notificationUseCase) Start(ctx context.Context) error {
	uc.logger.Info("starting notification delivery loop",
		slog.Duration("interval", uc.config.Interval),
		slog.Int("batch_size", uc.config.BatchSize),
	)

	ticker := time.NewTicker(uc.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			uc.logger.Info("stopping notification delivery loop")
			return ctx.Err()
		case <-ticker.C:
			if err := uc.DeliverPending(ctx); err != nil {
				uc.logger.Error("failed to deliver notifications", slog.Any("error", err))
			}
		}
	}
}

// DeliverPending claims a batch of pending notifications inside a transaction
// and attempts delivery. Row locks keep concurrent workers on disjoint batches.
func (uc *notificationUseCase) DeliverPending(ctx context.Context) error {
	return uc.txManager.WithTx(ctx, func(txCtx context.Context) error {
		notifications, err := uc.notificationRepo.GetPendingNotifications(txCtx, uc.config.BatchSize)
		if err != nil {
			return err
		}

		if len(notifications) == 0 {
			return nil
		}

		uc.logger.Info("delivering notifications", slog.Int("count", len(notifications)))

		for _, notification := range notifications {
			if err := uc.deliver(txCtx, notification); err != nil {
				uc.logger.Error("failed to deliver notification",
					slog.String("notification_id", notification.ID.String()),
					slog.Any("error", err),
				)

				notification.Retries++
				errorMsg := err.Error()
				notification.LastError = &errorMsg
				if notification.Retries >= uc.config.MaxRetries {
					notification.Status = domain.DeliveryStatusFailed
				}
				notification.UpdatedAt = time.Now().UTC()

				if err := uc.notificationRepo.Update(txCtx, notification); err != nil {
					return err
				}
				continue
			}

			now := time.Now().UTC()
			notification.Status = domain.DeliveryStatusSent
			notification.SentAt = &now
			notification.UpdatedAt = now

			if err := uc.notificationRepo.Update(txCtx, notification); err != nil {
				return err
			}
		}

		return nil
	})
}

// deliver emails a single notification to its resolved recipient.
func (uc *notificationUseCase) deliver(ctx context.Context, notification *domain.Notification) error {
	recipient, err := uc.resolver.EmailFor(ctx, notification.UserID)
	if err != nil {
		return err
	}

	return uc.sender.Send(recipient, notification.Title, notification.Message)
}
