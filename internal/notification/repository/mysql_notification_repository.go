package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/database"
	"github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/notification/domain"

	apperrors "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/errors"
)

// MySQLNotificationRepository handles notification persistence for MySQL
type MySQLNotificationRepository struct {
	db *sql.DB
}

// NewMySQLNotificationRepository creates a new MySQLNotificationRepository
func NewMySQLNotificationRepository(db *sql.DB) *MySQLNotificationRepository {
	return &MySQLNotificationRepository{
		db: db,
	}
}

// Create persists a new notification.
func (r *MySQLNotificationRepository) Create(
	ctx context.Context,
	notification *domain.Notification,
) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO notifications (id, user_id, title, message, severity, category,
										 related_id, status, retries, last_error, sent_at,
										 created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(ctx, query,
		notification.ID, notification.UserID, notification.Title,
		notification.Message, notification.Severity, notification.Category,
		notification.RelatedID, notification.Status, notification.Retries,
		notification.LastError, notification.SentAt,
		notification.CreatedAt, notification.UpdatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create notification")
	}

	return nil
}

// GetPendingNotifications retrieves pending notifications with row locking.
// Call inside a transaction: SKIP LOCKED lets concurrent delivery workers
// claim disjoint batches.
func (r *MySQLNotificationRepository) GetPendingNotifications(
	ctx context.Context,
	limit int,
) ([]*domain.Notification, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, user_id, title, message, severity, category, related_id,
					 status, retries, last_error, sent_at, created_at, updated_at
			  FROM notifications
			  WHERE status = ?
			  ORDER BY created_at ASC
			  LIMIT ?
			  FOR UPDATE SKIP LOCKED`

	rows, err := querier.QueryContext(ctx, query, domain.DeliveryStatusPending, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get pending notifications")
	}
	defer rows.Close()

	return collectNotifications(rows)
}

// Update persists the notification's delivery state.
func (r *MySQLNotificationRepository) Update(
	ctx context.Context,
	notification *domain.Notification,
) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE notifications
			  SET status = ?, retries = ?, last_error = ?, sent_at = ?, updated_at = ?
			  WHERE id = ?`

	_, err := querier.ExecContext(ctx, query,
		notification.Status, notification.Retries, notification.LastError,
		notification.SentAt, notification.UpdatedAt, notification.ID)
	if err != nil {
		return apperrors.Wrap(err, "failed to update notification")
	}

	return nil
}

// ListByUserID retrieves a page of a user's notifications, newest first.
func (r *MySQLNotificationRepository) ListByUserID(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*domain.Notification, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, user_id, title, message, severity, category, related_id,
					 status, retries, last_error, sent_at, created_at, updated_at
			  FROM notifications
			  WHERE user_id = ?
			  ORDER BY created_at DESC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list notifications")
	}
	defer rows.Close()

	return collectNotifications(rows)
}
