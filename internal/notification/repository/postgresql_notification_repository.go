// Package repository provides data persistence implementations for
// notifications.
package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/database"
	"github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/notification/domain"

	apperrors "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/errors"
)

// PostgreSQLNotificationRepository handles notification persistence for PostgreSQL
type PostgreSQLNotificationRepository struct {
	db *sql.DB
}

// NewPostgreSQLNotificationRepository creates a new PostgreSQLNotificationRepository
func NewPostgreSQLNotificationRepository(db *sql.DB) *PostgreSQLNotificationRepository {
	return &PostgreSQLNotificationRepository{
		db: db,
	}
}

// Create persists a new notification.
func (r *PostgreSQLNotificationRepository) Create(
	ctx context.Context,
	notification *domain.Notification,
) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO notifications (id, user_id, title, message, severity, category,
										 related_id, status, retries, last_error, sent_at,
										 created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

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
func (r *PostgreSQLNotificationRepository) GetPendingNotifications(
	ctx context.Context,
	limit int,
) ([]*domain.Notification, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, user_id, title, message, severity, category, related_id,
					 status, retries, last_error, sent_at, created_at, updated_at
			  FROM notifications
			  WHERE status = $1
			  ORDER BY created_at ASC
			  LIMIT $2
			  FOR UPDATE SKIP LOCKED`

	rows, err := querier.QueryContext(ctx, query, domain.DeliveryStatusPending, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get pending notifications")
	}
	defer rows.Close()

	return collectNotifications(rows)
}

// Update persists the notification's delivery state.
func (r *PostgreSQLNotificationRepository) Update(
	ctx context.Context,
	notification *domain.Notification,
) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE notifications
			  SET status = $1, retries = $2, last_error = $3, sent_at = $4, updated_at = $5
			  WHERE id = $6`

	_, err := querier.ExecContext(ctx, query,
		notification.Status, notification.Retries, notification.LastError,
		notification.SentAt, notification.UpdatedAt, notification.ID)
	if err != nil {
		return apperrors.Wrap(err, "failed to update notification")
	}

	return nil
}

// ListByUserID retrieves a page of a user's notifications, newest first.
func (r *PostgreSQLNotificationRepository) ListByUserID(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*domain.Notification, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, user_id, title, message, severity, category, related_id,
					 status, retries, last_error, sent_at, created_at, updated_at
			  FROM notifications
			  WHERE user_id = $1
			  ORDER BY created_at DESC
			  OFFSET $2 LIMIT $3`

	rows, err := querier.QueryContext(ctx, query, userID, offset, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list notifications")
	}
	defer rows.Close()

	return collectNotifications(rows)
}

func collectNotifications(rows *sql.Rows) ([]*domain.Notification, error) {
	var notifications []*domain.Notification

	for rows.Next() {
		var notification domain.Notification
		err := rows.Scan(
			&notification.ID, &notification.UserID, &notification.Title,
			&notification.Message, &notification.Severity, &notification.Category,
			&notification.RelatedID, &notification.Status, &notification.Retries,
			&notification.LastError, &notification.SentAt,
			&notification.CreatedAt, &notification.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan notification")
		}
		notifications = append(notifications, &notification)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate notifications")
	}

	return notifications, nil
}
