package repository

import (
	"context"
	"database/sql"

	"github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/billing/domain"
	"github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/database"

	apperrors "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/errors"
)

// MySQLWebhookEventRepository handles webhook event persistence for MySQL
type MySQLWebhookEventRepository struct {
	db *sql.DB
}

// NewMySQLWebhookEventRepository creates a new MySQLWebhookEventRepository
func NewMySQLWebhookEventRepository(db *sql.DB) *MySQLWebhookEventRepository {
	return &MySQLWebhookEventRepository{
		db: db,
	}
}

// CreateIfNew inserts the event id into the ledger if it has not been seen.
// Returns true when this caller inserted the row.
func (r *MySQLWebhookEventRepository) CreateIfNew(
	ctx context.Context,
	event *domain.WebhookEvent,
) (bool, error) {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT IGNORE INTO webhook_events (id, external_event_id, event_type, received_at)
			  VALUES (?, ?, ?, ?)`

	result, err := querier.ExecContext(ctx, query,
		event.ID, event.ExternalEventID, event.EventType, event.ReceivedAt)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to record webhook event")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to read webhook event insert result")
	}

	return rows == 1, nil
}

// GetByExternalID retrieves a ledger entry by the processor's event id.
func (r *MySQLWebhookEventRepository) GetByExternalID(
	ctx context.Context,
	externalEventID string,
) (*domain.WebhookEvent, error) {
	var event domain.WebhookEvent
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, external_event_id, event_type, received_at
			  FROM webhook_events WHERE external_event_id = ?`

	err := querier.QueryRowContext(ctx, query, externalEventID).Scan(
		&event.ID, &event.ExternalEventID, &event.EventType, &event.ReceivedAt,
	)
	if err != nil {
		if apperrors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get webhook event")
	}

	return &event, nil
}
