// Package repository provides data persistence implementations for the
// webhook event ledger.
package repository

import (
	"context"
	"database/sql"

	"github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/billing/domain"
	"github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/database"

	apperrors "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/errors"
)

// PostgreSQLWebhookEventRepository handles webhook event persistence for PostgreSQL
type PostgreSQLWebhookEventRepository struct {
	db *sql.DB
}

// NewPostgreSQLWebhookEventRepository creates a new PostgreSQLWebhookEventRepository
func NewPostgreSQLWebhookEventRepository(db *sql.DB) *PostgreSQLWebhookEventRepository {
	return &PostgreSQLWebhookEventRepository{
		db: db,
	}
}

// CreateIfNew inserts the event id into the ledger if it has not been seen.
// Returns true when this caller inserted the row. The insert-if-absent is a
// single statement so exactly one concurrent caller observes isNew = true.
func (r *PostgreSQLWebhookEventRepository) CreateIfNew(
	ctx context.Context,
	event *domain.WebhookEvent,
) (bool, error) {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO webhook_events (id, external_event_id, event_type, received_at)
			  VALUES ($1, $2, $3, $4)
			  ON CONFLICT (external_event_id) DO NOTHING`

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
func (r *PostgreSQLWebhookEventRepository) GetByExternalID(
	ctx context.Context,
	externalEventID string,
) (*domain.WebhookEvent, error) {
	var event domain.WebhookEvent
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, external_event_id, event_type, received_at
			  FROM webhook_events WHERE external_event_id = $1`

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
