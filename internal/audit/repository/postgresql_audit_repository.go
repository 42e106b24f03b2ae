// Package repository provides data persistence implementations for the audit
// trail.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/audit/domain"
	"github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/database"

	apperrors "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/errors"
)

// ListFilter narrows an audit trail listing. Zero values mean "no filter".
type ListFilter struct {
	Action     string
	EntityType string
	From       time.Time
	To         time.Time
}

// PostgreSQLAuditLogRepository handles audit log persistence for PostgreSQL
type PostgreSQLAuditLogRepository struct {
	db *sql.DB
}

// NewPostgreSQLAuditLogRepository creates a new PostgreSQLAuditLogRepository
func NewPostgreSQLAuditLogRepository(db *sql.DB) *PostgreSQLAuditLogRepository {
	return &PostgreSQLAuditLogRepository{
		db: db,
	}
}

// Create appends an audit entry. The table has no update or delete path.
func (r *PostgreSQLAuditLogRepository) Create(ctx context.Context, entry *domain.AuditLog) error {
	querier := database.GetTx(ctx, r.db)

	oldValues, newValues, err := encodeSnapshots(entry)
	if err != nil {
		return err
	}

	query := `INSERT INTO audit_logs (id, actor_id, action, entity_type, entity_id,
									  description, old_values, new_values, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = querier.ExecContext(ctx, query,
		entry.ID, entry.ActorID, entry.Action, entry.EntityType, entry.EntityID,
		entry.Description, oldValues, newValues, entry.CreatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create audit log entry")
	}

	return nil
}

// List retrieves a filtered page of the audit trail, newest first.
func (r *PostgreSQLAuditLogRepository) List(
	ctx context.Context,
	filter ListFilter,
	offset, limit int,
) ([]*domain.AuditLog, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, actor_id, action, entity_type, entity_id,
					 description, old_values, new_values, created_at
			  FROM audit_logs
			  WHERE ($1 = '' OR action = $1)
				AND ($2 = '' OR entity_type = $2)
				AND ($3::timestamptz IS NULL OR created_at >= $3)
				AND ($4::timestamptz IS NULL OR created_at <= $4)
			  ORDER BY created_at DESC
			  OFFSET $5 LIMIT $6`

	rows, err := querier.QueryContext(ctx, query,
		filter.Action, filter.EntityType,
		nullableTime(filter.From), nullableTime(filter.To),
		offset, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit log entries")
	}
	defer rows.Close()

	return collectAuditLogs(rows)
}

func encodeSnapshots(entry *domain.AuditLog) ([]byte, []byte, error) {
	oldValues, err := json.Marshal(entry.OldValues)
	if err != nil {
		return nil, nil, apperrors.Wrap(err, "failed to encode audit old values")
	}
	newValues, err := json.Marshal(entry.NewValues)
	if err != nil {
		return nil, nil, apperrors.Wrap(err, "failed to encode audit new values")
	}
	return oldValues, newValues, nil
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

func collectAuditLogs(rows *sql.Rows) ([]*domain.AuditLog, error) {
	var entries []*domain.AuditLog

	for rows.Next() {
		var entry domain.AuditLog
		var oldValues, newValues []byte

		err := rows.Scan(
			&entry.ID, &entry.ActorID, &entry.Action, &entry.EntityType,
			&entry.EntityID, &entry.Description, &oldValues, &newValues,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan audit log entry")
		}

		if err := json.Unmarshal(oldValues, &entry.OldValues); err != nil {
			return nil, apperrors.Wrap(err, "failed to decode audit old values")
		}
		if err := json.Unmarshal(newValues, &entry.NewValues); err != nil {
			return nil, apperrors.Wrap(err, "failed to decode audit new values")
		}

		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate audit log entries")
	}

	return entries, nil
}
