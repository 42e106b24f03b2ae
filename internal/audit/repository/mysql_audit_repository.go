package repository

import (
	"context"
	"database/sql"

	"github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/audit/domain"
	"github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/database"

	apperrors "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/errors"
)

// MySQLAuditLogRepository handles audit log persistence for MySQL
type MySQLAuditLogRepository struct {
	db *sql.DB
}

// NewMySQLAuditLogRepository creates a new MySQLAuditLogRepository
func NewMySQLAuditLogRepository(db *sql.DB) *MySQLAuditLogRepository {
	return &MySQLAuditLogRepository{
		db: db,
	}
}

// Create appends an audit entry. The table has no update or delete path.
func (r *MySQLAuditLogRepository) Create(ctx context.Context, entry *domain.AuditLog) error {
	querier := database.GetTx(ctx, r.db)

	oldValues, newValues, err := encodeSnapshots(entry)
	if err != nil {
		return err
	}

	query := `INSERT INTO audit_logs (id, actor_id, action, entity_type, entity_id,
									  description, old_values, new_values, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(ctx, query,
		entry.ID, entry.ActorID, entry.Action, entry.EntityType, entry.EntityID,
		entry.Description, oldValues, newValues, entry.CreatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create audit log entry")
	}

	return nil
}

// List retrieves a filtered page of the audit trail, newest first.
func (r *MySQLAuditLogRepository) List(
	ctx context.Context,
	filter ListFilter,
	offset, limit int,
) ([]*domain.AuditLog, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, actor_id, action, entity_type, entity_id,
					 description, old_values, new_values, created_at
			  FROM audit_logs
			  WHERE (? = '' OR action = ?)
				AND (? = '' OR entity_type = ?)
				AND (? IS NULL OR created_at >= ?)
				AND (? IS NULL OR created_at <= ?)
			  ORDER BY created_at DESC
			  LIMIT ? OFFSET ?`

	from := nullableTime(filter.From)
	to := nullableTime(filter.To)

	rows, err := querier.QueryContext(ctx, query,
		filter.Action, filter.Action,
		filter.EntityType, filter.EntityType,
		from, from, to, to,
		limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit log entries")
	}
	defer rows.Close()

	return collectAuditLogs(rows)
}
