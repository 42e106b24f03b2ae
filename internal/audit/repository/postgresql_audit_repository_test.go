package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/audit/domain"
)

func TestPostgreSQLAuditLogRepository_Create(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	entry := domain.NewAuditLog(
		uuid.Must(uuid.NewV7()),
		domain.ActionOrderCompleted,
		domain.EntityTypeOrder,
		uuid.Must(uuid.NewV7()).String(),
		"order completed after successful domain registration",
		map[string]any{"status": "processing"},
		map[string]any{"status": "completed"},
	)

	mock.ExpectExec("INSERT INTO audit_logs").
		WithArgs(
			entry.ID, entry.ActorID, entry.Action, entry.EntityType, entry.EntityID,
			entry.Description,
			[]byte(`{"status":"processing"}`),
			[]byte(`{"status":"completed"}`),
			entry.CreatedAt,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewPostgreSQLAuditLogRepository(db)
	err = repo.Create(ctx, entry)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLAuditLogRepository_List(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	actorID := uuid.Must(uuid.NewV7())
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{
		"id", "actor_id", "action", "entity_type", "entity_id",
		"description", "old_values", "new_values", "created_at",
	}).AddRow(
		uuid.Must(uuid.NewV7()), actorID, domain.ActionOwnershipViolation,
		domain.EntityTypeOrder, uuid.Must(uuid.NewV7()).String(),
		"webhook metadata referenced an order owned by another customer",
		[]byte(`{}`), []byte(`{}`), now,
	)

	mock.ExpectQuery("SELECT id, actor_id, action").
		WithArgs(domain.ActionOwnershipViolation, "", nil, nil, 0, 25).
		WillReturnRows(rows)

	repo := NewPostgreSQLAuditLogRepository(db)
	entries, err := repo.List(ctx, ListFilter{Action: domain.ActionOwnershipViolation}, 0, 25)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.ActionOwnershipViolation, entries[0].Action)
	assert.Equal(t, actorID, entries[0].ActorID)
}
