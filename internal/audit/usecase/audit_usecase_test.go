package usecase

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/audit/domain"
	"github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/audit/repository"
)

type mockAuditLogRepository struct {
	mock.Mock
}

func (m *mockAuditLogRepository) Create(ctx context.Context, entry *domain.AuditLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *mockAuditLogRepository) List(
	ctx context.Context,
	filter repository.ListFilter,
	offset, limit int,
) ([]*domain.AuditLog, error) {
	args := m.Called(ctx, filter, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AuditLog), args.Error(1)
}

func testEntry() *domain.AuditLog {
	return domain.NewAuditLog(
		uuid.Must(uuid.NewV7()),
		domain.ActionOrderCompleted,
		domain.EntityTypeOrder,
		uuid.Must(uuid.NewV7()).String(),
		"order completed",
		nil, nil,
	)
}

func TestAuditUseCase_Record(t *testing.T) {
	ctx := context.Background()

	t.Run("persists the entry", func(t *testing.T) {
		repo := &mockAuditLogRepository{}
		uc := NewAuditUseCase(repo, slog.New(slog.DiscardHandler))

		entry := testEntry()
		repo.On("Create", ctx, entry).Return(nil).Once()

		uc.Record(ctx, entry)
		repo.AssertExpectations(t)
	})

	t.Run("swallows persistence failures", func(t *testing.T) {
		repo := &mockAuditLogRepository{}
		uc := NewAuditUseCase(repo, slog.New(slog.DiscardHandler))

		repo.On("Create", ctx, mock.Anything).Return(assert.AnError).Once()

		// Must not panic or propagate: auditing never fails the audited operation.
		uc.Record(ctx, testEntry())
		repo.AssertExpectations(t)
	})
}

func TestAuditUseCase_List(t *testing.T) {
	ctx := context.Background()

	repo := &mockAuditLogRepository{}
	uc := NewAuditUseCase(repo, slog.New(slog.DiscardHandler))

	entries := []*domain.AuditLog{testEntry()}
	filter := repository.ListFilter{Action: domain.ActionOrderCompleted}

	repo.On("List", ctx, filter, 0, 25).Return(entries, nil).Once()

	got, err := uc.List(ctx, filter, 0, 25)
	require.NoError(t, err)
	assert.Equal(t, entries, got)
}
