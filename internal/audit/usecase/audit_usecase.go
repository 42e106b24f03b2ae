// Package usecase implements audit trail recording and querying.
package usecase

import (
	"context"
	"log/slog"

	"github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/audit/domain"
	"github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/audit/repository"
)

// AuditLogRepository defines audit log persistence operations.
type AuditLogRepository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
	List(ctx context.Context, filter repository.ListFilter, offset, limit int) ([]*domain.AuditLog, error)
}

// AuditUseCase defines audit trail business logic.
type AuditUseCase interface {
	// Record appends an audit entry. Best-effort: a write failure is logged
	// and swallowed so auditing never fails the operation being audited.
	Record(ctx context.Context, entry *domain.AuditLog)

	// List retrieves a filtered page of the audit trail.
	List(ctx context.Context, filter repository.ListFilter, offset, limit int) ([]*domain.AuditLog, error)
}

// auditUseCase implements the AuditUseCase interface.
type auditUseCase struct {
	auditRepo AuditLogRepository
	logger    *slog.Logger
}

// NewAuditUseCase creates a new audit use case instance.
func NewAuditUseCase(auditRepo AuditLogRepository, logger *slog.Logger) AuditUseCase {
	return &auditUseCase{
		auditRepo: auditRepo,
		logger:    logger,
	}
}

// Record appends an audit entry.
func (uc *auditUseCase) Record(ctx context.Context, entry *domain.AuditLog) {
	if err := uc.auditRepo.Create(ctx, entry); err != nil {
		uc.logger.Error("failed to record audit entry",
			slog.String("action", entry.Action),
			slog.String("entity_type", entry.EntityType),
			slog.String("entity_id", entry.EntityID),
			slog.Any("error", err),
		)
	}
}

// List retrieves a filtered page of the audit trail.
func (uc *auditUseCase) List(
	ctx context.Context,
	filter repository.ListFilter,
	offset, limit int,
) ([]*domain.AuditLog, error) {
	return uc.auditRepo.List(ctx, filter, offset, limit)
}
