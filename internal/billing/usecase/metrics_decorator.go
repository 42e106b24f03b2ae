package usecase

import (
	"context"
	"time"

	"github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/metrics"

	billingDomain "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/billing/domain"
	orderDomain "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/order/domain"

	apperrors "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/errors"
)

// webhookUseCaseWithMetrics decorates WebhookUseCase with metrics instrumentation.
type webhookUseCaseWithMetrics struct {
	next    WebhookUseCase
	metrics metrics.BusinessMetrics
}

// NewWebhookUseCaseWithMetrics wraps a WebhookUseCase with metrics recording.
func NewWebhookUseCaseWithMetrics(useCase WebhookUseCase, m metrics.BusinessMetrics) WebhookUseCase {
	return &webhookUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// HandleEvent records metrics for webhook reconciliation, labelled by outcome
// so duplicates and rejections are distinguishable from real failures.
func (w *webhookUseCaseWithMetrics) HandleEvent(ctx context.Context, event *billingDomain.Event) error {
	start := time.Now()
	err := w.next.HandleEvent(ctx, event)

	status := outcomeLabel(err)
	w.metrics.RecordOperation(ctx, "billing", "webhook_handle_event", status)
	w.metrics.RecordDuration(ctx, "billing", "webhook_handle_event", time.Since(start), status)

	return err
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "success"
	case apperrors.Is(err, billingDomain.ErrDuplicateEvent):
		return "duplicate"
	case apperrors.Is(err, billingDomain.ErrOwnershipMismatch):
		return "ownership_mismatch"
	case apperrors.Is(err, orderDomain.ErrOrderNotPending):
		return "not_pending"
	case apperrors.Is(err, apperrors.ErrInvalidInput):
		return "invalid_metadata"
	default:
		return "error"
	}
}
