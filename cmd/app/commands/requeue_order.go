package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/app"
	"github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/config"
)

// RunRequeueOrder moves a failed order back to pending. The payment provider
// keeps redelivering unacknowledged webhooks, so a requeued order is picked up
// by the next redelivery without any manual replay.
func RunRequeueOrder(ctx context.Context, id string) error {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid order id %q: %w", id, err)
	}

	cfg := config.Load()

	container := app.NewContainer(cfg)
	logger := container.Logger()

	defer closeContainer(container, logger)

	orderUseCase, err := container.OrderUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize order use case: %w", err)
	}

	if err := orderUseCase.Requeue(ctx, orderID); err != nil {
		return fmt.Errorf("failed to requeue order: %w", err)
	}

	logger.Info("order requeued", slog.String("order_id", orderID.String()))
	return nil
}
