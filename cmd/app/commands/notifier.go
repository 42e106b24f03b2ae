package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/app"
	"github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/config"
)

// RunNotifier starts the notification delivery workers. Each worker runs its
// own polling loop; SKIP LOCKED row claims keep them on disjoint batches.
// Blocks until receiving SIGINT/SIGTERM, then stops the delivery loops.
func RunNotifier(ctx context.Context) error {
	cfg := config.Load()

	container := app.NewContainer(cfg)
	logger := container.Logger()

	workers := cfg.NotifierWorkers
	if workers < 1 {
		workers = 1
	}
	logger.Info("starting notification workers",
		slog.Int("workers", workers),
		slog.Duration("interval", cfg.NotifierInterval),
		slog.Int("batch_size", cfg.NotifierBatchSize),
	)

	defer closeContainer(container, logger)

	notificationUseCase, err := container.NotificationUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize notification use case: %w", err)
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, groupCtx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			return notificationUseCase.Start(groupCtx)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("notification worker error: %w", err)
	}

	logger.Info("notification workers stopped")
	return nil
}
