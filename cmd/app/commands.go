package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/tomxwilliam/pixel-perfect-hive-sub002/cmd/app/commands"
	"github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/app"
	"github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/config"
)

func getCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the HTTP API and metrics servers",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version)
			},
		},
		{
			Name:  "migrate",
			Usage: "Run database migrations",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunMigrations(container.Logger(), cfg.DBDriver, cfg.DBConnectionString)
			},
		},
		{
			Name:  "notifier",
			Usage: "Start the notification delivery worker",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunNotifier(ctx)
			},
		},
		{
			Name:  "requeue-order",
			Usage: "Move a failed order back to pending so the next webhook redelivery retries fulfillment",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "id",
					Aliases:  []string{"i"},
					Required: true,
					Usage:    "Order ID (UUID)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunRequeueOrder(ctx, cmd.String("id"))
			},
		},
	}
}
