// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/allisson/vaultx/cmd/app/commands"
	"github.com/allisson/vaultx/internal/config"
)

const version = "1.0.0"

func main() {
	cmd := &cli.Command{
		Name:    "vaultx",
		Usage:   "Encrypted file vault service",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "Start the HTTP server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunServer(ctx, version)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migrations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg := config.Load()
					logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
					return commands.RunMigrations(logger, cfg.DBDriver, cfg.DBConnectionString)
				},
			},
			{
				Name:  "create-master-key",
				Usage: "Generate a new master key for wrapping file keys",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "id",
						Aliases: []string{"i"},
						Value:   "",
						Usage:   "Master key ID (e.g., prod-master-key-2026)",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunCreateMasterKey(os.Stdout, cmd.String("id"))
				},
			},
			{
				Name:  "issue-token",
				Usage: "Provision a principal and print a session token",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Required: true,
						Usage:    "Principal email address",
					},
					&cli.StringFlag{
						Name:    "name",
						Aliases: []string{"n"},
						Usage:   "Principal display name",
					},
					&cli.StringFlag{
						Name:  "provider",
						Value: "cli",
						Usage: "Identity provider name",
					},
					&cli.StringFlag{
						Name:  "subject",
						Usage: "Identity provider subject (defaults to email)",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunIssueToken(
						ctx,
						os.Stdout,
						cmd.String("email"),
						cmd.String("name"),
						cmd.String("provider"),
						cmd.String("subject"),
					)
				},
			},
			{
				Name:  "sweep-orphans",
				Usage: "Delete stored blobs that have no metadata record",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:    "grace-period",
						Aliases: []string{"g"},
						Value:   0,
						Usage:   "Minimum blob age before deletion (0 uses SWEEP_GRACE_PERIOD_MINUTES)",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunSweepOrphans(
						ctx,
						os.Stdout,
						cmd.Duration("grace-period"),
					)
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("command failed", slog.Any("error", err))
		os.Exit(1)
	}
}
