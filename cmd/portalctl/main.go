// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command portalctl runs maintenance tasks against the portal database:
// schema migrations and bootstrapping or repairing user accounts.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/urfave/cli/v2"

	"github.com/taibuivan/adminportal/internal/platform/constants"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, describe(err))
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "portalctl",
		Usage:   "Administrative tasks for the admin portal database",
		Version: constants.AppVersion,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     flagDatabaseURL,
				Usage:    "PostgreSQL connection URL",
				EnvVars:  []string{"DATABASE_URL"},
				Required: true,
			},
			&cli.BoolFlag{
				Name:    flagVerbose,
				Aliases: []string{"v"},
				Usage:   "Log debug output",
			},
		},
		Commands: []*cli.Command{
			migrateCmd(),
			createUserCmd(),
			setPasswordCmd(),
		},
	}
}

func logger(c *cli.Context) *slog.Logger {
	level := slog.LevelInfo
	if c.Bool(flagVerbose) {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", "portalctl"))
}
