// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/taibuivan/adminportal/internal/platform/apperr"
	"github.com/taibuivan/adminportal/internal/platform/migration"
	"github.com/taibuivan/adminportal/internal/platform/payload"
	pgstore "github.com/taibuivan/adminportal/internal/platform/postgres"
	"github.com/taibuivan/adminportal/internal/platform/sec"
	"github.com/taibuivan/adminportal/internal/users/account"
)

const (
	flagDatabaseURL = "database-url"
	flagVerbose     = "verbose"
	flagMigrations  = "migrations"
	flagBcryptCost  = "bcrypt-cost"
	flagLogin       = "login"
	flagName        = "name"
	flagEmail       = "email"
	flagPassword    = "password"
	flagProfile     = "profile"
	flagDepartment  = "department"
)

// cliActor stamps USUARIOCAD / USUARIOALT for changes made from the command line.
var cliActor = &sec.Principal{Login: "portalctl"}

func migrateCmd() *cli.Command {
	var path string
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply pending schema migrations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        flagMigrations,
				Usage:       "Directory holding the .sql migrations",
				EnvVars:     []string{"MIGRATION_PATH"},
				Value:       "./data/migrations",
				Destination: &path,
			},
		},
		Action: func(c *cli.Context) error {
			return migration.RunUp(c.String(flagDatabaseURL), path, logger(c))
		},
	}
}

func bcryptCostFlag(dst *int) cli.Flag {
	return &cli.IntFlag{
		Name:        flagBcryptCost,
		Usage:       "bcrypt work factor for new hashes",
		EnvVars:     []string{"BCRYPT_COST"},
		Value:       10,
		Destination: dst,
	}
}

func passwordFlag(dst *string) cli.Flag {
	return &cli.StringFlag{
		Name:        flagPassword,
		Usage:       "Plain-text password (read from stdin when omitted)",
		Destination: dst,
	}
}

func createUserCmd() *cli.Command {
	var (
		login, name, email, password string
		profile, department          int64
		cost                         int
	)
	return &cli.Command{
		Name:  "create-user",
		Usage: "Create an active portal user",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: flagLogin, Required: true, Destination: &login},
			&cli.StringFlag{Name: flagName, Required: true, Destination: &name},
			&cli.StringFlag{Name: flagEmail, Required: true, Destination: &email},
			passwordFlag(&password),
			&cli.Int64Flag{Name: flagProfile, Value: 1, Destination: &profile},
			&cli.Int64Flag{Name: flagDepartment, Value: 1, Destination: &department},
			bcryptCostFlag(&cost),
		},
		Action: func(c *cli.Context) error {
			secret, err := resolvePassword(password, os.Stdin)
			if err != nil {
				return err
			}

			pool, err := pgstore.NewPool(c.Context, c.String(flagDatabaseURL), logger(c))
			if err != nil {
				return err
			}
			defer pool.Close()

			service := account.NewService(account.NewUserRepository(pool), sec.NewBcryptHasher(cost), logger(c))

			identity, err := service.Create(c.Context, cliActor, account.Input{
				Active:       payload.Value(true),
				Name:         payload.Value(name),
				Email:        payload.Value(email),
				Login:        payload.Value(login),
				Password:     payload.Value(secret),
				ProfileID:    payload.Value(profile),
				DepartmentID: payload.Value(department),
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(c.App.Writer, "created user %q (IDUSUARIO %d)\n", identity.Login, identity.ID)
			return nil
		},
	}
}

func setPasswordCmd() *cli.Command {
	var (
		login, password string
		cost            int
	)
	return &cli.Command{
		Name:  "set-password",
		Usage: "Replace the password of an existing user",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: flagLogin, Required: true, Destination: &login},
			passwordFlag(&password),
			bcryptCostFlag(&cost),
		},
		Action: func(c *cli.Context) error {
			secret, err := resolvePassword(password, os.Stdin)
			if err != nil {
				return err
			}

			pool, err := pgstore.NewPool(c.Context, c.String(flagDatabaseURL), logger(c))
			if err != nil {
				return err
			}
			defer pool.Close()

			repository := account.NewUserRepository(pool)
			identity, err := repository.FindByLogin(c.Context, login)
			if err != nil {
				return fmt.Errorf("user %q: %w", login, err)
			}

			service := account.NewService(repository, sec.NewBcryptHasher(cost), logger(c))
			if _, err := service.Update(c.Context, cliActor, identity.ID, account.Input{
				Password: payload.Value(secret),
			}); err != nil {
				return err
			}

			fmt.Fprintf(c.App.Writer, "password updated for %q\n", identity.Login)
			return nil
		},
	}
}

// resolvePassword returns flag, or the first line of stdin when flag is empty.
func resolvePassword(flag string, stdin io.Reader) (string, error) {
	if flag != "" {
		return flag, nil
	}

	scanner := bufio.NewScanner(stdin)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return "", errors.New("missing password: pass --password or pipe it on stdin")
	}

	password := strings.TrimSpace(scanner.Text())
	if password == "" {
		return "", errors.New("missing password: pass --password or pipe it on stdin")
	}
	return password, nil
}

// describe renders err for the terminal, listing field errors one per line.
func describe(err error) string {
	ae := apperr.As(err)
	if ae == nil || len(ae.Details) == 0 {
		return "portalctl: " + err.Error()
	}

	fields := apperr.FieldMap(ae.Details)
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("portalctl: " + ae.Message)
	for _, name := range names {
		fmt.Fprintf(&b, "\n  %s: %s", name, strings.Join(fields[name], "; "))
	}
	return b.String()
}
