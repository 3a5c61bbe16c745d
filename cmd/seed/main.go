// Package main provides a tool to seed the recipe database from a YAML
// fixture and to print what it holds.
//
// Usage:
//
//	go run ./cmd/seed load --file cmd/seed/testdata/recipes.yaml
//	DATABASE_URL=sqlite:///./dev.db go run ./cmd/seed stats
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/recipemanager/recipe-server/internal/config"
	"github.com/recipemanager/recipe-server/internal/logger"
	"github.com/recipemanager/recipe-server/internal/service"
	"github.com/recipemanager/recipe-server/internal/store/sqlite"
)

const defaultDatabaseURL = "sqlite:///./recipes.db"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(os.Stdout, os.Stderr).Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp(out, logOut io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Load fixture data into the recipe database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "database-url",
				Value:   defaultDatabaseURL,
				Usage:   "Database URL (sqlite:///relative.db, sqlite:////abs/path.db or sqlite:///:memory:)",
				Sources: cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				Usage:   "log level (debug, info, warn, error)",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Commands: []*cli.Command{
			loadCmd(out, logOut),
			statsCmd(out, logOut),
		},
	}
}

func loadCmd(out, logOut io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "load",
		Usage: "Create the users and recipes described in a YAML fixture",
		Description: `Users are created first; an email that already exists is reused.
Recipes are then created in document order and may name their owner by
owner_email. Loading stops at the first invalid entry.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Aliases:  []string{"f"},
				Usage:    "Path to the YAML fixture",
				Required: true,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			fixture, err := readFixture(cmd.String("file"))
			if err != nil {
				return err
			}

			return withStore(cmd, logOut, func(st *sqlite.Store, log *slog.Logger) error {
				s := &seeder{
					users:   service.NewUserService(st, log),
					recipes: service.NewRecipeService(st, 1, log),
				}

				sum, err := s.load(ctx, fixture)
				if err != nil {
					return fmt.Errorf("load %s: %w", cmd.String("file"), err)
				}

				fmt.Fprintf(out, "users created: %d (existing: %d)\nrecipes created: %d\n",
					sum.UsersCreated, sum.UsersExisting, sum.Recipes)
				return nil
			})
		},
	}
}

func statsCmd(out, logOut io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Print row counts and the distinct cuisines and meal types",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withStore(cmd, logOut, func(st *sqlite.Store, log *slog.Logger) error {
				stats, err := collectStats(ctx,
					service.NewRecipeService(st, 1, log),
					service.NewUserService(st, log),
					service.NewTagService(st, log),
				)
				if err != nil {
					return err
				}
				return stats.write(out)
			})
		},
	}
}

// withStore opens the configured database for the duration of fn.
func withStore(cmd *cli.Command, logOut io.Writer, fn func(*sqlite.Store, *slog.Logger) error) error {
	path, err := config.ParseDatabaseURL(cmd.String("database-url"))
	if err != nil {
		return err
	}

	logCfg := logger.FromSettings("development", cmd.String("log-level"))
	logCfg.Writer = logOut
	logCfg.AddSource = false
	log := logger.New(logCfg)

	st, err := sqlite.Open(path, log)
	if err != nil {
		return err
	}
	defer st.Close()

	return fn(st, log)
}
