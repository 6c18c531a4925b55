package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v2"

	laddermigrations "github.com/clanworks/clanbot/app/modules/ladder/infrastructure/repositories/migrations"
	membermigrations "github.com/clanworks/clanbot/app/modules/member/infrastructure/repositories/migrations"
	submissionmigrations "github.com/clanworks/clanbot/app/modules/submission/infrastructure/repositories/migrations"
	"github.com/clanworks/clanbot/config"
)

func main() {
	cliApp := &cli.App{
		Name:  "bun",
		Usage: "clanbot database migrations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   "config.yaml",
				Usage:   "path to the configuration file",
				EnvVars: []string{"CLANBOT_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			newMigrateCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openMigrators(c *cli.Context) (*bun.DB, map[string]*migrate.Migrator, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	pgdb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.DSN)))
	db := bun.NewDB(pgdb, pgdialect.New())

	migrators := map[string]*migrate.Migrator{
		"ladder":     migrate.NewMigrator(db, laddermigrations.Migrations),
		"member":     migrate.NewMigrator(db, membermigrations.Migrations),
		"submission": migrate.NewMigrator(db, submissionmigrations.Migrations),
	}
	return db, migrators, nil
}

func newMigrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "database migrations",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create migration tables",
				Action: func(c *cli.Context) error {
					db, migrators, err := openMigrators(c)
					if err != nil {
						return err
					}
					defer db.Close()
					for moduleName, migrator := range migrators {
						if err := migrator.Init(c.Context); err != nil {
							return fmt.Errorf("failed to init migrations for %s: %w", moduleName, err)
						}
					}
					return nil
				},
			},
			{
				Name:  "migrate",
				Usage: "migrate database",
				Action: func(c *cli.Context) error {
					db, migrators, err := openMigrators(c)
					if err != nil {
						return err
					}
					defer db.Close()
					for moduleName, migrator := range migrators {
						group, err := migrator.Migrate(c.Context)
						if err != nil {
							return fmt.Errorf("failed to migrate %s: %w", moduleName, err)
						}
						if group.IsZero() {
							fmt.Printf("No new migrations for %s\n", moduleName)
						} else {
							fmt.Printf("Migrated %s to %s\n", moduleName, group)
						}
					}
					return nil
				},
			},
			{
				Name:  "rollback",
				Usage: "rollback the last migration group",
				Action: func(c *cli.Context) error {
					db, migrators, err := openMigrators(c)
					if err != nil {
						return err
					}
					defer db.Close()
					for moduleName, migrator := range migrators {
						group, err := migrator.Rollback(c.Context)
						if err != nil {
							return fmt.Errorf("failed to roll back %s: %w", moduleName, err)
						}
						if group.IsZero() {
							fmt.Printf("No groups to roll back for %s\n", moduleName)
						} else {
							fmt.Printf("Rolled back %s to %s\n", moduleName, group)
						}
					}
					return nil
				},
			},
			{
				Name:  "create_sql",
				Usage: "create up and down SQL migrations for a module",
				Action: func(c *cli.Context) error {
					db, migrators, err := openMigrators(c)
					if err != nil {
						return err
					}
					defer db.Close()
					moduleName := c.Args().First()
					migrator, ok := migrators[moduleName]
					if !ok {
						return fmt.Errorf("invalid module name: %s", moduleName)
					}
					name := strings.Join(c.Args().Tail(), "_")
					files, err := migrator.CreateSQLMigrations(c.Context, name)
					if err != nil {
						return err
					}
					for _, mf := range files {
						fmt.Printf("Created migration for %s: %s (%s)\n", moduleName, mf.Name, mf.Path)
					}
					return nil
				},
			},
			{
				Name:  "status",
				Usage: "print migrations status",
				Action: func(c *cli.Context) error {
					db, migrators, err := openMigrators(c)
					if err != nil {
						return err
					}
					defer db.Close()
					for moduleName, migrator := range migrators {
						ms, err := migrator.MigrationsWithStatus(c.Context)
						if err != nil {
							return err
						}
						fmt.Printf("%s: %s (applied: %s, unapplied: %s)\n",
							moduleName, ms, ms.Applied(), ms.Unapplied())
					}
					return nil
				},
			},
		},
	}
}
