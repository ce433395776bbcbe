package main

import (
	"database/sql"
	"errors"

	"skillswap/internal/database/migration"
	dbpostgres "skillswap/internal/database/postgres"
	"skillswap/internal/database/seeder"

	"github.com/spf13/cobra"
)

var migrationsDir string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	RunE:  runMigrate,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert demo users and skills",
	RunE:  runSeed,
}

func init() {
	migrateCmd.Flags().StringVar(&migrationsDir, "dir", "", "Read migrations from this directory instead of the embedded set")
}

type sqlDBProvider interface {
	SQLDB() *sql.DB
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer db.Close()

	p, ok := db.(sqlDBProvider)
	if !ok {
		return errors.New("database handle does not expose *sql.DB")
	}
	dir := migrationsDir
	if dir == "" {
		dir = cfg.Database.MigrationsDir
	}
	return migration.Runner{Dir: dir, Logger: log}.Run(ctx, p.SQLDB())
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer db.Close()

	return seeder.Runner{Seeders: seeder.Defaults(), Logger: log}.Run(ctx, db)
}
