package main

import (
	"database/sql"
	"fmt"

	"github.com/project-tktt/go-jobboard/internal/store/postgres"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending PostgreSQL schema migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := sql.Open("postgres", cfg.Postgres.ConnectionString)
		if err != nil {
			return fmt.Errorf("open postgres connection: %w", err)
		}
		defer db.Close()

		if err := db.PingContext(cmd.Context()); err != nil {
			return fmt.Errorf("ping postgres: %w", err)
		}
		if err := postgres.Migrate(db); err != nil {
			return err
		}
		fmt.Println("Migrations applied")
		return nil
	},
}
