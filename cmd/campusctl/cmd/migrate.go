package cmd

import (
	"database/sql"

	"github.com/campusshare/campusshare/internal/db"
	"github.com/spf13/cobra"
)

func MigrateCmd() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(db.RunMigrations)
		},
	})
	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the latest migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(db.MigrateDown)
		},
	})
	migrateCmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "List applied and pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(db.MigrationStatus)
		},
	})

	return migrateCmd
}

func withDB(fn func(*sql.DB, string) error) error {
	database, driver, err := openDB()
	if err != nil {
		return err
	}
	defer database.Close()

	return fn(database.DB, driver)
}
