package cmd

import (
	"fmt"

	"movie-ratings/internal/schema"
	"movie-ratings/pkg/database"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply, roll back or inspect schema migrations",
	Long: `migrate manages the versioned schema on the admin credential. The
restricted role never holds DDL rights, so all schema changes go through
this command.`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations and re-assert grants",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, logger, err := bootstrap()
		if err != nil {
			return err
		}
		defer logger.Sync()

		ctx := cmd.Context()

		migrationDB, err := database.InitMigrationDB(config.Database, config.Admin)
		if err != nil {
			return database.Classify(err)
		}
		defer migrationDB.Close()

		migrator, err := schema.NewMigrator(migrationDB, logger)
		if err != nil {
			return err
		}
		if err := migrator.Up(); err != nil {
			migrator.Close()
			return err
		}
		migrator.Close()

		// New tables and sequences start without privileges for the role;
		// grants are idempotent, so re-assert the full set.
		grantConn, err := database.InitAdminConn(ctx, config.Database, config.Admin, config.Database.Name)
		if err != nil {
			return database.Classify(err)
		}
		defer grantConn.Close(ctx)

		if err := schema.NewProvisioner(grantConn, logger).ApplyGrants(ctx, config.Database.User); err != nil {
			return err
		}

		fmt.Println("✓ Schema is up to date!")
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, logger, err := bootstrap()
		if err != nil {
			return err
		}
		defer logger.Sync()

		migrationDB, err := database.InitMigrationDB(config.Database, config.Admin)
		if err != nil {
			return database.Classify(err)
		}
		defer migrationDB.Close()

		migrator, err := schema.NewMigrator(migrationDB, logger)
		if err != nil {
			return err
		}
		defer migrator.Close()

		if err := migrator.Down(); err != nil {
			return err
		}

		fmt.Println("✓ Rolled back one migration!")
		return nil
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, logger, err := bootstrap()
		if err != nil {
			return err
		}
		defer logger.Sync()

		migrationDB, err := database.InitMigrationDB(config.Database, config.Admin)
		if err != nil {
			return database.Classify(err)
		}
		defer migrationDB.Close()

		migrator, err := schema.NewMigrator(migrationDB, logger)
		if err != nil {
			return err
		}
		defer migrator.Close()

		version, dirty, err := migrator.Version()
		if err != nil {
			return err
		}

		if version == 0 {
			fmt.Println("No migrations applied yet.")
			return nil
		}

		fmt.Printf("Schema version: %d\n", version)
		if dirty {
			fmt.Println("State: DIRTY - the last migration did not finish; fix and force the version")
		} else {
			fmt.Println("State: clean")
		}

		return nil
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateStatusCmd)

	rootCmd.AddCommand(migrateCmd)
}
