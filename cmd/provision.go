package cmd

import (
	"fmt"

	"movie-ratings/internal/schema"
	"movie-ratings/pkg/database"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var provisionSkipExisting bool

var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Create the role, database, schema and grants",
	Long: `provision runs the full administrative setup in order:

1. create the restricted LOGIN role (DB_USER / DB_PASS)
2. create the application database (DB_NAME), owned by the admin user
3. apply all schema migrations
4. grant the role SELECT, INSERT, UPDATE, DELETE on the five tables and
   USAGE, SELECT, UPDATE on the three serial sequences

An existing role or database aborts the run unless --skip-existing is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, logger, err := bootstrap()
		if err != nil {
			return err
		}
		defer logger.Sync()

		ctx := cmd.Context()

		logger.Info("Provisioning database",
			zap.String("database", config.Database.Name),
			zap.String("role", config.Database.User),
			zap.Bool("skip_existing", provisionSkipExisting),
		)

		// Role and database management run against the maintenance database.
		adminConn, err := database.InitAdminConn(ctx, config.Database, config.Admin, config.Admin.Database)
		if err != nil {
			return database.Classify(err)
		}

		provisioner := schema.NewProvisioner(adminConn, logger)
		if err := provisioner.CreateRole(ctx, config.Database.User, config.Database.Password, provisionSkipExisting); err != nil {
			adminConn.Close(ctx)
			return err
		}
		if err := provisioner.CreateDatabase(ctx, config.Database.Name, provisionSkipExisting); err != nil {
			adminConn.Close(ctx)
			return err
		}
		adminConn.Close(ctx)

		// DDL runs on the admin credential against the new database.
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

		// Grants are per database, so they need a connection to it.
		grantConn, err := database.InitAdminConn(ctx, config.Database, config.Admin, config.Database.Name)
		if err != nil {
			return database.Classify(err)
		}
		defer grantConn.Close(ctx)

		if err := schema.NewProvisioner(grantConn, logger).ApplyGrants(ctx, config.Database.User); err != nil {
			return err
		}

		fmt.Println("✓ Provisioning complete!")
		fmt.Printf("Database: %s\n", config.Database.Name)
		fmt.Printf("Role: %s (DML on 5 tables, usage on 3 sequences, no DDL)\n", config.Database.User)

		return nil
	},
}

func init() {
	provisionCmd.Flags().BoolVar(&provisionSkipExisting, "skip-existing", false, "tolerate an existing role or database")
	rootCmd.AddCommand(provisionCmd)
}
