package cmd

import (
	"fmt"

	"movie-ratings/internal/schema"
	"movie-ratings/pkg/database"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var teardownConfirmed bool

var teardownCmd = &cobra.Command{
	Use:   "teardown",
	Short: "Drop the database and the restricted role",
	Long: `teardown drops the application database and then the restricted
role, in that order, the exact inverse of provision. Everything in the
database is lost, so the command refuses to run without --yes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, logger, err := bootstrap()
		if err != nil {
			return err
		}
		defer logger.Sync()

		if !teardownConfirmed {
			return fmt.Errorf("refusing to drop database %q and role %q: re-run with --yes",
				config.Database.Name, config.Database.User)
		}

		ctx := cmd.Context()

		logger.Warn("Tearing down database",
			zap.String("database", config.Database.Name),
			zap.String("role", config.Database.User),
		)

		adminConn, err := database.InitAdminConn(ctx, config.Database, config.Admin, config.Admin.Database)
		if err != nil {
			return database.Classify(err)
		}
		defer adminConn.Close(ctx)

		provisioner := schema.NewProvisioner(adminConn, logger)
		if err := provisioner.DropDatabase(ctx, config.Database.Name); err != nil {
			return err
		}
		if err := provisioner.DropRole(ctx, config.Database.User); err != nil {
			return err
		}

		fmt.Println("✓ Database and role dropped!")
		return nil
	},
}

func init() {
	teardownCmd.Flags().BoolVar(&teardownConfirmed, "yes", false, "confirm dropping the database and role")

	rootCmd.AddCommand(teardownCmd)
}
