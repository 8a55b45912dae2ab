package cmd

// root.go defines the root command and the bootstrap shared by every
// subcommand: configuration first, then the logger.

import (
	"fmt"
	"log"
	"os"

	"movie-ratings/pkg/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "movie-ratings",
	Short: "movie-ratings - lifecycle toolkit for the movie rating database",
	Long: `movie-ratings owns the PostgreSQL side of the movie rating application:

- provision the restricted role, the database, the schema and the grants
- apply, roll back and inspect schema migrations
- bulk-load a ratings CSV through the restricted role
- verify the row counts of every table
- export the training dataset as CSV
- tear the database and role back down

Administrative commands (provision, migrate, teardown) use the ADMIN_*
credential; data commands (load, verify, export) use the restricted DB_USER
role. Use "movie-ratings [command] --help" to see each command's flags.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads the configuration and initializes the logger. Command
// output goes to stdout; the logger writes to stderr and the log file.
func bootstrap() (*utils.Config, *zap.Logger, error) {
	config, err := utils.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}

	return config, logger, nil
}
