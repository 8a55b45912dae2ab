package cmd

import (
	"fmt"
	"time"

	"movie-ratings/internal/usecase"
	"movie-ratings/pkg/database"

	"github.com/spf13/cobra"
)

var (
	loadFilePath    string
	loadSkipInvalid bool
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Bulk-load a ratings CSV through the restricted role",
	Long: `load parses a ratings CSV (columns userId, movieId, title, genres,
rating addressed by header name; genres pipe-separated), deduplicates it,
and inserts everything in one transaction: users, movies, genres, the
movie-genre links and the ratings, in that order. Rows already in the
database stay as they are.

A row that fails validation aborts the load unless --skip-invalid is set,
in which case it is logged and dropped. The whole load rolls back on any
database error.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, logger, err := bootstrap()
		if err != nil {
			return err
		}
		defer logger.Sync()

		db, err := database.InitDB(config.Database)
		if err != nil {
			return database.Classify(err)
		}
		defer db.Close()

		service := usecase.NewService(db, config, logger)

		result, err := service.Load.LoadFile(cmd.Context(), loadFilePath, usecase.LoadOptions{
			SkipInvalid: loadSkipInvalid,
		})
		if err != nil {
			return err
		}

		fmt.Println("✓ Load committed successfully!")
		fmt.Printf("Run ID: %s\n", result.RunID)
		fmt.Printf("Rows read: %d (skipped: %d)\n", result.RowsRead, result.RowsSkipped)
		fmt.Printf("Inserted: %d users, %d movies, %d genres, %d links, %d ratings\n",
			result.Users, result.Movies, result.Genres, result.Links, result.Ratings)
		fmt.Printf("Elapsed: %s\n", result.Elapsed.Round(time.Millisecond))

		return nil
	},
}

func init() {
	loadCmd.Flags().StringVarP(&loadFilePath, "file", "f", "", "path to the ratings CSV (required)")
	loadCmd.MarkFlagRequired("file")
	loadCmd.Flags().BoolVar(&loadSkipInvalid, "skip-invalid", false, "skip and log rows that fail validation instead of aborting")

	rootCmd.AddCommand(loadCmd)
}
