package cmd

import (
	"fmt"
	"os"

	"movie-ratings/internal/usecase"
	"movie-ratings/pkg/database"

	"github.com/spf13/cobra"
)

var exportOutPath string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the training dataset as CSV",
	Long: `export streams every rating joined with its movie title and
pipe-separated genre names, the dataset the recommender trains on. Movies
without genres are excluded by the join. Output goes to stdout unless
--out names a file; the columns match the loader's, so an export can be
loaded again as-is.`,
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

		out := os.Stdout
		if exportOutPath != "" {
			file, err := os.Create(exportOutPath)
			if err != nil {
				return fmt.Errorf("create export file %q: %w", exportOutPath, err)
			}
			defer file.Close()
			out = file
		}

		rows, err := service.Export.WriteCSV(cmd.Context(), out)
		if err != nil {
			return err
		}

		if exportOutPath != "" {
			fmt.Printf("✓ Exported %d rows to %s\n", rows, exportOutPath)
		}

		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutPath, "out", "o", "", "write the CSV to this file instead of stdout")

	rootCmd.AddCommand(exportCmd)
}
