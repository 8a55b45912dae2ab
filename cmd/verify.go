package cmd

import (
	"fmt"

	"movie-ratings/internal/usecase"
	"movie-ratings/pkg/database"

	"github.com/spf13/cobra"
)

var verifyUserID int64

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Count the rows in every table",
	Long: `verify runs SELECT COUNT(*) over each of the five tables through the
restricted role and prints the results, the standard post-load check against
the source dataset's distinct counts.

With --user it instead lists that user's ratings, joined with movie titles
and genre names.`,
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
		ctx := cmd.Context()

		if verifyUserID > 0 {
			rated, err := service.Verify.RatingsByUser(ctx, verifyUserID)
			if err != nil {
				return err
			}

			if len(rated) == 0 {
				fmt.Printf("No ratings found for user %d.\n", verifyUserID)
				return nil
			}

			fmt.Printf("Ratings by user %d:\n", verifyUserID)
			for _, row := range rated {
				genres := row.Genres
				if genres == "" {
					genres = "-"
				}
				fmt.Printf("%8d  %-4.1f  %s  [%s]\n", row.MovieID, row.Value, row.Title, genres)
			}
			return nil
		}

		counts, err := service.Verify.Counts(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("%-12s %d\n", `"User"`, counts.Users)
		fmt.Printf("%-12s %d\n", "Movie", counts.Movies)
		fmt.Printf("%-12s %d\n", "Genre", counts.Genres)
		fmt.Printf("%-12s %d\n", "Movie_Genre", counts.MovieGenres)
		fmt.Printf("%-12s %d\n", "Rating", counts.Ratings)

		return nil
	},
}

func init() {
	verifyCmd.Flags().Int64Var(&verifyUserID, "user", 0, "list this user's ratings instead of table counts")

	rootCmd.AddCommand(verifyCmd)
}
