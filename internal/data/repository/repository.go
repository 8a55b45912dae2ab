package repository

import (
	"movie-ratings/pkg/database"

	"go.uber.org/zap"
)

// Repository bundles one repository per table. The db handle only needs the
// Executor subset, so the same constructor serves the pool and a transaction.
type Repository struct {
	User       UserRepository
	Movie      MovieRepository
	Genre      GenreRepository
	MovieGenre MovieGenreRepository
	Rating     RatingRepository
}

func NewRepository(db database.Executor, log *zap.Logger) *Repository {
	return &Repository{
		User:       NewUserRepository(db, log),
		Movie:      NewMovieRepository(db, log),
		Genre:      NewGenreRepository(db, log),
		MovieGenre: NewMovieGenreRepository(db, log),
		Rating:     NewRatingRepository(db, log),
	}
}
