package usecase

import (
	"context"
	"fmt"

	"movie-ratings/internal/data/entity"
	"movie-ratings/internal/data/repository"
	"movie-ratings/pkg/database"

	"go.uber.org/zap"
)

// TableCounts holds the row count of every table in the schema.
type TableCounts struct {
	Users       int64
	Movies      int64
	Genres      int64
	MovieGenres int64
	Ratings     int64
}

type VerifyService interface {
	// Counts runs the verification count over each of the five tables.
	Counts(ctx context.Context) (*TableCounts, error)

	// RatingsByUser lists one user's ratings with movie titles and genres,
	// movies without genres included.
	RatingsByUser(ctx context.Context, userID int64) ([]*entity.RatedMovie, error)
}

type verifyService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewVerifyService(repo *repository.Repository, log *zap.Logger) VerifyService {
	return &verifyService{
		repo: repo,
		log:  log.With(zap.String("service", "verify")),
	}
}

func (s *verifyService) Counts(ctx context.Context) (*TableCounts, error) {
	var (
		counts TableCounts
		err    error
	)

	if counts.Users, err = s.repo.User.Count(ctx); err != nil {
		return nil, fmt.Errorf("verify users: %w", database.Classify(err))
	}
	if counts.Movies, err = s.repo.Movie.Count(ctx); err != nil {
		return nil, fmt.Errorf("verify movies: %w", database.Classify(err))
	}
	if counts.Genres, err = s.repo.Genre.Count(ctx); err != nil {
		return nil, fmt.Errorf("verify genres: %w", database.Classify(err))
	}
	if counts.MovieGenres, err = s.repo.MovieGenre.Count(ctx); err != nil {
		return nil, fmt.Errorf("verify movie_genres: %w", database.Classify(err))
	}
	if counts.Ratings, err = s.repo.Rating.Count(ctx); err != nil {
		return nil, fmt.Errorf("verify ratings: %w", database.Classify(err))
	}

	s.log.Info("Verification counts",
		zap.Int64("users", counts.Users),
		zap.Int64("movies", counts.Movies),
		zap.Int64("genres", counts.Genres),
		zap.Int64("movie_genres", counts.MovieGenres),
		zap.Int64("ratings", counts.Ratings),
	)

	return &counts, nil
}

func (s *verifyService) RatingsByUser(ctx context.Context, userID int64) ([]*entity.RatedMovie, error) {
	rated, err := s.repo.Rating.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ratings by user %d: %w", userID, database.Classify(err))
	}

	return rated, nil
}
