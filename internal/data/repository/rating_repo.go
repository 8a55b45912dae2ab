package repository

import (
	"context"
	"fmt"

	"movie-ratings/internal/data/entity"
	"movie-ratings/pkg/database"

	"go.uber.org/zap"
)

type RatingRepository interface {
	Upsert(ctx context.Context, rating *entity.Rating) error
	Update(ctx context.Context, rating *entity.Rating) error
	Delete(ctx context.Context, userID, movieID int64) error
	FindAll(ctx context.Context) ([]*entity.Rating, error)
	FindByUserID(ctx context.Context, userID int64) ([]*entity.RatedMovie, error)
	Count(ctx context.Context) (int64, error)

	// Batch operations
	CreateBatch(ctx context.Context, ratings []*entity.Rating) (int64, error)

	// ForEachTrainingRow streams the training-set join row by row so large
	// exports never hold the full result in memory.
	ForEachTrainingRow(ctx context.Context, fn func(row *entity.RatedMovie) error) error
}

type ratingRepository struct {
	db  database.Executor
	log *zap.Logger
}

func NewRatingRepository(db database.Executor, log *zap.Logger) RatingRepository {
	return &ratingRepository{
		db:  db,
		log: log.With(zap.String("repository", "rating")),
	}
}

// Upsert inserts the rating or, when the (user, movie) pair exists, replaces
// its value.
func (r *ratingRepository) Upsert(ctx context.Context, rating *entity.Rating) error {
	query := `
		INSERT INTO Rating (user_id, movie_id, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, movie_id) DO UPDATE SET value = EXCLUDED.value
	`

	_, err := r.db.Exec(ctx, query,
		rating.UserID,
		rating.MovieID,
		rating.Value,
	)

	if err != nil {
		r.log.Error("Failed to upsert rating",
			zap.Error(err),
			zap.Int64("user_id", rating.UserID),
			zap.Int64("movie_id", rating.MovieID),
		)
		return fmt.Errorf("upsert rating for movie %d by user %d: %w",
			rating.MovieID, rating.UserID, err)
	}

	return nil
}

func (r *ratingRepository) Update(ctx context.Context, rating *entity.Rating) error {
	query := `UPDATE Rating SET value = $3 WHERE user_id = $1 AND movie_id = $2`

	result, err := r.db.Exec(ctx, query,
		rating.UserID,
		rating.MovieID,
		rating.Value,
	)

	if err != nil {
		r.log.Error("Failed to update rating",
			zap.Error(err),
			zap.Int64("user_id", rating.UserID),
			zap.Int64("movie_id", rating.MovieID),
		)
		return fmt.Errorf("update rating for movie %d by user %d: %w",
			rating.MovieID, rating.UserID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("rating for movie %d by user %d not found", rating.MovieID, rating.UserID)
	}

	return nil
}

func (r *ratingRepository) Delete(ctx context.Context, userID, movieID int64) error {
	query := `DELETE FROM Rating WHERE user_id = $1 AND movie_id = $2`

	result, err := r.db.Exec(ctx, query, userID, movieID)
	if err != nil {
		r.log.Error("Failed to delete rating",
			zap.Error(err),
			zap.Int64("user_id", userID),
			zap.Int64("movie_id", movieID),
		)
		return fmt.Errorf("delete rating for movie %d by user %d: %w", movieID, userID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("rating for movie %d by user %d not found", movieID, userID)
	}

	return nil
}

func (r *ratingRepository) FindAll(ctx context.Context) ([]*entity.Rating, error) {
	query := `SELECT user_id, movie_id, value FROM Rating ORDER BY user_id, movie_id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to find ratings", zap.Error(err))
		return nil, fmt.Errorf("find ratings: %w", err)
	}
	defer rows.Close()

	var ratings []*entity.Rating
	for rows.Next() {
		var rating entity.Rating
		if err := rows.Scan(&rating.UserID, &rating.MovieID, &rating.Value); err != nil {
			r.log.Error("Failed to scan rating row", zap.Error(err))
			return nil, fmt.Errorf("scan rating row: %w", err)
		}
		ratings = append(ratings, &rating)
	}

	return ratings, rows.Err()
}

// FindByUserID lists one user's ratings with movie titles. Genres join via
// LEFT JOIN so movies without genres still appear, with an empty genres
// column.
func (r *ratingRepository) FindByUserID(ctx context.Context, userID int64) ([]*entity.RatedMovie, error) {
	query := `
		SELECT
			r.user_id,
			r.movie_id,
			m.title,
			COALESCE(STRING_AGG(g.name, ' | ' ORDER BY g.name), '') AS genres,
			r.value
		FROM Rating r
		INNER JOIN Movie m ON r.movie_id = m.id
		LEFT JOIN Movie_Genre mg ON m.id = mg.movie_id
		LEFT JOIN Genre g ON mg.genre_id = g.id
		WHERE r.user_id = $1
		GROUP BY r.user_id, r.movie_id, r.value, m.title
		ORDER BY r.movie_id
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to find ratings by user ID",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		return nil, fmt.Errorf("find ratings by user %d: %w", userID, err)
	}
	defer rows.Close()

	var rated []*entity.RatedMovie
	for rows.Next() {
		var row entity.RatedMovie
		err := rows.Scan(
			&row.UserID,
			&row.MovieID,
			&row.Title,
			&row.Genres,
			&row.Value,
		)
		if err != nil {
			r.log.Error("Failed to scan rated movie row", zap.Error(err))
			return nil, fmt.Errorf("scan rated movie row: %w", err)
		}
		rated = append(rated, &row)
	}

	return rated, rows.Err()
}

func (r *ratingRepository) Count(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM Rating`

	var count int64
	err := r.db.QueryRow(ctx, query).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count ratings", zap.Error(err))
		return 0, fmt.Errorf("count ratings: %w", err)
	}

	return count, nil
}

func (r *ratingRepository) CreateBatch(ctx context.Context, ratings []*entity.Rating) (int64, error) {
	if len(ratings) == 0 {
		return 0, nil
	}

	// Build batch insert
	query := `INSERT INTO Rating (user_id, movie_id, value) VALUES `
	args := []interface{}{}

	for i, rating := range ratings {
		if i > 0 {
			query += ", "
		}
		query += fmt.Sprintf("($%d, $%d, $%d)", i*3+1, i*3+2, i*3+3)
		args = append(args, rating.UserID, rating.MovieID, rating.Value)
	}
	query += ` ON CONFLICT (user_id, movie_id) DO NOTHING`

	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to create batch ratings",
			zap.Error(err),
			zap.Int("count", len(ratings)),
		)
		return 0, fmt.Errorf("create batch ratings: %w", err)
	}

	return result.RowsAffected(), nil
}

// ForEachTrainingRow walks the training-set join: every rating with its movie
// title and pipe-joined genre names. INNER JOINs keep the original dataset
// shape, movies without genres are excluded.
func (r *ratingRepository) ForEachTrainingRow(ctx context.Context, fn func(row *entity.RatedMovie) error) error {
	query := `
		SELECT
			r.user_id,
			r.movie_id,
			m.title,
			STRING_AGG(g.name, '|' ORDER BY g.name) AS genres,
			r.value
		FROM Rating r
		INNER JOIN Movie m ON r.movie_id = m.id
		INNER JOIN Movie_Genre mg ON m.id = mg.movie_id
		INNER JOIN Genre g ON mg.genre_id = g.id
		GROUP BY r.user_id, r.movie_id, r.value, m.title
		ORDER BY r.user_id, r.movie_id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to query training rows", zap.Error(err))
		return fmt.Errorf("query training rows: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var row entity.RatedMovie
		err := rows.Scan(
			&row.UserID,
			&row.MovieID,
			&row.Title,
			&row.Genres,
			&row.Value,
		)
		if err != nil {
			r.log.Error("Failed to scan training row", zap.Error(err))
			return fmt.Errorf("scan training row: %w", err)
		}
		if err := fn(&row); err != nil {
			return err
		}
	}

	return rows.Err()
}
