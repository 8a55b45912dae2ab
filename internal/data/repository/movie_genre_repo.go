package repository

import (
	"context"
	"errors"
	"fmt"

	"movie-ratings/internal/data/entity"
	"movie-ratings/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ErrGenreNotFound reports a link or unlink against a genre name that does
// not exist. Distinct from a foreign key violation, which would mean a
// missing movie.
var ErrGenreNotFound = errors.New("genre not found")

type MovieGenreRepository interface {
	Link(ctx context.Context, movieID int64, genreName string) error
	Unlink(ctx context.Context, movieID int64, genreName string) error
	FindAll(ctx context.Context) ([]*entity.MovieGenreDetail, error)
	GenreNamesByMovieID(ctx context.Context, movieID int64) ([]string, error)
	Count(ctx context.Context) (int64, error)

	// Batch operations
	CreateBatch(ctx context.Context, links []*entity.MovieGenre) (int64, error)
}

type movieGenreRepository struct {
	db  database.Executor
	log *zap.Logger
}

func NewMovieGenreRepository(db database.Executor, log *zap.Logger) MovieGenreRepository {
	return &movieGenreRepository{
		db:  db,
		log: log.With(zap.String("repository", "movie_genre")),
	}
}

// Link resolves the genre by name and inserts the pair, a no-op when the
// link already exists.
func (r *movieGenreRepository) Link(ctx context.Context, movieID int64, genreName string) error {
	genreID, err := r.genreIDByName(ctx, genreName)
	if err != nil {
		return err
	}

	query := `INSERT INTO Movie_Genre (movie_id, genre_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`

	_, err = r.db.Exec(ctx, query, movieID, genreID)
	if err != nil {
		r.log.Error("Failed to link movie to genre",
			zap.Error(err),
			zap.Int64("movie_id", movieID),
			zap.String("genre", genreName),
		)
		return fmt.Errorf("link movie %d to genre %q: %w", movieID, genreName, err)
	}

	return nil
}

func (r *movieGenreRepository) Unlink(ctx context.Context, movieID int64, genreName string) error {
	genreID, err := r.genreIDByName(ctx, genreName)
	if err != nil {
		return err
	}

	query := `DELETE FROM Movie_Genre WHERE movie_id = $1 AND genre_id = $2`

	result, err := r.db.Exec(ctx, query, movieID, genreID)
	if err != nil {
		r.log.Error("Failed to unlink movie from genre",
			zap.Error(err),
			zap.Int64("movie_id", movieID),
			zap.String("genre", genreName),
		)
		return fmt.Errorf("unlink movie %d from genre %q: %w", movieID, genreName, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("movie %d is not linked to genre %q", movieID, genreName)
	}

	return nil
}

func (r *movieGenreRepository) FindAll(ctx context.Context) ([]*entity.MovieGenreDetail, error) {
	query := `
		SELECT m.title AS movie_title, g.name AS genre_name
		FROM Movie_Genre mg
		INNER JOIN Movie m ON mg.movie_id = m.id
		INNER JOIN Genre g ON mg.genre_id = g.id
		ORDER BY m.title, g.name
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to find movie_genres", zap.Error(err))
		return nil, fmt.Errorf("find movie_genres: %w", err)
	}
	defer rows.Close()

	var links []*entity.MovieGenreDetail
	for rows.Next() {
		var link entity.MovieGenreDetail
		if err := rows.Scan(&link.MovieTitle, &link.GenreName); err != nil {
			r.log.Error("Failed to scan movie_genre row", zap.Error(err))
			return nil, fmt.Errorf("scan movie_genre row: %w", err)
		}
		links = append(links, &link)
	}

	return links, rows.Err()
}

func (r *movieGenreRepository) GenreNamesByMovieID(ctx context.Context, movieID int64) ([]string, error) {
	query := `
		SELECT g.name
		FROM Movie_Genre mg
		INNER JOIN Genre g ON mg.genre_id = g.id
		WHERE mg.movie_id = $1
		ORDER BY g.name
	`

	rows, err := r.db.Query(ctx, query, movieID)
	if err != nil {
		r.log.Error("Failed to find genres by movie ID",
			zap.Error(err),
			zap.Int64("movie_id", movieID),
		)
		return nil, fmt.Errorf("find genres for movie %d: %w", movieID, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			r.log.Error("Failed to scan genre name row", zap.Error(err))
			return nil, fmt.Errorf("scan genre name row: %w", err)
		}
		names = append(names, name)
	}

	return names, rows.Err()
}

func (r *movieGenreRepository) Count(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM Movie_Genre`

	var count int64
	err := r.db.QueryRow(ctx, query).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count movie_genres", zap.Error(err))
		return 0, fmt.Errorf("count movie_genres: %w", err)
	}

	return count, nil
}

func (r *movieGenreRepository) CreateBatch(ctx context.Context, links []*entity.MovieGenre) (int64, error) {
	if len(links) == 0 {
		return 0, nil
	}

	// Build batch insert
	query := `INSERT INTO Movie_Genre (movie_id, genre_id) VALUES `
	args := []interface{}{}

	for i, link := range links {
		if i > 0 {
			query += ", "
		}
		query += fmt.Sprintf("($%d, $%d)", i*2+1, i*2+2)
		args = append(args, link.MovieID, link.GenreID)
	}
	query += ` ON CONFLICT DO NOTHING`

	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to create batch movie_genres",
			zap.Error(err),
			zap.Int("count", len(links)),
		)
		return 0, fmt.Errorf("create batch movie_genres: %w", err)
	}

	return result.RowsAffected(), nil
}

func (r *movieGenreRepository) genreIDByName(ctx context.Context, name string) (int64, error) {
	query := `SELECT id FROM Genre WHERE name = $1`

	var id int64
	err := r.db.QueryRow(ctx, query, name).Scan(&id)

	if err == pgx.ErrNoRows {
		return 0, fmt.Errorf("%w: %q", ErrGenreNotFound, name)
	}
	if err != nil {
		r.log.Error("Failed to resolve genre by name",
			zap.Error(err),
			zap.String("genre", name),
		)
		return 0, fmt.Errorf("resolve genre %q: %w", name, err)
	}

	return id, nil
}
