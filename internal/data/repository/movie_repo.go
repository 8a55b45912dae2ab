package repository

import (
	"context"
	"fmt"

	"movie-ratings/internal/data/entity"
	"movie-ratings/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type MovieRepository interface {
	Create(ctx context.Context, title string) (*entity.Movie, error)
	CreateWithID(ctx context.Context, movie *entity.Movie) error
	FindByID(ctx context.Context, id int64) (*entity.Movie, error)
	FindAll(ctx context.Context) ([]*entity.Movie, error)
	UpdateTitle(ctx context.Context, id int64, title string) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)

	// Batch operations
	CreateBatch(ctx context.Context, movies []*entity.Movie) (int64, error)
	SyncSequence(ctx context.Context) error
}

type movieRepository struct {
	db  database.Executor
	log *zap.Logger
}

func NewMovieRepository(db database.Executor, log *zap.Logger) MovieRepository {
	return &movieRepository{
		db:  db,
		log: log.With(zap.String("repository", "movie")),
	}
}

func (r *movieRepository) Create(ctx context.Context, title string) (*entity.Movie, error) {
	query := `INSERT INTO Movie (title) VALUES ($1) RETURNING id`

	movie := entity.Movie{Title: title}
	err := r.db.QueryRow(ctx, query, title).Scan(&movie.ID)
	if err != nil {
		r.log.Error("Failed to create movie",
			zap.Error(err),
			zap.String("title", title),
		)
		return nil, fmt.Errorf("create movie %q: %w", title, err)
	}

	return &movie, nil
}

// CreateWithID inserts an explicit id and is a no-op when it already exists.
func (r *movieRepository) CreateWithID(ctx context.Context, movie *entity.Movie) error {
	query := `INSERT INTO Movie (id, title) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`

	_, err := r.db.Exec(ctx, query, movie.ID, movie.Title)
	if err != nil {
		r.log.Error("Failed to create movie with ID",
			zap.Error(err),
			zap.Int64("movie_id", movie.ID),
		)
		return fmt.Errorf("create movie %d: %w", movie.ID, err)
	}

	return nil
}

func (r *movieRepository) FindByID(ctx context.Context, id int64) (*entity.Movie, error) {
	query := `SELECT id, title FROM Movie WHERE id = $1`

	var movie entity.Movie
	err := r.db.QueryRow(ctx, query, id).Scan(
		&movie.ID,
		&movie.Title,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find movie by ID",
			zap.Error(err),
			zap.Int64("movie_id", id),
		)
		return nil, fmt.Errorf("find movie by id %d: %w", id, err)
	}

	return &movie, nil
}

func (r *movieRepository) FindAll(ctx context.Context) ([]*entity.Movie, error) {
	query := `SELECT id, title FROM Movie ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to find movies", zap.Error(err))
		return nil, fmt.Errorf("find movies: %w", err)
	}
	defer rows.Close()

	var movies []*entity.Movie
	for rows.Next() {
		var movie entity.Movie
		if err := rows.Scan(&movie.ID, &movie.Title); err != nil {
			r.log.Error("Failed to scan movie row", zap.Error(err))
			return nil, fmt.Errorf("scan movie row: %w", err)
		}
		movies = append(movies, &movie)
	}

	return movies, rows.Err()
}

func (r *movieRepository) UpdateTitle(ctx context.Context, id int64, title string) error {
	query := `UPDATE Movie SET title = $2 WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, title)
	if err != nil {
		r.log.Error("Failed to update movie title",
			zap.Error(err),
			zap.Int64("movie_id", id),
		)
		return fmt.Errorf("update movie %d: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("movie %d not found", id)
	}

	return nil
}

func (r *movieRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM Movie WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete movie",
			zap.Error(err),
			zap.Int64("movie_id", id),
		)
		return fmt.Errorf("delete movie %d: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("movie %d not found", id)
	}

	return nil
}

func (r *movieRepository) Count(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM Movie`

	var count int64
	err := r.db.QueryRow(ctx, query).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count movies", zap.Error(err))
		return 0, fmt.Errorf("count movies: %w", err)
	}

	return count, nil
}

func (r *movieRepository) CreateBatch(ctx context.Context, movies []*entity.Movie) (int64, error) {
	if len(movies) == 0 {
		return 0, nil
	}

	// Build batch insert
	query := `INSERT INTO Movie (id, title) VALUES `
	args := []interface{}{}

	for i, movie := range movies {
		if i > 0 {
			query += ", "
		}
		query += fmt.Sprintf("($%d, $%d)", i*2+1, i*2+2)
		args = append(args, movie.ID, movie.Title)
	}
	query += ` ON CONFLICT (id) DO NOTHING`

	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to create batch movies",
			zap.Error(err),
			zap.Int("count", len(movies)),
		)
		return 0, fmt.Errorf("create batch movies: %w", err)
	}

	return result.RowsAffected(), nil
}

// SyncSequence moves the serial sequence past MAX(id) after explicit-id
// inserts.
func (r *movieRepository) SyncSequence(ctx context.Context) error {
	query := `SELECT setval('movie_id_seq',
		COALESCE((SELECT MAX(id) FROM Movie), 1),
		(SELECT MAX(id) IS NOT NULL FROM Movie))`

	if _, err := r.db.Exec(ctx, query); err != nil {
		r.log.Error("Failed to sync movie sequence", zap.Error(err))
		return fmt.Errorf("sync movie sequence: %w", err)
	}

	return nil
}
