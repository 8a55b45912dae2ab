package repository

import (
	"context"
	"fmt"

	"movie-ratings/internal/data/entity"
	"movie-ratings/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type GenreRepository interface {
	Create(ctx context.Context, name string) error
	FindByName(ctx context.Context, name string) (*entity.Genre, error)
	FindAll(ctx context.Context) ([]*entity.Genre, error)
	DeleteByName(ctx context.Context, name string) error
	Count(ctx context.Context) (int64, error)

	// Batch operations
	CreateBatch(ctx context.Context, names []string) (int64, error)
	IDsByName(ctx context.Context, names []string) (map[string]int64, error)
	SyncSequence(ctx context.Context) error
}

type genreRepository struct {
	db  database.Executor
	log *zap.Logger
}

func NewGenreRepository(db database.Executor, log *zap.Logger) GenreRepository {
	return &genreRepository{
		db:  db,
		log: log.With(zap.String("repository", "genre")),
	}
}

// Create inserts a genre by name and is a no-op when the name exists.
func (r *genreRepository) Create(ctx context.Context, name string) error {
	query := `INSERT INTO Genre (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`

	_, err := r.db.Exec(ctx, query, name)
	if err != nil {
		r.log.Error("Failed to create genre",
			zap.Error(err),
			zap.String("name", name),
		)
		return fmt.Errorf("create genre %q: %w", name, err)
	}

	return nil
}

func (r *genreRepository) FindByName(ctx context.Context, name string) (*entity.Genre, error) {
	query := `SELECT id, name FROM Genre WHERE name = $1`

	var genre entity.Genre
	err := r.db.QueryRow(ctx, query, name).Scan(
		&genre.ID,
		&genre.Name,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find genre by name",
			zap.Error(err),
			zap.String("name", name),
		)
		return nil, fmt.Errorf("find genre by name %q: %w", name, err)
	}

	return &genre, nil
}

func (r *genreRepository) FindAll(ctx context.Context) ([]*entity.Genre, error) {
	query := `SELECT id, name FROM Genre ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to find genres", zap.Error(err))
		return nil, fmt.Errorf("find genres: %w", err)
	}
	defer rows.Close()

	var genres []*entity.Genre
	for rows.Next() {
		var genre entity.Genre
		if err := rows.Scan(&genre.ID, &genre.Name); err != nil {
			r.log.Error("Failed to scan genre row", zap.Error(err))
			return nil, fmt.Errorf("scan genre row: %w", err)
		}
		genres = append(genres, &genre)
	}

	return genres, rows.Err()
}

func (r *genreRepository) DeleteByName(ctx context.Context, name string) error {
	query := `DELETE FROM Genre WHERE name = $1`

	result, err := r.db.Exec(ctx, query, name)
	if err != nil {
		r.log.Error("Failed to delete genre",
			zap.Error(err),
			zap.String("name", name),
		)
		return fmt.Errorf("delete genre %q: %w", name, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("genre %q not found", name)
	}

	return nil
}

func (r *genreRepository) Count(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM Genre`

	var count int64
	err := r.db.QueryRow(ctx, query).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count genres", zap.Error(err))
		return 0, fmt.Errorf("count genres: %w", err)
	}

	return count, nil
}

func (r *genreRepository) CreateBatch(ctx context.Context, names []string) (int64, error) {
	if len(names) == 0 {
		return 0, nil
	}

	// Build batch insert
	query := `INSERT INTO Genre (name) VALUES `
	args := []interface{}{}

	for i, name := range names {
		if i > 0 {
			query += ", "
		}
		query += fmt.Sprintf("($%d)", i+1)
		args = append(args, name)
	}
	query += ` ON CONFLICT (name) DO NOTHING`

	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to create batch genres",
			zap.Error(err),
			zap.Int("count", len(names)),
		)
		return 0, fmt.Errorf("create batch genres: %w", err)
	}

	return result.RowsAffected(), nil
}

// IDsByName resolves genre names to ids in one round trip. Names that do not
// exist are simply absent from the map.
func (r *genreRepository) IDsByName(ctx context.Context, names []string) (map[string]int64, error) {
	ids := make(map[string]int64, len(names))
	if len(names) == 0 {
		return ids, nil
	}

	query := `SELECT id, name FROM Genre WHERE name = ANY($1)`

	rows, err := r.db.Query(ctx, query, names)
	if err != nil {
		r.log.Error("Failed to resolve genre ids",
			zap.Error(err),
			zap.Int("count", len(names)),
		)
		return nil, fmt.Errorf("resolve genre ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id   int64
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			r.log.Error("Failed to scan genre id row", zap.Error(err))
			return nil, fmt.Errorf("scan genre id row: %w", err)
		}
		ids[name] = id
	}

	return ids, rows.Err()
}

// SyncSequence moves the serial sequence past MAX(id) after explicit-id
// inserts.
func (r *genreRepository) SyncSequence(ctx context.Context) error {
	query := `SELECT setval('genre_id_seq',
		COALESCE((SELECT MAX(id) FROM Genre), 1),
		(SELECT MAX(id) IS NOT NULL FROM Genre))`

	if _, err := r.db.Exec(ctx, query); err != nil {
		r.log.Error("Failed to sync genre sequence", zap.Error(err))
		return fmt.Errorf("sync genre sequence: %w", err)
	}

	return nil
}
