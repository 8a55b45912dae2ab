package repository

import (
	"context"
	"fmt"

	"movie-ratings/internal/data/entity"
	"movie-ratings/pkg/database"

	"go.uber.org/zap"
)

type UserRepository interface {
	Create(ctx context.Context) (*entity.User, error)
	CreateWithID(ctx context.Context, id int64) error
	FindAll(ctx context.Context) ([]*entity.User, error)
	NextID(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)

	// Batch operations
	CreateBatch(ctx context.Context, ids []int64) (int64, error)
	SyncSequence(ctx context.Context) error
}

type userRepository struct {
	db  database.Executor
	log *zap.Logger
}

func NewUserRepository(db database.Executor, log *zap.Logger) UserRepository {
	return &userRepository{
		db:  db,
		log: log.With(zap.String("repository", "user")),
	}
}

func (r *userRepository) Create(ctx context.Context) (*entity.User, error) {
	query := `INSERT INTO "User" DEFAULT VALUES RETURNING id`

	var user entity.User
	err := r.db.QueryRow(ctx, query).Scan(&user.ID)
	if err != nil {
		r.log.Error("Failed to create user", zap.Error(err))
		return nil, fmt.Errorf("create user: %w", err)
	}

	return &user, nil
}

// CreateWithID inserts an explicit id and is a no-op when it already exists.
func (r *userRepository) CreateWithID(ctx context.Context, id int64) error {
	query := `INSERT INTO "User" (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`

	_, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to create user with ID",
			zap.Error(err),
			zap.Int64("user_id", id),
		)
		return fmt.Errorf("create user %d: %w", id, err)
	}

	return nil
}

func (r *userRepository) FindAll(ctx context.Context) ([]*entity.User, error) {
	query := `SELECT id FROM "User" ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to find users", zap.Error(err))
		return nil, fmt.Errorf("find users: %w", err)
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		var user entity.User
		if err := rows.Scan(&user.ID); err != nil {
			r.log.Error("Failed to scan user row", zap.Error(err))
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, &user)
	}

	return users, rows.Err()
}

func (r *userRepository) NextID(ctx context.Context) (int64, error) {
	query := `SELECT COALESCE(MAX(id), 0) + 1 FROM "User"`

	var next int64
	err := r.db.QueryRow(ctx, query).Scan(&next)
	if err != nil {
		r.log.Error("Failed to get next user ID", zap.Error(err))
		return 0, fmt.Errorf("next user id: %w", err)
	}

	return next, nil
}

func (r *userRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM "User" WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete user",
			zap.Error(err),
			zap.Int64("user_id", id),
		)
		return fmt.Errorf("delete user %d: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %d not found", id)
	}

	return nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM "User"`

	var count int64
	err := r.db.QueryRow(ctx, query).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count users", zap.Error(err))
		return 0, fmt.Errorf("count users: %w", err)
	}

	return count, nil
}

func (r *userRepository) CreateBatch(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	// Build batch insert
	query := `INSERT INTO "User" (id) VALUES `
	args := []interface{}{}

	for i, id := range ids {
		if i > 0 {
			query += ", "
		}
		query += fmt.Sprintf("($%d)", i+1)
		args = append(args, id)
	}
	query += ` ON CONFLICT (id) DO NOTHING`

	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to create batch users",
			zap.Error(err),
			zap.Int("count", len(ids)),
		)
		return 0, fmt.Errorf("create batch users: %w", err)
	}

	return result.RowsAffected(), nil
}

// SyncSequence moves the serial sequence past MAX(id) after explicit-id
// inserts, so sequence-allocated ids cannot collide with loaded ones.
func (r *userRepository) SyncSequence(ctx context.Context) error {
	query := `SELECT setval('"User_id_seq"',
		COALESCE((SELECT MAX(id) FROM "User"), 1),
		(SELECT MAX(id) IS NOT NULL FROM "User"))`

	if _, err := r.db.Exec(ctx, query); err != nil {
		r.log.Error("Failed to sync user sequence", zap.Error(err))
		return fmt.Errorf("sync user sequence: %w", err)
	}

	return nil
}
