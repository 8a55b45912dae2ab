package database

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyPgErrors(t *testing.T) {
	tests := []struct {
		name string
		code string
		want error
	}{
		{"unique violation", "23505", ErrDuplicateKey},
		{"foreign key violation", "23503", ErrForeignKey},
		{"not null violation", "23502", ErrNotNull},
		{"check violation", "23514", ErrCheckViolation},
		{"insufficient privilege", "42501", ErrPermissionDenied},
		{"invalid password", "28P01", ErrAuthFailed},
		{"invalid authorization", "28000", ErrAuthFailed},
		{"undefined table", "42P01", ErrUndefinedTable},
		{"undefined object", "42704", ErrUndefinedObject},
		{"undefined function", "42883", ErrUndefinedObject},
		{"database missing", "3D000", ErrDatabaseMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pgErr := &pgconn.PgError{Code: tt.code, Message: "boom"}

			got := Classify(fmt.Errorf("insert users: %w", pgErr))
			assert.ErrorIs(t, got, tt.want)
		})
	}
}

func TestClassifyKeepsConstraintDetail(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:           "23505",
		ConstraintName: "genre_name_key",
		Detail:         "Key (name)=(Comedy) already exists.",
	}

	got := Classify(pgErr)

	require.ErrorIs(t, got, ErrDuplicateKey)
	assert.Contains(t, got.Error(), "genre_name_key")
	assert.Contains(t, got.Error(), "Comedy")
}

func TestClassifyForeignKeyNamesConstraint(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:           "23503",
		ConstraintName: "rating_movie_id_fkey",
		Detail:         `Key (movie_id)=(99) is not present in table "movie".`,
	}

	got := Classify(pgErr)

	require.ErrorIs(t, got, ErrForeignKey)
	assert.Contains(t, got.Error(), "rating_movie_id_fkey")
}

func TestClassifyConnectivity(t *testing.T) {
	t.Run("net error", func(t *testing.T) {
		opErr := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}

		got := Classify(fmt.Errorf("ping database failed: %w", opErr))
		assert.ErrorIs(t, got, ErrUnreachable)
	})

	t.Run("deadline exceeded", func(t *testing.T) {
		got := Classify(fmt.Errorf("ping database failed: %w", context.DeadlineExceeded))
		assert.ErrorIs(t, got, ErrUnreachable)
	})
}

func TestClassifyPassthrough(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, Classify(nil))
	})

	t.Run("unrecognized pg code", func(t *testing.T) {
		err := fmt.Errorf("exec: %w", &pgconn.PgError{Code: "57014", Message: "canceled"})
		assert.Equal(t, err, Classify(err))
	})

	t.Run("plain error", func(t *testing.T) {
		err := errors.New("something else")
		assert.Equal(t, err, Classify(err))
	})
}
