package database

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors for the failure classes callers branch on. Classify wraps
// them with the server's constraint and detail text.
var (
	ErrDuplicateKey     = errors.New("duplicate key")
	ErrForeignKey       = errors.New("foreign key violation")
	ErrNotNull          = errors.New("not-null violation")
	ErrCheckViolation   = errors.New("check constraint violation")
	ErrPermissionDenied = errors.New("permission denied")
	ErrAuthFailed       = errors.New("authentication failed")
	ErrUndefinedTable   = errors.New("relation does not exist")
	ErrUndefinedObject  = errors.New("object does not exist")
	ErrDatabaseMissing  = errors.New("database does not exist")
	ErrUnreachable      = errors.New("database unreachable")
)

// Classify maps a driver error onto one of the sentinel errors above.
// Unrecognized errors pass through unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fmt.Errorf("%w on %s: %s", ErrDuplicateKey, pgErr.ConstraintName, pgErr.Detail)
		case "23503":
			return fmt.Errorf("%w on %s: %s", ErrForeignKey, pgErr.ConstraintName, pgErr.Detail)
		case "23502":
			return fmt.Errorf("%w: column %s of %s", ErrNotNull, pgErr.ColumnName, pgErr.TableName)
		case "23514":
			return fmt.Errorf("%w on %s", ErrCheckViolation, pgErr.ConstraintName)
		case "42501":
			return fmt.Errorf("%w: %s", ErrPermissionDenied, pgErr.Message)
		case "28P01", "28000":
			return fmt.Errorf("%w: %s", ErrAuthFailed, pgErr.Message)
		case "42P01":
			return fmt.Errorf("%w: %s", ErrUndefinedTable, pgErr.Message)
		case "42704", "42883":
			return fmt.Errorf("%w: %s", ErrUndefinedObject, pgErr.Message)
		case "3D000":
			return fmt.Errorf("%w: %s", ErrDatabaseMissing, pgErr.Message)
		}
		return err
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	return err
}
