package schema

import (
	"context"
	"fmt"
	"strings"

	"movie-ratings/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// Provisioner runs the administrative statements that cannot go through the
// migration path: role and database creation, their teardown, and grants.
// It operates over a single admin connection, and which database that
// connection targets matters: role and database management run against the
// maintenance database, grants against the application database.
type Provisioner struct {
	conn *pgx.Conn
	log  *zap.Logger
}

func NewProvisioner(conn *pgx.Conn, log *zap.Logger) *Provisioner {
	return &Provisioner{
		conn: conn,
		log:  log.With(zap.String("component", "provisioner")),
	}
}

// CreateRole creates a LOGIN role with the given password. An existing role
// is an error unless skipExisting is set.
func (p *Provisioner) CreateRole(ctx context.Context, name, password string, skipExisting bool) error {
	exists, err := p.roleExists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		if skipExisting {
			p.log.Info("Role already exists, skipping", zap.String("role", name))
			return nil
		}
		return fmt.Errorf("role %q already exists", name)
	}

	// CREATE ROLE takes no bind parameters; the password goes in as an
	// escaped literal.
	stmt := fmt.Sprintf(`CREATE ROLE %s LOGIN PASSWORD '%s'`,
		pgx.Identifier{name}.Sanitize(),
		strings.ReplaceAll(password, `'`, `''`),
	)

	if _, err := p.conn.Exec(ctx, stmt); err != nil {
		p.log.Error("Failed to create role",
			zap.Error(err),
			zap.String("role", name),
		)
		return fmt.Errorf("create role %q: %w", name, database.Classify(err))
	}

	p.log.Info("Role created", zap.String("role", name))
	return nil
}

// CreateDatabase creates the application database. Ownership stays with the
// administrative user; the restricted role only ever receives grants. An
// existing database is an error unless skipExisting is set.
func (p *Provisioner) CreateDatabase(ctx context.Context, name string, skipExisting bool) error {
	exists, err := p.databaseExists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		if skipExisting {
			p.log.Info("Database already exists, skipping", zap.String("database", name))
			return nil
		}
		return fmt.Errorf("database %q already exists", name)
	}

	stmt := fmt.Sprintf(`CREATE DATABASE %s`, pgx.Identifier{name}.Sanitize())

	if _, err := p.conn.Exec(ctx, stmt); err != nil {
		p.log.Error("Failed to create database",
			zap.Error(err),
			zap.String("database", name),
		)
		return fmt.Errorf("create database %q: %w", name, database.Classify(err))
	}

	p.log.Info("Database created", zap.String("database", name))
	return nil
}

// ApplyGrants issues the full grant set to the role. The connection must
// target the application database, table grants are per database.
func (p *Provisioner) ApplyGrants(ctx context.Context, role string) error {
	for _, stmt := range GrantStatements(role) {
		if _, err := p.conn.Exec(ctx, stmt); err != nil {
			p.log.Error("Failed to apply grant",
				zap.Error(err),
				zap.String("role", role),
				zap.String("statement", stmt),
			)
			return fmt.Errorf("apply grant %q: %w", stmt, database.Classify(err))
		}
	}

	p.log.Info("Grants applied",
		zap.String("role", role),
		zap.Int("statements", len(grantTables)+len(grantSequences)),
	)
	return nil
}

// DropDatabase removes the application database if present.
func (p *Provisioner) DropDatabase(ctx context.Context, name string) error {
	stmt := fmt.Sprintf(`DROP DATABASE IF EXISTS %s`, pgx.Identifier{name}.Sanitize())

	if _, err := p.conn.Exec(ctx, stmt); err != nil {
		p.log.Error("Failed to drop database",
			zap.Error(err),
			zap.String("database", name),
		)
		return fmt.Errorf("drop database %q: %w", name, database.Classify(err))
	}

	p.log.Info("Database dropped", zap.String("database", name))
	return nil
}

// DropRole removes the restricted role if present. Grants inside a dropped
// database disappear with it, so this only fails while the role still owns
// or is granted something in a surviving database.
func (p *Provisioner) DropRole(ctx context.Context, name string) error {
	stmt := fmt.Sprintf(`DROP ROLE IF EXISTS %s`, pgx.Identifier{name}.Sanitize())

	if _, err := p.conn.Exec(ctx, stmt); err != nil {
		p.log.Error("Failed to drop role",
			zap.Error(err),
			zap.String("role", name),
		)
		return fmt.Errorf("drop role %q: %w", name, database.Classify(err))
	}

	p.log.Info("Role dropped", zap.String("role", name))
	return nil
}

func (p *Provisioner) roleExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := p.conn.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM pg_roles WHERE rolname = $1)`, name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check role %q: %w", name, database.Classify(err))
	}
	return exists, nil
}

func (p *Provisioner) databaseExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := p.conn.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)`, name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check database %q: %w", name, database.Classify(err))
	}
	return exists, nil
}
