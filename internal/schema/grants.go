package schema

import (
	"fmt"

	"github.com/jackc/pgx/v5"
)

// The five tables and three serial sequences of the schema, written as they
// appear in the DDL. Only "User" and its sequence need quoting; the rest
// fold to lowercase.
var (
	grantTables = []string{
		`"User"`,
		`Movie`,
		`Genre`,
		`Movie_Genre`,
		`Rating`,
	}

	grantSequences = []string{
		`"User_id_seq"`,
		`movie_id_seq`,
		`genre_id_seq`,
	}
)

// GrantStatements renders the complete privilege set for the restricted
// role: row-level DML on every table and usage plus setval on every serial
// sequence. Nothing here grants DDL.
func GrantStatements(role string) []string {
	quoted := pgx.Identifier{role}.Sanitize()

	statements := make([]string, 0, len(grantTables)+len(grantSequences))
	for _, table := range grantTables {
		statements = append(statements,
			fmt.Sprintf(`GRANT SELECT, INSERT, UPDATE, DELETE ON TABLE %s TO %s`, table, quoted))
	}
	for _, sequence := range grantSequences {
		statements = append(statements,
			fmt.Sprintf(`GRANT USAGE, SELECT, UPDATE ON SEQUENCE %s TO %s`, sequence, quoted))
	}

	return statements
}
