package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrantStatementsCoverEveryObject(t *testing.T) {
	statements := GrantStatements("movie_app")

	// Five tables plus three sequences.
	require.Len(t, statements, 8)

	wantTables := []string{`"User"`, `Movie`, `Genre`, `Movie_Genre`, `Rating`}
	for i, table := range wantTables {
		assert.Equal(t,
			`GRANT SELECT, INSERT, UPDATE, DELETE ON TABLE `+table+` TO "movie_app"`,
			statements[i],
		)
	}

	wantSequences := []string{`"User_id_seq"`, `movie_id_seq`, `genre_id_seq`}
	for i, sequence := range wantSequences {
		assert.Equal(t,
			`GRANT USAGE, SELECT, UPDATE ON SEQUENCE `+sequence+` TO "movie_app"`,
			statements[len(wantTables)+i],
		)
	}
}

func TestGrantStatementsNeverGrantDDL(t *testing.T) {
	for _, stmt := range GrantStatements("movie_app") {
		assert.NotContains(t, stmt, "CREATE")
		assert.NotContains(t, stmt, "ALL PRIVILEGES")
		assert.NotContains(t, stmt, "OWNER")
	}
}

func TestGrantStatementsQuoteRole(t *testing.T) {
	statements := GrantStatements(`odd"role`)

	for _, stmt := range statements {
		assert.True(t, strings.HasSuffix(stmt, ` TO "odd""role"`), stmt)
	}
}
