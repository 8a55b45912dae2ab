package schema

import (
	"io/fs"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var migrationName = regexp.MustCompile(`^\d{4}_[a-z_]+\.(up|down)\.sql$`)

func readMigration(t *testing.T, name string) string {
	t.Helper()
	data, err := fs.ReadFile(migrationsFS, "migrations/"+name)
	require.NoError(t, err)
	return string(data)
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	ups := map[string]bool{}
	downs := map[string]bool{}

	for _, entry := range entries {
		name := entry.Name()
		require.True(t, migrationName.MatchString(name), "unexpected migration file name %q", name)

		base := strings.TrimSuffix(strings.TrimSuffix(name, ".up.sql"), ".down.sql")
		if strings.HasSuffix(name, ".up.sql") {
			ups[base] = true
		} else {
			downs[base] = true
		}
	}

	assert.Equal(t, ups, downs, "every up migration needs a down counterpart")
}

func TestCreateTablesMigration(t *testing.T) {
	up := readMigration(t, "0001_create_tables.up.sql")

	for _, table := range []string{`"User"`, "Movie", "Genre", "Movie_Genre", "Rating"} {
		assert.Contains(t, up, "CREATE TABLE "+table+" (")
	}

	// The reserved-word table keeps its quoted name; no other identifier is
	// quoted.
	assert.Equal(t, 2, strings.Count(up, `"User"`), "only the User table and its Rating FK reference")

	assert.Contains(t, up, "name VARCHAR(255) NOT NULL UNIQUE")
	assert.Contains(t, up, "title VARCHAR(1000) NOT NULL")
	assert.Contains(t, up, "value NUMERIC NOT NULL")
	assert.Contains(t, up, "PRIMARY KEY (movie_id, genre_id)")
	assert.Contains(t, up, "PRIMARY KEY (user_id, movie_id)")
	assert.Equal(t, 4, strings.Count(up, "ON DELETE CASCADE"), "both link FKs and both rating FKs cascade")

	// Rating.value carries no range constraint; bounds live in the loader.
	assert.NotContains(t, up, "CHECK")
}

func TestDropTablesMigrationOrder(t *testing.T) {
	down := readMigration(t, "0001_create_tables.down.sql")

	assert.Equal(t, 5, strings.Count(down, "DROP TABLE IF EXISTS"))

	// Referencing tables drop before referenced ones.
	rating := strings.Index(down, "DROP TABLE IF EXISTS Rating;")
	link := strings.Index(down, "DROP TABLE IF EXISTS Movie_Genre;")
	genre := strings.Index(down, "DROP TABLE IF EXISTS Genre;")
	movie := strings.Index(down, "DROP TABLE IF EXISTS Movie;")
	user := strings.Index(down, `DROP TABLE IF EXISTS "User";`)

	require.GreaterOrEqual(t, rating, 0)
	require.GreaterOrEqual(t, user, 0)
	assert.Less(t, rating, link)
	assert.Less(t, link, genre)
	assert.Less(t, genre, movie)
	assert.Less(t, movie, user)
}

func TestIndexMigration(t *testing.T) {
	up := readMigration(t, "0002_add_fk_indexes.up.sql")
	down := readMigration(t, "0002_add_fk_indexes.down.sql")

	assert.Contains(t, up, "CREATE INDEX idx_movie_genre_genre_id ON Movie_Genre (genre_id)")
	assert.Contains(t, up, "CREATE INDEX idx_rating_movie_id ON Rating (movie_id)")
	assert.Contains(t, down, "DROP INDEX IF EXISTS idx_movie_genre_genre_id")
	assert.Contains(t, down, "DROP INDEX IF EXISTS idx_rating_movie_id")
}
