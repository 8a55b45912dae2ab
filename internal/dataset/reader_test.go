package dataset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testReader(opts Options) *Reader {
	return NewReader(opts, zap.NewNop())
}

func defaultOptions() Options {
	return Options{RatingMin: 0.5, RatingMax: 5.0}
}

func TestReaderParsesAndDeduplicates(t *testing.T) {
	input := strings.Join([]string{
		`userId,movieId,title,genres,rating`,
		`1,10,"Matrix, The (1999)",Action|Sci-Fi,4.5`,
		`2,10,"Matrix, The (1999)",Action|Sci-Fi,3.0`,
		`1,20,Toy Story (1995),Animation|Comedy,5.0`,
		`1,10,Renamed Title,Action,2.0`,
		``,
	}, "\n")

	ds, err := testReader(defaultOptions()).Read(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 4, ds.RowsRead)
	assert.Equal(t, 0, ds.RowsSkipped)

	assert.Equal(t, []int64{1, 2}, ds.Users)

	require.Len(t, ds.Movies, 2)
	assert.Equal(t, int64(10), ds.Movies[0].ID)
	// First title seen for a movie id wins.
	assert.Equal(t, "Matrix, The (1999)", ds.Movies[0].Title)
	assert.Equal(t, "Toy Story (1995)", ds.Movies[1].Title)

	assert.Equal(t, []string{"Action", "Sci-Fi", "Animation", "Comedy"}, ds.Genres)

	assert.Equal(t, []Link{
		{MovieID: 10, Genre: "Action"},
		{MovieID: 10, Genre: "Sci-Fi"},
		{MovieID: 20, Genre: "Animation"},
		{MovieID: 20, Genre: "Comedy"},
	}, ds.Links)

	require.Len(t, ds.Ratings, 3)
	// First rating for a (user, movie) pair wins.
	assert.Equal(t, int64(1), ds.Ratings[0].UserID)
	assert.Equal(t, int64(10), ds.Ratings[0].MovieID)
	assert.Equal(t, 4.5, ds.Ratings[0].Value)
	assert.Equal(t, 3.0, ds.Ratings[1].Value)
	assert.Equal(t, 5.0, ds.Ratings[2].Value)
}

func TestReaderGenreSentinel(t *testing.T) {
	input := strings.Join([]string{
		`userId,movieId,title,genres,rating`,
		`1,10,Untagged Film,(no genres listed),3.5`,
		`1,20,Blank Genres,,4.0`,
	}, "\n")

	ds, err := testReader(defaultOptions()).Read(strings.NewReader(input))
	require.NoError(t, err)

	// Movies and ratings load; no genre rows do.
	assert.Len(t, ds.Movies, 2)
	assert.Len(t, ds.Ratings, 2)
	assert.Empty(t, ds.Genres)
	assert.Empty(t, ds.Links)
}

func TestReaderHeaderHandling(t *testing.T) {
	t.Run("columns addressed by name, extras ignored", func(t *testing.T) {
		input := strings.Join([]string{
			`timestamp,rating,title,userId,movieId,genres`,
			`964982703,4.0,Heat (1995),3,30,Crime|Thriller`,
		}, "\n")

		ds, err := testReader(defaultOptions()).Read(strings.NewReader(input))
		require.NoError(t, err)

		require.Len(t, ds.Ratings, 1)
		assert.Equal(t, int64(3), ds.Ratings[0].UserID)
		assert.Equal(t, int64(30), ds.Ratings[0].MovieID)
		assert.Equal(t, 4.0, ds.Ratings[0].Value)
		assert.Equal(t, "Heat (1995)", ds.Movies[0].Title)
	})

	t.Run("byte order mark tolerated", func(t *testing.T) {
		input := "\ufeffuserId,movieId,title,genres,rating\n1,10,Heat (1995),Crime,4.0\n"

		ds, err := testReader(defaultOptions()).Read(strings.NewReader(input))
		require.NoError(t, err)
		assert.Equal(t, []int64{1}, ds.Users)
	})

	t.Run("missing required column", func(t *testing.T) {
		input := "userId,movieId,title,rating\n1,10,Heat (1995),4.0\n"

		_, err := testReader(defaultOptions()).Read(strings.NewReader(input))
		require.Error(t, err)
		assert.Contains(t, err.Error(), `missing required column "genres"`)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := testReader(defaultOptions()).Read(strings.NewReader(""))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing header")
	})

	t.Run("header only", func(t *testing.T) {
		ds, err := testReader(defaultOptions()).Read(strings.NewReader("userId,movieId,title,genres,rating\n"))
		require.NoError(t, err)
		assert.Zero(t, ds.RowsRead)
		assert.Empty(t, ds.Users)
	})
}

func TestReaderRejectsInvalidRows(t *testing.T) {
	header := `userId,movieId,title,genres,rating`

	tests := []struct {
		name    string
		row     string
		wantErr string
	}{
		{"non-numeric user id", `abc,10,Heat (1995),Crime,4.0`, `invalid userId`},
		{"zero user id", `0,10,Heat (1995),Crime,4.0`, "UserID"},
		{"negative movie id", `1,-10,Heat (1995),Crime,4.0`, "MovieID"},
		{"movie id over int32", `1,3000000000,Heat (1995),Crime,4.0`, "invalid movieId"},
		{"empty title", `1,10,,Crime,4.0`, "Title"},
		{"title too long", `1,10,` + strings.Repeat("x", 1001) + `,Crime,4.0`, "Title"},
		{"genre too long", `1,10,Heat (1995),` + strings.Repeat("g", 256) + `,4.0`, "Genres"},
		{"empty genre in list", `1,10,Heat (1995),Crime||Thriller,4.0`, "Genres"},
		{"non-numeric rating", `1,10,Heat (1995),Crime,high`, "invalid rating"},
		{"rating below bounds", `1,10,Heat (1995),Crime,0.25`, "outside [0.5, 5]"},
		{"rating above bounds", `1,10,Heat (1995),Crime,5.5`, "outside [0.5, 5]"},
		{"short record", `1,10`, "missing field"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := header + "\n" + tt.row + "\n"

			_, err := testReader(defaultOptions()).Read(strings.NewReader(input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "line 2")
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestReaderSkipInvalid(t *testing.T) {
	input := strings.Join([]string{
		`userId,movieId,title,genres,rating`,
		`1,10,Heat (1995),Crime,4.0`,
		`bad,20,Broken Row,Drama,3.0`,
		`2,30,Seven (1995),Thriller,9.9`,
		`3,40,Fargo (1996),Crime|Drama,5.0`,
	}, "\n")

	opts := defaultOptions()
	opts.SkipInvalid = true

	ds, err := testReader(opts).Read(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 4, ds.RowsRead)
	assert.Equal(t, 2, ds.RowsSkipped)
	assert.Equal(t, []int64{1, 3}, ds.Users)
	assert.Len(t, ds.Ratings, 2)
}

func TestReaderRatingBoundsAreInclusive(t *testing.T) {
	input := strings.Join([]string{
		`userId,movieId,title,genres,rating`,
		`1,10,Low End,Drama,0.5`,
		`1,20,High End,Drama,5.0`,
	}, "\n")

	ds, err := testReader(defaultOptions()).Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, ds.Ratings, 2)
	assert.Equal(t, 0.5, ds.Ratings[0].Value)
	assert.Equal(t, 5.0, ds.Ratings[1].Value)
}
