package entity

type MovieGenre struct {
	MovieID int64 `db:"movie_id"`
	GenreID int64 `db:"genre_id"`
}

// MovieGenreDetail is the joined read model for listings: one link with the
// movie title and genre name resolved.
type MovieGenreDetail struct {
	MovieTitle string `db:"movie_title"`
	GenreName  string `db:"genre_name"`
}
