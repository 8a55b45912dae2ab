package entity

type Rating struct {
	UserID  int64   `db:"user_id"`
	MovieID int64   `db:"movie_id"`
	Value   float64 `db:"value"`
}

// RatedMovie is the joined read model for exports and per-user listings:
// a rating together with the movie title and its genre names pipe-joined.
type RatedMovie struct {
	UserID  int64   `db:"user_id"`
	MovieID int64   `db:"movie_id"`
	Title   string  `db:"title"`
	Genres  string  `db:"genres"`
	Value   float64 `db:"value"`
}
