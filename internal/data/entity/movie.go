package entity

type Movie struct {
	ID    int64  `db:"id"`
	Title string `db:"title"`
}
