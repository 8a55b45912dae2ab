// Package dataset parses the ratings CSV into the deduplicated slices the
// loader inserts: distinct users, movies, genre names, movie-genre links,
// and ratings, each in first-seen order with first-seen values winning.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"movie-ratings/internal/data/entity"
	"movie-ratings/pkg/utils"

	"go.uber.org/zap"
)

// noGenresSentinel is the upstream dataset's marker for a movie without
// genres. The movie and rating still load; no genre rows do.
const noGenresSentinel = "(no genres listed)"

// requiredColumns are addressed by header name; column order and unknown
// extra columns do not matter.
var requiredColumns = []string{"userId", "movieId", "title", "genres", "rating"}

type Options struct {
	// Inclusive bounds enforced on every rating value.
	RatingMin float64
	RatingMax float64

	// SkipInvalid logs and drops rows that fail validation instead of
	// aborting the whole parse.
	SkipInvalid bool
}

// Link pairs a movie with a genre by name; ids are resolved at load time
// after the genres are inserted.
type Link struct {
	MovieID int64
	Genre   string
}

// Dataset is the deduplicated load set, ordered for foreign key dependency:
// users, movies and genres first, then links and ratings.
type Dataset struct {
	RowsRead    int
	RowsSkipped int

	Users   []int64
	Movies  []*entity.Movie
	Genres  []string
	Links   []Link
	Ratings []*entity.Rating
}

type row struct {
	UserID  int64    `validate:"required,gt=0"`
	MovieID int64    `validate:"required,gt=0"`
	Title   string   `validate:"required,max=1000"`
	Genres  []string `validate:"omitempty,dive,required,max=255"`
	Rating  float64
}

type Reader struct {
	opts Options
	log  *zap.Logger
}

func NewReader(opts Options, log *zap.Logger) *Reader {
	return &Reader{
		opts: opts,
		log:  log.With(zap.String("component", "dataset")),
	}
}

// Read consumes the whole CSV stream. Invalid rows abort with a line-tagged
// error, or are counted and skipped when Options.SkipInvalid is set.
func (r *Reader) Read(src io.Reader) (*Dataset, error) {
	cr := csv.NewReader(src)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty input: missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	columns, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{}
	seen := newDedupe()

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		ds.RowsRead++

		line, _ := cr.FieldPos(0)

		parsed, err := parseRow(record, columns)
		if err == nil {
			err = r.validateRow(parsed)
		}
		if err != nil {
			if r.opts.SkipInvalid {
				ds.RowsSkipped++
				r.log.Warn("Skipping invalid row",
					zap.Int("line", line),
					zap.String("reason", err.Error()),
				)
				continue
			}
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		seen.add(ds, parsed)
	}

	return ds, nil
}

func (r *Reader) validateRow(parsed *row) error {
	if errs := utils.ValidateStruct(parsed); len(errs) > 0 {
		return fmt.Errorf("%s", utils.FormatValidationErrors(errs))
	}
	if parsed.Rating < r.opts.RatingMin || parsed.Rating > r.opts.RatingMax {
		return fmt.Errorf("rating %g outside [%g, %g]",
			parsed.Rating, r.opts.RatingMin, r.opts.RatingMax)
	}
	return nil
}

// indexColumns maps the required column names onto their positions. A BOM
// on the first header cell is tolerated.
func indexColumns(header []string) (map[string]int, error) {
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	positions := make(map[string]int, len(header))
	for i, name := range header {
		positions[strings.TrimSpace(name)] = i
	}

	columns := make(map[string]int, len(requiredColumns))
	for _, name := range requiredColumns {
		pos, ok := positions[name]
		if !ok {
			return nil, fmt.Errorf("missing required column %q in header %v", name, header)
		}
		columns[name] = pos
	}

	return columns, nil
}

func parseRow(record []string, columns map[string]int) (*row, error) {
	field := func(name string) (string, error) {
		pos := columns[name]
		if pos >= len(record) {
			return "", fmt.Errorf("missing field %q", name)
		}
		return record[pos], nil
	}

	var parsed row

	rawUser, err := field("userId")
	if err != nil {
		return nil, err
	}
	// bitSize 32 matches the INTEGER columns.
	parsed.UserID, err = strconv.ParseInt(strings.TrimSpace(rawUser), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid userId %q", rawUser)
	}

	rawMovie, err := field("movieId")
	if err != nil {
		return nil, err
	}
	parsed.MovieID, err = strconv.ParseInt(strings.TrimSpace(rawMovie), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid movieId %q", rawMovie)
	}

	title, err := field("title")
	if err != nil {
		return nil, err
	}
	parsed.Title = title

	rawRating, err := field("rating")
	if err != nil {
		return nil, err
	}
	rating, err := strconv.ParseFloat(strings.TrimSpace(rawRating), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid rating %q", rawRating)
	}
	parsed.Rating = rating

	rawGenres, err := field("genres")
	if err != nil {
		return nil, err
	}
	if rawGenres != "" && rawGenres != noGenresSentinel {
		parsed.Genres = strings.Split(rawGenres, "|")
	}

	return &parsed, nil
}

// dedupe tracks what the dataset already holds so every entity lands once,
// first occurrence wins.
type dedupe struct {
	users   map[int64]struct{}
	movies  map[int64]struct{}
	genres  map[string]struct{}
	links   map[Link]struct{}
	ratings map[[2]int64]struct{}
}

func newDedupe() *dedupe {
	return &dedupe{
		users:   make(map[int64]struct{}),
		movies:  make(map[int64]struct{}),
		genres:  make(map[string]struct{}),
		links:   make(map[Link]struct{}),
		ratings: make(map[[2]int64]struct{}),
	}
}

func (d *dedupe) add(ds *Dataset, parsed *row) {
	if _, ok := d.users[parsed.UserID]; !ok {
		d.users[parsed.UserID] = struct{}{}
		ds.Users = append(ds.Users, parsed.UserID)
	}

	if _, ok := d.movies[parsed.MovieID]; !ok {
		d.movies[parsed.MovieID] = struct{}{}
		ds.Movies = append(ds.Movies, &entity.Movie{
			ID:    parsed.MovieID,
			Title: parsed.Title,
		})
	}

	for _, genre := range parsed.Genres {
		if _, ok := d.genres[genre]; !ok {
			d.genres[genre] = struct{}{}
			ds.Genres = append(ds.Genres, genre)
		}

		link := Link{MovieID: parsed.MovieID, Genre: genre}
		if _, ok := d.links[link]; !ok {
			d.links[link] = struct{}{}
			ds.Links = append(ds.Links, link)
		}
	}

	pair := [2]int64{parsed.UserID, parsed.MovieID}
	if _, ok := d.ratings[pair]; !ok {
		d.ratings[pair] = struct{}{}
		ds.Ratings = append(ds.Ratings, &entity.Rating{
			UserID:  parsed.UserID,
			MovieID: parsed.MovieID,
			Value:   parsed.Rating,
		})
	}
}
