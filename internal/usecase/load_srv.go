package usecase

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"movie-ratings/internal/data/entity"
	"movie-ratings/internal/data/repository"
	"movie-ratings/internal/dataset"
	"movie-ratings/pkg/database"
	"movie-ratings/pkg/utils"

	"go.uber.org/zap"
)

type LoadOptions struct {
	// SkipInvalid drops rows that fail validation instead of aborting.
	SkipInvalid bool
}

// LoadResult summarizes one committed load.
type LoadResult struct {
	RunID       string
	RowsRead    int
	RowsSkipped int

	// Rows actually inserted; conflicts with existing rows do not count.
	Users      int64
	Movies     int64
	Genres     int64
	Links      int64
	Ratings    int64

	Elapsed time.Duration
}

type LoadService interface {
	LoadFile(ctx context.Context, path string, opts LoadOptions) (*LoadResult, error)
	Load(ctx context.Context, src io.Reader, opts LoadOptions) (*LoadResult, error)
}

type loadService struct {
	db     database.PgxIface
	config *utils.Config
	log    *zap.Logger
}

func NewLoadService(db database.PgxIface, config *utils.Config, log *zap.Logger) LoadService {
	return &loadService{
		db:     db,
		config: config,
		log:    log.With(zap.String("service", "load")),
	}
}

func (s *loadService) LoadFile(ctx context.Context, path string, opts LoadOptions) (*LoadResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset %q: %w", path, err)
	}
	defer file.Close()

	return s.Load(ctx, file, opts)
}

// Load parses, deduplicates, and inserts the whole dataset inside a single
// transaction: either every staged row commits or none do. Inserts run in
// foreign key dependency order and reuse the original conflict semantics,
// existing rows win.
func (s *loadService) Load(ctx context.Context, src io.Reader, opts LoadOptions) (*LoadResult, error) {
	start := time.Now()
	runID := utils.GenerateRunID()
	log := s.log.With(zap.String("run_id", runID))

	log.Info("Load started", zap.Bool("skip_invalid", opts.SkipInvalid))

	reader := dataset.NewReader(dataset.Options{
		RatingMin:   s.config.Loader.RatingMin,
		RatingMax:   s.config.Loader.RatingMax,
		SkipInvalid: opts.SkipInvalid,
	}, log)

	ds, err := reader.Read(src)
	if err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}

	log.Info("Dataset staged",
		zap.Int("rows_read", ds.RowsRead),
		zap.Int("rows_skipped", ds.RowsSkipped),
		zap.Int("users", len(ds.Users)),
		zap.Int("movies", len(ds.Movies)),
		zap.Int("genres", len(ds.Genres)),
		zap.Int("links", len(ds.Links)),
		zap.Int("ratings", len(ds.Ratings)),
	)

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin load transaction: %w", database.Classify(err))
	}
	defer tx.Rollback(ctx)

	repo := repository.NewRepository(tx, log)
	batchSize := s.config.Loader.BatchSize

	result := &LoadResult{
		RunID:       runID,
		RowsRead:    ds.RowsRead,
		RowsSkipped: ds.RowsSkipped,
	}

	for _, ids := range chunk(ds.Users, batchSize) {
		n, err := repo.User.CreateBatch(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("load users: %w", database.Classify(err))
		}
		result.Users += n
	}

	for _, movies := range chunk(ds.Movies, batchSize) {
		n, err := repo.Movie.CreateBatch(ctx, movies)
		if err != nil {
			return nil, fmt.Errorf("load movies: %w", database.Classify(err))
		}
		result.Movies += n
	}

	for _, names := range chunk(ds.Genres, batchSize) {
		n, err := repo.Genre.CreateBatch(ctx, names)
		if err != nil {
			return nil, fmt.Errorf("load genres: %w", database.Classify(err))
		}
		result.Genres += n
	}

	links, err := s.resolveLinks(ctx, repo, ds)
	if err != nil {
		return nil, err
	}

	for _, batch := range chunk(links, batchSize) {
		n, err := repo.MovieGenre.CreateBatch(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("load movie_genres: %w", database.Classify(err))
		}
		result.Links += n
	}

	for _, ratings := range chunk(ds.Ratings, batchSize) {
		n, err := repo.Rating.CreateBatch(ctx, ratings)
		if err != nil {
			return nil, fmt.Errorf("load ratings: %w", database.Classify(err))
		}
		result.Ratings += n
	}

	// Explicit-id inserts leave the serial sequences behind MAX(id); move
	// them forward before anyone allocates from them.
	for _, sync := range []func(context.Context) error{
		repo.User.SyncSequence,
		repo.Movie.SyncSequence,
		repo.Genre.SyncSequence,
	} {
		if err := sync(ctx); err != nil {
			return nil, fmt.Errorf("sync sequences: %w", database.Classify(err))
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit load: %w", database.Classify(err))
	}

	result.Elapsed = time.Since(start)

	log.Info("Load committed",
		zap.Int64("users", result.Users),
		zap.Int64("movies", result.Movies),
		zap.Int64("genres", result.Genres),
		zap.Int64("links", result.Links),
		zap.Int64("ratings", result.Ratings),
		zap.Duration("elapsed", result.Elapsed),
	)

	return result, nil
}

// resolveLinks maps the staged (movie, genre name) pairs onto genre ids.
// The names were inserted earlier in the same transaction, so a missing id
// means the dataset and the insert path disagree.
func (s *loadService) resolveLinks(ctx context.Context, repo *repository.Repository, ds *dataset.Dataset) ([]*entity.MovieGenre, error) {
	if len(ds.Links) == 0 {
		return nil, nil
	}

	genreIDs, err := repo.Genre.IDsByName(ctx, ds.Genres)
	if err != nil {
		return nil, fmt.Errorf("resolve genres: %w", database.Classify(err))
	}

	links := make([]*entity.MovieGenre, 0, len(ds.Links))
	for _, link := range ds.Links {
		id, ok := genreIDs[link.Genre]
		if !ok {
			return nil, fmt.Errorf("genre %q missing after insert", link.Genre)
		}
		links = append(links, &entity.MovieGenre{
			MovieID: link.MovieID,
			GenreID: id,
		})
	}

	return links, nil
}

func chunk[T any](items []T, size int) [][]T {
	if len(items) == 0 {
		return nil
	}
	if size <= 0 {
		size = len(items)
	}

	batches := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		batches = append(batches, items[start:end])
	}

	return batches
}
