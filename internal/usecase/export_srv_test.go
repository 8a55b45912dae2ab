package usecase

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"movie-ratings/internal/data/entity"
	"movie-ratings/internal/data/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubRatingRepo serves canned training rows; the write-path methods are
// never reached from the export service.
type stubRatingRepo struct {
	rows []*entity.RatedMovie
	err  error
}

func (s *stubRatingRepo) Upsert(ctx context.Context, rating *entity.Rating) error  { return nil }
func (s *stubRatingRepo) Update(ctx context.Context, rating *entity.Rating) error  { return nil }
func (s *stubRatingRepo) Delete(ctx context.Context, userID, movieID int64) error  { return nil }
func (s *stubRatingRepo) FindAll(ctx context.Context) ([]*entity.Rating, error)    { return nil, nil }
func (s *stubRatingRepo) Count(ctx context.Context) (int64, error)                 { return 0, nil }
func (s *stubRatingRepo) FindByUserID(ctx context.Context, userID int64) ([]*entity.RatedMovie, error) {
	return nil, nil
}
func (s *stubRatingRepo) CreateBatch(ctx context.Context, ratings []*entity.Rating) (int64, error) {
	return 0, nil
}

func (s *stubRatingRepo) ForEachTrainingRow(ctx context.Context, fn func(row *entity.RatedMovie) error) error {
	if s.err != nil {
		return s.err
	}
	for _, row := range s.rows {
		if err := fn(row); err != nil {
			return err
		}
	}
	return nil
}

func TestExportWriteCSV(t *testing.T) {
	repo := &repository.Repository{
		Rating: &stubRatingRepo{rows: []*entity.RatedMovie{
			{UserID: 1, MovieID: 10, Title: "Matrix, The (1999)", Genres: "Action|Sci-Fi", Value: 4.5},
			{UserID: 2, MovieID: 20, Title: "Toy Story (1995)", Genres: "Animation|Comedy", Value: 3},
		}},
	}

	var buf bytes.Buffer
	rows, err := NewExportService(repo, zap.NewNop()).WriteCSV(context.Background(), &buf)

	require.NoError(t, err)
	assert.Equal(t, int64(2), rows)

	want := "userId,movieId,rating,title,genres\n" +
		"1,10,4.5,\"Matrix, The (1999)\",Action|Sci-Fi\n" +
		"2,20,3,Toy Story (1995),Animation|Comedy\n"
	assert.Equal(t, want, buf.String())
}

func TestExportWriteCSVEmpty(t *testing.T) {
	repo := &repository.Repository{Rating: &stubRatingRepo{}}

	var buf bytes.Buffer
	rows, err := NewExportService(repo, zap.NewNop()).WriteCSV(context.Background(), &buf)

	require.NoError(t, err)
	assert.Zero(t, rows)
	assert.Equal(t, "userId,movieId,rating,title,genres\n", buf.String())
}

func TestExportWriteCSVPropagatesQueryError(t *testing.T) {
	repo := &repository.Repository{Rating: &stubRatingRepo{err: errors.New("query training rows: boom")}}

	var buf bytes.Buffer
	_, err := NewExportService(repo, zap.NewNop()).WriteCSV(context.Background(), &buf)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "export training rows")
}
