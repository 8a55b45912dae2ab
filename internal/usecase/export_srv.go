package usecase

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"movie-ratings/internal/data/entity"
	"movie-ratings/internal/data/repository"
	"movie-ratings/pkg/database"

	"go.uber.org/zap"
)

// exportHeader matches the loader's required column names, so an exported
// file is loadable again as-is.
var exportHeader = []string{"userId", "movieId", "rating", "title", "genres"}

type ExportService interface {
	// WriteCSV streams the training-set rows to w and reports how many rows
	// it wrote.
	WriteCSV(ctx context.Context, w io.Writer) (int64, error)
}

type exportService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewExportService(repo *repository.Repository, log *zap.Logger) ExportService {
	return &exportService{
		repo: repo,
		log:  log.With(zap.String("service", "export")),
	}
}

func (s *exportService) WriteCSV(ctx context.Context, w io.Writer) (int64, error) {
	writer := csv.NewWriter(w)

	if err := writer.Write(exportHeader); err != nil {
		return 0, fmt.Errorf("write export header: %w", err)
	}

	var rows int64
	err := s.repo.Rating.ForEachTrainingRow(ctx, func(row *entity.RatedMovie) error {
		record := []string{
			strconv.FormatInt(row.UserID, 10),
			strconv.FormatInt(row.MovieID, 10),
			strconv.FormatFloat(row.Value, 'g', -1, 64),
			row.Title,
			row.Genres,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write export row: %w", err)
		}
		rows++
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("export training rows: %w", database.Classify(err))
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return 0, fmt.Errorf("flush export: %w", err)
	}

	s.log.Info("Export written", zap.Int64("rows", rows))
	return rows, nil
}
