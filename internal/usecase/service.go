package usecase

import (
	"movie-ratings/internal/data/repository"
	"movie-ratings/pkg/database"
	"movie-ratings/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Load   LoadService
	Verify VerifyService
	Export ExportService
}

// NewService wires the services over the restricted-role connection pool.
// Load takes the pool itself because it owns its transaction; the others
// share one repository bundle.
func NewService(db database.PgxIface, config *utils.Config, log *zap.Logger) *Service {
	repo := repository.NewRepository(db, log)

	return &Service{
		Load:   NewLoadService(db, config, log),
		Verify: NewVerifyService(repo, log),
		Export: NewExportService(repo, log),
	}
}
