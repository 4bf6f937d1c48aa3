package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/church-registry/internal/persistence"
)

// DashboardService computes the home screen counters.
type DashboardService struct {
	repo   persistence.DashboardRepository
	now    func() time.Time
	logger *slog.Logger
}

// NewDashboardService constructs a dashboard service.
func NewDashboardService(repo persistence.DashboardRepository, now func() time.Time) *DashboardService {
	return NewDashboardServiceWithLogger(repo, now, nil)
}

// NewDashboardServiceWithLogger constructs a dashboard service with a specified logger.
func NewDashboardServiceWithLogger(repo persistence.DashboardRepository, now func() time.Time, logger *slog.Logger) *DashboardService {
	if now == nil {
		now = time.Now
	}
	return &DashboardService{repo: repo, now: now, logger: defaultLogger(logger)}
}

// Summary returns the counters for the current month.
func (s *DashboardService) Summary(ctx context.Context) (summary DashboardSummary, err error) {
	if s == nil || s.repo == nil {
		err = fmt.Errorf("dashboard repository not configured")
		return
	}

	logger := serviceLogger(ctx, s.logger, "DashboardService", "Summary")
	defer func() {
		if err != nil {
			err = mapRepoError(err)
			logger.ErrorContext(ctx, "failed to compute dashboard", "error", err, "error_kind", ErrorKind(err))
		}
	}()

	now := s.now()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	last := first.AddDate(0, 1, -1)

	if summary.TotalMembros, err = s.repo.CountActivePessoas(ctx); err != nil {
		return
	}
	if summary.TotalEventosMes, err = s.repo.CountActiveEventosBetween(ctx, first.Format(dateLayout), last.Format(dateLayout)); err != nil {
		return
	}
	if summary.AniversariantesMes, err = s.repo.CountBirthdaysInMonth(ctx, now.Month()); err != nil {
		return
	}
	if summary.ConselhoAtivo, err = s.repo.CountActiveConselho(ctx); err != nil {
		return
	}
	summary.MembrosPorSociedade, err = s.repo.ListSociedadeMemberCounts(ctx)
	return
}
