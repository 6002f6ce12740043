package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pet-grooming-manager/internal/platform/logger"
	"pet-grooming-manager/internal/platform/metrics"
)

type Service struct {
	repo Repository
	log  logger.Logger
	now  func() time.Time
}

func NewService(repo Repository, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

// Metrics nunca falla: si la lectura falla se loguea y se devuelve todo en cero.
func (s *Service) Metrics(ctx context.Context, companyID string) Metrics {
	now := s.now()
	counts, err := s.repo.MetricCounts(ctx, strings.TrimSpace(companyID), now, MonthStart(now), now.Add(riskWindow))
	if err != nil {
		metrics.ObserveDashboardDegraded("metrics")
		s.log.Error("dashboard metrics degraded to zero", map[string]any{
			"company_id": companyID,
			"err":        err,
		})
		return Metrics{}
	}
	return ComputeMetrics(counts)
}

// ActionQueue propaga los errores de lectura.
func (s *Service) ActionQueue(ctx context.Context, companyID string) ([]ActionItem, error) {
	now := s.now()
	cands, err := s.repo.ListActionCandidates(ctx, strings.TrimSpace(companyID), now)
	if err != nil {
		s.log.Error("dashboard action queue failed", map[string]any{
			"company_id": companyID,
			"err":        err,
		})
		return nil, fmt.Errorf("action queue: %w", err)
	}
	return BuildActionQueue(cands, now), nil
}

func (s *Service) RevenueByService(ctx context.Context, companyID string) ([]RevenueEntry, error) {
	rows, err := s.repo.ListRevenueRows(ctx, strings.TrimSpace(companyID))
	if err != nil {
		s.log.Error("dashboard revenue failed", map[string]any{
			"company_id": companyID,
			"err":        err,
		})
		return nil, fmt.Errorf("revenue by service: %w", err)
	}
	return AggregateRevenue(rows), nil
}
