package dashboard

import (
	"context"
	"time"
)

// Repository son las lecturas agregadas del tablero, siempre filtradas por empresa.
type Repository interface {
	MetricCounts(ctx context.Context, companyID string, now, monthStart, riskCutoff time.Time) (MetricCounts, error)

	// ListActionCandidates devuelve los paquetes usables a now, ordenados por
	// AcquiredAt ascendente y luego por id, en una sola lectura.
	ListActionCandidates(ctx context.Context, companyID string, now time.Time) ([]ActionCandidate, error)

	ListRevenueRows(ctx context.Context, companyID string) ([]RevenueRow, error)
}
