package dashboard

import (
	"encoding/json"
	"net/http"

	"pet-grooming-manager/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/dashboard", func(dr chi.Router) {
		dr.Get("/metrics", metricsHandler(svc))
		dr.Get("/action-queue", actionQueueHandler(svc))
		dr.Get("/revenue", revenueHandler(svc))
	})
}

type metricsResponse struct {
	ActivePackages              int     `json:"active_packages"`
	OperationallyActivePackages int     `json:"operationally_active_packages"`
	RenewalsThisMonth           int     `json:"renewals_this_month"`
	ChurnRate                   float64 `json:"churn_rate"`
	RiskyClients                int     `json:"risky_clients"`
}

type actionItemResponse struct {
	CustomerID    string   `json:"customer_id"`
	CustomerName  string   `json:"customer_name"`
	PetName       string   `json:"pet_name"`
	PetBreed      string   `json:"pet_breed"`
	PetImageURL   string   `json:"pet_image_url"`
	PackageID     string   `json:"package_id"`
	Priority      Priority `json:"priority"`
	Reason        string   `json:"reason"`
	ExpiresIn     *int     `json:"expires_in,omitempty"`
	RemainingUses *int     `json:"remaining_uses,omitempty"`
	LastUsedDays  *int     `json:"last_used_days,omitempty"`
}

type revenueResponse struct {
	Name     string          `json:"name"`
	Revenue  decimal.Decimal `json:"revenue"`
	Color    string          `json:"color"`
	Packages int             `json:"packages"`
}

// metricsHandler godoc
// @Summary Métricas del tablero
// @Description Siempre responde 200; si la lectura falla devuelve todo en cero.
// @Tags dashboard
// @Produce json
// @Success 200 {object} metricsResponse
// @Router /dashboard/metrics [get]
func metricsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, ok := middleware.CompanyID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		m := svc.Metrics(r.Context(), companyID)
		writeJSON(w, http.StatusOK, metricsResponse{
			ActivePackages:              m.StatusActiveCount,
			OperationallyActivePackages: m.OperationallyActiveCount,
			RenewalsThisMonth:           m.RenewalsThisMonth,
			ChurnRate:                   m.ChurnRate,
			RiskyClients:                m.RiskyClients,
		})
	}
}

// actionQueueHandler godoc
// @Summary Cola de clientes a contactar
// @Description Prioridad high (vence en 3 días o menos), medium (1 uso o menos), low (25+ días sin uso).
// @Tags dashboard
// @Produce json
// @Success 200 {array} actionItemResponse
// @Failure 500 {string} string "internal error"
// @Router /dashboard/action-queue [get]
func actionQueueHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, ok := middleware.CompanyID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ActionQueue(r.Context(), companyID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]actionItemResponse, 0, len(items))
		for _, it := range items {
			out = append(out, actionItemResponse{
				CustomerID:    it.CustomerID,
				CustomerName:  it.CustomerName,
				PetName:       it.PetName,
				PetBreed:      it.PetBreed,
				PetImageURL:   it.PetImageURL,
				PackageID:     it.PackageID,
				Priority:      it.Priority,
				Reason:        it.Reason,
				ExpiresIn:     it.ExpiresIn,
				RemainingUses: it.RemainingUses,
				LastUsedDays:  it.LastUsedDays,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// revenueHandler godoc
// @Summary Ingresos por tipo de paquete
// @Tags dashboard
// @Produce json
// @Success 200 {array} revenueResponse
// @Failure 500 {string} string "internal error"
// @Router /dashboard/revenue [get]
func revenueHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, ok := middleware.CompanyID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		entries, err := svc.RevenueByService(r.Context(), companyID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]revenueResponse, 0, len(entries))
		for _, e := range entries {
			out = append(out, revenueResponse{
				Name:     e.Name,
				Revenue:  e.Revenue,
				Color:    e.Color,
				Packages: e.Packages,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
