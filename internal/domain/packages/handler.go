package packages

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"pet-grooming-manager/internal/domain/catalog"
	"pet-grooming-manager/internal/domain/pets"
	"pet-grooming-manager/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/packages", func(pr chi.Router) {
		pr.Post("/", purchasePackageHandler(svc))
		pr.Get("/", listPackagesHandler(svc))
		pr.Get("/{packageID}", getPackageHandler(svc))

		pr.Post("/{packageID}/usages", recordUsageHandler(svc))
		pr.Get("/{packageID}/usages", listUsagesHandler(svc))

		pr.Post("/{packageID}/renew", renewPackageHandler(svc))
		pr.Get("/{packageID}/chain", packageChainHandler(svc))
	})

	r.Get("/customers/{customerID}/packages", listCustomerPackagesHandler(svc))
}

type purchaseRequest struct {
	CustomerID    string `json:"customer_id"`
	PackageTypeID string `json:"package_type_id"`
}

type recordUsageRequest struct {
	PetID     string `json:"pet_id"`
	ServiceID string `json:"service_id"`
	Notes     string `json:"notes"`
}

type packageServiceResponse struct {
	ServiceID     string `json:"service_id"`
	TotalUses     int    `json:"total_uses"`
	RemainingUses int    `json:"remaining_uses"`
}

type packageResponse struct {
	ID              string                   `json:"id"`
	CustomerID      string                   `json:"customer_id"`
	PackageTypeID   string                   `json:"package_type_id"`
	PackageTypeName string                   `json:"package_type_name"`
	TotalUses       int                      `json:"total_uses"`
	RemainingUses   int                      `json:"remaining_uses"`
	ValidUntil      time.Time                `json:"valid_until"`
	Status          Status                   `json:"status"`
	Usable          bool                     `json:"usable"`
	RenewedFromID   *string                  `json:"renewed_from_id,omitempty"`
	PurchasePrice   decimal.Decimal          `json:"purchase_price"`
	AcquiredAt      time.Time                `json:"acquired_at"`
	Services        []packageServiceResponse `json:"services"`
}

type usageResponse struct {
	ID        string    `json:"id"`
	PackageID string    `json:"package_id"`
	PetID     string    `json:"pet_id"`
	ServiceID string    `json:"service_id"`
	Notes     string    `json:"notes,omitempty"`
	UsedAt    time.Time `json:"used_at"`
}

type recordUsageResponse struct {
	Usage   usageResponse   `json:"usage"`
	Package packageResponse `json:"package"`
}

// purchasePackageHandler godoc
// @Summary Vender un paquete a un cliente
// @Tags packages
// @Accept json
// @Produce json
// @Param payload body purchaseRequest true "Cliente y tipo de paquete"
// @Success 201 {object} packageResponse
// @Failure 400 {string} string "invalid input"
// @Failure 404 {string} string "customer or package type not found"
// @Router /packages [post]
func purchasePackageHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, ok := middleware.CompanyID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req purchaseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := svc.Purchase(r.Context(), companyID, PurchaseInput{
			CustomerID:    req.CustomerID,
			PackageTypeID: req.PackageTypeID,
		})
		if err != nil {
			writePackageError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toPackageResponse(p, svc.now()))
	}
}

// listPackagesHandler godoc
// @Summary Listar paquetes
// @Description active=true devuelve solo los usables (estado active, vigentes y con usos).
// @Tags packages
// @Produce json
// @Param active query bool false "Solo usables"
// @Param customer_id query string false "Filtrar por cliente"
// @Param status query string false "active|consumed|expired|renewed"
// @Success 200 {array} packageResponse
// @Router /packages [get]
func listPackagesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, ok := middleware.CompanyID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		q := r.URL.Query()
		var (
			items []CustomerPackage
			err   error
		)
		if q.Get("active") == "true" {
			items, err = svc.ListActive(r.Context(), companyID)
		} else {
			items, err = svc.List(r.Context(), companyID, ListFilter{
				CustomerID: q.Get("customer_id"),
				Status:     Status(q.Get("status")),
			})
		}
		if err != nil {
			writePackageError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPackageResponses(items, svc.now()))
	}
}

func listCustomerPackagesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, ok := middleware.CompanyID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.List(r.Context(), companyID, ListFilter{
			CustomerID: chi.URLParam(r, "customerID"),
			Status:     Status(r.URL.Query().Get("status")),
		})
		if err != nil {
			writePackageError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPackageResponses(items, svc.now()))
	}
}

func getPackageHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, ok := middleware.CompanyID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		p, err := svc.GetByID(r.Context(), companyID, chi.URLParam(r, "packageID"))
		if err != nil {
			writePackageError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPackageResponse(p, svc.now()))
	}
}

// recordUsageHandler godoc
// @Summary Registrar un uso del paquete
// @Description Descuenta un uso de forma atómica. 409 si el paquete no es usable.
// @Tags packages
// @Accept json
// @Produce json
// @Param packageID path string true "ID del paquete"
// @Param payload body recordUsageRequest true "Mascota y servicio"
// @Success 201 {object} recordUsageResponse
// @Failure 400 {string} string "invalid input"
// @Failure 404 {string} string "package, pet or service not found"
// @Failure 409 {string} string "package is not usable"
// @Router /packages/{packageID}/usages [post]
func recordUsageHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, ok := middleware.CompanyID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req recordUsageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		u, p, err := svc.RecordUsage(r.Context(), companyID, RecordUsageInput{
			PackageID: chi.URLParam(r, "packageID"),
			PetID:     req.PetID,
			ServiceID: req.ServiceID,
			Notes:     req.Notes,
		})
		if err != nil {
			writePackageError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, recordUsageResponse{
			Usage:   toUsageResponse(u),
			Package: toPackageResponse(p, svc.now()),
		})
	}
}

func listUsagesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, ok := middleware.CompanyID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListUsages(r.Context(), companyID, chi.URLParam(r, "packageID"))
		if err != nil {
			writePackageError(w, err)
			return
		}
		out := make([]usageResponse, 0, len(items))
		for _, u := range items {
			out = append(out, toUsageResponse(u))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// renewPackageHandler godoc
// @Summary Renovar paquete
// @Description Marca el paquete como renewed y crea el sucesor con usos y vigencia completos.
// @Tags packages
// @Produce json
// @Param packageID path string true "ID del paquete"
// @Success 201 {object} packageResponse
// @Failure 404 {string} string "package not found"
// @Failure 409 {string} string "package already renewed"
// @Router /packages/{packageID}/renew [post]
func renewPackageHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, ok := middleware.CompanyID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		p, err := svc.Renew(r.Context(), companyID, chi.URLParam(r, "packageID"))
		if err != nil {
			writePackageError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toPackageResponse(p, svc.now()))
	}
}

func packageChainHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, ok := middleware.CompanyID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		chain, err := svc.Chain(r.Context(), companyID, chi.URLParam(r, "packageID"))
		if err != nil {
			writePackageError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPackageResponses(chain, svc.now()))
	}
}

func writePackageError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrPetNotOwned):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "package not found", http.StatusNotFound)
	case errors.Is(err, ErrCustomerNotFound):
		http.Error(w, "customer not found", http.StatusNotFound)
	case errors.Is(err, catalog.ErrPackageTypeNotFound):
		http.Error(w, "package type not found", http.StatusNotFound)
	case errors.Is(err, catalog.ErrServiceNotFound):
		http.Error(w, "service not found", http.StatusNotFound)
	case errors.Is(err, pets.ErrNotFound):
		http.Error(w, "pet not found", http.StatusNotFound)
	case errors.Is(err, ErrNotUsable):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrAlreadyRenewed):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toPackageResponses(items []CustomerPackage, now time.Time) []packageResponse {
	out := make([]packageResponse, 0, len(items))
	for _, p := range items {
		out = append(out, toPackageResponse(p, now))
	}
	return out
}

func toPackageResponse(p CustomerPackage, now time.Time) packageResponse {
	services := make([]packageServiceResponse, 0, len(p.Services))
	for _, s := range p.Services {
		services = append(services, packageServiceResponse{
			ServiceID:     s.ServiceID,
			TotalUses:     s.TotalUses,
			RemainingUses: s.RemainingUses,
		})
	}
	return packageResponse{
		ID:              p.ID,
		CustomerID:      p.CustomerID,
		PackageTypeID:   p.PackageTypeID,
		PackageTypeName: p.PackageTypeName,
		TotalUses:       p.TotalUses,
		RemainingUses:   p.RemainingUses,
		ValidUntil:      p.ValidUntil,
		Status:          p.Status,
		Usable:          p.IsUsable(now),
		RenewedFromID:   p.RenewedFromID,
		PurchasePrice:   p.PurchasePrice,
		AcquiredAt:      p.AcquiredAt,
		Services:        services,
	}
}

func toUsageResponse(u Usage) usageResponse {
	return usageResponse{
		ID:        u.ID,
		PackageID: u.PackageID,
		PetID:     u.PetID,
		ServiceID: u.ServiceID,
		Notes:     u.Notes,
		UsedAt:    u.UsedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
