package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"pet-grooming-manager/internal/middleware"
	"pet-grooming-manager/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// RegisterRoutes monta el catálogo. Leer está abierto a cualquier usuario de la
// empresa; crear, editar y retirar requiere owner o manager.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/services", func(sr chi.Router) {
		sr.Get("/", listServicesHandler(svc))
		sr.Get("/{serviceID}", getServiceHandler(svc))

		sr.Group(func(wr chi.Router) {
			wr.Use(middleware.RequireRole(auth.RoleOwner, auth.RoleManager))
			wr.Post("/", createServiceHandler(svc))
			wr.Patch("/{serviceID}", updateServiceHandler(svc))
			wr.Post("/{serviceID}/retire", retireServiceHandler(svc))
		})
	})

	r.Route("/package-types", func(pr chi.Router) {
		pr.Get("/", listPackageTypesHandler(svc))
		pr.Get("/{packageTypeID}", getPackageTypeHandler(svc))

		pr.Group(func(wr chi.Router) {
			wr.Use(middleware.RequireRole(auth.RoleOwner, auth.RoleManager))
			wr.Post("/", createPackageTypeHandler(svc))
			wr.Post("/{packageTypeID}/retire", retirePackageTypeHandler(svc))
		})
	})
}

type createServiceRequest struct {
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	BasePrice       decimal.Decimal `json:"base_price"`
	DurationMinutes int             `json:"duration_minutes"`
}

type updateServiceRequest struct {
	Name            *string          `json:"name"`
	Description     *string          `json:"description"`
	BasePrice       *decimal.Decimal `json:"base_price"`
	DurationMinutes *int             `json:"duration_minutes"`
}

type serviceResponse struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	BasePrice       decimal.Decimal `json:"base_price"`
	DurationMinutes int             `json:"duration_minutes"`
	Active          bool            `json:"active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type packageTypeServiceRequest struct {
	ServiceID    string          `json:"service_id"`
	IncludedUses int             `json:"included_uses"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
}

type createPackageTypeRequest struct {
	Name         string                      `json:"name"`
	Description  string                      `json:"description"`
	ValidityDays int                         `json:"validity_days"`
	TotalUses    int                         `json:"total_uses"`
	Price        decimal.Decimal             `json:"price"`
	MaxPets      int                         `json:"max_pets"`
	Services     []packageTypeServiceRequest `json:"services"`
}

type packageTypeServiceResponse struct {
	ServiceID    string          `json:"service_id"`
	IncludedUses int             `json:"included_uses"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
}

type packageTypeResponse struct {
	ID           string                       `json:"id"`
	Name         string                       `json:"name"`
	Description  string                       `json:"description"`
	ValidityDays int                          `json:"validity_days"`
	TotalUses    int                          `json:"total_uses"`
	Price        decimal.Decimal              `json:"price"`
	MaxPets      int                          `json:"max_pets"`
	Active       bool                         `json:"active"`
	Services     []packageTypeServiceResponse `json:"services"`
	CreatedAt    time.Time                    `json:"created_at"`
	UpdatedAt    time.Time                    `json:"updated_at"`
}

// createServiceHandler godoc
// @Summary Crear servicio del catálogo
// @Tags catalog
// @Accept json
// @Produce json
// @Param payload body createServiceRequest true "Servicio"
// @Success 201 {object} serviceResponse
// @Failure 400 {string} string "invalid input"
// @Failure 403 {string} string "forbidden"
// @Router /services [post]
func createServiceHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, ok := middleware.CompanyID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createServiceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		gs, err := svc.CreateService(r.Context(), companyID, CreateServiceInput{
			Name:            req.Name,
			Description:     req.Description,
			BasePrice:       req.BasePrice,
			DurationMinutes: req.DurationMinutes,
		})
		if err != nil {
			writeCatalogError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toServiceResponse(gs))
	}
}

// listServicesHandler godoc
// @Summary Listar servicios
// @Tags catalog
// @Produce json
// @Param include_inactive query bool false "Incluir retirados"
// @Success 200 {array} serviceResponse
// @Router /services [get]
func listServicesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, ok := middleware.CompanyID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListServices(r.Context(), companyID, r.URL.Query().Get("include_inactive") == "true")
		if err != nil {
			writeCatalogError(w, err)
			return
		}
		out := make([]serviceResponse, 0, len(items))
		for _, gs := range items {
			out = append(out, toServiceResponse(gs))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getServiceHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, ok := middleware.CompanyID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		gs, err := svc.GetService(r.Context(), companyID, chi.URLParam(r, "serviceID"))
		if err != nil {
			writeCatalogError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toServiceResponse(gs))
	}
}

func updateServiceHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, ok := middleware.CompanyID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req updateServiceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		gs, err := svc.UpdateService(r.Context(), companyID, chi.URLParam(r, "serviceID"), UpdateServiceInput{
			Name:            req.Name,
			Description:     req.Description,
			BasePrice:       req.BasePrice,
			DurationMinutes: req.DurationMinutes,
		})
		if err != nil {
			writeCatalogError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toServiceResponse(gs))
	}
}

func retireServiceHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, ok := middleware.CompanyID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		gs, err := svc.RetireService(r.Context(), companyID, chi.URLParam(r, "serviceID"))
		if err != nil {
			writeCatalogError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toServiceResponse(gs))
	}
}

// createPackageTypeHandler godoc
// @Summary Crear tipo de paquete
// @Description Si total_uses es 0 se toma la suma de included_uses.
// @Tags catalog
// @Accept json
// @Produce json
// @Param payload body createPackageTypeRequest true "Tipo de paquete"
// @Success 201 {object} packageTypeResponse
// @Failure 400 {string} string "invalid input"
// @Failure 404 {string} string "service not found"
// @Failure 409 {string} string "service is retired"
// @Router /package-types [post]
func createPackageTypeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, ok := middleware.CompanyID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createPackageTypeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		services := make([]PackageTypeServiceInput, 0, len(req.Services))
		for _, s := range req.Services {
			services = append(services, PackageTypeServiceInput{
				ServiceID:    s.ServiceID,
				IncludedUses: s.IncludedUses,
				UnitPrice:    s.UnitPrice,
			})
		}

		pt, err := svc.CreatePackageType(r.Context(), companyID, CreatePackageTypeInput{
			Name:         req.Name,
			Description:  req.Description,
			ValidityDays: req.ValidityDays,
			TotalUses:    req.TotalUses,
			Price:        req.Price,
			MaxPets:      req.MaxPets,
			Services:     services,
		})
		if err != nil {
			writeCatalogError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toPackageTypeResponse(pt))
	}
}

func listPackageTypesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, ok := middleware.CompanyID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListPackageTypes(r.Context(), companyID, r.URL.Query().Get("include_inactive") == "true")
		if err != nil {
			writeCatalogError(w, err)
			return
		}
		out := make([]packageTypeResponse, 0, len(items))
		for _, pt := range items {
			out = append(out, toPackageTypeResponse(pt))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getPackageTypeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, ok := middleware.CompanyID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		pt, err := svc.GetPackageType(r.Context(), companyID, chi.URLParam(r, "packageTypeID"))
		if err != nil {
			writeCatalogError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPackageTypeResponse(pt))
	}
}

func retirePackageTypeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, ok := middleware.CompanyID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		pt, err := svc.RetirePackageType(r.Context(), companyID, chi.URLParam(r, "packageTypeID"))
		if err != nil {
			writeCatalogError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPackageTypeResponse(pt))
	}
}

func writeCatalogError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrServiceNotFound):
		http.Error(w, "service not found", http.StatusNotFound)
	case errors.Is(err, ErrPackageTypeNotFound):
		http.Error(w, "package type not found", http.StatusNotFound)
	case errors.Is(err, ErrServiceInactive):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toServiceResponse(gs GroomingService) serviceResponse {
	return serviceResponse{
		ID:              gs.ID,
		Name:            gs.Name,
		Description:     gs.Description,
		BasePrice:       gs.BasePrice,
		DurationMinutes: gs.DurationMinutes,
		Active:          gs.Active,
		CreatedAt:       gs.CreatedAt,
		UpdatedAt:       gs.UpdatedAt,
	}
}

func toPackageTypeResponse(pt PackageType) packageTypeResponse {
	services := make([]packageTypeServiceResponse, 0, len(pt.Services))
	for _, s := range pt.Services {
		services = append(services, packageTypeServiceResponse{
			ServiceID:    s.ServiceID,
			IncludedUses: s.IncludedUses,
			UnitPrice:    s.UnitPrice,
		})
	}
	return packageTypeResponse{
		ID:           pt.ID,
		Name:         pt.Name,
		Description:  pt.Description,
		ValidityDays: pt.ValidityDays,
		TotalUses:    pt.TotalUses,
		Price:        pt.Price,
		MaxPets:      pt.MaxPets,
		Active:       pt.Active,
		Services:     services,
		CreatedAt:    pt.CreatedAt,
		UpdatedAt:    pt.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
