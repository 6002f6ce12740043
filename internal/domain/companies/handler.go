package companies

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"pet-grooming-manager/internal/middleware"
	"pet-grooming-manager/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/company", func(cr chi.Router) {
		cr.Get("/", getCompanyHandler(svc))
		cr.With(middleware.RequireRole(auth.RoleOwner)).Patch("/", updateCompanyHandler(svc))
	})
}

type updateCompanyRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

type companyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// getCompanyHandler godoc
// @Summary Empresa del usuario autenticado
// @Tags company
// @Produce json
// @Success 200 {object} companyResponse
// @Failure 401 {string} string "unauthorized"
// @Router /company [get]
func getCompanyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, ok := middleware.CompanyID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		c, err := svc.GetByID(r.Context(), companyID)
		if err != nil {
			writeCompanyError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toCompanyResponse(c))
	}
}

// updateCompanyHandler godoc
// @Summary Actualizar datos de la empresa
// @Description Solo owner.
// @Tags company
// @Accept json
// @Produce json
// @Param payload body updateCompanyRequest true "Campos a cambiar"
// @Success 200 {object} companyResponse
// @Failure 400 {string} string "invalid input"
// @Failure 403 {string} string "forbidden"
// @Router /company [patch]
func updateCompanyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, ok := middleware.CompanyID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req updateCompanyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		c, err := svc.Update(r.Context(), companyID, UpdateInput{
			Name:  req.Name,
			Email: req.Email,
			Phone: req.Phone,
		})
		if err != nil {
			writeCompanyError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toCompanyResponse(c))
	}
}

func writeCompanyError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "company not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toCompanyResponse(c Company) companyResponse {
	return companyResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Active:    c.Active,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
