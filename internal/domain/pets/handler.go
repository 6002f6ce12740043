package pets

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"pet-grooming-manager/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	// Mascotas de un cliente
	r.Post("/customers/{customerID}/pets", createPetHandler(svc))
	r.Get("/customers/{customerID}/pets", listPetsHandler(svc))

	r.Route("/pets", func(pr chi.Router) {
		pr.Get("/{petID}", getPetHandler(svc))
		pr.Patch("/{petID}", updatePetHandler(svc))
	})
}

type createPetRequest struct {
	Name          string   `json:"name"`
	Species       string   `json:"species"`
	Breed         string   `json:"breed"`
	Size          string   `json:"size"`
	Sex           string   `json:"sex"`
	BirthDate     string   `json:"birth_date"` // YYYY-MM-DD opcional
	WeightKg      *float64 `json:"weight_kg"`
	CoatType      string   `json:"coat_type"`
	Temperament   string   `json:"temperament"`
	SpecialNeeds  string   `json:"special_needs"`
	PreferredFood string   `json:"preferred_food"`
	Notes         string   `json:"notes"`
	PhotoURL      string   `json:"photo_url"`
}

type petResponse struct {
	ID            string     `json:"id"`
	CustomerID    string     `json:"customer_id"`
	Name          string     `json:"name"`
	Species       Species    `json:"species"`
	Breed         string     `json:"breed"`
	Size          Size       `json:"size,omitempty"`
	Sex           Sex        `json:"sex"`
	BirthDate     *time.Time `json:"birth_date,omitempty"`
	WeightKg      *float64   `json:"weight_kg,omitempty"`
	CoatType      string     `json:"coat_type"`
	Temperament   string     `json:"temperament"`
	SpecialNeeds  string     `json:"special_needs"`
	PreferredFood string     `json:"preferred_food"`
	Notes         string     `json:"notes"`
	PhotoURL      string     `json:"photo_url,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type updatePetRequest struct {
	Name          *string  `json:"name"`
	Species       *string  `json:"species"`
	Breed         *string  `json:"breed"`
	Size          *string  `json:"size"`
	Sex           *string  `json:"sex"`
	WeightKg      *float64 `json:"weight_kg"`
	CoatType      *string  `json:"coat_type"`
	Temperament   *string  `json:"temperament"`
	SpecialNeeds  *string  `json:"special_needs"`
	PreferredFood *string  `json:"preferred_food"`
	Notes         *string  `json:"notes"`
	PhotoURL      *string  `json:"photo_url"`
}

// createPetHandler godoc
// @Summary Registrar mascota de un cliente
// @Tags pets
// @Accept json
// @Produce json
// @Param customerID path string true "ID del cliente"
// @Param payload body createPetRequest true "Ficha de la mascota"
// @Success 201 {object} petResponse
// @Failure 400 {string} string "invalid input"
// @Failure 404 {string} string "customer not found"
// @Router /customers/{customerID}/pets [post]
func createPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, ok := middleware.CompanyID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createPetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var bd *time.Time
		if strings.TrimSpace(req.BirthDate) != "" {
			t, err := time.Parse("2006-01-02", req.BirthDate)
			if err != nil {
				http.Error(w, "birth_date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			bd = &t
		}

		p, err := svc.Create(r.Context(), companyID, chi.URLParam(r, "customerID"), CreateInput{
			Name:          req.Name,
			Species:       req.Species,
			Breed:         req.Breed,
			Size:          req.Size,
			Sex:           req.Sex,
			BirthDate:     bd,
			WeightKg:      req.WeightKg,
			CoatType:      req.CoatType,
			Temperament:   req.Temperament,
			SpecialNeeds:  req.SpecialNeeds,
			PreferredFood: req.PreferredFood,
			Notes:         req.Notes,
			PhotoURL:      req.PhotoURL,
		})
		if err != nil {
			writePetError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toPetResponse(p))
	}
}

func listPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, ok := middleware.CompanyID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByCustomer(r.Context(), companyID, chi.URLParam(r, "customerID"))
		if err != nil {
			writePetError(w, err)
			return
		}

		out := make([]petResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPetResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, ok := middleware.CompanyID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		p, err := svc.GetByID(r.Context(), companyID, chi.URLParam(r, "petID"))
		if err != nil {
			writePetError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPetResponse(p))
	}
}

// updatePetHandler godoc
// @Summary Actualizar ficha de mascota
// @Description PATCH parcial. "birth_date": null limpia la fecha.
// @Tags pets
// @Accept json
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} petResponse
// @Router /pets/{petID} [patch]
func updatePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, ok := middleware.CompanyID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		// Decodificamos a map primero para detectar si "birth_date" vino en el body.
		var raw map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var req updatePetRequest
		b, _ := json.Marshal(raw)
		if err := json.Unmarshal(b, &req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		bd := patchBirthDate{}
		if v, exists := raw["birth_date"]; exists {
			bd.Present = true
			if string(v) != "null" {
				var s string
				if err := json.Unmarshal(v, &s); err != nil {
					http.Error(w, "birth_date must be YYYY-MM-DD or null", http.StatusBadRequest)
					return
				}
				bd.Value = &s
			}
		}

		updated, err := svc.UpdateProfile(r.Context(), companyID, chi.URLParam(r, "petID"), UpdateProfileInput{
			Name:          req.Name,
			Species:       req.Species,
			Breed:         req.Breed,
			Size:          req.Size,
			Sex:           req.Sex,
			BirthDate:     bd,
			WeightKg:      req.WeightKg,
			CoatType:      req.CoatType,
			Temperament:   req.Temperament,
			SpecialNeeds:  req.SpecialNeeds,
			PreferredFood: req.PreferredFood,
			Notes:         req.Notes,
			PhotoURL:      req.PhotoURL,
		})
		if err != nil {
			writePetError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPetResponse(updated))
	}
}

func writePetError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "pet not found", http.StatusNotFound)
	case errors.Is(err, ErrCustomerNotFound):
		http.Error(w, "customer not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toPetResponse(p Pet) petResponse {
	return petResponse{
		ID:            p.ID,
		CustomerID:    p.CustomerID,
		Name:          p.Name,
		Species:       p.Species,
		Breed:         p.Breed,
		Size:          p.Size,
		Sex:           p.Sex,
		BirthDate:     p.BirthDate,
		WeightKg:      p.WeightKg,
		CoatType:      p.CoatType,
		Temperament:   p.Temperament,
		SpecialNeeds:  p.SpecialNeeds,
		PreferredFood: p.PreferredFood,
		Notes:         p.Notes,
		PhotoURL:      p.PhotoURL,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
