package appointments

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pet-grooming-manager/internal/domain/catalog"
	"pet-grooming-manager/internal/domain/pets"
	"pet-grooming-manager/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/appointments", func(ar chi.Router) {
		ar.Post("/", createAppointmentHandler(svc))
		ar.Get("/", listAppointmentsHandler(svc))
		ar.Get("/{appointmentID}", getAppointmentHandler(svc))
		ar.Post("/{appointmentID}/status", updateStatusHandler(svc))
		ar.Post("/{appointmentID}/reschedule", rescheduleHandler(svc))
	})
}

type createAppointmentRequest struct {
	CustomerID  string `json:"customer_id"`
	PetID       string `json:"pet_id"`
	ServiceID   string `json:"service_id"`
	ScheduledAt string `json:"scheduled_at"` // RFC3339
	Notes       string `json:"notes"`
}

type updateStatusRequest struct {
	Status Status  `json:"status" enums:"scheduled,confirmed,checked_in,in_service,ready,picked_up,canceled"`
	Notes  *string `json:"notes"`
}

type rescheduleRequest struct {
	ScheduledAt string `json:"scheduled_at"` // RFC3339
}

type appointmentResponse struct {
	ID          string    `json:"id"`
	CustomerID  string    `json:"customer_id"`
	PetID       string    `json:"pet_id"`
	ServiceID   string    `json:"service_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Status      Status    `json:"status"`
	Notes       string    `json:"notes"`
	CreatedBy   string    `json:"created_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// createAppointmentHandler godoc
// @Summary Agendar turno
// @Description Crea un turno en estado scheduled. No descuenta usos de paquetes.
// @Tags appointments
// @Accept json
// @Produce json
// @Param payload body createAppointmentRequest true "Datos del turno; scheduled_at en RFC3339"
// @Success 201 {object} appointmentResponse
// @Failure 400 {string} string "invalid json / scheduled_at inválido / reglas de negocio"
// @Failure 404 {string} string "pet or service not found"
// @Router /appointments [post]
func createAppointmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.CompanyID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		at, err := time.Parse(time.RFC3339, req.ScheduledAt)
		if err != nil {
			http.Error(w, "scheduled_at must be RFC3339", http.StatusBadRequest)
			return
		}

		a, err := svc.Create(r.Context(), claims.CompanyID, claims.UserID, CreateInput{
			CustomerID:  req.CustomerID,
			PetID:       req.PetID,
			ServiceID:   req.ServiceID,
			ScheduledAt: at,
			Notes:       req.Notes,
		})
		if err != nil {
			writeAppointmentError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toAppointmentResponse(a))
	}
}

// listAppointmentsHandler godoc
// @Summary Listar turnos
// @Tags appointments
// @Produce json
// @Param limit query int false "Máximo de turnos a devolver (1-200). Por defecto 50"
// @Param statuses query string false "Lista CSV de estados (ej: scheduled,confirmed)"
// @Param from query string false "scheduled_at mínimo (RFC3339)"
// @Param to query string false "scheduled_at máximo (RFC3339)"
// @Param customer_id query string false "Filtrar por cliente"
// @Success 200 {array} appointmentResponse
// @Failure 400 {string} string "Parámetros de filtro inválidos"
// @Router /appointments [get]
func listAppointmentsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, ok := middleware.CompanyID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		filter, err := parseListFilter(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		items, err := svc.List(r.Context(), companyID, filter)
		if err != nil {
			writeAppointmentError(w, err)
			return
		}

		out := make([]appointmentResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toAppointmentResponse(a))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getAppointmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, ok := middleware.CompanyID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		a, err := svc.GetByID(r.Context(), companyID, chi.URLParam(r, "appointmentID"))
		if err != nil {
			writeAppointmentError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAppointmentResponse(a))
	}
}

// updateStatusHandler godoc
// @Summary Cambiar estado del turno
// @Description Avanza el recorrido (scheduled → confirmed → checked_in → in_service → ready → picked_up) o cancela. picked_up y canceled son finales.
// @Tags appointments
// @Accept json
// @Produce json
// @Param appointmentID path string true "ID del turno"
// @Param payload body updateStatusRequest true "Nuevo estado"
// @Success 200 {object} appointmentResponse
// @Failure 404 {string} string "appointment not found"
// @Failure 409 {string} string "invalid status transition"
// @Router /appointments/{appointmentID}/status [post]
func updateStatusHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, ok := middleware.CompanyID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req updateStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		a, err := svc.UpdateStatus(r.Context(), companyID, chi.URLParam(r, "appointmentID"), req.Status, req.Notes)
		if err != nil {
			writeAppointmentError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAppointmentResponse(a))
	}
}

func rescheduleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, ok := middleware.CompanyID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req rescheduleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		at, err := time.Parse(time.RFC3339, req.ScheduledAt)
		if err != nil {
			http.Error(w, "scheduled_at must be RFC3339", http.StatusBadRequest)
			return
		}

		a, err := svc.Reschedule(r.Context(), companyID, chi.URLParam(r, "appointmentID"), at)
		if err != nil {
			writeAppointmentError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAppointmentResponse(a))
	}
}

func parseListFilter(r *http.Request) (ListFilter, error) {
	filter := ListFilter{Limit: 50}
	q := r.URL.Query()

	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			filter.Limit = n
		}
	}

	// statuses=scheduled,confirmed
	if v := strings.TrimSpace(q.Get("statuses")); v != "" {
		for _, p := range strings.Split(v, ",") {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			st, ok := ParseStatus(p)
			if !ok {
				return ListFilter{}, errors.New("unknown status " + p)
			}
			filter.Statuses = append(filter.Statuses, st)
		}
	}

	if v := strings.TrimSpace(q.Get("from")); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return ListFilter{}, errors.New("from must be RFC3339")
		}
		filter.From = &t
	}
	if v := strings.TrimSpace(q.Get("to")); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return ListFilter{}, errors.New("to must be RFC3339")
		}
		filter.To = &t
	}

	filter.CustomerID = strings.TrimSpace(q.Get("customer_id"))
	return filter, nil
}

func writeAppointmentError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrPetNotOwned):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "appointment not found", http.StatusNotFound)
	case errors.Is(err, pets.ErrNotFound):
		http.Error(w, "pet not found", http.StatusNotFound)
	case errors.Is(err, catalog.ErrServiceNotFound):
		http.Error(w, "service not found", http.StatusNotFound)
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, catalog.ErrServiceInactive):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toAppointmentResponse(a Appointment) appointmentResponse {
	return appointmentResponse{
		ID:          a.ID,
		CustomerID:  a.CustomerID,
		PetID:       a.PetID,
		ServiceID:   a.ServiceID,
		ScheduledAt: a.ScheduledAt,
		Status:      a.Status,
		Notes:       a.Notes,
		CreatedBy:   a.CreatedBy,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
