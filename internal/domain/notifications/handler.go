package notifications

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"pet-grooming-manager/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/notifications", func(nr chi.Router) {
		nr.Post("/", sendNotificationHandler(svc))
		nr.Get("/", listNotificationsHandler(svc))
	})
}

type sendNotificationRequest struct {
	CustomerID string  `json:"customer_id"`
	Type       string  `json:"type"`
	Channel    Channel `json:"channel" enums:"whatsapp,email"`
	Message    string  `json:"message"`
}

type notificationResponse struct {
	ID         string     `json:"id"`
	CustomerID string     `json:"customer_id"`
	Type       string     `json:"type"`
	Channel    Channel    `json:"channel"`
	Recipient  string     `json:"recipient"`
	Message    string     `json:"message"`
	Status     Status     `json:"status"`
	Error      string     `json:"error,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	SentAt     *time.Time `json:"sent_at,omitempty"`
}

// sendNotificationHandler godoc
// @Summary Enviar notificación a un cliente
// @Description Registra la notificación y la entrega al canal configurado. Si la entrega falla queda con status failed.
// @Tags notifications
// @Accept json
// @Produce json
// @Param payload body sendNotificationRequest true "Mensaje"
// @Success 201 {object} notificationResponse
// @Failure 400 {string} string "invalid input"
// @Failure 404 {string} string "customer not found"
// @Failure 422 {string} string "customer has no contact for channel"
// @Router /notifications [post]
func sendNotificationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || claims.CompanyID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req sendNotificationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		n, err := svc.Send(r.Context(), claims.CompanyID, claims.UserID, SendInput{
			CustomerID: req.CustomerID,
			Type:       req.Type,
			Channel:    req.Channel,
			Message:    req.Message,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrCustomerNotFound):
				http.Error(w, "customer not found", http.StatusNotFound)
			case errors.Is(err, ErrNoRecipient):
				http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}
		writeJSON(w, http.StatusCreated, toNotificationResponse(n))
	}
}

func listNotificationsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, ok := middleware.CompanyID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		items, err := svc.List(r.Context(), companyID, r.URL.Query().Get("customer_id"), limit)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]notificationResponse, 0, len(items))
		for _, n := range items {
			out = append(out, toNotificationResponse(n))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func toNotificationResponse(n Notification) notificationResponse {
	return notificationResponse{
		ID:         n.ID,
		CustomerID: n.CustomerID,
		Type:       n.Type,
		Channel:    n.Channel,
		Recipient:  n.Recipient,
		Message:    n.Message,
		Status:     n.Status,
		Error:      n.Error,
		CreatedAt:  n.CreatedAt,
		SentAt:     n.SentAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
