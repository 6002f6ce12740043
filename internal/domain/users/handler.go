package users

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"pet-grooming-manager/internal/domain/companies"
	"pet-grooming-manager/internal/middleware"
	"pet-grooming-manager/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

// RegisterPublicRoutes monta onboarding y login (sin claims).
func RegisterPublicRoutes(r chi.Router, svc *Service, onboarding *Onboarding) {
	r.Post("/signup", signupHandler(onboarding))
	r.Post("/auth/login", loginHandler(svc))
}

// RegisterRoutes monta la gestión de usuarios; escribir requiere owner o manager.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/me", meHandler(svc))

	r.Route("/users", func(ur chi.Router) {
		ur.Get("/", listUsersHandler(svc))

		ur.Group(func(wr chi.Router) {
			wr.Use(middleware.RequireRole(auth.RoleOwner, auth.RoleManager))
			wr.Post("/", createUserHandler(svc))
			wr.Patch("/{userID}/active", setActiveHandler(svc))
			wr.Delete("/{userID}", deleteUserHandler(svc))
		})
	})
}

type signupRequest struct {
	CompanyName  string `json:"company_name"`
	CompanyEmail string `json:"company_email"`
	CompanyPhone string `json:"company_phone"`
	OwnerName    string `json:"owner_name"`
	OwnerEmail   string `json:"owner_email"`
	Password     string `json:"password"`
}

type signupResponse struct {
	CompanyID string       `json:"company_id"`
	Owner     userResponse `json:"owner"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      userResponse `json:"user"`
}

type createUserRequest struct {
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Password string    `json:"password"`
	Role     auth.Role `json:"role" enums:"owner,manager,employee"`
}

type setActiveRequest struct {
	Active *bool `json:"active"`
}

type userResponse struct {
	ID          string     `json:"id"`
	CompanyID   string     `json:"company_id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Role        auth.Role  `json:"role"`
	Active      bool       `json:"active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// signupHandler godoc
// @Summary Onboarding de empresa
// @Description Crea la empresa (tenant) y su usuario owner.
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body signupRequest true "Empresa y owner"
// @Success 201 {object} signupResponse
// @Failure 400 {string} string "invalid input"
// @Failure 409 {string} string "email already registered"
// @Router /signup [post]
func signupHandler(onboarding *Onboarding) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		c, owner, err := onboarding.Signup(r.Context(), SignupInput{
			CompanyName:  req.CompanyName,
			CompanyEmail: req.CompanyEmail,
			CompanyPhone: req.CompanyPhone,
			OwnerName:    req.OwnerName,
			OwnerEmail:   req.OwnerEmail,
			Password:     req.Password,
		})
		if err != nil {
			if errors.Is(err, companies.ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			writeUserError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, signupResponse{CompanyID: c.ID, Owner: toUserResponse(owner)})
	}
}

// loginHandler godoc
// @Summary Login
// @Description Valida email y password y devuelve un JWT. Solo disponible cuando JWT_SECRET está configurado.
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body loginRequest true "Credenciales"
// @Success 200 {object} loginResponse
// @Failure 401 {string} string "invalid credentials"
// @Failure 501 {string} string "token issuing disabled"
// @Router /auth/login [post]
func loginHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		res, err := svc.Authenticate(r.Context(), req.Email, req.Password)
		if err != nil {
			writeUserError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, loginResponse{
			Token:     res.Token,
			ExpiresAt: res.ExpiresAt,
			User:      toUserResponse(res.User),
		})
	}
}

func meHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		u, err := svc.GetByID(r.Context(), claims.CompanyID, claims.UserID)
		if err != nil {
			writeUserError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toUserResponse(u))
	}
}

// listUsersHandler godoc
// @Summary Listar usuarios de la empresa
// @Tags users
// @Produce json
// @Success 200 {array} userResponse
// @Failure 401 {string} string "unauthorized"
// @Router /users [get]
func listUsersHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, ok := middleware.CompanyID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.List(r.Context(), companyID)
		if err != nil {
			writeUserError(w, err)
			return
		}

		out := make([]userResponse, 0, len(items))
		for _, u := range items {
			out = append(out, toUserResponse(u))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// createUserHandler godoc
// @Summary Crear usuario
// @Description Requiere rol owner o manager.
// @Tags users
// @Accept json
// @Produce json
// @Param payload body createUserRequest true "Datos del usuario"
// @Success 201 {object} userResponse
// @Failure 400 {string} string "invalid input"
// @Failure 403 {string} string "forbidden"
// @Failure 409 {string} string "email already registered"
// @Router /users [post]
func createUserHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var req createUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		// Un manager no puede crear owners.
		if claims.Role != auth.RoleOwner && strings.EqualFold(string(req.Role), string(auth.RoleOwner)) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		u, err := svc.Create(r.Context(), claims.CompanyID, CreateInput{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
			Role:     req.Role,
		})
		if err != nil {
			writeUserError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toUserResponse(u))
	}
}

func setActiveHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var req setActiveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Active == nil {
			http.Error(w, "active (bool) required", http.StatusBadRequest)
			return
		}

		u, err := svc.SetActive(r.Context(), claims.CompanyID, chi.URLParam(r, "userID"), claims.UserID, *req.Active)
		if err != nil {
			writeUserError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toUserResponse(u))
	}
}

func deleteUserHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		if err := svc.Delete(r.Context(), claims.CompanyID, chi.URLParam(r, "userID"), claims.UserID); err != nil {
			writeUserError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeUserError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrInvalidCredentials):
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "user not found", http.StatusNotFound)
	case errors.Is(err, ErrEmailTaken):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrTokensDisabled):
		http.Error(w, err.Error(), http.StatusNotImplemented)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toUserResponse(u User) userResponse {
	return userResponse{
		ID:          u.ID,
		CompanyID:   u.CompanyID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role,
		Active:      u.Active,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
