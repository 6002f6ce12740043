package users

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"pet-grooming-manager/internal/ports/auth"
	"pet-grooming-manager/internal/ports/storage"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
	ErrTokensDisabled     = errors.New("token issuing disabled")
)

const minPasswordLen = 8

type Service struct {
	repo   Repository
	tokens auth.TokenIssuer
	now    func() time.Time
	cost   int
}

// NewService recibe el emisor de tokens; puede ser nil en modo dev
// (Authenticate devuelve ErrTokensDisabled).
func NewService(repo Repository, tokens auth.TokenIssuer) *Service {
	return &Service{
		repo:   repo,
		tokens: tokens,
		now:    time.Now,
		cost:   bcrypt.DefaultCost,
	}
}

type CreateInput struct {
	Name     string
	Email    string
	Password string
	Role     auth.Role
}

func (s *Service) Create(ctx context.Context, companyID string, in CreateInput) (User, error) {
	u, err := s.prepare(companyID, in)
	if err != nil {
		return User{}, err
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return User{}, ErrEmailTaken
		}
		return User{}, err
	}
	return u, nil
}

// prepare valida, hashea el password y arma el User sin persistirlo.
func (s *Service) prepare(companyID string, in CreateInput) (User, error) {
	companyID = strings.TrimSpace(companyID)
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if companyID == "" {
		return User{}, fmt.Errorf("%w: company is required", ErrInvalidInput)
	}
	if name == "" {
		return User{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return User{}, fmt.Errorf("%w: email is not valid", ErrInvalidInput)
	}
	if len(in.Password) < minPasswordLen {
		return User{}, fmt.Errorf("%w: password must have at least %d characters", ErrInvalidInput, minPasswordLen)
	}

	role, err := normalizeRole(in.Role)
	if err != nil {
		return User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	return User{
		ID:           uuid.NewString(),
		CompanyID:    companyID,
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (s *Service) GetByID(ctx context.Context, companyID, id string) (User, error) {
	u, err := s.repo.GetByID(ctx, strings.TrimSpace(companyID), strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

func (s *Service) List(ctx context.Context, companyID string) ([]User, error) {
	companyID = strings.TrimSpace(companyID)
	if companyID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByCompany(ctx, companyID)
}

// SetActive activa/desactiva un usuario. Idempotente.
// Nadie puede desactivarse a sí mismo (evita dejar la empresa sin acceso).
func (s *Service) SetActive(ctx context.Context, companyID, id, actorID string, active bool) (User, error) {
	u, err := s.GetByID(ctx, companyID, id)
	if err != nil {
		return User{}, err
	}
	if !active && u.ID == strings.TrimSpace(actorID) {
		return User{}, ErrForbidden
	}
	if u.Active == active {
		return u, nil
	}

	u.Active = active
	u.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *Service) Delete(ctx context.Context, companyID, id, actorID string) error {
	u, err := s.GetByID(ctx, companyID, id)
	if err != nil {
		return err
	}
	if u.ID == strings.TrimSpace(actorID) {
		return ErrForbidden
	}
	if err := s.repo.Delete(ctx, u.CompanyID, u.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

type LoginResult struct {
	User      User
	Token     string
	ExpiresAt time.Time
}

// Authenticate valida email + password y firma un token.
// Usuario inexistente, inactivo o password incorrecta devuelven el mismo error.
func (s *Service) Authenticate(ctx context.Context, email, password string) (LoginResult, error) {
	if s.tokens == nil {
		return LoginResult{}, ErrTokensDisabled
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return LoginResult{}, ErrInvalidCredentials
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}
	if !u.Active {
		return LoginResult{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, exp, err := s.tokens.Issue(ctx, auth.Claims{
		UserID:    u.ID,
		Email:     u.Email,
		CompanyID: u.CompanyID,
		Role:      u.Role,
	})
	if err != nil {
		return LoginResult{}, err
	}

	now := s.now()
	u.LastLoginAt = &now
	u.UpdatedAt = now
	// best-effort: no bloquear el login por el timestamp
	_ = s.repo.Update(ctx, u)

	return LoginResult{User: u, Token: token, ExpiresAt: exp}, nil
}

func normalizeRole(in auth.Role) (auth.Role, error) {
	r := auth.Role(strings.ToLower(strings.TrimSpace(string(in))))
	switch r {
	case "":
		return auth.RoleEmployee, nil
	case auth.RoleOwner, auth.RoleManager, auth.RoleEmployee:
		return r, nil
	default:
		return "", fmt.Errorf("%w: role must be owner, manager or employee", ErrInvalidInput)
	}
}

// CanManageUsers indica si el rol puede crear/desactivar/borrar usuarios.
func CanManageUsers(r auth.Role) bool {
	return r == auth.RoleOwner || r == auth.RoleManager
}

// EnsureEmailAvailable responde ErrEmailTaken si el email ya tiene usuario.
func (s *Service) EnsureEmailAvailable(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	_, err := s.repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return ErrEmailTaken
	case errors.Is(err, storage.ErrNotFound):
		return nil
	default:
		return err
	}
}
