package users

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"pet-grooming-manager/internal/ports/auth"
	"pet-grooming-manager/internal/ports/storage"

	"golang.org/x/crypto/bcrypt"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID map[string]User
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]User{}}
}

func (r *testRepo) Create(ctx context.Context, u User) error {
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return storage.ErrConflict
		}
	}
	r.byID[u.ID] = u
	return nil
}

func (r *testRepo) Update(ctx context.Context, u User) error {
	if _, ok := r.byID[u.ID]; !ok {
		return storage.ErrNotFound
	}
	r.byID[u.ID] = u
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, companyID, id string) (User, error) {
	u, ok := r.byID[id]
	if !ok || u.CompanyID != companyID {
		return User{}, storage.ErrNotFound
	}
	return u, nil
}

func (r *testRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return User{}, storage.ErrNotFound
}

func (r *testRepo) ListByCompany(ctx context.Context, companyID string) ([]User, error) {
	out := make([]User, 0)
	for _, u := range r.byID {
		if u.CompanyID == companyID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *testRepo) Delete(ctx context.Context, companyID, id string) error {
	u, ok := r.byID[id]
	if !ok || u.CompanyID != companyID {
		return storage.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

type testIssuer struct{}

func (testIssuer) Issue(ctx context.Context, c auth.Claims) (string, time.Time, error) {
	return "tok-" + c.UserID + "-" + c.CompanyID, time.Date(2025, 12, 23, 0, 0, 0, 0, time.UTC), nil
}

func newTestService(issuer auth.TokenIssuer) (*Service, *testRepo) {
	repo := newTestRepo()
	svc := NewService(repo, issuer)
	svc.cost = bcrypt.MinCost
	now := time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	return svc, repo
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_HashesPasswordAndDefaultsRole(t *testing.T) {
	svc, _ := newTestService(nil)

	u, err := svc.Create(context.Background(), "c-1", CreateInput{
		Name:     "Ana",
		Email:    "  Ana@Example.com ",
		Password: "supersecret",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if u.Email != "ana@example.com" {
		t.Fatalf("expected normalized email, got %q", u.Email)
	}
	if u.Role != auth.RoleEmployee || !u.Active {
		t.Fatalf("expected active employee, got role=%s active=%v", u.Role, u.Active)
	}
	if u.PasswordHash == "supersecret" || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("supersecret")) != nil {
		t.Fatalf("password not hashed correctly")
	}
}

func TestService_Create_Validation(t *testing.T) {
	svc, _ := newTestService(nil)

	cases := []CreateInput{
		{Name: "", Email: "a@b.com", Password: "12345678"},
		{Name: "A", Email: "not-an-email", Password: "12345678"},
		{Name: "A", Email: "a@b.com", Password: "short"},
		{Name: "A", Email: "a@b.com", Password: "12345678", Role: "admin"},
	}
	for i, in := range cases {
		_, err := svc.Create(context.Background(), "c-1", in)
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
}

func TestService_Create_DuplicateEmail(t *testing.T) {
	svc, _ := newTestService(nil)
	in := CreateInput{Name: "A", Email: "a@b.com", Password: "12345678"}

	if _, err := svc.Create(context.Background(), "c-1", in); err != nil {
		t.Fatalf("first Create error: %v", err)
	}
	if _, err := svc.Create(context.Background(), "c-2", in); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if err := svc.EnsureEmailAvailable(context.Background(), "A@B.com"); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected EnsureEmailAvailable to report taken, got %v", err)
	}
}

func TestService_Authenticate(t *testing.T) {
	svc, repo := newTestService(testIssuer{})

	u, err := svc.Create(context.Background(), "c-1", CreateInput{
		Name: "Owner", Email: "owner@shop.com", Password: "correct-horse", Role: auth.RoleOwner,
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	res, err := svc.Authenticate(context.Background(), "OWNER@shop.com", "correct-horse")
	if err != nil {
		t.Fatalf("Authenticate error: %v", err)
	}
	if !strings.HasPrefix(res.Token, "tok-"+u.ID) {
		t.Fatalf("unexpected token %q", res.Token)
	}
	if repo.byID[u.ID].LastLoginAt == nil {
		t.Fatalf("expected LastLoginAt to be recorded")
	}

	if _, err := svc.Authenticate(context.Background(), "owner@shop.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for bad password, got %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), "ghost@shop.com", "x"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}

	if _, err := svc.SetActive(context.Background(), "c-1", u.ID, "someone-else", false); err != nil {
		t.Fatalf("SetActive error: %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), "owner@shop.com", "correct-horse"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected inactive user to be rejected, got %v", err)
	}
}

func TestService_Authenticate_DisabledWithoutIssuer(t *testing.T) {
	svc, _ := newTestService(nil)
	if _, err := svc.Authenticate(context.Background(), "a@b.com", "x"); !errors.Is(err, ErrTokensDisabled) {
		t.Fatalf("expected ErrTokensDisabled, got %v", err)
	}
}

func TestService_SetActiveAndDelete_GuardSelfAndTenant(t *testing.T) {
	svc, _ := newTestService(nil)

	u, _ := svc.Create(context.Background(), "c-1", CreateInput{Name: "A", Email: "a@b.com", Password: "12345678"})

	if _, err := svc.SetActive(context.Background(), "c-1", u.ID, u.ID, false); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden deactivating self, got %v", err)
	}
	if err := svc.Delete(context.Background(), "c-1", u.ID, u.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden deleting self, got %v", err)
	}
	if err := svc.Delete(context.Background(), "c-2", u.ID, "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound across tenants, got %v", err)
	}

	// idempotente
	again, err := svc.SetActive(context.Background(), "c-1", u.ID, "admin", true)
	if err != nil || !again.Active {
		t.Fatalf("expected idempotent activate, got %+v err=%v", again, err)
	}

	if err := svc.Delete(context.Background(), "c-1", u.ID, "admin"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), "c-1", u.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
