package customers

import (
	"context"
	"errors"
	"testing"
	"time"

	"pet-grooming-manager/internal/ports/storage"
)

type testRepo struct {
	byID map[string]Customer
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Customer{}}
}

func (r *testRepo) Create(ctx context.Context, c Customer) error {
	r.byID[c.ID] = c
	return nil
}

func (r *testRepo) Update(ctx context.Context, c Customer) error {
	if _, ok := r.byID[c.ID]; !ok {
		return storage.ErrNotFound
	}
	r.byID[c.ID] = c
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, companyID, id string) (Customer, error) {
	c, ok := r.byID[id]
	if !ok || c.CompanyID != companyID {
		return Customer{}, storage.ErrNotFound
	}
	return c, nil
}

func (r *testRepo) List(ctx context.Context, companyID string, filter ListFilter) ([]Customer, error) {
	out := make([]Customer, 0)
	for _, c := range r.byID {
		if c.CompanyID == companyID {
			out = append(out, c)
		}
	}
	return out, nil
}

func TestService_Create_AndTenantIsolation(t *testing.T) {
	svc := NewService(newTestRepo())
	now := time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	c, err := svc.Create(context.Background(), "c-1", CreateInput{Name: "Maria", Email: "MARIA@mail.com", Phone: " 119999 "})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if c.Email != "maria@mail.com" || c.Phone != "119999" || !c.CreatedAt.Equal(now) {
		t.Fatalf("unexpected customer: %+v", c)
	}

	if _, err := svc.GetByID(context.Background(), "c-2", c.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound from another company, got %v", err)
	}
	if ok, err := svc.Exists(context.Background(), "c-1", c.ID); err != nil || !ok {
		t.Fatalf("expected customer to exist, got %v %v", ok, err)
	}
	if ok, err := svc.Exists(context.Background(), "c-2", c.ID); err != nil || ok {
		t.Fatalf("expected customer hidden from another company, got %v %v", ok, err)
	}
}

func TestService_Create_Validation(t *testing.T) {
	svc := NewService(newTestRepo())

	if _, err := svc.Create(context.Background(), "c-1", CreateInput{Name: " "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty name, got %v", err)
	}
	if _, err := svc.Create(context.Background(), "c-1", CreateInput{Name: "X", Email: "bad"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for bad email, got %v", err)
	}
	if _, err := svc.Create(context.Background(), "", CreateInput{Name: "X"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without company, got %v", err)
	}
}

func TestService_Update_PatchSemantics(t *testing.T) {
	svc := NewService(newTestRepo())

	c, _ := svc.Create(context.Background(), "c-1", CreateInput{Name: "Maria", Phone: "1"})
	notes := "prefers mornings"
	updated, err := svc.Update(context.Background(), "c-1", c.ID, UpdateInput{Notes: &notes})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if updated.Notes != notes || updated.Name != "Maria" || updated.Phone != "1" {
		t.Fatalf("unexpected patch result: %+v", updated)
	}

	if _, err := svc.Update(context.Background(), "c-1", "missing", UpdateInput{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
