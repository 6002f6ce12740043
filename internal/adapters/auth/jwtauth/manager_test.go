package jwtauth

import (
	"context"
	"errors"
	"testing"
	"time"

	"pet-grooming-manager/internal/ports/auth"
)

func TestManager_IssueThenVerify_RoundTripsClaims(t *testing.T) {
	m := NewManager(Config{Secret: "0123456789abcdef-test", Issuer: "groomer", TTL: time.Hour})
	now := time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	in := auth.Claims{UserID: "u-1", Email: "ana@example.com", CompanyID: "c-1", Role: auth.RoleManager}
	tok, exp, err := m.Issue(context.Background(), in)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if !exp.Equal(now.Add(time.Hour)) {
		t.Fatalf("expected exp now+1h, got %s", exp)
	}

	got, err := m.Verify(context.Background(), tok)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if got != in {
		t.Fatalf("claims mismatch: got %+v want %+v", got, in)
	}
}

func TestManager_Verify_RejectsExpiredAndForeignTokens(t *testing.T) {
	m := NewManager(Config{Secret: "0123456789abcdef-test", Issuer: "groomer", TTL: time.Minute})
	now := time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	tok, _, err := m.Issue(context.Background(), auth.Claims{UserID: "u-1", CompanyID: "c-1", Role: auth.RoleOwner})
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	m.now = func() time.Time { return now.Add(2 * time.Minute) }
	if _, err := m.Verify(context.Background(), tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}

	other := NewManager(Config{Secret: "another-secret-0123456789", Issuer: "groomer", TTL: time.Hour})
	other.now = func() time.Time { return now }
	if _, err := other.Verify(context.Background(), tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for foreign secret, got %v", err)
	}
}

func TestManager_NotConfigured(t *testing.T) {
	m := NewManager(Config{})
	if _, _, err := m.Issue(context.Background(), auth.Claims{UserID: "u", CompanyID: "c"}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if _, err := m.Verify(context.Background(), "x"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}
