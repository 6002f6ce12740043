package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"pet-grooming-manager/internal/ports/storage"
)

func TestMapErr(t *testing.T) {
	if mapErr(nil) != nil {
		t.Fatalf("nil must stay nil")
	}
	if !errors.Is(mapErr(sql.ErrNoRows), storage.ErrNotFound) {
		t.Fatalf("ErrNoRows must map to storage.ErrNotFound")
	}

	dup := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "users_email_uq"})
	got := mapErr(dup)
	if !errors.Is(got, storage.ErrConflict) || !strings.Contains(got.Error(), "users_email_uq") {
		t.Fatalf("unique violation must map to ErrConflict, got %v", got)
	}

	other := &pgconn.PgError{Code: "23503"}
	if !errors.Is(mapErr(other), other) {
		t.Fatalf("other pg errors pass through")
	}
}

type fakeResult int64

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return int64(r), nil }

func TestMustAffect(t *testing.T) {
	if err := mustAffect(fakeResult(1), nil); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if err := mustAffect(fakeResult(0), nil); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSchemaDeclaresLedgerTables(t *testing.T) {
	for _, table := range []string{"customer_packages", "package_usages", "package_type_services", "customer_package_services"} {
		if !strings.Contains(schemaSQL, "CREATE TABLE IF NOT EXISTS "+table) {
			t.Fatalf("schema missing table %s", table)
		}
	}
	if !strings.Contains(schemaSQL, "CHECK (remaining_uses >= 0)") {
		t.Fatalf("schema must forbid negative remaining uses")
	}
}
