package packages

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"pet-grooming-manager/internal/domain/catalog"
	"pet-grooming-manager/internal/domain/pets"
	"pet-grooming-manager/internal/ports/storage"

	"github.com/shopspring/decimal"
)

type testRepo struct {
	mu     sync.Mutex
	byID   map[string]CustomerPackage
	usages []Usage
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]CustomerPackage{}}
}

func (r *testRepo) Create(ctx context.Context, p CustomerPackage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, companyID, id string) (CustomerPackage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok || p.CompanyID != companyID {
		return CustomerPackage{}, storage.ErrNotFound
	}
	return p, nil
}

func (r *testRepo) List(ctx context.Context, companyID string, filter ListFilter) ([]CustomerPackage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]CustomerPackage, 0)
	for _, p := range r.byID {
		if p.CompanyID != companyID {
			continue
		}
		if filter.CustomerID != "" && p.CustomerID != filter.CustomerID {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].AcquiredAt.Equal(out[j].AcquiredAt) {
			return out[i].AcquiredAt.Before(out[j].AcquiredAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *testRepo) ListUsable(ctx context.Context, companyID string, now time.Time) ([]CustomerPackage, error) {
	all, _ := r.List(ctx, companyID, ListFilter{})
	out := make([]CustomerPackage, 0)
	for _, p := range all {
		if p.IsUsable(now) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *testRepo) ConsumeUse(ctx context.Context, u Usage) (CustomerPackage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[u.PackageID]
	if !ok || p.CompanyID != u.CompanyID {
		return CustomerPackage{}, storage.ErrNotFound
	}
	if !p.IsUsable(u.UsedAt) {
		return CustomerPackage{}, ErrNotUsable
	}
	p.RemainingUses--
	if p.RemainingUses <= 0 {
		p.Status = StatusConsumed
	}
	p.UpdatedAt = u.UsedAt
	r.byID[p.ID] = p
	r.usages = append(r.usages, u)
	return p, nil
}

func (r *testRepo) ListUsages(ctx context.Context, companyID, packageID string) ([]Usage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Usage, 0)
	for i := len(r.usages) - 1; i >= 0; i-- {
		if r.usages[i].PackageID == packageID && r.usages[i].CompanyID == companyID {
			out = append(out, r.usages[i])
		}
	}
	return out, nil
}

func (r *testRepo) Renew(ctx context.Context, companyID, originalID string, successor CustomerPackage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[originalID]
	if !ok || p.CompanyID != companyID {
		return storage.ErrNotFound
	}
	if p.Status == StatusRenewed {
		return ErrAlreadyRenewed
	}
	p.Status = StatusRenewed
	r.byID[p.ID] = p
	r.byID[successor.ID] = successor
	return nil
}

func (r *testRepo) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, p := range r.byID {
		if p.Status == StatusActive && p.ValidUntil.Before(now) {
			p.Status = StatusExpired
			r.byID[id] = p
			n++
		}
	}
	return n, nil
}

type testCatalog struct {
	types    map[string]catalog.PackageType
	services map[string]catalog.GroomingService
}

func (c testCatalog) GetPackageType(ctx context.Context, companyID, id string) (catalog.PackageType, error) {
	pt, ok := c.types[id]
	if !ok || pt.CompanyID != companyID {
		return catalog.PackageType{}, catalog.ErrPackageTypeNotFound
	}
	return pt, nil
}

func (c testCatalog) GetService(ctx context.Context, companyID, id string) (catalog.GroomingService, error) {
	s, ok := c.services[id]
	if !ok || s.CompanyID != companyID {
		return catalog.GroomingService{}, catalog.ErrServiceNotFound
	}
	return s, nil
}

type testCustomers map[string]string

func (c testCustomers) Exists(ctx context.Context, companyID, customerID string) (bool, error) {
	return c[customerID] == companyID, nil
}

// testPets: petID -> customerID (todas de c-1)
type testPets map[string]string

func (p testPets) CustomerOf(ctx context.Context, companyID, petID string) (string, error) {
	owner, ok := p[petID]
	if !ok || companyID != "c-1" {
		return "", pets.ErrNotFound
	}
	return owner, nil
}

type fixture struct {
	svc   *Service
	repo  *testRepo
	clock *time.Time
}

func newFixture() fixture {
	repo := newTestRepo()
	cat := testCatalog{
		types: map[string]catalog.PackageType{
			"pt-10": {
				ID: "pt-10", CompanyID: "c-1", Name: "Mensual", Active: true,
				TotalUses: 10, ValidityDays: 30, Price: decimal.RequireFromString("300.00"),
				Services: []catalog.PackageTypeService{{ServiceID: "s-bath", IncludedUses: 10}},
			},
			"pt-retired": {ID: "pt-retired", CompanyID: "c-1", Name: "Viejo", Active: false, TotalUses: 4, ValidityDays: 30},
		},
		services: map[string]catalog.GroomingService{
			"s-bath": {ID: "s-bath", CompanyID: "c-1", Name: "Baño", Active: true},
		},
	}
	svc := NewService(repo, cat, testCustomers{"cu-1": "c-1", "cu-2": "c-1"}, testPets{"pet-1": "cu-1", "pet-2": "cu-2"})

	clock := time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)
	f := fixture{svc: svc, repo: repo, clock: &clock}
	svc.now = func() time.Time { return *f.clock }
	return f
}

func (f fixture) advance(d time.Duration) {
	*f.clock = f.clock.Add(d)
}

func TestPurchase_CopiesEntitlementFromType(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	p, err := f.svc.Purchase(ctx, "c-1", PurchaseInput{CustomerID: "cu-1", PackageTypeID: "pt-10"})
	if err != nil {
		t.Fatalf("Purchase error: %v", err)
	}
	if p.RemainingUses != 10 || p.TotalUses != 10 || p.Status != StatusActive {
		t.Fatalf("unexpected package: %+v", p)
	}
	if !p.ValidUntil.Equal(f.clock.AddDate(0, 0, 30)) {
		t.Fatalf("expected valid_until day 30, got %s", p.ValidUntil)
	}
	if !p.PurchasePrice.Equal(decimal.NewFromInt(300)) || p.PackageTypeName != "Mensual" {
		t.Fatalf("unexpected price/name: %s %q", p.PurchasePrice, p.PackageTypeName)
	}
	if len(p.Services) != 1 || p.Services[0].RemainingUses != 10 {
		t.Fatalf("expected per-service snapshot, got %+v", p.Services)
	}
}

func TestPurchase_NotFound(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	if _, err := f.svc.Purchase(ctx, "c-1", PurchaseInput{CustomerID: "cu-1", PackageTypeID: "missing"}); !errors.Is(err, catalog.ErrPackageTypeNotFound) {
		t.Fatalf("expected package type not found, got %v", err)
	}
	if _, err := f.svc.Purchase(ctx, "c-1", PurchaseInput{CustomerID: "cu-1", PackageTypeID: "pt-retired"}); !errors.Is(err, catalog.ErrPackageTypeNotFound) {
		t.Fatalf("expected retired type treated as not found, got %v", err)
	}
	if _, err := f.svc.Purchase(ctx, "c-1", PurchaseInput{CustomerID: "ghost", PackageTypeID: "pt-10"}); !errors.Is(err, ErrCustomerNotFound) {
		t.Fatalf("expected ErrCustomerNotFound, got %v", err)
	}
	if _, err := f.svc.Purchase(ctx, "c-2", PurchaseInput{CustomerID: "cu-1", PackageTypeID: "pt-10"}); err == nil {
		t.Fatalf("expected error purchasing from another company")
	}
}

func TestRecordUsage_DecrementsAndConsumes(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	p, _ := f.svc.Purchase(ctx, "c-1", PurchaseInput{CustomerID: "cu-1", PackageTypeID: "pt-10"})

	var last CustomerPackage
	for i := 0; i < 5; i++ {
		f.advance(time.Hour)
		_, updated, err := f.svc.RecordUsage(ctx, "c-1", RecordUsageInput{PackageID: p.ID, PetID: "pet-1", ServiceID: "s-bath"})
		if err != nil {
			t.Fatalf("RecordUsage %d error: %v", i, err)
		}
		last = updated
	}
	if last.RemainingUses != 5 || last.Status != StatusActive {
		t.Fatalf("expected 5 remaining and active, got %d %s", last.RemainingUses, last.Status)
	}

	for i := 0; i < 5; i++ {
		_, updated, err := f.svc.RecordUsage(ctx, "c-1", RecordUsageInput{PackageID: p.ID, PetID: "pet-1", ServiceID: "s-bath"})
		if err != nil {
			t.Fatalf("RecordUsage error: %v", err)
		}
		last = updated
	}
	if last.RemainingUses != 0 || last.Status != StatusConsumed {
		t.Fatalf("expected consumed with 0 remaining, got %d %s", last.RemainingUses, last.Status)
	}

	// Un uso más falla y no persiste nada.
	if _, _, err := f.svc.RecordUsage(ctx, "c-1", RecordUsageInput{PackageID: p.ID, PetID: "pet-1", ServiceID: "s-bath"}); !errors.Is(err, ErrNotUsable) {
		t.Fatalf("expected ErrNotUsable after exhaustion, got %v", err)
	}
	usages, _ := f.svc.ListUsages(ctx, "c-1", p.ID)
	if len(usages) != 10 {
		t.Fatalf("expected 10 usages, got %d", len(usages))
	}
	if !usages[0].UsedAt.After(usages[len(usages)-1].UsedAt) {
		t.Fatalf("expected usages newest first")
	}

	// Los contadores por servicio no se descuentan.
	got, _ := f.svc.GetByID(ctx, "c-1", p.ID)
	if got.Services[0].RemainingUses != 10 {
		t.Fatalf("expected per-service counters untouched, got %+v", got.Services)
	}
}

func TestRecordUsage_Failures(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	p, _ := f.svc.Purchase(ctx, "c-1", PurchaseInput{CustomerID: "cu-1", PackageTypeID: "pt-10"})

	if _, _, err := f.svc.RecordUsage(ctx, "c-1", RecordUsageInput{PackageID: "missing", PetID: "pet-1", ServiceID: "s-bath"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(f.repo.usages) != 0 {
		t.Fatalf("expected no usage persisted for missing package")
	}
	if _, _, err := f.svc.RecordUsage(ctx, "c-1", RecordUsageInput{PackageID: p.ID, PetID: "pet-2", ServiceID: "s-bath"}); !errors.Is(err, ErrPetNotOwned) {
		t.Fatalf("expected ErrPetNotOwned, got %v", err)
	}
	if _, _, err := f.svc.RecordUsage(ctx, "c-1", RecordUsageInput{PackageID: p.ID, PetID: "pet-1", ServiceID: "s-x"}); !errors.Is(err, catalog.ErrServiceNotFound) {
		t.Fatalf("expected service not found, got %v", err)
	}
	if _, _, err := f.svc.RecordUsage(ctx, "c-1", RecordUsageInput{PackageID: p.ID}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	// Vencido por fecha aunque el estado siga active.
	f.advance(31 * 24 * time.Hour)
	if _, _, err := f.svc.RecordUsage(ctx, "c-1", RecordUsageInput{PackageID: p.ID, PetID: "pet-1", ServiceID: "s-bath"}); !errors.Is(err, ErrNotUsable) {
		t.Fatalf("expected ErrNotUsable for expired package, got %v", err)
	}
}

func TestRecordUsage_ConcurrentNeverOverdraws(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	p, _ := f.svc.Purchase(ctx, "c-1", PurchaseInput{CustomerID: "cu-1", PackageTypeID: "pt-10"})

	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, err := f.svc.RecordUsage(ctx, "c-1", RecordUsageInput{PackageID: p.ID, PetID: "pet-1", ServiceID: "s-bath"}); err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	got, _ := f.svc.GetByID(ctx, "c-1", p.ID)
	if ok != 10 || got.RemainingUses != 0 || got.Status != StatusConsumed {
		t.Fatalf("expected exactly 10 successful usages, got ok=%d remaining=%d status=%s", ok, got.RemainingUses, got.Status)
	}
}

func TestListActive_Predicate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	usable, _ := f.svc.Purchase(ctx, "c-1", PurchaseInput{CustomerID: "cu-1", PackageTypeID: "pt-10"})
	consumed, _ := f.svc.Purchase(ctx, "c-1", PurchaseInput{CustomerID: "cu-1", PackageTypeID: "pt-10"})
	expiredByDate, _ := f.svc.Purchase(ctx, "c-1", PurchaseInput{CustomerID: "cu-2", PackageTypeID: "pt-10"})

	c := f.repo.byID[consumed.ID]
	c.RemainingUses = 0
	f.repo.byID[consumed.ID] = c

	e := f.repo.byID[expiredByDate.ID]
	e.ValidUntil = f.clock.Add(-time.Minute)
	f.repo.byID[expiredByDate.ID] = e

	items, err := f.svc.ListActive(ctx, "c-1")
	if err != nil {
		t.Fatalf("ListActive error: %v", err)
	}
	if len(items) != 1 || items[0].ID != usable.ID {
		t.Fatalf("expected only the usable package, got %+v", items)
	}

	// validUntil == now sigue siendo usable.
	u := f.repo.byID[usable.ID]
	u.ValidUntil = *f.clock
	f.repo.byID[usable.ID] = u
	items, _ = f.svc.ListActive(ctx, "c-1")
	if len(items) != 1 {
		t.Fatalf("expected package valid until now to stay active")
	}

	if items, _ := f.svc.ListActive(ctx, "c-2"); len(items) != 0 {
		t.Fatalf("expected no packages for another company")
	}
}

func TestRenew_EndToEndScenario(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	p, _ := f.svc.Purchase(ctx, "c-1", PurchaseInput{CustomerID: "cu-1", PackageTypeID: "pt-10"})
	for i := 0; i < 10; i++ {
		if _, _, err := f.svc.RecordUsage(ctx, "c-1", RecordUsageInput{PackageID: p.ID, PetID: "pet-1", ServiceID: "s-bath"}); err != nil {
			t.Fatalf("RecordUsage error: %v", err)
		}
	}

	f.advance(40 * 24 * time.Hour)
	renewed, err := f.svc.Renew(ctx, "c-1", p.ID)
	if err != nil {
		t.Fatalf("Renew error: %v", err)
	}
	if renewed.RemainingUses != 10 || renewed.Status != StatusActive {
		t.Fatalf("unexpected successor: %+v", renewed)
	}
	if renewed.RenewedFromID == nil || *renewed.RenewedFromID != p.ID {
		t.Fatalf("expected renewed_from_id=%s, got %v", p.ID, renewed.RenewedFromID)
	}
	if !renewed.ValidUntil.Equal(f.clock.AddDate(0, 0, 30)) {
		t.Fatalf("expected validity from renewal time, got %s", renewed.ValidUntil)
	}

	original, _ := f.svc.GetByID(ctx, "c-1", p.ID)
	if original.Status != StatusRenewed {
		t.Fatalf("expected original renewed, got %s", original.Status)
	}

	if _, err := f.svc.Renew(ctx, "c-1", p.ID); !errors.Is(err, ErrAlreadyRenewed) {
		t.Fatalf("expected ErrAlreadyRenewed, got %v", err)
	}
	if _, err := f.svc.Renew(ctx, "c-1", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	second, err := f.svc.Renew(ctx, "c-1", renewed.ID)
	if err != nil {
		t.Fatalf("second Renew error: %v", err)
	}
	chain, err := f.svc.Chain(ctx, "c-1", second.ID)
	if err != nil {
		t.Fatalf("Chain error: %v", err)
	}
	if len(chain) != 3 || chain[0].ID != p.ID || chain[1].ID != renewed.ID || chain[2].ID != second.ID {
		t.Fatalf("unexpected chain order: %+v", chain)
	}
}

func TestRenew_IgnoresRemainingUses(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	p, _ := f.svc.Purchase(ctx, "c-1", PurchaseInput{CustomerID: "cu-1", PackageTypeID: "pt-10"})
	_, _, _ = f.svc.RecordUsage(ctx, "c-1", RecordUsageInput{PackageID: p.ID, PetID: "pet-1", ServiceID: "s-bath"})

	renewed, err := f.svc.Renew(ctx, "c-1", p.ID)
	if err != nil {
		t.Fatalf("Renew error: %v", err)
	}
	if renewed.RemainingUses != 10 {
		t.Fatalf("expected no carry-over, got %d", renewed.RemainingUses)
	}
}

func TestExpireOverdue(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	old, _ := f.svc.Purchase(ctx, "c-1", PurchaseInput{CustomerID: "cu-1", PackageTypeID: "pt-10"})
	f.advance(20 * 24 * time.Hour)
	fresh, _ := f.svc.Purchase(ctx, "c-1", PurchaseInput{CustomerID: "cu-2", PackageTypeID: "pt-10"})
	f.advance(11 * 24 * time.Hour)

	n, err := f.svc.ExpireOverdue(ctx)
	if err != nil || n != 1 {
		t.Fatalf("expected 1 expired, got %d %v", n, err)
	}
	if got, _ := f.svc.GetByID(ctx, "c-1", old.ID); got.Status != StatusExpired {
		t.Fatalf("expected old package expired, got %s", got.Status)
	}
	if got, _ := f.svc.GetByID(ctx, "c-1", fresh.ID); got.Status != StatusActive {
		t.Fatalf("expected fresh package still active, got %s", got.Status)
	}
}
