package packages

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-grooming-manager/internal/domain/catalog"
	"pet-grooming-manager/internal/platform/metrics"
	"pet-grooming-manager/internal/ports/storage"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("package not found")
	ErrNotUsable        = errors.New("package is not usable")
	ErrAlreadyRenewed   = errors.New("package already renewed")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrPetNotOwned      = errors.New("pet does not belong to the package customer")
)

// Catalog es lo que el ledger necesita del catálogo. Lo implementa catalog.Service.
type Catalog interface {
	GetPackageType(ctx context.Context, companyID, id string) (catalog.PackageType, error)
	GetService(ctx context.Context, companyID, id string) (catalog.GroomingService, error)
}

type CustomerChecker interface {
	Exists(ctx context.Context, companyID, customerID string) (bool, error)
}

// PetOwners resuelve el cliente dueño de una mascota. Lo implementa pets.Service.
type PetOwners interface {
	CustomerOf(ctx context.Context, companyID, petID string) (string, error)
}

type Service struct {
	repo      Repository
	catalog   Catalog
	customers CustomerChecker
	pets      PetOwners
	now       func() time.Time
}

func NewService(repo Repository, catalog Catalog, customers CustomerChecker, pets PetOwners) *Service {
	return &Service{
		repo:      repo,
		catalog:   catalog,
		customers: customers,
		pets:      pets,
		now:       time.Now,
	}
}

type PurchaseInput struct {
	CustomerID    string
	PackageTypeID string
}

// Purchase crea un paquete activo a partir de un tipo vigente del catálogo.
func (s *Service) Purchase(ctx context.Context, companyID string, in PurchaseInput) (CustomerPackage, error) {
	companyID = strings.TrimSpace(companyID)
	customerID := strings.TrimSpace(in.CustomerID)
	packageTypeID := strings.TrimSpace(in.PackageTypeID)
	if companyID == "" || customerID == "" || packageTypeID == "" {
		return CustomerPackage{}, fmt.Errorf("%w: customer_id and package_type_id are required", ErrInvalidInput)
	}

	ok, err := s.customers.Exists(ctx, companyID, customerID)
	if err != nil {
		return CustomerPackage{}, err
	}
	if !ok {
		return CustomerPackage{}, ErrCustomerNotFound
	}

	pt, err := s.catalog.GetPackageType(ctx, companyID, packageTypeID)
	if err != nil {
		return CustomerPackage{}, err
	}
	if !pt.Active {
		// Un tipo retirado no se vende.
		return CustomerPackage{}, catalog.ErrPackageTypeNotFound
	}

	p := NewFromType(pt, customerID, s.now())
	p.ID = uuid.NewString()
	if err := s.repo.Create(ctx, p); err != nil {
		metrics.ObserveLedger("purchase", "error")
		return CustomerPackage{}, err
	}
	metrics.ObserveLedger("purchase", "ok")
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, companyID, id string) (CustomerPackage, error) {
	p, err := s.repo.GetByID(ctx, strings.TrimSpace(companyID), strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return CustomerPackage{}, ErrNotFound
		}
		return CustomerPackage{}, err
	}
	return p, nil
}

func (s *Service) List(ctx context.Context, companyID string, filter ListFilter) ([]CustomerPackage, error) {
	companyID = strings.TrimSpace(companyID)
	if companyID == "" {
		return nil, ErrInvalidInput
	}
	if filter.Status != "" {
		if _, ok := ParseStatus(string(filter.Status)); !ok {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, filter.Status)
		}
	}
	filter.CustomerID = strings.TrimSpace(filter.CustomerID)
	return s.repo.List(ctx, companyID, filter)
}

// ListActive devuelve exactamente los paquetes que cumplen IsUsable(now).
func (s *Service) ListActive(ctx context.Context, companyID string) ([]CustomerPackage, error) {
	companyID = strings.TrimSpace(companyID)
	if companyID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListUsable(ctx, companyID, s.now())
}

type RecordUsageInput struct {
	PackageID string
	PetID     string
	ServiceID string
	Notes     string
}

// RecordUsage descuenta un uso del paquete y registra el consumo. El descuento
// es condicional y atómico: si el paquete no es usable no se guarda nada.
func (s *Service) RecordUsage(ctx context.Context, companyID string, in RecordUsageInput) (Usage, CustomerPackage, error) {
	companyID = strings.TrimSpace(companyID)
	packageID := strings.TrimSpace(in.PackageID)
	petID := strings.TrimSpace(in.PetID)
	serviceID := strings.TrimSpace(in.ServiceID)
	if companyID == "" || packageID == "" || petID == "" || serviceID == "" {
		return Usage{}, CustomerPackage{}, fmt.Errorf("%w: pet_id and service_id are required", ErrInvalidInput)
	}

	p, err := s.GetByID(ctx, companyID, packageID)
	if err != nil {
		metrics.ObserveLedger("usage", "not_found")
		return Usage{}, CustomerPackage{}, err
	}

	owner, err := s.pets.CustomerOf(ctx, companyID, petID)
	if err != nil {
		return Usage{}, CustomerPackage{}, err
	}
	if owner != p.CustomerID {
		return Usage{}, CustomerPackage{}, ErrPetNotOwned
	}
	if _, err := s.catalog.GetService(ctx, companyID, serviceID); err != nil {
		return Usage{}, CustomerPackage{}, err
	}

	u := Usage{
		ID:        uuid.NewString(),
		CompanyID: companyID,
		PackageID: packageID,
		PetID:     petID,
		ServiceID: serviceID,
		Notes:     strings.TrimSpace(in.Notes),
		UsedAt:    s.now(),
	}

	updated, err := s.repo.ConsumeUse(ctx, u)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			metrics.ObserveLedger("usage", "not_found")
			return Usage{}, CustomerPackage{}, ErrNotFound
		case errors.Is(err, ErrNotUsable):
			metrics.ObserveLedger("usage", "not_usable")
			return Usage{}, CustomerPackage{}, err
		default:
			metrics.ObserveLedger("usage", "error")
			return Usage{}, CustomerPackage{}, fmt.Errorf("record usage: %w", err)
		}
	}
	metrics.ObserveLedger("usage", "ok")
	return u, updated, nil
}

func (s *Service) ListUsages(ctx context.Context, companyID, packageID string) ([]Usage, error) {
	p, err := s.GetByID(ctx, companyID, packageID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListUsages(ctx, p.CompanyID, p.ID)
}

// Renew reemplaza el paquete por uno nuevo del mismo tipo con usos y vigencia
// completos desde hoy. El original queda renewed.
func (s *Service) Renew(ctx context.Context, companyID, packageID string) (CustomerPackage, error) {
	original, err := s.GetByID(ctx, companyID, packageID)
	if err != nil {
		metrics.ObserveLedger("renew", "not_found")
		return CustomerPackage{}, err
	}
	if original.Status == StatusRenewed {
		metrics.ObserveLedger("renew", "already_renewed")
		return CustomerPackage{}, ErrAlreadyRenewed
	}

	pt, err := s.catalog.GetPackageType(ctx, original.CompanyID, original.PackageTypeID)
	if err != nil {
		metrics.ObserveLedger("renew", "not_found")
		return CustomerPackage{}, err
	}

	successor := NewFromType(pt, original.CustomerID, s.now())
	successor.ID = uuid.NewString()
	fromID := original.ID
	successor.RenewedFromID = &fromID

	if err := s.repo.Renew(ctx, original.CompanyID, original.ID, successor); err != nil {
		switch {
		case errors.Is(err, ErrAlreadyRenewed):
			metrics.ObserveLedger("renew", "already_renewed")
			return CustomerPackage{}, err
		case errors.Is(err, storage.ErrNotFound):
			metrics.ObserveLedger("renew", "not_found")
			return CustomerPackage{}, ErrNotFound
		default:
			metrics.ObserveLedger("renew", "error")
			return CustomerPackage{}, fmt.Errorf("renew package: %w", err)
		}
	}
	metrics.ObserveLedger("renew", "ok")
	return successor, nil
}

// Chain devuelve la cadena de renovaciones que termina en packageID, de la
// compra original hacia adelante.
func (s *Service) Chain(ctx context.Context, companyID, packageID string) ([]CustomerPackage, error) {
	p, err := s.GetByID(ctx, companyID, packageID)
	if err != nil {
		return nil, err
	}

	chain := []CustomerPackage{p}
	seen := map[string]struct{}{p.ID: {}}
	for p.RenewedFromID != nil {
		if _, loop := seen[*p.RenewedFromID]; loop {
			return nil, fmt.Errorf("renewal chain loops at %s", *p.RenewedFromID)
		}
		prev, err := s.GetByID(ctx, companyID, *p.RenewedFromID)
		if err != nil {
			return nil, err
		}
		seen[prev.ID] = struct{}{}
		chain = append(chain, prev)
		p = prev
	}

	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

// ExpireOverdue es el barrido del sistema: marca expired los paquetes
// active vencidos de todas las empresas.
func (s *Service) ExpireOverdue(ctx context.Context) (int64, error) {
	n, err := s.repo.ExpireOverdue(ctx, s.now())
	if err != nil {
		metrics.ObserveLedger("expire", "error")
		return 0, err
	}
	metrics.AddExpired(n)
	metrics.ObserveLedger("expire", "ok")
	return n, nil
}
