package packages

import (
	"time"

	"pet-grooming-manager/internal/domain/catalog"

	"github.com/shopspring/decimal"
)

// Status es el estado del paquete en el ledger.
// @Enum active, consumed, expired, renewed
type Status string

const (
	StatusActive   Status = "active"
	StatusConsumed Status = "consumed"
	StatusExpired  Status = "expired"
	StatusRenewed  Status = "renewed"
)

func ParseStatus(raw string) (Status, bool) {
	switch Status(raw) {
	case StatusActive, StatusConsumed, StatusExpired, StatusRenewed:
		return Status(raw), true
	default:
		return "", false
	}
}

// CustomerPackage es un paquete comprado por un cliente.
// RemainingUses solo baja (RecordUsage) o se copia del tipo al crear/renovar.
type CustomerPackage struct {
	ID         string
	CompanyID  string
	CustomerID string

	PackageTypeID   string
	PackageTypeName string

	TotalUses     int
	RemainingUses int
	ValidUntil    time.Time
	Status        Status

	// Paquete anterior cuando este nació de una renovación.
	RenewedFromID *string

	PurchasePrice decimal.Decimal
	AcquiredAt    time.Time

	Services []CustomerPackageService

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CustomerPackageService es la foto por servicio tomada al comprar.
// Los contadores no se descuentan: el ledger solo lleva RemainingUses total.
type CustomerPackageService struct {
	ServiceID     string
	TotalUses     int
	RemainingUses int
}

// Usage es un consumo registrado. Inmutable.
type Usage struct {
	ID        string
	CompanyID string
	PackageID string
	PetID     string
	ServiceID string
	Notes     string
	UsedAt    time.Time
}

// IsUsable es el predicado de paquete activo: estado active, vigente y con usos.
func (p CustomerPackage) IsUsable(now time.Time) bool {
	return p.Status == StatusActive && !p.ValidUntil.Before(now) && p.RemainingUses >= 1
}

// NewFromType arma un paquete nuevo a partir de la plantilla. Se usa tanto en
// la compra como en la renovación; no arrastra usos ni días del anterior.
func NewFromType(pt catalog.PackageType, customerID string, acquiredAt time.Time) CustomerPackage {
	services := make([]CustomerPackageService, 0, len(pt.Services))
	for _, s := range pt.Services {
		services = append(services, CustomerPackageService{
			ServiceID:     s.ServiceID,
			TotalUses:     s.IncludedUses,
			RemainingUses: s.IncludedUses,
		})
	}

	return CustomerPackage{
		CompanyID:       pt.CompanyID,
		CustomerID:      customerID,
		PackageTypeID:   pt.ID,
		PackageTypeName: pt.Name,
		TotalUses:       pt.TotalUses,
		RemainingUses:   pt.TotalUses,
		ValidUntil:      acquiredAt.AddDate(0, 0, pt.ValidityDays),
		Status:          StatusActive,
		PurchasePrice:   pt.Price,
		AcquiredAt:      acquiredAt,
		Services:        services,
		CreatedAt:       acquiredAt,
		UpdatedAt:       acquiredAt,
	}
}
