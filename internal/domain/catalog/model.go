package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// GroomingService es un servicio vendible (baño, corte, uñas...).
// No se borra: se retira con Active=false.
type GroomingService struct {
	ID        string
	CompanyID string

	Name            string
	Description     string
	BasePrice       decimal.Decimal
	DurationMinutes int
	Active          bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PackageType es la plantilla de un paquete prepago.
type PackageType struct {
	ID        string
	CompanyID string

	Name         string
	Description  string
	ValidityDays int
	TotalUses    int
	Price        decimal.Decimal
	MaxPets      int
	Active       bool

	Services []PackageTypeService

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PackageTypeService indica cuántos usos de un servicio incluye el paquete.
type PackageTypeService struct {
	ServiceID    string
	IncludedUses int
	UnitPrice    decimal.Decimal
}
