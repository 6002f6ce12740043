package dashboard

import (
	"time"

	"github.com/shopspring/decimal"
)

// Metrics es la foto del tablero. Se recalcula completa en cada pedido.
type Metrics struct {
	// Paquetes con status active, sin mirar vigencia ni usos.
	StatusActiveCount int
	// Paquetes que cumplen el predicado de paquete usable.
	OperationallyActiveCount int
	// Paquetes active adquiridos desde el primer día del mes (compras y renovaciones).
	RenewalsThisMonth int
	// expired / total * 100, con un decimal.
	ChurnRate float64
	// Paquetes active que vencen dentro de los próximos 15 días (o ya vencieron).
	RiskyClients int
}

// MetricCounts son los conteos crudos que devuelve el repositorio.
type MetricCounts struct {
	StatusActive        int
	OperationallyActive int
	ActiveThisMonth     int
	Expired             int
	Total               int
	Risky               int
}

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

type PetSummary struct {
	Name    string
	Breed   string
	Species string
}

// ActionCandidate junta en una fila todo lo que la cola necesita de un
// paquete usable: cliente, primera mascota y último uso.
type ActionCandidate struct {
	PackageID     string
	CustomerID    string
	CustomerName  string
	RemainingUses int
	ValidUntil    time.Time
	AcquiredAt    time.Time

	// Primera mascota del cliente por fecha de alta; nil si no tiene.
	FirstPet *PetSummary
	// Último uso del paquete; nil si nunca se usó.
	LastUsedAt *time.Time
}

// ActionItem es una entrada de la cola de contacto. Solo viene cargado el
// número que originó la prioridad.
type ActionItem struct {
	CustomerID   string
	CustomerName string
	PetName      string
	PetBreed     string
	PetImageURL  string
	PackageID    string
	Priority     Priority
	Reason       string

	ExpiresIn     *int
	RemainingUses *int
	LastUsedDays  *int
}

// RevenueRow es un paquete active con el nombre de su tipo.
type RevenueRow struct {
	PackageTypeName string
	PurchasePrice   decimal.Decimal
}

type RevenueEntry struct {
	Name     string
	Revenue  decimal.Decimal
	Packages int
	Color    string
}
