package packages

import (
	"context"
	"time"
)

type ListFilter struct {
	CustomerID string
	Status     Status
}

// Repository es el acceso al ledger. Todas las operaciones van filtradas por
// empresa, salvo ExpireOverdue que es el barrido del sistema.
type Repository interface {
	Create(ctx context.Context, p CustomerPackage) error
	GetByID(ctx context.Context, companyID, id string) (CustomerPackage, error)

	// List ordena por AcquiredAt ascendente y luego por ID.
	List(ctx context.Context, companyID string, filter ListFilter) ([]CustomerPackage, error)

	// ListUsable devuelve los paquetes que cumplen IsUsable(now), mismo orden que List.
	ListUsable(ctx context.Context, companyID string, now time.Time) ([]CustomerPackage, error)

	// ConsumeUse descuenta un uso y guarda u en una sola unidad de trabajo.
	// Devuelve storage.ErrNotFound si el paquete no existe y ErrNotUsable si
	// no cumple IsUsable(u.UsedAt); en ambos casos no se guarda nada.
	ConsumeUse(ctx context.Context, u Usage) (CustomerPackage, error)

	// ListUsages ordena por UsedAt descendente.
	ListUsages(ctx context.Context, companyID, packageID string) ([]Usage, error)

	// Renew marca originalID como renewed y crea successor en una transacción.
	// Devuelve ErrAlreadyRenewed si el original ya estaba renovado.
	Renew(ctx context.Context, companyID, originalID string, successor CustomerPackage) error

	// ExpireOverdue pasa a expired todo paquete active con valid_until < now.
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
}
