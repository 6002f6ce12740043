package users

import (
	"time"

	"pet-grooming-manager/internal/ports/auth"
)

// User es un operador de la empresa (no confundir con el cliente dueño de mascotas).
type User struct {
	ID        string
	CompanyID string

	Name  string
	Email string // único global, se usa para login

	PasswordHash string
	Role         auth.Role
	Active       bool

	CreatedAt   time.Time
	UpdatedAt   time.Time
	LastLoginAt *time.Time
}
