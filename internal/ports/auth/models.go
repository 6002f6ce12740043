package auth

// Role controla acceso a rutas de administración (usuarios).
type Role string

const (
	RoleOwner    Role = "owner"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

// Claims representa la información extraída del token.
// CompanyID es el tenant: todo acceso a datos se filtra por él.
type Claims struct {
	UserID    string
	Email     string
	CompanyID string
	Role      Role
}
