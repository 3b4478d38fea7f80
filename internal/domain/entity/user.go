package entity

import "time"

// Roles de negocio.
const (
	RoleAdmin   = "ADMIN"
	RoleManager = "MANAGER"
	RoleStaff   = "STAFF"
)

// Role rol asignable a un perfil.
type Role struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}

// User perfil de un usuario del directorio de identidad. El ID coincide con el del proveedor.
type User struct {
	ID        string
	Email     string
	FullName  string
	RoleID    string
	Role      string // nombre del rol resuelto (ADMIN, MANAGER, STAFF)
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Credential credenciales del proveedor de identidad local.
type Credential struct {
	UserID       string
	Email        string
	PasswordHash string // bcrypt
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
