package entity

import "time"

// Role es el rol de un usuario. Solo existen tres valores válidos.
type Role string

// Roles válidos para User.
const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleSeller  Role = "seller"
)

// Estados de usuario. Los usuarios no se eliminan, se desactivan.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// IsValid indica si el rol es uno de los tres permitidos.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleSeller:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// ParseRole convierte un string en Role; ok=false si no es un rol válido.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.IsValid()
}

// User representa un usuario del sistema.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         Role
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsActive indica si el usuario puede iniciar sesión.
func (u *User) IsActive() bool { return u.Status == UserStatusActive }
