package entity

import (
	"strings"
	"time"
)

// Roles válidos para User.
const (
	RoleAdmin   = "admin"
	RoleVendeur = "vendeur"
)

// ValidRole indica si el rol es conocido.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleVendeur
}

// User perfil de la aplicación con sus credenciales.
type User struct {
	ID           string
	Email        string // almacenado en minúsculas
	PasswordHash string // bcrypt
	Firstname    string
	Lastname     string
	Role         string // admin, vendeur
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName "nombre apellido"; "Utilisateur" si ambos están vacíos.
func (u *User) FullName() string {
	name := strings.TrimSpace(strings.TrimSpace(u.Firstname) + " " + strings.TrimSpace(u.Lastname))
	if name == "" {
		return "Utilisateur"
	}
	return name
}

// IsAdmin indica si el usuario tiene rol admin.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
