package dto

import (
	"time"

	"github.com/jhoicas/mousto-pos/internal/domain/entity"
)

// CreateUserRequest entrada de la función privilegiada create-user (password en texto, se hashea en use case).
type CreateUserRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"` // admin | vendeur (por defecto vendeur)
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
}

// ToggleUserStatusRequest entrada de toggle-user-status.
type ToggleUserStatusRequest struct {
	Action string `json:"action"` // enable | disable
}

// ChangePasswordRequest cambio de contraseña del usuario autenticado.
type ChangePasswordRequest struct {
	NewPassword string `json:"new_password"`
}

// UserResponse salida de un perfil (sin password).
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Firstname string    `json:"firstname"`
	Lastname  string    `json:"lastname"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// NewUserResponse mapea el perfil sin el hash de contraseña.
func NewUserResponse(u *entity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Firstname: u.Firstname,
		Lastname:  u.Lastname,
		FullName:  u.FullName(),
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
