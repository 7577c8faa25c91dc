package repository

import (
	"context"

	"github.com/jhoicas/mousto-pos/internal/domain/entity"
)

// UserRepository puerto de persistencia para perfiles.
// GetByID / GetByEmail devuelven (nil, nil) si no existe.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// List todos los perfiles ordenados por nombre.
	List(ctx context.Context) ([]*entity.User, error)
	ListActiveAdmins(ctx context.Context) ([]*entity.User, error)
	CountAdmins(ctx context.Context) (int, error)
	SetActive(ctx context.Context, id string, active bool) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	Delete(ctx context.Context, id string) error
}
