package repository

import (
	"context"

	"github.com/jhoicas/mousto-pos/internal/domain/entity"
)

// CategoryRepository puerto de persistencia para Category.
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	List(ctx context.Context) ([]*entity.Category, error)
}
