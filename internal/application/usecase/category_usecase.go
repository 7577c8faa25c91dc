package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/mousto-pos/internal/application/dto"
	"github.com/jhoicas/mousto-pos/internal/application/ports"
	"github.com/jhoicas/mousto-pos/internal/domain"
	"github.com/jhoicas/mousto-pos/internal/domain/entity"
	"github.com/jhoicas/mousto-pos/internal/domain/repository"
)

// CategoryUseCase catálogo de categorías.
type CategoryUseCase struct {
	repo      repository.CategoryRepository
	publisher ports.ChangePublisher
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository, publisher ports.ChangePublisher) *CategoryUseCase {
	return &CategoryUseCase{repo: repo, publisher: publisher}
}

// List categorías ordenadas por nombre.
func (uc *CategoryUseCase) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.CategoryResponse{ID: c.ID, Name: c.Name})
	}
	return out, nil
}

// Create crea una categoría. Nombre duplicado -> ErrDuplicate.
func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || len(name) > 100 {
		return nil, domain.ErrInvalidInput
	}
	c := &entity.Category{ID: uuid.New().String(), Name: name, CreatedAt: time.Now()}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	uc.publisher.Publish(ctx, ports.ChangeEvent{
		Table: ports.TableCategories, Type: ports.ChangeInsert, RecordID: c.ID, At: c.CreatedAt,
	})
	return &dto.CategoryResponse{ID: c.ID, Name: c.Name}, nil
}
