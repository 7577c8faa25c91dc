package repository

import (
	"context"

	"github.com/jhoicas/mousto-pos/internal/domain/entity"
	"github.com/jhoicas/mousto-pos/internal/domain/inventory"
)

// ProductFilter criterios del listado de inventario.
type ProductFilter struct {
	Search          string // nombre o SKU, sin distinguir mayúsculas
	Status          inventory.StockFilter
	CategoryID      string
	IncludeArchived bool
	InStockOnly     bool // pantalla de venta: cantidad > 0
}

// ProductRepository puerto de persistencia para Product.
// GetByID / GetBySKU devuelven (nil, nil) si no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	UpdateQuantity(ctx context.Context, id string, quantity int) error
	// SetArchived solo toca is_archived y updated_at. Devuelve (nil, nil) si no existe.
	SetArchived(ctx context.Context, id string, archived bool) (*entity.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
	// ListCritical productos no archivados con cantidad <= umbral, por cantidad ascendente.
	ListCritical(ctx context.Context) ([]*entity.Product, error)
	// Delete devuelve domain.ErrConflict si el producto tiene ventas o movimientos.
	Delete(ctx context.Context, id string) error
}
