package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/mousto-pos/internal/domain/entity"
)

// SaleRecord venta unida al nombre del producto (lectura).
type SaleRecord struct {
	Sale        entity.Sale
	ProductName string
}

// SaleFilter búsqueda por nombre de producto o vendedor.
type SaleFilter struct {
	Search string
	Limit  int // <= 0 sin límite (exportaciones)
	Offset int
}

// SaleRepository puerto de persistencia para Sale.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id string) (*SaleRecord, error)
	ListByCheckout(ctx context.Context, checkoutID string) ([]SaleRecord, error)
	// List ventas más recientes primero y el total de filas que cumplen el filtro.
	List(ctx context.Context, filter SaleFilter) ([]SaleRecord, int, error)
	// Revenue suma total_price de todas las ventas que cumplen la búsqueda.
	Revenue(ctx context.Context, search string) (decimal.Decimal, error)
}
