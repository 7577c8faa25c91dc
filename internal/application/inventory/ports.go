package inventory

import (
	"context"

	"github.com/jhoicas/mousto-pos/internal/domain/repository"
)

// TxRunner abre una unidad de trabajo: todo lo que fn escribe con esos repositorios
// (cantidades, movimientos, ventas) se confirma junto o se descarta junto.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
		saleRepo repository.SaleRepository,
	) error) error
}
