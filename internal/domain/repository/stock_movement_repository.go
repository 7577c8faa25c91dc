package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/mousto-pos/internal/domain/entity"
)

// MovementRecord movimiento unido al producto y al autor (lectura).
type MovementRecord struct {
	Movement    entity.StockMovement
	ProductName string
	UnitPrice   decimal.Decimal
	AuthorName  string // vacío si no tiene autor
}

// StockMovementRepository puerto de persistencia para StockMovement.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	// ListRecent últimos `limit` movimientos, más recientes primero.
	ListRecent(ctx context.Context, limit int) ([]MovementRecord, error)
	// ListBetween movimientos con created_at en [from, to].
	ListBetween(ctx context.Context, from, to time.Time) ([]MovementRecord, error)
}
