package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/mousto-pos/internal/domain/entity"
	"github.com/jhoicas/mousto-pos/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación sobre PostgreSQL (usable con pool o tx).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento de stock.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, product_id, type, quantity, reason, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, m.ID, m.ProductID, string(m.Type), m.Quantity, m.Reason, m.CreatedBy, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

const movementRecordQuery = `
	SELECT m.id, m.product_id, m.type, m.quantity, m.reason, m.created_by, m.created_at,
		p.name, p.unit_price,
		COALESCE(trim(pr.firstname || ' ' || pr.lastname), '')
	FROM stock_movements m
	JOIN products p ON p.id = m.product_id
	LEFT JOIN profiles pr ON pr.id = m.created_by`

// ListRecent últimos movimientos con producto y autor.
func (r *StockMovementRepo) ListRecent(ctx context.Context, limit int) ([]repository.MovementRecord, error) {
	return r.list(ctx, movementRecordQuery+` ORDER BY m.created_at DESC, m.id LIMIT $1`, limit)
}

// ListBetween movimientos del período [from, to].
func (r *StockMovementRepo) ListBetween(ctx context.Context, from, to time.Time) ([]repository.MovementRecord, error) {
	return r.list(ctx, movementRecordQuery+` WHERE m.created_at BETWEEN $1 AND $2 ORDER BY m.created_at`, from, to)
}

func (r *StockMovementRepo) list(ctx context.Context, query string, args ...any) ([]repository.MovementRecord, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	out := make([]repository.MovementRecord, 0)
	for rows.Next() {
		var rec repository.MovementRecord
		var movType string
		m := &rec.Movement
		if err := rows.Scan(&m.ID, &m.ProductID, &movType, &m.Quantity, &m.Reason, &m.CreatedBy, &m.CreatedAt,
			&rec.ProductName, &rec.UnitPrice, &rec.AuthorName); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		m.Type = entity.MovementType(movType)
		out = append(out, rec)
	}
	return out, rows.Err()
}
