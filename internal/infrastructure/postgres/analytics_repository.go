package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/mousto-pos/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de agregación para el dashboard.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// GetStockSummary unidades, valor y número de productos no archivados.
// COALESCE devuelve cero con catálogo vacío.
func (r *AnalyticsRepo) GetStockSummary(ctx context.Context) (repository.StockSummary, error) {
	const query = `
	SELECT
	    COALESCE(SUM(quantity),              0) AS total_items,
	    COALESCE(SUM(quantity * unit_price), 0) AS stock_value,
	    COUNT(*)                                AS products
	FROM products
	WHERE NOT is_archived`

	var s repository.StockSummary
	if err := r.q.QueryRow(ctx, query).Scan(&s.TotalItems, &s.StockValue, &s.Products); err != nil {
		return repository.StockSummary{}, fmt.Errorf("analytics.GetStockSummary: %w", err)
	}
	return s, nil
}

// GetDailySales total vendido por día en [from, to). Los días sin ventas no aparecen.
// El día se corta en la zona de from, no en la TimeZone de la sesión.
func (r *AnalyticsRepo) GetDailySales(ctx context.Context, from, to time.Time) (map[string]decimal.Decimal, error) {
	const query = `
	SELECT
	    to_char(date_trunc('day', created_at AT TIME ZONE $3), 'YYYY-MM-DD') AS day,
	    SUM(total_price)                                                     AS total
	FROM sales
	WHERE created_at >= $1
	  AND created_at <  $2
	GROUP BY day`

	rows, err := r.q.Query(ctx, query, from, to, pgZone(from))
	if err != nil {
		return nil, fmt.Errorf("analytics.GetDailySales: %w", err)
	}
	defer rows.Close()

	out := make(map[string]decimal.Decimal)
	for rows.Next() {
		var day string
		var total decimal.Decimal
		if err := rows.Scan(&day, &total); err != nil {
			return nil, fmt.Errorf("analytics.GetDailySales scan: %w", err)
		}
		out[day] = total
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("analytics.GetDailySales rows: %w", err)
	}
	return out, nil
}
