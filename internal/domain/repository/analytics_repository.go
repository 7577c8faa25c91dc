package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// StockSummary agregados del stock de productos no archivados.
type StockSummary struct {
	TotalItems int64
	StockValue decimal.Decimal // Σ cantidad × precio unitario
	Products   int
}

// AnalyticsRepository consultas de solo lectura para el dashboard.
type AnalyticsRepository interface {
	GetStockSummary(ctx context.Context) (StockSummary, error)
	// GetDailySales total vendido por día (clave "2006-01-02") en [from, to).
	GetDailySales(ctx context.Context, from, to time.Time) (map[string]decimal.Decimal, error)
}
