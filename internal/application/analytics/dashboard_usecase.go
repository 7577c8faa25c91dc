// Package analytics contiene los casos de uso de reportes de ventas, síntesis de movimientos
// y el dashboard del inventario.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/mousto-pos/internal/application/dto"
	"github.com/jhoicas/mousto-pos/internal/domain/entity"
	"github.com/jhoicas/mousto-pos/internal/domain/inventory"
	"github.com/jhoicas/mousto-pos/internal/domain/repository"
)

const dashboardHistoryDays = 7 // días del gráfico de ventas

// DashboardUseCase genera el resumen del stock y de las ventas recientes.
//
// Fuente de datos: AnalyticsRepository (consultas read-only) y ProductRepository para los críticos.
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	productRepo   repository.ProductRepository
	now           func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository, productRepo repository.ProductRepository) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo, productRepo: productRepo, now: time.Now}
}

// GetSummary construye el DashboardSummaryDTO.
//
// Tres llamadas en paralelo:
//  1. GetStockSummary             → TotalItems + StockValue + ProductCount
//  2. GetDailySales(7 días)       → SalesHistory + TodaySales + WeekSales
//  3. ListCritical                → CriticalProducts
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	now := uc.now()

	// Ventana: hace 6 días a las 00:00 – mañana a las 00:00
	today := inventory.StartOfDay(now)
	from := today.AddDate(0, 0, -(dashboardHistoryDays - 1))
	to := today.AddDate(0, 0, 1)

	type stockResult struct {
		summary repository.StockSummary
		err     error
	}
	type salesResult struct {
		totals map[string]decimal.Decimal
		err    error
	}
	type criticalResult struct {
		products []*entity.Product
		err      error
	}

	stockCh := make(chan stockResult, 1)
	salesCh := make(chan salesResult, 1)
	criticalCh := make(chan criticalResult, 1)

	go func() {
		s, err := uc.analyticsRepo.GetStockSummary(ctx)
		stockCh <- stockResult{s, err}
	}()
	go func() {
		totals, err := uc.analyticsRepo.GetDailySales(ctx, from, to)
		salesCh <- salesResult{totals, err}
	}()
	go func() {
		products, err := uc.productRepo.ListCritical(ctx)
		criticalCh <- criticalResult{products, err}
	}()

	stock := <-stockCh
	sales := <-salesCh
	critical := <-criticalCh

	if stock.err != nil {
		return nil, fmt.Errorf("dashboard: resumen de stock: %w", stock.err)
	}
	if sales.err != nil {
		return nil, fmt.Errorf("dashboard: ventas diarias: %w", sales.err)
	}
	if critical.err != nil {
		return nil, fmt.Errorf("dashboard: productos críticos: %w", critical.err)
	}

	series := inventory.DailySeries(now, dashboardHistoryDays, sales.totals)
	history := make([]dto.DailySalesDTO, 0, len(series))
	week := decimal.Zero
	for _, d := range series {
		history = append(history, dto.DailySalesDTO{
			Date:  d.Date.Format(inventory.DayKeyLayout),
			Label: d.Label,
			Total: d.Total,
		})
		week = week.Add(d.Total)
	}
	todaySales := decimal.Zero
	if len(series) > 0 {
		todaySales = series[len(series)-1].Total
	}

	return &dto.DashboardSummaryDTO{
		TotalItems:       stock.summary.TotalItems,
		StockValue:       stock.summary.StockValue,
		ProductCount:     stock.summary.Products,
		CriticalCount:    len(critical.products),
		CriticalProducts: dto.NewProductResponses(critical.products),
		SalesHistory:     history,
		TodaySales:       todaySales,
		WeekSales:        week,
		GeneratedAt:      now,
	}, nil
}
