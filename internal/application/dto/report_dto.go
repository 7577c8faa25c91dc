package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesReportQuery filtros del reporte de ventas.
type SalesReportQuery struct {
	Search string `query:"search"`
	PageRequest
}

// SalesReportResponse página de ventas e ingreso total del conjunto filtrado.
type SalesReportResponse struct {
	Items        []SaleResponse  `json:"items"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	Page         PageResponse    `json:"page"`
}

// SynthesisRowDTO agregado de un producto en el período.
type SynthesisRowDTO struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	InQty       int             `json:"in_qty"`
	OutQty      int             `json:"out_qty"`
	Net         int             `json:"net"`
	Movements   int             `json:"movements"`
	OutValue    decimal.Decimal `json:"out_value"`
}

// SynthesisResponse reporte de síntesis de movimientos.
type SynthesisResponse struct {
	From          time.Time         `json:"from"`
	To            time.Time         `json:"to"`
	Rows          []SynthesisRowDTO `json:"rows"`
	TotalIn       int               `json:"total_in"`
	TotalOut      int               `json:"total_out"`
	TotalOutValue decimal.Decimal   `json:"total_out_value"`
}

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
type DashboardSummaryDTO struct {
	TotalItems       int64             `json:"total_items"` // unidades en stock
	StockValue       decimal.Decimal   `json:"stock_value"` // Σ cantidad × precio
	ProductCount     int               `json:"product_count"`
	CriticalCount    int               `json:"critical_count"`
	CriticalProducts []ProductResponse `json:"critical_products"`
	SalesHistory     []DailySalesDTO   `json:"sales_history"` // últimos 7 días, hoy al final
	TodaySales       decimal.Decimal   `json:"today_sales"`
	WeekSales        decimal.Decimal   `json:"week_sales"`
	GeneratedAt      time.Time         `json:"generated_at"`
}

// DailySalesDTO total vendido en un día.
type DailySalesDTO struct {
	Date  string          `json:"date"` // 2006-01-02
	Label string          `json:"label"`
	Total decimal.Decimal `json:"total"`
}

// ExportFile documento generado (PDF o Excel).
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// SynthesisQuery período del reporte de síntesis (formato 2006-01-02, vacío = por defecto).
type SynthesisQuery struct {
	From string `query:"from"`
	To   string `query:"to"`
}
