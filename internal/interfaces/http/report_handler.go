package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/mousto-pos/internal/application/analytics"
	"github.com/jhoicas/mousto-pos/internal/application/dto"
)

// ReportHandler historial de ventas, síntesis de movimientos, exportaciones y dashboard.
type ReportHandler struct {
	reports   *analytics.ReportsUseCase
	dashboard *analytics.DashboardUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(reports *analytics.ReportsUseCase, dashboard *analytics.DashboardUseCase) *ReportHandler {
	return &ReportHandler{reports: reports, dashboard: dashboard}
}

// Sales godoc
// @Summary      Historial de ventas paginado
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        search     query  string  false  "Producto o vendedor"
// @Param        page       query  int     false  "Página"  default(1)
// @Param        page_size  query  int     false  "Tamaño"  default(6)
// @Success      200  {object}  dto.SalesReportResponse
// @Router       /api/reports/sales [get]
func (h *ReportHandler) Sales(c *fiber.Ctx) error {
	var q dto.SalesReportQuery
	if err := c.QueryParser(&q); err != nil {
		return invalidBody(c)
	}
	out, err := h.reports.SalesReport(c.UserContext(), q)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ExportSales GET /api/reports/sales/export?search=&format=pdf|xlsx
func (h *ReportHandler) ExportSales(c *fiber.Ctx) error {
	f, err := h.reports.ExportSales(c.UserContext(), c.Query("search"), c.Query("format", "pdf"))
	if err != nil {
		return err
	}
	return sendFile(c, f)
}

// Synthesis godoc
// @Summary      Síntesis de movimientos por producto
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "2006-01-02 (por defecto inicio de mes)"
// @Param        to    query  string  false  "2006-01-02 (por defecto hoy)"
// @Success      200  {object}  dto.SynthesisResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/synthesis [get]
func (h *ReportHandler) Synthesis(c *fiber.Ctx) error {
	var q dto.SynthesisQuery
	if err := c.QueryParser(&q); err != nil {
		return invalidBody(c)
	}
	out, err := h.reports.Synthesis(c.UserContext(), q)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ExportSynthesis GET /api/reports/synthesis/export?from=&to=&format=pdf|xlsx
func (h *ReportHandler) ExportSynthesis(c *fiber.Ctx) error {
	var q dto.SynthesisQuery
	if err := c.QueryParser(&q); err != nil {
		return invalidBody(c)
	}
	f, err := h.reports.ExportSynthesis(c.UserContext(), q, c.Query("format", "pdf"))
	if err != nil {
		return err
	}
	return sendFile(c, f)
}

// Dashboard devuelve el resumen de stock y ventas.
// GET /api/dashboard/summary
//
// Respuesta: DashboardSummaryDTO (total_items, stock_value, critical_products,
// sales_history[7], today_sales, week_sales).
// Las fechas se calculan en el servidor.
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	out, err := h.dashboard.GetSummary(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(out)
}
