package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/mousto-pos/internal/application/analytics"
	"github.com/jhoicas/mousto-pos/internal/application/dto"
	appinv "github.com/jhoicas/mousto-pos/internal/application/inventory"
	"github.com/jhoicas/mousto-pos/internal/application/usecase"
)

// ProductHandler catálogo, reaprovisionamiento puntual y exportación del inventario.
type ProductHandler struct {
	uc        *usecase.ProductUseCase
	movements *appinv.MovementUseCase
	reports   *analytics.ReportsUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase, movements *appinv.MovementUseCase, reports *analytics.ReportsUseCase) *ProductHandler {
	return &ProductHandler{uc: uc, movements: movements, reports: reports}
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        search            query  string  false  "Nombre o SKU"
// @Param        status            query  string  false  "all | low | out"
// @Param        category_id       query  string  false  "Categoría"
// @Param        include_archived  query  bool    false  "Incluir archivados"
// @Param        in_stock_only     query  bool    false  "Solo con stock (pantalla de venta)"
// @Success      200  {object}  dto.ProductListResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	var q dto.ProductListQuery
	if err := c.QueryParser(&q); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.List(c.UserContext(), q)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Export godoc
// @Summary      Exportar el inventario filtrado
// @Tags         products
// @Security     Bearer
// @Produce      application/pdf
// @Param        format  query  string  false  "pdf | xlsx"  default(pdf)
// @Success      200
// @Router       /api/products/export [get]
func (h *ProductHandler) Export(c *fiber.Ctx) error {
	var q dto.ProductListQuery
	if err := c.QueryParser(&q); err != nil {
		return invalidBody(c)
	}
	f, err := h.reports.ExportInventory(c.UserContext(), q, c.Query("format", "pdf"))
	if err != nil {
		return err
	}
	return sendFile(c, f)
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar producto (parcial)
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [patch]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Archive POST /api/products/:id/archive
func (h *ProductHandler) Archive(c *fiber.Ctx) error {
	return h.setArchived(c, true)
}

// Unarchive POST /api/products/:id/unarchive
func (h *ProductHandler) Unarchive(c *fiber.Ctx) error {
	return h.setArchived(c, false)
}

func (h *ProductHandler) setArchived(c *fiber.Ctx, archived bool) error {
	out, err := h.uc.SetArchived(c.UserContext(), GetUserID(c), c.Params("id"), archived)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Restock godoc
// @Summary      Reaprovisionar un producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.RestockRequest  true  "Cantidad y motivo"
// @Success      201   {object}  dto.MovementResponse
// @Router       /api/products/{id}/restock [post]
func (h *ProductHandler) Restock(c *fiber.Ctx) error {
	var in dto.RestockRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.movements.Restock(c.UserContext(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Delete godoc
// @Summary      Eliminar producto (solo admin, sin ventas ni movimientos)
// @Tags         products
// @Security     Bearer
// @Param        id   path  string  true  "ID del producto"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetUserID(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
