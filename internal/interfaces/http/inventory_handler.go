package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/mousto-pos/internal/application/dto"
	appinv "github.com/jhoicas/mousto-pos/internal/application/inventory"
)

// InventoryHandler movimientos de stock, journal de auditoría y lista de reaprovisionamiento.
type InventoryHandler struct {
	movements     *appinv.MovementUseCase
	journal       *appinv.JournalUseCase
	replenishment *appinv.ReplenishmentUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	movements *appinv.MovementUseCase,
	journal *appinv.JournalUseCase,
	replenishment *appinv.ReplenishmentUseCase,
) *InventoryHandler {
	return &InventoryHandler{movements: movements, journal: journal, replenishment: replenishment}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de stock (entrada o salida)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "product_id, type (in|out), quantity, reason"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.movements.RegisterMovement(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Journal godoc
// @Summary      Journal de auditoría de stock
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        author_id  query  string  false  "Autor (all = todos)"
// @Param        page       query  int     false  "Página"  default(1)
// @Param        page_size  query  int     false  "Tamaño"  default(5)
// @Success      200  {object}  dto.JournalResponse
// @Router       /api/inventory/journal [get]
func (h *InventoryHandler) Journal(c *fiber.Ctx) error {
	var q dto.JournalQuery
	if err := c.QueryParser(&q); err != nil {
		return invalidBody(c)
	}
	out, err := h.journal.List(c.UserContext(), q)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Replenishment GET /api/inventory/replenishment — productos críticos con cantidad sugerida.
func (h *InventoryHandler) Replenishment(c *fiber.Ctx) error {
	out, err := h.replenishment.GenerateList(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(out)
}
