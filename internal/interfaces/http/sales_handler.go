package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/mousto-pos/internal/application/dto"
	"github.com/jhoicas/mousto-pos/internal/application/sales"
)

// SalesHandler carrito, validación y recibos PDF.
type SalesHandler struct {
	uc *sales.CheckoutUseCase
}

func NewSalesHandler(uc *sales.CheckoutUseCase) *SalesHandler {
	return &SalesHandler{uc: uc}
}

// Quote godoc
// @Summary      Calcular el carrito contra el stock actual (sin escrituras)
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.QuoteRequest  true  "Líneas del carrito y edición opcional"
// @Success      200   {object}  dto.QuoteResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales/quote [post]
func (h *SalesHandler) Quote(c *fiber.Ctx) error {
	var in dto.QuoteRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Quote(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Checkout godoc
// @Summary      Validar el carrito
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CheckoutRequest  true  "Líneas del carrito"
// @Success      201   {object}  dto.CheckoutResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales/checkout [post]
func (h *SalesHandler) Checkout(c *fiber.Ctx) error {
	var in dto.CheckoutRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Checkout(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// CheckoutReceipt GET /api/sales/checkouts/:id/receipt — factura PDF del checkout.
func (h *SalesHandler) CheckoutReceipt(c *fiber.Ctx) error {
	f, err := h.uc.CheckoutReceipt(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return sendFile(c, f)
}

// SaleReceipt GET /api/sales/:id/receipt — recibo PDF de una línea de venta.
func (h *SalesHandler) SaleReceipt(c *fiber.Ctx) error {
	f, err := h.uc.SaleReceipt(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return sendFile(c, f)
}
