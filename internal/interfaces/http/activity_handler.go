package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/mousto-pos/internal/application/dto"
	"github.com/jhoicas/mousto-pos/internal/application/usecase"
)

// ActivityHandler journal de actividad (admin) y notificaciones propias.
type ActivityHandler struct {
	activity      *usecase.ActivityUseCase
	notifications *usecase.NotificationUseCase
}

func NewActivityHandler(activity *usecase.ActivityUseCase, notifications *usecase.NotificationUseCase) *ActivityHandler {
	return &ActivityHandler{activity: activity, notifications: notifications}
}

// ListActivity godoc
// @Summary      Journal de actividad
// @Tags         activity
// @Security     Bearer
// @Produce      json
// @Param        search     query  string  false  "Acción o autor"
// @Param        action     query  string  false  "Acción exacta (all = todas)"
// @Param        page       query  int     false  "Página"  default(1)
// @Param        page_size  query  int     false  "Tamaño"  default(6)
// @Success      200  {object}  dto.ActivityListResponse
// @Router       /api/activity [get]
func (h *ActivityHandler) ListActivity(c *fiber.Ctx) error {
	var q dto.ActivityQuery
	if err := c.QueryParser(&q); err != nil {
		return invalidBody(c)
	}
	out, err := h.activity.List(c.UserContext(), q)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ListNotifications GET /api/notifications — últimas 20 y no leídas.
func (h *ActivityHandler) ListNotifications(c *fiber.Ctx) error {
	out, err := h.notifications.List(c.UserContext(), GetUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// MarkRead PATCH /api/notifications/:id/read
func (h *ActivityHandler) MarkRead(c *fiber.Ctx) error {
	if err := h.notifications.MarkRead(c.UserContext(), GetUserID(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// MarkAllRead POST /api/notifications/read-all
func (h *ActivityHandler) MarkAllRead(c *fiber.Ctx) error {
	if err := h.notifications.MarkAllRead(c.UserContext(), GetUserID(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
