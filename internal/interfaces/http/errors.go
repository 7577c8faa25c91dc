package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/mousto-pos/internal/application/dto"
	"github.com/jhoicas/mousto-pos/internal/domain"
	"github.com/jhoicas/mousto-pos/pkg/logger"
)

type errorMapping struct {
	err     error
	status  int
	code    string
	message string
}

// Orden relevante: errores más específicos primero.
var errorMappings = []errorMapping{
	{domain.ErrEmptyCart, fiber.StatusBadRequest, "EMPTY_CART", "le panier est vide"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION", "données invalides"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED", "identifiants invalides"},
	{domain.ErrAccountDisabled, fiber.StatusForbidden, "ACCOUNT_DISABLED", "compte désactivé"},
	{domain.ErrSelfAction, fiber.StatusForbidden, "SELF_ACTION", "action impossible sur votre propre compte"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN", "accès refusé"},
	{domain.ErrUserNotFound, fiber.StatusNotFound, "NOT_FOUND", "utilisateur introuvable"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND", "ressource introuvable"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "DUPLICATE", "cet email est déjà utilisé"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE", "cette ressource existe déjà"},
	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK", "stock insuffisant"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT", "opération impossible dans l'état actuel"},
}

// ErrorHandler traduce errores de dominio a dto.ErrorResponse.
// Los errores internos se loguean y no se exponen.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: fiberCode(fe.Code), Message: fe.Message})
		}
		for _, m := range errorMappings {
			if errors.Is(err, m.err) {
				return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: withDetail(m, err)})
			}
		}
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("http: error interno")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "erreur interne"})
	}
}

// withDetail añade el contexto del error envuelto: "stock insuffisant: Riz (disponible 3)".
func withDetail(m errorMapping, err error) string {
	if err == m.err {
		return m.message
	}
	detail := strings.TrimPrefix(err.Error(), m.err.Error()+": ")
	if detail == err.Error() {
		return m.message
	}
	return m.message + ": " + detail
}

func fiberCode(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return "VALIDATION"
	case fiber.StatusUnauthorized:
		return "UNAUTHORIZED"
	case fiber.StatusForbidden:
		return "FORBIDDEN"
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusTooManyRequests:
		return "RATE_LIMITED"
	default:
		return "INTERNAL"
	}
}

// invalidBody respuesta uniforme para cuerpos JSON no parseables.
func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps de requête invalide"})
}

// sendFile descarga un documento generado.
func sendFile(c *fiber.Ctx, f *dto.ExportFile) error {
	c.Set(fiber.HeaderContentType, f.ContentType)
	c.Attachment(f.Filename)
	return c.Send(f.Data)
}
