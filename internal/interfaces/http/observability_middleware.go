package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/mousto-pos/pkg/logger"
)

// httpMetrics lo implementa *metrics.Metrics.
type httpMetrics interface {
	RequestStarted()
	RequestFinished(method, route string, status int, d time.Duration)
}

// RequestLogger una línea por petición: method, path, status, latency, request_id, user_id.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := handled(c, c.Next())
		status := c.Response().StatusCode()
		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
		} else if status >= fiber.StatusBadRequest {
			ev = log.Warn()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
			Str("user_id", GetUserID(c)).
			Msg("http request")
		return err
	}
}

// Metrics instrumenta cada petición con la ruta registrada (no la URL) como etiqueta.
func Metrics(m httpMetrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		m.RequestStarted()
		err := handled(c, c.Next())
		m.RequestFinished(c.Method(), c.Route().Path, c.Response().StatusCode(), time.Since(start))
		return err
	}
}

// handled escribe la respuesta de error en el momento para que el status sea el definitivo.
func handled(c *fiber.Ctx, err error) error {
	if err == nil {
		return nil
	}
	return c.App().Config().ErrorHandler(c, err)
}
