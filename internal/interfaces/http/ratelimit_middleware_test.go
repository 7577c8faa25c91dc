package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/mousto-pos/internal/interfaces/http"
	"github.com/jhoicas/mousto-pos/pkg/logger"
)

func decodeJSON(resp *http.Response, v any) error {
	return json.NewDecoder(resp.Body).Decode(v)
}

func TestRateLimiter_AgotaRafagaPorClave(t *testing.T) {
	rl := apphttp.NewRateLimiter(0.001, 2, logger.Nop())

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"), "la tercera petición supera la ráfaga")
	assert.True(t, rl.Allow("10.0.0.2"), "otra IP tiene su propio cupo")
}

func TestRateLimiter_Handler_Retorna429(t *testing.T) {
	rl := apphttp.NewRateLimiter(0.001, 1, logger.Nop())
	app := fiber.New()
	app.Post("/login", rl.Handler(), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/login", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get("Retry-After"))

	var body map[string]string
	require.NoError(t, decodeJSON(resp, &body))
	assert.Equal(t, "RATE_LIMITED", body["code"])
}
