package http_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mousto-pos/internal/application/analytics"
	"github.com/jhoicas/mousto-pos/internal/application/dto"
	"github.com/jhoicas/mousto-pos/internal/domain"
	"github.com/jhoicas/mousto-pos/internal/domain/inventory"
	apphttp "github.com/jhoicas/mousto-pos/internal/interfaces/http"
	"github.com/jhoicas/mousto-pos/pkg/logger"
)

func errorApp(err error) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(logger.Nop())})
	app.Get("/", func(c *fiber.Ctx) error { return err })
	return app
}

func decodeError(t *testing.T, app *fiber.App) (int, dto.ErrorResponse) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var body dto.ErrorResponse
	require.NoError(t, decodeJSON(resp, &body))
	return resp.StatusCode, body
}

func TestErrorHandler_MapeaErroresDeDominio(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrEmptyCart, http.StatusBadRequest, "EMPTY_CART"},
		{domain.ErrInvalidInput, http.StatusBadRequest, "VALIDATION"},
		{domain.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{domain.ErrAccountDisabled, http.StatusForbidden, "ACCOUNT_DISABLED"},
		{domain.ErrSelfAction, http.StatusForbidden, "SELF_ACTION"},
		{domain.ErrUserNotFound, http.StatusNotFound, "NOT_FOUND"},
		{domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{domain.ErrEmailAlreadyExists, http.StatusConflict, "DUPLICATE"},
		{domain.ErrInsufficientStock, http.StatusConflict, "INSUFFICIENT_STOCK"},
		{domain.ErrConflict, http.StatusConflict, "CONFLICT"},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			status, body := decodeError(t, errorApp(fmt.Errorf("capa: %w", tc.err)))
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, body.Code)
		})
	}
}

func TestErrorHandler_IncluyeDetalleDelErrorEnvuelto(t *testing.T) {
	err := fmt.Errorf("%w: Riz (disponible 3)", domain.ErrInsufficientStock)
	_, body := decodeError(t, errorApp(err))
	assert.Equal(t, "stock insuffisant: Riz (disponible 3)", body.Message)
}

func TestErrorHandler_DetallesDeDominioEnFrances(t *testing.T) {
	_, err := inventory.BuildCart([]inventory.CartItem{{ProductID: "p1", Quantity: 0}}, nil)
	_, body := decodeError(t, errorApp(err))
	assert.Equal(t, "données invalides: quantité doit être >= 1", body.Message)

	_, err = inventory.BuildCart([]inventory.CartItem{{ProductID: "p1", Quantity: 1}}, nil)
	_, body = decodeError(t, errorApp(err))
	assert.Equal(t, "ressource introuvable: produit p1", body.Message)

	_, _, err = analytics.ParsePeriod(dto.SynthesisQuery{From: "hier"}, time.Now())
	_, body = decodeError(t, errorApp(err))
	assert.Equal(t, `données invalides: date de début "hier"`, body.Message)

	_, _, err = analytics.ParsePeriod(dto.SynthesisQuery{From: "2026-03-10", To: "2026-03-01"}, time.Now())
	_, body = decodeError(t, errorApp(err))
	assert.Equal(t, "données invalides: date de début postérieure à la date de fin", body.Message)

	_, err = inventory.ParseStockFilter("bientot")
	_, body = decodeError(t, errorApp(err))
	assert.Equal(t, `données invalides: filtre de stock inconnu "bientot"`, body.Message)
}

func TestErrorHandler_ErrorSinEnvolver_MensajeBase(t *testing.T) {
	_, body := decodeError(t, errorApp(domain.ErrEmptyCart))
	assert.Equal(t, "le panier est vide", body.Message)
}

func TestErrorHandler_ErrorInterno_NoExponeDetalle(t *testing.T) {
	status, body := decodeError(t, errorApp(errors.New("pq: password authentication failed")))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL", body.Code)
	assert.NotContains(t, body.Message, "password")
}

func TestErrorHandler_FiberError(t *testing.T) {
	status, body := decodeError(t, errorApp(fiber.ErrNotFound))
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body.Code)
}
