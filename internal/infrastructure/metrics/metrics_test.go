package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveCheckout_AcumulaContadores(t *testing.T) {
	m := New()
	m.ObserveCheckout(2, 5, decimal.NewFromInt(150000))
	m.ObserveCheckout(1, 1, decimal.NewFromInt(25000))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.checkouts))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.checkoutLines))
	assert.Equal(t, 6.0, testutil.ToFloat64(m.checkoutUnits))
	assert.Equal(t, 175000.0, testutil.ToFloat64(m.checkoutRevenue))
}

func TestObserveCheckoutFailure_PorMotivo(t *testing.T) {
	m := New()
	m.ObserveCheckoutFailure("insufficient_stock")
	m.ObserveCheckoutFailure("insufficient_stock")
	m.ObserveCheckoutFailure("empty_cart")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.checkoutFailures.WithLabelValues("insufficient_stock")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.checkoutFailures.WithLabelValues("empty_cart")))
}

func TestRequestFinished_RutaVaciaEsUnmatched(t *testing.T) {
	m := New()
	m.RequestStarted()
	m.RequestFinished("get", "", 404, 10*time.Millisecond)

	assert.Equal(t, 0.0, testutil.ToFloat64(m.httpInFlight))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "unmatched", "404")))
}

func TestObserveJob_EtiquetaExito(t *testing.T) {
	m := New()
	m.ObserveJob("low_stock", nil, time.Second)
	m.ObserveJob("low_stock", errors.New("db"), time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.jobRuns.WithLabelValues("low_stock", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.jobRuns.WithLabelValues("low_stock", "false")))
}

func TestHandler_ExponeMetricas(t *testing.T) {
	m := New()
	m.SetRealtimeClients(3)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "mousto_realtime_clients 3")
}
