package inventory_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mousto-pos/internal/domain/entity"
	"github.com/jhoicas/mousto-pos/internal/domain/inventory"
)

func TestSynthesize_AgrupaPorProducto(t *testing.T) {
	price := decimal.NewFromInt(2000)
	facts := []inventory.MovementFact{
		{ProductID: "b", ProductName: "Sucre", UnitPrice: price, Type: entity.MovementIn, Quantity: 10},
		{ProductID: "a", ProductName: "Riz", UnitPrice: decimal.NewFromInt(1000), Type: entity.MovementOut, Quantity: 3},
		{ProductID: "b", ProductName: "Sucre", UnitPrice: price, Type: entity.MovementOut, Quantity: 4},
		{ProductID: "a", ProductName: "Riz", UnitPrice: decimal.NewFromInt(1000), Type: entity.MovementIn, Quantity: 1},
	}

	s := inventory.Synthesize(facts)
	require.Len(t, s.Rows, 2)

	riz := s.Rows[0]
	assert.Equal(t, "Riz", riz.ProductName, "ordenado por nombre")
	assert.Equal(t, 1, riz.InQty)
	assert.Equal(t, 3, riz.OutQty)
	assert.Equal(t, -2, riz.Net)
	assert.Equal(t, 2, riz.Movements)
	assert.True(t, decimal.NewFromInt(3000).Equal(riz.OutValue))

	sucre := s.Rows[1]
	assert.Equal(t, 6, sucre.Net)
	assert.True(t, decimal.NewFromInt(8000).Equal(sucre.OutValue))

	assert.Equal(t, 11, s.TotalIn)
	assert.Equal(t, 7, s.TotalOut)
	assert.True(t, decimal.NewFromInt(11000).Equal(s.TotalOutValue))
}

func TestSynthesize_SinMovimientos(t *testing.T) {
	s := inventory.Synthesize(nil)
	assert.Empty(t, s.Rows)
	assert.True(t, s.TotalOutValue.IsZero())
}

func TestDailySeries_CompletaConCeros(t *testing.T) {
	// Miércoles 15 de octubre de 2025
	now := time.Date(2025, 10, 15, 18, 30, 0, 0, time.UTC)
	totals := map[string]decimal.Decimal{
		"2025-10-15": decimal.NewFromInt(5000),
		"2025-10-09": decimal.NewFromInt(700),
		"2025-10-01": decimal.NewFromInt(99), // fuera de la ventana
	}

	series := inventory.DailySeries(now, 7, totals)
	require.Len(t, series, 7)

	assert.Equal(t, "2025-10-09", series[0].Date.Format(inventory.DayKeyLayout))
	assert.Equal(t, "jeu.", series[0].Label)
	assert.True(t, decimal.NewFromInt(700).Equal(series[0].Total))

	assert.True(t, series[3].Total.IsZero())

	last := series[6]
	assert.Equal(t, "2025-10-15", last.Date.Format(inventory.DayKeyLayout))
	assert.Equal(t, "mer.", last.Label)
	assert.True(t, decimal.NewFromInt(5000).Equal(last.Total))
}
