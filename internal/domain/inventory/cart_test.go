package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mousto-pos/internal/domain"
	"github.com/jhoicas/mousto-pos/internal/domain/entity"
	"github.com/jhoicas/mousto-pos/internal/domain/inventory"
)

func product(id, name string, qty int, price int64) *entity.Product {
	return &entity.Product{ID: id, Name: name, Quantity: qty, MinThreshold: 5, UnitPrice: decimal.NewFromInt(price)}
}

func TestCart_AddIncrementaHastaElStock(t *testing.T) {
	cart := inventory.NewCart()
	riz := product("p1", "Riz 25kg", 2, 250000)

	require.NoError(t, cart.Add(riz))
	require.NoError(t, cart.Add(riz))

	err := cart.Add(riz)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock, "la tercera unidad supera el stock de 2")

	lines := cart.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestCart_AddProductoSinStock(t *testing.T) {
	cart := inventory.NewCart()
	err := cart.Add(product("p1", "Huile", 0, 1000))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 0, cart.Len())
}

func TestCart_UpdateQty(t *testing.T) {
	cart := inventory.NewCart()
	require.NoError(t, cart.Add(product("p1", "Sucre", 3, 5000)))

	require.NoError(t, cart.UpdateQty("p1", 2))
	assert.Equal(t, 3, cart.Lines()[0].Quantity)

	// Por encima del stock: rechazado y sin cambios
	assert.ErrorIs(t, cart.UpdateQty("p1", 1), domain.ErrInsufficientStock)
	assert.Equal(t, 3, cart.Lines()[0].Quantity)

	// Por debajo de 1: se fija en 1
	require.NoError(t, cart.UpdateQty("p1", -10))
	assert.Equal(t, 1, cart.Lines()[0].Quantity)

	assert.ErrorIs(t, cart.UpdateQty("desconocido", 1), domain.ErrNotFound)
}

func TestCart_RemoveYTotal(t *testing.T) {
	cart := inventory.NewCart()
	a := product("a", "Savon", 10, 1500)
	b := product("b", "Lait", 10, 12000)
	require.NoError(t, cart.Add(a))
	require.NoError(t, cart.Add(a))
	require.NoError(t, cart.Add(b))

	assert.True(t, decimal.NewFromInt(15000).Equal(cart.Total()), "2×1500 + 1×12000")
	assert.Equal(t, 3, cart.Units())

	cart.Remove("b")
	assert.Equal(t, 1, cart.Len())
	assert.True(t, decimal.NewFromInt(3000).Equal(cart.Total()))

	cart.Remove("no-existe")
	assert.Equal(t, 1, cart.Len())
}

func TestBuildCart(t *testing.T) {
	products := map[string]*entity.Product{
		"p1": product("p1", "Riz", 10, 1000),
		"p2": product("p2", "Huile", 1, 3000),
	}
	archived := product("p3", "Ancien", 10, 1)
	archived.IsArchived = true
	products["p3"] = archived

	t.Run("fusiona ids repetidos", func(t *testing.T) {
		cart, err := inventory.BuildCart([]inventory.CartItem{
			{ProductID: "p1", Quantity: 2},
			{ProductID: "p2", Quantity: 1},
			{ProductID: "p1", Quantity: 3},
		}, products)
		require.NoError(t, err)
		lines := cart.Lines()
		require.Len(t, lines, 2)
		assert.Equal(t, "p1", lines[0].ProductID)
		assert.Equal(t, 5, lines[0].Quantity)
		assert.True(t, decimal.NewFromInt(8000).Equal(cart.Total()))
	})

	t.Run("vacío", func(t *testing.T) {
		_, err := inventory.BuildCart(nil, products)
		assert.ErrorIs(t, err, domain.ErrEmptyCart)
	})

	t.Run("cantidad inválida", func(t *testing.T) {
		_, err := inventory.BuildCart([]inventory.CartItem{{ProductID: "p1", Quantity: 0}}, products)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("producto desconocido o archivado", func(t *testing.T) {
		_, err := inventory.BuildCart([]inventory.CartItem{{ProductID: "zz", Quantity: 1}}, products)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		_, err = inventory.BuildCart([]inventory.CartItem{{ProductID: "p3", Quantity: 1}}, products)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("stock insuficiente acumulado", func(t *testing.T) {
		_, err := inventory.BuildCart([]inventory.CartItem{
			{ProductID: "p2", Quantity: 1},
			{ProductID: "p2", Quantity: 1},
		}, products)
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	})
}
