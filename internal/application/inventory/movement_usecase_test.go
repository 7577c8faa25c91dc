package inventory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mousto-pos/internal/application/apptest"
	"github.com/jhoicas/mousto-pos/internal/application/dto"
	"github.com/jhoicas/mousto-pos/internal/application/inventory"
	"github.com/jhoicas/mousto-pos/internal/domain"
	"github.com/jhoicas/mousto-pos/internal/domain/entity"
)

type fixture struct {
	store     *apptest.Store
	tx        *apptest.TxRunner
	activity  *apptest.ActivitySpy
	notifier  *apptest.NotifierSpy
	publisher *apptest.PublisherSpy
	uc        *inventory.MovementUseCase
}

func newFixture() *fixture {
	store := apptest.NewStore()
	f := &fixture{
		store:     store,
		tx:        &apptest.TxRunner{Store: store},
		activity:  &apptest.ActivitySpy{},
		notifier:  &apptest.NotifierSpy{},
		publisher: &apptest.PublisherSpy{},
	}
	f.uc = inventory.NewMovementUseCase(f.tx, f.activity, f.notifier, f.publisher)
	return f
}

func (f *fixture) product(id, name string, qty, threshold int) {
	f.store.AddProduct(entity.Product{
		ID:           id,
		Name:         name,
		Quantity:     qty,
		MinThreshold: threshold,
		UnitPrice:    decimal.NewFromInt(1000),
	})
}

func TestRegisterMovement_Entrada_SumaStock(t *testing.T) {
	f := newFixture()
	f.product("p1", "Riz", 10, 5)

	out, err := f.uc.RegisterMovement(context.Background(), "u1", dto.RegisterMovementRequest{
		ProductID: "p1", Type: "in", Quantity: 4, Reason: "Livraison",
	})
	require.NoError(t, err)
	assert.Equal(t, 14, out.StockAfter)
	require.NotNil(t, out.CreatedBy)
	assert.Equal(t, "u1", *out.CreatedBy)

	p, _ := f.store.Product("p1")
	assert.Equal(t, 14, p.Quantity)
	require.Len(t, f.store.Movements(), 1)
	assert.Contains(t, f.publisher.Tables(), "stock_movements")
	assert.Contains(t, f.publisher.Tables(), "products")
}

func TestRegisterMovement_SalidaMayorAlStock_RollbackSinCambios(t *testing.T) {
	f := newFixture()
	f.product("p1", "Riz", 3, 1)

	_, err := f.uc.RegisterMovement(context.Background(), "u1", dto.RegisterMovementRequest{
		ProductID: "p1", Type: "out", Quantity: 4, Reason: "Casse",
	})
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	p, _ := f.store.Product("p1")
	assert.Equal(t, 3, p.Quantity)
	assert.Empty(t, f.store.Movements())
	assert.Empty(t, f.publisher.Events)
}

func TestRegisterMovement_EntradasInvalidas(t *testing.T) {
	f := newFixture()
	f.product("p1", "Riz", 3, 1)
	ctx := context.Background()

	cases := []dto.RegisterMovementRequest{
		{ProductID: "p1", Type: "transfer", Quantity: 1, Reason: "x"},
		{ProductID: "p1", Type: "in", Quantity: 0, Reason: "x"},
		{ProductID: "p1", Type: "in", Quantity: 1, Reason: "   "},
		{ProductID: "", Type: "in", Quantity: 1, Reason: "x"},
	}
	for _, in := range cases {
		_, err := f.uc.RegisterMovement(ctx, "u1", in)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput), "%+v", in)
	}

	_, err := f.uc.RegisterMovement(ctx, "u1", dto.RegisterMovementRequest{ProductID: "nope", Type: "in", Quantity: 1, Reason: "x"})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestRegisterMovement_FalloAlInsertar_RestauraCantidad(t *testing.T) {
	f := newFixture()
	f.product("p1", "Riz", 10, 1)
	f.store.FailMovementCreate = errors.New("db caída")

	_, err := f.uc.RegisterMovement(context.Background(), "u1", dto.RegisterMovementRequest{
		ProductID: "p1", Type: "out", Quantity: 2, Reason: "Casse",
	})
	require.Error(t, err)

	p, _ := f.store.Product("p1")
	assert.Equal(t, 10, p.Quantity)
}

func TestRegisterMovement_CruceDeUmbral_NotificaUnaVez(t *testing.T) {
	f := newFixture()
	f.product("p1", "Huile", 7, 5)
	ctx := context.Background()

	_, err := f.uc.RegisterMovement(ctx, "u1", dto.RegisterMovementRequest{ProductID: "p1", Type: "out", Quantity: 1, Reason: "Casse"})
	require.NoError(t, err)
	assert.Equal(t, 0, f.notifier.Count(entity.NotificationLowStock))

	_, err = f.uc.RegisterMovement(ctx, "u1", dto.RegisterMovementRequest{ProductID: "p1", Type: "out", Quantity: 1, Reason: "Casse"})
	require.NoError(t, err)
	assert.Equal(t, 1, f.notifier.Count(entity.NotificationLowStock))

	// ya crítico: no vuelve a avisar
	_, err = f.uc.RegisterMovement(ctx, "u1", dto.RegisterMovementRequest{ProductID: "p1", Type: "out", Quantity: 1, Reason: "Casse"})
	require.NoError(t, err)
	assert.Equal(t, 1, f.notifier.Count(entity.NotificationLowStock))
}

func TestRestock_RegistraActividad(t *testing.T) {
	f := newFixture()
	f.product("p1", "Sucre", 0, 5)

	out, err := f.uc.Restock(context.Background(), "u1", "p1", dto.RestockRequest{Quantity: 12})
	require.NoError(t, err)
	assert.Equal(t, 12, out.StockAfter)
	assert.Equal(t, entity.ReasonRestock, out.Reason)
	assert.Equal(t, []string{entity.ActionRestockProduct}, f.activity.Actions())
	assert.Equal(t, 12, f.activity.Calls[0].Details["added"])
}

func TestLowStockMessage(t *testing.T) {
	title, msg := inventory.LowStockMessage(&entity.Product{Name: "Lait", Quantity: 0, MinThreshold: 5})
	assert.Equal(t, "Rupture de stock", title)
	assert.Contains(t, msg, "Lait est en rupture")

	title, msg = inventory.LowStockMessage(&entity.Product{Name: "Lait", Quantity: 2, MinThreshold: 5})
	assert.Equal(t, "Stock critique", title)
	assert.Contains(t, msg, "Lait est critique")
}

func TestJournal_FiltraPorAutorYPagina(t *testing.T) {
	f := newFixture()
	f.store.AddUser(entity.User{ID: "u1", Firstname: "Awa", Lastname: "Diallo", Role: entity.RoleAdmin, IsActive: true})
	f.product("p1", "Riz", 100, 5)
	ctx := context.Background()
	for i := 0; i < 7; i++ {
		_, err := f.uc.RegisterMovement(ctx, "u1", dto.RegisterMovementRequest{ProductID: "p1", Type: "out", Quantity: 1, Reason: "Casse"})
		require.NoError(t, err)
	}
	_, err := f.uc.RegisterMovement(ctx, "", dto.RegisterMovementRequest{ProductID: "p1", Type: "in", Quantity: 3, Reason: "Correction"})
	require.NoError(t, err)

	journal := inventory.NewJournalUseCase(&apptest.MovementRepo{Store: f.store})

	all, err := journal.List(ctx, dto.JournalQuery{})
	require.NoError(t, err)
	assert.Len(t, all.Items, 5)
	assert.Equal(t, 8, all.Page.Total)
	assert.Equal(t, 2, all.Page.TotalPages)
	assert.Equal(t, inventory.SystemAuthor, all.Items[0].Author)
	require.Len(t, all.Authors, 2)
	assert.Equal(t, "Awa Diallo", all.Authors[0].Name)
	assert.Equal(t, inventory.SystemAuthor, all.Authors[1].Name)
	assert.True(t, all.Items[1].Value.Equal(decimal.NewFromInt(1000)))

	byAuthor, err := journal.List(ctx, dto.JournalQuery{AuthorID: "u1", PageRequest: dto.PageRequest{Page: 2}})
	require.NoError(t, err)
	assert.Equal(t, 7, byAuthor.Page.Total)
	assert.Len(t, byAuthor.Items, 2)
	for _, it := range byAuthor.Items {
		assert.Equal(t, "Awa Diallo", it.Author)
	}
}

func TestReplenishment_PriorizaRupturas(t *testing.T) {
	f := newFixture()
	f.product("p1", "Riz", 3, 5)
	f.product("p2", "Huile", 0, 4)
	f.product("p3", "Sel", 50, 5)
	f.store.AddProduct(entity.Product{ID: "p4", Name: "Savon", Quantity: 1, MinThreshold: 5, UnitPrice: decimal.NewFromInt(500), IsArchived: true})
	ctx := context.Background()
	_, err := f.uc.RegisterMovement(ctx, "u1", dto.RegisterMovementRequest{ProductID: "p1", Type: "out", Quantity: 1, Reason: "Casse"})
	require.NoError(t, err)

	uc := inventory.NewReplenishmentUseCase(&apptest.ProductRepo{Store: f.store}, &apptest.MovementRepo{Store: f.store})
	list, err := uc.GenerateList(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, "p2", list[0].ProductID)
	assert.Equal(t, 1, list[0].Priority)
	assert.Equal(t, 6, list[0].IdealStock)
	assert.Equal(t, 6, list[0].SuggestedQty)
	assert.True(t, list[0].EstimatedCost.Equal(decimal.NewFromInt(6000)))

	assert.Equal(t, "p1", list[1].ProductID)
	assert.Equal(t, 1, list[1].UnitsSold30d)
	assert.Equal(t, 6, list[1].SuggestedQty) // ideal 8 - stock 2
}

func TestIdealStock(t *testing.T) {
	assert.Equal(t, 8, inventory.IdealStock(5))
	assert.Equal(t, 1, inventory.IdealStock(0))
	assert.Equal(t, 2, inventory.IdealStock(1))
}

func TestLowStockSweep(t *testing.T) {
	f := newFixture()
	f.product("p1", "Riz", 0, 5)
	f.product("p2", "Huile", 3, 5)
	f.product("p3", "Sel", 30, 5)

	n, err := inventory.NewLowStockSweep(&apptest.ProductRepo{Store: f.store}, f.notifier).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, f.notifier.Notices, 1)
	assert.Equal(t, entity.NotificationWarning, f.notifier.Notices[0].Kind)
	assert.Contains(t, f.notifier.Notices[0].Message, "2 produit(s)")
	assert.Contains(t, f.notifier.Notices[0].Message, "dont 1 en rupture")
}

func TestApplyInTx_FechaDelMovimiento(t *testing.T) {
	f := newFixture()
	f.product("p1", "Riz", 5, 1)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	p := &entity.Product{ID: "p1", Name: "Riz", Quantity: 5, MinThreshold: 1}

	mov, err := f.uc.ApplyInTx(context.Background(), &apptest.ProductRepo{Store: f.store}, &apptest.MovementRepo{Store: f.store},
		p, entity.MovementOut, 2, entity.ReasonSale, "u1", now)
	require.NoError(t, err)
	assert.Equal(t, now, mov.CreatedAt)
	assert.Equal(t, 3, p.Quantity)
	assert.Equal(t, -2, mov.Delta())
}
