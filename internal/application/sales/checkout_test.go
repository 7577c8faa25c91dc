package sales_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mousto-pos/internal/application/apptest"
	"github.com/jhoicas/mousto-pos/internal/application/dto"
	appinv "github.com/jhoicas/mousto-pos/internal/application/inventory"
	"github.com/jhoicas/mousto-pos/internal/application/ports"
	"github.com/jhoicas/mousto-pos/internal/application/sales"
	"github.com/jhoicas/mousto-pos/internal/domain"
	"github.com/jhoicas/mousto-pos/internal/domain/entity"
)

type fakeRenderer struct {
	last ports.Receipt
}

func (f *fakeRenderer) RenderReceipt(ctx context.Context, r ports.Receipt) ([]byte, error) {
	f.last = r
	return []byte("%PDF-fake"), nil
}

type fixture struct {
	store     *apptest.Store
	activity  *apptest.ActivitySpy
	notifier  *apptest.NotifierSpy
	publisher *apptest.PublisherSpy
	metrics   *apptest.MetricsSpy
	renderer  *fakeRenderer
	uc        *sales.CheckoutUseCase
}

func newFixture() *fixture {
	store := apptest.NewStore()
	f := &fixture{
		store:     store,
		activity:  &apptest.ActivitySpy{},
		notifier:  &apptest.NotifierSpy{},
		publisher: &apptest.PublisherSpy{},
		metrics:   &apptest.MetricsSpy{Revenue: decimal.Zero},
		renderer:  &fakeRenderer{},
	}
	tx := &apptest.TxRunner{Store: store}
	movements := appinv.NewMovementUseCase(tx, f.activity, f.notifier, f.publisher)
	f.uc = sales.NewCheckoutUseCase(tx,
		&apptest.ProductRepo{Store: store}, &apptest.SaleRepo{Store: store}, &apptest.UserRepo{Store: store},
		movements, f.activity, f.notifier, f.publisher, f.metrics, f.renderer,
		sales.StoreInfo{Name: "MOUSTO_LELOU", Currency: "FG"})

	store.AddUser(entity.User{ID: "v1", Firstname: "Moussa", Lastname: "Camara", Role: entity.RoleVendeur, IsActive: true})
	store.AddProduct(entity.Product{ID: "a", Name: "Riz 5kg", Quantity: 10, MinThreshold: 3, UnitPrice: decimal.NewFromInt(75000)})
	store.AddProduct(entity.Product{ID: "b", Name: "Huile 1L", Quantity: 4, MinThreshold: 3, UnitPrice: decimal.NewFromInt(25000)})
	return f
}

func TestQuote_NoEscribe(t *testing.T) {
	f := newFixture()
	q, err := f.uc.Quote(context.Background(), dto.QuoteRequest{Items: []dto.CartItemRequest{
		{ProductID: "a", Quantity: 2}, {ProductID: "b", Quantity: 1}, {ProductID: "a", Quantity: 1},
	}})
	require.NoError(t, err)
	require.Len(t, q.Items, 2)
	assert.Equal(t, 3, q.Items[0].Quantity)
	assert.Equal(t, 4, q.Units)
	assert.True(t, q.Total.Equal(decimal.NewFromInt(250000)))
	assert.Empty(t, f.store.Sales())
}

func TestQuote_AplicaEdicionDelVendedor(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	cart := []dto.CartItemRequest{{ProductID: "b", Quantity: 3}}

	// agregar desde un carrito vacío
	q, err := f.uc.Quote(ctx, dto.QuoteRequest{Edit: &dto.CartEditRequest{Action: dto.CartEditAdd, ProductID: "a"}})
	require.NoError(t, err)
	require.Len(t, q.Items, 1)
	assert.Equal(t, 1, q.Items[0].Quantity)

	q, err = f.uc.Quote(ctx, dto.QuoteRequest{Items: cart, Edit: &dto.CartEditRequest{Action: dto.CartEditAdd, ProductID: "b"}})
	require.NoError(t, err)
	assert.Equal(t, 4, q.Units)

	// stock de b = 4: una unidad más se rechaza
	_, err = f.uc.Quote(ctx, dto.QuoteRequest{Items: []dto.CartItemRequest{{ProductID: "b", Quantity: 4}},
		Edit: &dto.CartEditRequest{Action: dto.CartEditDelta, ProductID: "b", Delta: 1}})
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	// bajar por debajo de 1 deja 1
	q, err = f.uc.Quote(ctx, dto.QuoteRequest{Items: cart, Edit: &dto.CartEditRequest{Action: dto.CartEditDelta, ProductID: "b", Delta: -5}})
	require.NoError(t, err)
	assert.Equal(t, 1, q.Items[0].Quantity)

	q, err = f.uc.Quote(ctx, dto.QuoteRequest{Items: cart, Edit: &dto.CartEditRequest{Action: dto.CartEditRemove, ProductID: "b"}})
	require.NoError(t, err)
	assert.Empty(t, q.Items)
	assert.True(t, q.Total.IsZero())

	_, err = f.uc.Quote(ctx, dto.QuoteRequest{Items: cart, Edit: &dto.CartEditRequest{Action: dto.CartEditAdd, ProductID: "zz"}})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	_, err = f.uc.Quote(ctx, dto.QuoteRequest{Items: cart, Edit: &dto.CartEditRequest{Action: "vider", ProductID: "b"}})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	_, err = f.uc.Quote(ctx, dto.QuoteRequest{})
	assert.True(t, errors.Is(err, domain.ErrEmptyCart))
	assert.Empty(t, f.store.Sales())
}

func TestCheckout_CreaVentasYMovimientos(t *testing.T) {
	f := newFixture()
	out, err := f.uc.Checkout(context.Background(), "v1", dto.CheckoutRequest{Items: []dto.CartItemRequest{
		{ProductID: "b", Quantity: 2}, {ProductID: "a", Quantity: 3},
	}})
	require.NoError(t, err)

	assert.Equal(t, "Moussa Camara", out.SellerName)
	assert.True(t, out.Total.Equal(decimal.NewFromInt(275000)))
	require.Len(t, out.SaleIDs, 2)

	salesRows := f.store.Sales()
	require.Len(t, salesRows, 2)
	for _, s := range salesRows {
		assert.Equal(t, out.CheckoutID, s.CheckoutID)
		assert.Equal(t, "Moussa Camara", s.SellerName)
	}
	assert.True(t, salesRows[0].TotalPrice.Equal(decimal.NewFromInt(50000)))

	movs := f.store.Movements()
	require.Len(t, movs, 2)
	for _, m := range movs {
		assert.Equal(t, entity.MovementOut, m.Type)
		assert.Equal(t, entity.ReasonSale, m.Reason)
	}

	a, _ := f.store.Product("a")
	b, _ := f.store.Product("b")
	assert.Equal(t, 7, a.Quantity)
	assert.Equal(t, 2, b.Quantity)

	assert.Equal(t, []string{entity.ActionCheckout}, f.activity.Actions())
	assert.Equal(t, 1, f.notifier.Count(entity.NotificationSale))
	assert.Equal(t, 1, f.notifier.Count(entity.NotificationLowStock)) // b: 4 -> 2, umbral 3
	assert.Equal(t, 1, f.metrics.Checkouts)
	assert.Equal(t, 5, f.metrics.Units)
	assert.Contains(t, f.publisher.Tables(), ports.TableSales)
}

func TestCheckout_StockInsuficiente_TodoONada(t *testing.T) {
	f := newFixture()
	_, err := f.uc.Checkout(context.Background(), "v1", dto.CheckoutRequest{Items: []dto.CartItemRequest{
		{ProductID: "a", Quantity: 1}, {ProductID: "b", Quantity: 5},
	}})
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	assert.Empty(t, f.store.Sales())
	assert.Empty(t, f.store.Movements())
	a, _ := f.store.Product("a")
	assert.Equal(t, 10, a.Quantity)
	assert.Equal(t, []string{"insufficient_stock"}, f.metrics.Failures)
	assert.Empty(t, f.activity.Calls)
}

func TestCheckout_FalloAlInsertarVenta_Rollback(t *testing.T) {
	f := newFixture()
	f.store.FailSaleCreate = errors.New("db caída")
	_, err := f.uc.Checkout(context.Background(), "v1", dto.CheckoutRequest{Items: []dto.CartItemRequest{{ProductID: "a", Quantity: 1}}})
	require.Error(t, err)
	a, _ := f.store.Product("a")
	assert.Equal(t, 10, a.Quantity)
	assert.Equal(t, []string{"error"}, f.metrics.Failures)
}

func TestCheckout_CarritoVacioYCuentaInactiva(t *testing.T) {
	f := newFixture()
	_, err := f.uc.Checkout(context.Background(), "v1", dto.CheckoutRequest{})
	assert.True(t, errors.Is(err, domain.ErrEmptyCart))

	f.store.AddUser(entity.User{ID: "v2", Firstname: "Off", Role: entity.RoleVendeur, IsActive: false})
	_, err = f.uc.Checkout(context.Background(), "v2", dto.CheckoutRequest{Items: []dto.CartItemRequest{{ProductID: "a", Quantity: 1}}})
	assert.True(t, errors.Is(err, domain.ErrAccountDisabled))

	_, err = f.uc.Checkout(context.Background(), "v1", dto.CheckoutRequest{Items: []dto.CartItemRequest{{ProductID: "zzz", Quantity: 1}}})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestReceipts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	out, err := f.uc.Checkout(ctx, "v1", dto.CheckoutRequest{Items: []dto.CartItemRequest{
		{ProductID: "a", Quantity: 2}, {ProductID: "b", Quantity: 1},
	}})
	require.NoError(t, err)

	file, err := f.uc.CheckoutReceipt(ctx, out.CheckoutID)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.Equal(t, sales.TitleInvoice, f.renderer.last.Title)
	assert.Equal(t, "MOUSTO_LELOU", f.renderer.last.StoreName)
	assert.Len(t, f.renderer.last.Lines, 2)
	assert.True(t, f.renderer.last.Total.Equal(decimal.NewFromInt(175000)))

	file, err = f.uc.SaleReceipt(ctx, out.SaleIDs[0])
	require.NoError(t, err)
	assert.Equal(t, sales.TitleReceipt, f.renderer.last.Title)
	assert.Equal(t, entity.TransactionNumber(out.SaleIDs[0]), f.renderer.last.Number)
	assert.True(t, f.renderer.last.Lines[0].UnitPrice.Equal(decimal.NewFromInt(75000)))
	assert.Contains(t, file.Filename, "recu_")

	_, err = f.uc.SaleReceipt(ctx, "nope")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	_, err = f.uc.CheckoutReceipt(ctx, "nope")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
