package analytics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mousto-pos/internal/application/analytics"
	"github.com/jhoicas/mousto-pos/internal/application/apptest"
	"github.com/jhoicas/mousto-pos/internal/application/dto"
	"github.com/jhoicas/mousto-pos/internal/application/ports"
	"github.com/jhoicas/mousto-pos/internal/domain"
	"github.com/jhoicas/mousto-pos/internal/domain/entity"
	"github.com/jhoicas/mousto-pos/internal/domain/inventory"
	"github.com/jhoicas/mousto-pos/internal/domain/repository"
)

type fakeAnalytics struct {
	summary repository.StockSummary
	daily   map[string]decimal.Decimal
	err     error
}

func (f *fakeAnalytics) GetStockSummary(ctx context.Context) (repository.StockSummary, error) {
	return f.summary, f.err
}

func (f *fakeAnalytics) GetDailySales(ctx context.Context, from, to time.Time) (map[string]decimal.Decimal, error) {
	return f.daily, f.err
}

type fakeExporter struct {
	last ports.Table
}

func (f *fakeExporter) Format() string      { return "xlsx" }
func (f *fakeExporter) ContentType() string { return "application/test" }
func (f *fakeExporter) ExportTable(ctx context.Context, t ports.Table) ([]byte, error) {
	f.last = t
	return []byte("ok"), nil
}

func TestDashboard_SerieDeSieteDias(t *testing.T) {
	store := apptest.NewStore()
	store.AddProduct(entity.Product{ID: "a", Name: "Riz", Quantity: 0, MinThreshold: 5, UnitPrice: decimal.NewFromInt(100)})
	store.AddProduct(entity.Product{ID: "b", Name: "Sel", Quantity: 50, MinThreshold: 5, UnitPrice: decimal.NewFromInt(100)})

	today := time.Now().Format(inventory.DayKeyLayout)
	yesterday := time.Now().AddDate(0, 0, -1).Format(inventory.DayKeyLayout)
	fa := &fakeAnalytics{
		summary: repository.StockSummary{TotalItems: 50, StockValue: decimal.NewFromInt(5000), Products: 2},
		daily:   map[string]decimal.Decimal{today: decimal.NewFromInt(300), yesterday: decimal.NewFromInt(200)},
	}
	uc := analytics.NewDashboardUseCase(fa, &apptest.ProductRepo{Store: store})

	out, err := uc.GetSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(50), out.TotalItems)
	assert.Equal(t, 1, out.CriticalCount)
	assert.Equal(t, "Rupture", out.CriticalProducts[0].StockLabel)
	require.Len(t, out.SalesHistory, 7)
	assert.Equal(t, today, out.SalesHistory[6].Date)
	assert.True(t, out.TodaySales.Equal(decimal.NewFromInt(300)))
	assert.True(t, out.WeekSales.Equal(decimal.NewFromInt(500)))
	assert.True(t, out.SalesHistory[0].Total.IsZero())
}

func TestDashboard_ErrorDelRepositorio(t *testing.T) {
	uc := analytics.NewDashboardUseCase(&fakeAnalytics{err: errors.New("boom")}, &apptest.ProductRepo{Store: apptest.NewStore()})
	_, err := uc.GetSummary(context.Background())
	assert.Error(t, err)
}

func seedSales(store *apptest.Store) {
	store.AddProduct(entity.Product{ID: "a", Name: "Riz", Quantity: 10, UnitPrice: decimal.NewFromInt(1000)})
	store.AddProduct(entity.Product{ID: "b", Name: "Huile", Quantity: 10, UnitPrice: decimal.NewFromInt(500)})
	repo := &apptest.SaleRepo{Store: store}
	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 8; i++ {
		pid, seller := "a", "Awa Diallo"
		if i%2 == 1 {
			pid, seller = "b", "Moussa Camara"
		}
		_ = repo.Create(context.Background(), &entity.Sale{
			ID: "s" + string(rune('0'+i)), CheckoutID: "c", ProductID: pid, Quantity: 1,
			TotalPrice: decimal.NewFromInt(int64(100 * (i + 1))), SellerName: seller,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
}

func TestSalesReport_PaginaYTotalDelConjunto(t *testing.T) {
	store := apptest.NewStore()
	seedSales(store)
	uc := analytics.NewReportsUseCase(&apptest.SaleRepo{Store: store}, &apptest.MovementRepo{Store: store},
		&apptest.ProductRepo{Store: store}, "MOUSTO_LELOU", "FG")

	out, err := uc.SalesReport(context.Background(), dto.SalesReportQuery{})
	require.NoError(t, err)
	assert.Len(t, out.Items, 6)
	assert.Equal(t, 8, out.Page.Total)
	assert.Equal(t, 2, out.Page.TotalPages)
	assert.Equal(t, "s7", out.Items[0].ID)
	assert.True(t, out.TotalRevenue.Equal(decimal.NewFromInt(3600)))

	filtered, err := uc.SalesReport(context.Background(), dto.SalesReportQuery{Search: "moussa"})
	require.NoError(t, err)
	assert.Equal(t, 4, filtered.Page.Total)
	assert.True(t, filtered.TotalRevenue.Equal(decimal.NewFromInt(2000))) // 200+400+600+800
}

func TestParsePeriod(t *testing.T) {
	now := time.Date(2026, 5, 20, 15, 0, 0, 0, time.UTC)

	from, to, err := analytics.ParsePeriod(dto.SynthesisQuery{}, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, now, to)

	from, to, err = analytics.ParsePeriod(dto.SynthesisQuery{From: "2026-04-01", To: "2026-04-30"}, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, 30, to.Day())
	assert.Equal(t, 23, to.Hour())

	_, _, err = analytics.ParsePeriod(dto.SynthesisQuery{From: "2026-05-10", To: "2026-05-01"}, now)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, _, err = analytics.ParsePeriod(dto.SynthesisQuery{From: "10/05/2026"}, now)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestExport_FormatoDesconocido(t *testing.T) {
	store := apptest.NewStore()
	exp := &fakeExporter{}
	uc := analytics.NewReportsUseCase(&apptest.SaleRepo{Store: store}, &apptest.MovementRepo{Store: store},
		&apptest.ProductRepo{Store: store}, "MOUSTO_LELOU", "FG", exp)

	_, err := uc.ExportSales(context.Background(), "", "csv")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestExportSales_TablaConTotales(t *testing.T) {
	store := apptest.NewStore()
	seedSales(store)
	exp := &fakeExporter{}
	uc := analytics.NewReportsUseCase(&apptest.SaleRepo{Store: store}, &apptest.MovementRepo{Store: store},
		&apptest.ProductRepo{Store: store}, "MOUSTO_LELOU", "FG", exp)

	file, err := uc.ExportSales(context.Background(), "riz", "XLSX")
	require.NoError(t, err)
	assert.Contains(t, file.Filename, "ventes_")
	assert.Equal(t, "application/test", file.ContentType)
	assert.Len(t, exp.last.Rows, 4)
	assert.Equal(t, "FG", exp.last.Currency)
	assert.True(t, exp.last.Footer[5].(decimal.Decimal).Equal(decimal.NewFromInt(1600))) // 100+300+500+700
}

func TestExportInventory(t *testing.T) {
	store := apptest.NewStore()
	store.AddProduct(entity.Product{ID: "a", Name: "Riz", Quantity: 2, MinThreshold: 5, UnitPrice: decimal.NewFromInt(1000)})
	store.AddProduct(entity.Product{ID: "b", Name: "Sel", Quantity: 20, MinThreshold: 5, UnitPrice: decimal.NewFromInt(100)})
	exp := &fakeExporter{}
	uc := analytics.NewReportsUseCase(&apptest.SaleRepo{Store: store}, &apptest.MovementRepo{Store: store},
		&apptest.ProductRepo{Store: store}, "MOUSTO_LELOU", "FG", exp)

	_, err := uc.ExportInventory(context.Background(), dto.ProductListQuery{Status: "low"}, "xlsx")
	require.NoError(t, err)
	require.Len(t, exp.last.Rows, 1)
	assert.Equal(t, "Critique", exp.last.Rows[0][6])

	_, err = uc.ExportInventory(context.Background(), dto.ProductListQuery{}, "xlsx")
	require.NoError(t, err)
	assert.Equal(t, int64(22), exp.last.Footer[2])
}
