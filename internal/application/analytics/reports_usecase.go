package analytics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/mousto-pos/internal/application/dto"
	"github.com/jhoicas/mousto-pos/internal/application/ports"
	"github.com/jhoicas/mousto-pos/internal/domain"
	"github.com/jhoicas/mousto-pos/internal/domain/entity"
	"github.com/jhoicas/mousto-pos/internal/domain/inventory"
	"github.com/jhoicas/mousto-pos/internal/domain/repository"
)

const (
	salesReportPageSize = 6
	dateLayout          = "2006-01-02"
)

// ReportsUseCase reporte de ventas, síntesis de movimientos y exportaciones PDF/Excel.
type ReportsUseCase struct {
	saleRepo    repository.SaleRepository
	movRepo     repository.StockMovementRepository
	productRepo repository.ProductRepository
	exporters   map[string]ports.TableExporter
	storeName   string
	currency    string
	now         func() time.Time
}

// NewReportsUseCase construye el caso de uso. Los exportadores se indexan por Format().
func NewReportsUseCase(
	saleRepo repository.SaleRepository,
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	storeName, currency string,
	exporters ...ports.TableExporter,
) *ReportsUseCase {
	byFormat := make(map[string]ports.TableExporter, len(exporters))
	for _, e := range exporters {
		byFormat[e.Format()] = e
	}
	return &ReportsUseCase{
		saleRepo:    saleRepo,
		movRepo:     movRepo,
		productRepo: productRepo,
		exporters:   byFormat,
		storeName:   storeName,
		currency:    currency,
		now:         time.Now,
	}
}

func toSaleResponse(r repository.SaleRecord) dto.SaleResponse {
	return dto.SaleResponse{
		ID:                r.Sale.ID,
		CheckoutID:        r.Sale.CheckoutID,
		TransactionNumber: entity.TransactionNumber(r.Sale.ID),
		ProductID:         r.Sale.ProductID,
		ProductName:       r.ProductName,
		Quantity:          r.Sale.Quantity,
		UnitPrice:         r.Sale.UnitPrice(),
		TotalPrice:        r.Sale.TotalPrice,
		SellerName:        r.Sale.SellerName,
		CreatedBy:         r.Sale.CreatedBy,
		CreatedAt:         r.Sale.CreatedAt,
	}
}

// SalesReport página de ventas (más recientes primero) y el ingreso de todo el conjunto filtrado.
func (uc *ReportsUseCase) SalesReport(ctx context.Context, q dto.SalesReportQuery) (*dto.SalesReportResponse, error) {
	q.Normalize(salesReportPageSize)
	search := strings.TrimSpace(q.Search)
	records, total, err := uc.saleRepo.List(ctx, repository.SaleFilter{Search: search, Limit: q.PageSize, Offset: q.Offset()})
	if err != nil {
		return nil, err
	}
	revenue, err := uc.saleRepo.Revenue(ctx, search)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(records))
	for _, r := range records {
		items = append(items, toSaleResponse(r))
	}
	return &dto.SalesReportResponse{
		Items:        items,
		TotalRevenue: revenue,
		Page:         dto.NewPageResponse(q.PageRequest, total),
	}, nil
}

// ParsePeriod interpreta from/to (2006-01-02). Por defecto: primer día del mes en curso hasta ahora.
// "to" incluye todo el día indicado.
func ParsePeriod(q dto.SynthesisQuery, now time.Time) (time.Time, time.Time, error) {
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to := now
	if s := strings.TrimSpace(q.From); s != "" {
		t, err := time.ParseInLocation(dateLayout, s, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: date de début %q", domain.ErrInvalidInput, s)
		}
		from = t
	}
	if s := strings.TrimSpace(q.To); s != "" {
		t, err := time.ParseInLocation(dateLayout, s, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: date de fin %q", domain.ErrInvalidInput, s)
		}
		to = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: date de début postérieure à la date de fin", domain.ErrInvalidInput)
	}
	return from, to, nil
}

// Synthesis agrupa por producto los movimientos del período.
func (uc *ReportsUseCase) Synthesis(ctx context.Context, q dto.SynthesisQuery) (*dto.SynthesisResponse, error) {
	from, to, err := ParsePeriod(q, uc.now())
	if err != nil {
		return nil, err
	}
	records, err := uc.movRepo.ListBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	facts := make([]inventory.MovementFact, 0, len(records))
	for _, r := range records {
		facts = append(facts, inventory.MovementFact{
			ProductID:   r.Movement.ProductID,
			ProductName: r.ProductName,
			UnitPrice:   r.UnitPrice,
			Type:        r.Movement.Type,
			Quantity:    r.Movement.Quantity,
		})
	}
	syn := inventory.Synthesize(facts)

	rows := make([]dto.SynthesisRowDTO, 0, len(syn.Rows))
	for _, r := range syn.Rows {
		rows = append(rows, dto.SynthesisRowDTO{
			ProductID:   r.ProductID,
			ProductName: r.ProductName,
			InQty:       r.InQty,
			OutQty:      r.OutQty,
			Net:         r.Net,
			Movements:   r.Movements,
			OutValue:    r.OutValue,
		})
	}
	return &dto.SynthesisResponse{
		From:          from,
		To:            to,
		Rows:          rows,
		TotalIn:       syn.TotalIn,
		TotalOut:      syn.TotalOut,
		TotalOutValue: syn.TotalOutValue,
	}, nil
}

func (uc *ReportsUseCase) exporter(format string) (ports.TableExporter, error) {
	e, ok := uc.exporters[strings.ToLower(strings.TrimSpace(format))]
	if !ok {
		return nil, fmt.Errorf("%w: format d'export %q", domain.ErrInvalidInput, format)
	}
	return e, nil
}

func (uc *ReportsUseCase) export(ctx context.Context, format, prefix string, table ports.Table) (*dto.ExportFile, error) {
	e, err := uc.exporter(format)
	if err != nil {
		return nil, err
	}
	table.Currency = uc.currency
	data, err := e.ExportTable(ctx, table)
	if err != nil {
		return nil, err
	}
	return &dto.ExportFile{
		Filename:    fmt.Sprintf("%s_%s.%s", prefix, uc.now().Format(dateLayout), e.Format()),
		ContentType: e.ContentType(),
		Data:        data,
	}, nil
}

// ExportSales exporta todas las ventas que cumplen la búsqueda.
func (uc *ReportsUseCase) ExportSales(ctx context.Context, search, format string) (*dto.ExportFile, error) {
	if _, err := uc.exporter(format); err != nil {
		return nil, err
	}
	records, _, err := uc.saleRepo.List(ctx, repository.SaleFilter{Search: strings.TrimSpace(search)})
	if err != nil {
		return nil, err
	}
	table := ports.Table{
		Title:    uc.storeName + " - Rapport des ventes",
		Subtitle: "Édité le " + uc.now().Format("02/01/2006 15:04"),
		Columns: []ports.Column{
			{Title: "N°", Width: 2},
			{Title: "Date", Width: 2},
			{Title: "Produit", Width: 3},
			{Title: "Vendeur", Width: 2},
			{Title: "Qté", Width: 1, Numeric: true},
			{Title: "Total", Width: 2, Numeric: true},
		},
	}
	total := decimal.Zero
	for _, r := range records {
		table.Rows = append(table.Rows, []any{
			entity.TransactionNumber(r.Sale.ID),
			r.Sale.CreatedAt.Format("02/01/2006 15:04"),
			r.ProductName,
			r.Sale.SellerName,
			r.Sale.Quantity,
			r.Sale.TotalPrice,
		})
		total = total.Add(r.Sale.TotalPrice)
	}
	table.Footer = []any{"TOTAL", "", "", "", "", total}
	return uc.export(ctx, format, "ventes", table)
}

// ExportSynthesis exporta la síntesis del período.
func (uc *ReportsUseCase) ExportSynthesis(ctx context.Context, q dto.SynthesisQuery, format string) (*dto.ExportFile, error) {
	if _, err := uc.exporter(format); err != nil {
		return nil, err
	}
	syn, err := uc.Synthesis(ctx, q)
	if err != nil {
		return nil, err
	}
	table := ports.Table{
		Title:    uc.storeName + " - Synthèse des mouvements",
		Subtitle: fmt.Sprintf("Du %s au %s", syn.From.Format("02/01/2006"), syn.To.Format("02/01/2006")),
		Columns: []ports.Column{
			{Title: "Produit", Width: 4},
			{Title: "Entrées", Width: 2, Numeric: true},
			{Title: "Sorties", Width: 2, Numeric: true},
			{Title: "Net", Width: 2, Numeric: true},
			{Title: "Valeur sorties", Width: 2, Numeric: true},
		},
	}
	for _, r := range syn.Rows {
		table.Rows = append(table.Rows, []any{r.ProductName, r.InQty, r.OutQty, r.Net, r.OutValue})
	}
	table.Footer = []any{"TOTAL", syn.TotalIn, syn.TotalOut, syn.TotalIn - syn.TotalOut, syn.TotalOutValue}
	return uc.export(ctx, format, "synthese", table)
}

// ExportInventory exporta el inventario con los filtros del listado.
func (uc *ReportsUseCase) ExportInventory(ctx context.Context, q dto.ProductListQuery, format string) (*dto.ExportFile, error) {
	if _, err := uc.exporter(format); err != nil {
		return nil, err
	}
	status, err := inventory.ParseStockFilter(q.Status)
	if err != nil {
		return nil, err
	}
	products, err := uc.productRepo.List(ctx, repository.ProductFilter{
		Search:          strings.TrimSpace(q.Search),
		Status:          status,
		CategoryID:      q.CategoryID,
		IncludeArchived: q.IncludeArchived,
		InStockOnly:     q.InStockOnly,
	})
	if err != nil {
		return nil, err
	}
	table := ports.Table{
		Title:    uc.storeName + " - Inventaire",
		Subtitle: "Édité le " + uc.now().Format("02/01/2006 15:04"),
		Columns: []ports.Column{
			{Title: "Produit", Width: 3},
			{Title: "SKU", Width: 2},
			{Title: "Qté", Width: 1, Numeric: true},
			{Title: "Seuil", Width: 1, Numeric: true},
			{Title: "Prix Unitaire", Width: 2, Numeric: true},
			{Title: "Valeur", Width: 2, Numeric: true},
			{Title: "Statut", Width: 1},
		},
	}
	var units int64
	value := decimal.Zero
	for _, p := range products {
		table.Rows = append(table.Rows, []any{
			p.Name, p.SKUValue(), p.Quantity, p.MinThreshold, p.UnitPrice, p.StockValue(),
			inventory.StatusOf(p.Quantity, p.MinThreshold).Label(),
		})
		units += int64(p.Quantity)
		value = value.Add(p.StockValue())
	}
	table.Footer = []any{"TOTAL", "", units, "", "", value, ""}
	return uc.export(ctx, format, "inventaire", table)
}
