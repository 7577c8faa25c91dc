// Package pdf genera con Maroto v2 los recibos de venta y las exportaciones tabulares.
//
// Recibo (A5 vertical):
//
//	┌──────────────────────────────────┐
//	│  TIENDA            TÍTULO / N°   │
//	│  Fecha / Vendedor                │
//	│  ──────────────────────────────  │
//	│  Artículo | Cant. | P.U. | Total │
//	│  ──────────────────────────────  │
//	│                   TOTAL          │
//	└──────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/mousto-pos/internal/application/ports"
	"github.com/jhoicas/mousto-pos/pkg/money"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 30, Green: 41, Blue: 59}
	colorGray    = &props.Color{Red: 100, Green: 116, Blue: 139}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorStripe  = &props.Color{Red: 241, Green: 245, Blue: 249}
)

const (
	ContentType = "application/pdf"
	Format      = "pdf"
)

// ── Generator ─────────────────────────────────────────────────────────────────

var (
	_ ports.ReceiptRenderer = (*Generator)(nil)
	_ ports.TableExporter   = (*Generator)(nil)
)

// Generator implementa ReceiptRenderer y TableExporter usando Maroto v2.
type Generator struct{}

// NewGenerator construye el generador.
func NewGenerator() *Generator { return &Generator{} }

// Format identificador del formato de exportación.
func (g *Generator) Format() string { return Format }

// ContentType cabecera HTTP del documento.
func (g *Generator) ContentType() string { return ContentType }

// RenderReceipt genera la factura o el recibo y devuelve sus bytes.
func (g *Generator) RenderReceipt(_ context.Context, r ports.Receipt) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A5).
		WithLeftMargin(8).WithRightMargin(8).
		WithTopMargin(8).WithBottomMargin(8).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(r.Title+" "+r.Number, true).
		WithAuthor(r.StoreName, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(receiptHeaderRow(r))
	m.AddRows(receiptInfoRow(r))
	m.AddRows(line.NewRow(2, props.Line{Color: colorPrimary, Thickness: 0.4}))
	m.AddRows(receiptTableHeader())
	for _, l := range r.Lines {
		m.AddRows(receiptLineRow(l, r.Currency))
	}
	m.AddRows(line.NewRow(2, props.Line{Color: colorPrimary, Thickness: 0.4}))
	m.AddRows(receiptTotalRow(r))
	m.AddRows(row.New(10).Add(col.New(12).Add(
		text.New("Merci pour votre achat !", props.Text{
			Size: 8, Align: align.Center, Color: colorGray, Top: 4,
		}),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar recibo: %w", err)
	}
	return doc.GetBytes(), nil
}

// ExportTable genera un listado A4 horizontal con cabecera, filas alternas y totales.
func (g *Generator) ExportTable(_ context.Context, t ports.Table) ([]byte, error) {
	if len(t.Columns) == 0 {
		return nil, fmt.Errorf("pdf: tabla sin columnas")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle(t.Title, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(row.New(10).Add(col.New(12).Add(
		text.New(t.Title, props.Text{Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1}),
	)))
	if t.Subtitle != "" {
		m.AddRows(row.New(6).Add(col.New(12).Add(
			text.New(t.Subtitle, props.Text{Size: 8, Color: colorGray, Top: 1}),
		)))
	}
	m.AddRows(line.NewRow(2, props.Line{Color: colorPrimary, Thickness: 0.4}))

	header := row.New(7).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
	for _, c := range t.Columns {
		header.Add(col.New(c.Width).Add(text.New(c.Title, props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorWhite, Top: 1.5, Left: 1, Right: 1, Align: columnAlign(c),
		})))
	}
	m.AddRows(header)

	for i, cells := range t.Rows {
		r := tableRow(t.Columns, cells, t.Currency, false)
		if i%2 == 1 {
			r.WithStyle(&props.Cell{BackgroundColor: colorStripe})
		}
		m.AddRows(r)
	}
	if len(t.Footer) > 0 {
		m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
		m.AddRows(tableRow(t.Columns, t.Footer, t.Currency, true))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar tabla: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func receiptHeaderRow(r ports.Receipt) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New(r.StoreName, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
		),
		col.New(5).Add(
			text.New(r.Title, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorPrimary, Top: 1}),
			text.New("N° "+r.Number, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 7}),
		),
	)
}

func receiptInfoRow(r ports.Receipt) core.Row {
	return row.New(10).Add(col.New(12).Add(
		text.New("Date : "+r.Date.Format("02/01/2006 15:04"), props.Text{Size: 8, Color: colorGray, Top: 1}),
		text.New("Vendeur : "+nonEmpty(r.Seller, "-"), props.Text{Size: 8, Color: colorGray, Top: 5}),
	))
}

func receiptTableHeader() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorWhite, Top: 1.5, Left: 1, Right: 1,
		}))
	}
	return row.New(7).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(
		h("Article", 5, align.Left),
		h("Qté", 1, align.Center),
		h("P.U.", 3, align.Right),
		h("Total", 3, align.Right),
	)
}

func receiptLineRow(l ports.ReceiptLine, currency string) core.Row {
	return row.New(6).Add(
		col.New(5).Add(text.New(l.Name, props.Text{Size: 8, Top: 1, Left: 1})),
		col.New(1).Add(text.New(money.Number(int64(l.Quantity)), props.Text{Size: 8, Align: align.Center, Top: 1})),
		col.New(3).Add(text.New(money.Format(l.UnitPrice, currency), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		col.New(3).Add(text.New(money.Format(l.Total, currency), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
	)
}

func receiptTotalRow(r ports.Receipt) core.Row {
	return row.New(10).Add(
		col.New(6),
		col.New(2).Add(text.New("TOTAL", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2,
		})),
		col.New(4).Add(text.New(money.Format(r.Total, r.Currency), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2, Right: 1,
		})),
	)
}

func tableRow(columns []ports.Column, cells []any, currency string, bold bool) core.Row {
	style := fontstyle.Normal
	if bold {
		style = fontstyle.Bold
	}
	r := row.New(6)
	for i, c := range columns {
		var v any
		if i < len(cells) {
			v = cells[i]
		}
		r.Add(col.New(c.Width).Add(text.New(FormatCell(v, currency), props.Text{
			Style: style, Size: 8, Top: 1, Left: 1, Right: 1, Align: columnAlign(c),
		})))
	}
	return r
}

// ── helpers ───────────────────────────────────────────────────────────────────

func columnAlign(c ports.Column) align.Type {
	if c.Numeric {
		return align.Right
	}
	return align.Left
}

// FormatCell texto de una celda: enteros con separador de miles, importes con moneda.
func FormatCell(v any, currency string) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return money.Number(int64(x))
	case int64:
		return money.Number(x)
	case decimal.Decimal:
		return money.Format(x, currency)
	default:
		return fmt.Sprint(x)
	}
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
