// Package excel exporta tablas a XLSX con excelize.
package excel

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/mousto-pos/internal/application/ports"
)

const (
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	Format      = "xlsx"
	SheetName   = "Rapport"
)

var _ ports.TableExporter = (*Exporter)(nil)

// Exporter escribe una hoja con título, cabecera, filas y totales.
type Exporter struct{}

// NewExporter construye el exportador.
func NewExporter() *Exporter { return &Exporter{} }

func (e *Exporter) Format() string      { return Format }
func (e *Exporter) ContentType() string { return ContentType }

// ExportTable los importes se escriben como números con formato de moneda, no como texto.
func (e *Exporter) ExportTable(_ context.Context, t ports.Table) ([]byte, error) {
	if len(t.Columns) == 0 {
		return nil, fmt.Errorf("excel: tabla sin columnas")
	}
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, fmt.Errorf("excel: renombrar hoja: %w", err)
	}
	st, err := newStyles(f, t.Currency)
	if err != nil {
		return nil, err
	}

	rowIdx := 1
	if err := f.SetCellValue(SheetName, "A1", t.Title); err != nil {
		return nil, fmt.Errorf("excel: título: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A1", "A1", st.title); err != nil {
		return nil, fmt.Errorf("excel: estilo título: %w", err)
	}
	rowIdx++
	if t.Subtitle != "" {
		if err := f.SetCellValue(SheetName, "A2", t.Subtitle); err != nil {
			return nil, fmt.Errorf("excel: subtítulo: %w", err)
		}
		rowIdx++
	}
	rowIdx++ // fila en blanco

	headers := make([]any, len(t.Columns))
	for i, c := range t.Columns {
		headers[i] = c.Title
	}
	if err := writeRow(f, rowIdx, t.Columns, headers, st.header, st.header); err != nil {
		return nil, err
	}
	rowIdx++
	for _, cells := range t.Rows {
		if err := writeRow(f, rowIdx, t.Columns, cells, st.cell, st.amount); err != nil {
			return nil, err
		}
		rowIdx++
	}
	if len(t.Footer) > 0 {
		if err := writeRow(f, rowIdx, t.Columns, t.Footer, st.total, st.totalAmount); err != nil {
			return nil, err
		}
	}

	for i, c := range t.Columns {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, fmt.Errorf("excel: columna: %w", err)
		}
		if err := f.SetColWidth(SheetName, name, name, float64(c.Width)*6); err != nil {
			return nil, fmt.Errorf("excel: ancho de columna: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("excel: escribir: %w", err)
	}
	return buf.Bytes(), nil
}

type styles struct {
	title       int
	header      int
	cell        int
	amount      int
	total       int
	totalAmount int
}

func newStyles(f *excelize.File, currency string) (styles, error) {
	amountFmt := "#,##0"
	if currency != "" {
		amountFmt += ` "` + currency + `"`
	}
	defs := []*excelize.Style{
		{Font: &excelize.Font{Bold: true, Size: 14, Color: "1E293B"}},
		{
			Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
			Fill:      excelize.Fill{Type: "pattern", Color: []string{"1E293B"}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center"},
		},
		{},
		{CustomNumFmt: &amountFmt},
		{Font: &excelize.Font{Bold: true}},
		{Font: &excelize.Font{Bold: true}, CustomNumFmt: &amountFmt},
	}
	ids := make([]int, len(defs))
	for i, d := range defs {
		id, err := f.NewStyle(d)
		if err != nil {
			return styles{}, fmt.Errorf("excel: estilo: %w", err)
		}
		ids[i] = id
	}
	return styles{title: ids[0], header: ids[1], cell: ids[2], amount: ids[3], total: ids[4], totalAmount: ids[5]}, nil
}

func writeRow(f *excelize.File, rowIdx int, columns []ports.Column, cells []any, style, amountStyle int) error {
	for i := range columns {
		var v any
		if i < len(cells) {
			v = cells[i]
		}
		cell, err := excelize.CoordinatesToCellName(i+1, rowIdx)
		if err != nil {
			return fmt.Errorf("excel: celda: %w", err)
		}
		s := style
		if d, ok := v.(decimal.Decimal); ok {
			v = d.InexactFloat64()
			s = amountStyle
		}
		if err := f.SetCellValue(SheetName, cell, v); err != nil {
			return fmt.Errorf("excel: valor %s: %w", cell, err)
		}
		if err := f.SetCellStyle(SheetName, cell, cell, s); err != nil {
			return fmt.Errorf("excel: estilo %s: %w", cell, err)
		}
	}
	return nil
}
