package excel

import (
	"bytes"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/mousto-pos/internal/application/ports"
)

func TestExportTable_EscribeCabeceraFilasYTotales(t *testing.T) {
	table := ports.Table{
		Title:    "Ventes",
		Subtitle: "Export du 15/10/2026",
		Currency: "FG",
		Columns: []ports.Column{
			{Title: "Produit", Width: 6},
			{Title: "Quantité", Width: 2, Numeric: true},
			{Title: "Total", Width: 4, Numeric: true},
		},
		Rows: [][]any{
			{"Riz 5kg", 2, decimal.NewFromInt(150000)},
			{"Huile", 1, decimal.NewFromInt(25000)},
		},
		Footer: []any{"TOTAL", 3, decimal.NewFromInt(175000)},
	}

	data, err := NewExporter().ExportTable(context.Background(), table)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, rows, 7)
	assert.Equal(t, "Ventes", rows[0][0])
	assert.Equal(t, "Export du 15/10/2026", rows[1][0])
	assert.Equal(t, []string{"Produit", "Quantité", "Total"}, rows[3])
	assert.Equal(t, []string{"Riz 5kg", "2", "150000"}, rows[4])
	assert.Equal(t, []string{"TOTAL", "3", "175000"}, rows[6])
}

func TestExportTable_SinColumnasFalla(t *testing.T) {
	_, err := NewExporter().ExportTable(context.Background(), ports.Table{Title: "Vide"})
	assert.Error(t, err)
}

func TestExporter_Formato(t *testing.T) {
	e := NewExporter()
	assert.Equal(t, "xlsx", e.Format())
	assert.Contains(t, e.ContentType(), "spreadsheetml")
}
