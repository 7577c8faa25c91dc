package pdf

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mousto-pos/internal/application/ports"
)

func TestRenderReceipt_GeneraPDF(t *testing.T) {
	data, err := NewGenerator().RenderReceipt(context.Background(), ports.Receipt{
		StoreName: "Mousto",
		Title:     "FACTURE",
		Number:    "1A2B3C4D",
		Date:      time.Date(2026, 10, 15, 10, 30, 0, 0, time.UTC),
		Seller:    "Awa Diallo",
		Currency:  "FG",
		Lines: []ports.ReceiptLine{
			{Name: "Riz 5kg", Quantity: 2, UnitPrice: decimal.NewFromInt(75000), Total: decimal.NewFromInt(150000)},
		},
		Total: decimal.NewFromInt(150000),
	})
	require.NoError(t, err)
	assert.True(t, len(data) > 4)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestExportTable_GeneraPDF(t *testing.T) {
	data, err := NewGenerator().ExportTable(context.Background(), ports.Table{
		Title:   "Inventaire",
		Columns: []ports.Column{{Title: "Produit", Width: 8}, {Title: "Stock", Width: 4, Numeric: true}},
		Rows:    [][]any{{"Riz", 10}, {"Huile", 0}},
		Footer:  []any{"TOTAL", 10},
	})
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestExportTable_SinColumnasFalla(t *testing.T) {
	_, err := NewGenerator().ExportTable(context.Background(), ports.Table{Title: "Vide"})
	assert.Error(t, err)
}

func TestFormatCell(t *testing.T) {
	assert.Equal(t, "", FormatCell(nil, "FG"))
	assert.Equal(t, "texte", FormatCell("texte", "FG"))
	assert.Equal(t, "1 234", FormatCell(1234, "FG"))
	assert.Equal(t, "1 234", FormatCell(int64(1234), "FG"))
	assert.Equal(t, "25 000 FG", FormatCell(decimal.NewFromInt(25000), "FG"))
}
