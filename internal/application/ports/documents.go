package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ReceiptLine línea impresa en una factura o recibo.
type ReceiptLine struct {
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
	Total     decimal.Decimal
}

// Receipt factura de checkout o recibo de una venta.
type Receipt struct {
	StoreName string
	Title     string // "FACTURE" | "REÇU DE VENTE"
	Number    string // número de transacción
	Date      time.Time
	Seller    string
	Currency  string
	Lines     []ReceiptLine
	Total     decimal.Decimal
}

// ReceiptRenderer genera el PDF de un recibo.
type ReceiptRenderer interface {
	RenderReceipt(ctx context.Context, receipt Receipt) ([]byte, error)
}

// Column cabecera de una tabla exportada. Numeric alinea a la derecha.
type Column struct {
	Title   string
	Width   int // ancho relativo (suma 12 en PDF)
	Numeric bool
}

// Table datos tabulares a exportar. Las celdas pueden ser string, int, int64
// o decimal.Decimal; los importes se formatean con Currency.
type Table struct {
	Title    string
	Subtitle string
	Currency string
	Columns  []Column
	Rows     [][]any
	Footer   []any // fila de totales opcional, alineada con Columns
}

// TableExporter serializa una tabla a un formato de archivo.
type TableExporter interface {
	Format() string // "pdf" | "xlsx"
	ContentType() string
	ExportTable(ctx context.Context, table Table) ([]byte, error)
}
