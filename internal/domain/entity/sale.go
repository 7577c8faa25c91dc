package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Sale línea de venta: un producto dentro de un checkout.
// Todas las líneas de una misma validación de carrito comparten CheckoutID.
type Sale struct {
	ID         string
	CheckoutID string
	ProductID  string
	Quantity   int
	TotalPrice decimal.Decimal // precio unitario × cantidad al momento de la venta
	SellerName string
	CreatedBy  *string
	CreatedAt  time.Time
}

// UnitPrice precio unitario derivado del total.
func (s *Sale) UnitPrice() decimal.Decimal {
	if s.Quantity <= 0 {
		return decimal.Zero
	}
	return s.TotalPrice.Div(decimal.NewFromInt(int64(s.Quantity)))
}

// TransactionNumber número corto impreso en el recibo: primer segmento del UUID en mayúsculas.
func TransactionNumber(id string) string {
	if i := strings.IndexByte(id, '-'); i >= 0 {
		id = id[:i]
	}
	return strings.ToUpper(id)
}
