package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItemRequest línea pedida en el checkout.
type CartItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// CheckoutRequest carrito a validar.
type CheckoutRequest struct {
	Items []CartItemRequest `json:"items"`
}

// Ediciones del carrito aceptadas por Quote.
const (
	CartEditAdd    = "add"    // una unidad más (o nueva línea)
	CartEditDelta  = "delta"  // suma Delta; nunca baja de 1
	CartEditRemove = "remove" // quita la línea
)

// CartEditRequest cambio a aplicar sobre el carrito antes de cotizarlo.
type CartEditRequest struct {
	Action    string `json:"action"`
	ProductID string `json:"product_id"`
	Delta     int    `json:"delta,omitempty"`
}

// QuoteRequest carrito actual del vendedor y, opcionalmente, la edición que acaba de hacer.
type QuoteRequest struct {
	Items []CartItemRequest `json:"items"`
	Edit  *CartEditRequest  `json:"edit,omitempty"`
}

// CartLineResponse línea del carrito con su total.
type CartLineResponse struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
	Available int             `json:"available"`
}

// QuoteResponse vista previa del carrito sin escribir nada.
type QuoteResponse struct {
	Items []CartLineResponse `json:"items"`
	Units int                `json:"units"`
	Total decimal.Decimal    `json:"total"`
}

// CheckoutResponse resultado del checkout.
type CheckoutResponse struct {
	CheckoutID string             `json:"checkout_id"`
	SaleIDs    []string           `json:"sale_ids"`
	Items      []CartLineResponse `json:"items"`
	Total      decimal.Decimal    `json:"total"`
	SellerName string             `json:"seller_name"`
	CreatedAt  time.Time          `json:"created_at"`
}

// SaleResponse venta del reporte.
type SaleResponse struct {
	ID                string          `json:"id"`
	CheckoutID        string          `json:"checkout_id"`
	TransactionNumber string          `json:"transaction_number"`
	ProductID         string          `json:"product_id"`
	ProductName       string          `json:"product_name"`
	Quantity          int             `json:"quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	TotalPrice        decimal.Decimal `json:"total_price"`
	SellerName        string          `json:"seller_name"`
	CreatedBy         *string         `json:"created_by"`
	CreatedAt         time.Time       `json:"created_at"`
}
