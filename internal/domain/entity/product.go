package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un artículo del catálogo. Quantity es el stock disponible;
// solo cambia mediante movimientos de stock (entrada, salida, ajuste o venta).
type Product struct {
	ID           string
	Name         string
	CategoryID   *string
	SKU          *string // único cuando está presente
	Quantity     int
	MinThreshold int // umbral de stock crítico
	UnitPrice    decimal.Decimal
	ImageURL     *string
	IsArchived   bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsCritical indica si el stock está en o por debajo del umbral (incluye rupturas).
func (p *Product) IsCritical() bool {
	return p.Quantity <= p.MinThreshold
}

// StockValue valor del stock a precio de venta.
func (p *Product) StockValue() decimal.Decimal {
	return p.UnitPrice.Mul(decimal.NewFromInt(int64(p.Quantity)))
}

// SKUValue devuelve el SKU o cadena vacía.
func (p *Product) SKUValue() string {
	if p.SKU == nil {
		return ""
	}
	return *p.SKU
}
