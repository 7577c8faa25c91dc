// Package inventory reúne las reglas puras del inventario: estado del stock,
// carrito de venta, síntesis de movimientos y serie diaria de ventas.
package inventory

import (
	"fmt"
	"strings"

	"github.com/jhoicas/mousto-pos/internal/domain"
)

// StockStatus estado del stock de un producto según su umbral.
type StockStatus string

// Estados posibles.
const (
	StatusOut      StockStatus = "out"
	StatusCritical StockStatus = "critical"
	StatusInStock  StockStatus = "in_stock"
)

// StatusOf clasifica una cantidad: 0 es ruptura, hasta el umbral es crítico.
func StatusOf(quantity, minThreshold int) StockStatus {
	switch {
	case quantity <= 0:
		return StatusOut
	case quantity <= minThreshold:
		return StatusCritical
	default:
		return StatusInStock
	}
}

// Label etiqueta mostrada en pantalla y en exportaciones.
func (s StockStatus) Label() string {
	switch s {
	case StatusOut:
		return "Rupture"
	case StatusCritical:
		return "Critique"
	default:
		return "En stock"
	}
}

// StockFilter filtro del listado de inventario.
type StockFilter string

// Filtros del listado.
const (
	FilterAll StockFilter = "all"
	FilterLow StockFilter = "low" // 0 < cantidad <= umbral
	FilterOut StockFilter = "out" // cantidad == 0
)

// ParseStockFilter acepta all, low, out (vacío = all).
func ParseStockFilter(s string) (StockFilter, error) {
	switch f := StockFilter(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FilterAll:
		return FilterAll, nil
	case FilterLow, FilterOut:
		return f, nil
	default:
		return "", fmt.Errorf("%w: filtre de stock inconnu %q", domain.ErrInvalidInput, s)
	}
}

// Matches indica si una cantidad pasa el filtro.
func (f StockFilter) Matches(quantity, minThreshold int) bool {
	switch f {
	case FilterLow:
		return quantity > 0 && quantity <= minThreshold
	case FilterOut:
		return quantity == 0
	default:
		return true
	}
}
