package entity

import "time"

// MovementType sentido del movimiento de stock.
type MovementType string

// Tipos de movimiento de stock.
const (
	MovementIn  MovementType = "in"  // entrada
	MovementOut MovementType = "out" // salida
)

// Valid indica si el tipo es in u out.
func (t MovementType) Valid() bool {
	return t == MovementIn || t == MovementOut
}

// Motivos usados por el sistema al generar movimientos automáticamente.
const (
	ReasonInitialStock = "Stock initial"
	ReasonManualAdjust = "Ajustement manuel"
	ReasonRestock      = "Réapprovisionnement"
	ReasonSale         = "Vente"
)

// StockMovement incremento (in) o decremento (out) registrado del stock de un producto.
// Quantity siempre es positiva; el signo lo da Type.
type StockMovement struct {
	ID        string
	ProductID string
	Type      MovementType
	Quantity  int
	Reason    string
	CreatedBy *string // UserID; nil si lo generó el sistema
	CreatedAt time.Time
}

// Delta devuelve la variación con signo que el movimiento aplica al stock.
func (m *StockMovement) Delta() int {
	if m.Type == MovementOut {
		return -m.Quantity
	}
	return m.Quantity
}
