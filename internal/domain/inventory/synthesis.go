package inventory

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/mousto-pos/internal/domain/entity"
)

// MovementFact movimiento ya enriquecido con datos del producto.
type MovementFact struct {
	ProductID   string
	ProductName string
	UnitPrice   decimal.Decimal
	Type        entity.MovementType
	Quantity    int
}

// SynthesisRow agregado de movimientos de un producto en el período.
type SynthesisRow struct {
	ProductID   string
	ProductName string
	InQty       int
	OutQty      int
	Net         int
	Movements   int
	OutValue    decimal.Decimal // salidas valorizadas a precio unitario
}

// Synthesis reporte de síntesis con totales.
type Synthesis struct {
	Rows          []SynthesisRow
	TotalIn       int
	TotalOut      int
	TotalOutValue decimal.Decimal
}

// Synthesize agrupa los movimientos por producto, ordenados por nombre.
func Synthesize(facts []MovementFact) Synthesis {
	byProduct := make(map[string]*SynthesisRow)
	for _, f := range facts {
		row, ok := byProduct[f.ProductID]
		if !ok {
			row = &SynthesisRow{ProductID: f.ProductID, ProductName: f.ProductName, OutValue: decimal.Zero}
			byProduct[f.ProductID] = row
		}
		row.Movements++
		switch f.Type {
		case entity.MovementIn:
			row.InQty += f.Quantity
		case entity.MovementOut:
			row.OutQty += f.Quantity
			row.OutValue = row.OutValue.Add(f.UnitPrice.Mul(decimal.NewFromInt(int64(f.Quantity))))
		}
	}

	out := Synthesis{Rows: make([]SynthesisRow, 0, len(byProduct)), TotalOutValue: decimal.Zero}
	for _, row := range byProduct {
		row.Net = row.InQty - row.OutQty
		out.TotalIn += row.InQty
		out.TotalOut += row.OutQty
		out.TotalOutValue = out.TotalOutValue.Add(row.OutValue)
		out.Rows = append(out.Rows, *row)
	}
	sort.Slice(out.Rows, func(i, j int) bool {
		a, b := strings.ToLower(out.Rows[i].ProductName), strings.ToLower(out.Rows[j].ProductName)
		if a == b {
			return out.Rows[i].ProductID < out.Rows[j].ProductID
		}
		return a < b
	})
	return out
}
