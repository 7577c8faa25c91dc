package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/mousto-pos/internal/application/dto"
	"github.com/jhoicas/mousto-pos/internal/domain/entity"
	domaininv "github.com/jhoicas/mousto-pos/internal/domain/inventory"
	"github.com/jhoicas/mousto-pos/internal/domain/repository"
)

const replenishmentWindowDays = 30

// ReplenishmentUseCase genera la lista de reposición a partir de los productos críticos.
// Prioriza las rupturas y luego los productos con más salidas recientes.
type ReplenishmentUseCase struct {
	productRepo repository.ProductRepository
	movRepo     repository.StockMovementRepository
	now         func() time.Time
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(productRepo repository.ProductRepository, movRepo repository.StockMovementRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{productRepo: productRepo, movRepo: movRepo, now: time.Now}
}

// IdealStock nivel objetivo: 1,5 × umbral, siempre por encima del umbral.
func IdealStock(minThreshold int) int {
	ideal := decimal.NewFromInt(int64(minThreshold)).Mul(decimal.NewFromFloat(1.5)).Ceil().IntPart()
	if int(ideal) <= minThreshold {
		return minThreshold + 1
	}
	return int(ideal)
}

// GenerateList devuelve los productos críticos con la cantidad sugerida y su prioridad (1 = más urgente).
func (uc *ReplenishmentUseCase) GenerateList(ctx context.Context) ([]dto.ReplenishmentSuggestion, error) {
	critical, err := uc.productRepo.ListCritical(ctx)
	if err != nil {
		return nil, err
	}
	if len(critical) == 0 {
		return []dto.ReplenishmentSuggestion{}, nil
	}

	// Salidas de los últimos 30 días por producto
	end := uc.now()
	start := end.AddDate(0, 0, -replenishmentWindowDays)
	records, err := uc.movRepo.ListBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	sold := make(map[string]int, len(records))
	for _, r := range records {
		if r.Movement.Type == entity.MovementOut {
			sold[r.Movement.ProductID] += r.Movement.Quantity
		}
	}

	out := make([]dto.ReplenishmentSuggestion, 0, len(critical))
	for _, p := range critical {
		ideal := IdealStock(p.MinThreshold)
		suggested := ideal - p.Quantity
		if suggested < 0 {
			suggested = 0
		}
		out = append(out, dto.ReplenishmentSuggestion{
			ProductID:     p.ID,
			ProductName:   p.Name,
			SKU:           p.SKUValue(),
			Quantity:      p.Quantity,
			MinThreshold:  p.MinThreshold,
			StockStatus:   string(domaininv.StatusOf(p.Quantity, p.MinThreshold)),
			IdealStock:    ideal,
			SuggestedQty:  suggested,
			EstimatedCost: p.UnitPrice.Mul(decimal.NewFromInt(int64(suggested))),
			UnitsSold30d:  sold[p.ID],
		})
	}

	// Orden: rupturas primero, luego mayor volumen vendido, luego mayor déficit
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		aOut, bOut := a.Quantity <= 0, b.Quantity <= 0
		if aOut != bOut {
			return aOut
		}
		if a.UnitsSold30d != b.UnitsSold30d {
			return a.UnitsSold30d > b.UnitsSold30d
		}
		return a.SuggestedQty > b.SuggestedQty
	})
	for i := range out {
		out[i].Priority = i + 1
	}
	return out, nil
}
