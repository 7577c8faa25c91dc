package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/mousto-pos/internal/application/ports"
	"github.com/jhoicas/mousto-pos/internal/domain/entity"
	"github.com/jhoicas/mousto-pos/internal/domain/repository"
)

// LowStockSweep revisión periódica del stock crítico; avisa a los administradores
// si hay productos en ruptura o bajo su umbral.
type LowStockSweep struct {
	productRepo repository.ProductRepository
	notifier    ports.Notifier
}

// NewLowStockSweep construye la tarea.
func NewLowStockSweep(productRepo repository.ProductRepository, notifier ports.Notifier) *LowStockSweep {
	return &LowStockSweep{productRepo: productRepo, notifier: notifier}
}

// Run devuelve el número de productos críticos encontrados.
func (s *LowStockSweep) Run(ctx context.Context) (int, error) {
	critical, err := s.productRepo.ListCritical(ctx)
	if err != nil {
		return 0, err
	}
	if len(critical) == 0 {
		return 0, nil
	}
	out := 0
	for _, p := range critical {
		if p.Quantity <= 0 {
			out++
		}
	}
	msg := fmt.Sprintf("%d produit(s) sous le seuil critique, dont %d en rupture.", len(critical), out)
	s.notifier.NotifyAdmins(ctx, entity.NotificationWarning, "Récapitulatif stock", msg)
	return len(critical), nil
}
