package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/mousto-pos/internal/application/dto"
	"github.com/jhoicas/mousto-pos/internal/application/ports"
	"github.com/jhoicas/mousto-pos/internal/domain"
	"github.com/jhoicas/mousto-pos/internal/domain/entity"
	"github.com/jhoicas/mousto-pos/internal/domain/repository"
)

const maxReasonLength = 255

// MovementUseCase registra movimientos de stock de forma transaccional
// con bloqueo de fila (SELECT FOR UPDATE) y Commit/Rollback.
type MovementUseCase struct {
	txRunner  TxRunner
	activity  ports.ActivityRecorder
	notifier  ports.Notifier
	publisher ports.ChangePublisher
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(
	txRunner TxRunner,
	activity ports.ActivityRecorder,
	notifier ports.Notifier,
	publisher ports.ChangePublisher,
) *MovementUseCase {
	return &MovementUseCase{txRunner: txRunner, activity: activity, notifier: notifier, publisher: publisher}
}

// RegisterMovement registra una entrada o salida manual.
func (uc *MovementUseCase) RegisterMovement(ctx context.Context, actorID string, in dto.RegisterMovementRequest) (*dto.MovementResponse, error) {
	movType := entity.MovementType(strings.ToLower(strings.TrimSpace(in.Type)))
	if in.ProductID == "" || !movType.Valid() {
		return nil, domain.ErrInvalidInput
	}

	var (
		mov           *entity.StockMovement
		before, after entity.Product
	)
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
		_ repository.SaleRepository,
	) error {
		product, err := productRepo.GetForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		before = *product
		mov, err = uc.ApplyInTx(ctx, productRepo, movRepo, product, movType, in.Quantity, in.Reason, actorID, time.Now())
		if err != nil {
			return err
		}
		after = *product
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.AfterStockChange(ctx, &before, &after, mov)
	return toMovementResponse(mov, after.Quantity), nil
}

// Restock entrada de réapprovisionnement (+cantidad) con su registro de actividad.
func (uc *MovementUseCase) Restock(ctx context.Context, actorID, productID string, in dto.RestockRequest) (*dto.MovementResponse, error) {
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		reason = entity.ReasonRestock
	}
	out, err := uc.RegisterMovement(ctx, actorID, dto.RegisterMovementRequest{
		ProductID: productID,
		Type:      string(entity.MovementIn),
		Quantity:  in.Quantity,
		Reason:    reason,
	})
	if err != nil {
		return nil, err
	}
	uc.activity.Record(ctx, actorID, entity.ActionRestockProduct, map[string]any{
		"product_id": productID,
		"added":      in.Quantity,
	})
	return out, nil
}

// ApplyInTx aplica un movimiento sobre un producto ya bloqueado por el caller (misma transacción).
// Actualiza product.Quantity en memoria y en la DB e inserta el movimiento.
// Si retorna error (ej: ErrInsufficientStock), el caller debe hacer rollback.
func (uc *MovementUseCase) ApplyInTx(
	ctx context.Context,
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	product *entity.Product,
	movType entity.MovementType,
	quantity int,
	reason, actorID string,
	now time.Time,
) (*entity.StockMovement, error) {
	reason = strings.TrimSpace(reason)
	if !movType.Valid() || quantity <= 0 || reason == "" || len(reason) > maxReasonLength {
		return nil, domain.ErrInvalidInput
	}
	if movType == entity.MovementOut && quantity > product.Quantity {
		return nil, fmt.Errorf("%w: %s (disponible %d)", domain.ErrInsufficientStock, product.Name, product.Quantity)
	}

	mov := &entity.StockMovement{
		ID:        uuid.New().String(),
		ProductID: product.ID,
		Type:      movType,
		Quantity:  quantity,
		Reason:    reason,
		CreatedAt: now,
	}
	if actorID != "" {
		mov.CreatedBy = &actorID
	}
	newQty := product.Quantity + mov.Delta()
	if err := productRepo.UpdateQuantity(ctx, product.ID, newQty); err != nil {
		return nil, err
	}
	if err := movRepo.Create(ctx, mov); err != nil {
		return nil, err
	}
	product.Quantity = newQty
	product.UpdatedAt = now
	return mov, nil
}

// AfterStockChange difunde el cambio ya confirmado y avisa a los administradores
// cuando el producto cruza su umbral crítico.
func (uc *MovementUseCase) AfterStockChange(ctx context.Context, before, after *entity.Product, mov *entity.StockMovement) {
	if mov != nil {
		uc.publisher.Publish(ctx, ports.ChangeEvent{
			Table: ports.TableStockMovements, Type: ports.ChangeInsert, RecordID: mov.ID, At: mov.CreatedAt,
		})
	}
	uc.publisher.Publish(ctx, ports.ChangeEvent{
		Table:    ports.TableProducts,
		Type:     ports.ChangeUpdate,
		RecordID: after.ID,
		Record:   map[string]any{"id": after.ID, "name": after.Name, "quantity": after.Quantity, "min_threshold": after.MinThreshold},
		At:       after.UpdatedAt,
	})
	if CrossedThreshold(before, after) {
		title, msg := LowStockMessage(after)
		uc.notifier.NotifyAdmins(ctx, entity.NotificationLowStock, title, msg)
	}
}

// CrossedThreshold indica si el stock pasó de normal a crítico con este cambio.
func CrossedThreshold(before, after *entity.Product) bool {
	return before.Quantity > before.MinThreshold && after.Quantity <= after.MinThreshold
}

// LowStockMessage título y mensaje de la alerta de stock.
func LowStockMessage(p *entity.Product) (string, string) {
	if p.Quantity <= 0 {
		return "Rupture de stock", fmt.Sprintf("Alerte Stock : %s est en rupture !", p.Name)
	}
	return "Stock critique", fmt.Sprintf("Alerte Stock : %s est critique ! (%d restant(s), seuil %d)", p.Name, p.Quantity, p.MinThreshold)
}

func toMovementResponse(m *entity.StockMovement, stockAfter int) *dto.MovementResponse {
	return &dto.MovementResponse{
		ID:         m.ID,
		ProductID:  m.ProductID,
		Type:       string(m.Type),
		Quantity:   m.Quantity,
		Reason:     m.Reason,
		CreatedBy:  m.CreatedBy,
		CreatedAt:  m.CreatedAt,
		StockAfter: stockAfter,
	}
}
