package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/mousto-pos/internal/application/dto"
	appinv "github.com/jhoicas/mousto-pos/internal/application/inventory"
	"github.com/jhoicas/mousto-pos/internal/application/ports"
	"github.com/jhoicas/mousto-pos/internal/domain"
	"github.com/jhoicas/mousto-pos/internal/domain/entity"
	"github.com/jhoicas/mousto-pos/internal/domain/inventory"
	"github.com/jhoicas/mousto-pos/internal/domain/repository"
)

const maxProductNameLength = 200

// ProductUseCase catálogo de productos. La cantidad solo cambia vía movimientos de stock.
type ProductUseCase struct {
	repo                repository.ProductRepository
	categoryRepo        repository.CategoryRepository
	userRepo            repository.UserRepository
	txRunner            appinv.TxRunner
	movements           *appinv.MovementUseCase
	activity            ports.ActivityRecorder
	publisher           ports.ChangePublisher
	defaultMinThreshold int
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	repo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	userRepo repository.UserRepository,
	txRunner appinv.TxRunner,
	movements *appinv.MovementUseCase,
	activity ports.ActivityRecorder,
	publisher ports.ChangePublisher,
	defaultMinThreshold int,
) *ProductUseCase {
	return &ProductUseCase{
		repo:                repo,
		categoryRepo:        categoryRepo,
		userRepo:            userRepo,
		txRunner:            txRunner,
		movements:           movements,
		activity:            activity,
		publisher:           publisher,
		defaultMinThreshold: defaultMinThreshold,
	}
}

// List productos ordenados por nombre con su estado de stock.
func (uc *ProductUseCase) List(ctx context.Context, q dto.ProductListQuery) (*dto.ProductListResponse, error) {
	status, err := inventory.ParseStockFilter(q.Status)
	if err != nil {
		return nil, err
	}
	list, err := uc.repo.List(ctx, repository.ProductFilter{
		Search:          strings.TrimSpace(q.Search),
		Status:          status,
		CategoryID:      strings.TrimSpace(q.CategoryID),
		IncludeArchived: q.IncludeArchived,
		InStockOnly:     q.InStockOnly,
	})
	if err != nil {
		return nil, err
	}
	items := dto.NewProductResponses(list)
	return &dto.ProductListResponse{Items: items, Total: len(items), StockValue: StockValue(items)}, nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	out := dto.NewProductResponse(product)
	return &out, nil
}

func normalizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func (uc *ProductUseCase) checkCategory(ctx context.Context, id *string) error {
	if id == nil {
		return nil
	}
	c, err := uc.categoryRepo.GetByID(ctx, *id)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.ErrInvalidInput
	}
	return nil
}

func (uc *ProductUseCase) checkSKU(ctx context.Context, sku *string, selfID string) error {
	if sku == nil {
		return nil
	}
	existing, err := uc.repo.GetBySKU(ctx, *sku)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return domain.ErrDuplicate
	}
	return nil
}

func validName(name string) bool {
	return name != "" && len(name) <= maxProductNameLength
}

// Create crea un producto. Una cantidad inicial > 0 se registra como entrada "Stock initial".
func (uc *ProductUseCase) Create(ctx context.Context, actorID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	if !validName(name) || in.Quantity < 0 || in.UnitPrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	threshold := uc.defaultMinThreshold
	if in.MinThreshold != nil {
		threshold = *in.MinThreshold
	}
	if threshold < 0 {
		return nil, domain.ErrInvalidInput
	}
	sku, categoryID := normalizeOptional(in.SKU), normalizeOptional(in.CategoryID)
	if err := uc.checkCategory(ctx, categoryID); err != nil {
		return nil, err
	}
	if err := uc.checkSKU(ctx, sku, ""); err != nil {
		return nil, err
	}

	now := time.Now()
	product := &entity.Product{
		ID:           uuid.New().String(),
		Name:         name,
		CategoryID:   categoryID,
		SKU:          sku,
		Quantity:     0,
		MinThreshold: threshold,
		UnitPrice:    in.UnitPrice,
		ImageURL:     normalizeOptional(in.ImageURL),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	var mov *entity.StockMovement
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
		_ repository.SaleRepository,
	) error {
		mov = nil
		product.Quantity = 0
		if err := productRepo.Create(ctx, product); err != nil {
			return err
		}
		if in.Quantity == 0 {
			return nil
		}
		var err error
		mov, err = uc.movements.ApplyInTx(ctx, productRepo, movRepo, product,
			entity.MovementIn, in.Quantity, entity.ReasonInitialStock, actorID, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	out := dto.NewProductResponse(product)
	uc.publisher.Publish(ctx, ports.ChangeEvent{
		Table: ports.TableProducts, Type: ports.ChangeInsert, RecordID: product.ID, Record: out, At: now,
	})
	if mov != nil {
		uc.publisher.Publish(ctx, ports.ChangeEvent{
			Table: ports.TableStockMovements, Type: ports.ChangeInsert, RecordID: mov.ID, At: now,
		})
	}
	return &out, nil
}

// Update actualización parcial. Un cambio de cantidad se registra como "Ajustement manuel".
func (uc *ProductUseCase) Update(ctx context.Context, actorID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if in.Name != nil && !validName(strings.TrimSpace(*in.Name)) {
		return nil, domain.ErrInvalidInput
	}
	if (in.Quantity != nil && *in.Quantity < 0) ||
		(in.MinThreshold != nil && *in.MinThreshold < 0) ||
		(in.UnitPrice != nil && in.UnitPrice.IsNegative()) {
		return nil, domain.ErrInvalidInput
	}
	var sku, categoryID *string
	if in.SKU != nil {
		sku = normalizeOptional(in.SKU)
		if err := uc.checkSKU(ctx, sku, id); err != nil {
			return nil, err
		}
	}
	if in.CategoryID != nil {
		categoryID = normalizeOptional(in.CategoryID)
		if err := uc.checkCategory(ctx, categoryID); err != nil {
			return nil, err
		}
	}

	var (
		before  entity.Product
		product *entity.Product
		mov     *entity.StockMovement
		diff    int
	)
	now := time.Now()
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
		_ repository.SaleRepository,
	) error {
		var err error
		product, err = productRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		before = *product
		mov, diff = nil, 0

		if in.Name != nil {
			product.Name = strings.TrimSpace(*in.Name)
		}
		if in.SKU != nil {
			product.SKU = sku
		}
		if in.CategoryID != nil {
			product.CategoryID = categoryID
		}
		if in.MinThreshold != nil {
			product.MinThreshold = *in.MinThreshold
		}
		if in.UnitPrice != nil {
			product.UnitPrice = *in.UnitPrice
		}
		if in.ImageURL != nil {
			product.ImageURL = normalizeOptional(in.ImageURL)
		}
		product.UpdatedAt = now
		if err := productRepo.Update(ctx, product); err != nil {
			return err
		}

		if in.Quantity == nil || *in.Quantity == product.Quantity {
			return nil
		}
		diff = *in.Quantity - product.Quantity
		movType, qty := entity.MovementIn, diff
		if diff < 0 {
			movType, qty = entity.MovementOut, -diff
		}
		mov, err = uc.movements.ApplyInTx(ctx, productRepo, movRepo, product, movType, qty, entity.ReasonManualAdjust, actorID, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.activity.Record(ctx, actorID, entity.ActionEditProduct, map[string]any{
		"product_id": product.ID,
		"name":       product.Name,
		"stock_diff": diff,
	})
	uc.movements.AfterStockChange(ctx, &before, product, mov)
	out := dto.NewProductResponse(product)
	return &out, nil
}

// SetArchived archiva o restaura un producto. Un producto archivado no aparece en la venta.
func (uc *ProductUseCase) SetArchived(ctx context.Context, actorID, id string, archived bool) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.IsArchived != archived {
		// Cambio acotado: una venta o un movimiento concurrente conserva su cantidad.
		product, err = uc.repo.SetArchived(ctx, id, archived)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		uc.activity.Record(ctx, actorID, entity.ActionArchiveProduct, map[string]any{
			"product_id": product.ID,
			"archived":   archived,
		})
	}
	out := dto.NewProductResponse(product)
	uc.publisher.Publish(ctx, ports.ChangeEvent{
		Table: ports.TableProducts, Type: ports.ChangeUpdate, RecordID: product.ID, Record: out, At: product.UpdatedAt,
	})
	return &out, nil
}

// Delete elimina un producto sin historial. Con ventas o movimientos devuelve ErrConflict: hay que archivarlo.
func (uc *ProductUseCase) Delete(ctx context.Context, actorID, id string) error {
	actor, err := uc.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return err
	}
	if actor == nil || !actor.IsActive {
		return domain.ErrUnauthorized
	}
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.activity.Record(ctx, actorID, entity.ActionDeleteProduct, map[string]any{
		"product_id": id,
		"name":       product.Name,
	})
	uc.publisher.Publish(ctx, ports.ChangeEvent{
		Table: ports.TableProducts, Type: ports.ChangeDelete, RecordID: id, At: time.Now(),
	})
	return nil
}

// StockValue valor total del stock listado.
func StockValue(products []dto.ProductResponse) decimal.Decimal {
	total := decimal.Zero
	for _, p := range products {
		total = total.Add(p.UnitPrice.Mul(decimal.NewFromInt(int64(p.Quantity))))
	}
	return total
}
