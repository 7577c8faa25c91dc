// Package sales casos de uso del punto de venta: cotización, validación del carrito y recibos.
package sales

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/mousto-pos/internal/application/dto"
	appinv "github.com/jhoicas/mousto-pos/internal/application/inventory"
	"github.com/jhoicas/mousto-pos/internal/application/ports"
	"github.com/jhoicas/mousto-pos/internal/domain"
	"github.com/jhoicas/mousto-pos/internal/domain/entity"
	"github.com/jhoicas/mousto-pos/internal/domain/inventory"
	"github.com/jhoicas/mousto-pos/internal/domain/repository"
	"github.com/jhoicas/mousto-pos/pkg/money"
)

// StoreInfo datos de la tienda impresos en los recibos.
type StoreInfo struct {
	Name     string
	Currency string
}

// CheckoutUseCase valida carritos: ventas, salidas de stock y avisos en una sola transacción.
type CheckoutUseCase struct {
	txRunner    appinv.TxRunner
	productRepo repository.ProductRepository
	saleRepo    repository.SaleRepository
	userRepo    repository.UserRepository
	movements   *appinv.MovementUseCase
	activity    ports.ActivityRecorder
	notifier    ports.Notifier
	publisher   ports.ChangePublisher
	metrics     ports.SalesMetrics
	receipts    ports.ReceiptRenderer
	store       StoreInfo
	now         func() time.Time
}

// NewCheckoutUseCase construye el caso de uso.
func NewCheckoutUseCase(
	txRunner appinv.TxRunner,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	userRepo repository.UserRepository,
	movements *appinv.MovementUseCase,
	activity ports.ActivityRecorder,
	notifier ports.Notifier,
	publisher ports.ChangePublisher,
	metrics ports.SalesMetrics,
	receipts ports.ReceiptRenderer,
	store StoreInfo,
) *CheckoutUseCase {
	return &CheckoutUseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		saleRepo:    saleRepo,
		userRepo:    userRepo,
		movements:   movements,
		activity:    activity,
		notifier:    notifier,
		publisher:   publisher,
		metrics:     metrics,
		receipts:    receipts,
		store:       store,
		now:         time.Now,
	}
}

func toCartItems(in []dto.CartItemRequest) []inventory.CartItem {
	items := make([]inventory.CartItem, 0, len(in))
	for _, it := range in {
		items = append(items, inventory.CartItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return items
}

// productIDs ids distintos ordenados: los bloqueos se toman siempre en el mismo orden.
func productIDs(in []dto.CartItemRequest) []string {
	seen := make(map[string]bool, len(in))
	ids := make([]string, 0, len(in))
	for _, it := range in {
		if it.ProductID == "" || seen[it.ProductID] {
			continue
		}
		seen[it.ProductID] = true
		ids = append(ids, it.ProductID)
	}
	sort.Strings(ids)
	return ids
}

func toLineResponses(cart *inventory.Cart) []dto.CartLineResponse {
	lines := cart.Lines()
	out := make([]dto.CartLineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, dto.CartLineResponse{
			ProductID: l.ProductID,
			Name:      l.Name,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
			LineTotal: l.LineTotal(),
			Available: l.Stock,
		})
	}
	return out
}

// Quote valida el carrito contra el stock actual sin escribir nada. Con Edit aplica
// antes la edición del vendedor (agregar, sumar o quitar) con las reglas del carrito.
func (uc *CheckoutUseCase) Quote(ctx context.Context, in dto.QuoteRequest) (*dto.QuoteResponse, error) {
	if len(in.Items) == 0 && in.Edit == nil {
		return nil, domain.ErrEmptyCart
	}
	requested := in.Items
	if in.Edit != nil && in.Edit.ProductID != "" {
		requested = append(requested[:len(requested):len(requested)], dto.CartItemRequest{ProductID: in.Edit.ProductID})
	}
	products := make(map[string]*entity.Product)
	for _, id := range productIDs(requested) {
		p, err := uc.productRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if p != nil {
			products[id] = p
		}
	}

	cart := inventory.NewCart()
	if len(in.Items) > 0 {
		var err error
		if cart, err = inventory.BuildCart(toCartItems(in.Items), products); err != nil {
			return nil, err
		}
	}
	if in.Edit != nil {
		if err := applyEdit(cart, *in.Edit, products); err != nil {
			return nil, err
		}
	}
	return &dto.QuoteResponse{Items: toLineResponses(cart), Units: cart.Units(), Total: cart.Total()}, nil
}

func applyEdit(cart *inventory.Cart, e dto.CartEditRequest, products map[string]*entity.Product) error {
	if e.ProductID == "" {
		return fmt.Errorf("%w: produit manquant", domain.ErrInvalidInput)
	}
	switch e.Action {
	case dto.CartEditAdd:
		return cart.Add(products[e.ProductID])
	case dto.CartEditDelta:
		return cart.UpdateQty(e.ProductID, e.Delta)
	case dto.CartEditRemove:
		cart.Remove(e.ProductID)
		return nil
	default:
		return fmt.Errorf("%w: action %q", domain.ErrInvalidInput, e.Action)
	}
}

// Checkout valida el carrito del vendedor. Todo o nada: si una línea falla no se escribe ninguna venta.
func (uc *CheckoutUseCase) Checkout(ctx context.Context, actorID string, in dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	resp, err := uc.checkout(ctx, actorID, in)
	if err != nil {
		uc.metrics.ObserveCheckoutFailure(failureReason(err))
		return nil, err
	}
	return resp, nil
}

type lockedProduct struct {
	before entity.Product
	after  *entity.Product
	mov    *entity.StockMovement
}

func (uc *CheckoutUseCase) checkout(ctx context.Context, actorID string, in dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrEmptyCart
	}
	actor, err := uc.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, domain.ErrUnauthorized
	}
	if !actor.IsActive {
		return nil, domain.ErrAccountDisabled
	}
	seller := actor.FullName()
	checkoutID := uuid.New().String()
	now := uc.now()

	var (
		cart    *inventory.Cart
		saleIDs []string
		locked  []*lockedProduct
	)
	err = uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
		saleRepo repository.SaleRepository,
	) error {
		locked = locked[:0]
		saleIDs = saleIDs[:0]
		products := make(map[string]*entity.Product)
		byID := make(map[string]*lockedProduct)
		for _, id := range productIDs(in.Items) {
			p, err := productRepo.GetForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if p == nil {
				continue
			}
			products[id] = p
			lp := &lockedProduct{before: *p, after: p}
			byID[id] = lp
			locked = append(locked, lp)
		}

		var err error
		cart, err = inventory.BuildCart(toCartItems(in.Items), products)
		if err != nil {
			return err
		}

		for _, line := range cart.Lines() {
			sale := &entity.Sale{
				ID:         uuid.New().String(),
				CheckoutID: checkoutID,
				ProductID:  line.ProductID,
				Quantity:   line.Quantity,
				TotalPrice: line.LineTotal(),
				SellerName: seller,
				CreatedBy:  &actor.ID,
				CreatedAt:  now,
			}
			if err := saleRepo.Create(ctx, sale); err != nil {
				return err
			}
			saleIDs = append(saleIDs, sale.ID)

			lp := byID[line.ProductID]
			mov, err := uc.movements.ApplyInTx(ctx, productRepo, movRepo, lp.after,
				entity.MovementOut, line.Quantity, entity.ReasonSale, actor.ID, now)
			if err != nil {
				return err
			}
			lp.mov = mov
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	total := cart.Total()
	uc.afterCommit(ctx, actor, checkoutID, cart, saleIDs, locked, now)

	return &dto.CheckoutResponse{
		CheckoutID: checkoutID,
		SaleIDs:    saleIDs,
		Items:      toLineResponses(cart),
		Total:      total,
		SellerName: seller,
		CreatedAt:  now,
	}, nil
}

// afterCommit efectos posteriores a la transacción; ninguno puede anular la venta.
func (uc *CheckoutUseCase) afterCommit(
	ctx context.Context,
	actor *entity.User,
	checkoutID string,
	cart *inventory.Cart,
	saleIDs []string,
	locked []*lockedProduct,
	now time.Time,
) {
	total := cart.Total()
	items := make([]map[string]any, 0, cart.Len())
	for _, l := range cart.Lines() {
		items = append(items, map[string]any{
			"product_id": l.ProductID,
			"name":       l.Name,
			"quantity":   l.Quantity,
			"line_total": l.LineTotal().String(),
		})
	}
	uc.activity.Record(ctx, actor.ID, entity.ActionCheckout, map[string]any{
		"checkout_id": checkoutID,
		"total":       total.String(),
		"items":       items,
	})

	uc.notifier.NotifyAdmins(ctx, entity.NotificationSale, "Nouvelle vente",
		fmt.Sprintf("%s a encaissé %s (%d article(s)).", actor.FullName(), money.Format(total, uc.store.Currency), cart.Units()))

	for _, id := range saleIDs {
		uc.publisher.Publish(ctx, ports.ChangeEvent{
			Table: ports.TableSales, Type: ports.ChangeInsert, RecordID: id, At: now,
			Record: map[string]any{"checkout_id": checkoutID},
		})
	}
	for _, lp := range locked {
		if lp.mov == nil {
			continue
		}
		uc.movements.AfterStockChange(ctx, &lp.before, lp.after, lp.mov)
	}

	uc.metrics.ObserveCheckout(cart.Len(), cart.Units(), total)
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrInvalidInput):
		return "invalid_cart"
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrAccountDisabled):
		return "unauthorized"
	default:
		return "error"
	}
}
