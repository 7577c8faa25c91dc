// Package apptest repositorios en memoria y espías de puertos para probar los casos de uso
// sin base de datos.
package apptest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/mousto-pos/internal/domain"
	"github.com/jhoicas/mousto-pos/internal/domain/entity"
	"github.com/jhoicas/mousto-pos/internal/domain/repository"
)

// Store estado compartido por todos los repositorios en memoria.
type Store struct {
	mu            sync.Mutex
	products      map[string]entity.Product
	categories    map[string]entity.Category
	movements     []entity.StockMovement
	sales         []entity.Sale
	users         map[string]entity.User
	logs          []entity.ActivityLog
	notifications []entity.Notification

	// FailMovementCreate fuerza un error al insertar movimientos (prueba de rollback).
	FailMovementCreate error
	// FailSaleCreate fuerza un error al insertar ventas.
	FailSaleCreate error
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		products:   make(map[string]entity.Product),
		categories: make(map[string]entity.Category),
		users:      make(map[string]entity.User),
	}
}

// AddProduct inserta un producto directamente (fixture).
func (s *Store) AddProduct(p entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
}

// Product devuelve la copia actual de un producto.
func (s *Store) Product(id string) (entity.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	return p, ok
}

// AddUser inserta un perfil directamente (fixture).
func (s *Store) AddUser(u entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

// User devuelve la copia actual de un perfil.
func (s *Store) User(id string) (entity.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	return u, ok
}

// Movements copia de los movimientos en orden de inserción.
func (s *Store) Movements() []entity.StockMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.StockMovement(nil), s.movements...)
}

// Sales copia de las ventas en orden de inserción.
func (s *Store) Sales() []entity.Sale {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.Sale(nil), s.sales...)
}

// Logs copia del journal de actividad.
func (s *Store) Logs() []entity.ActivityLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.ActivityLog(nil), s.logs...)
}

// Notifications copia de las notificaciones.
func (s *Store) Notifications() []entity.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.Notification(nil), s.notifications...)
}

type snapshot struct {
	products  map[string]entity.Product
	movements int
	sales     int
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	products := make(map[string]entity.Product, len(s.products))
	for k, v := range s.products {
		products[k] = v
	}
	return snapshot{products: products, movements: len(s.movements), sales: len(s.sales)}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = snap.products
	s.movements = s.movements[:snap.movements]
	s.sales = s.sales[:snap.sales]
}

// TxRunner ejecuta fn y, si falla, restaura productos, movimientos y ventas.
type TxRunner struct {
	Store *Store
	Runs  int
}

// Run implementa inventory.TxRunner.
func (t *TxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	saleRepo repository.SaleRepository,
) error) error {
	t.Runs++
	snap := t.Store.snapshot()
	if err := fn(&ProductRepo{Store: t.Store}, &MovementRepo{Store: t.Store}, &SaleRepo{Store: t.Store}); err != nil {
		t.Store.restore(snap)
		return err
	}
	return nil
}

// ProductRepo implementación en memoria de repository.ProductRepository.
type ProductRepo struct{ Store *Store }

var _ repository.ProductRepository = (*ProductRepo)(nil)

func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.SKU != nil {
		for _, other := range s.products {
			if other.SKU != nil && strings.EqualFold(*other.SKU, *p.SKU) {
				return domain.ErrDuplicate
			}
		}
	}
	s.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.SKU != nil && strings.EqualFold(*p.SKU, sku) {
			out := p
			return &out, nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	if p.SKU != nil {
		for id, other := range s.products {
			if id != p.ID && other.SKU != nil && strings.EqualFold(*other.SKU, *p.SKU) {
				return domain.ErrDuplicate
			}
		}
	}
	s.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) SetArchived(ctx context.Context, id string, archived bool) (*entity.Product, error) {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, nil
	}
	p.IsArchived = archived
	p.UpdatedAt = time.Now()
	s.products[id] = p
	return &p, nil
}

func (r *ProductRepo) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	if quantity < 0 {
		return domain.ErrInsufficientStock
	}
	p.Quantity = quantity
	p.UpdatedAt = time.Now()
	s.products[id] = p
	return nil
}

func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]*entity.Product, 0)
	for _, p := range s.products {
		if p.IsArchived && !f.IncludeArchived {
			continue
		}
		if f.InStockOnly && p.Quantity <= 0 {
			continue
		}
		if f.CategoryID != "" && (p.CategoryID == nil || *p.CategoryID != f.CategoryID) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.SKUValue()), search) {
			continue
		}
		if f.Status != "" && !f.Status.Matches(p.Quantity, p.MinThreshold) {
			continue
		}
		cp := p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name) })
	return out, nil
}

func (r *ProductRepo) ListCritical(ctx context.Context) ([]*entity.Product, error) {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entity.Product, 0)
	for _, p := range s.products {
		if !p.IsArchived && p.Quantity <= p.MinThreshold {
			cp := p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity < out[j].Quantity
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return domain.ErrNotFound
	}
	for _, m := range s.movements {
		if m.ProductID == id {
			return domain.ErrConflict
		}
	}
	for _, sl := range s.sales {
		if sl.ProductID == id {
			return domain.ErrConflict
		}
	}
	delete(s.products, id)
	return nil
}

// CategoryRepo implementación en memoria de repository.CategoryRepository.
type CategoryRepo struct{ Store *Store }

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, other := range s.categories {
		if strings.EqualFold(other.Name, c.Name) {
			return domain.ErrDuplicate
		}
	}
	s.categories[c.ID] = *c
	return nil
}

func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CategoryRepo) List(ctx context.Context) ([]*entity.Category, error) {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entity.Category, 0, len(s.categories))
	for _, c := range s.categories {
		cp := c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// MovementRepo implementación en memoria de repository.StockMovementRepository.
type MovementRepo struct{ Store *Store }

var _ repository.StockMovementRepository = (*MovementRepo)(nil)

func (r *MovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailMovementCreate != nil {
		return s.FailMovementCreate
	}
	s.movements = append(s.movements, *m)
	return nil
}

// record se llama con el mutex tomado.
func (s *Store) record(m entity.StockMovement) repository.MovementRecord {
	rec := repository.MovementRecord{Movement: m, UnitPrice: decimal.Zero}
	if p, ok := s.products[m.ProductID]; ok {
		rec.ProductName = p.Name
		rec.UnitPrice = p.UnitPrice
	}
	if m.CreatedBy != nil {
		if u, ok := s.users[*m.CreatedBy]; ok {
			rec.AuthorName = u.FullName()
		}
	}
	return rec
}

func (r *MovementRepo) ListRecent(ctx context.Context, limit int) ([]repository.MovementRecord, error) {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]repository.MovementRecord, 0)
	for i := len(s.movements) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.record(s.movements[i]))
	}
	return out, nil
}

func (r *MovementRepo) ListBetween(ctx context.Context, from, to time.Time) ([]repository.MovementRecord, error) {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]repository.MovementRecord, 0)
	for _, m := range s.movements {
		if m.CreatedAt.Before(from) || m.CreatedAt.After(to) {
			continue
		}
		out = append(out, s.record(m))
	}
	return out, nil
}

// SaleRepo implementación en memoria de repository.SaleRepository.
type SaleRepo struct{ Store *Store }

var _ repository.SaleRepository = (*SaleRepo)(nil)

func (r *SaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailSaleCreate != nil {
		return s.FailSaleCreate
	}
	s.sales = append(s.sales, *sale)
	return nil
}

func (s *Store) saleRecord(sale entity.Sale) repository.SaleRecord {
	rec := repository.SaleRecord{Sale: sale}
	if p, ok := s.products[sale.ProductID]; ok {
		rec.ProductName = p.Name
	}
	return rec
}

func (r *SaleRepo) GetByID(ctx context.Context, id string) (*repository.SaleRecord, error) {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sale := range s.sales {
		if sale.ID == id {
			rec := s.saleRecord(sale)
			return &rec, nil
		}
	}
	return nil, nil
}

func (r *SaleRepo) ListByCheckout(ctx context.Context, checkoutID string) ([]repository.SaleRecord, error) {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]repository.SaleRecord, 0)
	for _, sale := range s.sales {
		if sale.CheckoutID == checkoutID {
			out = append(out, s.saleRecord(sale))
		}
	}
	return out, nil
}

// filtered ventas que cumplen la búsqueda, más recientes primero (mutex tomado).
func (s *Store) filtered(search string) []repository.SaleRecord {
	search = strings.ToLower(strings.TrimSpace(search))
	out := make([]repository.SaleRecord, 0)
	for i := len(s.sales) - 1; i >= 0; i-- {
		rec := s.saleRecord(s.sales[i])
		if search != "" && !strings.Contains(strings.ToLower(rec.ProductName), search) &&
			!strings.Contains(strings.ToLower(rec.Sale.SellerName), search) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func (r *SaleRepo) List(ctx context.Context, f repository.SaleFilter) ([]repository.SaleRecord, int, error) {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.filtered(f.Search)
	total := len(all)
	if f.Offset >= total {
		return []repository.SaleRecord{}, total, nil
	}
	all = all[f.Offset:]
	if f.Limit > 0 && len(all) > f.Limit {
		all = all[:f.Limit]
	}
	return all, total, nil
}

func (r *SaleRepo) Revenue(ctx context.Context, search string) (decimal.Decimal, error) {
	s := r.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for _, rec := range s.filtered(search) {
		total = total.Add(rec.Sale.TotalPrice)
	}
	return total, nil
}
