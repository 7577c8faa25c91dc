package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/mousto-pos/internal/domain/entity"
	"github.com/jhoicas/mousto-pos/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste una línea de venta.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	query := `
		INSERT INTO sales (id, checkout_id, product_id, quantity, total_price, seller_name, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query, s.ID, s.CheckoutID, s.ProductID, s.Quantity, s.TotalPrice, s.SellerName, s.CreatedBy, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("create sale: %w", err)
	}
	return nil
}

const saleRecordQuery = `
	SELECT s.id, s.checkout_id, s.product_id, s.quantity, s.total_price, s.seller_name, s.created_by, s.created_at, p.name
	FROM sales s
	JOIN products p ON p.id = s.product_id`

func scanSaleRecord(row pgx.Row) (repository.SaleRecord, error) {
	var rec repository.SaleRecord
	s := &rec.Sale
	err := row.Scan(&s.ID, &s.CheckoutID, &s.ProductID, &s.Quantity, &s.TotalPrice, &s.SellerName, &s.CreatedBy, &s.CreatedAt, &rec.ProductName)
	return rec, err
}

// GetByID obtiene una venta con el nombre del producto.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*repository.SaleRecord, error) {
	rec, err := scanSaleRecord(r.q.QueryRow(ctx, saleRecordQuery+` WHERE s.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return &rec, nil
}

// ListByCheckout líneas de un mismo checkout en orden de inserción.
func (r *SaleRepo) ListByCheckout(ctx context.Context, checkoutID string) ([]repository.SaleRecord, error) {
	return r.list(ctx, saleRecordQuery+` WHERE s.checkout_id = $1 ORDER BY s.created_at, p.name`, checkoutID)
}

func searchClause(search string, args []any) (string, []any) {
	if strings.TrimSpace(search) == "" {
		return "", args
	}
	args = append(args, likePattern(search))
	p := fmt.Sprintf("$%d", len(args))
	return ` WHERE (p.name ILIKE ` + p + ` OR s.seller_name ILIKE ` + p + `)`, args
}

// List ventas más recientes primero con el total de filas que cumplen la búsqueda.
func (r *SaleRepo) List(ctx context.Context, f repository.SaleFilter) ([]repository.SaleRecord, int, error) {
	where, args := searchClause(f.Search, nil)

	var total int
	countQuery := `SELECT count(*) FROM sales s JOIN products p ON p.id = s.product_id` + where
	if err := r.q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sales: %w", err)
	}

	query := saleRecordQuery + where + ` ORDER BY s.created_at DESC, s.id`
	if f.Limit > 0 {
		args = append(args, f.Limit, f.Offset)
		query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	}
	items, err := r.list(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Revenue suma de total_price del conjunto filtrado.
func (r *SaleRepo) Revenue(ctx context.Context, search string) (decimal.Decimal, error) {
	where, args := searchClause(search, nil)
	var total decimal.Decimal
	query := `SELECT COALESCE(SUM(s.total_price), 0) FROM sales s JOIN products p ON p.id = s.product_id` + where
	if err := r.q.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("sales revenue: %w", err)
	}
	return total, nil
}

func (r *SaleRepo) list(ctx context.Context, query string, args ...any) ([]repository.SaleRecord, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	out := make([]repository.SaleRecord, 0)
	for rows.Next() {
		rec, err := scanSaleRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
