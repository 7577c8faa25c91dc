package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/mousto-pos/internal/domain/entity"
	"github.com/jhoicas/mousto-pos/internal/domain/inventory"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Name         string          `json:"name"`
	CategoryID   *string         `json:"category_id"`
	SKU          *string         `json:"sku"`
	Quantity     int             `json:"quantity"`
	MinThreshold *int            `json:"min_threshold"` // nil = umbral por defecto de la tienda
	UnitPrice    decimal.Decimal `json:"unit_price"`
	ImageURL     *string         `json:"image_url"`
}

// UpdateProductRequest actualización parcial; un cambio de Quantity genera un movimiento de ajuste.
type UpdateProductRequest struct {
	Name         *string          `json:"name"`
	CategoryID   *string          `json:"category_id"`
	SKU          *string          `json:"sku"`
	Quantity     *int             `json:"quantity"`
	MinThreshold *int             `json:"min_threshold"`
	UnitPrice    *decimal.Decimal `json:"unit_price"`
	ImageURL     *string          `json:"image_url"`
}

// RestockRequest entrada de réapprovisionnement.
type RestockRequest struct {
	Quantity int    `json:"quantity"`
	Reason   string `json:"reason"`
}

// ProductListQuery filtros del listado de inventario.
type ProductListQuery struct {
	Search          string `query:"search"`
	Status          string `query:"status"` // all | low | out
	CategoryID      string `query:"category_id"`
	IncludeArchived bool   `query:"include_archived"`
	InStockOnly     bool   `query:"in_stock_only"`
}

// ProductResponse salida de un producto con su estado de stock calculado.
type ProductResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	CategoryID   *string         `json:"category_id"`
	SKU          *string         `json:"sku"`
	Quantity     int             `json:"quantity"`
	MinThreshold int             `json:"min_threshold"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	ImageURL     *string         `json:"image_url"`
	IsArchived   bool            `json:"is_archived"`
	StockStatus  string          `json:"stock_status"` // out | critical | in_stock
	StockLabel   string          `json:"stock_label"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ProductListResponse listado de productos.
type ProductListResponse struct {
	Items      []ProductResponse `json:"items"`
	Total      int               `json:"total"`
	StockValue decimal.Decimal   `json:"stock_value"`
}

// CreateCategoryRequest entrada para crear una categoría.
type CreateCategoryRequest struct {
	Name string `json:"name"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NewProductResponse mapea la entidad con su estado de stock calculado.
func NewProductResponse(p *entity.Product) ProductResponse {
	status := inventory.StatusOf(p.Quantity, p.MinThreshold)
	return ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		CategoryID:   p.CategoryID,
		SKU:          p.SKU,
		Quantity:     p.Quantity,
		MinThreshold: p.MinThreshold,
		UnitPrice:    p.UnitPrice,
		ImageURL:     p.ImageURL,
		IsArchived:   p.IsArchived,
		StockStatus:  string(status),
		StockLabel:   status.Label(),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// NewProductResponses mapea un listado.
func NewProductResponses(products []*entity.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, NewProductResponse(p))
	}
	return out
}
