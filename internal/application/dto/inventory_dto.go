package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest entrada para registrar un movimiento manual de stock.
type RegisterMovementRequest struct {
	ProductID string `json:"product_id"`
	Type      string `json:"type"` // in | out
	Quantity  int    `json:"quantity"`
	Reason    string `json:"reason"`
}

// MovementResponse movimiento registrado con el stock resultante.
type MovementResponse struct {
	ID         string    `json:"id"`
	ProductID  string    `json:"product_id"`
	Type       string    `json:"type"`
	Quantity   int       `json:"quantity"`
	Reason     string    `json:"reason"`
	CreatedBy  *string   `json:"created_by"`
	CreatedAt  time.Time `json:"created_at"`
	StockAfter int       `json:"stock_after"`
}

// JournalQuery filtros del journal de auditoría.
type JournalQuery struct {
	AuthorID string `query:"author_id"` // vacío o "all" = todos
	PageRequest
}

// JournalEntry movimiento mostrado en el journal de auditoría.
type JournalEntry struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Value       decimal.Decimal `json:"value"` // cantidad × precio unitario
	Type        string          `json:"type"`
	Quantity    int             `json:"quantity"`
	Reason      string          `json:"reason"`
	AuthorID    *string         `json:"author_id"`
	Author      string          `json:"author"`
	CreatedAt   time.Time       `json:"created_at"`
}

// AuthorOption autor seleccionable en el filtro del journal.
type AuthorOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// JournalResponse página del journal y lista de autores.
type JournalResponse struct {
	Items   []JournalEntry `json:"items"`
	Authors []AuthorOption `json:"authors"`
	Page    PageResponse   `json:"page"`
}

// ReplenishmentSuggestion producto crítico con la cantidad sugerida a reponer.
type ReplenishmentSuggestion struct {
	ProductID     string          `json:"product_id"`
	ProductName   string          `json:"product_name"`
	SKU           string          `json:"sku"`
	Quantity      int             `json:"quantity"`
	MinThreshold  int             `json:"min_threshold"`
	StockStatus   string          `json:"stock_status"`
	IdealStock    int             `json:"ideal_stock"`
	SuggestedQty  int             `json:"suggested_qty"`
	EstimatedCost decimal.Decimal `json:"estimated_cost"` // a precio unitario de venta
	UnitsSold30d  int             `json:"units_sold_30d"`
	Priority      int             `json:"priority"`
}
