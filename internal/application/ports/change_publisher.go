package ports

import (
	"context"
	"time"
)

// ChangeType tipo de cambio sobre una tabla.
type ChangeType string

// Tipos de cambio emitidos al feed de tiempo real.
const (
	ChangeInsert ChangeType = "INSERT"
	ChangeUpdate ChangeType = "UPDATE"
	ChangeDelete ChangeType = "DELETE"
)

// Tablas observables por los clientes.
const (
	TableProducts       = "products"
	TableSales          = "sales"
	TableStockMovements = "stock_movements"
	TableProfiles       = "profiles"
	TableNotifications  = "notifications"
	TableActivityLogs   = "activity_logs"
	TableCategories     = "categories"
)

// ChangeEvent cambio emitido tras una escritura confirmada.
// Si UserID no está vacío, solo lo reciben las conexiones de ese usuario.
type ChangeEvent struct {
	Table    string     `json:"table"`
	Type     ChangeType `json:"type"`
	RecordID string     `json:"record_id"`
	UserID   string     `json:"user_id,omitempty"`
	Record   any        `json:"record,omitempty"`
	At       time.Time  `json:"at"`
}

// ChangePublisher difunde cambios a los suscriptores. Publish no bloquea ni falla:
// un suscriptor lento se descarta, nunca frena al caso de uso.
type ChangePublisher interface {
	Publish(ctx context.Context, event ChangeEvent)
}

// NopPublisher descarta los eventos (tests, ops server desactivado).
type NopPublisher struct{}

// Publish no hace nada.
func (NopPublisher) Publish(context.Context, ChangeEvent) {}

// SessionRevoker corta las sesiones en vivo de un usuario (websockets abiertos).
// Un token aún válido se rechaza en la próxima petición; una conexión abierta no la hace.
type SessionRevoker interface {
	DisconnectUser(userID string)
}
