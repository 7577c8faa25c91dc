package entity

import (
	"encoding/json"
	"time"
)

// Acciones registradas en el journal de actividad.
const (
	ActionDeleteUser       = "delete_user"
	ActionToggleUserStatus = "toggle_user_status"
	ActionCreateUser       = "create_user"
	ActionEditProduct      = "edit_product"
	ActionRestockProduct   = "restock_product"
	ActionArchiveProduct   = "archive_product"
	ActionDeleteProduct    = "delete_product"
	ActionCheckout         = "checkout"
)

// ActivityLog acción administrativa o de negocio con detalles libres en JSON.
type ActivityLog struct {
	ID        string
	UserID    string
	Action    string
	Details   json.RawMessage
	Timestamp time.Time
}
