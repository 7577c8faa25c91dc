package entity

import "time"

// NotificationType categoría de la notificación.
type NotificationType string

// Tipos de notificación.
const (
	NotificationLowStock NotificationType = "low_stock"
	NotificationSale     NotificationType = "sale"
	NotificationInfo     NotificationType = "info"
	NotificationWarning  NotificationType = "warning"
)

// Notification aviso dirigido a un usuario.
type Notification struct {
	ID        string
	UserID    string
	Title     string
	Message   string
	Type      NotificationType
	IsRead    bool
	CreatedAt time.Time
}
