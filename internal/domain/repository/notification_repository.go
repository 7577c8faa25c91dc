package repository

import (
	"context"

	"github.com/jhoicas/mousto-pos/internal/domain/entity"
)

// NotificationRepository puerto de persistencia de notificaciones.
type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*entity.Notification, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	// MarkRead devuelve false si la notificación no existe o pertenece a otro usuario.
	MarkRead(ctx context.Context, userID, id string) (bool, error)
	MarkAllRead(ctx context.Context, userID string) error
}
