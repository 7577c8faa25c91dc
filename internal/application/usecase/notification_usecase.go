package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/mousto-pos/internal/application/dto"
	"github.com/jhoicas/mousto-pos/internal/application/ports"
	"github.com/jhoicas/mousto-pos/internal/domain"
	"github.com/jhoicas/mousto-pos/internal/domain/entity"
	"github.com/jhoicas/mousto-pos/internal/domain/repository"
	"github.com/jhoicas/mousto-pos/pkg/logger"
)

const notificationListLimit = 20

var _ ports.Notifier = (*NotificationUseCase)(nil)

// NotificationUseCase notificaciones por usuario y avisos a administradores.
type NotificationUseCase struct {
	repo      repository.NotificationRepository
	userRepo  repository.UserRepository
	publisher ports.ChangePublisher
	log       *logger.Logger
}

// NewNotificationUseCase construye el caso de uso.
func NewNotificationUseCase(
	repo repository.NotificationRepository,
	userRepo repository.UserRepository,
	publisher ports.ChangePublisher,
	log *logger.Logger,
) *NotificationUseCase {
	return &NotificationUseCase{repo: repo, userRepo: userRepo, publisher: publisher, log: log}
}

// List últimas 20 notificaciones del usuario y cuántas siguen sin leer.
func (uc *NotificationUseCase) List(ctx context.Context, userID string) (*dto.NotificationListResponse, error) {
	list, err := uc.repo.ListByUser(ctx, userID, notificationListLimit)
	if err != nil {
		return nil, err
	}
	unread, err := uc.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.NotificationResponse, 0, len(list))
	for _, n := range list {
		items = append(items, toNotificationResponse(n))
	}
	return &dto.NotificationListResponse{Items: items, UnreadCount: unread}, nil
}

// MarkRead marca como leída una notificación propia.
func (uc *NotificationUseCase) MarkRead(ctx context.Context, userID, id string) error {
	ok, err := uc.repo.MarkRead(ctx, userID, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	uc.publisher.Publish(ctx, ports.ChangeEvent{
		Table: ports.TableNotifications, Type: ports.ChangeUpdate, RecordID: id, UserID: userID, At: time.Now(),
	})
	return nil
}

// MarkAllRead marca todas las notificaciones del usuario como leídas.
func (uc *NotificationUseCase) MarkAllRead(ctx context.Context, userID string) error {
	if err := uc.repo.MarkAllRead(ctx, userID); err != nil {
		return err
	}
	uc.publisher.Publish(ctx, ports.ChangeEvent{
		Table: ports.TableNotifications, Type: ports.ChangeUpdate, UserID: userID, At: time.Now(),
	})
	return nil
}

// Notify crea una notificación para un usuario y la emite solo a sus conexiones.
func (uc *NotificationUseCase) Notify(ctx context.Context, userID string, kind entity.NotificationType, title, message string) error {
	n := &entity.Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      kind,
		CreatedAt: time.Now(),
	}
	if err := uc.repo.Create(ctx, n); err != nil {
		return err
	}
	uc.publisher.Publish(ctx, ports.ChangeEvent{
		Table:    ports.TableNotifications,
		Type:     ports.ChangeInsert,
		RecordID: n.ID,
		UserID:   userID,
		Record:   toNotificationResponse(n),
		At:       n.CreatedAt,
	})
	return nil
}

// NotifyAdmins avisa a todos los administradores activos. Best effort.
func (uc *NotificationUseCase) NotifyAdmins(ctx context.Context, kind entity.NotificationType, title, message string) {
	admins, err := uc.userRepo.ListActiveAdmins(ctx)
	if err != nil {
		uc.log.Warn().Err(err).Msg("notifications: no se pudo listar administradores")
		return
	}
	for _, a := range admins {
		if err := uc.Notify(ctx, a.ID, kind, title, message); err != nil {
			uc.log.Warn().Err(err).Str("user_id", a.ID).Str("type", string(kind)).Msg("notifications: no se pudo crear")
		}
	}
}

func toNotificationResponse(n *entity.Notification) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      string(n.Type),
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}
