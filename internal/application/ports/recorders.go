package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/mousto-pos/internal/domain/entity"
)

// ActivityRecorder registra acciones en el journal de actividad.
// Es best effort: los errores se loguean y nunca se propagan al caller.
type ActivityRecorder interface {
	Record(ctx context.Context, userID, action string, details map[string]any)
}

// Notifier crea notificaciones para los administradores activos.
type Notifier interface {
	NotifyAdmins(ctx context.Context, kind entity.NotificationType, title, message string)
}

// SalesMetrics contadores de negocio del checkout.
type SalesMetrics interface {
	ObserveCheckout(lines, units int, total decimal.Decimal)
	ObserveCheckoutFailure(reason string)
}
