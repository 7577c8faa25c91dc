package repository

import (
	"context"

	"github.com/jhoicas/mousto-pos/internal/domain/entity"
)

// ActivityRecord entrada del journal unida al perfil del autor.
type ActivityRecord struct {
	Log       entity.ActivityLog
	Firstname string
	Lastname  string
}

// ActivityFilter búsqueda por acción o nombre del autor, filtro exacto por acción.
type ActivityFilter struct {
	Search string
	Action string // vacío = todas
	Limit  int
	Offset int
}

// ActivityLogRepository puerto de persistencia del journal de actividad.
type ActivityLogRepository interface {
	Create(ctx context.Context, log *entity.ActivityLog) error
	// List entradas más recientes primero y el total que cumple el filtro.
	List(ctx context.Context, filter ActivityFilter) ([]ActivityRecord, int, error)
}
