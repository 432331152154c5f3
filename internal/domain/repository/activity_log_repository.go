package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Comercio-api/internal/domain/entity"
)

// ActivityLogFilter criterios de consulta del registro de auditoría. Campos vacíos no filtran.
type ActivityLogFilter struct {
	ActorID    string
	Action     string
	EntityType string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// ActivityLogRepository es de solo inserción: no hay Update ni Delete.
type ActivityLogRepository interface {
	Append(ctx context.Context, entry *entity.ActivityLog) error
	// List devuelve entradas en orden descendente de fecha.
	List(ctx context.Context, filter ActivityLogFilter) ([]*entity.ActivityLog, int, error)
}
