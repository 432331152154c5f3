package memory

import (
	"context"
	"errors"

	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/domain/repository"
)

var _ repository.ActivityLogRepository = (*ActivityLogRepository)(nil)

// ActivityLogRepository implementación en memoria, solo inserción.
type ActivityLogRepository struct {
	v view
}

func (r *ActivityLogRepository) Append(_ context.Context, e *entity.ActivityLog) error {
	if e == nil || e.Action == "" {
		return errors.New("memory: entrada de auditoría sin acción")
	}
	return r.v.do(func(st *state) error {
		c := *e
		st.logs = append(st.logs, &c)
		return nil
	})
}

// List recorre desde la última inserción hacia atrás: orden descendente de fecha.
func (r *ActivityLogRepository) List(_ context.Context, f repository.ActivityLogFilter) ([]*entity.ActivityLog, int, error) {
	var (
		out   []*entity.ActivityLog
		total int
	)
	err := r.v.do(func(st *state) error {
		all := make([]*entity.ActivityLog, 0, len(st.logs))
		for i := len(st.logs) - 1; i >= 0; i-- {
			e := st.logs[i]
			if f.ActorID != "" && e.ActorID != f.ActorID {
				continue
			}
			if f.Action != "" && e.Action != f.Action {
				continue
			}
			if f.EntityType != "" && e.EntityType != f.EntityType {
				continue
			}
			if f.From != nil && e.CreatedAt.Before(*f.From) {
				continue
			}
			if f.To != nil && e.CreatedAt.After(*f.To) {
				continue
			}
			c := *e
			all = append(all, &c)
		}
		total = len(all)
		out = page(all, f.Limit, f.Offset)
		return nil
	})
	return out, total, err
}
