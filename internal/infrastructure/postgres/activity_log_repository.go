package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/domain/repository"
)

var _ repository.ActivityLogRepository = (*ActivityLogRepo)(nil)

// ActivityLogRepo registro de auditoría de solo inserción. La tabla además rechaza UPDATE/DELETE por trigger.
type ActivityLogRepo struct {
	q Querier
}

// NewActivityLogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewActivityLogRepository(q Querier) *ActivityLogRepo {
	return &ActivityLogRepo{q: q}
}

func (r *ActivityLogRepo) Append(ctx context.Context, e *entity.ActivityLog) error {
	if e == nil || e.Action == "" {
		return errors.New("postgres: entrada de auditoría sin acción")
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO activity_logs (id, actor_id, actor_username, action, entity_type, entity_id, detail, outcome, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		e.ID, e.ActorID, e.ActorUsername, e.Action, e.EntityType, e.EntityID, e.Detail, e.Outcome, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert activity log: %w", err)
	}
	return nil
}

// List arma el WHERE solo con los filtros presentes; orden descendente de fecha.
func (r *ActivityLogRepo) List(ctx context.Context, f repository.ActivityLogFilter) ([]*entity.ActivityLog, int, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.ActorID != "" {
		add("actor_id = $%d", f.ActorID)
	}
	if f.Action != "" {
		add("action = $%d", f.Action)
	}
	if f.EntityType != "" {
		add("entity_type = $%d", f.EntityType)
	}
	if f.From != nil {
		add("created_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("created_at <= $%d", *f.To)
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM activity_logs`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count activity logs: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, actor_id, actor_username, action, entity_type, entity_id, detail, outcome, created_at
		FROM activity_logs%s ORDER BY created_at DESC, seq DESC LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2)
	rows, err := r.q.Query(ctx, query, append(args, limitArg(f.Limit), f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list activity logs: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.ActivityLog, 0)
	for rows.Next() {
		var e entity.ActivityLog
		if err := rows.Scan(&e.ID, &e.ActorID, &e.ActorUsername, &e.Action, &e.EntityType, &e.EntityID,
			&e.Detail, &e.Outcome, &e.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan activity log: %w", err)
		}
		list = append(list, &e)
	}
	return list, total, rows.Err()
}
