package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/mousto-pos/internal/domain/entity"
	"github.com/jhoicas/mousto-pos/internal/domain/repository"
)

var _ repository.ActivityLogRepository = (*ActivityLogRepo)(nil)

// ActivityLogRepo journal de actividad sobre PostgreSQL.
type ActivityLogRepo struct {
	q Querier
}

// NewActivityLogRepository construye el adaptador.
func NewActivityLogRepository(q Querier) *ActivityLogRepo {
	return &ActivityLogRepo{q: q}
}

// Create inserta una entrada; details vacío se guarda como '{}'.
func (r *ActivityLogRepo) Create(ctx context.Context, l *entity.ActivityLog) error {
	details := []byte(l.Details)
	if len(details) == 0 {
		details = []byte("{}")
	}
	_, err := r.q.Exec(ctx,
		`INSERT INTO activity_logs (id, user_id, action, details, timestamp) VALUES ($1, $2, $3, $4::jsonb, $5)`,
		l.ID, l.UserID, l.Action, string(details), l.Timestamp)
	if err != nil {
		return fmt.Errorf("insert activity log: %w", err)
	}
	return nil
}

// List entradas más recientes primero. Search compara acción y nombre del autor.
func (r *ActivityLogRepo) List(ctx context.Context, f repository.ActivityFilter) ([]repository.ActivityRecord, int, error) {
	var conds []string
	var args []any
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, likePattern(s))
		p := fmt.Sprintf("$%d", len(args))
		conds = append(conds, `(a.action ILIKE `+p+` OR (COALESCE(pr.firstname, '') || ' ' || COALESCE(pr.lastname, '')) ILIKE `+p+`)`)
	}
	if f.Action != "" {
		args = append(args, f.Action)
		conds = append(conds, fmt.Sprintf("a.action = $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}
	from := ` FROM activity_logs a LEFT JOIN profiles pr ON pr.id = a.user_id`

	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*)`+from+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count activity logs: %w", err)
	}

	query := `SELECT a.id, COALESCE(a.user_id::text, ''), a.action, a.details::text, a.timestamp,
		COALESCE(pr.firstname, ''), COALESCE(pr.lastname, '')` + from + where + ` ORDER BY a.timestamp DESC, a.id`
	if f.Limit > 0 {
		args = append(args, f.Limit, f.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list activity logs: %w", err)
	}
	defer rows.Close()

	out := make([]repository.ActivityRecord, 0)
	for rows.Next() {
		var rec repository.ActivityRecord
		var details string
		if err := rows.Scan(&rec.Log.ID, &rec.Log.UserID, &rec.Log.Action, &details, &rec.Log.Timestamp,
			&rec.Firstname, &rec.Lastname); err != nil {
			return nil, 0, fmt.Errorf("scan activity log: %w", err)
		}
		rec.Log.Details = []byte(details)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
