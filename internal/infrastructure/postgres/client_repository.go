package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

const clientColumns = `id, name, document, email, phone, address, active, created_at, updated_at`

// ClientRepo implementación del puerto ClientRepository. El documento vacío se guarda como NULL.
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

func scanClient(row pgx.Row) (*entity.Client, error) {
	var (
		c        entity.Client
		document *string
	)
	if err := row.Scan(&c.ID, &c.Name, &document, &c.Email, &c.Phone, &c.Address, &c.Active, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Document = fromNull(document)
	return &c, nil
}

func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO clients (`+clientColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		c.ID, c.Name, nullIfEmpty(c.Document), c.Email, c.Phone, c.Address, c.Active, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

func (r *ClientRepo) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	c, err := scanClient(r.q.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return c, nil
}

func (r *ClientRepo) Update(ctx context.Context, c *entity.Client) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE clients SET name = $2, document = $3, email = $4, phone = $5, address = $6, active = $7, updated_at = $8
		WHERE id = $1`,
		c.ID, c.Name, nullIfEmpty(c.Document), c.Email, c.Phone, c.Address, c.Active, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update client: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List busca por nombre, documento o email y ordena por nombre.
func (r *ClientRepo) List(ctx context.Context, query string, limit, offset int) ([]*entity.Client, int, error) {
	where := ` WHERE ($1::text = '' OR name ILIKE $2 OR document ILIKE $2 OR email ILIKE $2)`
	args := []any{query, likePattern(query)}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM clients`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count clients: %w", err)
	}
	rows, err := r.q.Query(ctx,
		`SELECT `+clientColumns+` FROM clients`+where+` ORDER BY lower(name), id LIMIT $3 OFFSET $4`,
		append(args, limitArg(limit), offset)...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Client, 0)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan client: %w", err)
		}
		list = append(list, c)
	}
	return list, total, rows.Err()
}
