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

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, client_id, created_by, status, total, notes, completed_at, cancelled_at, created_at, updated_at`

// SaleRepo implementación del puerto SaleRepository (cabecera + líneas).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var (
		s        entity.Sale
		clientID *string
		status   string
	)
	if err := row.Scan(&s.ID, &clientID, &s.CreatedBy, &status, &s.Total, &s.Notes,
		&s.CompletedAt, &s.CancelledAt, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	s.ClientID = fromNull(clientID)
	s.Status = entity.OrderStatus(status)
	return &s, nil
}

// Create persiste la cabecera. ClientID vacío se guarda como NULL; un cliente inexistente (FK) devuelve ErrNotFound.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sales (`+saleColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		s.ID, nullIfEmpty(s.ClientID), s.CreatedBy, string(s.Status), s.Total, s.Notes,
		s.CompletedAt, s.CancelledAt, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.ErrDuplicate
		case isForeignKeyViolation(err):
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

func (r *SaleRepo) CreateItem(ctx context.Context, it *entity.SaleItem) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sale_items (id, sale_id, position, product_id, quantity, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		it.ID, it.SaleID, it.Position, it.ProductID, it.Quantity, it.UnitPrice, it.Subtotal,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.ErrDuplicate
		case isForeignKeyViolation(err):
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert sale item: %w", err)
	}
	return nil
}

func (r *SaleRepo) getOne(ctx context.Context, query, id string) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return s, nil
}

func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	return r.getOne(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id)
}

// GetForUpdate serializa transiciones concurrentes sobre la misma venta.
func (r *SaleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.getOne(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1 FOR UPDATE`, id)
}

func (r *SaleRepo) GetItems(ctx context.Context, saleID string) ([]*entity.SaleItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, sale_id, position, product_id, quantity, unit_price, subtotal
		FROM sale_items WHERE sale_id = $1 ORDER BY position`, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	var list []*entity.SaleItem
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.Position, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.Subtotal); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// UpdateStatus solo toca estado y marcas de tiempo; total y líneas son inmutables.
func (r *SaleRepo) UpdateStatus(ctx context.Context, s *entity.Sale) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE sales SET status = $2, completed_at = $3, cancelled_at = $4, updated_at = $5
		WHERE id = $1`,
		s.ID, string(s.Status), s.CompletedAt, s.CancelledAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update sale status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List ordena de la más reciente a la más antigua. PartyID filtra por cliente.
func (r *SaleRepo) List(ctx context.Context, f repository.OrderFilter) ([]*entity.Sale, int, error) {
	where := ` WHERE ($1::text = '' OR status = $1) AND ($2::text = '' OR client_id = $2)`
	args := []any{string(f.Status), f.PartyID}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM sales`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sales: %w", err)
	}
	rows, err := r.q.Query(ctx,
		`SELECT `+saleColumns+` FROM sales`+where+` ORDER BY created_at DESC, id DESC LIMIT $3 OFFSET $4`,
		append(args, limitArg(f.Limit), f.Offset)...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Sale, 0)
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	return list, total, rows.Err()
}
