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

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

const purchaseColumns = `id, supplier_id, created_by, status, total, notes, completed_at, cancelled_at, created_at, updated_at`

// PurchaseRepo implementación del puerto PurchaseRepository (cabecera + líneas).
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

func scanPurchase(row pgx.Row) (*entity.Purchase, error) {
	var (
		p      entity.Purchase
		status string
	)
	if err := row.Scan(&p.ID, &p.SupplierID, &p.CreatedBy, &status, &p.Total, &p.Notes,
		&p.CompletedAt, &p.CancelledAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Status = entity.OrderStatus(status)
	return &p, nil
}

// Create persiste la cabecera. Un proveedor inexistente (FK) devuelve ErrNotFound.
func (r *PurchaseRepo) Create(ctx context.Context, p *entity.Purchase) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO purchases (`+purchaseColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.ID, p.SupplierID, p.CreatedBy, string(p.Status), p.Total, p.Notes,
		p.CompletedAt, p.CancelledAt, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.ErrDuplicate
		case isForeignKeyViolation(err):
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

func (r *PurchaseRepo) CreateItem(ctx context.Context, it *entity.PurchaseItem) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO purchase_items (id, purchase_id, position, product_id, quantity, unit_cost, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		it.ID, it.PurchaseID, it.Position, it.ProductID, it.Quantity, it.UnitCost, it.Subtotal,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.ErrDuplicate
		case isForeignKeyViolation(err):
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert purchase item: %w", err)
	}
	return nil
}

func (r *PurchaseRepo) getOne(ctx context.Context, query, id string) (*entity.Purchase, error) {
	p, err := scanPurchase(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	return p, nil
}

func (r *PurchaseRepo) GetByID(ctx context.Context, id string) (*entity.Purchase, error) {
	return r.getOne(ctx, `SELECT `+purchaseColumns+` FROM purchases WHERE id = $1`, id)
}

// GetForUpdate serializa transiciones concurrentes sobre la misma compra.
func (r *PurchaseRepo) GetForUpdate(ctx context.Context, id string) (*entity.Purchase, error) {
	return r.getOne(ctx, `SELECT `+purchaseColumns+` FROM purchases WHERE id = $1 FOR UPDATE`, id)
}

func (r *PurchaseRepo) GetItems(ctx context.Context, purchaseID string) ([]*entity.PurchaseItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, purchase_id, position, product_id, quantity, unit_cost, subtotal
		FROM purchase_items WHERE purchase_id = $1 ORDER BY position`, purchaseID)
	if err != nil {
		return nil, fmt.Errorf("list purchase items: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseItem
	for rows.Next() {
		var it entity.PurchaseItem
		if err := rows.Scan(&it.ID, &it.PurchaseID, &it.Position, &it.ProductID, &it.Quantity, &it.UnitCost, &it.Subtotal); err != nil {
			return nil, fmt.Errorf("scan purchase item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// UpdateStatus solo toca estado y marcas de tiempo; total y líneas son inmutables.
func (r *PurchaseRepo) UpdateStatus(ctx context.Context, p *entity.Purchase) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE purchases SET status = $2, completed_at = $3, cancelled_at = $4, updated_at = $5
		WHERE id = $1`,
		p.ID, string(p.Status), p.CompletedAt, p.CancelledAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update purchase status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List ordena de la más reciente a la más antigua.
func (r *PurchaseRepo) List(ctx context.Context, f repository.OrderFilter) ([]*entity.Purchase, int, error) {
	where := ` WHERE ($1::text = '' OR status = $1) AND ($2::text = '' OR supplier_id = $2)`
	args := []any{string(f.Status), f.PartyID}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM purchases`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count purchases: %w", err)
	}
	rows, err := r.q.Query(ctx,
		`SELECT `+purchaseColumns+` FROM purchases`+where+` ORDER BY created_at DESC, id DESC LIMIT $3 OFFSET $4`,
		append(args, limitArg(f.Limit), f.Offset)...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Purchase, 0)
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan purchase: %w", err)
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}
