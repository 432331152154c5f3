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

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

const supplierColumns = `id, name, contact, email, tax_id, address, active, created_at, updated_at`

// SupplierRepo implementación del puerto SupplierRepository. Email y tax_id vacíos se guardan como NULL.
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

func scanSupplier(row pgx.Row) (*entity.Supplier, error) {
	var (
		s            entity.Supplier
		email, taxID *string
	)
	if err := row.Scan(&s.ID, &s.Name, &s.Contact, &email, &taxID, &s.Address, &s.Active, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	s.Email = fromNull(email)
	s.TaxID = fromNull(taxID)
	return &s, nil
}

func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO suppliers (`+supplierColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		s.ID, s.Name, s.Contact, nullIfEmpty(s.Email), nullIfEmpty(s.TaxID), s.Address, s.Active, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert supplier: %w", err)
	}
	return nil
}

func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	s, err := scanSupplier(r.q.QueryRow(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return s, nil
}

func (r *SupplierRepo) Update(ctx context.Context, s *entity.Supplier) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE suppliers SET name = $2, contact = $3, email = $4, tax_id = $5, address = $6, active = $7, updated_at = $8
		WHERE id = $1`,
		s.ID, s.Name, s.Contact, nullIfEmpty(s.Email), nullIfEmpty(s.TaxID), s.Address, s.Active, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update supplier: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List busca por nombre, email o tax id y ordena por nombre.
func (r *SupplierRepo) List(ctx context.Context, query string, limit, offset int) ([]*entity.Supplier, int, error) {
	where := ` WHERE ($1::text = '' OR name ILIKE $2 OR email ILIKE $2 OR tax_id ILIKE $2)`
	args := []any{query, likePattern(query)}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM suppliers`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count suppliers: %w", err)
	}
	rows, err := r.q.Query(ctx,
		`SELECT `+supplierColumns+` FROM suppliers`+where+` ORDER BY lower(name), id LIMIT $3 OFFSET $4`,
		append(args, limitArg(limit), offset)...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Supplier, 0)
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan supplier: %w", err)
		}
		list = append(list, s)
	}
	return list, total, rows.Err()
}
