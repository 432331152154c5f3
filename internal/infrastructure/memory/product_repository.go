package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Comercio-api/internal/domain/inventory"
	"github.com/jhoicas/Comercio-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepository)(nil)

// ProductRepository implementación en memoria.
type ProductRepository struct {
	v view
}

func (r *ProductRepository) Create(_ context.Context, p *entity.Product) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.products[p.ID]; ok {
			return domain.ErrDuplicate
		}
		if p.SKU != "" && skuTaken(st, p.SKU, "") {
			return domain.ErrDuplicate
		}
		c := *p
		st.products[p.ID] = &c
		return nil
	})
}

func skuTaken(st *state, sku, exceptID string) bool {
	for _, other := range st.products {
		if other.ID != exceptID && other.SKU != "" && strings.EqualFold(other.SKU, sku) {
			return true
		}
	}
	return false
}

func (r *ProductRepository) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.v.do(func(st *state) error {
		if p, ok := st.products[id]; ok {
			c := *p
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *ProductRepository) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	var out *entity.Product
	err := r.v.do(func(st *state) error {
		for _, p := range st.products {
			if p.SKU != "" && strings.EqualFold(p.SKU, sku) {
				c := *p
				out = &c
				return nil
			}
		}
		return nil
	})
	return out, err
}

// GetForUpdate en memoria equivale a GetByID: la transacción ya tiene el mutex.
func (r *ProductRepository) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductRepository) Update(_ context.Context, p *entity.Product) error {
	return r.v.do(func(st *state) error {
		cur, ok := st.products[p.ID]
		if !ok {
			return domain.ErrNotFound
		}
		if p.SKU != "" && skuTaken(st, p.SKU, p.ID) {
			return domain.ErrDuplicate
		}
		c := *p
		c.Quantity = cur.Quantity
		st.products[p.ID] = &c
		return nil
	})
}

func (r *ProductRepository) UpdateCost(_ context.Context, id string, cost decimal.Decimal) error {
	return r.mutate(id, func(p *entity.Product) error {
		p.Cost = cost
		return nil
	})
}

func (r *ProductRepository) SetActive(_ context.Context, id string, active bool) error {
	return r.mutate(id, func(p *entity.Product) error {
		p.Active = active
		return nil
	})
}

func (r *ProductRepository) AdjustQuantity(_ context.Context, id string, delta int) (int, error) {
	var qty int
	err := r.mutate(id, func(p *entity.Product) error {
		if p.Quantity+delta < 0 {
			return domain.ErrInsufficientStock
		}
		if p.Quantity+delta > domaininv.MaxQuantity {
			return fmt.Errorf("%w: la cantidad excede %d", domain.ErrInvalidInput, domaininv.MaxQuantity)
		}
		p.Quantity += delta
		qty = p.Quantity
		return nil
	})
	return qty, err
}

func (r *ProductRepository) mutate(id string, fn func(p *entity.Product) error) error {
	return r.v.do(func(st *state) error {
		cur, ok := st.products[id]
		if !ok {
			return domain.ErrNotFound
		}
		c := *cur
		if err := fn(&c); err != nil {
			return err
		}
		c.UpdatedAt = time.Now().UTC()
		st.products[id] = &c
		return nil
	})
}

func (r *ProductRepository) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, int, error) {
	var (
		out   []*entity.Product
		total int
	)
	q := strings.ToLower(strings.TrimSpace(f.Query))
	err := r.v.do(func(st *state) error {
		matched := make([]*entity.Product, 0, len(st.products))
		for _, p := range st.products {
			if !f.IncludeInactive && !p.Active {
				continue
			}
			if q != "" && !strings.Contains(strings.ToLower(p.Name), q) && !strings.Contains(strings.ToLower(p.SKU), q) {
				continue
			}
			c := *p
			matched = append(matched, &c)
		}
		sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
		total = len(matched)
		out = page(matched, f.Limit, f.Offset)
		return nil
	})
	return out, total, err
}
