package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/domain/repository"
)

var (
	_ repository.PurchaseRepository = (*PurchaseRepository)(nil)
	_ repository.SaleRepository     = (*SaleRepository)(nil)
)

// PurchaseRepository implementación en memoria.
type PurchaseRepository struct {
	v view
}

func (r *PurchaseRepository) Create(_ context.Context, p *entity.Purchase) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.purchases[p.ID]; ok {
			return domain.ErrDuplicate
		}
		if _, ok := st.suppliers[p.SupplierID]; !ok {
			return domain.ErrNotFound
		}
		c := *p
		st.purchases[p.ID] = &c
		return nil
	})
}

func (r *PurchaseRepository) CreateItem(_ context.Context, it *entity.PurchaseItem) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.purchases[it.PurchaseID]; !ok {
			return domain.ErrNotFound
		}
		if _, ok := st.products[it.ProductID]; !ok {
			return domain.ErrNotFound
		}
		c := *it
		st.purchaseItems[it.PurchaseID] = append(st.purchaseItems[it.PurchaseID], &c)
		return nil
	})
}

func (r *PurchaseRepository) GetByID(_ context.Context, id string) (*entity.Purchase, error) {
	var out *entity.Purchase
	err := r.v.do(func(st *state) error {
		if p, ok := st.purchases[id]; ok {
			c := *p
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *PurchaseRepository) GetForUpdate(ctx context.Context, id string) (*entity.Purchase, error) {
	return r.GetByID(ctx, id)
}

func (r *PurchaseRepository) GetItems(_ context.Context, purchaseID string) ([]*entity.PurchaseItem, error) {
	var out []*entity.PurchaseItem
	err := r.v.do(func(st *state) error {
		for _, it := range st.purchaseItems[purchaseID] {
			c := *it
			out = append(out, &c)
		}
		sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
		return nil
	})
	return out, err
}

func (r *PurchaseRepository) UpdateStatus(_ context.Context, p *entity.Purchase) error {
	return r.v.do(func(st *state) error {
		cur, ok := st.purchases[p.ID]
		if !ok {
			return domain.ErrNotFound
		}
		c := *cur
		c.Status = p.Status
		c.CompletedAt = p.CompletedAt
		c.CancelledAt = p.CancelledAt
		c.UpdatedAt = p.UpdatedAt
		st.purchases[p.ID] = &c
		return nil
	})
}

func (r *PurchaseRepository) List(_ context.Context, f repository.OrderFilter) ([]*entity.Purchase, int, error) {
	var (
		out   []*entity.Purchase
		total int
	)
	err := r.v.do(func(st *state) error {
		all := make([]*entity.Purchase, 0, len(st.purchases))
		for _, p := range st.purchases {
			if f.Status != "" && p.Status != f.Status {
				continue
			}
			if f.PartyID != "" && p.SupplierID != f.PartyID {
				continue
			}
			c := *p
			all = append(all, &c)
		}
		sort.Slice(all, func(i, j int) bool {
			if all[i].CreatedAt.Equal(all[j].CreatedAt) {
				return all[i].ID > all[j].ID
			}
			return all[i].CreatedAt.After(all[j].CreatedAt)
		})
		total = len(all)
		out = page(all, f.Limit, f.Offset)
		return nil
	})
	return out, total, err
}

// SaleRepository implementación en memoria.
type SaleRepository struct {
	v view
}

func (r *SaleRepository) Create(_ context.Context, s *entity.Sale) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.sales[s.ID]; ok {
			return domain.ErrDuplicate
		}
		if s.ClientID != "" {
			if _, ok := st.clients[s.ClientID]; !ok {
				return domain.ErrNotFound
			}
		}
		c := *s
		st.sales[s.ID] = &c
		return nil
	})
}

func (r *SaleRepository) CreateItem(_ context.Context, it *entity.SaleItem) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.sales[it.SaleID]; !ok {
			return domain.ErrNotFound
		}
		if _, ok := st.products[it.ProductID]; !ok {
			return domain.ErrNotFound
		}
		c := *it
		st.saleItems[it.SaleID] = append(st.saleItems[it.SaleID], &c)
		return nil
	})
}

func (r *SaleRepository) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.v.do(func(st *state) error {
		if s, ok := st.sales[id]; ok {
			c := *s
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *SaleRepository) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.GetByID(ctx, id)
}

func (r *SaleRepository) GetItems(_ context.Context, saleID string) ([]*entity.SaleItem, error) {
	var out []*entity.SaleItem
	err := r.v.do(func(st *state) error {
		for _, it := range st.saleItems[saleID] {
			c := *it
			out = append(out, &c)
		}
		sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
		return nil
	})
	return out, err
}

func (r *SaleRepository) UpdateStatus(_ context.Context, s *entity.Sale) error {
	return r.v.do(func(st *state) error {
		cur, ok := st.sales[s.ID]
		if !ok {
			return domain.ErrNotFound
		}
		c := *cur
		c.Status = s.Status
		c.CompletedAt = s.CompletedAt
		c.CancelledAt = s.CancelledAt
		c.UpdatedAt = s.UpdatedAt
		st.sales[s.ID] = &c
		return nil
	})
}

func (r *SaleRepository) List(_ context.Context, f repository.OrderFilter) ([]*entity.Sale, int, error) {
	var (
		out   []*entity.Sale
		total int
	)
	err := r.v.do(func(st *state) error {
		all := make([]*entity.Sale, 0, len(st.sales))
		for _, s := range st.sales {
			if f.Status != "" && s.Status != f.Status {
				continue
			}
			if f.PartyID != "" && s.ClientID != f.PartyID {
				continue
			}
			c := *s
			all = append(all, &c)
		}
		sort.Slice(all, func(i, j int) bool {
			if all[i].CreatedAt.Equal(all[j].CreatedAt) {
				return all[i].ID > all[j].ID
			}
			return all[i].CreatedAt.After(all[j].CreatedAt)
		})
		total = len(all)
		out = page(all, f.Limit, f.Offset)
		return nil
	})
	return out, total, err
}
