package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/domain/repository"
)

var (
	_ repository.SupplierRepository = (*SupplierRepository)(nil)
	_ repository.ClientRepository   = (*ClientRepository)(nil)
)

func sameOptional(a, b string) bool {
	return a != "" && b != "" && strings.EqualFold(a, b)
}

func matches(q string, fields ...string) bool {
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// SupplierRepository implementación en memoria. Nombre, email y tax id son únicos.
type SupplierRepository struct {
	v view
}

func supplierConflict(st *state, s *entity.Supplier) bool {
	for _, o := range st.suppliers {
		if o.ID == s.ID {
			continue
		}
		if strings.EqualFold(o.Name, s.Name) || sameOptional(o.Email, s.Email) || sameOptional(o.TaxID, s.TaxID) {
			return true
		}
	}
	return false
}

func (r *SupplierRepository) Create(_ context.Context, s *entity.Supplier) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.suppliers[s.ID]; ok || supplierConflict(st, s) {
			return domain.ErrDuplicate
		}
		c := *s
		st.suppliers[s.ID] = &c
		return nil
	})
}

func (r *SupplierRepository) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	var out *entity.Supplier
	err := r.v.do(func(st *state) error {
		if s, ok := st.suppliers[id]; ok {
			c := *s
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *SupplierRepository) Update(_ context.Context, s *entity.Supplier) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.suppliers[s.ID]; !ok {
			return domain.ErrNotFound
		}
		if supplierConflict(st, s) {
			return domain.ErrDuplicate
		}
		c := *s
		st.suppliers[s.ID] = &c
		return nil
	})
}

func (r *SupplierRepository) List(_ context.Context, query string, limit, offset int) ([]*entity.Supplier, int, error) {
	var (
		out   []*entity.Supplier
		total int
	)
	q := strings.ToLower(strings.TrimSpace(query))
	err := r.v.do(func(st *state) error {
		all := make([]*entity.Supplier, 0, len(st.suppliers))
		for _, s := range st.suppliers {
			if matches(q, s.Name, s.Email, s.TaxID) {
				c := *s
				all = append(all, &c)
			}
		}
		sort.Slice(all, func(i, j int) bool { return strings.ToLower(all[i].Name) < strings.ToLower(all[j].Name) })
		total = len(all)
		out = page(all, limit, offset)
		return nil
	})
	return out, total, err
}

// ClientRepository implementación en memoria. El documento es único si existe.
type ClientRepository struct {
	v view
}

func clientConflict(st *state, c *entity.Client) bool {
	for _, o := range st.clients {
		if o.ID != c.ID && sameOptional(o.Document, c.Document) {
			return true
		}
	}
	return false
}

func (r *ClientRepository) Create(_ context.Context, c *entity.Client) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.clients[c.ID]; ok || clientConflict(st, c) {
			return domain.ErrDuplicate
		}
		cp := *c
		st.clients[c.ID] = &cp
		return nil
	})
}

func (r *ClientRepository) GetByID(_ context.Context, id string) (*entity.Client, error) {
	var out *entity.Client
	err := r.v.do(func(st *state) error {
		if c, ok := st.clients[id]; ok {
			cp := *c
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *ClientRepository) Update(_ context.Context, c *entity.Client) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.clients[c.ID]; !ok {
			return domain.ErrNotFound
		}
		if clientConflict(st, c) {
			return domain.ErrDuplicate
		}
		cp := *c
		st.clients[c.ID] = &cp
		return nil
	})
}

func (r *ClientRepository) List(_ context.Context, query string, limit, offset int) ([]*entity.Client, int, error) {
	var (
		out   []*entity.Client
		total int
	)
	q := strings.ToLower(strings.TrimSpace(query))
	err := r.v.do(func(st *state) error {
		all := make([]*entity.Client, 0, len(st.clients))
		for _, c := range st.clients {
			if matches(q, c.Name, c.Document, c.Email) {
				cp := *c
				all = append(all, &cp)
			}
		}
		sort.Slice(all, func(i, j int) bool { return strings.ToLower(all[i].Name) < strings.ToLower(all[j].Name) })
		total = len(all)
		out = page(all, limit, offset)
		return nil
	})
	return out, total, err
}
