package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepository)(nil)

// UserRepository implementación en memoria. Username y email son únicos sin distinguir mayúsculas.
type UserRepository struct {
	v view
}

func userConflict(st *state, u *entity.User) bool {
	for _, o := range st.users {
		if o.ID == u.ID {
			continue
		}
		if strings.EqualFold(o.Username, u.Username) || strings.EqualFold(o.Email, u.Email) {
			return true
		}
	}
	return false
}

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.users[u.ID]; ok || userConflict(st, u) {
			return domain.ErrDuplicate
		}
		c := *u
		st.users[u.ID] = &c
		return nil
	})
}

func (r *UserRepository) find(match func(u *entity.User) bool) (*entity.User, error) {
	var out *entity.User
	err := r.v.do(func(st *state) error {
		for _, u := range st.users {
			if match(u) {
				c := *u
				out = &c
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.ID == id })
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r *UserRepository) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return strings.EqualFold(u.Username, username) })
}

func (r *UserRepository) Update(_ context.Context, u *entity.User) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.users[u.ID]; !ok {
			return domain.ErrNotFound
		}
		if userConflict(st, u) {
			return domain.ErrDuplicate
		}
		c := *u
		st.users[u.ID] = &c
		return nil
	})
}

func (r *UserRepository) List(_ context.Context, limit, offset int) ([]*entity.User, int, error) {
	var (
		out   []*entity.User
		total int
	)
	err := r.v.do(func(st *state) error {
		all := make([]*entity.User, 0, len(st.users))
		for _, u := range st.users {
			c := *u
			all = append(all, &c)
		}
		sort.Slice(all, func(i, j int) bool { return strings.ToLower(all[i].Username) < strings.ToLower(all[j].Username) })
		total = len(all)
		out = page(all, limit, offset)
		return nil
	})
	return out, total, err
}

func (r *UserRepository) Count(_ context.Context) (int, error) {
	var n int
	err := r.v.do(func(st *state) error {
		n = len(st.users)
		return nil
	})
	return n, err
}
