// Package memory implementa los repositorios y el TxRunner sobre estado en memoria.
// Cada transacción toma el mutex global, trabaja sobre una copia del estado y la publica
// solo si fn no retorna error, con lo que commit y rollback quedan garantizados igual que en PostgreSQL.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Comercio-api/internal/application/inventory"
	"github.com/jhoicas/Comercio-api/internal/application/orders"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/domain/repository"
)

var (
	_ inventory.TxRunner = (*Store)(nil)
	_ orders.TxRunner    = (*Store)(nil)
)

type state struct {
	products      map[string]*entity.Product
	users         map[string]*entity.User
	suppliers     map[string]*entity.Supplier
	clients       map[string]*entity.Client
	purchases     map[string]*entity.Purchase
	purchaseItems map[string][]*entity.PurchaseItem
	sales         map[string]*entity.Sale
	saleItems     map[string][]*entity.SaleItem
	logs          []*entity.ActivityLog
}

func newState() *state {
	return &state{
		products:      map[string]*entity.Product{},
		users:         map[string]*entity.User{},
		suppliers:     map[string]*entity.Supplier{},
		clients:       map[string]*entity.Client{},
		purchases:     map[string]*entity.Purchase{},
		purchaseItems: map[string][]*entity.PurchaseItem{},
		sales:         map[string]*entity.Sale{},
		saleItems:     map[string][]*entity.SaleItem{},
	}
}

// clone copia mapas y slices; las entidades se guardan siempre como copias, así que compartir punteros es seguro.
func (s *state) clone() *state {
	c := newState()
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.suppliers {
		c.suppliers[k] = v
	}
	for k, v := range s.clients {
		c.clients[k] = v
	}
	for k, v := range s.purchases {
		c.purchases[k] = v
	}
	for k, v := range s.purchaseItems {
		c.purchaseItems[k] = append([]*entity.PurchaseItem(nil), v...)
	}
	for k, v := range s.sales {
		c.sales[k] = v
	}
	for k, v := range s.saleItems {
		c.saleItems[k] = append([]*entity.SaleItem(nil), v...)
	}
	c.logs = append([]*entity.ActivityLog(nil), s.logs...)
	return c
}

// Store estado compartido en memoria.
type Store struct {
	mu sync.Mutex
	st *state
}

// New crea un store vacío.
func New() *Store {
	return &Store{st: newState()}
}

// view enlaza un repositorio al estado publicado (con bloqueo) o al de una transacción en curso.
type view struct {
	s  *Store
	tx *state
}

func (v view) do(fn func(st *state) error) error {
	if v.tx != nil {
		return fn(v.tx)
	}
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	return fn(v.s.st)
}

func (s *Store) run(ctx context.Context, fn func(v view) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	work := s.st.clone()
	if err := fn(view{s: s, tx: work}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.st = work
	return nil
}

// Run implementa inventory.TxRunner.
func (s *Store) Run(ctx context.Context, fn func(productRepo repository.ProductRepository) error) error {
	return s.run(ctx, func(v view) error {
		return fn(&ProductRepository{v: v})
	})
}

// RunOrders implementa orders.TxRunner.
func (s *Store) RunOrders(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	supplierRepo repository.SupplierRepository,
	clientRepo repository.ClientRepository,
	purchaseRepo repository.PurchaseRepository,
	saleRepo repository.SaleRepository,
) error) error {
	return s.run(ctx, func(v view) error {
		return fn(
			&ProductRepository{v: v},
			&SupplierRepository{v: v},
			&ClientRepository{v: v},
			&PurchaseRepository{v: v},
			&SaleRepository{v: v},
		)
	})
}

// Repositorios fuera de transacción.

func (s *Store) Products() *ProductRepository   { return &ProductRepository{v: view{s: s}} }
func (s *Store) Users() *UserRepository         { return &UserRepository{v: view{s: s}} }
func (s *Store) Suppliers() *SupplierRepository { return &SupplierRepository{v: view{s: s}} }
func (s *Store) Clients() *ClientRepository     { return &ClientRepository{v: view{s: s}} }
func (s *Store) Purchases() *PurchaseRepository { return &PurchaseRepository{v: view{s: s}} }
func (s *Store) Sales() *SaleRepository         { return &SaleRepository{v: view{s: s}} }
func (s *Store) ActivityLogs() *ActivityLogRepository {
	return &ActivityLogRepository{v: view{s: s}}
}

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return []T{}
	}
	end := len(list)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return list[offset:end]
}
