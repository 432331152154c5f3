package authz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/Comercio-api/internal/domain/entity"
)

// Operation identifica una operación protegida.
type Operation string

// Operaciones protegidas.
const (
	ProductRead    Operation = "product.read"
	ProductCreate  Operation = "product.create"
	ProductUpdate  Operation = "product.update"
	ProductDisable Operation = "product.disable"
	ProductAdjust  Operation = "product.adjust"

	SupplierRead    Operation = "supplier.read"
	SupplierCreate  Operation = "supplier.create"
	SupplierUpdate  Operation = "supplier.update"
	SupplierDisable Operation = "supplier.disable"

	ClientRead    Operation = "client.read"
	ClientCreate  Operation = "client.create"
	ClientUpdate  Operation = "client.update"
	ClientDisable Operation = "client.disable"

	PurchaseRead       Operation = "purchase.read"
	PurchaseCreate     Operation = "purchase.create"
	PurchaseTransition Operation = "purchase.transition"

	SaleRead       Operation = "sale.read"
	SaleCreate     Operation = "sale.create"
	SaleTransition Operation = "sale.transition"
	SaleReceipt    Operation = "sale.receipt"

	UserRead    Operation = "user.read"
	UserCreate  Operation = "user.create"
	UserRole    Operation = "user.role"
	UserDisable Operation = "user.disable"

	ActivityRead Operation = "activity.read"
)

var (
	allRoles      = []entity.Role{entity.RoleAdmin, entity.RoleManager, entity.RoleSeller}
	adminManager  = []entity.Role{entity.RoleAdmin, entity.RoleManager}
	adminOnly     = []entity.Role{entity.RoleAdmin}
	defaultPolicy = map[Operation][]entity.Role{
		ProductRead:    allRoles,
		ProductCreate:  adminManager,
		ProductUpdate:  adminManager,
		ProductDisable: adminOnly,
		ProductAdjust:  adminOnly,

		SupplierRead:    allRoles,
		SupplierCreate:  adminManager,
		SupplierUpdate:  adminManager,
		SupplierDisable: adminOnly,

		ClientRead:    allRoles,
		ClientCreate:  allRoles,
		ClientUpdate:  allRoles,
		ClientDisable: adminManager,

		PurchaseRead:       adminManager,
		PurchaseCreate:     adminManager,
		PurchaseTransition: adminManager,

		SaleRead:       allRoles,
		SaleCreate:     allRoles,
		SaleTransition: allRoles,
		SaleReceipt:    allRoles,

		UserRead:    adminOnly,
		UserCreate:  adminOnly,
		UserRole:    adminOnly,
		UserDisable: adminOnly,

		ActivityRead: adminOnly,
	}
)

// Policy tabla declarativa operación → roles permitidos.
type Policy struct {
	allow map[Operation]map[entity.Role]struct{}
}

// DefaultPolicy devuelve la tabla por defecto.
func DefaultPolicy() Policy {
	p := Policy{allow: make(map[Operation]map[entity.Role]struct{}, len(defaultPolicy))}
	for op, roles := range defaultPolicy {
		p.set(op, roles)
	}
	return p
}

// NewPolicy construye la tabla por defecto y aplica overrides con formato "op=rol|rol;op=rol".
// Una operación desconocida o un rol inválido es un error de configuración.
func NewPolicy(overrides string) (Policy, error) {
	p := DefaultPolicy()
	parsed, err := ParseOverrides(overrides)
	if err != nil {
		return Policy{}, err
	}
	for op, roles := range parsed {
		p.set(op, roles)
	}
	return p, nil
}

// ParseOverrides interpreta RBAC_OVERRIDES. Una lista vacía ("op=") deja la operación sin roles.
func ParseOverrides(s string) (map[Operation][]entity.Role, error) {
	out := map[Operation][]entity.Role{}
	for _, raw := range strings.Split(s, ";") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		name, list, ok := strings.Cut(raw, "=")
		if !ok {
			return nil, fmt.Errorf("rbac: override sin '=': %q", raw)
		}
		op := Operation(strings.TrimSpace(name))
		if _, known := defaultPolicy[op]; !known {
			return nil, fmt.Errorf("rbac: operación desconocida %q", op)
		}
		roles := []entity.Role{}
		for _, r := range strings.Split(list, "|") {
			r = strings.TrimSpace(r)
			if r == "" {
				continue
			}
			role, valid := entity.ParseRole(r)
			if !valid {
				return nil, fmt.Errorf("rbac: rol inválido %q en %q", r, op)
			}
			roles = append(roles, role)
		}
		out[op] = roles
	}
	return out, nil
}

func (p Policy) set(op Operation, roles []entity.Role) {
	set := make(map[entity.Role]struct{}, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	p.allow[op] = set
}

// Allows es la decisión pura: true solo si op es conocida y role está en su lista.
func (p Policy) Allows(role entity.Role, op Operation) bool {
	if !role.IsValid() {
		return false
	}
	set, ok := p.allow[op]
	if !ok {
		return false
	}
	_, ok = set[role]
	return ok
}

// Roles devuelve los roles permitidos para op, ordenados.
func (p Policy) Roles(op Operation) []entity.Role {
	out := make([]entity.Role, 0, len(p.allow[op]))
	for r := range p.allow[op] {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Operations lista todas las operaciones conocidas, ordenadas.
func Operations() []Operation {
	out := make([]Operation, 0, len(defaultPolicy))
	for op := range defaultPolicy {
		out = append(out, op)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
