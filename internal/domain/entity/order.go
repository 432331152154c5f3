package entity

// OrderStatus estado de una compra o venta.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusCompleted OrderStatus = "Completed"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

// IsValid indica si el estado es uno de los conocidos.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

func (s OrderStatus) String() string { return string(s) }

// CanTransitionTo aplica la máquina de estados:
// Pending → Completed, Pending → Cancelled, Completed → Cancelled. Cancelled es terminal.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return target == OrderStatusCompleted || target == OrderStatusCancelled
	case OrderStatusCompleted:
		return target == OrderStatusCancelled
	}
	return false
}

// EffectSign indica cómo cambia el efecto de inventario al pasar de s a target:
// +1 se aplica (entra a Completed), -1 se revierte (sale de Completed), 0 sin efecto.
func (s OrderStatus) EffectSign(target OrderStatus) int {
	switch {
	case s != OrderStatusCompleted && target == OrderStatusCompleted:
		return 1
	case s == OrderStatusCompleted && target != OrderStatusCompleted:
		return -1
	}
	return 0
}
