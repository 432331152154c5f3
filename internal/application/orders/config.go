package orders

import (
	"fmt"
	"strings"

	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/jhoicas/Comercio-api/internal/domain/entity"
)

// Políticas al cancelar una orden completada.
const (
	// CancelRestore revierte exactamente las cantidades capturadas.
	CancelRestore = "restore"
	// CancelRevalidate además rechaza la reversión si algún producto fue desactivado.
	CancelRevalidate = "revalidate"
)

// Config comportamiento configurable de compras y ventas.
type Config struct {
	PurchaseAutoComplete bool
	SaleAutoComplete     bool
	PurchaseUpdateCost   bool
	CancelPolicy         string
}

// DefaultConfig compras se completan al crearse; ventas requieren transición explícita.
func DefaultConfig() Config {
	return Config{
		PurchaseAutoComplete: true,
		SaleAutoComplete:     false,
		PurchaseUpdateCost:   true,
		CancelPolicy:         CancelRestore,
	}
}

func (c Config) initialStatus(autoComplete bool) entity.OrderStatus {
	if autoComplete {
		return entity.OrderStatusCompleted
	}
	return entity.OrderStatusPending
}

// ParseStatus acepta el estado sin distinguir mayúsculas ("completed" → Completed).
func ParseStatus(s string) (entity.OrderStatus, error) {
	s = strings.TrimSpace(s)
	for _, st := range []entity.OrderStatus{entity.OrderStatusPending, entity.OrderStatusCompleted, entity.OrderStatusCancelled} {
		if strings.EqualFold(s, string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: estado %q desconocido", domain.ErrInvalidInput, s)
}
