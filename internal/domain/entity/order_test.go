package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_IsValid(t *testing.T) {
	tests := []struct {
		status  OrderStatus
		isValid bool
	}{
		{OrderStatusPending, true},
		{OrderStatusCompleted, true},
		{OrderStatusCancelled, true},
		{OrderStatus("completed"), false},
		{OrderStatus(""), false},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.status.IsValid())
		})
	}
}

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from     OrderStatus
		to       OrderStatus
		canTrans bool
	}{
		{OrderStatusPending, OrderStatusCompleted, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusPending, false},
		{OrderStatusCompleted, OrderStatusCancelled, true},
		{OrderStatusCompleted, OrderStatusCompleted, false},
		{OrderStatusCompleted, OrderStatusPending, false},
		// Cancelled es terminal
		{OrderStatusCancelled, OrderStatusPending, false},
		{OrderStatusCancelled, OrderStatusCompleted, false},
		{OrderStatusCancelled, OrderStatusCancelled, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.canTrans, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestOrderStatus_EffectSign(t *testing.T) {
	assert.Equal(t, 1, OrderStatusPending.EffectSign(OrderStatusCompleted))
	assert.Equal(t, -1, OrderStatusCompleted.EffectSign(OrderStatusCancelled))
	assert.Equal(t, 0, OrderStatusPending.EffectSign(OrderStatusCancelled))
}

func TestParseRole(t *testing.T) {
	for _, s := range []string{"admin", "manager", "seller"} {
		r, ok := ParseRole(s)
		assert.True(t, ok, s)
		assert.Equal(t, s, r.String())
	}
	for _, s := range []string{"", "Admin", "bodeguero", "root"} {
		_, ok := ParseRole(s)
		assert.False(t, ok, "%q no debe ser un rol válido", s)
	}
}
