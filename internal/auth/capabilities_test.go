package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/amazighishop/shop_api/internal/models"
)

func TestFor(t *testing.T) {
	tests := []struct {
		role    models.Role
		orders  bool
		catalog bool
		users   bool
		gate    bool
		home    string
	}{
		{models.RoleAdmin, true, true, true, false, "/admin/dashboard"},
		{models.RoleOrderManager, true, false, false, false, "/admin/orders"},
		{models.RoleClient, false, false, false, true, "/client/payment-methods"},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			caps := For(tt.role)
			assert.Equal(t, tt.orders, caps.Has(ManageOrders))
			assert.Equal(t, tt.catalog, caps.Has(ManageCatalog))
			assert.Equal(t, tt.users, caps.Has(ManageUsers))
			assert.True(t, caps.Has(Shop))
			assert.Equal(t, tt.gate, caps.NeedsPaymentMethod)
			assert.Equal(t, tt.home, HomeRoute(tt.role))
		})
	}
}

func TestFor_UnknownRole(t *testing.T) {
	caps := For(models.Role("guest"))
	assert.False(t, caps.Has(Shop))
	assert.False(t, caps.Has(ManageOrders))
}
