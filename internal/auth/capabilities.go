// Package auth resolves what a signed-in user is allowed to do.
package auth

import "github.com/amazighishop/shop_api/internal/models"

type Capability string

const (
	ManageOrders  Capability = "manage_orders"
	ManageCatalog Capability = "manage_catalog"
	ManageUsers   Capability = "manage_users"
	Shop          Capability = "shop"
)

// Capabilities is resolved once per request from the user's role and passed
// down to handlers and page payloads.
type Capabilities struct {
	CanManageOrders  bool `json:"canManageOrders"`
	CanManageCatalog bool `json:"canManageCatalog"`
	CanManageUsers   bool `json:"canManageUsers"`
	CanShop          bool `json:"canShop"`
	// NeedsPaymentMethod is set for clients, whose shopping pages require a
	// selected payment method.
	NeedsPaymentMethod bool `json:"needsPaymentMethod"`
}

// For resolves the capabilities granted by role.
func For(role models.Role) Capabilities {
	switch role {
	case models.RoleAdmin:
		return Capabilities{CanManageOrders: true, CanManageCatalog: true, CanManageUsers: true, CanShop: true}
	case models.RoleOrderManager:
		return Capabilities{CanManageOrders: true, CanShop: true}
	case models.RoleClient:
		return Capabilities{CanShop: true, NeedsPaymentMethod: true}
	}
	return Capabilities{}
}

// Has reports whether the capability set grants c.
func (c Capabilities) Has(want Capability) bool {
	switch want {
	case ManageOrders:
		return c.CanManageOrders
	case ManageCatalog:
		return c.CanManageCatalog
	case ManageUsers:
		return c.CanManageUsers
	case Shop:
		return c.CanShop
	}
	return false
}

// HomeRoute is where a user lands after logging in.
func HomeRoute(role models.Role) string {
	switch role {
	case models.RoleAdmin:
		return "/admin/dashboard"
	case models.RoleOrderManager:
		return "/admin/orders"
	}
	return "/client/payment-methods"
}
