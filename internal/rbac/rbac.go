// Package rbac maps authenticated identities to roles and roles to the
// navigation and route surface they are allowed to reach. Every function
// here is total: unknown inputs fall back to a defined default instead of
// failing.
package rbac

import "strings"

type Role string

const (
	RoleBuyer      Role = "buyer"
	RoleVendor     Role = "vendor"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super-admin"
)

type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

type NavItem struct {
	Path    string `json:"path"`
	Label   string `json:"label"`
	IconRef string `json:"icon_ref"`
}

// DeriveRole infers the role from an email address by substring match,
// checked in fixed priority order with first match winning. Any email that
// matches nothing is a buyer, so the function never fails.
//
// The admin check deliberately runs before the super check, which means an
// address like "superadmin@x.com" resolves to admin. That ordering matches
// the shipped login behavior; see DESIGN.md before reordering.
func DeriveRole(email string) Role {
	e := strings.ToLower(email)
	switch {
	case strings.Contains(e, "vendor"):
		return RoleVendor
	case strings.Contains(e, "admin"):
		return RoleAdmin
	case strings.Contains(e, "super"):
		return RoleSuperAdmin
	default:
		return RoleBuyer
	}
}

var landingPaths = map[Role]string{
	RoleBuyer:      "/buyer/dashboard",
	RoleVendor:     "/vendor/dashboard",
	RoleAdmin:      "/admin/dashboard",
	RoleSuperAdmin: "/super-admin/dashboard",
}

// LandingPath returns the post-login redirect target for a role. Unknown
// roles land on the root page.
func LandingPath(role Role) string {
	if path, ok := landingPaths[role]; ok {
		return path
	}
	return "/"
}

var navigation = map[Role][]NavItem{
	RoleBuyer: {
		{Path: "/buyer/dashboard", Label: "Home", IconRef: "home"},
		{Path: "/buyer/products", Label: "Shop", IconRef: "storefront"},
		{Path: "/buyer/cart", Label: "Cart", IconRef: "cart"},
		{Path: "/buyer/orders", Label: "Orders", IconRef: "package"},
		{Path: "/buyer/favorites", Label: "Favorites", IconRef: "heart"},
		{Path: "/buyer/profile", Label: "Profile", IconRef: "user"},
	},
	RoleVendor: {
		{Path: "/vendor/dashboard", Label: "Dashboard", IconRef: "chart"},
		{Path: "/vendor/products", Label: "My Products", IconRef: "box"},
		{Path: "/vendor/orders", Label: "Orders", IconRef: "package"},
		{Path: "/vendor/earnings", Label: "Earnings", IconRef: "cedi"},
		{Path: "/vendor/profile", Label: "Profile", IconRef: "user"},
	},
	RoleAdmin: {
		{Path: "/admin/dashboard", Label: "Dashboard", IconRef: "chart"},
		{Path: "/admin/vendors", Label: "Vendors", IconRef: "store"},
		{Path: "/admin/buyers", Label: "Buyers", IconRef: "users"},
		{Path: "/admin/disputes", Label: "Disputes", IconRef: "scale"},
		{Path: "/admin/profile", Label: "Profile", IconRef: "user"},
	},
	RoleSuperAdmin: {
		{Path: "/super-admin/dashboard", Label: "Dashboard", IconRef: "chart"},
		{Path: "/super-admin/admins", Label: "Admins", IconRef: "shield"},
		{Path: "/super-admin/platform", Label: "Platform", IconRef: "settings"},
		{Path: "/super-admin/reports", Label: "Reports", IconRef: "report"},
	},
}

// NavigationFor returns the ordered menu for a role. The order is the
// rendering order. Unknown roles get an empty menu.
func NavigationFor(role Role) []NavItem {
	items := navigation[role]
	out := make([]NavItem, len(items))
	copy(out, items)
	return out
}

// Access is hierarchical and nested. An explicit permitted-set table keeps
// the hierarchy readable and avoids numeric-rank comparison slips.
var permitted = map[Role]map[Role]bool{
	RoleBuyer: {
		RoleBuyer: true,
	},
	RoleVendor: {
		RoleVendor: true,
		RoleBuyer:  true,
	},
	RoleAdmin: {
		RoleAdmin:  true,
		RoleVendor: true,
		RoleBuyer:  true,
	},
	RoleSuperAdmin: {
		RoleSuperAdmin: true,
		RoleAdmin:      true,
		RoleVendor:     true,
		RoleBuyer:      true,
	},
}

// HasPermission reports whether userRole may access routes owned by
// targetRole. Unknown roles on either side are denied.
func HasPermission(userRole, targetRole Role) bool {
	return permitted[userRole][targetRole]
}
