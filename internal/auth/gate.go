package auth

import "github.com/iliyamo/catalog-backend/internal/model"

// RoleGate admits accounts whose role is in a fixed set. Admin accounts
// pass every gate.
type RoleGate struct {
	allowed map[model.Role]bool
}

// NewRoleGate closes over the permitted roles.
func NewRoleGate(roles ...model.Role) RoleGate {
	allowed := make(map[model.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return RoleGate{allowed: allowed}
}

// Check returns a unchanged when its role is permitted, ErrForbidden otherwise.
func (g RoleGate) Check(a *model.Account) (*model.Account, error) {
	if a == nil {
		return nil, ErrForbidden
	}
	if a.Role == model.RoleAdmin || g.allowed[a.Role] {
		return a, nil
	}
	return nil, ErrForbidden
}

// Allows reports whether role would pass the gate.
func (g RoleGate) Allows(role model.Role) bool {
	return role == model.RoleAdmin || g.allowed[role]
}

// Common gates used by the router.
var (
	AnyRole    = NewRoleGate(model.Roles()...)
	SellerGate = NewRoleGate(model.RoleSeller, model.RoleAdmin)
	AdminGate  = NewRoleGate(model.RoleAdmin)
)
