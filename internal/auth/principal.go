package auth

import (
	"github.com/avolkov/task-manager-api/internal/models"
)

// Principal is the authenticated caller, resolved once by the HTTP layer and
// passed explicitly to every service operation.
type Principal struct {
	UserID uint64
	Roles  []string
}

// IsAdmin reports whether the principal carries the ADMIN role.
func (p Principal) IsAdmin() bool {
	for _, r := range p.Roles {
		if r == string(models.RoleAdmin) {
			return true
		}
	}
	return false
}

// CanAccess is the authorization gate: a principal may act on an entity iff it
// is an admin or owns the entity. Callers must resolve existence first so that
// a missing entity reports not-found rather than forbidden.
func (p Principal) CanAccess(ownerID uint64) bool {
	return p.IsAdmin() || p.UserID == ownerID
}
