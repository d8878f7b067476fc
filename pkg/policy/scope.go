package policy

import (
	"github.com/google/uuid"
	"github.com/tendant/leadflow/pkg/domain"
)

// LeadScope is the read rule expressed as filter parameters, for queries
// that list many rows at once. The repository turns it into a WHERE clause
// equivalent to CanRead.
type LeadScope struct {
	// TenantID is set for admins: every row of the tenant is visible.
	TenantID *uuid.UUID
	// UserID is set for counselors: owned rows and rows of the user's
	// teams are visible.
	UserID *uuid.UUID
}

// ReadScope returns the list filter for the caller. ok is false when the
// caller can see nothing.
func ReadScope(c Claims) (scope LeadScope, ok bool) {
	switch c.Role {
	case domain.RoleAdmin:
		tenantID := c.TenantID
		return LeadScope{TenantID: &tenantID}, true
	case domain.RoleCounselor:
		userID := c.UserID
		return LeadScope{UserID: &userID}, true
	default:
		return LeadScope{}, false
	}
}
