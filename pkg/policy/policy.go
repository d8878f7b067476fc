// Package policy evaluates row-level access rules for leads against the
// caller's verified identity claims.
//
// Each rule is a pure predicate over the claims and the row. The only
// lookup is the set of teams assigned to the caller, which is supplied by
// a TeamResolver so the rules stay independent of storage.
package policy

import (
	"context"
	"slices"

	"github.com/google/uuid"
	"github.com/tendant/leadflow/pkg/domain"
)

// Claims are the identity attributes asserted by a verified credential.
type Claims struct {
	Role     domain.Role
	TenantID uuid.UUID
	UserID   uuid.UUID
}

// LeadRow is the subset of a lead the rules inspect.
type LeadRow struct {
	TenantID uuid.UUID
	OwnerID  uuid.UUID
	TeamID   *uuid.UUID
}

// RowOf extracts the policy-relevant columns from a lead.
func RowOf(lead *domain.Lead) LeadRow {
	return LeadRow{TenantID: lead.TenantID, OwnerID: lead.OwnerID, TeamID: lead.TeamID}
}

// TeamResolver returns the IDs of the teams a user is assigned to.
type TeamResolver interface {
	TeamIDsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

// LeadPolicy evaluates the lead rules.
type LeadPolicy struct {
	teams TeamResolver
}

// NewLeadPolicy creates a lead policy backed by the given team resolver.
func NewLeadPolicy(teams TeamResolver) *LeadPolicy {
	return &LeadPolicy{teams: teams}
}

// CanRead reports whether the caller may see the row.
func (p *LeadPolicy) CanRead(ctx context.Context, c Claims, row LeadRow) (bool, error) {
	switch c.Role {
	case domain.RoleAdmin:
		return row.TenantID == c.TenantID, nil
	case domain.RoleCounselor:
		if row.OwnerID == c.UserID {
			return true, nil
		}
		if row.TeamID == nil {
			return false, nil
		}
		teamIDs, err := p.teams.TeamIDsForUser(ctx, c.UserID)
		if err != nil {
			return false, err
		}
		return slices.Contains(teamIDs, *row.TeamID), nil
	default:
		return false, nil
	}
}

// CanCreate reports whether the caller may insert the row.
func (p *LeadPolicy) CanCreate(c Claims, row LeadRow) bool {
	if row.TenantID != c.TenantID {
		return false
	}
	return c.Role == domain.RoleAdmin || c.Role == domain.RoleCounselor
}

// CanUpdate reports whether the caller may turn before into after. The
// caller must be able to see the existing row and the written row must
// stay inside the caller's tenant.
func (p *LeadPolicy) CanUpdate(ctx context.Context, c Claims, before, after LeadRow) (bool, error) {
	if after.TenantID != c.TenantID {
		return false, nil
	}
	return p.CanRead(ctx, c, before)
}

// CanDelete reports whether the caller may remove the row.
func (p *LeadPolicy) CanDelete(c Claims, row LeadRow) bool {
	return c.Role == domain.RoleAdmin && row.TenantID == c.TenantID
}
