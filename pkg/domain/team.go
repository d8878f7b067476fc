package domain

import (
	"time"

	"github.com/google/uuid"
)

// Team groups counselors inside a tenant. Leads assigned to a team are
// visible to every counselor on it.
type Team struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	Name      string
	CreatedAt time.Time
}

// TeamMember assigns a user to a team.
type TeamMember struct {
	TeamID    uuid.UUID
	UserID    uuid.UUID
	TenantID  uuid.UUID
	CreatedAt time.Time
}
