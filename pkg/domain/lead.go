package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultLeadStage is the stage assigned to a lead when none is given.
const DefaultLeadStage = "new"

// Lead represents a prospect owned by a counselor within a tenant.
type Lead struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	OwnerID   uuid.UUID
	TeamID    *uuid.UUID
	Name      string
	Email     *string
	Phone     *string
	Stage     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
