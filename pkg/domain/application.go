package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultApplicationStatus is the status of a newly created application.
const DefaultApplicationStatus = "pending"

// Application is the conversion of a lead. It is deleted with its lead.
type Application struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	LeadID    uuid.UUID
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
