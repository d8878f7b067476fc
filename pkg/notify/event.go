// Package notify publishes tenant-scoped change events to the realtime
// channel consumed by dashboards.
package notify

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/leadflow/pkg/domain"
)

// EventTaskCreated is emitted after a task row is committed.
const EventTaskCreated = "task.created"

// Event is the JSON payload delivered on the tenant channel.
type Event struct {
	Type          string    `json:"type"`
	TaskID        uuid.UUID `json:"task_id"`
	ApplicationID uuid.UUID `json:"application_id"`
	TaskType      string    `json:"task_type"`
	DueAt         time.Time `json:"due_at"`
	TenantID      uuid.UUID `json:"tenant_id"`
	EmittedAt     time.Time `json:"emitted_at"`
}

// TaskCreated builds the event for a freshly inserted task.
func TaskCreated(task *domain.Task, now time.Time) Event {
	return Event{
		Type:          EventTaskCreated,
		TaskID:        task.ID,
		ApplicationID: task.ApplicationID,
		TaskType:      string(task.Type),
		DueAt:         task.DueAt.UTC(),
		TenantID:      task.TenantID,
		EmittedAt:     now.UTC(),
	}
}

// RoutingKey returns the topic routing key, tenant.<tenant_id>.<type>.
// Subscribers bind with tenant.<tenant_id>.# to receive only their tenant.
func (e Event) RoutingKey() string {
	return fmt.Sprintf("tenant.%s.%s", e.TenantID, e.Type)
}
