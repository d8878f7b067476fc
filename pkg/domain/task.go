package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TaskType is the kind of follow-up work a task represents.
type TaskType string

const (
	TaskTypeCall   TaskType = "call"
	TaskTypeEmail  TaskType = "email"
	TaskTypeReview TaskType = "review"
)

// TaskTypes lists every valid task type in display order.
var TaskTypes = []TaskType{TaskTypeCall, TaskTypeEmail, TaskTypeReview}

// ParseTaskType returns the TaskType for s, or an error if s is not one of TaskTypes.
func ParseTaskType(s string) (TaskType, error) {
	for _, t := range TaskTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown task type %q", s)
}

// TaskTypeList renders TaskTypes as "call, email, review".
func TaskTypeList() string {
	names := make([]string, len(TaskTypes))
	for i, t := range TaskTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

// TaskStatus is the progress label of a task.
type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
)

// Task is a unit of follow-up work attached to an application.
type Task struct {
	ID            uuid.UUID
	TenantID      uuid.UUID
	ApplicationID uuid.UUID
	Type          TaskType
	Status        TaskStatus
	DueAt         time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsCompleted returns true if the task has reached its terminal status.
func (t *Task) IsCompleted() bool {
	return t.Status == TaskStatusCompleted
}

// DayWindow returns the UTC calendar day containing now as a half-open
// interval [start, end).
func DayWindow(now time.Time) (start, end time.Time) {
	now = now.UTC()
	start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}
