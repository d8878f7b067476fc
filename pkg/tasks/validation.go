package tasks

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/leadflow/pkg/domain"
)

// Field names reported in validation errors and metrics.
const (
	FieldApplicationID = "application_id"
	FieldTaskType      = "task_type"
	FieldDueAt         = "due_at"
)

// uuidPattern accepts only the canonical 8-4-4-4-12 hex form. uuid.Parse
// alone would also take braces, a urn: prefix and the bare 32-digit form.
var uuidPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// Layouts tried in order when parsing due_at. Forms without a zone are
// read as UTC.
var dueAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ValidationError is a client error with a message safe to return verbatim.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// CreateInput is the raw task creation request.
type CreateInput struct {
	ApplicationID string `json:"application_id"`
	TaskType      string `json:"task_type"`
	DueAt         string `json:"due_at"`
}

// ValidInput is CreateInput after validation.
type ValidInput struct {
	ApplicationID uuid.UUID
	Type          domain.TaskType
	DueAt         time.Time
}

// Validate checks in and stops at the first failure. Presence of all three
// fields is checked before any format, so a request missing due_at with a
// malformed application_id reports the missing due_at.
func Validate(in CreateInput, now time.Time) (ValidInput, error) {
	applicationID := strings.TrimSpace(in.ApplicationID)
	taskType := strings.TrimSpace(in.TaskType)
	dueAt := strings.TrimSpace(in.DueAt)

	switch {
	case applicationID == "":
		return ValidInput{}, invalid(FieldApplicationID, "application_id is required")
	case taskType == "":
		return ValidInput{}, invalid(FieldTaskType, "task_type is required")
	case dueAt == "":
		return ValidInput{}, invalid(FieldDueAt, "due_at is required")
	}

	if !uuidPattern.MatchString(applicationID) {
		return ValidInput{}, invalid(FieldApplicationID, "application_id must be a valid UUID")
	}
	id, err := uuid.Parse(applicationID)
	if err != nil {
		return ValidInput{}, invalid(FieldApplicationID, "application_id must be a valid UUID")
	}

	typ, err := domain.ParseTaskType(taskType)
	if err != nil {
		return ValidInput{}, invalid(FieldTaskType, "task_type must be one of: "+domain.TaskTypeList())
	}

	due, ok := ParseDueAt(dueAt)
	if !ok {
		return ValidInput{}, invalid(FieldDueAt, "due_at has an invalid format")
	}
	if !due.After(now) {
		return ValidInput{}, invalid(FieldDueAt, "due_at must be in the future")
	}

	return ValidInput{ApplicationID: id, Type: typ, DueAt: due}, nil
}

// ParseDueAt parses an ISO-8601 date-time and returns it in UTC.
func ParseDueAt(s string) (time.Time, bool) {
	for _, layout := range dueAtLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
