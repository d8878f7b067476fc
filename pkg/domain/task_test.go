package domain

import (
	"errors"
	"testing"
	"time"
)

func TestParseTaskType(t *testing.T) {
	tests := []struct {
		input   string
		want    TaskType
		wantErr bool
	}{
		{input: "call", want: TaskTypeCall},
		{input: "email", want: TaskTypeEmail},
		{input: "review", want: TaskTypeReview},
		{input: "Call", wantErr: true},
		{input: "meeting", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTaskType(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTaskType(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseTaskType(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTaskTypeList(t *testing.T) {
	if got := TaskTypeList(); got != "call, email, review" {
		t.Errorf("TaskTypeList() = %q", got)
	}
}

func TestTask_IsCompleted(t *testing.T) {
	task := &Task{Status: TaskStatusPending}
	if task.IsCompleted() {
		t.Error("pending task reported completed")
	}
	task.Status = TaskStatusCompleted
	if !task.IsCompleted() {
		t.Error("completed task not reported completed")
	}
}

func TestDayWindow(t *testing.T) {
	// 23:30 in UTC-5 is already the next day in UTC.
	loc := time.FixedZone("EST", -5*3600)
	now := time.Date(2026, 3, 9, 23, 30, 0, 0, loc)

	start, end := DayWindow(now)

	wantStart := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	if !start.Equal(wantStart) {
		t.Errorf("start = %v, want %v", start, wantStart)
	}
	if !end.Equal(wantStart.Add(24 * time.Hour)) {
		t.Errorf("end = %v, want %v", end, wantStart.Add(24*time.Hour))
	}
	if start.Location() != time.UTC {
		t.Errorf("start location = %v, want UTC", start.Location())
	}
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		input string
		want  Role
	}{
		{input: "admin", want: RoleAdmin},
		{input: "counselor", want: RoleCounselor},
	}
	for _, tt := range tests {
		got, err := ParseRole(tt.input)
		if err != nil {
			t.Fatalf("ParseRole(%q) unexpected error: %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("ParseRole(%q) = %v, want %v", tt.input, got, tt.want)
		}
		if got.String() != tt.input {
			t.Errorf("String() = %q, want %q", got.String(), tt.input)
		}
	}

	for _, bad := range []string{"", "Admin", "owner", "service_role"} {
		got, err := ParseRole(bad)
		if !errors.Is(err, ErrInvalidRole) {
			t.Errorf("ParseRole(%q) error = %v, want ErrInvalidRole", bad, err)
		}
		if got != RoleUnknown {
			t.Errorf("ParseRole(%q) = %v, want RoleUnknown", bad, got)
		}
	}
}
