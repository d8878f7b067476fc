package repository

import (
	"regexp"
	"strings"
	"testing"
)

func TestSchema_TenantIndexes(t *testing.T) {
	re := regexp.MustCompile(`CREATE INDEX IF NOT EXISTS (\w+) ON (\w+) \(([^)]*)\)`)
	matches := re.FindAllStringSubmatch(schemaSQL, -1)

	if len(matches) != 9 {
		t.Fatalf("expected 9 indexes, got %d", len(matches))
	}

	for _, m := range matches {
		if !strings.HasPrefix(m[3], "tenant_id") {
			t.Errorf("index %s on %s does not lead with tenant_id: %q", m[1], m[2], m[3])
		}
	}
}

func TestSchema_ReplicaIdentityFull(t *testing.T) {
	for _, table := range []string{"leads", "applications", "tasks"} {
		stmt := "ALTER TABLE " + table + " REPLICA IDENTITY FULL;"
		if !strings.Contains(schemaSQL, stmt) {
			t.Errorf("schema missing %q", stmt)
		}
	}
}

func TestSchema_Constraints(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"task type check", "CHECK (type IN ('call', 'email', 'review'))"},
		{"due_at check", "CHECK (due_at >= created_at)"},
		{"application cascade", "REFERENCES leads(id) ON DELETE CASCADE"},
		{"task cascade", "REFERENCES applications(id) ON DELETE CASCADE"},
		{"lead stage default", "stage       TEXT NOT NULL DEFAULT 'new'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(schemaSQL, tt.want) {
				t.Errorf("schema missing %q", tt.want)
			}
		})
	}
}

func TestSchema_RequiredTablesDeclared(t *testing.T) {
	for _, table := range RequiredTables {
		if !strings.Contains(schemaSQL, "CREATE TABLE IF NOT EXISTS "+table+" (") {
			t.Errorf("required table %q not declared in schema", table)
		}
	}
}
