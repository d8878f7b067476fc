package seed

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/leadflow/pkg/domain"
)

const sample = `
tenant: 11111111-1111-1111-1111-111111111111
teams:
  - id: 22222222-2222-2222-2222-222222222222
    name: North
    members:
      - 33333333-3333-3333-3333-333333333333
leads:
  - id: 44444444-4444-4444-4444-444444444444
    owner: 33333333-3333-3333-3333-333333333333
    team: 22222222-2222-2222-2222-222222222222
    name: Ada Lovelace
    email: ada@example.com
applications:
  - id: 55555555-5555-5555-5555-555555555555
    lead: 44444444-4444-4444-4444-444444444444
tasks:
  - id: 66666666-6666-6666-6666-666666666666
    application: 55555555-5555-5555-5555-555555555555
    type: call
    due_in: 2h
  - id: 77777777-7777-7777-7777-777777777777
    application: 55555555-5555-5555-5555-555555555555
    type: review
    status: completed
    due_at: "2030-05-30T09:00:00Z"
`

var now = time.Date(2030, 6, 1, 12, 0, 0, 0, time.UTC)

func TestPlan(t *testing.T) {
	f, err := Parse([]byte(sample))
	require.NoError(t, err)

	p, err := f.Plan(now)
	require.NoError(t, err)

	tenant := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	require.Len(t, p.Teams, 1)
	require.Len(t, p.Members, 1)
	assert.Equal(t, tenant, p.Members[0].TenantID)

	require.Len(t, p.Leads, 1)
	lead := p.Leads[0]
	assert.Equal(t, tenant, lead.TenantID)
	assert.Equal(t, domain.DefaultLeadStage, lead.Stage)
	require.NotNil(t, lead.TeamID)
	require.NotNil(t, lead.Email)
	assert.Nil(t, lead.Phone)

	require.Len(t, p.Applications, 1)
	assert.Equal(t, tenant, p.Applications[0].TenantID)
	assert.Equal(t, domain.DefaultApplicationStatus, p.Applications[0].Status)

	require.Len(t, p.Tasks, 2)
	upcoming := p.Tasks[0]
	assert.Equal(t, tenant, upcoming.TenantID)
	assert.Equal(t, domain.TaskStatusPending, upcoming.Status)
	assert.True(t, upcoming.DueAt.Equal(now.Add(2*time.Hour)))
	assert.True(t, upcoming.CreatedAt.Equal(now))

	past := p.Tasks[1]
	assert.Equal(t, domain.TaskStatusCompleted, past.Status)
	assert.True(t, past.CreatedAt.Equal(past.DueAt), "past task must satisfy due_at >= created_at")
}

func TestParse_RejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("tenant: 11111111-1111-1111-1111-111111111111\nlead: []\n"))
	assert.Error(t, err)
}

func TestPlan_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "bad lead id",
			doc: `
tenant: 11111111-1111-1111-1111-111111111111
leads:
  - id: nope
    owner: 33333333-3333-3333-3333-333333333333
    name: A
`,
			want: "leads[0].id",
		},
		{
			name: "lead without tenant",
			doc: `
leads:
  - id: 44444444-4444-4444-4444-444444444444
    owner: 33333333-3333-3333-3333-333333333333
    name: A
`,
			want: "has no tenant",
		},
		{
			name: "application for undeclared lead",
			doc: `
applications:
  - id: 55555555-5555-5555-5555-555555555555
    lead: 44444444-4444-4444-4444-444444444444
`,
			want: "not declared",
		},
		{
			name: "unknown task type",
			doc: `
tenant: 11111111-1111-1111-1111-111111111111
leads:
  - id: 44444444-4444-4444-4444-444444444444
    owner: 33333333-3333-3333-3333-333333333333
    name: A
applications:
  - id: 55555555-5555-5555-5555-555555555555
    lead: 44444444-4444-4444-4444-444444444444
tasks:
  - id: 66666666-6666-6666-6666-666666666666
    application: 55555555-5555-5555-5555-555555555555
    type: meeting
    due_in: 1h
`,
			want: "tasks[0].type",
		},
		{
			name: "task without due",
			doc: `
tenant: 11111111-1111-1111-1111-111111111111
leads:
  - id: 44444444-4444-4444-4444-444444444444
    owner: 33333333-3333-3333-3333-333333333333
    name: A
applications:
  - id: 55555555-5555-5555-5555-555555555555
    lead: 44444444-4444-4444-4444-444444444444
tasks:
  - id: 66666666-6666-6666-6666-666666666666
    application: 55555555-5555-5555-5555-555555555555
    type: call
`,
			want: "needs due_at or due_in",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse([]byte(tt.doc))
			require.NoError(t, err)
			_, err = f.Plan(now)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	f, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, f.Tasks, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
