package seed

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/leadflow/pkg/domain"
	"github.com/tendant/leadflow/pkg/repository"
)

func TestApply_Idempotent(t *testing.T) {
	dsn := os.Getenv("LEADFLOW_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("Skipping seed test - LEADFLOW_TEST_DATABASE_URL not set")
	}
	db, err := repository.Open(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	require.NoError(t, repository.Migrate(ctx, db))

	// Fresh IDs so reruns of the suite do not collide with earlier data.
	doc := sample
	for _, old := range []string{
		"11111111-1111-1111-1111-111111111111",
		"22222222-2222-2222-2222-222222222222",
		"44444444-4444-4444-4444-444444444444",
		"55555555-5555-5555-5555-555555555555",
		"66666666-6666-6666-6666-666666666666",
		"77777777-7777-7777-7777-777777777777",
	} {
		doc = strings.ReplaceAll(doc, old, uuid.NewString())
	}
	f, err := Parse([]byte(doc))
	require.NoError(t, err)
	plan, err := f.Plan(time.Now())
	require.NoError(t, err)

	first, err := Apply(ctx, db, plan)
	require.NoError(t, err)
	assert.Equal(t, Result{Teams: 1, Members: 1, Leads: 1, Applications: 1, Tasks: 2}, first)

	_, err = Apply(ctx, db, plan)
	require.NoError(t, err)

	task, err := repository.NewTasksRepository(db).GetByID(ctx, plan.Tasks[1].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusCompleted, task.Status)
	assert.Equal(t, plan.Leads[0].TenantID, task.TenantID)

	teams, err := repository.NewTeamsRepository(db).TeamIDsForUser(ctx, plan.Members[0].UserID)
	require.NoError(t, err)
	assert.Contains(t, teams, plan.Teams[0].ID)
}
