package handler

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-agentplan/pkg/memory/buffer"
	"go-agentplan/pkg/models"
)

func seedPlan(t *testing.T, store *buffer.Store, statuses ...models.StepStatus) (uuid.UUID, uuid.UUID, []models.Step) {
	t.Helper()
	ctx := context.Background()
	sessionID := uuid.New()
	plan := models.Plan{ID: uuid.New(), SessionID: sessionID, Task: "onboard a new hire", Status: models.PlanCreated}
	require.NoError(t, store.AddPlan(ctx, &plan))

	steps := make([]models.Step, 0, len(statuses))
	for _, status := range statuses {
		step := models.Step{
			ID:        uuid.New(),
			PlanID:    plan.ID,
			SessionID: sessionID,
			Agent:     models.HrAgent,
			Action:    "do something",
			Status:    status,
		}
		require.NoError(t, store.AddStep(ctx, &step))
		steps = append(steps, step)
	}
	return sessionID, plan.ID, steps
}

func TestNextStep_ClaimsFirstRunnable(t *testing.T) {
	store := buffer.New()
	sessionID, planID, steps := seedPlan(t, store,
		models.StepCompleted, models.StepApproved, models.StepPlanned)
	h := New(store, nil)

	req, msg, err := h.NextStep(context.Background(), sessionID, planID)
	require.NoError(t, err)
	require.NotNil(t, req)
	assert.Equal(t, steps[1].ID, req.StepID)
	assert.Equal(t, models.HrAgent, req.Agent)
	assert.Contains(t, msg, "dispatched")

	claimed, err := store.GetStep(context.Background(), sessionID, req.StepID)
	require.NoError(t, err)
	assert.Equal(t, models.StepInProgress, claimed.Status)

	plan, err := store.GetPlan(context.Background(), sessionID, planID)
	require.NoError(t, err)
	assert.Equal(t, models.PlanInProgress, plan.Status)
}

func TestNextStep_SkipsNonRunnable(t *testing.T) {
	store := buffer.New()
	sessionID, planID, _ := seedPlan(t, store,
		models.StepInProgress, models.StepNeedsUpdate, models.StepFailed)
	h := New(store, nil)

	req, msg, err := h.NextStep(context.Background(), sessionID, planID)
	require.NoError(t, err)
	assert.Nil(t, req)
	assert.Equal(t, PlanFinishedMessage, msg)
}

func TestNextStep_CompletesPlanOnce(t *testing.T) {
	store := buffer.New()
	sessionID, planID, _ := seedPlan(t, store, models.StepCompleted, models.StepCompleted)
	h := New(store, nil)

	for i := 0; i < 2; i++ {
		req, msg, err := h.NextStep(context.Background(), sessionID, planID)
		require.NoError(t, err)
		assert.Nil(t, req)
		assert.Equal(t, PlanFinishedMessage, msg)
	}

	plan, err := store.GetPlan(context.Background(), sessionID, planID)
	require.NoError(t, err)
	assert.Equal(t, models.PlanCompleted, plan.Status)
}

func TestNextStep_SequentialDrain(t *testing.T) {
	store := buffer.New()
	sessionID, planID, steps := seedPlan(t, store,
		models.StepPlanned, models.StepPlanned, models.StepPlanned)
	h := New(store, nil)

	for _, want := range steps {
		req, _, err := h.NextStep(context.Background(), sessionID, planID)
		require.NoError(t, err)
		require.NotNil(t, req)
		assert.Equal(t, want.ID, req.StepID)

		// mark done the way a task agent would
		claimed, err := store.GetStep(context.Background(), sessionID, req.StepID)
		require.NoError(t, err)
		claimed.Status = models.StepCompleted
		require.NoError(t, store.UpdateStep(context.Background(), claimed))
	}

	req, msg, err := h.NextStep(context.Background(), sessionID, planID)
	require.NoError(t, err)
	assert.Nil(t, req)
	assert.Equal(t, PlanFinishedMessage, msg)
}

func TestNextStep_UnknownPlan(t *testing.T) {
	store := buffer.New()
	h := New(store, nil)

	_, _, err := h.NextStep(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestResolve(t *testing.T) {
	registered := func(name models.AgentName) bool {
		return name == models.HrAgent
	}

	name, fellBack := Resolve(registered, models.HrAgent)
	assert.Equal(t, models.HrAgent, name)
	assert.False(t, fellBack)

	name, fellBack = Resolve(registered, models.AgentName("AstrologyAgent"))
	assert.Equal(t, models.GenericAgent, name)
	assert.True(t, fellBack)
}
