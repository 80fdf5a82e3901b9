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

func seedStep(t *testing.T, store *buffer.Store) models.Step {
	t.Helper()
	step := models.Step{
		ID:        uuid.New(),
		PlanID:    uuid.New(),
		SessionID: uuid.New(),
		Agent:     models.MarketingAgent,
		Action:    "Draft the launch email",
		Status:    models.StepPlanned,
	}
	require.NoError(t, store.AddStep(context.Background(), &step))
	return step
}

func TestHandleFeedback_Approve(t *testing.T) {
	store := buffer.New()
	seeded := seedStep(t, store)
	h := New(store)

	step, err := h.HandleFeedback(context.Background(), models.HumanFeedback{
		StepID:    seeded.ID,
		SessionID: seeded.SessionID,
		Approved:  true,
		Feedback:  "looks good",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StepApproved, step.Status)
	assert.Equal(t, "looks good", step.HumanFeedback)
	assert.Equal(t, seeded.Action, step.Action)

	msgs, err := store.GetMessagesForSession(context.Background(), seeded.SessionID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, models.HumanAgent, msgs[0].Source)
	assert.Equal(t, "looks good", msgs[0].Content)
}

func TestHandleFeedback_ApproveWithUpdatedAction(t *testing.T) {
	store := buffer.New()
	seeded := seedStep(t, store)
	h := New(store)

	step, err := h.HandleFeedback(context.Background(), models.HumanFeedback{
		StepID:        seeded.ID,
		SessionID:     seeded.SessionID,
		Approved:      true,
		UpdatedAction: "Draft the launch email in French",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StepApproved, step.Status)
	assert.Equal(t, "Draft the launch email in French", step.Action)
	assert.Equal(t, "Draft the launch email in French", step.UpdatedAction)

	// no feedback text, nothing to audit
	msgs, err := store.GetMessagesForSession(context.Background(), seeded.SessionID)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestHandleFeedback_Reject(t *testing.T) {
	store := buffer.New()
	seeded := seedStep(t, store)
	h := New(store)

	step, err := h.HandleFeedback(context.Background(), models.HumanFeedback{
		StepID:    seeded.ID,
		SessionID: seeded.SessionID,
		Approved:  false,
		Feedback:  "wrong audience, target enterprise customers",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StepNeedsUpdate, step.Status)
	assert.Equal(t, seeded.Action, step.Action)

	stored, err := store.GetStep(context.Background(), seeded.SessionID, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StepNeedsUpdate, stored.Status)
	assert.Equal(t, "wrong audience, target enterprise customers", stored.HumanFeedback)
}

func TestHandleFeedback_StepNotFound(t *testing.T) {
	store := buffer.New()
	h := New(store)

	id := uuid.New()
	_, err := h.HandleFeedback(context.Background(), models.HumanFeedback{
		StepID:    id,
		SessionID: uuid.New(),
		Approved:  true,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), id.String())
	assert.Contains(t, err.Error(), "not found")
}
