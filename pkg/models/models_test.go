package models

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionRequest_RoundTrip(t *testing.T) {
	req := ActionRequest{
		StepID:    uuid.New(),
		PlanID:    uuid.New(),
		SessionID: uuid.New(),
		Agent:     HrAgent,
		Action:    "onboard the new employee",
	}

	data, err := json.Marshal(req)
	require.NoError(t, err)

	var got ActionRequest
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, req, got)
}

func TestActionResponse_RoundTrip(t *testing.T) {
	resp := ActionResponse{
		StepID:    uuid.New(),
		PlanID:    uuid.New(),
		SessionID: uuid.New(),
		Status:    StepCompleted,
		Message:   "done",
	}

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var got ActionResponse
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, resp, got)
}

func TestStepStatus_CanTransition(t *testing.T) {
	tests := []struct {
		from StepStatus
		to   StepStatus
		want bool
	}{
		{StepPlanned, StepInProgress, true},
		{StepApproved, StepInProgress, true},
		{StepPlanned, StepApproved, true},
		{StepPlanned, StepNeedsUpdate, true},
		{StepNeedsUpdate, StepApproved, true},
		{StepInProgress, StepCompleted, true},
		{StepInProgress, StepFailed, true},
		{StepNeedsUpdate, StepInProgress, false},
		{StepPlanned, StepCompleted, false},
		{StepCompleted, StepInProgress, false},
		{StepCompleted, StepApproved, false},
		{StepFailed, StepInProgress, false},
		{StepInProgress, StepPlanned, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestStepStatus_Predicates(t *testing.T) {
	assert.True(t, StepCompleted.Terminal())
	assert.True(t, StepFailed.Terminal())
	assert.False(t, StepInProgress.Terminal())

	assert.True(t, StepPlanned.Runnable())
	assert.True(t, StepApproved.Runnable())
	assert.False(t, StepNeedsUpdate.Runnable())
	assert.False(t, StepInProgress.Runnable())
}

func TestKnownTaskAgent(t *testing.T) {
	assert.True(t, KnownTaskAgent(MarketingAgent))
	assert.False(t, KnownTaskAgent(PlannerAgent))
	assert.False(t, KnownTaskAgent(AgentName("NopeAgent")))
}
