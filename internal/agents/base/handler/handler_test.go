package handler

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/chains"
	lcmemory "github.com/tmc/langchaingo/memory"
	"github.com/tmc/langchaingo/schema"

	"go-agentplan/pkg/memory/buffer"
	"go-agentplan/pkg/models"
	"go-agentplan/pkg/tools"
)

// fakeChain replays a canned completion, or fails.
type fakeChain struct {
	text string
	err  error

	lastInputs map[string]any
}

func (f *fakeChain) Call(_ context.Context, inputs map[string]any, _ ...chains.ChainCallOption) (map[string]any, error) {
	f.lastInputs = inputs
	if f.err != nil {
		return nil, f.err
	}
	return map[string]any{"text": f.text}, nil
}

func (f *fakeChain) GetMemory() schema.Memory { return lcmemory.NewSimple() }
func (f *fakeChain) GetInputKeys() []string   { return []string{} }
func (f *fakeChain) GetOutputKeys() []string  { return []string{"text"} }

var testTools = []tools.Tool{
	{
		Name:             "greet_employee",
		Description:      "Sends a greeting",
		Parameters:       []string{"name"},
		ResponseTemplate: "Hello {name}",
	},
}

func testConfig() Config {
	return Config{
		Name:          models.HrAgent,
		SystemMessage: "You are an HR agent.",
		Tools:         testTools,
	}
}

func seedStep(t *testing.T, store *buffer.Store) models.ActionRequest {
	t.Helper()
	sessionID := uuid.New()
	step := models.Step{
		ID:        uuid.New(),
		PlanID:    uuid.New(),
		SessionID: sessionID,
		Agent:     models.HrAgent,
		Action:    "Greet the new hire",
		Status:    models.StepInProgress,
	}
	require.NoError(t, store.AddStep(context.Background(), &step))
	return models.ActionRequest{
		StepID:    step.ID,
		PlanID:    step.PlanID,
		SessionID: sessionID,
		Agent:     step.Agent,
		Action:    step.Action,
	}
}

func TestHandleAction_CompletesStep(t *testing.T) {
	store := buffer.New()
	req := seedStep(t, store)
	chain := &fakeChain{text: `{"tool": "greet_employee", "args": {"name": "Alice"}}`}
	h := New(testConfig(), chain, store)

	resp := h.HandleAction(context.Background(), req)

	assert.Equal(t, models.StepCompleted, resp.Status)
	assert.Contains(t, resp.Message, "Hello Alice")
	assert.Contains(t, resp.Message, tools.FormattingInstructions)

	step, err := store.GetStep(context.Background(), req.SessionID, req.StepID)
	require.NoError(t, err)
	assert.Equal(t, models.StepCompleted, step.Status)
	assert.Equal(t, resp.Message, step.AgentReply)

	msgs, err := store.GetMessagesForSession(context.Background(), req.SessionID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, models.HrAgent, msgs[0].Source)
	assert.Equal(t, resp.Message, msgs[0].Content)
}

func TestHandleAction_PromptCarriesTranscriptAndFeedback(t *testing.T) {
	store := buffer.New()
	req := seedStep(t, store)

	step, err := store.GetStep(context.Background(), req.SessionID, req.StepID)
	require.NoError(t, err)
	step.HumanFeedback = "use her full name"
	require.NoError(t, store.UpdateStep(context.Background(), step))
	require.NoError(t, store.AddMessage(context.Background(), &models.AgentMessage{
		ID:        uuid.New(),
		SessionID: req.SessionID,
		Source:    models.PlannerAgent,
		Content:   "Generated a plan with 1 steps",
	}))

	chain := &fakeChain{text: `{"tool": "greet_employee", "args": {"name": "Alice"}}`}
	h := New(testConfig(), chain, store)
	h.HandleAction(context.Background(), req)

	transcript, ok := chain.lastInputs["Transcript"].(string)
	require.True(t, ok)
	assert.Contains(t, transcript, "Generated a plan with 1 steps")
	assert.Contains(t, transcript, "Human feedback: use her full name")
	assert.Equal(t, "You are an HR agent.", chain.lastInputs["SystemMessage"])
	assert.Equal(t, "Greet the new hire", chain.lastInputs["Action"])
}

func TestHandleAction_MissingStep(t *testing.T) {
	store := buffer.New()
	chain := &fakeChain{text: `unused`}
	h := New(testConfig(), chain, store)

	req := models.ActionRequest{
		StepID:    uuid.New(),
		SessionID: uuid.New(),
		Agent:     models.HrAgent,
	}
	resp := h.HandleAction(context.Background(), req)

	assert.Equal(t, models.StepFailed, resp.Status)
	assert.Equal(t, "step not found", resp.Message)
	assert.Nil(t, chain.lastInputs)
}

func TestHandleAction_ChainErrorLeavesStepUntouched(t *testing.T) {
	store := buffer.New()
	req := seedStep(t, store)
	chain := &fakeChain{err: errors.New("model unavailable")}
	h := New(testConfig(), chain, store)

	resp := h.HandleAction(context.Background(), req)
	assert.Equal(t, models.StepFailed, resp.Status)

	step, err := store.GetStep(context.Background(), req.SessionID, req.StepID)
	require.NoError(t, err)
	assert.Equal(t, models.StepInProgress, step.Status)
	assert.Empty(t, step.AgentReply)

	msgs, err := store.GetMessagesForSession(context.Background(), req.SessionID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Content, "error:")
}

func TestHandleAction_UnknownTool(t *testing.T) {
	store := buffer.New()
	req := seedStep(t, store)
	chain := &fakeChain{text: `{"tool": "drop_tables", "args": {}}`}
	h := New(testConfig(), chain, store)

	resp := h.HandleAction(context.Background(), req)
	assert.Equal(t, models.StepFailed, resp.Status)
	assert.Contains(t, resp.Message, "unknown tool: drop_tables")
}

func TestHandleAction_MissingToolParameter(t *testing.T) {
	store := buffer.New()
	req := seedStep(t, store)
	chain := &fakeChain{text: `{"tool": "greet_employee", "args": {}}`}
	h := New(testConfig(), chain, store)

	// a missing parameter is an in-band result, not a failure
	resp := h.HandleAction(context.Background(), req)
	assert.Equal(t, models.StepCompleted, resp.Status)
	assert.Contains(t, resp.Message, "Missing parameter")
}

func TestHandleActionJSON_Unparseable(t *testing.T) {
	store := buffer.New()
	h := New(testConfig(), &fakeChain{}, store)

	resp := h.HandleActionJSON(context.Background(), []byte("not json"))
	assert.Equal(t, models.UnknownStep, resp.StepID)
	assert.Equal(t, models.StepFailed, resp.Status)
	assert.Contains(t, resp.Message, "unable to parse action request")
}
