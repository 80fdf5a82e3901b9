package handler

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/chains"

	"go-agentplan/pkg/data"
	"go-agentplan/pkg/logger"
	"go-agentplan/pkg/memory"
	"go-agentplan/pkg/models"
	"go-agentplan/pkg/prompts"
	"go-agentplan/pkg/template"
	"go-agentplan/pkg/tools"
)

// Config is everything that distinguishes one task agent from another.
type Config struct {
	Name          models.AgentName
	SystemMessage string
	Tools         []tools.Tool
}

// Handler executes action requests for one configured agent: it asks the
// model to pick a tool from the agent's catalog, runs the tool template and
// records the outcome.
type Handler struct {
	cfg   Config
	chain chains.Chain
	store memory.Store
	opts  []chains.ChainCallOption
}

func New(cfg Config, chain chains.Chain, store memory.Store, opts ...chains.ChainCallOption) *Handler {
	return &Handler{
		cfg:   cfg,
		chain: chain,
		store: store,
		opts:  opts,
	}
}

type toolCall struct {
	Tool string            `json:"tool"`
	Args map[string]string `json:"args"`
}

// HandleActionJSON parses a raw action request and executes it. A request
// that cannot be parsed is answered with the unknown-step sentinel.
func (h *Handler) HandleActionJSON(ctx context.Context, raw []byte) models.ActionResponse {
	var req models.ActionRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return models.ActionResponse{
			StepID:  models.UnknownStep,
			Status:  models.StepFailed,
			Message: fmt.Sprintf("unable to parse action request: %v", err),
		}
	}
	return h.HandleAction(ctx, req)
}

// HandleAction resolves and runs one tool for the step named by the request.
// All failures come back as a failed ActionResponse, never an error; a tool
// failure leaves the step itself untouched, so re-driving it requires human
// feedback or replanning.
func (h *Handler) HandleAction(ctx context.Context, req models.ActionRequest) models.ActionResponse {
	l := log.With().
		Str(logger.AgentNameField, string(h.cfg.Name)).
		Str(logger.StepField, req.StepID.String()).
		Logger()

	step, err := h.store.GetStep(ctx, req.SessionID, req.StepID)
	if err != nil {
		return h.failed(ctx, req, fmt.Sprintf("load step: %v", err))
	}
	if step == nil {
		l.Warn().Msg("action request references a missing step")
		return h.failed(ctx, req, "step not found")
	}

	transcript, err := h.transcript(ctx, req.SessionID, step)
	if err != nil {
		return h.failed(ctx, req, fmt.Sprintf("load transcript: %v", err))
	}

	completion, err := chains.Call(ctx, h.chain, map[string]any{
		"SystemMessage": h.cfg.SystemMessage,
		"Transcript":    transcript,
		"Action":        step.Action,
		"Tools":         tools.Describe(h.cfg.Tools),
	}, h.opts...)
	if err != nil {
		l.Error().Err(err).Msg("tool resolution call failed")
		return h.failed(ctx, req, fmt.Sprintf("call: %v", err))
	}
	answer, ok := completion["text"].(string)
	if !ok {
		return h.failed(ctx, req, "completion missing text output")
	}

	match, err := data.SanitizeAnswer(answer)
	if err != nil {
		return h.failed(ctx, req, fmt.Sprintf("sanitize answer: %v", err))
	}
	var call toolCall
	if err := json.Unmarshal([]byte(match), &call); err != nil {
		return h.failed(ctx, req, fmt.Sprintf("parse tool selection: %v", err))
	}

	tool, ok := tools.Find(h.cfg.Tools, call.Tool)
	if !ok {
		l.Error().Str("tool", call.Tool).Msg("model selected an unknown tool")
		return h.failed(ctx, req, fmt.Sprintf("unknown tool: %s", call.Tool))
	}

	l.Info().Str("tool", tool.Name).Msg("executing tool for step")
	result := tool.Execute(call.Args)

	if err := h.store.AddMessage(ctx, &models.AgentMessage{
		ID:        uuid.New(),
		SessionID: req.SessionID,
		PlanID:    req.PlanID,
		StepID:    req.StepID,
		Source:    h.cfg.Name,
		Content:   result,
	}); err != nil {
		l.Error().Err(err).Msg("unable to audit agent message")
	}

	step.Status = models.StepCompleted
	step.AgentReply = result
	if err := h.store.UpdateStep(ctx, step); err != nil {
		return h.failed(ctx, req, fmt.Sprintf("update step: %v", err))
	}

	return models.ActionResponse{
		StepID:    req.StepID,
		PlanID:    req.PlanID,
		SessionID: req.SessionID,
		Status:    models.StepCompleted,
		Message:   result,
	}
}

// failed audits the error event and wraps it in a failed response.
func (h *Handler) failed(ctx context.Context, req models.ActionRequest, msg string) models.ActionResponse {
	if err := h.store.AddMessage(ctx, &models.AgentMessage{
		ID:        uuid.New(),
		SessionID: req.SessionID,
		PlanID:    req.PlanID,
		StepID:    req.StepID,
		Source:    h.cfg.Name,
		Content:   "error: " + msg,
	}); err != nil {
		log.Error().Err(err).Msg("unable to audit error event")
	}
	return models.ActionResponse{
		StepID:    req.StepID,
		PlanID:    req.PlanID,
		SessionID: req.SessionID,
		Status:    models.StepFailed,
		Message:   msg,
	}
}

func (h *Handler) transcript(ctx context.Context, sessionID uuid.UUID, step *models.Step) (string, error) {
	msgs, err := h.store.GetMessagesForSession(ctx, sessionID)
	if err != nil {
		return "", err
	}
	return template.Parse(prompts.TranscriptTemplate, struct {
		Messages      []models.AgentMessage
		HumanFeedback string
	}{
		Messages:      msgs,
		HumanFeedback: step.HumanFeedback,
	})
}
