package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/chains"

	"go-agentplan/pkg/data"
	"go-agentplan/pkg/memory"
	"go-agentplan/pkg/messages"
	"go-agentplan/pkg/models"
)

// Handler turns a submitted task into a persisted plan with ordered steps.
type Handler struct {
	chain  chains.Chain
	store  memory.Store
	agents string // rendered team description for the planning prompt
	opts   []chains.ChainCallOption
}

func New(chain chains.Chain, store memory.Store, agents string, opts ...chains.ChainCallOption) *Handler {
	return &Handler{
		chain:  chain,
		store:  store,
		agents: agents,
		opts:   opts,
	}
}

type plannedStep struct {
	Agent  string `json:"agent"`
	Action string `json:"action"`
}

type plannedAnswer struct {
	Steps []plannedStep `json:"steps"`
}

// Plan asks the model to decompose the task, validates the assigned agent
// names and persists the plan with every step in planned status.
func (h *Handler) Plan(ctx context.Context, task messages.NewTask) (models.Plan, []models.Step, error) {
	completion, err := chains.Call(ctx, h.chain, map[string]any{
		"Task":   task.Description,
		"Agents": h.agents,
	}, h.opts...)
	if err != nil {
		return models.Plan{}, nil, fmt.Errorf("call: %w", err)
	}
	answer, ok := completion["text"].(string)
	if !ok {
		return models.Plan{}, nil, errors.New("completion missing text output")
	}

	match, err := data.SanitizeAnswer(answer)
	if err != nil {
		return models.Plan{}, nil, fmt.Errorf("sanitize answer: %w", err)
	}
	var parsed plannedAnswer
	if err := json.Unmarshal([]byte(match), &parsed); err != nil {
		return models.Plan{}, nil, fmt.Errorf("unmarshal: %w", err)
	}
	if len(parsed.Steps) == 0 {
		return models.Plan{}, nil, errors.New("unable to build a plan from the task")
	}

	plan := models.Plan{
		ID:        uuid.New(),
		SessionID: task.SessionID,
		Task:      task.Description,
		Status:    models.PlanCreated,
	}
	if err := h.store.AddPlan(ctx, &plan); err != nil {
		return models.Plan{}, nil, fmt.Errorf("add plan: %w", err)
	}

	steps := make([]models.Step, 0, len(parsed.Steps))
	for _, ps := range parsed.Steps {
		agent := models.AgentName(ps.Agent)
		if !models.KnownTaskAgent(agent) {
			log.Warn().Str("agent", ps.Agent).Msg("planner assigned an unknown agent, substituting GenericAgent")
			agent = models.GenericAgent
		}
		step := models.Step{
			ID:        uuid.New(),
			PlanID:    plan.ID,
			SessionID: task.SessionID,
			Agent:     agent,
			Action:    ps.Action,
			Status:    models.StepPlanned,
		}
		if err := h.store.AddStep(ctx, &step); err != nil {
			return models.Plan{}, nil, fmt.Errorf("add step: %w", err)
		}
		steps = append(steps, step)
	}

	if err := h.store.AddMessage(ctx, &models.AgentMessage{
		ID:        uuid.New(),
		SessionID: task.SessionID,
		PlanID:    plan.ID,
		Source:    models.PlannerAgent,
		Content:   fmt.Sprintf("Generated a plan with %d steps for task: %s", len(steps), task.Description),
	}); err != nil {
		log.Error().Err(err).Msg("unable to audit planner message")
	}

	return plan, steps, nil
}
