package handler

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"go-agentplan/pkg/memory"
	"go-agentplan/pkg/metrics"
	"go-agentplan/pkg/models"
)

// PlanFinishedMessage is returned once no runnable step remains.
const PlanFinishedMessage = "All steps are complete. The plan has finished."

// Handler drives a plan: it selects the next runnable step, claims it and
// produces the ActionRequest for dispatch.
type Handler struct {
	store memory.Store
	rec   *metrics.Recorder
}

func New(store memory.Store, rec *metrics.Recorder) *Handler {
	return &Handler{store: store, rec: rec}
}

// NextStep scans the plan's steps in order and claims the first one whose
// status is planned or approved. A claim lost to a concurrent dispatcher
// just moves the scan forward. When nothing is runnable the plan is marked
// completed (idempotently) and a nil request is returned with the terminal
// message.
func (h *Handler) NextStep(ctx context.Context, sessionID, planID uuid.UUID) (*models.ActionRequest, string, error) {
	steps, err := h.store.GetStepsForPlan(ctx, sessionID, planID)
	if err != nil {
		return nil, "", fmt.Errorf("load steps: %w", err)
	}

	for _, step := range steps {
		if !step.Status.Runnable() {
			continue
		}
		claimed, err := h.store.ClaimStep(ctx, sessionID, step.ID)
		if err != nil {
			return nil, "", fmt.Errorf("claim step: %w", err)
		}
		if !claimed {
			continue
		}

		if err := h.markPlanInProgress(ctx, sessionID, planID); err != nil {
			return nil, "", err
		}

		req := &models.ActionRequest{
			StepID:    step.ID,
			PlanID:    planID,
			SessionID: sessionID,
			Agent:     step.Agent,
			Action:    step.Action,
		}
		return req, fmt.Sprintf("Step %s dispatched to %s.", step.ID, step.Agent), nil
	}

	if err := h.completePlan(ctx, sessionID, planID); err != nil {
		return nil, "", err
	}
	return nil, PlanFinishedMessage, nil
}

func (h *Handler) markPlanInProgress(ctx context.Context, sessionID, planID uuid.UUID) error {
	plan, err := h.store.GetPlan(ctx, sessionID, planID)
	if err != nil {
		return fmt.Errorf("load plan: %w", err)
	}
	if plan == nil || plan.Status != models.PlanCreated {
		return nil
	}
	plan.Status = models.PlanInProgress
	if err := h.store.UpdatePlan(ctx, plan); err != nil {
		return fmt.Errorf("update plan: %w", err)
	}
	return nil
}

func (h *Handler) completePlan(ctx context.Context, sessionID, planID uuid.UUID) error {
	plan, err := h.store.GetPlan(ctx, sessionID, planID)
	if err != nil {
		return fmt.Errorf("load plan: %w", err)
	}
	if plan == nil {
		return fmt.Errorf("plan %s not found", planID)
	}
	if plan.Status == models.PlanCompleted {
		return nil
	}
	plan.Status = models.PlanCompleted
	if err := h.store.UpdatePlan(ctx, plan); err != nil {
		return fmt.Errorf("update plan: %w", err)
	}
	h.rec.PlanCompleted()
	return nil
}

// Resolve maps a step's agent name onto a registered agent, substituting
// GenericAgent for names no one registered. The second result reports
// whether the fallback was used.
func Resolve(registered func(models.AgentName) bool, name models.AgentName) (models.AgentName, bool) {
	if registered(name) {
		return name, false
	}
	return models.GenericAgent, true
}
