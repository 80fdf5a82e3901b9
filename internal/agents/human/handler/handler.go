package handler

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"go-agentplan/pkg/memory"
	"go-agentplan/pkg/models"
)

// Handler applies approve/reject feedback to a step.
type Handler struct {
	store memory.Store
}

func New(store memory.Store) *Handler {
	return &Handler{store: store}
}

// HandleFeedback records the feedback text on the step and moves it to
// approved or needs_update. An approval carrying an updated action replaces
// the step's action in the same write.
func (h *Handler) HandleFeedback(ctx context.Context, fb models.HumanFeedback) (models.Step, error) {
	step, err := h.store.GetStep(ctx, fb.SessionID, fb.StepID)
	if err != nil {
		return models.Step{}, fmt.Errorf("load step: %w", err)
	}
	if step == nil {
		return models.Step{}, fmt.Errorf("step %s not found", fb.StepID)
	}

	step.HumanFeedback = fb.Feedback
	step.UpdatedAction = fb.UpdatedAction
	if fb.Approved {
		step.Status = models.StepApproved
		if fb.UpdatedAction != "" {
			step.Action = fb.UpdatedAction
		}
	} else {
		step.Status = models.StepNeedsUpdate
	}

	if err := h.store.UpdateStep(ctx, step); err != nil {
		return models.Step{}, fmt.Errorf("update step: %w", err)
	}

	if fb.Feedback != "" {
		if err := h.store.AddMessage(ctx, &models.AgentMessage{
			ID:        uuid.New(),
			SessionID: fb.SessionID,
			PlanID:    step.PlanID,
			StepID:    step.ID,
			Source:    models.HumanAgent,
			Content:   fb.Feedback,
		}); err != nil {
			log.Error().Err(err).Msg("unable to audit human feedback")
		}
	}

	return *step, nil
}
