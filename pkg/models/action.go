package models

import "github.com/google/uuid"

// UnknownStep is the sentinel step id used on responses to requests that
// could not be parsed far enough to identify a step.
var UnknownStep = uuid.Nil

// InputTask is a user-submitted task to be decomposed into a plan.
type InputTask struct {
	SessionID   uuid.UUID `json:"session_id"`
	Description string    `json:"description"`
}

// ActionRequest correlates a step to an agent invocation. Transient: it is
// audited as an AgentMessage, never persisted on its own.
type ActionRequest struct {
	StepID    uuid.UUID `json:"step_id"`
	PlanID    uuid.UUID `json:"plan_id"`
	SessionID uuid.UUID `json:"session_id"`
	Agent     AgentName `json:"agent"`
	Action    string    `json:"action"`
}

// ActionResponse is an agent's reply to an ActionRequest.
type ActionResponse struct {
	StepID    uuid.UUID  `json:"step_id"`
	PlanID    uuid.UUID  `json:"plan_id"`
	SessionID uuid.UUID  `json:"session_id"`
	Status    StepStatus `json:"status"`
	Message   string     `json:"message"`
}

// HumanFeedback carries an approve/reject decision for a step, optionally
// replacing the step's action text.
type HumanFeedback struct {
	StepID        uuid.UUID `json:"step_id"`
	SessionID     uuid.UUID `json:"session_id"`
	Approved      bool      `json:"approved"`
	Feedback      string    `json:"human_feedback,omitempty"`
	UpdatedAction string    `json:"updated_action,omitempty"`
}
