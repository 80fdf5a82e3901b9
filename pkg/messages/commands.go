package messages

import (
	"github.com/google/uuid"
	"go-agentplan/pkg/models"
)

// NewTask asks the planner to decompose a submitted task into a plan.
type NewTask struct {
	SessionID   uuid.UUID
	Description string
}

// PlanCreated is the planner's reply to NewTask.
type PlanCreated struct {
	Plan  models.Plan
	Steps []models.Step
}

// ExecuteNext asks the group chat manager to dispatch the plan's next
// runnable step.
type ExecuteNext struct {
	SessionID uuid.UUID
	PlanID    uuid.UUID
}

// ExecuteResult is the manager's reply to ExecuteNext: a human-readable
// status line. Dispatch itself is fire-and-continue.
type ExecuteResult struct {
	Message string
}

// ApplyFeedback asks the human agent to apply an approve/reject decision.
type ApplyFeedback struct {
	Feedback models.HumanFeedback
}

// FeedbackApplied is the human agent's reply to ApplyFeedback.
type FeedbackApplied struct {
	Step models.Step
}

// ReportError carries a failure back to the requester.
type ReportError struct {
	Err string
}
