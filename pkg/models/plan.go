package models

import (
	"time"

	"github.com/google/uuid"
)

// Plan is created when a task is submitted and owns an ordered list of steps.
type Plan struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	SessionID uuid.UUID  `json:"session_id" gorm:"type:uuid;index"`
	Task      string     `json:"task"`
	Status    PlanStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Step is a single unit of work within a plan, executed by one named agent.
// Mutated by the group chat manager and by human-feedback application;
// immutable once completed.
type Step struct {
	ID            uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	PlanID        uuid.UUID  `json:"plan_id" gorm:"type:uuid;index"`
	SessionID     uuid.UUID  `json:"session_id" gorm:"type:uuid;index"`
	Agent         AgentName  `json:"agent"`
	Action        string     `json:"action"`
	Status        StepStatus `json:"status"`
	HumanFeedback string     `json:"human_feedback,omitempty"`
	UpdatedAction string     `json:"updated_action,omitempty"`
	AgentReply    string     `json:"agent_reply,omitempty"`
	// reserved for replanning flows that identify a target state up front
	IdentifiedTargetState      string `json:"identified_target_state,omitempty"`
	IdentifiedTargetTransition string `json:"identified_target_transition,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// AgentMessage is an append-only audit record of agent output, linked to
// session, plan and step.
type AgentMessage struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	SessionID uuid.UUID `json:"session_id" gorm:"type:uuid;index"`
	PlanID    uuid.UUID `json:"plan_id" gorm:"type:uuid"`
	StepID    uuid.UUID `json:"step_id" gorm:"type:uuid"`
	Source    AgentName `json:"source"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
