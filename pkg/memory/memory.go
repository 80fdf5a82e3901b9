package memory

import (
	"context"

	"github.com/google/uuid"
	"go-agentplan/pkg/models"
)

// Store is the conversational-memory context: an async document store keyed
// by session holding plans, steps and agent messages.
//
// Reads return (nil, nil) when the record is absent. Writes overwrite by id.
// There are no transactions across entities; ClaimStep is the one atomic
// operation, used to keep two dispatchers from racing onto the same step.
type Store interface {
	AddPlan(ctx context.Context, plan *models.Plan) error
	GetPlan(ctx context.Context, sessionID, planID uuid.UUID) (*models.Plan, error)
	UpdatePlan(ctx context.Context, plan *models.Plan) error
	GetPlansForSession(ctx context.Context, sessionID uuid.UUID) ([]models.Plan, error)

	AddStep(ctx context.Context, step *models.Step) error
	GetStep(ctx context.Context, sessionID, stepID uuid.UUID) (*models.Step, error)
	UpdateStep(ctx context.Context, step *models.Step) error
	// GetStepsForPlan returns the plan's steps in creation order.
	GetStepsForPlan(ctx context.Context, sessionID, planID uuid.UUID) ([]models.Step, error)
	// ClaimStep transitions the step to in_progress only if its current
	// status is planned or approved, and reports whether this caller won.
	ClaimStep(ctx context.Context, sessionID, stepID uuid.UUID) (bool, error)

	AddMessage(ctx context.Context, msg *models.AgentMessage) error
	// GetMessagesForSession returns the session transcript in append order.
	GetMessagesForSession(ctx context.Context, sessionID uuid.UUID) ([]models.AgentMessage, error)

	// Ping reports store liveness for health checks.
	Ping(ctx context.Context) error
	Close() error
}
