package buffer

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go-agentplan/pkg/models"
)

// Store is an in-memory memory context. It is the default when no database
// is configured and the fixture store for tests.
type Store struct {
	mu        sync.RWMutex
	plans     map[uuid.UUID]models.Plan
	planOrder []uuid.UUID
	steps     map[uuid.UUID]models.Step
	stepOrder []uuid.UUID
	messages  map[uuid.UUID][]models.AgentMessage // keyed by session
}

func New() *Store {
	return &Store{
		plans:    make(map[uuid.UUID]models.Plan),
		steps:    make(map[uuid.UUID]models.Step),
		messages: make(map[uuid.UUID][]models.AgentMessage),
	}
}

func (s *Store) AddPlan(_ context.Context, plan *models.Plan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = now
	}
	plan.UpdatedAt = now
	if _, ok := s.plans[plan.ID]; !ok {
		s.planOrder = append(s.planOrder, plan.ID)
	}
	s.plans[plan.ID] = *plan
	return nil
}

func (s *Store) GetPlan(_ context.Context, sessionID, planID uuid.UUID) (*models.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	plan, ok := s.plans[planID]
	if !ok || plan.SessionID != sessionID {
		return nil, nil
	}
	return &plan, nil
}

func (s *Store) UpdatePlan(_ context.Context, plan *models.Plan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	plan.UpdatedAt = time.Now()
	if _, ok := s.plans[plan.ID]; !ok {
		s.planOrder = append(s.planOrder, plan.ID)
	}
	s.plans[plan.ID] = *plan
	return nil
}

func (s *Store) GetPlansForSession(_ context.Context, sessionID uuid.UUID) ([]models.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Plan
	for _, id := range s.planOrder {
		if plan := s.plans[id]; plan.SessionID == sessionID {
			out = append(out, plan)
		}
	}
	return out, nil
}

func (s *Store) AddStep(_ context.Context, step *models.Step) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	if step.CreatedAt.IsZero() {
		step.CreatedAt = now
	}
	step.UpdatedAt = now
	if _, ok := s.steps[step.ID]; !ok {
		s.stepOrder = append(s.stepOrder, step.ID)
	}
	s.steps[step.ID] = *step
	return nil
}

func (s *Store) GetStep(_ context.Context, sessionID, stepID uuid.UUID) (*models.Step, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	step, ok := s.steps[stepID]
	if !ok || step.SessionID != sessionID {
		return nil, nil
	}
	return &step, nil
}

func (s *Store) UpdateStep(_ context.Context, step *models.Step) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	step.UpdatedAt = time.Now()
	if _, ok := s.steps[step.ID]; !ok {
		s.stepOrder = append(s.stepOrder, step.ID)
	}
	s.steps[step.ID] = *step
	return nil
}

func (s *Store) GetStepsForPlan(_ context.Context, sessionID, planID uuid.UUID) ([]models.Step, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Step
	for _, id := range s.stepOrder {
		if step := s.steps[id]; step.SessionID == sessionID && step.PlanID == planID {
			out = append(out, step)
		}
	}
	return out, nil
}

func (s *Store) ClaimStep(_ context.Context, sessionID, stepID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	step, ok := s.steps[stepID]
	if !ok || step.SessionID != sessionID {
		return false, nil
	}
	if !step.Status.Runnable() {
		return false, nil
	}
	step.Status = models.StepInProgress
	step.UpdatedAt = time.Now()
	s.steps[stepID] = step
	return true, nil
}

func (s *Store) AddMessage(_ context.Context, msg *models.AgentMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	s.messages[msg.SessionID] = append(s.messages[msg.SessionID], *msg)
	return nil
}

func (s *Store) GetMessagesForSession(_ context.Context, sessionID uuid.UUID) ([]models.AgentMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs := s.messages[sessionID]
	out := make([]models.AgentMessage, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }
