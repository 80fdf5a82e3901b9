package models

// PlanStatus is the lifecycle state of a plan.
type PlanStatus string

const (
	PlanCreated    PlanStatus = "created"
	PlanInProgress PlanStatus = "in_progress"
	PlanCompleted  PlanStatus = "completed"
)

// StepStatus is the lifecycle state of a single step within a plan.
type StepStatus string

const (
	StepPlanned     StepStatus = "planned"
	StepApproved    StepStatus = "approved"
	StepNeedsUpdate StepStatus = "needs_update"
	StepInProgress  StepStatus = "in_progress"
	StepCompleted   StepStatus = "completed" // terminal
	StepFailed      StepStatus = "failed"    // terminal
)

// Terminal reports whether a step can no longer change state.
func (s StepStatus) Terminal() bool {
	return s == StepCompleted || s == StepFailed
}

// Runnable reports whether a step is eligible for dispatch.
func (s StepStatus) Runnable() bool {
	return s == StepPlanned || s == StepApproved
}

// CanTransition encodes the allowed step-status ordering:
// planned/approved -> in_progress -> {completed, failed}, with needs_update
// looping back through human re-approval.
func CanTransition(from, to StepStatus) bool {
	if from.Terminal() {
		return false
	}
	switch to {
	case StepInProgress:
		return from.Runnable()
	case StepCompleted, StepFailed:
		return from == StepInProgress
	case StepApproved, StepNeedsUpdate:
		return from == StepPlanned || from == StepNeedsUpdate || from == StepApproved
	case StepPlanned:
		return false
	}
	return false
}
