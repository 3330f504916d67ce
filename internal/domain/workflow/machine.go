package workflow

import "context"

// StateMachine tracks the current step and validates transitions
type StateMachine interface {
	// State returns the current step
	State() State

	// Fire attempts to execute the trigger, transitioning to the new step if allowed
	Fire(ctx context.Context, trigger Trigger) error

	// PermittedTriggers returns all triggers configured for the current step
	PermittedTriggers() []Trigger
}
