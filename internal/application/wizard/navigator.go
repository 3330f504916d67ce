// Package wizard moves a document through its steps. Forward moves are
// guarded by validation of the step being left; entering the final review
// step assigns an invoice number when none is set.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/garyjia/invoice-wizard/internal/application/port"
	"github.com/garyjia/invoice-wizard/internal/application/store"
	"github.com/garyjia/invoice-wizard/internal/application/validation"
	"github.com/garyjia/invoice-wizard/internal/domain/entity"
	"github.com/garyjia/invoice-wizard/internal/domain/workflow"
)

// ErrStepInvalid is returned by Next when the current step does not validate
var ErrStepInvalid = errors.New("current step has invalid fields")

// Result is the outcome of a navigation request
type Result struct {
	Step   entity.Step       `json:"step"`
	Errors validation.Errors `json:"errors,omitempty"`
}

// Navigator drives the wizard of a single document
type Navigator interface {
	// Next validates the current step and advances; Result.Errors is set when blocked
	Next(ctx context.Context) (Result, error)

	// Back returns to the previous step
	Back(ctx context.Context) (Result, error)

	// Edit jumps from the review step back to target
	Edit(ctx context.Context, target entity.Step) (Result, error)

	// Permitted lists the triggers configured for the current step
	Permitted() []workflow.Trigger
}

type navigator struct {
	store     store.Store
	validator validation.Validator
	logger    port.Logger

	// serializes read-validate-write of the current step
	mu sync.Mutex
}

// Option configures the navigator
type Option func(*navigator)

// WithLogger sets the navigation logger
func WithLogger(logger port.Logger) Option {
	return func(n *navigator) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// NewNavigator creates a navigator over the document store
func NewNavigator(s store.Store, v validation.Validator, opts ...Option) Navigator {
	n := &navigator{
		store:     s,
		validator: v,
		logger:    port.NopLogger{},
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Verify interface compliance
var _ Navigator = (*navigator)(nil)

func (n *navigator) Next(ctx context.Context) (Result, error) {
	return n.transition(ctx, workflow.TriggerNext)
}

func (n *navigator) Back(ctx context.Context) (Result, error) {
	return n.transition(ctx, workflow.TriggerBack)
}

func (n *navigator) Edit(ctx context.Context, target entity.Step) (Result, error) {
	if !target.IsValid() {
		return Result{Step: n.store.Snapshot().CurrentStep}, fmt.Errorf("%w: %d", store.ErrInvalidStep, int(target))
	}
	return n.transition(ctx, workflow.EditTrigger(target))
}

func (n *navigator) Permitted() []workflow.Trigger {
	snap := n.store.Snapshot()
	return workflow.NewWizardBuilder(nil).Build(snap.CurrentStep).PermittedTriggers()
}

// transition builds a machine at the stored step, fires trigger and stores the new step
func (n *navigator) transition(ctx context.Context, trigger workflow.Trigger) (Result, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	snap := n.store.Snapshot()
	previous := snap.CurrentStep

	var fieldErrs validation.Errors
	guard := func(ctx context.Context) bool {
		fieldErrs = n.validator.ValidateStep(previous, snap)
		return fieldErrs.Empty()
	}

	machine := workflow.NewWizardBuilder(guard).Build(previous)
	if err := machine.Fire(ctx, trigger); err != nil {
		if errors.Is(err, workflow.ErrGuardFailed) {
			n.logger.Info("Step blocked by validation",
				"step", previous.String(),
				"fields", fieldErrs.Fields())
			return Result{Step: previous, Errors: fieldErrs}, fmt.Errorf("%w: %w", ErrStepInvalid, err)
		}
		return Result{Step: previous}, err
	}

	next := machine.State()
	if next.IsFinal() {
		if number, generated := n.store.EnsureInvoiceNumber(ctx); generated {
			n.logger.Info("Invoice number assigned", "invoice_number", number)
		}
	}
	if err := n.store.SetStep(ctx, next); err != nil {
		return Result{Step: previous}, fmt.Errorf("failed to store step: %w", err)
	}

	n.logger.Info("Wizard step changed",
		"from", previous.String(),
		"to", next.String(),
		"trigger", trigger.String())
	return Result{Step: next}, nil
}
