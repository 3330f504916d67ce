package workflow

import "github.com/garyjia/invoice-wizard/internal/domain/entity"

// NewWizardBuilder configures the document wizard: Next walks forward through
// the steps when canAdvance allows it, Back walks one step back, and the final
// review step can jump back to any earlier step with EditTrigger.
func NewWizardBuilder(canAdvance GuardFunc) StateMachineBuilder {
	builder := NewBuilder()
	steps := entity.Steps()

	for i, step := range steps {
		config := builder.Configure(step)
		if i+1 < len(steps) {
			config.PermitIf(TriggerNext, steps[i+1], canAdvance)
		}
		if i > 0 {
			config.Permit(TriggerBack, steps[i-1])
		}
	}

	review := builder.Configure(entity.LastStep)
	for _, target := range editableSteps() {
		review.Permit(EditTrigger(target), target)
	}

	return builder
}
