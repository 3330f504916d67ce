package workflow

import (
	"strings"

	"github.com/garyjia/invoice-wizard/internal/domain/entity"
)

// Trigger represents an event that can cause a state transition
type Trigger string

const (
	TriggerNext Trigger = "NEXT"
	TriggerBack Trigger = "BACK"

	editPrefix = "EDIT_"
)

// String returns the string representation of the trigger
func (t Trigger) String() string {
	return string(t)
}

// EditTrigger returns the trigger that jumps from the final step back to target
func EditTrigger(target State) Trigger {
	return Trigger(editPrefix + strings.ToUpper(target.String()))
}

// editableSteps are the steps the final review can jump back to
func editableSteps() []State {
	steps := entity.Steps()
	return steps[:len(steps)-1]
}
