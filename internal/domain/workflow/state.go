package workflow

import "github.com/garyjia/invoice-wizard/internal/domain/entity"

// State is a wizard step; the machine moves between the ordered document stages
type State = entity.Step

// IsTerminal returns true if no forward transition leaves the state
func IsTerminal(s State) bool {
	return s.IsFinal()
}
