package dispatcher

import (
	"context"

	"github.com/garyjia/invoice-wizard/internal/domain/event"
)

// Handler reacts to a snapshot change
type Handler func(ctx context.Context, evt *event.Event) error

// namedHandler pairs a handler with the name used in logs
type namedHandler struct {
	name    string
	handler Handler
}
