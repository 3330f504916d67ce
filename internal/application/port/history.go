package port

import (
	"net/url"
	"time"
)

// History is the navigable address history holding the shareable parameters
type History interface {
	// Push appends a new entry and makes it current
	Push(values url.Values)
	// Replace overwrites the current entry
	Replace(values url.Values)
	// Current returns the parameters of the current entry
	Current() url.Values
}

// Clock abstracts the wall clock for dates and invoice numbers
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock
type ClockFunc func() time.Time

// Now returns f()
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock is the real wall clock
var SystemClock Clock = ClockFunc(time.Now)
