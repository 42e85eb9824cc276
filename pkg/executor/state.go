package executor

import (
	"context"
	"strings"
)

// State is the lifecycle state of the request owned by an Executor.
type State int

const (
	StateIdle State = iota
	StateOngoing
	StateCancelled
	StateFailed
	StateSuccessful
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateOngoing:
		return "ongoing"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	case StateSuccessful:
		return "successful"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether no further transition can follow s for the same call.
func (s State) IsTerminal() bool {
	return s == StateCancelled || s == StateFailed || s == StateSuccessful
}

// call is the handle of one dispatched transport call.
type call struct {
	cancel context.CancelFunc
	url    string
}

// requestCleanup holds the references tied to the in-flight call.
// Entering a terminal state drops them.
type requestCleanup struct {
	state    State
	ongoing  *call
	callback Callback
	releases int
}

func (c *requestCleanup) onStateChanged(s State) {
	c.state = s
	if s.IsTerminal() {
		c.releaseResources()
	}
}

func (c *requestCleanup) releaseResources() {
	if c.ongoing == nil && c.callback == nil {
		return
	}
	c.ongoing = nil
	c.callback = nil
	c.releases++
}

func (c *requestCleanup) holdsResources() bool {
	return c.ongoing != nil || c.callback != nil
}

func redactURL(u string) string {
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		return u[:i]
	}
	return u
}
