package github

import (
	"context"
	"sync/atomic"
)

// Call is a handle to an in-flight request.
type Call struct {
	cancel    context.CancelFunc
	cancelled atomic.Bool
}

// NewCall returns a handle that invokes cancel when cancelled.
func NewCall(cancel context.CancelFunc) *Call {
	return &Call{cancel: cancel}
}

// Cancel stops the request. Its completion still runs, reporting ErrCancelled.
// Cancel is safe to call more than once and on a nil Call.
func (c *Call) Cancel() {
	if c == nil {
		return
	}
	c.cancelled.Store(true)
	if c.cancel != nil {
		c.cancel()
	}
}

// Cancelled reports whether Cancel was called.
func (c *Call) Cancelled() bool {
	return c != nil && c.cancelled.Load()
}
