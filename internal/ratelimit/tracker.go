// Package ratelimit keeps a client-side request budget in step with the
// rate-limit headers returned by the GitHub API.
//
// A request that targets a rate-limited endpoint holds a token before it is
// sent and consumes it once the response (or failure) comes back. Tokens that
// are held but not yet consumed are "borrowed": they count against the
// remaining budget until the response refreshes it from headers.
package ratelimit

import (
	"sync"
	"time"

	"github.com/stahnma/gh-repofeed/internal/clock"
)

// State is a point-in-time copy of the tracker's budget.
type State struct {
	Limit     int
	Remaining int
	Borrowed  int
	Reset     time.Time
}

// HasReachedLimit reports whether no unborrowed budget is left.
func (s State) HasReachedLimit() bool {
	return s.Remaining-s.Borrowed <= 0
}

// Tracker holds the request budget for one API. It is safe for concurrent use.
type Tracker struct {
	mu           sync.Mutex
	clock        clock.Clock
	defaultLimit int

	limit     int
	remaining int
	borrowed  int
	reset     time.Time
}

// New creates a Tracker whose budget starts at defaultLimit with a reset time
// in the past, so the first Hold always succeeds. A nil clock uses real time.
func New(defaultLimit int, clk clock.Clock) *Tracker {
	if defaultLimit < 0 {
		defaultLimit = 0
	}
	if clk == nil {
		clk = clock.Real()
	}
	return &Tracker{
		clock:        clk,
		defaultLimit: defaultLimit,
		limit:        defaultLimit,
		remaining:    defaultLimit,
	}
}

// DefaultLimit returns the limit the tracker falls back to when a window expires.
func (t *Tracker) DefaultLimit() int {
	return t.defaultLimit
}

// Hold tries to borrow one request token. It returns false when the request
// must not be sent.
//
// Borrowed tokens never exceed the last known limit, even when the remaining
// count would allow more. Once the budget is spent, a token is only granted
// after the reset time has passed; the limit then falls back to the default
// until a response reports fresh values.
func (t *Tracker) Hold() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.borrowed >= t.limit {
		return false
	}
	if !t.reachedLimit() {
		t.borrowed++
		return true
	}
	if t.reset.Before(t.clock.Now()) {
		t.limit = t.defaultLimit
		t.remaining = t.defaultLimit
		t.borrowed++
		return true
	}
	return false
}

// Consume returns a borrowed token. It reports false, and does nothing, when
// no token is borrowed.
func (t *Tracker) Consume() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.borrowed == 0 {
		return false
	}
	t.borrowed--
	return true
}

// Update overwrites the limit and remaining count with values reported by the
// API. The reset time becomes now+resetIn. Borrowed tokens are untouched.
func (t *Tracker) Update(limit, remaining int, resetIn time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.limit = limit
	t.remaining = remaining
	t.reset = t.clock.Now().Add(resetIn)
}

// Restore applies a previously saved state's limit, remaining count and
// reset time. Borrowed tokens are untouched, as with Update.
func (t *Tracker) Restore(s State) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.limit = s.Limit
	t.remaining = s.Remaining
	t.reset = s.Reset
}

// HasReachedLimit reports whether remaining minus borrowed is zero or less.
func (t *Tracker) HasReachedLimit() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.reachedLimit()
}

// State returns a copy of the current budget.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return State{
		Limit:     t.limit,
		Remaining: t.remaining,
		Borrowed:  t.borrowed,
		Reset:     t.reset,
	}
}

func (t *Tracker) reachedLimit() bool {
	return t.remaining-t.borrowed <= 0
}
