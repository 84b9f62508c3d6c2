// Package workflow holds the registry's rules: risk scoring, the action plan
// lifecycle, the entry state machine and the audit trail. Every operation
// takes a snapshot and returns a new one; inputs are never modified.
package workflow

import (
	"time"

	"github.com/google/uuid"
)

type Engine struct {
	now   func() time.Time
	newID func() string
}

// Option customizes engine construction.
type Option func(*Engine)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithIDGenerator overrides the uuid generator used for new items and plans.
func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) {
		if fn != nil {
			e.newID = fn
		}
	}
}

func New(opts ...Option) *Engine {
	e := &Engine{
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Now is the timestamp recorded on audit events and closures, at the
// millisecond precision the store keeps.
func (e *Engine) Now() time.Time {
	return e.now().UTC().Truncate(time.Millisecond)
}

// Today is the current calendar date in the clock's own zone, at midnight UTC.
func (e *Engine) Today() time.Time {
	return dateOnly(e.now())
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
