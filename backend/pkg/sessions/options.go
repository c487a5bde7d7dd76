package sessions

import (
	"time"

	"github.com/google/uuid"
)

type options struct {
	now   func() time.Time
	newID func() (uuid.UUID, error)
}

type Option func(*options)

// WithClock replaces the clock used to stamp sessions and commands.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithIDGenerator replaces the generator of command ids. Only the command
// queue uses it.
func WithIDGenerator(newID func() (uuid.UUID, error)) Option {
	return func(o *options) {
		if newID != nil {
			o.newID = newID
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now, newID: uuid.NewV7}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
