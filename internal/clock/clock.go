// Package clock lets follow loops run against real or simulated time.
package clock

import (
	"time"
)

// Clock supplies the current time and periodic ticks.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) Ticker
}

// Ticker delivers ticks on C until Stop is called. C is never closed.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Real implements Clock with the time package.
type Real struct{}

func (Real) Now() time.Time { return time.Now() }

func (Real) NewTicker(d time.Duration) Ticker {
	return realTicker{time.NewTicker(d)}
}

type realTicker struct{ t *time.Ticker }

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }
