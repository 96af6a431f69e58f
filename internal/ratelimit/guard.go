// Package ratelimit implements the client-side cooldown gate that suppresses
// outbound completion calls after the server signals throttling.
package ratelimit

import (
	"math"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultCooldown is the window applied after a 429.
const DefaultCooldown = 60 * time.Second

// Guard stores a single "blocked until" instant. The zero instant means not
// blocked. The guard clears itself lazily once the instant has passed.
type Guard struct {
	mu      sync.Mutex
	until   time.Time
	clock   clockwork.Clock
	onClear func()
	timer   clockwork.Timer
}

// Option configures a Guard.
type Option func(*Guard)

// WithClock substitutes the time source.
func WithClock(c clockwork.Clock) Option {
	return func(g *Guard) { g.clock = c }
}

// WithOnClear registers a callback fired once the current window elapses.
// It runs on its own goroutine and must not call back into a blocked host.
func WithOnClear(fn func()) Option {
	return func(g *Guard) { g.onClear = fn }
}

// New returns an unblocked Guard.
func New(opts ...Option) *Guard {
	g := &Guard{clock: clockwork.NewRealClock()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// TripUntil blocks calls until t. An earlier or equal instant than now leaves
// the guard clear.
func (g *Guard) TripUntil(t time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
	wait := t.Sub(g.clock.Now())
	if wait <= 0 {
		g.until = time.Time{}
		return
	}
	g.until = t
	if g.onClear != nil {
		g.timer = g.clock.AfterFunc(wait, g.fireClear)
	}
}

// TripFor blocks calls for d from now.
func (g *Guard) TripFor(d time.Duration) {
	g.TripUntil(g.clock.Now().Add(d))
}

// IsBlocked reports whether now is strictly before the stored instant.
func (g *Guard) IsBlocked() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.remainingLocked() > 0
}

// RemainingSeconds is the whole seconds left in the window, rounded up.
func (g *Guard) RemainingSeconds() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	left := g.remainingLocked()
	if left <= 0 {
		return 0
	}
	return int(math.Ceil(left.Seconds()))
}

// BlockedUntil returns the stored instant, if any.
func (g *Guard) BlockedUntil() (time.Time, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.remainingLocked() <= 0 {
		return time.Time{}, false
	}
	return g.until, true
}

// Clear removes any active window without firing OnClear.
func (g *Guard) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
	g.until = time.Time{}
}

func (g *Guard) remainingLocked() time.Duration {
	if g.until.IsZero() {
		return 0
	}
	left := g.until.Sub(g.clock.Now())
	if left <= 0 {
		g.until = time.Time{}
		return 0
	}
	return left
}

func (g *Guard) fireClear() {
	g.mu.Lock()
	// A later trip may have extended the window since this timer was armed.
	if g.remainingLocked() > 0 {
		g.mu.Unlock()
		return
	}
	g.timer = nil
	fn := g.onClear
	g.mu.Unlock()
	if fn != nil {
		fn()
	}
}
