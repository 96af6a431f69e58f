package health

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// Pinger is satisfied by docstore.Store and anything else that can answer a
// cheap liveness probe. Ping must return nil when the component is healthy.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingChecker monitors a Pinger with periodic probes.
type PingChecker struct {
	name         string
	target       Pinger
	healthy      atomic.Int32
	log          zerolog.Logger
	probeTimeout time.Duration
	clock        clockwork.Clock
}

// NewPingChecker creates a checker that starts unhealthy until the first
// successful probe.
func NewPingChecker(name string, target Pinger, log zerolog.Logger, probeTimeout time.Duration) *PingChecker {
	if probeTimeout <= 0 {
		probeTimeout = 2 * time.Second
	}
	return &PingChecker{
		name:         name,
		target:       target,
		log:          log,
		probeTimeout: probeTimeout,
		clock:        clockwork.NewRealClock(),
	}
}

func (pc *PingChecker) Name() string { return pc.name }

// IsHealthy returns the cached health status (non-blocking).
func (pc *PingChecker) IsHealthy() bool { return pc.healthy.Load() == 1 }

// Start probes immediately and then on every tick until ctx ends.
func (pc *PingChecker) Start(ctx context.Context, interval time.Duration) {
	ticker := pc.clock.NewTicker(interval)
	defer ticker.Stop()

	pc.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			pc.Check(ctx)
		}
	}
}

// Check runs one probe and updates the cached status.
func (pc *PingChecker) Check(ctx context.Context) bool {
	checkCtx, cancel := context.WithTimeout(ctx, pc.probeTimeout)
	defer cancel()

	if err := pc.target.Ping(checkCtx); err != nil {
		pc.log.Error().Stack().
			Str("checker", pc.name).
			Err(err).
			Msg("health check failed")
		pc.healthy.Store(0)
		return false
	}
	pc.healthy.Store(1)
	return true
}
