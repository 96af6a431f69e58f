package health

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/DataScyther/Neeva-AI-sub000/internal/docstore/memory"
)

type fakeChecker struct {
	name    string
	healthy atomic.Int32
}

func (f *fakeChecker) Name() string                         { return f.name }
func (f *fakeChecker) IsHealthy() bool                      { return f.healthy.Load() == 1 }
func (f *fakeChecker) Start(context.Context, time.Duration) {}

type fakePinger struct{ err atomic.Value }

func (f *fakePinger) Ping(context.Context) error {
	if err, ok := f.err.Load().(error); ok {
		return err
	}
	return nil
}

func TestServiceChecker_Transitions(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a := &fakeChecker{name: "a"}
	b := &fakeChecker{name: "b"}
	a.healthy.Store(1)
	b.healthy.Store(1)

	svc := NewServiceChecker(zerolog.Nop(), a, b)
	go svc.Start(ctx, 10*time.Millisecond)

	waitTrue(t, func() bool { return svc.IsHealthy() })

	b.healthy.Store(0)
	waitTrue(t, func() bool { return !svc.IsHealthy() })
	if got := svc.Components(); got["a"] != true || got["b"] != false {
		t.Fatalf("unexpected components: %v", got)
	}

	b.healthy.Store(1)
	waitTrue(t, func() bool { return svc.IsHealthy() })
}

func TestServiceChecker_NoDepsIsHealthy(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc := NewServiceChecker(zerolog.Nop())
	go svc.Start(ctx, 10*time.Millisecond)
	waitTrue(t, func() bool { return svc.IsHealthy() })
}

func TestPingChecker_FollowsTarget(t *testing.T) {
	p := &fakePinger{}
	pc := NewPingChecker("store", p, zerolog.Nop(), 0)
	if pc.IsHealthy() {
		t.Fatalf("checker must start unhealthy")
	}
	if !pc.Check(context.Background()) || !pc.IsHealthy() {
		t.Fatalf("expected healthy after successful ping")
	}

	p.err.Store(errors.New("connection refused"))
	if pc.Check(context.Background()) || pc.IsHealthy() {
		t.Fatalf("expected unhealthy after failed ping")
	}
}

func TestPingChecker_StoreLifecycle(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := memory.New()
	pc := NewPingChecker("docstore", store, zerolog.Nop(), time.Second)
	svc := NewServiceChecker(zerolog.Nop(), pc)
	go pc.Start(ctx, 10*time.Millisecond)
	go svc.Start(ctx, 10*time.Millisecond)
	waitTrue(t, func() bool { return svc.IsHealthy() })
	if got := svc.Components(); !got["docstore"] {
		t.Fatalf("unexpected components: %v", got)
	}
}

func waitTrue(t *testing.T, pred func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if pred() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("condition not met before timeout")
}
