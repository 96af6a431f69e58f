package gateway

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"
	"testing"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DataScyther/Neeva-AI-sub000/internal/errors"
	"github.com/DataScyther/Neeva-AI-sub000/internal/model"
	"github.com/DataScyther/Neeva-AI-sub000/internal/ratelimit"
	"github.com/DataScyther/Neeva-AI-sub000/internal/retry"
)

// scripted returns the queued results in order, repeating the last one.
type scripted struct {
	mu       sync.Mutex
	results  []result
	requests []CompletionRequest
}

type result struct {
	reply string
	err   error
}

func (s *scripted) Complete(_ context.Context, req CompletionRequest) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	r := s.results[0]
	if len(s.results) > 1 {
		s.results = s.results[1:]
	}
	return r.reply, r.err
}

func (s *scripted) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

type instantTimer struct {
	waits *[]time.Duration
	c     chan time.Time
}

func (t *instantTimer) Start(d time.Duration) {
	*t.waits = append(*t.waits, d)
	t.c <- time.Now()
}
func (t *instantTimer) Stop()                {}
func (t *instantTimer) C() <-chan time.Time { return t.c }

func fastPolicy(waits *[]time.Duration) retry.Policy {
	p := retry.Default()
	p.NewTimer = func() backoff.Timer { return &instantTimer{waits: waits, c: make(chan time.Time, 1)} }
	return p
}

func TestSend_NotConfiguredSkipsNetwork(t *testing.T) {
	g := New(nil)
	reply, err := g.Send(context.Background(), nil, "hello")
	require.NoError(t, err)
	assert.Equal(t, NotConfiguredReply, reply)
	assert.False(t, g.Configured())
}

func TestSend_HappyPathTrimsAndFormats(t *testing.T) {
	c := &scripted{results: []result{{reply: "  You're not alone   in this ,  take a slow breath  "}}}
	g := New(c, WithConfig(Config{Model: "test-model"}))

	history := []model.ChatMessage{
		{ID: "1", Content: "hi", IsUser: true},
		{ID: "2", Content: "Hello! How are you?", IsUser: false},
		{ID: "3", Content: "I'm feeling anxious today", IsUser: true},
	}
	reply, err := g.Send(context.Background(), history, "I'm feeling anxious today")
	require.NoError(t, err)
	assert.Equal(t, "You're not alone in this, take a slow breath.", reply)

	require.Len(t, c.requests, 1)
	req := c.requests[0]
	assert.Equal(t, "test-model", req.Model)
	assert.Equal(t, 300, req.MaxTokens)
	assert.InDelta(t, 0.7, req.Temperature, 1e-9)
	assert.InDelta(t, 0.9, req.TopP, 1e-9)
	require.Len(t, req.Messages, 4, "system + two prior turns + current turn")
	assert.Equal(t, RoleSystem, req.Messages[0].Role)
	assert.Equal(t, RoleUser, req.Messages[1].Role)
	assert.Equal(t, RoleAssistant, req.Messages[2].Role)
	assert.Equal(t, Message{Role: RoleUser, Content: "I'm feeling anxious today"}, req.Messages[3])
}

func TestSend_AuthFailureDoesNotRetryOrTrip(t *testing.T) {
	for _, status := range []int{401, 403} {
		c := &scripted{results: []result{{err: errors.NewHTTPError(status, "", "complete")}}}
		var waits []time.Duration
		g := New(c, WithRetryPolicy(fastPolicy(&waits)))

		reply, err := g.Send(context.Background(), nil, "hello")
		require.NoError(t, err)
		assert.Equal(t, AuthReply, reply)
		assert.Equal(t, 1, c.calls())
		assert.Empty(t, waits)
		assert.False(t, g.Guard().IsBlocked())
	}
}

func TestSend_TransientFailuresExhaustThenFallback(t *testing.T) {
	c := &scripted{results: []result{{err: errors.NewHTTPError(503, "", "complete")}}}
	var waits []time.Duration
	g := New(c, WithRetryPolicy(fastPolicy(&waits)))

	reply, err := g.Send(context.Background(), nil, "I can't sleep well")
	require.NoError(t, err)
	assert.Equal(t, 3, c.calls())
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, waits)
	assert.Equal(t, NewFallback().Reply("sleep"), reply)
	assert.NotEmpty(t, reply)
}

func TestSend_NetworkErrorThenSuccess(t *testing.T) {
	c := &scripted{results: []result{
		{err: errors.NewNetworkError("complete", stderrors.New("connection reset"))},
		{reply: "Let's breathe together."},
	}}
	var waits []time.Duration
	g := New(c, WithRetryPolicy(fastPolicy(&waits)))

	reply, err := g.Send(context.Background(), nil, "help")
	require.NoError(t, err)
	assert.Equal(t, "Let's breathe together.", reply)
	assert.Equal(t, 2, c.calls())
}

func TestSend_MalformedAndUnclassifiedFallBackImmediately(t *testing.T) {
	cases := []result{
		{reply: "   "},
		{err: stderrors.New("unexpected payload")},
		{err: errors.NewHTTPError(400, "bad", "complete")},
	}
	for _, r := range cases {
		c := &scripted{results: []result{r}}
		var waits []time.Duration
		g := New(c, WithRetryPolicy(fastPolicy(&waits)))

		reply, err := g.Send(context.Background(), nil, "feeling sad")
		require.NoError(t, err)
		assert.Equal(t, 1, c.calls())
		assert.Contains(t, reply, "I'm sorry you're feeling this way")
	}
}

func TestSend_ThrottledThenRecovered(t *testing.T) {
	clock := clockwork.NewFakeClock()
	guard := ratelimit.New(ratelimit.WithClock(clock))
	c := &scripted{results: []result{
		{err: errors.NewHTTPError(429, "quota", "complete")},
		{reply: "Welcome back."},
	}}
	var waits []time.Duration
	g := New(c, WithGuard(guard), WithRetryPolicy(fastPolicy(&waits)))

	reply, err := g.Send(context.Background(), nil, "hello")
	require.NoError(t, err)
	assert.Equal(t, WaitReply(60), reply)
	assert.True(t, guard.IsBlocked())
	assert.Equal(t, 1, c.calls(), "429 is not retried within the call")

	clock.Advance(30 * time.Second)
	reply, err = g.Send(context.Background(), nil, "hello again")
	require.NoError(t, err)
	assert.Equal(t, WaitReply(30), reply)
	assert.Equal(t, 1, c.calls(), "blocked send must not reach the network")

	clock.Advance(31 * time.Second)
	reply, err = g.Send(context.Background(), nil, "and now?")
	require.NoError(t, err)
	assert.Equal(t, "Welcome back.", reply)
	assert.Equal(t, 2, c.calls())
}

func TestSend_CallerCancellationIsReturned(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	c := CompleterFunc(func(context.Context, CompletionRequest) (string, error) {
		cancel()
		return "", errors.NewNetworkError("complete", context.Canceled)
	})
	g := New(c)

	reply, err := g.Send(ctx, nil, "hello")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, reply)
}

func TestWaitReply(t *testing.T) {
	assert.True(t, strings.Contains(WaitReply(42), "wait 42 seconds"))
	assert.True(t, strings.Contains(WaitReply(1), "wait 1 second "))
	assert.True(t, strings.Contains(WaitReply(0), "wait 1 second "))
}
