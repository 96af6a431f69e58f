// Package gateway turns a user utterance into a reply using a hosted
// chat-completion backend, with classified failures, bounded retries, a
// client-side cooldown and a local fallback responder.
package gateway

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/DataScyther/Neeva-AI-sub000/internal/errors"
	"github.com/DataScyther/Neeva-AI-sub000/internal/model"
	"github.com/DataScyther/Neeva-AI-sub000/internal/ratelimit"
	"github.com/DataScyther/Neeva-AI-sub000/internal/retry"
)

// Config holds the static request parameters and local policy knobs.
type Config struct {
	Model              string
	MaxTokens          int
	Temperature        float64
	TopP               float64
	TopK               int
	MaxContextMessages int
	Cooldown           time.Duration
}

// DefaultConfig returns the production sampling parameters and local policy.
func DefaultConfig() Config {
	return Config{
		MaxTokens:          300,
		Temperature:        0.7,
		TopP:               0.9,
		TopK:               40,
		MaxContextMessages: DefaultMaxContextMessages,
		Cooldown:           ratelimit.DefaultCooldown,
	}
}

// Gateway is safe for concurrent use, although hosts are expected to keep a
// single call outstanding per conversation.
type Gateway struct {
	completer Completer
	cfg       Config
	policy    retry.Policy
	guard     *ratelimit.Guard
	fallback  *Fallback
	log       zerolog.Logger
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithConfig replaces DefaultConfig. Zero fields keep their defaults.
func WithConfig(cfg Config) Option {
	return func(g *Gateway) {
		def := DefaultConfig()
		if cfg.MaxTokens <= 0 {
			cfg.MaxTokens = def.MaxTokens
		}
		if cfg.Temperature <= 0 {
			cfg.Temperature = def.Temperature
		}
		if cfg.TopP <= 0 {
			cfg.TopP = def.TopP
		}
		if cfg.TopK <= 0 {
			cfg.TopK = def.TopK
		}
		if cfg.MaxContextMessages <= 0 {
			cfg.MaxContextMessages = def.MaxContextMessages
		}
		if cfg.Cooldown <= 0 {
			cfg.Cooldown = def.Cooldown
		}
		g.cfg = cfg
	}
}

// WithRetryPolicy replaces retry.Default().
func WithRetryPolicy(p retry.Policy) Option {
	return func(g *Gateway) { g.policy = p }
}

// WithGuard shares a cooldown guard with the host.
func WithGuard(guard *ratelimit.Guard) Option {
	return func(g *Gateway) { g.guard = guard }
}

// WithFallback replaces the built-in rule-based responder.
func WithFallback(f *Fallback) Option {
	return func(g *Gateway) { g.fallback = f }
}

// WithLogger sets the gateway logger.
func WithLogger(l zerolog.Logger) Option {
	return func(g *Gateway) { g.log = l }
}

// New builds a Gateway. A nil completer means no credential is configured and
// every Send short-circuits to NotConfiguredReply.
func New(completer Completer, opts ...Option) *Gateway {
	g := &Gateway{
		completer: completer,
		cfg:       DefaultConfig(),
		policy:    retry.Default(),
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.guard == nil {
		g.guard = ratelimit.New()
	}
	if g.fallback == nil {
		g.fallback = NewFallback()
	}
	return g
}

// Configured reports whether a completion backend is available.
func (g *Gateway) Configured() bool { return g.completer != nil }

// Guard returns the cooldown guard consulted before every call.
func (g *Gateway) Guard() *ratelimit.Guard { return g.guard }

// Send returns the reply to text given the prior history. Business failures
// resolve to a displayable string; the only error returned is the caller's
// context ending. The reply is never empty.
func (g *Gateway) Send(ctx context.Context, history []model.ChatMessage, text string) (string, error) {
	if g.completer == nil {
		repliesTotal.WithLabelValues(outcomeNotConfigured).Inc()
		return NotConfiguredReply, nil
	}
	if g.guard.IsBlocked() {
		repliesTotal.WithLabelValues(outcomeThrottled).Inc()
		return WaitReply(g.guard.RemainingSeconds()), nil
	}

	req := CompletionRequest{
		Model:       g.cfg.Model,
		Messages:    BuildMessages(history, text, g.cfg.MaxContextMessages),
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
		TopP:        g.cfg.TopP,
		TopK:        g.cfg.TopK,
	}

	policy := g.policy
	policy.OnRetry = func(err error, attempt int, wait time.Duration) {
		g.log.Warn().Err(err).Int("attempt", attempt).Dur("wait", wait).Msg("completion failed, retrying")
	}

	var reply string
	err := policy.Do(ctx, func(ctx context.Context, attempt int) error {
		attemptsTotal.Inc()
		start := time.Now()
		out, err := g.completer.Complete(ctx, req)
		completionDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			return err
		}
		if out = FormatReply(out); out == "" {
			return errors.NewMalformedError("complete", "empty reply")
		}
		reply = out
		return nil
	})
	if err == nil {
		repliesTotal.WithLabelValues(outcomeCompletion).Inc()
		return reply, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}

	switch kind := errors.KindOf(err); kind {
	case errors.KindAuth, errors.KindPermission:
		g.log.Error().Err(err).Str("kind", kind.String()).Msg("completion endpoint rejected credential")
		repliesTotal.WithLabelValues(outcomeAuth).Inc()
		return AuthReply, nil

	case errors.KindRateLimited:
		g.guard.TripFor(g.cfg.Cooldown)
		g.log.Warn().Err(err).Dur("cooldown", g.cfg.Cooldown).Msg("completion endpoint throttled, cooling down")
		repliesTotal.WithLabelValues(outcomeThrottled).Inc()
		return WaitReply(g.guard.RemainingSeconds()), nil

	default:
		fallback, bucket := g.fallback.Match(text)
		g.log.Warn().Err(err).Str("kind", kind.String()).Str("bucket", bucket).Msg("completion unavailable, using fallback")
		repliesTotal.WithLabelValues(outcomeFallback).Inc()
		return fallback, nil
	}
}
