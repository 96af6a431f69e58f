// Package app assembles the configured components shared by the CLI, the
// terminal client and the HTTP server.
package app

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/DataScyther/Neeva-AI-sub000/internal/config"
	"github.com/DataScyther/Neeva-AI-sub000/internal/docstore"
	"github.com/DataScyther/Neeva-AI-sub000/internal/factory"
	"github.com/DataScyther/Neeva-AI-sub000/internal/gateway"
	"github.com/DataScyther/Neeva-AI-sub000/internal/identity"
	"github.com/DataScyther/Neeva-AI-sub000/internal/ratelimit"
	"github.com/DataScyther/Neeva-AI-sub000/internal/session"
	"github.com/DataScyther/Neeva-AI-sub000/internal/state"
	"github.com/DataScyther/Neeva-AI-sub000/internal/synchronizer"
)

// CloseTimeout is the default drain budget for Close.
const CloseTimeout = 10 * time.Second

// App owns the process-wide components. Sessions created by NewSession share
// the gateway, its cooldown guard and the write queue.
type App struct {
	Config   *config.Config
	Log      zerolog.Logger
	Store    docstore.Store
	Sync     *synchronizer.Synchronizer
	Guard    *ratelimit.Guard
	Gateway  *gateway.Gateway
	Verifier *identity.TokenVerifier
}

// New opens the store and builds the completion stack described by cfg.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	st, err := factory.NewStore(ctx, cfg, log)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Store adapter unavailable")
		return nil, err
	}

	completer, err := factory.NewCompleter(ctx, cfg, log)
	if err != nil {
		_ = st.Close()
		log.Error().Stack().Err(err).Msg("Completion backend unavailable")
		return nil, err
	}

	guard := ratelimit.New()
	a := &App{
		Config:  cfg,
		Log:     log,
		Store:   st,
		Sync:    synchronizer.New(st, cfg.Write, log),
		Guard:   guard,
		Gateway: factory.NewGateway(completer, guard, cfg, log),
	}
	if cfg.IdentitySecret != "" {
		a.Verifier = identity.NewTokenVerifier(cfg.IdentitySecret, cfg.IdentityIssuer, nil)
	}
	return a, nil
}

// NewSession returns a session with no user attached.
func (a *App) NewSession() *session.Session {
	return session.New(session.Deps{
		Store:        state.NewStore(nil, state.WithLogger(a.Log)),
		Gateway:      a.Gateway,
		Synchronizer: a.Sync,
		Guard:        a.Guard,
	}, a.Log)
}

// Close drains queued writes and closes the store. ctx bounds the drain.
func (a *App) Close(ctx context.Context) error {
	done := make(chan error, 1)
	go func() { done <- a.Sync.Close() }()

	var syncErr error
	select {
	case syncErr = <-done:
	case <-ctx.Done():
		syncErr = ctx.Err()
	}
	return errors.Join(syncErr, a.Store.Close())
}
