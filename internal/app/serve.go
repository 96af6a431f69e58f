package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/DataScyther/Neeva-AI-sub000/internal/health"
	"github.com/DataScyther/Neeva-AI-sub000/internal/httpapi"
)

const (
	healthInterval     = 15 * time.Second
	healthProbeTimeout = 2 * time.Second
)

// Serve runs the HTTP façade on cfg.HTTPAddr and blocks until ctx ends or
// the listener fails. Queued writes are flushed before it returns.
func (a *App) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.Config.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", a.Config.HTTPAddr, err)
	}
	return a.ServeListener(ctx, ln)
}

// ServeListener is Serve on an existing listener.
func (a *App) ServeListener(ctx context.Context, ln net.Listener) error {
	if a.Verifier == nil {
		a.Log.Warn().Msg("NEEVA_IDENTITY_SECRET is not set; sign-in requests will be refused")
	}

	svcHealth := a.startHealthCheckers(ctx)
	registry := httpapi.NewRegistry(a.Verifier, a.NewSession, a.Log)
	handler := httpapi.NewHandler(registry, svcHealth, nil, a.Log)
	server := newHTTPServer(ctx, httpapi.NewRouter(handler, a.Log))

	errCh := make(chan error, 1)
	go func() {
		a.Log.Info().Str("addr", ln.Addr().String()).Msg("HTTP server starting")
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.Log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), CloseTimeout)
		defer cancel()
		err := server.Shutdown(ctxShutdown)
		if err != nil {
			a.Log.Error().Stack().Err(err).Msg("Server forced to shutdown")
		}
		if ferr := registry.Flush(ctxShutdown); ferr != nil {
			a.Log.Warn().Err(ferr).Msg("pending writes not flushed")
		}
		a.Log.Info().Int("sessions", registry.Len()).Msg("Server exited")
		return err
	case err := <-errCh:
		a.Log.Error().Stack().Err(err).Msg("HTTP server failed")
		return err
	}
}

// startHealthCheckers starts the store checker and the service-level aggregator.
func (a *App) startHealthCheckers(ctx context.Context) *health.ServiceChecker {
	storeChecker := health.NewPingChecker("docstore", a.Store, a.Log, healthProbeTimeout)
	// Probe once up front so the aggregator's first evaluation sees a result.
	storeChecker.Check(ctx)
	go storeChecker.Start(ctx, healthInterval)

	svcHealth := health.NewServiceChecker(a.Log, storeChecker)
	go svcHealth.Start(ctx, healthInterval)
	return svcHealth
}

// newHTTPServer leaves room in WriteTimeout for a chat turn to wait on the
// completion backend and its retries.
func newHTTPServer(ctx context.Context, handler http.Handler) *http.Server {
	return &http.Server{
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
}

// NewSignalContext returns a context cancelled on SIGINT/SIGTERM.
func NewSignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
