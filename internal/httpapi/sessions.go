package httpapi

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/DataScyther/Neeva-AI-sub000/internal/identity"
	"github.com/DataScyther/Neeva-AI-sub000/internal/model"
	"github.com/DataScyther/Neeva-AI-sub000/internal/session"
)

// SessionFactory builds an unattached session for a new user.
type SessionFactory func() *session.Session

// Registry keeps one Session per signed-in user. Each session follows its
// own identity.Hub so sign-in and sign-out go through the same path the
// terminal client uses.
type Registry struct {
	verifier   *identity.TokenVerifier
	newSession SessionFactory
	log        zerolog.Logger

	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	sess   *session.Session
	hub    *identity.Hub
	detach func()
}

func NewRegistry(verifier *identity.TokenVerifier, newSession SessionFactory, log zerolog.Logger) *Registry {
	return &Registry{
		verifier:   verifier,
		newSession: newSession,
		log:        log,
		entries:    make(map[string]*entry),
	}
}

// SignIn verifies token, publishes its user to that user's hub and waits for
// the history load.
func (r *Registry) SignIn(ctx context.Context, token string) (*session.Session, *model.User, error) {
	if r.verifier == nil {
		return nil, nil, identity.ErrNoVerifier
	}
	u, err := r.verifier.Verify(token)
	if err != nil {
		return nil, nil, err
	}
	e := r.entry(u.ID)
	if u, err = e.hub.SignIn(token); err != nil {
		return nil, nil, err
	}
	if err := e.sess.WaitLoaded(ctx); err != nil {
		return nil, nil, err
	}
	return e.sess, u, nil
}

// Resolve returns the session for token, signing in on first use.
func (r *Registry) Resolve(ctx context.Context, token string) (*session.Session, *model.User, error) {
	if r.verifier == nil {
		return nil, nil, identity.ErrNoVerifier
	}
	u, err := r.verifier.Verify(token)
	if err != nil {
		return nil, nil, err
	}
	r.mu.Lock()
	e, ok := r.entries[u.ID]
	r.mu.Unlock()
	if !ok || e.hub.Current() == nil {
		return r.SignIn(ctx, token)
	}
	return e.sess, u, nil
}

// SignOut flushes the user's queued writes and drops the session.
func (r *Registry) SignOut(ctx context.Context, userID string) error {
	r.mu.Lock()
	e, ok := r.entries[userID]
	delete(r.entries, userID)
	r.mu.Unlock()
	if !ok {
		return nil
	}
	err := e.sess.Flush(ctx)
	e.hub.SignOut()
	e.detach()
	return err
}

// Flush waits for the queued writes of every live session.
func (r *Registry) Flush(ctx context.Context) error {
	r.mu.Lock()
	sessions := make([]*session.Session, 0, len(r.entries))
	for _, e := range r.entries {
		sessions = append(sessions, e.sess)
	}
	r.mu.Unlock()

	var errs []error
	for _, s := range sessions {
		errs = append(errs, s.Flush(ctx))
	}
	return errors.Join(errs...)
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *Registry) entry(userID string) *entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[userID]; ok {
		return e
	}
	e := &entry{sess: r.newSession(), hub: identity.NewHub(r.verifier)}
	e.detach = e.sess.Attach(e.hub)
	r.entries[userID] = e
	r.log.Debug().Str("user_id", userID).Int("sessions", len(r.entries)).Msg("session created")
	return e
}
