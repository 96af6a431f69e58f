// Package identity tracks who is signed in and tells subscribers when that
// changes.
package identity

import (
	"errors"
	"sync"

	"github.com/DataScyther/Neeva-AI-sub000/internal/model"
)

// ErrNoVerifier is returned by SignIn on a Hub built without a verifier.
var ErrNoVerifier = errors.New("identity: no token verifier configured")

// Listener receives the new user, or nil after sign-out.
type Listener func(*model.User)

// Provider is the read side of the identity source.
type Provider interface {
	Current() *model.User
	OnChange(Listener) (unsubscribe func())
}

type subscription struct {
	fn     Listener
	active bool
}

// Hub is the in-process Provider. Listeners run on the publishing goroutine
// in subscription order and must not call Publish themselves.
type Hub struct {
	verifier *TokenVerifier

	mu        sync.Mutex
	current   *model.User
	published bool
	subs      []*subscription
}

// NewHub returns a Hub. verifier may be nil when tokens are not used.
func NewHub(verifier *TokenVerifier) *Hub {
	return &Hub{verifier: verifier}
}

// Current returns a copy of the signed-in user, or nil.
func (h *Hub) Current() *model.User {
	h.mu.Lock()
	defer h.mu.Unlock()
	return clone(h.current)
}

// OnChange registers fn. If a user was already published fn is called
// immediately with it. The returned func is idempotent.
func (h *Hub) OnChange(fn Listener) func() {
	sub := &subscription{fn: fn, active: true}
	h.mu.Lock()
	h.subs = append(h.subs, sub)
	replay, current := h.published, clone(h.current)
	h.mu.Unlock()

	if replay {
		fn(current)
	}
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if !sub.active {
			return
		}
		sub.active = false
		for i, s := range h.subs {
			if s == sub {
				h.subs = append(h.subs[:i:i], h.subs[i+1:]...)
				break
			}
		}
	}
}

// Publish records u as the current user and notifies listeners. A listener
// unsubscribed during notification is not called afterwards.
func (h *Hub) Publish(u *model.User) {
	h.mu.Lock()
	h.current = clone(u)
	h.published = true
	subs := append([]*subscription(nil), h.subs...)
	h.mu.Unlock()

	for _, s := range subs {
		h.mu.Lock()
		active := s.active
		h.mu.Unlock()
		if active {
			s.fn(clone(u))
		}
	}
}

// SignIn verifies token and publishes the user it names.
func (h *Hub) SignIn(token string) (*model.User, error) {
	if h.verifier == nil {
		return nil, ErrNoVerifier
	}
	u, err := h.verifier.Verify(token)
	if err != nil {
		return nil, err
	}
	h.Publish(u)
	return clone(u), nil
}

// SignOut publishes nil.
func (h *Hub) SignOut() { h.Publish(nil) }

func clone(u *model.User) *model.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
