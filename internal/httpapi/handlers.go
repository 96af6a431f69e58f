// Package httpapi exposes sessions over HTTP for web and mobile hosts.
package httpapi

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/DataScyther/Neeva-AI-sub000/internal/httpapi/respond"
	"github.com/DataScyther/Neeva-AI-sub000/internal/identity"
	"github.com/DataScyther/Neeva-AI-sub000/internal/insights"
	"github.com/DataScyther/Neeva-AI-sub000/internal/model"
	"github.com/DataScyther/Neeva-AI-sub000/internal/session"
	"github.com/DataScyther/Neeva-AI-sub000/internal/state"
)

const maxBodyBytes = 64 << 10

// HealthReporter is satisfied by health.ServiceChecker.
type HealthReporter interface {
	IsHealthy() bool
	Components() map[string]bool
}

// Handler serves the session API.
type Handler struct {
	registry *Registry
	health   HealthReporter
	clock    clockwork.Clock
	log      zerolog.Logger
}

func NewHandler(registry *Registry, health HealthReporter, clock clockwork.Clock, log zerolog.Logger) *Handler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Handler{registry: registry, health: health, clock: clock, log: log}
}

type principalKey struct{}

type principal struct {
	sess *session.Session
	user *model.User
}

// Authenticate resolves the bearer token to the caller's session.
func (h *Handler) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			respond.WriteUnauthorized(w, "bearer token required")
			return
		}
		sess, u, err := h.registry.Resolve(r.Context(), token)
		if err != nil {
			h.writeError(w, err)
			return
		}
		ctx := context.WithValue(r.Context(), principalKey{}, principal{sess: sess, user: u})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}

func caller(r *http.Request) principal {
	p, _ := r.Context().Value(principalKey{}).(principal)
	return p
}

// stateView is the wire form of a state snapshot.
type stateView struct {
	User            *model.User         `json:"user"`
	IsAuthenticated bool                `json:"isAuthenticated"`
	CurrentView     model.View          `json:"currentView"`
	MoodEntries     []model.MoodEntry   `json:"moodEntries"`
	ChatHistory     []model.ChatMessage `json:"chatHistory"`
	Exercises       []model.Exercise    `json:"exercises"`
	Theme           model.Theme         `json:"theme"`
	IsLoading       bool                `json:"isLoading"`
	CooldownSeconds int                 `json:"cooldownSeconds"`
}

func viewOf(st *state.State, cooldown int) stateView {
	return stateView{
		User:            st.User,
		IsAuthenticated: st.IsAuthenticated,
		CurrentView:     st.CurrentView,
		MoodEntries:     st.MoodEntries,
		ChatHistory:     st.ChatHistory,
		Exercises:       st.Exercises,
		Theme:           st.Theme,
		IsLoading:       st.IsLoading,
		CooldownSeconds: cooldown,
	}
}

// CreateSession handles POST /api/session
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Token string `json:"token"`
	}
	if !decode(w, r, &in) {
		return
	}
	if in.Token == "" {
		respond.WriteBadRequest(w, "token is required")
		return
	}
	sess, _, err := h.registry.SignIn(r.Context(), in.Token)
	if err != nil {
		h.writeError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, viewOf(sess.State(), sess.Cooldown()))
}

// DeleteSession handles DELETE /api/session
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.registry.SignOut(r.Context(), caller(r).user.ID); err != nil {
		h.log.Warn().Err(err).Str("user_id", caller(r).user.ID).Msg("sign-out flush incomplete")
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetState handles GET /api/state
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	sess := caller(r).sess
	respond.WriteJSON(w, http.StatusOK, viewOf(sess.State(), sess.Cooldown()))
}

// PostChat handles POST /api/chat
func (h *Handler) PostChat(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Text string `json:"text"`
	}
	if !decode(w, r, &in) {
		return
	}
	sess := caller(r).sess
	msg, err := sess.SendChat(r.Context(), in.Text)
	if err != nil {
		h.writeError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]any{
		"message":         msg,
		"cooldownSeconds": sess.Cooldown(),
	})
}

// PostMood handles POST /api/moods
func (h *Handler) PostMood(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Mood int    `json:"mood"`
		Note string `json:"note"`
	}
	if !decode(w, r, &in) {
		return
	}
	entry, err := caller(r).sess.LogMood(r.Context(), in.Mood, in.Note)
	if err != nil {
		h.writeError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, entry)
}

// GetMoodStats handles GET /api/moods/stats?tz=Area/City
func (h *Handler) GetMoodStats(w http.ResponseWriter, r *http.Request) {
	loc := time.UTC
	if tz := r.URL.Query().Get("tz"); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			respond.WriteBadRequest(w, "unknown time zone: "+tz)
			return
		}
		loc = l
	}
	st := caller(r).sess.State()
	respond.WriteJSON(w, http.StatusOK, insights.MoodStats(st.MoodEntries, h.clock.Now(), loc))
}

// GetExercises handles GET /api/exercises
func (h *Handler) GetExercises(w http.ResponseWriter, r *http.Request) {
	st := caller(r).sess.State()
	respond.WriteJSON(w, http.StatusOK, map[string]any{
		"exercises": st.Exercises,
		"summary":   insights.Exercises(st.Exercises),
	})
}

// CompleteExercise handles POST /api/exercises/{id}/complete
func (h *Handler) CompleteExercise(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	ex, ok := caller(r).sess.CompleteExercise(r.Context(), id)
	if !ok {
		if err := r.Context().Err(); err != nil {
			h.writeError(w, err)
			return
		}
		respond.WriteNotFound(w, "unknown exercise: "+id)
		return
	}
	respond.WriteJSON(w, http.StatusOK, ex)
}

// PutView handles PUT /api/view
func (h *Handler) PutView(w http.ResponseWriter, r *http.Request) {
	var in struct {
		View string `json:"view"`
	}
	if !decode(w, r, &in) {
		return
	}
	v, err := model.ParseView(in.View)
	if err != nil {
		h.writeError(w, err)
		return
	}
	sess := caller(r).sess
	sess.SetView(v)
	respond.WriteJSON(w, http.StatusOK, viewOf(sess.State(), sess.Cooldown()))
}

// PutTheme handles PUT /api/theme
func (h *Handler) PutTheme(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Theme string `json:"theme"`
	}
	if !decode(w, r, &in) {
		return
	}
	t, err := model.ParseTheme(in.Theme)
	if err != nil {
		h.writeError(w, err)
		return
	}
	sess := caller(r).sess
	sess.SetTheme(t)
	respond.WriteJSON(w, http.StatusOK, viewOf(sess.State(), sess.Cooldown()))
}

// CheckHealth handles GET /healthz
// Always returns 200; body reports healthy/unhealthy.
func (h *Handler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	status := "unhealthy"
	var components map[string]bool
	if h.health != nil {
		if h.health.IsHealthy() {
			status = "healthy"
		}
		components = h.health.Components()
	}
	respond.WriteJSON(w, http.StatusOK, map[string]any{
		"status":     status,
		"components": components,
		"timestamp":  h.clock.Now().UTC().Format(time.RFC3339),
	})
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return false
	}
	return true
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case stderrors.Is(err, model.ErrValidation):
		respond.WriteBadRequest(w, err.Error())
	case stderrors.Is(err, identity.ErrInvalidToken):
		respond.WriteUnauthorized(w, "invalid token")
	case stderrors.Is(err, identity.ErrNoVerifier):
		respond.WriteUnavailable(w, "sign-in is not configured")
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		respond.WriteUnavailable(w, "request ended before completion")
	default:
		h.log.Error().Stack().Err(err).Msg("request failed")
		respond.WriteClassified(w, err)
	}
}
