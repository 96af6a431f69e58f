// Package session wires the state store, the conversation gateway and the
// synchronizer into the operations a host exposes to the user.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/DataScyther/Neeva-AI-sub000/internal/identity"
	"github.com/DataScyther/Neeva-AI-sub000/internal/model"
	"github.com/DataScyther/Neeva-AI-sub000/internal/ratelimit"
	"github.com/DataScyther/Neeva-AI-sub000/internal/state"
	"github.com/DataScyther/Neeva-AI-sub000/internal/synchronizer"
)

// WelcomeID identifies the local greeting. It is never persisted.
const WelcomeID = "welcome"

// quickSuggestions are the canned prompts offered next to the chat input.
var quickSuggestions = []string{
	"I'm feeling anxious today",
	"Help me with breathing exercises",
	"I can't sleep well",
}

// Replier produces the assistant turn for a user utterance.
type Replier interface {
	Send(ctx context.Context, history []model.ChatMessage, text string) (string, error)
}

// Synchronizer is the persistence side the session depends on.
type Synchronizer interface {
	LoadHistory(ctx context.Context, userID string) (synchronizer.History, error)
	GetCompletedExercises(ctx context.Context, userID string) (map[string]model.ExerciseProgress, error)
	SaveMoodEntry(ctx context.Context, userID string, e model.MoodEntry)
	SaveChatMessage(ctx context.Context, userID string, m model.ChatMessage)
	SaveExerciseProgress(ctx context.Context, userID, exerciseID string, streak int)
	Flush(ctx context.Context, userID string) error
}

// Deps are the collaborators of a Session. Store and Gateway are required;
// a nil Synchronizer disables persistence.
type Deps struct {
	Store        *state.Store
	Gateway      Replier
	Synchronizer Synchronizer
	Guard        *ratelimit.Guard
	Clock        clockwork.Clock
	IDs          func() string
}

// Session is safe for concurrent use. Chat turns are serialised so a user
// turn and its reply are always adjacent in history.
type Session struct {
	deps Deps
	log  zerolog.Logger

	chatMu sync.Mutex

	// userMu orders user transitions with the dispatches that belong to them.
	userMu sync.Mutex
	// owner is the last user whose data entered the store. Guarded by userMu.
	owner string

	mu   sync.Mutex
	gen  uint64
	gate chan struct{}
}

// New returns a Session with no user attached.
func New(deps Deps, log zerolog.Logger) *Session {
	if deps.Store == nil {
		deps.Store = state.NewStore(nil)
	}
	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}
	if deps.IDs == nil {
		deps.IDs = uuid.NewString
	}
	return &Session{
		deps: deps,
		log:  log.With().Str("component", "session").Logger(),
		gate: closedGate(),
	}
}

// State returns the current snapshot.
func (s *Session) State() *state.State { return s.deps.Store.State() }

// Subscribe forwards to the state store.
func (s *Session) Subscribe(l state.Listener) func() { return s.deps.Store.Subscribe(l) }

// Attach follows provider: a user starts a background load, nil signs out.
// The load gate is closed before the listener returns, so WaitLoaded called
// after the provider publishes observes the new user's history.
func (s *Session) Attach(provider identity.Provider) (detach func()) {
	return provider.OnChange(func(u *model.User) {
		if u == nil {
			s.SignOut()
			return
		}
		if u.ID == "" {
			s.log.Warn().Msg("ignoring identity without an id")
			return
		}
		gen, gate := s.begin(u)
		go func() {
			if err := s.load(context.Background(), u, gen, gate); err != nil {
				s.log.Warn().Err(err).Str("user_id", u.ID).Msg("session started with partial history")
			}
		}()
	})
}

// Start signs u in and loads their history before returning. The load gate
// opens once the result is in the store. Load failures are returned but the
// session is still usable with whatever could be loaded.
func (s *Session) Start(ctx context.Context, u *model.User) error {
	if u == nil || u.ID == "" {
		return fmt.Errorf("%w: user id is required", model.ErrValidation)
	}
	gen, gate := s.begin(u)
	return s.load(ctx, u, gen, gate)
}

// begin switches to u and closes the load gate until the matching load ends.
// Data held for a different previous user is dropped first; data gathered
// before anyone signed in is kept and merged with u's history.
func (s *Session) begin(u *model.User) (uint64, chan struct{}) {
	s.userMu.Lock()
	defer s.userMu.Unlock()
	gen, gate := s.resetGate(true)
	if s.owner != "" && s.owner != u.ID {
		s.log.Debug().Str("previous_user_id", s.owner).Str("user_id", u.ID).Msg("switching user, dropping previous data")
		s.deps.Store.Dispatch(state.ResetUserData{})
	}
	s.owner = u.ID
	s.deps.Store.Dispatch(state.SetUser{User: u})
	s.deps.Store.Dispatch(state.SetLoading{Value: true})
	return gen, gate
}

func (s *Session) load(ctx context.Context, u *model.User, gen uint64, gate chan struct{}) error {
	var (
		history  synchronizer.History
		progress map[string]model.ExerciseProgress
		loadErr  error
	)
	if s.deps.Synchronizer != nil {
		var herr, perr error
		history, herr = s.deps.Synchronizer.LoadHistory(ctx, u.ID)
		progress, perr = s.deps.Synchronizer.GetCompletedExercises(ctx, u.ID)
		loadErr = errors.Join(herr, perr)
	}

	s.userMu.Lock()
	defer s.userMu.Unlock()
	defer close(gate)
	if !s.isCurrent(gen) {
		s.log.Debug().Str("user_id", u.ID).Msg("discarding superseded load")
		return loadErr
	}
	s.deps.Store.Dispatch(state.SetInitialData{
		MoodEntries: history.MoodEntries,
		ChatHistory: history.ChatHistory,
		Progress:    progress,
	})
	s.deps.Store.Dispatch(state.SetLoading{Value: false})
	if len(s.State().ChatHistory) == 0 {
		s.deps.Store.Dispatch(state.AddChatMessage{Message: s.welcome(u)})
	}

	s.log.Info().
		Str("user_id", u.ID).
		Int("moods", len(history.MoodEntries)).
		Int("chats", len(history.ChatHistory)).
		Msg("session loaded")
	return loadErr
}

// SignOut clears the user. Pending loads for the previous user are discarded.
func (s *Session) SignOut() {
	s.userMu.Lock()
	defer s.userMu.Unlock()
	s.resetGate(false)
	s.deps.Store.Dispatch(state.ClearUser{})
	s.deps.Store.Dispatch(state.SetLoading{Value: false})
}

// WaitLoaded blocks until the current user's history is in the store.
func (s *Session) WaitLoaded(ctx context.Context) error {
	s.mu.Lock()
	gate := s.gate
	s.mu.Unlock()
	select {
	case <-gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SendChat appends the user turn, asks the gateway for a reply and appends
// it. On success history grows by exactly two messages.
func (s *Session) SendChat(ctx context.Context, text string) (model.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.ChatMessage{}, fmt.Errorf("%w: message is empty", model.ErrValidation)
	}
	if err := s.WaitLoaded(ctx); err != nil {
		return model.ChatMessage{}, err
	}

	s.chatMu.Lock()
	defer s.chatMu.Unlock()

	st := s.State()
	prior, asker := st.ChatHistory, userIDOf(st)
	userMsg := model.ChatMessage{ID: s.deps.IDs(), Content: text, IsUser: true, Timestamp: s.deps.Clock.Now()}
	s.deps.Store.Dispatch(state.AddChatMessage{Message: userMsg})
	s.persist(func(userID string) { s.deps.Synchronizer.SaveChatMessage(ctx, userID, userMsg) })

	reply, err := s.deps.Gateway.Send(ctx, prior, text)
	if err != nil {
		return model.ChatMessage{}, err
	}

	aiMsg := model.ChatMessage{ID: s.deps.IDs(), Content: reply, Timestamp: s.deps.Clock.Now()}
	if userIDOf(s.State()) != asker {
		// The user changed while the reply was pending; it belongs to nobody now.
		s.log.Debug().Str("user_id", asker).Msg("discarding reply for previous user")
		return aiMsg, nil
	}
	s.deps.Store.Dispatch(state.AddChatMessage{Message: aiMsg})
	s.persist(func(userID string) { s.deps.Synchronizer.SaveChatMessage(ctx, userID, aiMsg) })
	return aiMsg, nil
}

// LogMood records a check-in. mood is clamped to the supported scale.
func (s *Session) LogMood(ctx context.Context, mood int, note string) (model.MoodEntry, error) {
	if err := s.WaitLoaded(ctx); err != nil {
		return model.MoodEntry{}, err
	}
	entry := model.NewMoodEntry(s.deps.IDs(), mood, strings.TrimSpace(note), s.deps.Clock.Now())
	s.deps.Store.Dispatch(state.AddMoodEntry{Entry: entry})
	s.persist(func(userID string) { s.deps.Synchronizer.SaveMoodEntry(ctx, userID, entry) })
	return entry, nil
}

// CompleteExercise marks id done and bumps its streak. It reports false for
// an id outside the catalog, in which case nothing changes.
func (s *Session) CompleteExercise(ctx context.Context, id string) (model.Exercise, bool) {
	if err := s.WaitLoaded(ctx); err != nil {
		return model.Exercise{}, false
	}
	if _, ok := s.State().Exercise(id); !ok {
		return model.Exercise{}, false
	}
	ex, _ := s.deps.Store.Dispatch(state.CompleteExercise{ID: id}).Exercise(id)
	s.persist(func(userID string) { s.deps.Synchronizer.SaveExerciseProgress(ctx, userID, ex.ID, ex.Streak) })
	return ex, true
}

// SetView switches the active screen.
func (s *Session) SetView(v model.View) { s.deps.Store.Dispatch(state.SetView{View: v}) }

// SetTheme switches the colour scheme.
func (s *Session) SetTheme(t model.Theme) { s.deps.Store.Dispatch(state.SetTheme{Theme: t}) }

// QuickSuggestions returns the canned prompts. They stay usable while the
// gateway is cooling down.
func (s *Session) QuickSuggestions() []string {
	return append([]string(nil), quickSuggestions...)
}

// Cooldown returns the seconds left before the gateway accepts requests again.
func (s *Session) Cooldown() int {
	if s.deps.Guard == nil {
		return 0
	}
	return s.deps.Guard.RemainingSeconds()
}

// Flush waits for the signed-in user's queued writes.
func (s *Session) Flush(ctx context.Context) error {
	u := s.State().User
	if u == nil || s.deps.Synchronizer == nil {
		return nil
	}
	return s.deps.Synchronizer.Flush(ctx, u.ID)
}

func (s *Session) persist(save func(userID string)) {
	if s.deps.Synchronizer == nil {
		return
	}
	if u := s.State().User; u != nil {
		save(u.ID)
	}
}

func userIDOf(st *state.State) string {
	if st.User == nil {
		return ""
	}
	return st.User.ID
}

func (s *Session) welcome(u *model.User) model.ChatMessage {
	return model.ChatMessage{
		ID:        WelcomeID,
		Content:   fmt.Sprintf("Hello %s! I'm your AI wellness companion. How are you feeling today?", u.Name()),
		Timestamp: s.deps.Clock.Now(),
	}
}

// resetGate starts a new generation. With pending=true the returned gate is
// open only after the caller closes it; otherwise it is already open.
func (s *Session) resetGate(pending bool) (uint64, chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	if pending {
		s.gate = make(chan struct{})
	} else {
		s.gate = closedGate()
	}
	return s.gen, s.gate
}

func (s *Session) isCurrent(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen == gen
}

func closedGate() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
