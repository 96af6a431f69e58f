// Package synchronizer mirrors session data into the per-user document
// store. Loads are synchronous; saves are queued and never report errors to
// the caller.
package synchronizer

import (
	"context"
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/DataScyther/Neeva-AI-sub000/internal/docstore"
	"github.com/DataScyther/Neeva-AI-sub000/internal/model"
	"github.com/DataScyther/Neeva-AI-sub000/internal/writequeue"
)

// History is the remote state loaded at session start.
type History struct {
	MoodEntries []model.MoodEntry
	ChatHistory []model.ChatMessage
}

// Synchronizer writes through a writequeue.Executor keyed by user id, so
// writes for one user land in submission order.
type Synchronizer struct {
	store docstore.Store
	exec  *writequeue.Executor
	clock clockwork.Clock
	log   zerolog.Logger
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithClock overrides the clock used for lastCompletedAt.
func WithClock(c clockwork.Clock) Option {
	return func(s *Synchronizer) { s.clock = c }
}

// New starts the write workers. cfg.OnError is replaced; failures are logged.
func New(store docstore.Store, cfg writequeue.Config, log zerolog.Logger, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		store: store,
		clock: clockwork.NewRealClock(),
		log:   log.With().Str("component", "synchronizer").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	cfg.OnError = func(userID string, err error) {
		s.log.Error().Err(err).Str("user_id", userID).Msg("background write failed")
	}
	s.exec = writequeue.New(cfg, s.log)
	return s
}

// LoadHistory reads moods and chats oldest first. Documents that cannot be
// decoded are skipped. On a store error the returned History is empty.
func (s *Synchronizer) LoadHistory(ctx context.Context, userID string) (History, error) {
	log := s.log.With().Str("user_id", userID).Logger()

	moodDocs, err := s.store.Query(ctx, userID, CollectionMoods)
	if err != nil {
		log.Error().Err(err).Msg("load moods failed")
		return History{}, fmt.Errorf("load moods: %w", err)
	}
	chatDocs, err := s.store.Query(ctx, userID, CollectionChats)
	if err != nil {
		log.Error().Err(err).Msg("load chats failed")
		return History{}, fmt.Errorf("load chats: %w", err)
	}

	h := History{
		MoodEntries: make([]model.MoodEntry, 0, len(moodDocs)),
		ChatHistory: make([]model.ChatMessage, 0, len(chatDocs)),
	}
	for _, d := range moodDocs {
		e, err := decodeMood(d)
		if err != nil {
			log.Warn().Err(err).Msg("skipping mood document")
			continue
		}
		h.MoodEntries = append(h.MoodEntries, e)
	}
	for _, d := range chatDocs {
		m, err := decodeChat(d)
		if err != nil {
			log.Warn().Err(err).Msg("skipping chat document")
			continue
		}
		h.ChatHistory = append(h.ChatHistory, m)
	}
	log.Debug().Int("moods", len(h.MoodEntries)).Int("chats", len(h.ChatHistory)).Msg("history loaded")
	return h, nil
}

// GetCompletedExercises returns stored progress keyed by exercise id.
func (s *Synchronizer) GetCompletedExercises(ctx context.Context, userID string) (map[string]model.ExerciseProgress, error) {
	docs, err := s.store.Query(ctx, userID, CollectionExercises)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("load exercise progress failed")
		return map[string]model.ExerciseProgress{}, fmt.Errorf("load exercises: %w", err)
	}
	out := make(map[string]model.ExerciseProgress, len(docs))
	for _, d := range docs {
		out[d.ID] = decodeProgress(d)
	}
	return out, nil
}

// SaveMoodEntry queues an upsert of e.
func (s *Synchronizer) SaveMoodEntry(ctx context.Context, userID string, e model.MoodEntry) {
	doc := moodDocument(e)
	s.submit(ctx, userID, CollectionMoods, func(ctx context.Context) error {
		return s.store.Upsert(ctx, userID, CollectionMoods, doc)
	})
}

// SaveChatMessage queues an upsert of m.
func (s *Synchronizer) SaveChatMessage(ctx context.Context, userID string, m model.ChatMessage) {
	doc := chatDocument(m)
	s.submit(ctx, userID, CollectionChats, func(ctx context.Context) error {
		return s.store.Upsert(ctx, userID, CollectionChats, doc)
	})
}

// SaveExerciseProgress queues a merge marking exerciseID completed with streak.
func (s *Synchronizer) SaveExerciseProgress(ctx context.Context, userID, exerciseID string, streak int) {
	doc := progressDocument(exerciseID, streak, s.clock.Now())
	s.submit(ctx, userID, CollectionExercises, func(ctx context.Context) error {
		return s.store.Merge(ctx, userID, CollectionExercises, doc)
	})
}

// Flush waits for every write already queued for userID.
func (s *Synchronizer) Flush(ctx context.Context, userID string) error {
	return s.exec.Barrier(ctx, userID)
}

// Close drains queued writes and stops the workers. The store is not closed.
func (s *Synchronizer) Close() error {
	return s.exec.Close()
}

// submit detaches the job from the caller's cancellation so a write outlives
// the request that triggered it. The enqueue is bounded by EnqueueTimeout.
func (s *Synchronizer) submit(ctx context.Context, userID, collection string, write func(context.Context) error) {
	if userID == "" {
		s.log.Warn().Str("collection", collection).Msg("dropping write without user")
		writesTotal.WithLabelValues(collection, resultRejected).Inc()
		return
	}
	job := writequeue.JobFunc(func(ctx context.Context) error {
		if err := write(ctx); err != nil {
			writesTotal.WithLabelValues(collection, resultError).Inc()
			return fmt.Errorf("save %s: %w", collection, err)
		}
		writesTotal.WithLabelValues(collection, resultOK).Inc()
		return nil
	})
	if err := s.exec.Submit(context.WithoutCancel(ctx), userID, job); err != nil {
		writesTotal.WithLabelValues(collection, resultRejected).Inc()
		s.log.Error().Err(err).Str("user_id", userID).Str("collection", collection).Msg("write not queued")
	}
}
