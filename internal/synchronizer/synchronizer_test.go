package synchronizer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DataScyther/Neeva-AI-sub000/internal/docstore"
	"github.com/DataScyther/Neeva-AI-sub000/internal/docstore/memory"
	"github.com/DataScyther/Neeva-AI-sub000/internal/model"
	"github.com/DataScyther/Neeva-AI-sub000/internal/writequeue"
)

var t0 = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func newSync(t *testing.T, store docstore.Store, opts ...Option) *Synchronizer {
	t.Helper()
	s := New(store, writequeue.Config{Shards: 2, QueueSize: 16}, zerolog.Nop(), opts...)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSaveAndLoadHistory(t *testing.T) {
	store := memory.New()
	s := newSync(t, store)
	ctx := context.Background()

	s.SaveMoodEntry(ctx, "u1", model.NewMoodEntry("m2", 2, "later", t0.Add(time.Hour)))
	s.SaveMoodEntry(ctx, "u1", model.NewMoodEntry("m1", 4, "earlier", t0))
	s.SaveChatMessage(ctx, "u1", model.ChatMessage{ID: "c1", Content: "hi", IsUser: true, Timestamp: t0})
	s.SaveChatMessage(ctx, "u1", model.ChatMessage{ID: "c2", Content: "hello", Timestamp: t0.Add(time.Second)})
	require.NoError(t, s.Flush(ctx, "u1"))

	h, err := s.LoadHistory(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, h.MoodEntries, 2)
	assert.Equal(t, "m1", h.MoodEntries[0].ID)
	assert.Equal(t, 4, h.MoodEntries[0].Mood)
	assert.Equal(t, "earlier", h.MoodEntries[0].Note)
	assert.True(t, h.MoodEntries[0].Timestamp.Equal(t0))

	require.Len(t, h.ChatHistory, 2)
	assert.Equal(t, []string{"c1", "c2"}, []string{h.ChatHistory[0].ID, h.ChatHistory[1].ID})
	assert.True(t, h.ChatHistory[0].IsUser)
	assert.False(t, h.ChatHistory[1].IsUser)
}

func TestLoadHistory_SkipsUndecodableAndClamps(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	require.NoError(t, store.Upsert(ctx, "u1", CollectionMoods, docstore.Document{ID: "bad", Timestamp: t0, Fields: map[string]any{"mood": "happy"}}))
	require.NoError(t, store.Upsert(ctx, "u1", CollectionMoods, docstore.Document{ID: "hi", Timestamp: t0, Fields: map[string]any{"mood": 9}}))
	require.NoError(t, store.Upsert(ctx, "u1", CollectionChats, docstore.Document{ID: "nocontent", Timestamp: t0}))

	h, err := newSync(t, store).LoadHistory(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, h.MoodEntries, 1)
	assert.Equal(t, model.MaxMood, h.MoodEntries[0].Mood)
	assert.Empty(t, h.ChatHistory)
}

type failingStore struct {
	docstore.Store
	err error
}

func (f failingStore) Query(context.Context, string, string) ([]docstore.Document, error) {
	return nil, f.err
}

func (f failingStore) Upsert(context.Context, string, string, docstore.Document) error {
	return f.err
}

func TestLoadHistory_StoreErrorYieldsEmpty(t *testing.T) {
	boom := errors.New("unavailable")
	s := newSync(t, failingStore{Store: memory.New(), err: boom})

	h, err := s.LoadHistory(context.Background(), "u1")
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, h.MoodEntries)
	assert.Empty(t, h.ChatHistory)

	progress, err := s.GetCompletedExercises(context.Background(), "u1")
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, progress)
}

func TestSave_ErrorsAreSwallowed(t *testing.T) {
	s := newSync(t, failingStore{Store: memory.New(), err: errors.New("write refused")})
	ctx := context.Background()

	assert.NotPanics(t, func() {
		s.SaveMoodEntry(ctx, "u1", model.NewMoodEntry("m1", 3, "", t0))
		s.SaveChatMessage(ctx, "u1", model.ChatMessage{ID: "c1", Content: "x", Timestamp: t0})
	})
	require.NoError(t, s.Flush(ctx, "u1"))
}

func TestSaveExerciseProgress_MergesAndStampsTime(t *testing.T) {
	store := memory.New()
	clock := clockwork.NewFakeClockAt(t0)
	s := newSync(t, store, WithClock(clock))
	ctx := context.Background()

	require.NoError(t, store.Merge(ctx, "u1", CollectionExercises, docstore.Document{ID: "breathing-1", Fields: map[string]any{"favorite": true}}))
	s.SaveExerciseProgress(ctx, "u1", "breathing-1", 3)
	require.NoError(t, s.Flush(ctx, "u1"))

	doc, err := store.Get(ctx, "u1", CollectionExercises, "breathing-1")
	require.NoError(t, err)
	assert.Equal(t, true, doc.Fields["favorite"], "merge must keep unrelated fields")

	progress, err := s.GetCompletedExercises(ctx, "u1")
	require.NoError(t, err)
	require.Contains(t, progress, "breathing-1")
	p := progress["breathing-1"]
	assert.True(t, p.Completed)
	assert.Equal(t, 3, p.Streak)
	assert.True(t, p.LastCompletedAt.Equal(t0))
}

func TestSave_CanceledCallerContextStillWrites(t *testing.T) {
	store := memory.New()
	s := newSync(t, store)

	ctx, cancel := context.WithCancel(context.Background())
	s.SaveMoodEntry(ctx, "u1", model.NewMoodEntry("m1", 5, "", t0))
	cancel()
	require.NoError(t, s.Flush(context.Background(), "u1"))

	_, err := store.Get(context.Background(), "u1", CollectionMoods, "m1")
	assert.NoError(t, err)
}

func TestSave_PerUserOrder(t *testing.T) {
	store := &recordingStore{Store: memory.New()}
	s := newSync(t, store)
	ctx := context.Background()

	for i, id := range []string{"a", "b", "c", "d"} {
		s.SaveChatMessage(ctx, "u1", model.ChatMessage{ID: id, Content: id, Timestamp: t0.Add(time.Duration(i) * time.Second)})
	}
	require.NoError(t, s.Flush(ctx, "u1"))
	assert.Equal(t, []string{"a", "b", "c", "d"}, store.ids())
}

func TestClose_DrainsPendingWrites(t *testing.T) {
	store := memory.New()
	s := New(store, writequeue.Config{Shards: 1, QueueSize: 16}, zerolog.Nop())
	for i := 0; i < 5; i++ {
		s.SaveMoodEntry(context.Background(), "u1", model.NewMoodEntry(string(rune('a'+i)), 3, "", t0))
	}
	require.NoError(t, s.Close())

	docs, err := store.Query(context.Background(), "u1", CollectionMoods)
	require.NoError(t, err)
	assert.Len(t, docs, 5)
}

type recordingStore struct {
	docstore.Store
	mu  sync.Mutex
	got []string
}

func (r *recordingStore) Upsert(ctx context.Context, userID, collection string, doc docstore.Document) error {
	r.mu.Lock()
	r.got = append(r.got, doc.ID)
	r.mu.Unlock()
	return r.Store.Upsert(ctx, userID, collection, doc)
}

func (r *recordingStore) ids() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.got...)
}
