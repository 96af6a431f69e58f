// Package docstoretest is the compliance suite every docstore adapter runs.
package docstoretest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/DataScyther/Neeva-AI-sub000/internal/docstore"
)

// Run exercises a docstore.Store implementation. makeStore must return a
// clean, isolated store; the suite closes nothing itself.
func Run(t *testing.T, makeStore func(t *testing.T) docstore.Store) {
	t.Helper()

	base := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	newUser := func() string { return "u-" + uuid.NewString() }

	t.Run("GetMissing", func(t *testing.T) {
		s := makeStore(t)
		_, err := s.Get(context.Background(), newUser(), "moods", "nope")
		if !errors.Is(err, docstore.ErrNotFound) {
			t.Fatalf("Get missing: want ErrNotFound, got %v", err)
		}
	})

	t.Run("InvalidAddress", func(t *testing.T) {
		s := makeStore(t)
		ctx := context.Background()
		if err := s.Upsert(ctx, "", "moods", docstore.Document{ID: "1"}); !errors.Is(err, docstore.ErrInvalidDocument) {
			t.Fatalf("Upsert empty user: got %v", err)
		}
		if err := s.Merge(ctx, "u", "moods", docstore.Document{}); !errors.Is(err, docstore.ErrInvalidDocument) {
			t.Fatalf("Merge empty id: got %v", err)
		}
		if _, err := s.Query(ctx, "u", ""); !errors.Is(err, docstore.ErrInvalidDocument) {
			t.Fatalf("Query empty collection: got %v", err)
		}
	})

	t.Run("UpsertGet", func(t *testing.T) {
		s := makeStore(t)
		ctx := context.Background()
		user := newUser()

		doc := docstore.Document{ID: "m1", Timestamp: base, Fields: map[string]any{"mood": 4, "note": "calm"}}
		if err := s.Upsert(ctx, user, "moods", doc); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
		got, err := s.Get(ctx, user, "moods", "m1")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got.ID != "m1" || !got.Timestamp.Equal(base) {
			t.Fatalf("Get: id=%q ts=%v", got.ID, got.Timestamp)
		}
		if got.Fields["mood"] != 4.0 || got.Fields["note"] != "calm" {
			t.Fatalf("Get fields: %v", got.Fields)
		}

		doc.Fields = map[string]any{"mood": 2}
		if err := s.Upsert(ctx, user, "moods", doc); err != nil {
			t.Fatalf("Upsert replace: %v", err)
		}
		got, err = s.Get(ctx, user, "moods", "m1")
		if err != nil {
			t.Fatalf("Get after replace: %v", err)
		}
		if _, ok := got.Fields["note"]; ok || got.Fields["mood"] != 2.0 {
			t.Fatalf("Upsert must replace fields, got %v", got.Fields)
		}
	})

	t.Run("QueryOrder", func(t *testing.T) {
		s := makeStore(t)
		ctx := context.Background()
		user := newUser()

		writes := []docstore.Document{
			{ID: "c", Timestamp: base.Add(2 * time.Minute)},
			{ID: "a", Timestamp: base},
			{ID: "z", Timestamp: base.Add(time.Minute)},
			{ID: "b", Timestamp: base.Add(time.Minute)},
		}
		for _, d := range writes {
			if err := s.Upsert(ctx, user, "chats", d); err != nil {
				t.Fatalf("Upsert %s: %v", d.ID, err)
			}
		}
		// Rewriting an id keeps its original position among equal timestamps.
		if err := s.Upsert(ctx, user, "chats", docstore.Document{ID: "z", Timestamp: base.Add(time.Minute), Fields: map[string]any{"v": 2}}); err != nil {
			t.Fatalf("Upsert z again: %v", err)
		}

		got, err := s.Query(ctx, user, "chats")
		if err != nil {
			t.Fatalf("Query: %v", err)
		}
		want := []string{"a", "z", "b", "c"}
		if len(got) != len(want) {
			t.Fatalf("Query: got %d docs, want %d", len(got), len(want))
		}
		for i, id := range want {
			if got[i].ID != id {
				t.Fatalf("Query order: position %d got %q want %q", i, got[i].ID, id)
			}
		}
	})

	t.Run("QueryIsolation", func(t *testing.T) {
		s := makeStore(t)
		ctx := context.Background()
		alice, bob := newUser(), newUser()

		if err := s.Upsert(ctx, alice, "moods", docstore.Document{ID: "1", Timestamp: base}); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
		if err := s.Upsert(ctx, alice, "chats", docstore.Document{ID: "1", Timestamp: base}); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
		if docs, err := s.Query(ctx, bob, "moods"); err != nil || len(docs) != 0 {
			t.Fatalf("Query other user: n=%d err=%v", len(docs), err)
		}
		if docs, err := s.Query(ctx, alice, "moods"); err != nil || len(docs) != 1 {
			t.Fatalf("Query own collection: n=%d err=%v", len(docs), err)
		}
	})

	t.Run("Merge", func(t *testing.T) {
		s := makeStore(t)
		ctx := context.Background()
		user := newUser()

		first := docstore.Document{ID: "breathing-1", Timestamp: base, Fields: map[string]any{"completed": 1, "streak": 1, "tmp": "x"}}
		if err := s.Merge(ctx, user, "progress", first); err != nil {
			t.Fatalf("Merge create: %v", err)
		}
		patch := docstore.Document{ID: "breathing-1", Fields: map[string]any{"completed": 2, "tmp": nil}}
		if err := s.Merge(ctx, user, "progress", patch); err != nil {
			t.Fatalf("Merge patch: %v", err)
		}

		got, err := s.Get(ctx, user, "progress", "breathing-1")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got.Fields["completed"] != 2.0 || got.Fields["streak"] != 1.0 {
			t.Fatalf("Merge fields: %v", got.Fields)
		}
		if _, ok := got.Fields["tmp"]; ok {
			t.Fatalf("Merge nil must delete field, got %v", got.Fields)
		}
		if !got.Timestamp.Equal(base) {
			t.Fatalf("Merge with zero timestamp changed it to %v", got.Timestamp)
		}

		later := base.Add(time.Hour)
		if err := s.Merge(ctx, user, "progress", docstore.Document{ID: "breathing-1", Timestamp: later}); err != nil {
			t.Fatalf("Merge timestamp: %v", err)
		}
		if got, err = s.Get(ctx, user, "progress", "breathing-1"); err != nil || !got.Timestamp.Equal(later) {
			t.Fatalf("Merge timestamp: got=%v err=%v", got, err)
		}
	})

	t.Run("Ping", func(t *testing.T) {
		s := makeStore(t)
		if err := s.Ping(context.Background()); err != nil {
			t.Fatalf("Ping: %v", err)
		}
	})
}
