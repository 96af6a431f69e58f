package synchronizer

import (
	"fmt"
	"math"
	"time"

	"github.com/DataScyther/Neeva-AI-sub000/internal/docstore"
	"github.com/DataScyther/Neeva-AI-sub000/internal/model"
)

// Collection names under each user.
const (
	CollectionMoods     = "moods"
	CollectionChats     = "chats"
	CollectionExercises = "exercises"
)

func moodDocument(e model.MoodEntry) docstore.Document {
	return docstore.Document{
		ID:        e.ID,
		Timestamp: e.Timestamp,
		Fields: map[string]any{
			"id":   e.ID,
			"mood": e.Mood,
			"note": e.Note,
		},
	}
}

func chatDocument(m model.ChatMessage) docstore.Document {
	return docstore.Document{
		ID:        m.ID,
		Timestamp: m.Timestamp,
		Fields: map[string]any{
			"id":      m.ID,
			"content": m.Content,
			"isUser":  m.IsUser,
		},
	}
}

func progressDocument(exerciseID string, streak int, at time.Time) docstore.Document {
	return docstore.Document{
		ID:        exerciseID,
		Timestamp: at,
		Fields: map[string]any{
			"id":              exerciseID,
			"completed":       true,
			"streak":          streak,
			"lastCompletedAt": at.UTC().Format(time.RFC3339Nano),
		},
	}
}

func decodeMood(d docstore.Document) (model.MoodEntry, error) {
	mood, ok := asInt(d.Fields["mood"])
	if !ok {
		return model.MoodEntry{}, fmt.Errorf("mood %q: missing or non-numeric mood", d.ID)
	}
	note, _ := d.Fields["note"].(string)
	return model.NewMoodEntry(d.ID, mood, note, timestampOf(d)), nil
}

func decodeChat(d docstore.Document) (model.ChatMessage, error) {
	content, ok := d.Fields["content"].(string)
	if !ok {
		return model.ChatMessage{}, fmt.Errorf("chat %q: missing content", d.ID)
	}
	isUser, _ := d.Fields["isUser"].(bool)
	return model.ChatMessage{ID: d.ID, Content: content, IsUser: isUser, Timestamp: timestampOf(d)}, nil
}

func decodeProgress(d docstore.Document) model.ExerciseProgress {
	completed, _ := d.Fields["completed"].(bool)
	streak, _ := asInt(d.Fields["streak"])
	p := model.ExerciseProgress{Completed: completed, Streak: max(streak, 0)}
	if s, ok := d.Fields["lastCompletedAt"].(string); ok {
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			p.LastCompletedAt = t
		}
	}
	if p.LastCompletedAt.IsZero() {
		p.LastCompletedAt = d.Timestamp
	}
	return p
}

// timestampOf prefers the document timestamp and falls back to a
// "timestamp" field written by older clients.
func timestampOf(d docstore.Document) time.Time {
	if !d.Timestamp.IsZero() {
		return d.Timestamp
	}
	if s, ok := d.Fields["timestamp"].(string); ok {
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// asInt accepts the numeric shapes adapters hand back.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int(math.Round(n)), true
	case float32:
		return int(math.Round(float64(n))), true
	default:
		return 0, false
	}
}
