package model

import (
	"strings"
	"time"
)

// User is the identity supplied by the authentication collaborator.
// The core treats it as read-only.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

// Name returns the name used when addressing the user.
func (u *User) Name() string {
	if u == nil {
		return "friend"
	}
	if u.DisplayName != "" {
		return u.DisplayName
	}
	if local, _, ok := strings.Cut(u.Email, "@"); ok && local != "" {
		return local
	}
	return "friend"
}

const (
	MinMood = 1
	MaxMood = 5
)

// MoodEntry is a single mood check-in. Entries are never mutated after creation.
type MoodEntry struct {
	ID        string    `json:"id"`
	Mood      int       `json:"mood"`
	Note      string    `json:"note"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMoodEntry builds an entry with mood clamped to [MinMood, MaxMood].
func NewMoodEntry(id string, mood int, note string, ts time.Time) MoodEntry {
	return MoodEntry{ID: id, Mood: ClampMood(mood), Note: note, Timestamp: ts}
}

// ClampMood bounds mood to the supported scale.
func ClampMood(mood int) int {
	switch {
	case mood < MinMood:
		return MinMood
	case mood > MaxMood:
		return MaxMood
	default:
		return mood
	}
}

// ChatMessage is one turn of the conversation, either from the user or the assistant.
type ChatMessage struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	IsUser    bool      `json:"isUser"`
	Timestamp time.Time `json:"timestamp"`
}

// ExerciseType classifies catalog exercises.
type ExerciseType string

const (
	ExerciseMeditation ExerciseType = "meditation"
	ExerciseJournaling ExerciseType = "journaling"
	ExerciseGratitude  ExerciseType = "gratitude"
	ExerciseBreathing  ExerciseType = "breathing"
)

// Exercise is a catalog entry plus the user's progress on it.
// Only Completed and Streak change at runtime.
type Exercise struct {
	ID          string       `json:"id"`
	Type        ExerciseType `json:"type"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Duration    int          `json:"duration"` // minutes
	Completed   bool         `json:"completed"`
	Streak      int          `json:"streak"`
}

// ExerciseProgress is the remote progress record kept per exercise id.
type ExerciseProgress struct {
	Completed       bool      `json:"completed"`
	Streak          int       `json:"streak"`
	LastCompletedAt time.Time `json:"lastCompletedAt"`
}
