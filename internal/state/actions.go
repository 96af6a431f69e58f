package state

import "github.com/DataScyther/Neeva-AI-sub000/internal/model"

// Action is a named, immutable instruction for a single state transition.
// The set is closed: only types in this package implement it.
type Action interface {
	ActionName() string
	sealed()
}

type action struct{}

func (action) sealed() {}

type SetUser struct {
	action
	User *model.User
}

type ClearUser struct{ action }

// ResetUserData drops everything tied to the previous user. The view and
// theme are device preferences and survive.
type ResetUserData struct{ action }

type SetAuthenticated struct {
	action
	Value bool
}

type SetView struct {
	action
	View model.View
}

type AddMoodEntry struct {
	action
	Entry model.MoodEntry
}

type AddChatMessage struct {
	action
	Message model.ChatMessage
}

type CompleteExercise struct {
	action
	ID string
}

type SetTheme struct {
	action
	Theme model.Theme
}

type SetLoading struct {
	action
	Value bool
}

// SetInitialData carries remote history loaded at session start. Progress is
// keyed by catalog id.
type SetInitialData struct {
	action
	MoodEntries []model.MoodEntry
	ChatHistory []model.ChatMessage
	Progress    map[string]model.ExerciseProgress
}

func (SetUser) ActionName() string          { return "SetUser" }
func (ClearUser) ActionName() string        { return "ClearUser" }
func (ResetUserData) ActionName() string    { return "ResetUserData" }
func (SetAuthenticated) ActionName() string { return "SetAuthenticated" }
func (SetView) ActionName() string          { return "SetView" }
func (AddMoodEntry) ActionName() string     { return "AddMoodEntry" }
func (AddChatMessage) ActionName() string   { return "AddChatMessage" }
func (CompleteExercise) ActionName() string { return "CompleteExercise" }
func (SetTheme) ActionName() string         { return "SetTheme" }
func (SetLoading) ActionName() string       { return "SetLoading" }
func (SetInitialData) ActionName() string   { return "SetInitialData" }
