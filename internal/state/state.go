// Package state holds the application state and the only code allowed to
// produce new versions of it.
package state

import "github.com/DataScyther/Neeva-AI-sub000/internal/model"

// State is an immutable snapshot. Consumers must treat every field, including
// slice contents, as read-only; new snapshots are produced by Reduce.
type State struct {
	User            *model.User
	IsAuthenticated bool
	CurrentView     model.View
	MoodEntries     []model.MoodEntry
	ChatHistory     []model.ChatMessage
	Exercises       []model.Exercise
	Theme           model.Theme
	IsLoading       bool
}

// Initial returns the process-start snapshot: default catalog, empty histories.
func Initial() *State {
	return &State{
		CurrentView: model.ViewDashboard,
		MoodEntries: []model.MoodEntry{},
		ChatHistory: []model.ChatMessage{},
		Exercises:   model.DefaultExercises(),
		Theme:       model.ThemeLight,
	}
}

// Exercise looks up a catalog entry by id.
func (s *State) Exercise(id string) (model.Exercise, bool) {
	for _, ex := range s.Exercises {
		if ex.ID == id {
			return ex, true
		}
	}
	return model.Exercise{}, false
}

// LastMessage returns the most recent chat message, if any.
func (s *State) LastMessage() (model.ChatMessage, bool) {
	if len(s.ChatHistory) == 0 {
		return model.ChatMessage{}, false
	}
	return s.ChatHistory[len(s.ChatHistory)-1], true
}
