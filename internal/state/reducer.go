package state

import "github.com/DataScyther/Neeva-AI-sub000/internal/model"

// Reduce maps (prev, a) to the next snapshot. It never fails and never mutates
// prev. Unsupported actions return prev itself.
func Reduce(prev *State, a Action) *State {
	if prev == nil {
		prev = Initial()
	}

	switch a := a.(type) {
	case SetUser:
		next := *prev
		next.User = a.User
		next.IsAuthenticated = a.User != nil
		return &next

	case ClearUser:
		next := *prev
		next.User = nil
		next.IsAuthenticated = false
		return &next

	case ResetUserData:
		next := Initial()
		next.CurrentView = prev.CurrentView
		next.Theme = prev.Theme
		next.IsLoading = prev.IsLoading
		return next

	case SetAuthenticated:
		next := *prev
		next.IsAuthenticated = a.Value
		return &next

	case SetView:
		next := *prev
		next.CurrentView = a.View
		return &next

	case AddMoodEntry:
		next := *prev
		entry := a.Entry
		entry.Mood = model.ClampMood(entry.Mood)
		next.MoodEntries = appendCopy(prev.MoodEntries, entry)
		return &next

	case AddChatMessage:
		next := *prev
		next.ChatHistory = appendCopy(prev.ChatHistory, a.Message)
		return &next

	case CompleteExercise:
		next := *prev
		next.Exercises = make([]model.Exercise, len(prev.Exercises))
		for i, ex := range prev.Exercises {
			if ex.ID == a.ID {
				ex.Completed = true
				ex.Streak++
			}
			next.Exercises[i] = ex
		}
		return &next

	case SetTheme:
		next := *prev
		next.Theme = a.Theme
		return &next

	case SetLoading:
		next := *prev
		next.IsLoading = a.Value
		return &next

	case SetInitialData:
		next := *prev
		next.MoodEntries = mergeByID(a.MoodEntries, prev.MoodEntries, func(e model.MoodEntry) string { return e.ID }, clampEntry)
		next.ChatHistory = mergeByID(a.ChatHistory, prev.ChatHistory, func(m model.ChatMessage) string { return m.ID }, nil)
		next.Exercises = mergeProgress(prev.Exercises, a.Progress)
		return &next
	}
	return prev
}

// appendCopy never writes into s's backing array, so older snapshots stay intact.
func appendCopy[T any](s []T, v T) []T {
	out := make([]T, len(s), len(s)+1)
	copy(out, s)
	return append(out, v)
}

// mergeByID returns remote records (oldest first) that are not already held
// locally, followed by every local record in its original order. Local records
// are never dropped.
func mergeByID[T any](remote, local []T, id func(T) string, normalize func(T) T) []T {
	out := make([]T, 0, len(remote)+len(local))
	seen := make(map[string]struct{}, len(remote)+len(local))
	for _, v := range local {
		seen[id(v)] = struct{}{}
	}
	for _, v := range remote {
		k := id(v)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		if normalize != nil {
			v = normalize(v)
		}
		out = append(out, v)
	}
	return append(out, local...)
}

func clampEntry(e model.MoodEntry) model.MoodEntry {
	e.Mood = model.ClampMood(e.Mood)
	return e
}

// mergeProgress overlays remote progress onto the catalog. Unknown ids are
// ignored and a streak never moves backwards.
func mergeProgress(catalog []model.Exercise, progress map[string]model.ExerciseProgress) []model.Exercise {
	out := make([]model.Exercise, len(catalog))
	for i, ex := range catalog {
		if p, ok := progress[ex.ID]; ok {
			ex.Completed = ex.Completed || p.Completed
			if p.Streak > ex.Streak {
				ex.Streak = p.Streak
			}
		}
		out[i] = ex
	}
	return out
}
