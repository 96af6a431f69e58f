package state

import (
	"fmt"
	"testing"

	"pgregory.net/rapid"

	"github.com/DataScyther/Neeva-AI-sub000/internal/model"
)

var catalogIDs = func() []string {
	var ids []string
	for _, ex := range model.DefaultExercises() {
		ids = append(ids, ex.ID)
	}
	return ids
}()

func genAction(t *rapid.T, seq int) Action {
	switch rapid.IntRange(0, 9).Draw(t, "kind") {
	case 0:
		if rapid.Bool().Draw(t, "nil_user") {
			return SetUser{}
		}
		return SetUser{User: &model.User{ID: rapid.StringN(1, 8, -1).Draw(t, "uid")}}
	case 1:
		return ClearUser{}
	case 2:
		return SetView{View: rapid.SampledFrom([]model.View{model.ViewDashboard, model.ViewChatbot, model.ViewMood}).Draw(t, "view")}
	case 3:
		return AddMoodEntry{Entry: model.MoodEntry{ID: fmt.Sprintf("m%d", seq), Mood: rapid.IntRange(-10, 10).Draw(t, "mood")}}
	case 4:
		return AddChatMessage{Message: model.ChatMessage{ID: fmt.Sprintf("c%d", seq), IsUser: rapid.Bool().Draw(t, "is_user")}}
	case 5:
		ids := append([]string{"nope"}, catalogIDs...)
		return CompleteExercise{ID: rapid.SampledFrom(ids).Draw(t, "exercise")}
	case 6:
		return SetTheme{Theme: rapid.SampledFrom([]model.Theme{model.ThemeLight, model.ThemeDark, model.ThemeAuto}).Draw(t, "theme")}
	case 7:
		return SetLoading{Value: rapid.Bool().Draw(t, "loading")}
	case 8:
		return SetAuthenticated{Value: rapid.Bool().Draw(t, "auth")}
	default:
		return unknownAction{}
	}
}

func checkInvariants(t *rapid.T, prev, next *State) {
	for _, e := range next.MoodEntries {
		if e.Mood < model.MinMood || e.Mood > model.MaxMood {
			t.Fatalf("mood %d out of range", e.Mood)
		}
	}
	if len(next.Exercises) != len(prev.Exercises) {
		t.Fatalf("catalog size changed: %d -> %d", len(prev.Exercises), len(next.Exercises))
	}
	for i := range next.Exercises {
		if next.Exercises[i].ID != prev.Exercises[i].ID {
			t.Fatalf("catalog order changed at %d", i)
		}
		if next.Exercises[i].Streak < prev.Exercises[i].Streak {
			t.Fatalf("streak decreased for %s", next.Exercises[i].ID)
		}
		if prev.Exercises[i].Completed && !next.Exercises[i].Completed {
			t.Fatalf("completed flag reset for %s", next.Exercises[i].ID)
		}
	}
}

func TestReduce_Totality(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := Initial()
		n := rapid.IntRange(1, 60).Draw(t, "n")
		for i := 0; i < n; i++ {
			a := genAction(t, i)
			next := Reduce(s, a)
			if _, unknown := a.(unknownAction); unknown {
				if next != s {
					t.Fatalf("unsupported action must return the prior snapshot")
				}
			} else if next == s {
				t.Fatalf("%s returned the prior snapshot", a.ActionName())
			}
			checkInvariants(t, s, next)
			s = next
		}
	})
}

func TestReduce_AppendOnlyHistory(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := Initial()
		var wantMoods, wantChats []string
		n := rapid.IntRange(0, 80).Draw(t, "n")
		for i := 0; i < n; i++ {
			if rapid.Bool().Draw(t, "mood") {
				id := fmt.Sprintf("m%d", i)
				wantMoods = append(wantMoods, id)
				s = Reduce(s, AddMoodEntry{Entry: model.MoodEntry{ID: id, Mood: 3}})
			} else {
				id := fmt.Sprintf("c%d", i)
				wantChats = append(wantChats, id)
				s = Reduce(s, AddChatMessage{Message: model.ChatMessage{ID: id}})
			}
		}
		if len(s.MoodEntries) != len(wantMoods) || len(s.ChatHistory) != len(wantChats) {
			t.Fatalf("lengths: moods %d/%d chats %d/%d", len(s.MoodEntries), len(wantMoods), len(s.ChatHistory), len(wantChats))
		}
		for i, id := range wantMoods {
			if s.MoodEntries[i].ID != id {
				t.Fatalf("mood %d: got %s want %s", i, s.MoodEntries[i].ID, id)
			}
		}
		for i, id := range wantChats {
			if s.ChatHistory[i].ID != id {
				t.Fatalf("chat %d: got %s want %s", i, s.ChatHistory[i].ID, id)
			}
		}
	})
}

func TestReduce_CompletionIncrementsWithoutBound(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		id := rapid.SampledFrom(catalogIDs).Draw(t, "id")
		times := rapid.IntRange(1, 200).Draw(t, "times")
		s := Initial()
		for i := 0; i < times; i++ {
			s = Reduce(s, CompleteExercise{ID: id})
		}
		ex, _ := s.Exercise(id)
		if !ex.Completed || ex.Streak != times {
			t.Fatalf("after %d completions: completed=%v streak=%d", times, ex.Completed, ex.Streak)
		}
	})
}

func TestReduce_LoadMergeIsAdditive(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		local := rapid.IntRange(0, 20).Draw(t, "local")
		remote := rapid.IntRange(0, 20).Draw(t, "remote")
		overlap := rapid.IntRange(0, min(local, remote)).Draw(t, "overlap")

		s := Initial()
		for i := 0; i < local; i++ {
			s = Reduce(s, AddMoodEntry{Entry: model.MoodEntry{ID: fmt.Sprintf("l%d", i), Mood: 2}})
		}
		var loaded []model.MoodEntry
		for i := 0; i < overlap; i++ {
			loaded = append(loaded, model.MoodEntry{ID: fmt.Sprintf("l%d", i), Mood: 2})
		}
		for i := overlap; i < remote; i++ {
			loaded = append(loaded, model.MoodEntry{ID: fmt.Sprintf("r%d", i), Mood: 4})
		}

		merged := Reduce(s, SetInitialData{MoodEntries: loaded})
		want := local + remote - overlap
		if len(merged.MoodEntries) != want {
			t.Fatalf("merged %d entries, want %d", len(merged.MoodEntries), want)
		}
	})
}
