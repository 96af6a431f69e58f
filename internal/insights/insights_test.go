package insights

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/DataScyther/Neeva-AI-sub000/internal/model"
)

func entry(mood int, ts time.Time) model.MoodEntry {
	return model.MoodEntry{ID: ts.String(), Mood: mood, Timestamp: ts}
}

func TestMoodStats_Empty(t *testing.T) {
	st := MoodStats(nil, time.Now(), time.UTC)
	assert.Equal(t, Stats{Distribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}}, st)
}

func TestMoodStats_AverageAndDistribution(t *testing.T) {
	now := time.Date(2024, 6, 10, 20, 0, 0, 0, time.UTC)
	entries := []model.MoodEntry{
		entry(4, now.Add(-time.Hour)),
		entry(5, now.Add(-2*time.Hour)),
		entry(2, now.AddDate(0, 0, -5)),
	}
	st := MoodStats(entries, now, time.UTC)
	assert.Equal(t, 3, st.Total)
	assert.InDelta(t, 3.7, st.Average, 1e-9)
	assert.Equal(t, map[int]int{1: 0, 2: 1, 3: 0, 4: 1, 5: 1}, st.Distribution)
}

func TestMoodStats_Streak(t *testing.T) {
	now := time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)
	cases := []struct {
		name string
		days []int // days before now with an entry
		want int
	}{
		{"today only", []int{0}, 1},
		{"three in a row", []int{0, 1, 2}, 3},
		{"gap breaks streak", []int{0, 1, 3, 4}, 2},
		{"nothing today", []int{1, 2, 3}, 0},
		{"duplicates count once", []int{0, 0, 1}, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var entries []model.MoodEntry
			for _, d := range tc.days {
				entries = append(entries, entry(3, now.AddDate(0, 0, -d)))
			}
			assert.Equal(t, tc.want, MoodStats(entries, now, time.UTC).Streak)
		})
	}
}

func TestMoodStats_StreakUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	// 23:30 UTC on the 9th is already the 10th in loc.
	now := time.Date(2024, 6, 10, 11, 0, 0, 0, loc)
	entries := []model.MoodEntry{entry(3, time.Date(2024, 6, 9, 23, 30, 0, 0, time.UTC))}

	assert.Equal(t, 1, MoodStats(entries, now, loc).Streak)
	assert.Equal(t, 0, MoodStats(entries, now, time.UTC).Streak)
}

func TestExercises(t *testing.T) {
	catalog := model.DefaultExercises()
	catalog[0].Completed, catalog[0].Streak = true, 3
	catalog[2].Completed, catalog[2].Streak = true, 1

	s := Exercises(catalog)
	assert.Equal(t, ExerciseSummary{Completed: 2, Total: len(catalog), TotalStreak: 4}, s)
}
