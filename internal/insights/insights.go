// Package insights derives the dashboard summaries from state snapshots.
package insights

import (
	"math"
	"time"

	"github.com/DataScyther/Neeva-AI-sub000/internal/model"
)

// Stats summarises mood check-ins.
type Stats struct {
	Average      float64     `json:"average"`
	Distribution map[int]int `json:"distribution"`
	Total        int         `json:"total"`
	Streak       int         `json:"streak"`
}

// MoodStats computes the average (one decimal), the count per mood level,
// and the number of consecutive calendar days in loc, ending today, with at
// least one entry.
func MoodStats(entries []model.MoodEntry, now time.Time, loc *time.Location) Stats {
	if loc == nil {
		loc = time.UTC
	}
	st := Stats{Distribution: make(map[int]int, model.MaxMood)}
	for m := model.MinMood; m <= model.MaxMood; m++ {
		st.Distribution[m] = 0
	}
	if len(entries) == 0 {
		return st
	}

	sum := 0
	days := make(map[civilDay]struct{}, len(entries))
	for _, e := range entries {
		mood := model.ClampMood(e.Mood)
		sum += mood
		st.Distribution[mood]++
		days[dayOf(e.Timestamp, loc)] = struct{}{}
	}
	st.Total = len(entries)
	st.Average = math.Round(float64(sum)/float64(st.Total)*10) / 10

	for d := dayOf(now, loc); ; d = d.prev(loc) {
		if _, ok := days[d]; !ok {
			break
		}
		st.Streak++
	}
	return st
}

// ExerciseSummary is the progress shown above the exercise list.
type ExerciseSummary struct {
	Completed   int `json:"completed"`
	Total       int `json:"total"`
	TotalStreak int `json:"totalStreak"`
}

// Exercises sums completion and streaks across the catalog.
func Exercises(exercises []model.Exercise) ExerciseSummary {
	s := ExerciseSummary{Total: len(exercises)}
	for _, ex := range exercises {
		if ex.Completed {
			s.Completed++
		}
		s.TotalStreak += ex.Streak
	}
	return s
}

type civilDay struct {
	year  int
	month time.Month
	day   int
}

func dayOf(t time.Time, loc *time.Location) civilDay {
	y, m, d := t.In(loc).Date()
	return civilDay{y, m, d}
}

func (c civilDay) prev(loc *time.Location) civilDay {
	return dayOf(time.Date(c.year, c.month, c.day, 12, 0, 0, 0, loc).AddDate(0, 0, -1), loc)
}
