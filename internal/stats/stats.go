// Package stats computes the derived aggregates the analytics and dashboard
// views display. Everything here is a pure function over a snapshot; nothing
// is stored or memoized.
package stats

import (
	"math"
	"sort"
	"time"

	"github.com/foxhub/foxhub/internal/store"
)

// Rate is the rounded percentage completed/total. Zero when total is zero,
// never NaN.
func Rate(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}

type TaskSummary struct {
	Total     int
	Completed int
	Rate      int
}

func Tasks(tasks []store.Task) TaskSummary {
	s := TaskSummary{Total: len(tasks)}
	for i := range tasks {
		if tasks[i].Completed {
			s.Completed++
		}
	}
	s.Rate = Rate(s.Completed, s.Total)
	return s
}

type GoalSummary struct {
	Total     int
	Completed int
	Rate      int
}

func Goals(goals []store.Goal) GoalSummary {
	s := GoalSummary{Total: len(goals)}
	for i := range goals {
		if goals[i].Completed {
			s.Completed++
		}
	}
	s.Rate = Rate(s.Completed, s.Total)
	return s
}

type CategoryStat struct {
	Category  string
	Total     int
	Completed int
	Rate      int
}

// CategoryBreakdown groups tasks by category, sorted by category name.
func CategoryBreakdown(tasks []store.Task) []CategoryStat {
	byCat := make(map[string]*CategoryStat)
	for i := range tasks {
		cs, ok := byCat[tasks[i].Category]
		if !ok {
			cs = &CategoryStat{Category: tasks[i].Category}
			byCat[tasks[i].Category] = cs
		}
		cs.Total++
		if tasks[i].Completed {
			cs.Completed++
		}
	}

	out := make([]CategoryStat, 0, len(byCat))
	for _, cs := range byCat {
		cs.Rate = Rate(cs.Completed, cs.Total)
		out = append(out, *cs)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

type CategoryMinutes struct {
	Category string
	Minutes  int
}

// MinutesByCategory sums tracked minutes per category, sorted by minutes
// descending.
func MinutesByCategory(entries []store.TimeEntry) []CategoryMinutes {
	byCat := make(map[string]int)
	for i := range entries {
		byCat[entries[i].Category] += entries[i].Duration
	}

	out := make([]CategoryMinutes, 0, len(byCat))
	for cat, m := range byCat {
		out = append(out, CategoryMinutes{Category: cat, Minutes: m})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Minutes != out[j].Minutes {
			return out[i].Minutes > out[j].Minutes
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// TrailingMinutes sums the duration of entries created within the trailing
// `days` local calendar days, inclusive of today.
func TrailingMinutes(entries []store.TimeEntry, days int, now time.Time) int {
	if days <= 0 {
		return 0
	}
	first := localDay(now).AddDate(0, 0, -(days - 1))

	total := 0
	for i := range entries {
		d := localDay(entries[i].CreatedAt)
		if !d.Before(first) && !d.After(localDay(now)) {
			total += entries[i].Duration
		}
	}
	return total
}

type DayStat struct {
	Day            time.Time
	Label          string
	TasksCompleted int
	Minutes        int
}

// WeeklyTrend reports, for each of the last 7 local calendar days (oldest to
// newest, inclusive of today), the tasks completed that day by last-updated
// date and the minutes tracked that day by entry creation date.
func WeeklyTrend(tasks []store.Task, entries []store.TimeEntry, now time.Time) []DayStat {
	out := make([]DayStat, 0, 7)
	for off := 6; off >= 0; off-- {
		day := localDay(now).AddDate(0, 0, -off)
		ds := DayStat{Day: day, Label: day.Format("Mon")}

		for i := range tasks {
			if tasks[i].Completed && sameDay(tasks[i].UpdatedAt, day) {
				ds.TasksCompleted++
			}
		}
		for i := range entries {
			if sameDay(entries[i].CreatedAt, day) {
				ds.Minutes += entries[i].Duration
			}
		}
		out = append(out, ds)
	}
	return out
}

// PriorityCounts tallies tasks per priority level.
func PriorityCounts(tasks []store.Task) map[store.Priority]int {
	counts := map[store.Priority]int{
		store.PriorityLow:    0,
		store.PriorityMedium: 0,
		store.PriorityHigh:   0,
	}
	for i := range tasks {
		counts[tasks[i].Priority]++
	}
	return counts
}

type PomodoroSummary struct {
	Total         int
	CompletedWork int
	FocusMinutes  int
}

func Pomodoros(sessions []store.PomodoroSession) PomodoroSummary {
	s := PomodoroSummary{Total: len(sessions)}
	for i := range sessions {
		if sessions[i].Type == store.SessionWork && sessions[i].Completed {
			s.CompletedWork++
			s.FocusMinutes += sessions[i].Duration
		}
	}
	return s
}

// localDay truncates t to its local calendar day.
func localDay(t time.Time) time.Time {
	l := t.Local()
	return time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, l.Location())
}

func sameDay(t, day time.Time) bool {
	return localDay(t).Equal(day)
}
