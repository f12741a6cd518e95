package stats

import (
	"testing"
	"time"

	"github.com/foxhub/foxhub/internal/store"
)

func day(t *testing.T, offset int) time.Time {
	t.Helper()
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.Local)
	return now.AddDate(0, 0, offset)
}

func task(completed bool, category string, priority store.Priority, updated time.Time) store.Task {
	return store.Task{
		ID:        "t",
		Title:     "t",
		Completed: completed,
		Category:  category,
		Priority:  priority,
		UpdatedAt: updated,
	}
}

func entry(category string, minutes int, created time.Time) store.TimeEntry {
	return store.TimeEntry{
		ID:        "e",
		Category:  category,
		Duration:  minutes,
		CreatedAt: created,
	}
}

// ============================================================
// Rate
// ============================================================

func TestRate(t *testing.T) {
	cases := []struct {
		completed, total, want int
	}{
		{0, 0, 0},
		{0, 10, 0},
		{3, 4, 75},
		{1, 3, 33},
		{2, 3, 67},
		{10, 10, 100},
	}
	for _, tc := range cases {
		if got := Rate(tc.completed, tc.total); got != tc.want {
			t.Errorf("Rate(%d, %d) = %d, want %d", tc.completed, tc.total, got, tc.want)
		}
	}
}

func TestTasksSummary(t *testing.T) {
	now := day(t, 0)
	tasks := []store.Task{
		task(true, "work", store.PriorityHigh, now),
		task(true, "work", store.PriorityLow, now),
		task(true, "home", store.PriorityMedium, now),
		task(false, "home", store.PriorityMedium, now),
	}

	s := Tasks(tasks)
	if s.Total != 4 || s.Completed != 3 || s.Rate != 75 {
		t.Fatalf("unexpected summary: %+v", s)
	}

	empty := Tasks(nil)
	if empty.Rate != 0 {
		t.Fatalf("empty summary rate = %d, want 0", empty.Rate)
	}
}

func TestGoalsSummary(t *testing.T) {
	goals := []store.Goal{
		{Completed: true},
		{Completed: false},
	}
	s := Goals(goals)
	if s.Total != 2 || s.Completed != 1 || s.Rate != 50 {
		t.Fatalf("unexpected summary: %+v", s)
	}
}

// ============================================================
// Category breakdown
// ============================================================

func TestCategoryBreakdown(t *testing.T) {
	now := day(t, 0)
	tasks := []store.Task{
		task(true, "work", store.PriorityHigh, now),
		task(false, "work", store.PriorityLow, now),
		task(true, "home", store.PriorityMedium, now),
	}

	got := CategoryBreakdown(tasks)
	if len(got) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(got))
	}
	// Sorted by name: home before work.
	if got[0].Category != "home" || got[0].Rate != 100 {
		t.Fatalf("home: %+v", got[0])
	}
	if got[1].Category != "work" || got[1].Total != 2 || got[1].Completed != 1 || got[1].Rate != 50 {
		t.Fatalf("work: %+v", got[1])
	}
}

func TestMinutesByCategory(t *testing.T) {
	now := day(t, 0)
	entries := []store.TimeEntry{
		entry("work", 30, now),
		entry("work", 45, now),
		entry("exercise", 90, now),
		entry("learning", 90, now),
	}

	got := MinutesByCategory(entries)
	if len(got) != 3 {
		t.Fatalf("expected 3 categories, got %d", len(got))
	}
	// Descending minutes, name as tiebreak.
	if got[0].Category != "exercise" || got[0].Minutes != 90 {
		t.Fatalf("first: %+v", got[0])
	}
	if got[1].Category != "learning" {
		t.Fatalf("tiebreak: %+v", got[1])
	}
	if got[2].Category != "work" || got[2].Minutes != 75 {
		t.Fatalf("last: %+v", got[2])
	}
}

// ============================================================
// Time windows
// ============================================================

func TestTrailingMinutes(t *testing.T) {
	now := day(t, 0)
	entries := []store.TimeEntry{
		entry("work", 10, now),            // today
		entry("work", 20, day(t, -6)),     // inside a 7-day window
		entry("work", 40, day(t, -7)),     // outside
		entry("work", 80, day(t, -30)),    // far outside
	}

	if got := TrailingMinutes(entries, 7, now); got != 30 {
		t.Fatalf("7-day window = %d, want 30", got)
	}
	if got := TrailingMinutes(entries, 1, now); got != 10 {
		t.Fatalf("1-day window = %d, want 10", got)
	}
	if got := TrailingMinutes(entries, 0, now); got != 0 {
		t.Fatalf("zero window = %d, want 0", got)
	}
}

func TestWeeklyTrend(t *testing.T) {
	now := day(t, 0)
	tasks := []store.Task{
		task(true, "work", store.PriorityHigh, now),            // today
		task(true, "work", store.PriorityHigh, day(t, -2)),     // two days ago
		task(false, "work", store.PriorityLow, day(t, -2)),     // open, ignored
		task(true, "work", store.PriorityMedium, day(t, -10)),  // outside window
	}
	entries := []store.TimeEntry{
		entry("work", 25, now),
		entry("work", 35, day(t, -6)),
		entry("work", 99, day(t, -8)),
	}

	trend := WeeklyTrend(tasks, entries, now)
	if len(trend) != 7 {
		t.Fatalf("expected 7 days, got %d", len(trend))
	}

	// Oldest first, today last.
	if !trend[0].Day.Before(trend[6].Day) {
		t.Fatal("trend is not oldest-to-newest")
	}
	if trend[6].TasksCompleted != 1 || trend[6].Minutes != 25 {
		t.Fatalf("today: %+v", trend[6])
	}
	if trend[4].TasksCompleted != 1 {
		t.Fatalf("two days ago: %+v", trend[4])
	}
	if trend[0].Minutes != 35 {
		t.Fatalf("oldest day: %+v", trend[0])
	}

	total := 0
	for _, d := range trend {
		total += d.TasksCompleted
	}
	if total != 2 {
		t.Fatalf("window captured %d completions, want 2", total)
	}

	for _, d := range trend {
		if d.Label != d.Day.Format("Mon") {
			t.Fatalf("label %q for %v", d.Label, d.Day)
		}
	}
}

// ============================================================
// Priorities and pomodoros
// ============================================================

func TestPriorityCounts(t *testing.T) {
	now := day(t, 0)
	tasks := []store.Task{
		task(false, "w", store.PriorityHigh, now),
		task(false, "w", store.PriorityHigh, now),
		task(true, "w", store.PriorityLow, now),
	}

	counts := PriorityCounts(tasks)
	if counts[store.PriorityHigh] != 2 || counts[store.PriorityLow] != 1 {
		t.Fatalf("unexpected counts: %v", counts)
	}
	// Every level is present even at zero.
	if _, ok := counts[store.PriorityMedium]; !ok {
		t.Fatal("medium missing from counts")
	}
}

func TestPomodoros(t *testing.T) {
	sessions := []store.PomodoroSession{
		{Type: store.SessionWork, Duration: 25, Completed: true},
		{Type: store.SessionWork, Duration: 25, Completed: true},
		{Type: store.SessionWork, Duration: 25, Completed: false},
		{Type: store.SessionShortBreak, Duration: 5, Completed: true},
	}

	s := Pomodoros(sessions)
	if s.Total != 4 {
		t.Fatalf("total = %d", s.Total)
	}
	if s.CompletedWork != 2 {
		t.Fatalf("completed work = %d, want 2", s.CompletedWork)
	}
	if s.FocusMinutes != 50 {
		t.Fatalf("focus minutes = %d, want 50", s.FocusMinutes)
	}
}
