package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/foxhub/foxhub/internal/cache"
	"github.com/foxhub/foxhub/internal/stats"
	"github.com/foxhub/foxhub/internal/store"
)

type dashboardModel struct {
	queries *cache.Queries
	width   int
	height  int

	tasks    []store.Task
	goals    []store.Goal
	notes    []store.Note
	entries  []store.TimeEntry
	sessions []store.PomodoroSession
}

func newDashboardModel(q *cache.Queries) dashboardModel {
	return dashboardModel{queries: q}
}

func (d dashboardModel) Init() tea.Cmd {
	return d.loadData()
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

type dashboardDataMsg struct {
	tasks    []store.Task
	goals    []store.Goal
	notes    []store.Note
	entries  []store.TimeEntry
	sessions []store.PomodoroSession
}

func (d dashboardModel) loadData() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		tasks, _ := d.queries.Tasks(ctx)
		goals, _ := d.queries.Goals(ctx)
		notes, _ := d.queries.Notes(ctx)
		entries, _ := d.queries.Entries(ctx)
		sessions, _ := d.queries.Sessions(ctx)
		return dashboardDataMsg{
			tasks:    tasks,
			goals:    goals,
			notes:    notes,
			entries:  entries,
			sessions: sessions,
		}
	}
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	if msg, ok := msg.(dashboardDataMsg); ok {
		d.tasks = msg.tasks
		d.goals = msg.goals
		d.notes = msg.notes
		d.entries = msg.entries
		d.sessions = msg.sessions
	}
	return d, nil
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}
	w := d.width - 4

	cards := d.renderCards(w)
	tasksPanel := d.renderTasksPanel(w)
	bottom := d.renderBottomRow(w)

	return lipgloss.JoinVertical(lipgloss.Left, cards, tasksPanel, bottom)
}

func (d dashboardModel) renderCards(w int) string {
	now := time.Now()
	taskSummary := stats.Tasks(d.tasks)
	goalSummary := stats.Goals(d.goals)
	todayMinutes := stats.TrailingMinutes(d.entries, 1, now)
	pomo := stats.Pomodoros(d.sessions)

	cardW := (w - 6) / 4
	if cardW < 14 {
		cardW = 14
	}

	card := func(label, value string) string {
		return panelStyle.Width(cardW).Render(
			lipgloss.JoinVertical(lipgloss.Left,
				subtitleStyle.Render(label),
				titleStyle.Render(value),
			),
		)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		card("Tasks done", fmt.Sprintf("%d%%  (%d/%d)", taskSummary.Rate, taskSummary.Completed, taskSummary.Total)),
		card("Goals hit", fmt.Sprintf("%d/%d", goalSummary.Completed, goalSummary.Total)),
		card("Tracked today", formatMinutes(todayMinutes)),
		card("Focus sessions", fmt.Sprintf("%d  (%s)", pomo.CompletedWork, formatMinutes(pomo.FocusMinutes))),
	)
}

func (d dashboardModel) renderTasksPanel(w int) string {
	title := titleStyle.Render("Up Next")

	var open []store.Task
	for _, t := range d.tasks {
		if !t.Completed {
			open = append(open, t)
		}
	}

	if len(open) == 0 {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, successStyle.Render("All tasks done 🎉")),
		)
	}

	var rows []string
	rows = append(rows, title)
	limit := min(len(open), 5)
	for i := 0; i < limit; i++ {
		t := open[i]
		row := "  ☐ " + t.Title + "  " + priorityBadge(t.Priority)
		if t.DueDate != nil {
			row += mutedStyle.Render("  due " + t.DueDate.Format("Jan 02"))
		}
		rows = append(rows, row)
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dashboardModel) renderBottomRow(w int) string {
	third := (w - 3) / 3
	return lipgloss.JoinHorizontal(lipgloss.Top,
		d.renderGoalsPanel(third),
		d.renderNotesPanel(third),
		d.renderActivityPanel(third),
	)
}

func (d dashboardModel) renderGoalsPanel(w int) string {
	title := titleStyle.Render("Goals")
	if len(d.goals) == 0 {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, mutedStyle.Render("No goals yet")),
		)
	}

	barWidth := min(w-20, 20)
	if barWidth < 8 {
		barWidth = 8
	}

	var rows []string
	rows = append(rows, title)
	limit := min(len(d.goals), 4)
	for i := 0; i < limit; i++ {
		g := d.goals[i]
		rows = append(rows, "  "+g.Title)
		rows = append(rows, "  "+renderBar(g.CurrentValue, g.TargetValue, barWidth)+
			mutedStyle.Render(fmt.Sprintf("  %.0f/%.0f %s", g.CurrentValue, g.TargetValue, g.Unit)))
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dashboardModel) renderNotesPanel(w int) string {
	title := titleStyle.Render("Pinned Notes")

	var pinned []store.Note
	for _, n := range d.notes {
		if n.IsPinned {
			pinned = append(pinned, n)
		}
	}

	if len(pinned) == 0 {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, mutedStyle.Render("Nothing pinned")),
		)
	}

	var rows []string
	rows = append(rows, title)
	limit := min(len(pinned), 4)
	for i := 0; i < limit; i++ {
		n := pinned[i]
		preview, _, _ := strings.Cut(n.Content, "\n")
		preview = truncate(preview, 32)
		rows = append(rows, "  "+accentStyle.Render("📌")+" "+n.Title+subtitleStyle.Render("  "+preview))
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

// activityItem is one line of the recent-activity feed.
type activityItem struct {
	kind  string
	label string
	when  time.Time
}

// recentActivity merges the newest records across all record kinds,
// newest first. Tasks and notes surface by last update, entries and
// goals by creation.
func recentActivity(tasks []store.Task, goals []store.Goal, notes []store.Note, entries []store.TimeEntry, limit int) []activityItem {
	var items []activityItem
	for _, t := range tasks {
		items = append(items, activityItem{kind: "task", label: t.Title, when: t.UpdatedAt})
	}
	for _, g := range goals {
		items = append(items, activityItem{kind: "goal", label: g.Title, when: g.CreatedAt})
	}
	for _, n := range notes {
		items = append(items, activityItem{kind: "note", label: n.Title, when: n.UpdatedAt})
	}
	for _, e := range entries {
		items = append(items, activityItem{kind: "entry", label: e.Description, when: e.CreatedAt})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].when.After(items[j].when)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

func (d dashboardModel) renderActivityPanel(w int) string {
	title := titleStyle.Render("Recent Activity")

	items := recentActivity(d.tasks, d.goals, d.notes, d.entries, 6)
	if len(items) == 0 {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, mutedStyle.Render("No activity yet")),
		)
	}

	icons := map[string]string{"task": "☐", "goal": "◎", "note": "✎", "entry": "⏱"}

	var rows []string
	rows = append(rows, title)
	for _, it := range items {
		rows = append(rows, "  "+accentStyle.Render(icons[it.kind])+" "+
			truncate(it.label, 22)+
			mutedStyle.Render("  "+it.when.Local().Format("Jan 02 15:04")))
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
