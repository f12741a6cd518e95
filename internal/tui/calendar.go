package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/foxhub/foxhub/internal/cache"
	"github.com/foxhub/foxhub/internal/store"
)

// calendarModel is the month view: a grid of days with tasks bucketed
// by due date, plus a list of everything due in the displayed month.
type calendarModel struct {
	queries *cache.Queries
	width   int
	height  int

	month time.Time // first day of the displayed month
	tasks []store.Task
}

func newCalendarModel(q *cache.Queries) calendarModel {
	now := time.Now()
	return calendarModel{
		queries: q,
		month:   time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local),
	}
}

func (m *calendarModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type calendarDataMsg struct {
	tasks []store.Task
}

func (m calendarModel) refresh() tea.Cmd {
	return func() tea.Msg {
		tasks, err := m.queries.Tasks(context.Background())
		if err != nil {
			return errMsg(err)
		}
		return calendarDataMsg{tasks: tasks}
	}
}

func (m calendarModel) update(msg tea.Msg) (calendarModel, tea.Cmd) {
	switch msg := msg.(type) {
	case calendarDataMsg:
		m.tasks = msg.tasks
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			m.month = m.month.AddDate(0, -1, 0)
		case key.Matches(msg, keys.Right):
			m.month = m.month.AddDate(0, 1, 0)
		case key.Matches(msg, keys.Back):
			now := time.Now()
			m.month = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local)
		}
	}
	return m, nil
}

// dueByDay buckets tasks by due day within the displayed month.
func (m calendarModel) dueByDay() map[int][]store.Task {
	byDay := make(map[int][]store.Task)
	for _, t := range m.tasks {
		if t.DueDate == nil {
			continue
		}
		d := t.DueDate.Local()
		if d.Year() == m.month.Year() && d.Month() == m.month.Month() {
			byDay[d.Day()] = append(byDay[d.Day()], t)
		}
	}
	return byDay
}

func (m calendarModel) view() string {
	w := m.width - 4
	byDay := m.dueByDay()

	title := titleStyle.Render(m.month.Format("January 2006"))
	grid := m.renderGrid(byDay)
	due := m.renderDueList(byDay)
	nav := mutedStyle.Render("  ←/→: change month  esc: current month")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, "", grid, "", due, "", nav),
	)
}

func (m calendarModel) renderGrid(byDay map[int][]store.Task) string {
	var rows []string
	var header strings.Builder
	for _, wd := range []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"} {
		fmt.Fprintf(&header, " %-4s", wd)
	}
	rows = append(rows, mutedStyle.Render(header.String()))

	now := time.Now()
	daysIn := m.month.AddDate(0, 1, -1).Day()
	// Monday-first column for the 1st of the month.
	offset := (int(m.month.Weekday()) + 6) % 7

	var cells []string
	for i := 0; i < offset; i++ {
		cells = append(cells, "     ")
	}
	for day := 1; day <= daysIn; day++ {
		style := normalItemStyle
		if now.Year() == m.month.Year() && now.Month() == m.month.Month() && now.Day() == day {
			style = selectedItemStyle
		}
		cell := style.Render(fmt.Sprintf(" %2d", day))
		if len(byDay[day]) > 0 {
			cell += accentStyle.Render("• ")
		} else {
			cell += "  "
		}
		cells = append(cells, cell)
		if len(cells) == 7 {
			rows = append(rows, strings.Join(cells, ""))
			cells = nil
		}
	}
	if len(cells) > 0 {
		rows = append(rows, strings.Join(cells, ""))
	}

	return strings.Join(rows, "\n")
}

func (m calendarModel) renderDueList(byDay map[int][]store.Task) string {
	days := make([]int, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Ints(days)

	if len(days) == 0 {
		return mutedStyle.Render("  Nothing due this month")
	}

	var rows []string
	rows = append(rows, subtitleStyle.Render("  Due this month"))
	shown := 0
	total := 0
	for _, d := range days {
		total += len(byDay[d])
	}
	for _, d := range days {
		for _, t := range byDay[d] {
			if shown == 10 {
				rows = append(rows, mutedStyle.Render(fmt.Sprintf("  …and %d more", total-shown)))
				return strings.Join(rows, "\n")
			}
			check := "☐"
			titleText := t.Title
			if t.Completed {
				check = successStyle.Render("✓")
				titleText = mutedStyle.Render(t.Title)
			}
			when := m.month.AddDate(0, 0, d-1).Format("Jan 02")
			rows = append(rows, "  "+mutedStyle.Render(when)+"  "+check+" "+titleText+"  "+priorityBadge(t.Priority))
			shown++
		}
	}
	return strings.Join(rows, "\n")
}
