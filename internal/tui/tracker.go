package tui

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/foxhub/foxhub/internal/cache"
	"github.com/foxhub/foxhub/internal/config"
	"github.com/foxhub/foxhub/internal/store"
)

var entryCategories = []string{"work", "personal", "learning", "exercise", "other"}

// trackerModel is the time tracking view: a manual stopwatch on the left,
// the pomodoro cycle on the right, recent entries below.
type trackerModel struct {
	store   *store.Store
	queries *cache.Queries
	width   int
	height  int

	timer    timerModel
	pomodoro pomodoroModel

	entries []store.TimeEntry
	cursor  int

	formActive bool
	form       *huh.Form

	formDesc     *string
	formCategory *string
}

func newTrackerModel(s *store.Store, q *cache.Queries, cfg config.PomodoroConfig) trackerModel {
	desc, cat := "", entryCategories[0]
	return trackerModel{
		store:        s,
		queries:      q,
		timer:        newTimerModel(),
		pomodoro:     newPomodoroModel(s, cfg),
		formDesc:     &desc,
		formCategory: &cat,
	}
}

func (m *trackerModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m trackerModel) timerRunning() bool { return m.timer.running() }

func (m trackerModel) timerPaused() bool { return m.timer.paused() }

func (m trackerModel) elapsed() time.Duration { return m.timer.currentElapsed() }

func (m trackerModel) pomodoroActive() bool { return m.pomodoro.active() }

func (m trackerModel) pomodoroLeft() time.Duration { return m.pomodoro.remaining }

type trackerDataMsg struct {
	entries []store.TimeEntry
}

func (m trackerModel) refresh() tea.Cmd {
	return func() tea.Msg {
		entries, err := m.queries.Entries(context.Background())
		if err != nil {
			return errMsg(err)
		}
		return trackerDataMsg{entries: entries}
	}
}

func (m trackerModel) update(msg tea.Msg) (trackerModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case trackerDataMsg:
		m.entries = msg.entries
		if m.cursor >= len(m.entries) {
			m.cursor = max(0, len(m.entries)-1)
		}
		return m, nil

	case tickMsg:
		m.timer.tick()
		var cmd tea.Cmd
		m.pomodoro, cmd = m.pomodoro.update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Start):
			if !m.timer.running() {
				return m.openStart()
			}
		case key.Matches(msg, keys.Stop):
			if m.timer.running() {
				return m.stopTimer()
			}
			if m.pomodoro.active() {
				var cmd tea.Cmd
				m.pomodoro, cmd = m.pomodoro.cancel()
				return m, cmd
			}
		case key.Matches(msg, keys.Toggle):
			if m.pomodoro.phase == pomodoroShortBreak || m.pomodoro.phase == pomodoroLongBreak {
				var cmd tea.Cmd
				m.pomodoro, cmd = m.pomodoro.skipBreak()
				return m, cmd
			}
			if m.timer.running() {
				m.timer.toggle()
			}
		case key.Matches(msg, keys.Pomodoro):
			if !m.pomodoro.active() {
				return m.startPomodoro()
			}
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.entries)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Delete):
			if len(m.entries) > 0 {
				return m, m.deleteEntry(m.entries[m.cursor].ID)
			}
		}
	}
	return m, nil
}

func (m trackerModel) openStart() (trackerModel, tea.Cmd) {
	*m.formDesc = ""
	*m.formCategory = entryCategories[0]

	catOptions := make([]huh.Option[string], len(entryCategories))
	for i, c := range entryCategories {
		catOptions[i] = huh.NewOption(c, c)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("What are you working on?").Value(m.formDesc),
			huh.NewSelect[string]().Title("Category").Options(catOptions...).Value(m.formCategory),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m trackerModel) startPomodoro() (trackerModel, tea.Cmd) {
	var cmd tea.Cmd
	m.pomodoro, cmd = m.pomodoro.start()
	return m, tea.Batch(cmd, status("Pomodoro started"))
}

func (m trackerModel) updateForm(msg tea.Msg) (trackerModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		m.timer.start(*m.formDesc, *m.formCategory)
		return m, func() tea.Msg { return timerStartedMsg{} }
	}

	return m, cmd
}

func (m trackerModel) stopTimer() (trackerModel, tea.Cmd) {
	desc, category := m.timer.description, m.timer.category
	start, elapsed := m.timer.stop()

	minutes := int(math.Round(elapsed.Minutes()))
	if minutes < 1 {
		minutes = 1
	}
	end := start.Add(elapsed)

	return m, func() tea.Msg {
		entry, err := m.store.Entries.Create(context.Background(), store.TimeEntry{
			Description: desc,
			Category:    category,
			StartTime:   start,
			EndTime:     &end,
			Duration:    minutes,
		})
		if err != nil {
			return errMsg(err)
		}
		return timerStoppedMsg{entry: &entry}
	}
}

func (m trackerModel) deleteEntry(id string) tea.Cmd {
	return func() tea.Msg {
		if err := m.store.Entries.Delete(context.Background(), id); err != nil {
			return errMsg(err)
		}
		return entriesChangedMsg{}
	}
}

func (m trackerModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := titleStyle.Render("Start Timer")
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View())
		return panelStyle.Width(w).Render(content)
	}

	half := (w - 4) / 2
	timerPanel := m.renderTimerPanel(half)
	pomodoroPanel := panelStyle.Width(half).Render(
		lipgloss.JoinVertical(lipgloss.Center,
			titleStyle.Render("Pomodoro"),
			"",
			m.pomodoro.view(half),
		),
	)

	top := lipgloss.JoinHorizontal(lipgloss.Top, timerPanel, pomodoroPanel)
	entries := m.renderEntries(w)

	return lipgloss.JoinVertical(lipgloss.Left, top, entries)
}

func (m trackerModel) renderTimerPanel(w int) string {
	var timeDisplay, indicator, detail string

	if m.timer.running() {
		timeStr := formatClock(m.timer.currentElapsed())
		if m.timer.paused() {
			timeDisplay = timerStyle.Foreground(colorWarning).Width(w - 6).Render(timeStr)
			indicator = warningStyle.Render("⏸  PAUSED")
		} else {
			timeDisplay = timerRunningStyle.Width(w - 6).Render(timeStr)
			indicator = successStyle.Render("●  RUNNING")
		}
		detail = highlightStyle.Render(m.timer.description) +
			mutedStyle.Render("  "+m.timer.category)
	} else {
		timeDisplay = timerStyle.Width(w - 6).Render("00:00:00")
		indicator = mutedStyle.Render("■  STOPPED")
		detail = mutedStyle.Render("s: start tracking")
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render("Timer"),
		"",
		timeDisplay,
		indicator,
		detail,
	)

	if m.timer.running() {
		return activePanelStyle.Width(w).Render(content)
	}
	return panelStyle.Width(w).Render(content)
}

func (m trackerModel) renderEntries(w int) string {
	title := titleStyle.Render("Recent Entries")
	if len(m.entries) == 0 {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, mutedStyle.Render("No entries yet")),
		)
	}

	var rows []string
	rows = append(rows, title)
	limit := min(len(m.entries), 8)
	for i := 0; i < limit; i++ {
		e := m.entries[i]
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		when := e.StartTime.Local().Format("Jan 02 15:04")
		row := style.Render(cursor) +
			fmt.Sprintf("%s  %-28s", when, e.Description) +
			mutedStyle.Render(e.Category) + "  " +
			highlightStyle.Render(formatMinutes(e.Duration))
		rows = append(rows, row)
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  s: timer  p: pomodoro  x: stop  d: delete entry"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
