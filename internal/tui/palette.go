package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// paletteIntent is an action carried alongside a view switch, so the
// target view can open a form or start a timer right after it gains focus.
type paletteIntent int

const (
	intentNone paletteIntent = iota
	intentNewTask
	intentNewGoal
	intentNewNote
	intentStartTimer
	intentStartPomodoro
	intentExportJSON
	intentExportCSV
	intentReset
)

type paletteCommand struct {
	name   string
	view   viewState
	intent paletteIntent
}

var paletteCommands = []paletteCommand{
	{name: "New Task", view: viewTasks, intent: intentNewTask},
	{name: "New Goal", view: viewGoals, intent: intentNewGoal},
	{name: "New Note", view: viewNotes, intent: intentNewNote},
	{name: "Start Timer", view: viewTracker, intent: intentStartTimer},
	{name: "Start Pomodoro", view: viewTracker, intent: intentStartPomodoro},
	{name: "Go to Dashboard", view: viewDashboard},
	{name: "Go to Tasks", view: viewTasks},
	{name: "Go to Goals", view: viewGoals},
	{name: "Go to Notes", view: viewNotes},
	{name: "Go to Calendar", view: viewCalendar},
	{name: "Go to Tracker", view: viewTracker},
	{name: "Go to Analytics", view: viewAnalytics},
	{name: "Go to Settings", view: viewSettings},
	{name: "Export JSON Backup", view: viewSettings, intent: intentExportJSON},
	{name: "Export Time Entries CSV", view: viewSettings, intent: intentExportCSV},
	{name: "Reset All Data", view: viewSettings, intent: intentReset},
}

func (a App) updatePalette(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.paletteCursor > 0 {
			a.paletteCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.paletteCursor < len(paletteCommands)-1 {
			a.paletteCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.paletteOpen = false
		cmd := paletteCommands[a.paletteCursor]
		return a, func() tea.Msg {
			return gotoViewMsg{view: cmd.view, andThen: cmd.intent}
		}
	case key.Matches(msg, keys.Back), key.Matches(msg, keys.Palette):
		a.paletteOpen = false
	}
	return a, nil
}

func (a App) renderPalette(_ int) string {
	title := titleStyle.Render("Commands")
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, c := range paletteCommands {
		cursor := "  "
		style := normalItemStyle
		if i == a.paletteCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+c.name))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  ↑/↓: move  enter: run  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
