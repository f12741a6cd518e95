package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/foxhub/foxhub/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewTasks
	viewGoals
	viewNotes
	viewCalendar
	viewTracker
	viewAnalytics
	viewSettings
)

var viewNames = []string{"Dashboard", "Tasks", "Goals", "Notes", "Calendar", "Tracker", "Analytics", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type timerStartedMsg struct{}

type timerStoppedMsg struct {
	entry *store.TimeEntry
}

type tasksChangedMsg struct{}
type goalsChangedMsg struct{}
type notesChangedMsg struct{}
type entriesChangedMsg struct{}

type exportDoneMsg struct {
	path string
}

type importDoneMsg struct {
	path string
}

type resetDoneMsg struct{}

type identityMsg struct {
	user *store.User
}

// gotoViewMsg switches the root model to a view (command palette intents).
type gotoViewMsg struct {
	view    viewState
	andThen paletteIntent
}

// --- Helpers ---

func formatClock(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func formatMinutes(mins int) string {
	h := mins / 60
	m := mins % 60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %02dm", h, m)
}

func status(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}

func errMsg(err error) tea.Msg {
	return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
}

// truncate cuts s to at most n runes, appending an ellipsis when shortened.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}
