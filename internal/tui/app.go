package tui

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/foxhub/foxhub/internal/cache"
	"github.com/foxhub/foxhub/internal/config"
	"github.com/foxhub/foxhub/internal/store"
)

// Deps carries everything the TUI needs. Wired once in main.
type Deps struct {
	Store   *store.Store
	Queries *cache.Queries
	Cache   *cache.Cache
	Config  config.Config
	Log     *slog.Logger
}

// App is the root Bubble Tea model.
type App struct {
	deps   Deps
	width  int
	height int

	activeView    viewState
	showHelp      bool
	paletteOpen   bool
	paletteCursor int

	dashboard dashboardModel
	tasks     tasksModel
	goals     goalsModel
	notes     notesModel
	calendar  calendarModel
	tracker   trackerModel
	analytics analyticsModel
	settings  settingsModel

	help        help.Model
	status      string
	statusError bool
}

func NewApp(d Deps) App {
	h := help.New()
	h.ShowAll = false

	return App{
		deps:       d,
		activeView: viewDashboard,
		dashboard:  newDashboardModel(d.Queries),
		tasks:      newTasksModel(d.Store, d.Queries),
		goals:      newGoalsModel(d.Store, d.Queries),
		notes:      newNotesModel(d.Store, d.Queries),
		calendar:   newCalendarModel(d.Queries),
		tracker:    newTrackerModel(d.Store, d.Queries, d.Config.Pomodoro),
		analytics:  newAnalyticsModel(d.Queries),
		settings:   newSettingsModel(d.Store, d.Config),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.dashboard.Init(),
		a.settings.refresh(),
		tickCmd(),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		contentHeight := a.height - 4
		a.dashboard.setSize(a.width, contentHeight)
		a.tasks.setSize(a.width, contentHeight)
		a.goals.setSize(a.width, contentHeight)
		a.notes.setSize(a.width, contentHeight)
		a.calendar.setSize(a.width, contentHeight)
		a.tracker.setSize(a.width, contentHeight)
		a.analytics.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if a.paletteOpen {
			return a.updatePalette(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Palette):
			a.paletteOpen = true
			a.paletteCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			return a.switchView(viewDashboard)
		case key.Matches(msg, keys.Tab2):
			return a.switchView(viewTasks)
		case key.Matches(msg, keys.Tab3):
			return a.switchView(viewGoals)
		case key.Matches(msg, keys.Tab4):
			return a.switchView(viewNotes)
		case key.Matches(msg, keys.Tab5):
			return a.switchView(viewCalendar)
		case key.Matches(msg, keys.Tab6):
			return a.switchView(viewTracker)
		case key.Matches(msg, keys.Tab7):
			return a.switchView(viewAnalytics)
		case key.Matches(msg, keys.Tab8):
			return a.switchView(viewSettings)
		case key.Matches(msg, keys.Tab):
			return a.switchView((a.activeView + 1) % viewState(len(viewNames)))
		}

	case tickMsg:
		cmds = append(cmds, tickCmd())
		// Ticks always reach the tracker so timers keep counting off-view.
		var cmd tea.Cmd
		a.tracker, cmd = a.tracker.update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)

	case gotoViewMsg:
		return a.applyIntent(msg)

	case statusMsg:
		a.status = msg.text
		a.statusError = msg.isError
		if msg.isError {
			a.deps.Log.Warn("operation failed", "message", msg.text)
		}
		return a, nil

	case timerStartedMsg:
		a.status = "Timer started"
		a.statusError = false
		return a, nil

	case timerStoppedMsg:
		a.status = "Logged " + formatMinutes(msg.entry.Duration)
		a.statusError = false
		return a, tea.Batch(a.tracker.refresh(), a.dashboard.loadData())

	case tasksChangedMsg:
		return a, tea.Batch(a.tasks.refresh(), a.dashboard.loadData(), a.calendar.refresh(), a.analytics.refresh())

	case goalsChangedMsg:
		return a, tea.Batch(a.goals.refresh(), a.dashboard.loadData())

	case notesChangedMsg:
		return a, tea.Batch(a.notes.refresh(), a.dashboard.loadData())

	case entriesChangedMsg:
		return a, tea.Batch(a.tracker.refresh(), a.dashboard.loadData(), a.analytics.refresh())

	case identityMsg:
		var cmd tea.Cmd
		a.settings, cmd = a.settings.update(msg)
		return a, cmd

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.statusError = false
		return a, nil

	case importDoneMsg:
		a.deps.Cache.InvalidateAll()
		a.status = "Imported " + msg.path
		a.statusError = false
		return a, a.refreshAll()

	case resetDoneMsg:
		a.deps.Cache.InvalidateAll()
		a.status = "All data reset"
		a.statusError = false
		return a, a.refreshAll()
	}

	return a.updateActiveView(msg)
}

func (a App) switchView(v viewState) (tea.Model, tea.Cmd) {
	a.activeView = v
	return a, a.refreshView(v)
}

func (a App) applyIntent(msg gotoViewMsg) (tea.Model, tea.Cmd) {
	a.activeView = msg.view
	refresh := a.refreshView(msg.view)

	var cmd tea.Cmd
	switch msg.andThen {
	case intentNewTask:
		a.tasks, cmd = a.tasks.openCreate()
	case intentNewGoal:
		a.goals, cmd = a.goals.openCreate()
	case intentNewNote:
		a.notes, cmd = a.notes.openCreate()
	case intentStartTimer:
		a.tracker, cmd = a.tracker.openStart()
	case intentStartPomodoro:
		a.tracker, cmd = a.tracker.startPomodoro()
	case intentExportJSON:
		cmd = a.settings.exportJSON()
	case intentExportCSV:
		cmd = a.settings.exportCSV()
	case intentReset:
		a.settings, cmd = a.settings.openResetConfirm()
	}
	return a, tea.Batch(refresh, cmd)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.update(msg)
	case viewTasks:
		a.tasks, cmd = a.tasks.update(msg)
	case viewGoals:
		a.goals, cmd = a.goals.update(msg)
	case viewNotes:
		a.notes, cmd = a.notes.update(msg)
	case viewCalendar:
		a.calendar, cmd = a.calendar.update(msg)
	case viewTracker:
		a.tracker, cmd = a.tracker.update(msg)
	case viewAnalytics:
		a.analytics, cmd = a.analytics.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewTasks:
		return a.tasks.formActive
	case viewGoals:
		return a.goals.formActive
	case viewNotes:
		return a.notes.formActive
	case viewTracker:
		return a.tracker.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshView(v viewState) tea.Cmd {
	switch v {
	case viewDashboard:
		return a.dashboard.loadData()
	case viewTasks:
		return a.tasks.refresh()
	case viewGoals:
		return a.goals.refresh()
	case viewNotes:
		return a.notes.refresh()
	case viewCalendar:
		return a.calendar.refresh()
	case viewTracker:
		return a.tracker.refresh()
	case viewAnalytics:
		return a.analytics.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) refreshAll() tea.Cmd {
	return tea.Batch(
		a.dashboard.loadData(),
		a.tasks.refresh(),
		a.goals.refresh(),
		a.notes.refresh(),
		a.calendar.refresh(),
		a.tracker.refresh(),
		a.analytics.refresh(),
		a.settings.refresh(),
	)
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewDashboard:
		content = a.dashboard.view()
	case viewTasks:
		content = a.tasks.view()
	case viewGoals:
		content = a.goals.view()
	case viewNotes:
		content = a.notes.view()
	case viewCalendar:
		content = a.calendar.view()
	case viewTracker:
		content = a.tracker.view()
	case viewAnalytics:
		content = a.analytics.view()
	case viewSettings:
		content = a.settings.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.paletteOpen {
		content = a.renderPalette(contentHeight)
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("foxhub")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		if a.statusError {
			status = errorStyle.Render(" " + a.status)
		} else {
			status = mutedStyle.Render(" " + a.status)
		}
	}

	// Timer and pomodoro indicators stay visible on every view.
	indicator := ""
	if a.tracker.timerRunning() {
		elapsed := a.tracker.elapsed()
		indicator = successStyle.Render(" ● " + formatClock(elapsed))
		if a.tracker.timerPaused() {
			indicator = warningStyle.Render(" ⏸ " + formatClock(elapsed))
		}
	}
	if a.tracker.pomodoroActive() {
		indicator += accentStyle.Render(" 🍅 " + formatPomodoroTime(a.tracker.pomodoroLeft()))
	}

	left := footerStyle.Render(helpView)
	right := indicator + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}
