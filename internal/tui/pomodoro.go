package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/foxhub/foxhub/internal/config"
	"github.com/foxhub/foxhub/internal/store"
)

type pomodoroPhase int

const (
	pomodoroIdle pomodoroPhase = iota
	pomodoroWork
	pomodoroShortBreak
	pomodoroLongBreak
	pomodoroCompleted
)

// pomodoroModel runs the work/break cycle and records one session per
// finished or cancelled phase.
type pomodoroModel struct {
	store *store.Store
	cfg   config.PomodoroConfig

	phase          pomodoroPhase
	completedCount int

	remaining  time.Duration
	phaseStart time.Time
	phaseEnd   time.Time
}

func newPomodoroModel(s *store.Store, cfg config.PomodoroConfig) pomodoroModel {
	return pomodoroModel{
		store: s,
		cfg:   cfg,
		phase: pomodoroIdle,
	}
}

func (p pomodoroModel) active() bool {
	return p.phase == pomodoroWork || p.phase == pomodoroShortBreak || p.phase == pomodoroLongBreak
}

func (p pomodoroModel) update(msg tea.Msg) (pomodoroModel, tea.Cmd) {
	if _, ok := msg.(tickMsg); ok && p.active() {
		p.remaining = time.Until(p.phaseEnd)
		if p.remaining <= 0 {
			return p.advancePhase()
		}
	}
	return p, nil
}

func (p pomodoroModel) start() (pomodoroModel, tea.Cmd) {
	p.completedCount = 0
	return p.enterPhase(pomodoroWork)
}

func (p pomodoroModel) enterPhase(phase pomodoroPhase) (pomodoroModel, tea.Cmd) {
	p.phase = phase
	d := p.phaseDuration(phase)
	p.remaining = d
	p.phaseStart = time.Now()
	p.phaseEnd = p.phaseStart.Add(d)
	return p, nil
}

func (p pomodoroModel) phaseDuration(phase pomodoroPhase) time.Duration {
	switch phase {
	case pomodoroShortBreak:
		return time.Duration(p.cfg.ShortBreak) * time.Minute
	case pomodoroLongBreak:
		return time.Duration(p.cfg.LongBreak) * time.Minute
	default:
		return time.Duration(p.cfg.Work) * time.Minute
	}
}

func (p pomodoroModel) sessionType(phase pomodoroPhase) store.SessionType {
	switch phase {
	case pomodoroShortBreak:
		return store.SessionShortBreak
	case pomodoroLongBreak:
		return store.SessionLongBreak
	default:
		return store.SessionWork
	}
}

func (p pomodoroModel) recordPhase(phase pomodoroPhase, started time.Time, completed bool) tea.Cmd {
	kind := p.sessionType(phase)
	minutes := int(p.phaseDuration(phase) / time.Minute)
	return func() tea.Msg {
		now := time.Now()
		_, err := p.store.Sessions.Create(context.Background(), store.PomodoroSession{
			Type:      kind,
			Duration:  minutes,
			Completed: completed,
			StartTime: started,
			EndTime:   &now,
		})
		if err != nil {
			return errMsg(err)
		}
		return nil
	}
}

func (p pomodoroModel) advancePhase() (pomodoroModel, tea.Cmd) {
	record := p.recordPhase(p.phase, p.phaseStart, true)

	switch p.phase {
	case pomodoroWork:
		p.completedCount++
		// The break after the last work phase of a cycle is the long one.
		next := pomodoroShortBreak
		if p.completedCount%p.cfg.Target == 0 {
			next = pomodoroLongBreak
		}
		p, _ = p.enterPhase(next)
		return p, tea.Batch(record, status("Break time! \a"))

	case pomodoroShortBreak:
		p, _ = p.enterPhase(pomodoroWork)
		return p, record

	case pomodoroLongBreak:
		p.phase = pomodoroCompleted
		return p, tea.Batch(record, status("Pomodoro session complete! \a"))
	}
	return p, nil
}

// skipBreak ends the current break early and jumps back to work.
func (p pomodoroModel) skipBreak() (pomodoroModel, tea.Cmd) {
	if p.phase != pomodoroShortBreak && p.phase != pomodoroLongBreak {
		return p, nil
	}
	record := p.recordPhase(p.phase, p.phaseStart, false)
	p, _ = p.enterPhase(pomodoroWork)
	return p, record
}

func (p pomodoroModel) cancel() (pomodoroModel, tea.Cmd) {
	if !p.active() {
		p.phase = pomodoroIdle
		return p, nil
	}
	record := p.recordPhase(p.phase, p.phaseStart, false)
	p.phase = pomodoroIdle
	p.remaining = 0
	return p, tea.Batch(record, status("Pomodoro cancelled"))
}

func (p pomodoroModel) view(w int) string {
	var timeDisplay, phaseLabel, hint string

	switch p.phase {
	case pomodoroIdle:
		timeDisplay = timerStyle.Width(w - 6).Render(formatPomodoroTime(p.phaseDuration(pomodoroWork)))
		phaseLabel = mutedStyle.Render("Ready to focus")
		hint = mutedStyle.Render("p: start pomodoro")
	case pomodoroWork:
		timeDisplay = accentStyle.Bold(true).Width(w - 6).Align(lipgloss.Center).Render(formatPomodoroTime(p.remaining))
		phaseLabel = accentStyle.Bold(true).Render("FOCUS")
		hint = mutedStyle.Render("x: cancel")
	case pomodoroShortBreak:
		timeDisplay = timerBreakStyle.Width(w - 6).Render(formatPomodoroTime(p.remaining))
		phaseLabel = successStyle.Bold(true).Render("SHORT BREAK")
		hint = mutedStyle.Render("space: skip break  x: cancel")
	case pomodoroLongBreak:
		timeDisplay = timerBreakStyle.Width(w - 6).Render(formatPomodoroTime(p.remaining))
		phaseLabel = highlightStyle.Bold(true).Render("LONG BREAK")
		hint = mutedStyle.Render("space: skip break  x: cancel")
	case pomodoroCompleted:
		timeDisplay = successStyle.Bold(true).Width(w - 6).Align(lipgloss.Center).Render("Done!")
		phaseLabel = successStyle.Bold(true).Render("SESSION COMPLETE")
		hint = mutedStyle.Render("p: start again")
	}

	return lipgloss.JoinVertical(lipgloss.Center,
		timeDisplay,
		phaseLabel,
		"",
		p.renderProgress(),
		"",
		hint,
	)
}

func (p pomodoroModel) renderProgress() string {
	var parts []string
	for i := 0; i < p.cfg.Target; i++ {
		switch {
		case i < p.completedCount:
			parts = append(parts, successStyle.Render("●"))
		case i == p.completedCount && p.phase == pomodoroWork:
			parts = append(parts, accentStyle.Render("◐"))
		default:
			parts = append(parts, mutedStyle.Render("○"))
		}
	}
	progress := strings.Join(parts, " ")
	counter := mutedStyle.Render(fmt.Sprintf("  %d/%d", p.completedCount, p.cfg.Target))
	return progress + counter
}

func formatPomodoroTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", m, s)
}
