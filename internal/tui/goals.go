package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/foxhub/foxhub/internal/cache"
	"github.com/foxhub/foxhub/internal/store"
)

var goalCategories = []string{"health", "learning", "career", "finance", "personal", "other"}

type goalsModel struct {
	store   *store.Store
	queries *cache.Queries
	width   int
	height  int

	goals  []store.Goal
	cursor int

	formActive bool
	form       *huh.Form

	formTitle    *string
	formDesc     *string
	formCategory *string
	formTarget   *string
	formUnit     *string
	formDeadline *string
}

func newGoalsModel(s *store.Store, q *cache.Queries) goalsModel {
	title, desc, cat, target, unit, deadline := "", "", goalCategories[0], "", "", ""
	return goalsModel{
		store:        s,
		queries:      q,
		formTitle:    &title,
		formDesc:     &desc,
		formCategory: &cat,
		formTarget:   &target,
		formUnit:     &unit,
		formDeadline: &deadline,
	}
}

func (m *goalsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type goalsDataMsg struct {
	goals []store.Goal
}

func (m goalsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		goals, err := m.queries.Goals(context.Background())
		if err != nil {
			return errMsg(err)
		}
		return goalsDataMsg{goals: goals}
	}
}

func (m goalsModel) update(msg tea.Msg) (goalsModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case goalsDataMsg:
		m.goals = msg.goals
		if m.cursor >= len(m.goals) {
			m.cursor = max(0, len(m.goals)-1)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.goals)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Plus):
			if len(m.goals) > 0 {
				return m, m.adjustProgress(m.goals[m.cursor].ID, 1)
			}
		case key.Matches(msg, keys.Minus):
			if len(m.goals) > 0 {
				return m, m.adjustProgress(m.goals[m.cursor].ID, -1)
			}
		case key.Matches(msg, keys.New):
			return m.openCreate()
		case key.Matches(msg, keys.Delete):
			if len(m.goals) > 0 {
				return m, m.deleteGoal(m.goals[m.cursor].ID)
			}
		}
	}
	return m, nil
}

func (m goalsModel) adjustProgress(id string, delta float64) tea.Cmd {
	return func() tea.Msg {
		_, err := m.store.Goals.Update(context.Background(), id, func(g *store.Goal) {
			g.CurrentValue += delta
			if g.CurrentValue < 0 {
				g.CurrentValue = 0
			}
		})
		if err != nil {
			return errMsg(err)
		}
		return goalsChangedMsg{}
	}
}

func (m goalsModel) deleteGoal(id string) tea.Cmd {
	return func() tea.Msg {
		if err := m.store.Goals.Delete(context.Background(), id); err != nil {
			return errMsg(err)
		}
		return goalsChangedMsg{}
	}
}

func (m goalsModel) openCreate() (goalsModel, tea.Cmd) {
	*m.formTitle = ""
	*m.formDesc = ""
	*m.formCategory = goalCategories[0]
	*m.formTarget = ""
	*m.formUnit = ""
	*m.formDeadline = ""

	catOptions := make([]huh.Option[string], len(goalCategories))
	for i, c := range goalCategories {
		catOptions[i] = huh.NewOption(c, c)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(m.formTitle),
			huh.NewInput().Title("Description").Value(m.formDesc),
			huh.NewSelect[string]().Title("Category").Options(catOptions...).Value(m.formCategory),
			huh.NewInput().Title("Target value").Value(m.formTarget),
			huh.NewInput().Title("Unit (e.g. books, km, hours)").Value(m.formUnit),
			huh.NewInput().Title("Deadline (YYYY-MM-DD, optional)").Value(m.formDeadline),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m goalsModel) updateForm(msg tea.Msg) (goalsModel, tea.Cmd) {
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
		target, _ := strconv.ParseFloat(strings.TrimSpace(*m.formTarget), 64)
		goal := store.Goal{
			Title:       *m.formTitle,
			Description: *m.formDesc,
			Category:    *m.formCategory,
			TargetValue: target,
			Unit:        *m.formUnit,
		}
		if d := strings.TrimSpace(*m.formDeadline); d != "" {
			if t, err := time.ParseInLocation("2006-01-02", d, time.Local); err == nil {
				goal.Deadline = &t
			}
		}
		return m, func() tea.Msg {
			if _, err := m.store.Goals.Create(context.Background(), goal); err != nil {
				return errMsg(err)
			}
			return goalsChangedMsg{}
		}
	}

	return m, cmd
}

func (m goalsModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := titleStyle.Render("New Goal")
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View())
		return panelStyle.Width(w).Render(content)
	}

	title := titleStyle.Render("Goals")
	if len(m.goals) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No goals yet. Press n to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	barWidth := min(w-40, 30)
	if barWidth < 10 {
		barWidth = 10
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for i, g := range m.goals {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}

		name := g.Title
		if g.Completed {
			name = successStyle.Render(g.Title + " ✓")
		}
		rows = append(rows, style.Render(cursor)+name+mutedStyle.Render("  "+g.Category))

		progress := fmt.Sprintf("%.0f/%.0f %s", g.CurrentValue, g.TargetValue, g.Unit)
		line := "    " + renderBar(g.CurrentValue, g.TargetValue, barWidth) + "  " + mutedStyle.Render(progress)
		if g.Deadline != nil {
			line += mutedStyle.Render("  by " + g.Deadline.Format("Jan 02"))
		}
		rows = append(rows, line)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  +/-: progress  n: new  d: delete"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func renderBar(current, target float64, width int) string {
	ratio := 0.0
	if target > 0 {
		ratio = current / target
	}
	if ratio > 1 {
		ratio = 1
	}
	filled := int(ratio * float64(width))
	bar := successStyle.Render(strings.Repeat("█", filled)) +
		mutedStyle.Render(strings.Repeat("░", width-filled))
	return bar
}
