package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/foxhub/foxhub/internal/cache"
	"github.com/foxhub/foxhub/internal/stats"
	"github.com/foxhub/foxhub/internal/store"
)

type trendMode int

const (
	trendTasks trendMode = iota
	trendMinutes
)

type analyticsModel struct {
	queries *cache.Queries
	width   int
	height  int

	mode     trendMode
	tasks    []store.Task
	entries  []store.TimeEntry
	sessions []store.PomodoroSession
	trend    []stats.DayStat

	chart barchart.Model
}

func newAnalyticsModel(q *cache.Queries) analyticsModel {
	return analyticsModel{
		queries: q,
		chart:   barchart.New(60, 12),
	}
}

func (a *analyticsModel) setSize(w, h int) {
	a.width = w
	a.height = h
}

type analyticsDataMsg struct {
	tasks    []store.Task
	entries  []store.TimeEntry
	sessions []store.PomodoroSession
}

func (a analyticsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		tasks, err := a.queries.Tasks(ctx)
		if err != nil {
			return errMsg(err)
		}
		entries, err := a.queries.Entries(ctx)
		if err != nil {
			return errMsg(err)
		}
		sessions, _ := a.queries.Sessions(ctx)
		return analyticsDataMsg{tasks: tasks, entries: entries, sessions: sessions}
	}
}

func (a analyticsModel) update(msg tea.Msg) (analyticsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case analyticsDataMsg:
		a.tasks = msg.tasks
		a.entries = msg.entries
		a.sessions = msg.sessions
		a.trend = stats.WeeklyTrend(a.tasks, a.entries, time.Now())
		a.buildChart()
		return a, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Left) || key.Matches(msg, keys.Right) {
			if a.mode == trendTasks {
				a.mode = trendMinutes
			} else {
				a.mode = trendTasks
			}
			a.buildChart()
			return a, nil
		}
	}
	return a, nil
}

func (a *analyticsModel) buildChart() {
	chartWidth := a.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 10
	if a.height > 30 {
		chartHeight = 14
	}

	a.chart = barchart.New(chartWidth, chartHeight)

	var bars []barchart.BarData
	for _, day := range a.trend {
		value := float64(day.TasksCompleted)
		style := lipgloss.NewStyle().Foreground(colorPrimary)
		if a.mode == trendMinutes {
			value = float64(day.Minutes)
			style = lipgloss.NewStyle().Foreground(colorSecondary)
		}
		bars = append(bars, barchart.BarData{
			Label: day.Label,
			Values: []barchart.BarValue{
				{Name: day.Label, Value: value, Style: style},
			},
		})
	}

	a.chart.PushAll(bars)
	a.chart.Draw()
}

func (a analyticsModel) view() string {
	w := a.width - 4

	tasksTab := inactiveTabStyle.Render("Tasks")
	minutesTab := inactiveTabStyle.Render("Time")
	if a.mode == trendTasks {
		tasksTab = activeTabStyle.Render("Tasks")
	} else {
		minutesTab = activeTabStyle.Render("Time")
	}
	modeTabs := lipgloss.JoinHorizontal(lipgloss.Bottom, tasksTab, minutesTab)

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Last 7 Days"), "  ", modeTabs,
	)

	chartView := a.chart.View()

	summary := a.renderSummary()
	categories := a.renderCategories(w)
	tracked := a.renderTracked(w)
	priorities := a.renderPriorities()

	nav := mutedStyle.Render("  ←/→: switch chart")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", chartView, "", summary, "", categories, "", tracked, "", priorities, "", nav,
		),
	)
}

func (a analyticsModel) renderSummary() string {
	now := time.Now()
	taskSummary := stats.Tasks(a.tasks)
	week := stats.TrailingMinutes(a.entries, 7, now)
	pomo := stats.Pomodoros(a.sessions)

	return "  " + strings.Join([]string{
		fmt.Sprintf("completion %s", highlightStyle.Render(fmt.Sprintf("%d%%", taskSummary.Rate))),
		fmt.Sprintf("tracked this week %s", highlightStyle.Render(formatMinutes(week))),
		fmt.Sprintf("focus sessions %s", highlightStyle.Render(fmt.Sprintf("%d", pomo.CompletedWork))),
	}, "   ·   ")
}

func (a analyticsModel) renderCategories(w int) string {
	breakdown := stats.CategoryBreakdown(a.tasks)
	if len(breakdown) == 0 {
		return mutedStyle.Render("  No tasks yet")
	}

	var rows []string
	rows = append(rows, subtitleStyle.Render("  Tasks by category"))
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-14s %10s %10s %8s", "Category", "Done", "Total", "Rate")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 46))))
	for _, c := range breakdown {
		rows = append(rows, fmt.Sprintf("  %-14s %10d %10d %7d%%", c.Category, c.Completed, c.Total, c.Rate))
	}
	return strings.Join(rows, "\n")
}

func (a analyticsModel) renderTracked(w int) string {
	byCategory := stats.MinutesByCategory(a.entries)
	if len(byCategory) == 0 {
		return mutedStyle.Render("  No time tracked yet")
	}

	var rows []string
	rows = append(rows, subtitleStyle.Render("  Time by category"))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 46))))
	for _, c := range byCategory {
		rows = append(rows, fmt.Sprintf("  %-14s %s", c.Category, formatMinutes(c.Minutes)))
	}
	return strings.Join(rows, "\n")
}

func (a analyticsModel) renderPriorities() string {
	counts := stats.PriorityCounts(a.tasks)

	segment := func(p store.Priority, style lipgloss.Style) string {
		return style.Render(fmt.Sprintf("%s %d", p, counts[p]))
	}

	return "  " + subtitleStyle.Render("By priority:  ") +
		segment(store.PriorityHigh, errorStyle) + "   " +
		segment(store.PriorityMedium, warningStyle) + "   " +
		segment(store.PriorityLow, mutedStyle)
}
