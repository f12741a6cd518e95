package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/foxhub/foxhub/internal/cache"
	"github.com/foxhub/foxhub/internal/store"
)

var taskCategories = []string{"work", "personal", "health", "learning", "home", "other"}

type tasksModel struct {
	store   *store.Store
	queries *cache.Queries
	width   int
	height  int

	tasks  []store.Task
	cursor int

	formActive bool
	form       *huh.Form
	editingID  string

	// Form field pointers (survive value copies)
	formTitle    *string
	formDesc     *string
	formPriority *string
	formCategory *string
	formDue      *string
	formTags     *string
}

func newTasksModel(s *store.Store, q *cache.Queries) tasksModel {
	title, desc, prio, cat, due, tags := "", "", string(store.PriorityMedium), taskCategories[0], "", ""
	return tasksModel{
		store:        s,
		queries:      q,
		formTitle:    &title,
		formDesc:     &desc,
		formPriority: &prio,
		formCategory: &cat,
		formDue:      &due,
		formTags:     &tags,
	}
}

func (m *tasksModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type tasksDataMsg struct {
	tasks []store.Task
}

func (m tasksModel) refresh() tea.Cmd {
	return func() tea.Msg {
		tasks, err := m.queries.Tasks(context.Background())
		if err != nil {
			return errMsg(err)
		}
		return tasksDataMsg{tasks: tasks}
	}
}

func (m tasksModel) update(msg tea.Msg) (tasksModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tasksDataMsg:
		m.tasks = msg.tasks
		if m.cursor >= len(m.tasks) {
			m.cursor = max(0, len(m.tasks)-1)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.tasks)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Toggle), key.Matches(msg, keys.Enter):
			if len(m.tasks) > 0 {
				return m, m.toggleComplete(m.tasks[m.cursor].ID)
			}
		case key.Matches(msg, keys.New):
			return m.openCreate()
		case key.Matches(msg, keys.Edit):
			if len(m.tasks) > 0 {
				return m.openEdit(m.tasks[m.cursor])
			}
		case key.Matches(msg, keys.Delete):
			if len(m.tasks) > 0 {
				return m, m.deleteTask(m.tasks[m.cursor].ID)
			}
		}
	}
	return m, nil
}

func (m tasksModel) toggleComplete(id string) tea.Cmd {
	return func() tea.Msg {
		_, err := m.store.Tasks.Update(context.Background(), id, func(t *store.Task) {
			t.Completed = !t.Completed
		})
		if err != nil {
			return errMsg(err)
		}
		return tasksChangedMsg{}
	}
}

func (m tasksModel) deleteTask(id string) tea.Cmd {
	return func() tea.Msg {
		if err := m.store.Tasks.Delete(context.Background(), id); err != nil {
			return errMsg(err)
		}
		return tasksChangedMsg{}
	}
}

func (m tasksModel) openCreate() (tasksModel, tea.Cmd) {
	m.editingID = ""
	*m.formTitle = ""
	*m.formDesc = ""
	*m.formPriority = string(store.PriorityMedium)
	*m.formCategory = taskCategories[0]
	*m.formDue = ""
	*m.formTags = ""
	return m.openForm()
}

func (m tasksModel) openEdit(t store.Task) (tasksModel, tea.Cmd) {
	m.editingID = t.ID
	*m.formTitle = t.Title
	*m.formDesc = t.Description
	*m.formPriority = string(t.Priority)
	*m.formCategory = t.Category
	*m.formDue = ""
	if t.DueDate != nil {
		*m.formDue = t.DueDate.Format("2006-01-02")
	}
	*m.formTags = strings.Join(t.Tags, ", ")
	return m.openForm()
}

func (m tasksModel) openForm() (tasksModel, tea.Cmd) {
	catOptions := make([]huh.Option[string], len(taskCategories))
	for i, c := range taskCategories {
		catOptions[i] = huh.NewOption(c, c)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(m.formTitle),
			huh.NewInput().Title("Description").Value(m.formDesc),
			huh.NewSelect[string]().Title("Priority").
				Options(
					huh.NewOption("Low", string(store.PriorityLow)),
					huh.NewOption("Medium", string(store.PriorityMedium)),
					huh.NewOption("High", string(store.PriorityHigh)),
				).Value(m.formPriority),
			huh.NewSelect[string]().Title("Category").Options(catOptions...).Value(m.formCategory),
			huh.NewInput().Title("Due date (YYYY-MM-DD, optional)").Value(m.formDue),
			huh.NewInput().Title("Tags (comma-separated)").Value(m.formTags),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m tasksModel) updateForm(msg tea.Msg) (tasksModel, tea.Cmd) {
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
		task := store.Task{
			Title:       *m.formTitle,
			Description: *m.formDesc,
			Priority:    store.Priority(*m.formPriority),
			Category:    *m.formCategory,
			Tags:        splitTags(*m.formTags),
		}
		if due := strings.TrimSpace(*m.formDue); due != "" {
			if t, err := time.ParseInLocation("2006-01-02", due, time.Local); err == nil {
				task.DueDate = &t
			}
		}
		if m.editingID != "" {
			return m, m.submitEdit(m.editingID, task)
		}
		return m, func() tea.Msg {
			if _, err := m.store.Tasks.Create(context.Background(), task); err != nil {
				return errMsg(err)
			}
			return tasksChangedMsg{}
		}
	}

	return m, cmd
}

func (m tasksModel) submitEdit(id string, fields store.Task) tea.Cmd {
	return func() tea.Msg {
		_, err := m.store.Tasks.Update(context.Background(), id, func(t *store.Task) {
			t.Title = fields.Title
			t.Description = fields.Description
			t.Priority = fields.Priority
			t.Category = fields.Category
			t.Tags = fields.Tags
			t.DueDate = fields.DueDate
		})
		if err != nil {
			return errMsg(err)
		}
		return tasksChangedMsg{}
	}
}

func splitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func (m tasksModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		heading := "New Task"
		if m.editingID != "" {
			heading = "Edit Task"
		}
		title := titleStyle.Render(heading)
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View())
		return panelStyle.Width(w).Render(content)
	}

	done := 0
	for _, t := range m.tasks {
		if t.Completed {
			done++
		}
	}
	title := titleStyle.Render("Tasks") + "  " +
		mutedStyle.Render(fmt.Sprintf("%d/%d done", done, len(m.tasks)))

	if len(m.tasks) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No tasks yet. Press n to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for i, t := range m.tasks {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}

		check := "☐"
		titleText := t.Title
		if t.Completed {
			check = successStyle.Render("✓")
			titleText = mutedStyle.Render(t.Title)
		}

		row := style.Render(cursor) + check + " " + titleText +
			"  " + priorityBadge(t.Priority) +
			mutedStyle.Render(" "+t.Category)

		if len(t.Subtasks) > 0 {
			subDone := 0
			for _, st := range t.Subtasks {
				if st.Completed {
					subDone++
				}
			}
			row += mutedStyle.Render(fmt.Sprintf("  [%d/%d]", subDone, len(t.Subtasks)))
		}
		if t.DueDate != nil {
			due := t.DueDate.Format("Jan 02")
			if t.DueDate.Before(time.Now()) && !t.Completed {
				row += errorStyle.Render("  due " + due)
			} else {
				row += mutedStyle.Render("  due " + due)
			}
		}
		rows = append(rows, row)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  space: toggle  n: new  e: edit  d: delete"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func priorityBadge(p store.Priority) string {
	switch p {
	case store.PriorityHigh:
		return errorStyle.Render("●" + string(p))
	case store.PriorityMedium:
		return warningStyle.Render("●" + string(p))
	default:
		return mutedStyle.Render("●" + string(p))
	}
}
