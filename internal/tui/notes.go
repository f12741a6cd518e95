package tui

import (
	"context"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/foxhub/foxhub/internal/cache"
	"github.com/foxhub/foxhub/internal/store"
)

var noteCategories = []string{"general", "work", "ideas", "personal", "learning"}

type notesModel struct {
	store   *store.Store
	queries *cache.Queries
	width   int
	height  int

	notes   []store.Note
	cursor  int
	reading bool

	formActive bool
	form       *huh.Form

	formTitle    *string
	formContent  *string
	formCategory *string
	formTags     *string
}

func newNotesModel(s *store.Store, q *cache.Queries) notesModel {
	title, content, cat, tags := "", "", noteCategories[0], ""
	return notesModel{
		store:        s,
		queries:      q,
		formTitle:    &title,
		formContent:  &content,
		formCategory: &cat,
		formTags:     &tags,
	}
}

func (m *notesModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type notesDataMsg struct {
	notes []store.Note
}

func (m notesModel) refresh() tea.Cmd {
	return func() tea.Msg {
		notes, err := m.queries.Notes(context.Background())
		if err != nil {
			return errMsg(err)
		}
		// Pinned notes float to the top, newest first within each group.
		sorted := make([]store.Note, len(notes))
		copy(sorted, notes)
		sort.SliceStable(sorted, func(i, j int) bool {
			if sorted[i].IsPinned != sorted[j].IsPinned {
				return sorted[i].IsPinned
			}
			return sorted[i].UpdatedAt.After(sorted[j].UpdatedAt)
		})
		return notesDataMsg{notes: sorted}
	}
}

func (m notesModel) update(msg tea.Msg) (notesModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case notesDataMsg:
		m.notes = msg.notes
		if m.cursor >= len(m.notes) {
			m.cursor = max(0, len(m.notes)-1)
		}
		return m, nil

	case tea.KeyMsg:
		if m.reading {
			if key.Matches(msg, keys.Back) {
				m.reading = false
			}
			return m, nil
		}
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.notes)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Enter):
			if len(m.notes) > 0 {
				m.reading = true
			}
		case key.Matches(msg, keys.Pin):
			if len(m.notes) > 0 {
				return m, m.togglePin(m.notes[m.cursor].ID)
			}
		case key.Matches(msg, keys.New):
			return m.openCreate()
		case key.Matches(msg, keys.Delete):
			if len(m.notes) > 0 {
				return m, m.deleteNote(m.notes[m.cursor].ID)
			}
		}
	}
	return m, nil
}

func (m notesModel) togglePin(id string) tea.Cmd {
	return func() tea.Msg {
		_, err := m.store.Notes.Update(context.Background(), id, func(n *store.Note) {
			n.IsPinned = !n.IsPinned
		})
		if err != nil {
			return errMsg(err)
		}
		return notesChangedMsg{}
	}
}

func (m notesModel) deleteNote(id string) tea.Cmd {
	return func() tea.Msg {
		if err := m.store.Notes.Delete(context.Background(), id); err != nil {
			return errMsg(err)
		}
		return notesChangedMsg{}
	}
}

func (m notesModel) openCreate() (notesModel, tea.Cmd) {
	*m.formTitle = ""
	*m.formContent = ""
	*m.formCategory = noteCategories[0]
	*m.formTags = ""

	catOptions := make([]huh.Option[string], len(noteCategories))
	for i, c := range noteCategories {
		catOptions[i] = huh.NewOption(c, c)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(m.formTitle),
			huh.NewText().Title("Content").Value(m.formContent),
			huh.NewSelect[string]().Title("Category").Options(catOptions...).Value(m.formCategory),
			huh.NewInput().Title("Tags (comma-separated)").Value(m.formTags),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m notesModel) updateForm(msg tea.Msg) (notesModel, tea.Cmd) {
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
		note := store.Note{
			Title:    *m.formTitle,
			Content:  *m.formContent,
			Category: *m.formCategory,
			Tags:     splitTags(*m.formTags),
		}
		return m, func() tea.Msg {
			if _, err := m.store.Notes.Create(context.Background(), note); err != nil {
				return errMsg(err)
			}
			return notesChangedMsg{}
		}
	}

	return m, cmd
}

func (m notesModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := titleStyle.Render("New Note")
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View())
		return panelStyle.Width(w).Render(content)
	}

	if m.reading && m.cursor < len(m.notes) {
		return m.renderReader(w)
	}

	title := titleStyle.Render("Notes")
	if len(m.notes) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No notes yet. Press n to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for i, n := range m.notes {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}

		pin := "  "
		if n.IsPinned {
			pin = accentStyle.Render("📌")
		}

		preview, _, _ := strings.Cut(n.Content, "\n")
		preview = truncate(preview, 40)

		row := style.Render(cursor) + pin + " " + n.Title +
			mutedStyle.Render("  "+n.Category) +
			subtitleStyle.Render("  "+preview)
		rows = append(rows, row)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: read  *: pin  n: new  d: delete"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (m notesModel) renderReader(w int) string {
	n := m.notes[m.cursor]

	title := titleStyle.Render(n.Title)
	meta := mutedStyle.Render(n.Category + "  ·  " + n.UpdatedAt.Format("Jan 02, 2006 15:04"))
	if len(n.Tags) > 0 {
		meta += mutedStyle.Render("  [" + strings.Join(n.Tags, ", ") + "]")
	}

	body := lipgloss.NewStyle().Width(w - 6).Render(n.Content)

	return activePanelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title, meta, "", body, "",
			mutedStyle.Render("esc: back"),
		),
	)
}
