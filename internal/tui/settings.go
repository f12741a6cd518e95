package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/foxhub/foxhub/internal/config"
	"github.com/foxhub/foxhub/internal/export"
	"github.com/foxhub/foxhub/internal/store"
)

type settingsForm int

const (
	settingsFormNone settingsForm = iota
	settingsFormLogin
	settingsFormImport
	settingsFormReset
)

type settingsModel struct {
	store  *store.Store
	cfg    config.Config
	width  int
	height int

	user   *store.User
	cursor int

	formActive bool
	formKind   settingsForm
	form       *huh.Form

	formEmail   *string
	formName    *string
	formPath    *string
	formConfirm *bool
}

var settingsActions = []string{
	"Sign in / switch account",
	"Sign out",
	"Export JSON backup",
	"Export time entries CSV",
	"Import JSON backup",
	"Reset all data",
}

func newSettingsModel(s *store.Store, cfg config.Config) settingsModel {
	email, name, path := "", "", ""
	confirm := false
	return settingsModel{
		store:       s,
		cfg:         cfg,
		formEmail:   &email,
		formName:    &name,
		formPath:    &path,
		formConfirm: &confirm,
	}
}

func (m *settingsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		user, err := m.store.Identity.Current(context.Background())
		if err != nil && !errors.Is(err, store.ErrNoIdentity) {
			return errMsg(err)
		}
		return identityMsg{user: user}
	}
}

func (m settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case identityMsg:
		m.user = msg.user
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(settingsActions)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Enter):
			return m.runAction(m.cursor)
		}
	}
	return m, nil
}

func (m settingsModel) runAction(i int) (settingsModel, tea.Cmd) {
	switch i {
	case 0:
		return m.openLogin()
	case 1:
		return m, m.logout()
	case 2:
		return m, m.exportJSON()
	case 3:
		return m, m.exportCSV()
	case 4:
		return m.openImport()
	case 5:
		return m.openResetConfirm()
	}
	return m, nil
}

func (m settingsModel) openLogin() (settingsModel, tea.Cmd) {
	*m.formEmail = ""
	*m.formName = ""
	if m.user != nil {
		*m.formEmail = m.user.Email
		*m.formName = m.user.Name
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Email").Value(m.formEmail),
			huh.NewInput().Title("Name (optional)").Value(m.formName),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formKind = settingsFormLogin
	m.formActive = true
	return m, m.form.Init()
}

func (m settingsModel) openImport() (settingsModel, tea.Cmd) {
	*m.formPath = export.DefaultPath("json")

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Backup file path").Value(m.formPath),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formKind = settingsFormImport
	m.formActive = true
	return m, m.form.Init()
}

func (m settingsModel) openResetConfirm() (settingsModel, tea.Cmd) {
	*m.formConfirm = false

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Reset all data?").
				Description("Tasks, goals, notes and tracked time will be replaced with starter data.").
				Affirmative("Reset").
				Negative("Cancel").
				Value(m.formConfirm),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formKind = settingsFormReset
	m.formActive = true
	return m, m.form.Init()
}

func (m settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
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
		switch m.formKind {
		case settingsFormLogin:
			return m, m.login(*m.formEmail, *m.formName)
		case settingsFormImport:
			return m, m.importFile(strings.TrimSpace(*m.formPath))
		case settingsFormReset:
			if *m.formConfirm {
				return m, m.reset()
			}
		}
		return m, nil
	}

	return m, cmd
}

func (m settingsModel) login(email, name string) tea.Cmd {
	return func() tea.Msg {
		user, err := m.store.Identity.Login(context.Background(), email, name)
		if err != nil {
			return errMsg(err)
		}
		return identityMsg{user: user}
	}
}

func (m settingsModel) logout() tea.Cmd {
	return func() tea.Msg {
		if err := m.store.Identity.Logout(context.Background()); err != nil {
			return errMsg(err)
		}
		return identityMsg{user: nil}
	}
}

func (m settingsModel) exportJSON() tea.Cmd {
	return func() tea.Msg {
		path := export.DefaultPath("json")
		if err := export.WriteJSON(context.Background(), m.store, path); err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		return exportDoneMsg{path: path}
	}
}

func (m settingsModel) exportCSV() tea.Cmd {
	return func() tea.Msg {
		path := export.DefaultPath("csv")
		if err := export.WriteCSV(context.Background(), m.store, path); err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		return exportDoneMsg{path: path}
	}
}

func (m settingsModel) importFile(path string) tea.Cmd {
	return func() tea.Msg {
		if err := export.Import(context.Background(), m.store, path); err != nil {
			var formatErr *export.ImportFormatError
			if errors.As(err, &formatErr) {
				return statusMsg{text: fmt.Sprintf("Not a valid backup: %v", formatErr.Err), isError: true}
			}
			return statusMsg{text: fmt.Sprintf("Import error: %v", err), isError: true}
		}
		return importDoneMsg{path: path}
	}
}

func (m settingsModel) reset() tea.Cmd {
	return func() tea.Msg {
		if err := m.store.Reset(context.Background()); err != nil {
			return statusMsg{text: fmt.Sprintf("Reset error: %v", err), isError: true}
		}
		return resetDoneMsg{}
	}
}

func (m settingsModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		var title string
		switch m.formKind {
		case settingsFormLogin:
			title = titleStyle.Render("Sign In")
		case settingsFormImport:
			title = titleStyle.Render("Import Backup")
		case settingsFormReset:
			title = titleStyle.Render("Reset")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View())
		return panelStyle.Width(w).Render(content)
	}

	account := m.renderAccount(w)

	var rows []string
	rows = append(rows, titleStyle.Render("Settings"))
	rows = append(rows, "")
	for i, action := range settingsActions {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+action))
	}
	rows = append(rows, "")
	rows = append(rows, subtitleStyle.Render(fmt.Sprintf("  Pomodoro: %dm work, %dm/%dm breaks, %d per cycle",
		m.cfg.Pomodoro.Work, m.cfg.Pomodoro.ShortBreak, m.cfg.Pomodoro.LongBreak, m.cfg.Pomodoro.Target)))
	rows = append(rows, subtitleStyle.Render("  Data: "+m.cfg.DataDir+" ("+m.cfg.Backend+")"))
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: run action"))

	actions := panelStyle.Width(w).Render(strings.Join(rows, "\n"))
	return lipgloss.JoinVertical(lipgloss.Left, account, actions)
}

func (m settingsModel) renderAccount(w int) string {
	title := titleStyle.Render("Account")
	var body string
	if m.user == nil {
		body = mutedStyle.Render("Not signed in")
	} else {
		body = highlightStyle.Render(m.user.Name) + mutedStyle.Render("  "+m.user.Email) +
			subtitleStyle.Render("  since "+m.user.CreatedAt.Format("Jan 2006"))
	}
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, title, body))
}
