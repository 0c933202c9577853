package view

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/stockroom/internal/auth"
)

type LoggedInMsg struct {
	Session Session
}

type LoginModel struct {
	CommonModel
	authService *auth.Service

	form   *huh.Form
	creds  *credentials
	status string
}

type credentials struct {
	username string
	password string
}

func NewLoginModel(svc *auth.Service) LoginModel {
	creds := &credentials{}

	return LoginModel{
		authService: svc,
		creds:       creds,
		form:        loginForm(creds),
	}
}

func loginForm(creds *credentials) *huh.Form {
	creds.password = ""

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Value(&creds.username),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&creds.password),
		),
	).WithWidth(40).WithShowHelp(false)
}

func (m LoginModel) Title() string     { return "Sign in" }
func (m LoginModel) ShortHelp() string { return "Enter: next | Ctrl+C: quit" }

func (m LoginModel) Init() tea.Cmd {
	return m.form.Init()
}

type loginResultMsg struct {
	user *auth.User
	err  error
}

func (m LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if res, ok := msg.(loginResultMsg); ok {
		if res.err != nil {
			if errors.Is(res.err, auth.ErrInvalidCredentials) {
				m.status = "Invalid username or password"
			} else {
				m.status = fmt.Sprintf("Error: %v", res.err)
			}

			m.form = loginForm(m.creds)

			return m, m.form.Init()
		}

		return m, func() tea.Msg { return LoggedInMsg{Session: Session{User: *res.user}} }
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.loginCmd(m.creds.username, m.creds.password)
}

func (m LoginModel) loginCmd(username, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		user, err := m.authService.Login(ctx, username, password)

		return loginResultMsg{user: user, err: err}
	}
}

func (m LoginModel) View() string {
	content := titleStyle.Render("Stockroom") + "\n\n" + m.form.View()
	if m.status != "" {
		content += "\n" + errStyle.Render(m.status)
	}

	return lipgloss.NewStyle().Padding(2).Render(content)
}
