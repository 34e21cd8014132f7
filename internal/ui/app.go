package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/tmx/internal/services"
)

const appTitle = "Task and User Manager"

// Pane identifies the focused half of the [App].
type Pane int

const (
	UsersPane Pane = iota
	TasksPane
)

// pane is the contract shared by the two list components.
type pane interface {
	Init() tea.Cmd
	Update(tea.Msg) tea.Cmd
	View() string
	SetSize(width, height int)
	Capturing() bool
	Close()
}

var (
	_ pane      = (*UserList)(nil)
	_ pane      = (*TaskList)(nil)
	_ tea.Model = (*App)(nil)
)

// App is the root view: a header over the user and task panes.
type App struct {
	users  *UserList
	tasks  *TaskList
	active Pane
	keys   keyMap
	help   help.Model
	logger *log.Logger
	width  int
	height int
}

// NewApp creates the root model. Both panes are mounted by Init.
func NewApp(ctx context.Context, client services.Client, logger *log.Logger) *App {
	logger = orDiscard(logger)
	return &App{
		users:  NewUserList(ctx, client, logger),
		tasks:  NewTaskList(ctx, client, logger),
		active: UsersPane,
		keys:   newKeyMap(),
		help:   help.New(),
		logger: logger,
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.users.Init(), a.tasks.Init())
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		paneH := (msg.Height - 8) / 2
		a.users.SetSize(msg.Width-6, paneH)
		a.tasks.SetSize(msg.Width-6, paneH)
		return a, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return a, a.quit()
		}

		focused := a.focused()
		if !focused.Capturing() {
			switch {
			case key.Matches(msg, a.keys.quit):
				return a, a.quit()
			case key.Matches(msg, a.keys.pane):
				a.toggle()
				return a, nil
			}
		}
		return a, focused.Update(msg)
	}

	return a, tea.Batch(a.users.Update(msg), a.tasks.Update(msg))
}

func (a *App) focused() pane {
	if a.active == TasksPane {
		return a.tasks
	}
	return a.users
}

func (a *App) toggle() {
	if a.active == UsersPane {
		a.active = TasksPane
	} else {
		a.active = UsersPane
	}
	a.logger.Debug("switched pane", "pane", a.active)
}

// Active returns the focused pane.
func (a *App) Active() Pane { return a.active }

func (a *App) quit() tea.Cmd {
	a.users.Close()
	a.tasks.Close()
	return tea.Quit
}

func (a *App) View() string {
	render := func(p Pane, body string) string {
		if p == a.active {
			return styles.active.Render(body)
		}
		return styles.pane.Render(body)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		styles.title.Render(appTitle),
		render(UsersPane, a.users.View()),
		render(TasksPane, a.tasks.View()),
		a.help.ShortHelpView(a.keys.ShortHelp()),
	)
}
