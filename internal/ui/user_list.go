package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/tmx/internal/models"
	"github.com/desertthunder/tmx/internal/services"
)

const (
	errUsersLoad  = "Failed to load users"
	errUserDelete = "Unable to delete user"
	userActions   = "e edit · d delete"
)

// UserList owns the user collection, the user form and the delete confirmation dialog.
//
// Saves are merged into the collection from the response without re-fetching.
type UserList struct {
	life   lifetime
	client services.UserClient
	logger *log.Logger
	keys   keyMap
	help   help.Model

	users     models.Collection[models.User]
	table     table.Model
	loading   bool
	requested bool
	err       string

	form     *UserForm
	pending  *models.User // delete target while the confirmation dialog is open
	deleting bool         // request for pending is in flight
}

func NewUserList(ctx context.Context, client services.UserClient, logger *log.Logger) *UserList {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Username", Width: 20},
			{Title: "Email", Width: 30},
			{Title: "Actions", Width: 18},
		}),
		table.WithFocused(true),
		table.WithHeight(10),
		table.WithWidth(74),
	)

	return &UserList{
		life:    newLifetime(ctx),
		client:  client,
		logger:  orDiscard(logger),
		keys:    newKeyMap(),
		help:    help.New(),
		users:   models.NewCollection[models.User](nil),
		table:   t,
		loading: true,
	}
}

func (u *UserList) Init() tea.Cmd {
	if u.requested {
		return nil
	}
	u.requested = true

	mount, ctx, client := u.life.id, u.life.ctx, u.client
	return func() tea.Msg {
		users, err := client.ListUsers(ctx)
		return usersFetchedMsg{mount: mount, users: users, err: err}
	}
}

func (u *UserList) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case usersFetchedMsg:
		if !u.life.owns(msg.mount) {
			return nil
		}
		u.loading = false
		if msg.err != nil {
			u.logger.Error("error fetching users", "error", msg.err)
			u.err = errUsersLoad
			return nil
		}
		u.users = models.NewCollection(msg.users)
		u.syncRows()
		return nil

	case userDeletedMsg:
		if !u.life.owns(msg.mount) {
			return nil
		}
		u.pending = nil
		u.deleting = false
		if msg.err != nil {
			u.logger.Error("error deleting user", "error", msg.err, "id", msg.id)
			u.err = errUserDelete
			return nil
		}
		u.users = u.users.Remove(msg.id)
		u.err = ""
		u.syncRows()
		return nil

	case tea.KeyMsg:
		return u.handleKeys(msg)
	}

	if u.form != nil {
		return u.form.Update(msg)
	}
	return nil
}

func (u *UserList) handleKeys(msg tea.KeyMsg) tea.Cmd {
	if u.pending != nil {
		switch {
		case key.Matches(msg, u.keys.yes):
			return u.ConfirmDelete()
		case key.Matches(msg, u.keys.no):
			u.CancelDelete()
		}
		return nil
	}

	if u.form != nil {
		if key.Matches(msg, u.keys.back) {
			return u.closeForm()
		}
		return u.form.Update(msg)
	}

	if u.loading {
		return nil
	}

	switch {
	case key.Matches(msg, u.keys.add):
		return u.openForm(nil)
	case key.Matches(msg, u.keys.edit):
		if user, ok := u.selected(); ok {
			return u.openForm(&user)
		}
		return nil
	case key.Matches(msg, u.keys.remove):
		if user, ok := u.selected(); ok {
			u.RequestDelete(user)
		}
		return nil
	}

	var cmd tea.Cmd
	u.table, cmd = u.table.Update(msg)
	return cmd
}

func (u *UserList) selected() (models.User, bool) {
	items := u.users.Items()
	i := u.table.Cursor()
	if i < 0 || i >= len(items) {
		return models.User{}, false
	}
	return items[i], true
}

func (u *UserList) openForm(user *models.User) tea.Cmd {
	u.closeForm()
	u.form = NewUserForm(u.life.ctx, u.client, u.logger, UserFormProps{
		User:    user,
		OnSave:  u.handleSave,
		OnClose: u.closeForm,
	})
	return u.form.Init()
}

func (u *UserList) closeForm() tea.Cmd {
	if u.form != nil {
		u.form.Close()
		u.form = nil
	}
	return nil
}

// handleSave merges a saved user: an existing id is replaced in place, a new one is appended.
func (u *UserList) handleSave(user models.User) tea.Cmd {
	u.users = u.users.Upsert(user)
	u.err = ""
	u.syncRows()
	return u.closeForm()
}

// RequestDelete opens the confirmation dialog for user.
func (u *UserList) RequestDelete(user models.User) {
	u.pending = &user
}

// CancelDelete closes the confirmation dialog without a request. It has no effect once the request is sent.
func (u *UserList) CancelDelete() {
	if u.deleting {
		return
	}
	u.pending = nil
}

// ConfirmDelete issues the delete request for the pending target.
func (u *UserList) ConfirmDelete() tea.Cmd {
	if u.pending == nil || u.deleting {
		return nil
	}
	u.deleting = true

	id := u.pending.ID
	mount, ctx, client := u.life.id, u.life.ctx, u.client
	return func() tea.Msg {
		err := client.DeleteUser(ctx, id)
		return userDeletedMsg{mount: mount, id: id, err: err}
	}
}

func (u *UserList) syncRows() {
	users := u.users.Items()
	rows := make([]table.Row, len(users))
	for i, user := range users {
		rows[i] = table.Row{user.Username, user.Email, userActions}
	}
	u.table.SetRows(rows)
	if c := u.table.Cursor(); c >= len(rows) && len(rows) > 0 {
		u.table.SetCursor(len(rows) - 1)
	}
}

// Users returns the current collection snapshot.
func (u *UserList) Users() models.Collection[models.User] { return u.users }

// Capturing reports whether the form or the confirmation dialog is consuming keys.
func (u *UserList) Capturing() bool { return u.form != nil || u.pending != nil }

func (u *UserList) SetSize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	u.table.SetWidth(width)
	u.table.SetHeight(height)
}

func (u *UserList) Close() {
	u.closeForm()
	u.life.close()
}

func (u *UserList) View() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("Users"))
	b.WriteString("\n")

	if u.loading {
		b.WriteString(styles.help.Render("Loading users..."))
		return b.String()
	}

	if u.err != "" {
		b.WriteString(styles.err.Render(u.err) + "\n\n")
	}

	if u.pending != nil {
		actions := styles.err.Render("[y] Yes, Delete") + "  " + styles.help.Render("[n] Cancel")
		if u.deleting {
			actions = styles.help.Render("[ Deleting... ]")
		}
		dialog := fmt.Sprintf("Are you sure you want to delete %s?\n\n%s", u.pending.Username, actions)
		b.WriteString(styles.modal.Render(dialog) + "\n\n")
	}

	if u.form != nil {
		b.WriteString(u.form.View())
		return b.String()
	}

	b.WriteString(u.table.View() + "\n\n")
	b.WriteString(u.help.ShortHelpView([]key.Binding{u.keys.add, u.keys.edit, u.keys.remove}))
	return b.String()
}
