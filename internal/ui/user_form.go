package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/tmx/internal/models"
	"github.com/desertthunder/tmx/internal/services"
)

const (
	errUsernameRequired = "Username is required."
	errEmailRequired    = "Email is required."
	errPasswordRequired = "Password is required."
	errUserSave         = "An error occurred while saving the user."
)

// UserFormProps configures a [UserForm]. A nil User puts the form in create mode.
type UserFormProps struct {
	User    *models.User
	OnSave  func(models.User) tea.Cmd
	OnClose func() tea.Cmd
}

// UserForm creates or edits a user.
//
// The password input only exists in create mode; edit mode never renders or sends one.
type UserForm struct {
	life   lifetime
	client services.UserClient
	logger *log.Logger
	keys   keyMap
	help   help.Model

	user    *models.User
	onSave  func(models.User) tea.Cmd
	onClose func() tea.Cmd

	inputs     []textinput.Model // username, email and, in create mode, password
	focus      int               // index into inputs; len(inputs) is the submit button
	errors     []string
	submitting bool
}

func NewUserForm(ctx context.Context, client services.UserClient, logger *log.Logger, props UserFormProps) *UserForm {
	f := &UserForm{
		life:    newLifetime(ctx),
		client:  client,
		logger:  orDiscard(logger),
		keys:    newKeyMap(),
		help:    help.New(),
		onSave:  props.OnSave,
		onClose: props.OnClose,
	}
	f.reset(props.User)
	return f
}

func newInput(placeholder string) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = 120
	in.Width = 40
	return in
}

// reset rebuilds the draft from u, switching mode to match.
func (f *UserForm) reset(u *models.User) {
	f.user = u
	f.errors = nil
	f.focus = 0

	username, email := newInput("Username"), newInput("Email")
	f.inputs = []textinput.Model{username, email}
	if u != nil {
		f.inputs[0].SetValue(u.Username)
		f.inputs[1].SetValue(u.Email)
	} else {
		password := newInput("Password")
		password.EchoMode = textinput.EchoPassword
		password.EchoCharacter = '•'
		f.inputs = append(f.inputs, password)
	}
	f.inputs[0].Focus()
}

// SetUser tracks the externally supplied entity. The draft resets only when the reference changes.
func (f *UserForm) SetUser(u *models.User) {
	if u == nil || u == f.user {
		return
	}
	f.reset(u)
}

func (f *UserForm) editing() bool { return f.user != nil }

func (f *UserForm) Init() tea.Cmd {
	return textinput.Blink
}

func (f *UserForm) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case userSavedMsg:
		if !f.life.owns(msg.mount) {
			return nil
		}
		return f.handleSaved(msg)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, f.keys.submit):
			return f.Submit()
		case key.Matches(msg, f.keys.next), msg.Type == tea.KeyDown:
			return f.setFocus(f.focus + 1)
		case key.Matches(msg, f.keys.prev), msg.Type == tea.KeyUp:
			return f.setFocus(f.focus - 1)
		case msg.Type == tea.KeyEnter:
			if f.focus == len(f.inputs) {
				return f.Submit()
			}
			return f.setFocus(f.focus + 1)
		}
	}

	if f.focus < len(f.inputs) {
		var cmd tea.Cmd
		f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
		return cmd
	}
	return nil
}

func (f *UserForm) setFocus(i int) tea.Cmd {
	n := len(f.inputs) + 1
	f.focus = (i + n) % n

	var cmd tea.Cmd
	for j := range f.inputs {
		if j == f.focus {
			cmd = f.inputs[j].Focus()
			continue
		}
		f.inputs[j].Blur()
	}
	return cmd
}

func (f *UserForm) value(i int) string {
	if i >= len(f.inputs) {
		return ""
	}
	return f.inputs[i].Value()
}

// Validate lists every violated rule in field order.
func (f *UserForm) Validate() []string {
	var errs []string
	if f.value(0) == "" {
		errs = append(errs, errUsernameRequired)
	}
	if f.value(1) == "" {
		errs = append(errs, errEmailRequired)
	}
	if !f.editing() && f.value(2) == "" {
		errs = append(errs, errPasswordRequired)
	}
	return errs
}

// Submit validates the draft and, when it is valid, issues the create or update request.
func (f *UserForm) Submit() tea.Cmd {
	if f.submitting {
		return nil
	}

	f.errors = f.Validate()
	if len(f.errors) > 0 {
		return nil
	}
	f.submitting = true

	mount, ctx, client := f.life.id, f.life.ctx, f.client
	username, email := f.value(0), f.value(1)

	if f.editing() {
		id := f.user.ID
		payload := models.UserUpdate{Username: models.Ptr(username), Email: models.Ptr(email)}
		return func() tea.Msg {
			user, err := client.UpdateUser(ctx, id, payload)
			return userSavedMsg{mount: mount, user: user, err: err}
		}
	}

	payload := models.UserCreate{Username: username, Email: email, Password: f.value(2)}
	return func() tea.Msg {
		user, err := client.CreateUser(ctx, payload)
		return userSavedMsg{mount: mount, user: user, err: err}
	}
}

func (f *UserForm) handleSaved(msg userSavedMsg) tea.Cmd {
	f.submitting = false
	if msg.err != nil || msg.user == nil {
		f.logger.Error("error saving user", "error", msg.err, "edit", f.editing())
		f.errors = []string{errUserSave}
		return nil
	}

	var cmds []tea.Cmd
	if f.onSave != nil {
		cmds = append(cmds, f.onSave(*msg.user))
	}
	if f.onClose != nil {
		cmds = append(cmds, f.onClose())
	}

	for i := range f.inputs {
		f.inputs[i].SetValue("")
	}
	f.errors = nil
	return tea.Batch(cmds...)
}

// Errors returns the messages currently displayed.
func (f *UserForm) Errors() []string { return append([]string(nil), f.errors...) }

func (f *UserForm) Submitting() bool { return f.submitting }

func (f *UserForm) Close() {
	f.life.close()
}

func (f *UserForm) View() string {
	labels := []string{"Username", "Email", "Password"}

	heading, action := "Create User", "Create User"
	if f.editing() {
		heading, action = "Edit User", "Update User"
	}
	if f.submitting {
		action = "Saving..."
	}

	var b strings.Builder
	b.WriteString(styles.title.Render(heading) + "\n")
	for i, in := range f.inputs {
		label := "  " + labels[i]
		if i == f.focus {
			label = styles.focused.Render("> " + labels[i])
		}
		b.WriteString(label + "\n" + in.View() + "\n\n")
	}

	for _, e := range f.errors {
		b.WriteString(styles.err.Render(e) + "\n")
	}

	button := "[ " + action + " ]"
	if f.focus == len(f.inputs) && !f.submitting {
		button = styles.focused.Render(button)
	} else {
		button = styles.help.Render(button)
	}
	b.WriteString(button + "\n\n")

	b.WriteString(f.help.ShortHelpView([]key.Binding{f.keys.next, f.keys.submit, f.keys.back}))
	return styles.modal.Render(b.String())
}
