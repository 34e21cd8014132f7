package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/tmx/internal/models"
	"github.com/desertthunder/tmx/internal/services"
)

const (
	errTitleRequired = "Title is required."
	errUserRequired  = "User selection is required."
	errTaskSave      = "Error saving task."
)

// taskField identifies the focusable parts of a [TaskForm], in tab order.
type taskField int

const (
	taskTitleField taskField = iota
	taskDescriptionField
	taskCompletedField
	taskUserField
	taskSaveField
)

// TaskFormProps configures a [TaskForm]. A nil Task puts the form in create mode.
type TaskFormProps struct {
	Task    *models.Task
	OnSave  func() tea.Cmd
	OnClose func() tea.Cmd
}

// TaskForm edits a draft task and submits it on request.
type TaskForm struct {
	life   lifetime
	client services.Client
	logger *log.Logger
	keys   keyMap
	help   help.Model

	task    *models.Task
	onSave  func() tea.Cmd
	onClose func() tea.Cmd

	title       textinput.Model
	description textarea.Model
	completed   bool
	userID      int
	users       *UserSelect

	focus      taskField
	errors     []string
	saveErr    string
	submitting bool
}

func NewTaskForm(ctx context.Context, client services.Client, logger *log.Logger, props TaskFormProps) *TaskForm {
	f := &TaskForm{
		life:    newLifetime(ctx),
		client:  client,
		logger:  orDiscard(logger),
		keys:    newKeyMap(),
		help:    help.New(),
		task:    props.Task,
		onSave:  props.OnSave,
		onClose: props.OnClose,
	}

	f.title = textinput.New()
	f.title.Placeholder = "Title"
	f.title.CharLimit = 200
	f.title.Width = 40

	f.description = textarea.New()
	f.description.Placeholder = "Description"
	f.description.ShowLineNumbers = false
	f.description.SetWidth(44)
	f.description.SetHeight(3)

	if t := props.Task; t != nil {
		f.title.SetValue(t.Title)
		f.description.SetValue(t.Description)
		f.completed = t.Completed
		f.userID = t.UserID
	}

	f.users = NewUserSelect(f.life.ctx, client, f.logger, UserSelectProps{
		SelectedUserID: f.userID,
		OnSelect:       f.selectUser,
	})
	f.title.Focus()
	return f
}

// Init mounts the embedded [UserSelect].
func (f *TaskForm) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, f.users.Init())
}

func (f *TaskForm) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case taskSavedMsg:
		if !f.life.owns(msg.mount) {
			return nil
		}
		return f.handleSaved(msg)

	case usersFetchedMsg:
		return f.users.Update(msg)

	case tea.KeyMsg:
		return f.handleKeys(msg)
	}

	return f.updateFocused(msg)
}

func (f *TaskForm) handleKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, f.keys.submit):
		return f.Submit()
	case key.Matches(msg, f.keys.next):
		return f.setFocus(f.step(1))
	case key.Matches(msg, f.keys.prev):
		return f.setFocus(f.step(-1))
	}

	switch f.focus {
	case taskCompletedField:
		if key.Matches(msg, f.keys.toggle) || msg.Type == tea.KeyEnter {
			f.completed = !f.completed
		}
		return nil
	case taskSaveField:
		if msg.Type == tea.KeyEnter {
			return f.Submit()
		}
		return nil
	}

	return f.updateFocused(msg)
}

func (f *TaskForm) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch f.focus {
	case taskTitleField:
		f.title, cmd = f.title.Update(msg)
	case taskDescriptionField:
		f.description, cmd = f.description.Update(msg)
	case taskUserField:
		cmd = f.users.Update(msg)
	}
	return cmd
}

// step returns the field delta positions away, skipping the completed toggle in create mode.
func (f *TaskForm) step(delta int) taskField {
	n := int(taskSaveField) + 1
	next := f.focus
	for {
		next = taskField((int(next) + delta + n) % n)
		if next != taskCompletedField || f.task != nil {
			return next
		}
	}
}

func (f *TaskForm) setFocus(field taskField) tea.Cmd {
	f.focus = field
	f.title.Blur()
	f.description.Blur()
	f.users.Blur()

	switch field {
	case taskTitleField:
		return f.title.Focus()
	case taskDescriptionField:
		return f.description.Focus()
	case taskUserField:
		f.users.Focus()
	}
	return nil
}

func (f *TaskForm) selectUser(id int) tea.Cmd {
	f.userID = id
	f.users.SetSelected(id)
	return nil
}

// Validate returns the messages for every violated rule; an empty result means the draft can be submitted.
func (f *TaskForm) Validate() []string {
	var errs []string
	if f.title.Value() == "" {
		errs = append(errs, errTitleRequired)
	}
	if f.userID == 0 {
		errs = append(errs, errUserRequired)
	}
	return errs
}

// Submit validates the draft and, when valid, issues a single create or update request.
func (f *TaskForm) Submit() tea.Cmd {
	if f.submitting {
		return nil
	}

	f.errors = f.Validate()
	if len(f.errors) > 0 {
		return nil
	}

	f.submitting = true
	f.saveErr = ""

	var (
		mount  = f.life.id
		ctx    = f.life.ctx
		client = f.client
		title  = f.title.Value()
		desc   = f.description.Value()
	)

	if f.task == nil {
		payload := models.TaskCreate{Title: title, Description: desc, UserID: f.userID}
		return func() tea.Msg {
			task, err := client.CreateTask(ctx, payload)
			return taskSavedMsg{mount: mount, task: task, err: err}
		}
	}

	id := f.task.ID
	payload := models.TaskUpdate{
		Title:       models.Ptr(title),
		Description: models.Ptr(desc),
		Completed:   models.Ptr(f.completed),
	}
	return func() tea.Msg {
		task, err := client.UpdateTask(ctx, id, payload)
		return taskSavedMsg{mount: mount, task: task, err: err}
	}
}

func (f *TaskForm) handleSaved(msg taskSavedMsg) tea.Cmd {
	f.submitting = false
	if msg.err != nil {
		f.logger.Error("error saving task", "error", msg.err, "edit", f.task != nil)
		f.saveErr = errTaskSave
		return nil
	}

	var cmds []tea.Cmd
	if f.onSave != nil {
		cmds = append(cmds, f.onSave())
	}
	if f.onClose != nil {
		cmds = append(cmds, f.onClose())
	}
	return tea.Batch(cmds...)
}

// Submitting reports whether a save request is in flight.
func (f *TaskForm) Submitting() bool { return f.submitting }

// Close releases the form and its embedded [UserSelect].
func (f *TaskForm) Close() {
	f.users.Close()
	f.life.close()
}

func (f *TaskForm) View() string {
	var b strings.Builder

	heading := "Create Task"
	if f.task != nil {
		heading = "Edit Task"
	}
	b.WriteString(styles.title.Render(heading))
	b.WriteString("\n")

	b.WriteString(f.label("Title", taskTitleField))
	b.WriteString(f.title.View() + "\n\n")

	b.WriteString(f.label("Description", taskDescriptionField))
	b.WriteString(f.description.View() + "\n\n")

	if f.task != nil {
		box := "[ ]"
		if f.completed {
			box = "[x]"
		}
		b.WriteString(f.label(fmt.Sprintf("%s Completed", box), taskCompletedField) + "\n")
	}

	b.WriteString(f.label("User", taskUserField))
	b.WriteString(f.users.View() + "\n\n")

	for _, e := range f.errors {
		b.WriteString(styles.err.Render(e) + "\n")
	}
	if f.saveErr != "" {
		b.WriteString(styles.err.Render(f.saveErr) + "\n")
	}

	button := "[ Save ]"
	if f.submitting {
		button = "[ Saving... ]"
	}
	if f.focus == taskSaveField && !f.submitting {
		button = styles.focused.Render(button)
	} else {
		button = styles.help.Render(button)
	}
	b.WriteString(button + "\n\n")

	b.WriteString(f.help.ShortHelpView([]key.Binding{f.keys.next, f.keys.submit, f.keys.back}))
	return styles.modal.Render(b.String())
}

func (f *TaskForm) label(text string, field taskField) string {
	if f.focus == field {
		return styles.focused.Render("> "+text) + "\n"
	}
	return "  " + text + "\n"
}
