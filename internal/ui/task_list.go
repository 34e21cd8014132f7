package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/tmx/internal/models"
	"github.com/desertthunder/tmx/internal/services"
)

const (
	errTasksLoad  = "Failed to load tasks"
	errTaskDelete = "Unable to delete task"
	defaultListW  = 60
	defaultListH  = 20
)

// taskItem wraps [models.Task] to implement list.Item.
type taskItem struct {
	task models.Task
}

func (i taskItem) FilterValue() string { return i.task.Title }
func (i taskItem) Title() string       { return i.task.Title }
func (i taskItem) Description() string {
	status := "pending"
	if i.task.Completed {
		status = "completed"
	}
	return fmt.Sprintf("%s • user #%d • e edit · d delete", status, i.task.UserID)
}

// TaskList owns the task collection and a single form slot.
//
// Saves are never merged locally: a completed save closes the form and re-fetches the collection.
// Deletes run without confirmation.
type TaskList struct {
	life   lifetime
	client services.Client
	logger *log.Logger
	keys   keyMap
	help   help.Model

	tasks     models.Collection[models.Task]
	list      list.Model
	form      *TaskForm
	err       string
	requested bool
}

func NewTaskList(ctx context.Context, client services.Client, logger *log.Logger) *TaskList {
	l := list.New(nil, list.NewDefaultDelegate(), defaultListW, defaultListH)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	return &TaskList{
		life:   newLifetime(ctx),
		client: client,
		logger: orDiscard(logger),
		keys:   newKeyMap(),
		help:   help.New(),
		tasks:  models.NewCollection[models.Task](nil),
		list:   l,
	}
}

// Init issues the mount-time fetch. Later calls are no-ops.
func (t *TaskList) Init() tea.Cmd {
	if t.requested {
		return nil
	}
	t.requested = true
	return t.fetch(false)
}

func (t *TaskList) fetch(refresh bool) tea.Cmd {
	mount, ctx, client := t.life.id, t.life.ctx, t.client
	return func() tea.Msg {
		tasks, err := client.ListTasks(ctx)
		return tasksFetchedMsg{mount: mount, tasks: tasks, refresh: refresh, err: err}
	}
}

func (t *TaskList) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tasksFetchedMsg:
		if !t.life.owns(msg.mount) {
			return nil
		}
		if msg.err != nil {
			t.logger.Error("error fetching tasks", "error", msg.err, "refresh", msg.refresh)
			if !msg.refresh {
				t.err = errTasksLoad
				t.tasks = models.NewCollection[models.Task](nil)
				return t.syncItems()
			}
			return nil
		}
		t.tasks = models.NewCollection(msg.tasks)
		return t.syncItems()

	case taskDeletedMsg:
		if !t.life.owns(msg.mount) {
			return nil
		}
		if msg.err != nil {
			t.logger.Error("error deleting task", "error", msg.err, "id", msg.id)
			t.err = errTaskDelete
			return nil
		}
		t.tasks = t.tasks.Remove(msg.id)
		return t.syncItems()

	case tea.KeyMsg:
		return t.handleKeys(msg)
	}

	if t.form != nil {
		return t.form.Update(msg)
	}
	return nil
}

func (t *TaskList) handleKeys(msg tea.KeyMsg) tea.Cmd {
	if t.form != nil {
		if key.Matches(msg, t.keys.back) {
			return t.closeForm()
		}
		return t.form.Update(msg)
	}

	switch {
	case key.Matches(msg, t.keys.add):
		return t.openForm(nil)
	case key.Matches(msg, t.keys.edit):
		if task, ok := t.selected(); ok {
			return t.openForm(&task)
		}
		return nil
	case key.Matches(msg, t.keys.remove):
		if task, ok := t.selected(); ok {
			return t.Delete(task.ID)
		}
		return nil
	}

	var cmd tea.Cmd
	t.list, cmd = t.list.Update(msg)
	return cmd
}

func (t *TaskList) selected() (models.Task, bool) {
	item, ok := t.list.SelectedItem().(taskItem)
	if !ok {
		return models.Task{}, false
	}
	return item.task, true
}

// openForm mounts a form in the shared slot, replacing any open one. A nil task opens create mode.
func (t *TaskList) openForm(task *models.Task) tea.Cmd {
	t.closeForm()
	t.form = NewTaskForm(t.life.ctx, t.client, t.logger, TaskFormProps{
		Task:    task,
		OnSave:  t.handleSave,
		OnClose: t.closeForm,
	})
	return t.form.Init()
}

func (t *TaskList) closeForm() tea.Cmd {
	if t.form != nil {
		t.form.Close()
		t.form = nil
	}
	return nil
}

func (t *TaskList) handleSave() tea.Cmd {
	t.closeForm()
	return t.fetch(true)
}

// Delete requests removal of the task with the given id. The row is dropped only once the request succeeds.
func (t *TaskList) Delete(id int) tea.Cmd {
	mount, ctx, client := t.life.id, t.life.ctx, t.client
	return func() tea.Msg {
		err := client.DeleteTask(ctx, id)
		return taskDeletedMsg{mount: mount, id: id, err: err}
	}
}

func (t *TaskList) syncItems() tea.Cmd {
	tasks := t.tasks.Items()
	items := make([]list.Item, len(tasks))
	for i, task := range tasks {
		items[i] = taskItem{task: task}
	}
	return t.list.SetItems(items)
}

// Tasks returns the current collection snapshot.
func (t *TaskList) Tasks() models.Collection[models.Task] { return t.tasks }

// Capturing reports whether keys are consumed by an open form.
func (t *TaskList) Capturing() bool { return t.form != nil }

func (t *TaskList) SetSize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	t.list.SetSize(width, height)
}

// Close unmounts the list and any open form.
func (t *TaskList) Close() {
	t.closeForm()
	t.life.close()
}

func (t *TaskList) View() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("Tasks"))
	b.WriteString("\n")

	if t.err != "" {
		b.WriteString(styles.err.Render(t.err) + "\n\n")
	}

	if t.form != nil {
		b.WriteString(t.form.View())
		return b.String()
	}

	b.WriteString(t.list.View() + "\n\n")
	b.WriteString(t.help.ShortHelpView([]key.Binding{t.keys.add, t.keys.edit, t.keys.remove}))
	return b.String()
}
