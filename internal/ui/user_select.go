package ui

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/tmx/internal/models"
	"github.com/desertthunder/tmx/internal/services"
)

const (
	selectPlaceholder = "Select User"
	selectWidth       = 60
)

type selectState int

const (
	selectLoading selectState = iota
	selectFailed
	selectReady
)

// selectOption is one entry of the [UserSelect] control. The placeholder has an empty value.
type selectOption struct {
	Value string
	Label string
}

func (o selectOption) FilterValue() string { return o.Label }

// optionDelegate renders one option per line, marking the list cursor with "> ".
type optionDelegate struct {
	sel *UserSelect
}

func (d optionDelegate) Height() int                             { return 1 }
func (d optionDelegate) Spacing() int                            { return 0 }
func (d optionDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d optionDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	o, ok := item.(selectOption)
	if !ok {
		return
	}
	if index != m.Index() {
		fmt.Fprint(w, "  "+o.Label)
		return
	}
	line := "> " + o.Label
	if d.sel.focused {
		line = styles.focused.Render(line)
	}
	fmt.Fprint(w, line)
}

// UserSelectProps configures a [UserSelect].
type UserSelectProps struct {
	SelectedUserID int               // pre-selected user; 0 selects the placeholder
	OnSelect       func(int) tea.Cmd // invoked on every change with the chosen id (0 for the placeholder)
}

// UserSelect loads the user collection once and renders a single-selection control over it.
//
// The selection is controlled: the owner passes the current id through [UserSelect.SetSelected].
type UserSelect struct {
	life      lifetime
	client    services.UserClient
	logger    *log.Logger
	keys      keyMap
	state     selectState
	requested bool
	users     []models.User
	options   list.Model
	selected  int
	focused   bool
	onSelect  func(int) tea.Cmd
}

// NewUserSelect creates a [UserSelect] in the loading state. Call Init to issue the fetch.
func NewUserSelect(ctx context.Context, client services.UserClient, logger *log.Logger, props UserSelectProps) *UserSelect {
	s := &UserSelect{
		life:     newLifetime(ctx),
		client:   client,
		logger:   orDiscard(logger),
		keys:     newKeyMap(),
		state:    selectLoading,
		selected: props.SelectedUserID,
		onSelect: props.OnSelect,
	}

	l := list.New(nil, optionDelegate{sel: s}, selectWidth, 1)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	s.options = l
	return s
}

// Init requests the user collection. Only the first call issues a request.
func (s *UserSelect) Init() tea.Cmd {
	if s.requested {
		return nil
	}
	s.requested = true

	mount, ctx, client := s.life.id, s.life.ctx, s.client
	return func() tea.Msg {
		users, err := client.ListUsers(ctx)
		return usersFetchedMsg{mount: mount, users: users, err: err}
	}
}

// Update handles fetch results for this mount and, when focused, option navigation.
func (s *UserSelect) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case usersFetchedMsg:
		if !s.life.owns(msg.mount) {
			return nil
		}
		if msg.err != nil {
			s.logger.Error("error fetching users", "error", msg.err)
			s.state = selectFailed
			return nil
		}
		s.users = msg.users
		s.state = selectReady
		s.syncOptions()
		return nil

	case tea.KeyMsg:
		if !s.focused || s.state != selectReady {
			return nil
		}
		options := s.Options()
		idx := s.cursor(options)
		switch {
		case key.Matches(msg, s.keys.up):
			if idx > 0 {
				return s.Choose(options[idx-1].Value)
			}
		case key.Matches(msg, s.keys.down):
			if idx < len(options)-1 {
				return s.Choose(options[idx+1].Value)
			}
		}
	}
	return nil
}

// Choose reports the option with the given value as the new selection.
//
// Values are decimal user ids; the placeholder's empty value yields 0.
func (s *UserSelect) Choose(value string) tea.Cmd {
	id := 0
	if value != "" {
		n, err := strconv.Atoi(value)
		if err != nil {
			s.logger.Warn("ignoring invalid user option", "value", value)
			return nil
		}
		id = n
	}
	if s.onSelect == nil {
		return nil
	}
	return s.onSelect(id)
}

// SetSelected updates the externally controlled selection.
func (s *UserSelect) SetSelected(id int) {
	s.selected = id
	s.options.Select(s.cursor(s.Options()))
}

func (s *UserSelect) syncOptions() {
	options := s.Options()
	items := make([]list.Item, len(options))
	for i, o := range options {
		items[i] = o
	}
	s.options.SetItems(items)
	s.options.SetHeight(len(items))
	s.options.Select(s.cursor(options))
}

// Selected returns the id reflected by the control: the supplied id when it matches a loaded user, otherwise 0.
func (s *UserSelect) Selected() int {
	for _, u := range s.users {
		if u.ID == s.selected && s.selected != 0 {
			return u.ID
		}
	}
	return 0
}

// Options returns the placeholder followed by one option per loaded user.
func (s *UserSelect) Options() []selectOption {
	options := make([]selectOption, 0, len(s.users)+1)
	options = append(options, selectOption{Value: "", Label: selectPlaceholder})
	for _, u := range s.users {
		options = append(options, selectOption{Value: strconv.Itoa(u.ID), Label: u.Label()})
	}
	return options
}

func (s *UserSelect) cursor(options []selectOption) int {
	selected := s.Selected()
	if selected == 0 {
		return 0
	}
	want := strconv.Itoa(selected)
	for i, o := range options {
		if o.Value == want {
			return i
		}
	}
	return 0
}

func (s *UserSelect) Focus()        { s.focused = true }
func (s *UserSelect) Blur()         { s.focused = false }
func (s *UserSelect) Focused() bool { return s.focused }
func (s *UserSelect) Ready() bool   { return s.state == selectReady }

// Close ends this mount; pending results are discarded.
func (s *UserSelect) Close() {
	s.life.close()
}

func (s *UserSelect) View() string {
	switch s.state {
	case selectLoading:
		return styles.help.Render("Loading users...")
	case selectFailed:
		return styles.err.Render("Failed to load users")
	}

	return s.options.View()
}

func orDiscard(l *log.Logger) *log.Logger {
	if l == nil {
		return log.New(io.Discard)
	}
	return l
}
