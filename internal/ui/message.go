package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/tmx/internal/models"
)

// Result messages are addressed to the mount that issued the request; see [lifetime].
var (
	_ tea.Msg = usersFetchedMsg{}
	_ tea.Msg = tasksFetchedMsg{}
	_ tea.Msg = userSavedMsg{}
	_ tea.Msg = taskSavedMsg{}
	_ tea.Msg = userDeletedMsg{}
	_ tea.Msg = taskDeletedMsg{}
)

type usersFetchedMsg struct {
	mount uint64
	users []models.User
	err   error
}

type tasksFetchedMsg struct {
	mount   uint64
	tasks   []models.Task
	refresh bool // re-fetch after a save rather than the mount-time load
	err     error
}

type userSavedMsg struct {
	mount uint64
	user  *models.User
	err   error
}

type taskSavedMsg struct {
	mount uint64
	task  *models.Task
	err   error
}

type userDeletedMsg struct {
	mount uint64
	id    int
	err   error
}

type taskDeletedMsg struct {
	mount uint64
	id    int
	err   error
}
