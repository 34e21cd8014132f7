package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/tmx/internal/models"
	tu "github.com/desertthunder/tmx/internal/testing"
)

// settle runs cmd and feeds every result message produced by this package back into update
// until no commands remain. Widget messages (cursor blinks and the like) are dropped.
func settle(t *testing.T, update func(tea.Msg) tea.Cmd, cmd tea.Cmd) {
	t.Helper()

	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 100 {
			t.Fatal("commands did not settle")
		}
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}

		switch msg := next().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case usersFetchedMsg, tasksFetchedMsg, userSavedMsg, taskSavedMsg, userDeletedMsg, taskDeletedMsg:
			queue = append(queue, update(msg))
		}
	}
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func fixtureUsers() []models.User {
	return []models.User{
		{ID: 1, Username: "Alice", Email: "alice@example.com"},
		{ID: 2, Username: "Bob", Email: "bob@example.com"},
	}
}

func fixtureTasks() []models.Task {
	return []models.Task{
		{ID: 1, Title: "Task 1", UserID: 1},
		{ID: 2, Title: "Task 2", UserID: 2},
	}
}

func newMock() *tu.MockClient {
	return &tu.MockClient{Users: fixtureUsers(), Tasks: fixtureTasks()}
}
