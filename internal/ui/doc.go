// Package ui implements the interactive terminal console using bubbletea's Elm architecture.
//
// The root [App] stacks two panes:
//  1. [UserList] : a table of users with an inline [UserForm] and a delete confirmation dialog
//  2. [TaskList] : a list of tasks with an inline [TaskForm]; [TaskForm] embeds a [UserSelect]
//
// Child components follow the same shape as the root model but return only a tea.Cmd from Update.
// Callbacks passed through the *Props structs run synchronously inside Update and may return a command.
//
// Network calls run as commands and report back with result messages tagged with the issuing
// component's mount id. Closing a component cancels its context and later results for it are dropped.
//
// Keyboard navigation uses vim-style bindings (j/k, a/e/d, y/n, esc, tab, q) with contextual help
// displayed via charmbracelet/bubbles/help.
package ui
