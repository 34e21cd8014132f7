package ui

import (
	"context"
	"strings"
	"testing"

	"github.com/desertthunder/tmx/internal/models"
)

func TestUserList(t *testing.T) {
	t.Run("Loading", func(t *testing.T) {
		u := NewUserList(context.Background(), newMock(), nil)
		view := u.View()
		if !strings.Contains(view, "Loading users...") {
			t.Errorf("expected loading indicator, got %q", view)
		}
		if strings.Contains(view, "Username") {
			t.Error("expected no table while loading")
		}
	})

	t.Run("Renders table", func(t *testing.T) {
		client := newMock()
		u := NewUserList(context.Background(), client, nil)
		settle(t, u.Update, u.Init())
		settle(t, u.Update, u.Init())

		view := u.View()
		for _, want := range []string{"Username", "Email", "Actions", "Alice", "bob@example.com"} {
			if !strings.Contains(view, want) {
				t.Errorf("expected view to contain %q, got %q", want, view)
			}
		}
		if n := len(client.CallsTo("ListUsers")); n != 1 {
			t.Errorf("expected 1 ListUsers call, got %d", n)
		}
	})

	t.Run("Load failure", func(t *testing.T) {
		client := newMock()
		client.FailList = true
		u := NewUserList(context.Background(), client, nil)
		settle(t, u.Update, u.Init())

		view := u.View()
		if strings.Contains(view, "Loading users...") {
			t.Error("expected loading to settle on failure")
		}
		if !strings.Contains(view, "Failed to load users") {
			t.Error("expected load error")
		}
	})

	t.Run("Save merge", func(t *testing.T) {
		t.Run("replaces an existing id in place", func(t *testing.T) {
			u := NewUserList(context.Background(), newMock(), nil)
			settle(t, u.Update, u.Init())

			u.handleSave(models.User{ID: 1, Username: "Alicia", Email: "alicia@example.com"})

			items := u.Users().Items()
			if len(items) != 2 {
				t.Fatalf("expected 2 users, got %d", len(items))
			}
			if items[0].Username != "Alicia" || items[0].Email != "alicia@example.com" {
				t.Errorf("expected first row replaced, got %+v", items[0])
			}
			if !strings.Contains(u.View(), "Alicia") {
				t.Error("expected merged row to be rendered")
			}
		})

		t.Run("appends a new id", func(t *testing.T) {
			u := NewUserList(context.Background(), newMock(), nil)
			settle(t, u.Update, u.Init())

			u.handleSave(models.User{ID: 3, Username: "Carol", Email: "carol@example.com"})

			items := u.Users().Items()
			if len(items) != 3 || items[2].ID != 3 {
				t.Errorf("expected one appended row, got %+v", items)
			}
		})

		t.Run("through the form without a re-fetch", func(t *testing.T) {
			client := newMock()
			u := NewUserList(context.Background(), client, nil)
			settle(t, u.Update, u.Init())

			settle(t, u.Update, u.Update(keyPress("e")))
			if u.form == nil || !u.form.editing() {
				t.Fatal("expected e to open the edit form")
			}
			u.form.inputs[0].SetValue("Alicia")
			settle(t, u.Update, u.form.Submit())

			if u.Capturing() {
				t.Error("expected the form to close after save")
			}
			if n := len(client.CallsTo("ListUsers")); n != 1 {
				t.Errorf("expected no re-fetch, got %d ListUsers calls", n)
			}
			if got, _ := u.Users().Find(1); got.Username != "Alicia" {
				t.Errorf("expected merged username, got %q", got.Username)
			}
		})
	})

	t.Run("Delete", func(t *testing.T) {
		t.Run("confirm", func(t *testing.T) {
			client := newMock()
			u := NewUserList(context.Background(), client, nil)
			settle(t, u.Update, u.Init())

			u.Update(keyPress("d"))
			if !strings.Contains(u.View(), "Are you sure you want to delete Alice?") {
				t.Fatalf("expected confirmation dialog, got %q", u.View())
			}
			if len(client.CallsTo("DeleteUser")) != 0 {
				t.Fatal("expected no request before confirmation")
			}

			settle(t, u.Update, u.Update(keyPress("y")))

			if u.Users().Contains(1) {
				t.Error("expected Alice to be removed")
			}
			if u.Capturing() {
				t.Error("expected the dialog to close")
			}
		})

		t.Run("cancel", func(t *testing.T) {
			client := newMock()
			u := NewUserList(context.Background(), client, nil)
			settle(t, u.Update, u.Init())

			u.Update(keyPress("d"))
			u.Update(keyPress("n"))

			if u.Capturing() || len(client.CallsTo("DeleteUser")) != 0 {
				t.Error("expected cancel to close the dialog without a request")
			}
		})

		t.Run("repeated confirmation sends one request", func(t *testing.T) {
			client := newMock()
			u := NewUserList(context.Background(), client, nil)
			settle(t, u.Update, u.Init())

			u.RequestDelete(fixtureUsers()[0])
			first := u.Update(keyPress("y"))
			if second := u.Update(keyPress("y")); second != nil {
				t.Error("expected no command while the delete is in flight")
			}
			u.Update(keyPress("n"))
			if !u.Capturing() {
				t.Error("expected the dialog to stay open until the response")
			}
			if !strings.Contains(u.View(), "Deleting...") {
				t.Errorf("expected in-flight label, got %q", u.View())
			}

			settle(t, u.Update, first)

			if n := len(client.CallsTo("DeleteUser")); n != 1 {
				t.Errorf("expected 1 DeleteUser call, got %d", n)
			}
			if u.Users().Contains(1) || u.Capturing() {
				t.Error("expected Alice removed and the dialog closed")
			}
			if strings.Contains(u.View(), "Unable to delete user") {
				t.Error("expected no delete error")
			}
		})

		t.Run("failure", func(t *testing.T) {
			client := newMock()
			client.FailDelete = true
			u := NewUserList(context.Background(), client, nil)
			settle(t, u.Update, u.Init())

			u.RequestDelete(fixtureUsers()[1])
			settle(t, u.Update, u.ConfirmDelete())

			if !u.Users().Contains(2) {
				t.Error("expected Bob to remain")
			}
			if u.pending != nil {
				t.Error("expected the pending target to be discarded")
			}
			if !strings.Contains(u.View(), "Unable to delete user") {
				t.Error("expected delete error")
			}
		})
	})

	t.Run("Re-opening and closing leaves the collection unchanged", func(t *testing.T) {
		u := NewUserList(context.Background(), newMock(), nil)
		settle(t, u.Update, u.Init())
		before := u.Users().Items()

		for _, k := range []string{"a", "e", "a"} {
			settle(t, u.Update, u.Update(keyPress(k)))
			u.Update(keyPress("esc"))
		}

		after := u.Users().Items()
		if len(after) != len(before) {
			t.Fatalf("expected %d users, got %d", len(before), len(after))
		}
		for i := range before {
			if before[i] != after[i] {
				t.Errorf("expected user %d unchanged, got %+v", i, after[i])
			}
		}
	})

	t.Run("Results after close are dropped", func(t *testing.T) {
		u := NewUserList(context.Background(), newMock(), nil)
		cmd := u.Init()
		u.Close()
		settle(t, u.Update, cmd)

		if u.Users().Len() != 0 {
			t.Error("expected closed list to ignore late results")
		}
		if !strings.Contains(u.View(), "Loading users...") {
			t.Error("expected the closed list to keep its loading state")
		}
	})
}
