package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool
	calls    []string
	failList bool
}

func (f *fakeExec) isLoggedIn(context.Context) bool { return f.loggedIn }

func (f *fakeExec) Register(_ context.Context, _, _, _ string) error {
	f.calls = append(f.calls, "register")
	return nil
}

func (f *fakeExec) Login(_ context.Context, email, _ string) error {
	f.calls = append(f.calls, "login "+email)
	f.loggedIn = true
	return nil
}

func (f *fakeExec) Logout(context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}

func (f *fakeExec) Status(context.Context) error {
	f.calls = append(f.calls, "status")
	return nil
}

func (f *fakeExec) AddStory(_ context.Context, in addStoryInput) error {
	f.calls = append(f.calls, "add "+in.Description)
	return nil
}

func (f *fakeExec) ListStories(_ context.Context, withLocation, _ bool) error {
	if withLocation {
		f.calls = append(f.calls, "list map")
	} else {
		f.calls = append(f.calls, "list")
	}
	if f.failList {
		return errors.New("boom")
	}
	return nil
}

func (f *fakeExec) ShowStory(_ context.Context, id string) error {
	f.calls = append(f.calls, "show "+id)
	return nil
}

func (f *fakeExec) DeleteStory(_ context.Context, id string) error {
	f.calls = append(f.calls, "delete "+id)
	return nil
}

func (f *fakeExec) SyncNow(context.Context) error {
	f.calls = append(f.calls, "sync")
	return nil
}

func (f *fakeExec) ToggleFavorite(_ context.Context, id string) error {
	f.calls = append(f.calls, "fav "+id)
	return nil
}

func (f *fakeExec) ListFavorites(context.Context) error {
	f.calls = append(f.calls, "favs")
	return nil
}

func (f *fakeExec) ListNotifications(context.Context) error {
	f.calls = append(f.calls, "notes")
	return nil
}

func TestRunREPL_Dispatch(t *testing.T) {
	input := strings.Join([]string{
		"help",
		"login dimas@example.com",
		"help",
		"add a day at the beach",
		"l",
		"list map",
		"show story-1",
		"show",
		"fav story-1",
		"favs",
		"notes",
		"delete story-1",
		"sync",
		"status",
		"foobar",
		"",
		"logout",
		"exit",
		"list",
	}, "\n")

	exec := &fakeExec{}
	var out bytes.Buffer
	runREPL(context.Background(), exec, func() string { return "(online)" }, bufio.NewReader(strings.NewReader(input)), &out)

	assert.Equal(t, []string{
		"login dimas@example.com",
		"add a day at the beach",
		"list",
		"list map",
		"show story-1",
		"fav story-1",
		"favs",
		"notes",
		"delete story-1",
		"sync",
		"status",
		"logout",
	}, exec.calls)

	text := out.String()
	assert.Contains(t, text, "journify (online)> ")
	assert.Contains(t, text, "Available commands: register, login, status, exit")
	assert.Contains(t, text, "Available commands: add,")
	assert.Contains(t, text, "usage: show <id>")
	assert.Contains(t, text, "Unknown command: foobar")
	assert.Contains(t, text, "Bye!")
}

func TestRunREPL_ReportsErrorsAndStopsAtEOF(t *testing.T) {
	exec := &fakeExec{loggedIn: true, failList: true}
	var out bytes.Buffer
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("list\nsync")), &out)

	assert.Equal(t, []string{"list", "sync"}, exec.calls)
	assert.Contains(t, out.String(), "error: boom")
}
