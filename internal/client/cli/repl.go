package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// execIface is the command surface the shell needs. App satisfies it;
// tests provide a stub.
type execIface interface {
	isLoggedIn(ctx context.Context) bool
	Register(ctx context.Context, name, email, password string) error
	Login(ctx context.Context, email, password string) error
	Logout(ctx context.Context) error
	Status(ctx context.Context) error
	AddStory(ctx context.Context, in addStoryInput) error
	ListStories(ctx context.Context, withLocation, local bool) error
	ShowStory(ctx context.Context, id string) error
	DeleteStory(ctx context.Context, id string) error
	SyncNow(ctx context.Context) error
	ToggleFavorite(ctx context.Context, id string) error
	ListFavorites(ctx context.Context) error
	ListNotifications(ctx context.Context) error
}

// runREPL reads one command per line and dispatches it until EOF, "exit" or
// "quit". Command errors are printed and the loop goes on.
//
//	Not logged in: help, register, login, status, exit
//	Logged in:     help, add, list [map], show <id>, delete <id>, fav <id>,
//	               favs, notes, sync, status, logout, exit
//
// Lines are read from the same reader the command prompts use.
func runREPL(ctx context.Context, a execIface, statusFn func() string, r *bufio.Reader, w io.Writer) {
	for {
		fmt.Fprintf(w, "journify %s> ", statusFn())
		line, err := r.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]
		arg := ""
		if len(args) > 0 {
			arg = args[0]
		}

		err = nil
		switch cmd {
		case "help":
			if a.isLoggedIn(ctx) {
				fmt.Fprintln(w, "Available commands: add, (l)ist [map], show <id>, delete <id>, fav <id>, favs, notes, sync, status, logout, exit")
			} else {
				fmt.Fprintln(w, "Available commands: register, login, status, exit")
			}
		case "register":
			err = a.Register(ctx, "", "", "")
		case "login":
			err = a.Login(ctx, arg, "")
		case "logout":
			err = a.Logout(ctx)
		case "status":
			err = a.Status(ctx)
		case "add":
			err = a.AddStory(ctx, addStoryInput{Description: strings.Join(args, " ")})
		case "l", "list":
			err = a.ListStories(ctx, arg == "map", false)
		case "show", "delete", "fav":
			if arg == "" {
				fmt.Fprintf(w, "usage: %s <id>\n", cmd)
				continue
			}
			switch cmd {
			case "show":
				err = a.ShowStory(ctx, arg)
			case "delete":
				err = a.DeleteStory(ctx, arg)
			default:
				err = a.ToggleFavorite(ctx, arg)
			}
		case "favs":
			err = a.ListFavorites(ctx)
		case "notes":
			err = a.ListNotifications(ctx)
		case "sync":
			err = a.SyncNow(ctx)
		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return
		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}
		if err != nil {
			fmt.Fprintln(w, "error:", err)
		}
	}
}

// Shell runs the interactive loop on the App's input.
func (a *App) Shell(ctx context.Context) error {
	fmt.Fprintln(a.out, "Journify (type 'help' for commands)")
	status := func() string {
		return "(" + string(a.mode()) + ")"
	}
	a.checkOnline(ctx)
	runREPL(ctx, a, status, a.reader, a.out)
	return nil
}
