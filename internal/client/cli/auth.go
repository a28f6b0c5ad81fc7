package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/journify/internal/client/client"
)

// credentials prompts for whatever was not passed on the command line.
func (a *App) credentials(email, password string) (string, string, error) {
	var err error
	if email == "" {
		if email, err = GetSimpleText(a.reader, "Email", a.out); err != nil {
			return "", "", err
		}
	}
	if password == "" {
		if password, err = GetPassword(a.reader, a.out, a.interactive); err != nil {
			return "", "", err
		}
	}
	return email, password, nil
}

func (a *App) Register(ctx context.Context, name, email, password string) error {
	var err error
	if name == "" {
		if name, err = GetSimpleText(a.reader, "Name", a.out); err != nil {
			return err
		}
	}
	if email, password, err = a.credentials(email, password); err != nil {
		return err
	}
	if a.checkOnline(ctx) == ModeOffline {
		return client.ErrUnavailable
	}
	if err := a.authService.Register(ctx, name, email, password); err != nil {
		return err
	}
	a.printf("Account created, you can log in now.\n")
	return nil
}

// Login authenticates online when the API answers, otherwise against the
// credentials cached by the last online login.
func (a *App) Login(ctx context.Context, email, password string) error {
	email, password, err := a.credentials(email, password)
	if err != nil {
		return err
	}
	a.checkOnline(ctx)

	res, err := a.authService.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, client.ErrLocalDataNotAvailable) {
			a.printf("No saved credentials for offline login. Connect once to log in.\n")
		}
		return err
	}
	if res.Offline {
		a.printf("Logged in offline as %s.\n", res.Session.Name)
		return nil
	}
	a.printf("Logged in as %s.\n", res.Session.Name)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	a.printf("Logged out.\n")
	return nil
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	s, err := a.authService.Current(ctx)
	return err == nil && s != nil
}

// Status prints who is logged in, connectivity and the outbox.
func (a *App) Status(ctx context.Context) error {
	mode := a.checkOnline(ctx)

	s, err := a.authService.Current(ctx)
	if err != nil {
		return err
	}
	if s == nil {
		a.printf("Not logged in (%s)\n", mode)
	} else {
		a.printf("Logged in as %s (%s)\n", s.Name, mode)
	}

	st, err := a.syncService.Status(ctx)
	if err != nil {
		return err
	}
	a.printf("%s waiting to sync\n", plural(st.PendingCount, "story", "stories"))

	tags, err := a.monitor.PendingTags(ctx)
	if err != nil {
		return err
	}
	for _, t := range tags {
		a.printf("background sync registered: %s\n", t)
	}

	version, err := a.store.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	cached, err := a.store.Cache.Entries(ctx)
	if err != nil {
		return err
	}
	a.printf("Local store: schema v%d, %s\n", version, plural(len(cached), "cached response", "cached responses"))
	return nil
}
