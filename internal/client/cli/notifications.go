package cli

import (
	"context"
	"time"

	"github.com/dustin/go-humanize"
)

// ListNotifications prints notifications that arrived while no client was
// active.
func (a *App) ListNotifications(ctx context.Context) error {
	notes, err := a.notificationService.List(ctx)
	if err != nil {
		return err
	}
	if len(notes) == 0 {
		a.printf("No deferred notifications.\n")
		return nil
	}
	now := time.Now()
	for _, n := range notes {
		state := "new"
		if n.Shown {
			state = "shown"
		}
		a.printf("%4d  %-5s  %-24s %s %s\n", n.ID, state, truncate(n.Title, 24), truncate(n.Body, 40),
			dim.Sprint(humanize.RelTime(n.Timestamp, now, "ago", "from now")))
	}
	return nil
}

// ReconcileNotifications shows every deferred notification not yet shown.
func (a *App) ReconcileNotifications(ctx context.Context) error {
	res, err := a.notificationService.Reconcile(ctx)
	if err != nil {
		return err
	}
	if res.Shown == 0 && res.Dropped == 0 {
		a.printf("Nothing to show.\n")
		return nil
	}
	a.printf("%s shown", plural(res.Shown, "notification", "notifications"))
	if res.Dropped > 0 {
		a.printf(", %d dropped", res.Dropped)
	}
	a.printf(".\n")
	return nil
}

func (a *App) Subscribe(ctx context.Context) error {
	a.checkOnline(ctx)
	msg, sub, err := a.pushService.Subscribe(ctx)
	if err != nil {
		return err
	}
	a.printf("%s\n", msg)
	if sub != nil {
		a.printf("endpoint: %s\n", sub.Endpoint)
	}
	return nil
}

func (a *App) Unsubscribe(ctx context.Context) error {
	a.checkOnline(ctx)
	msg, err := a.pushService.Unsubscribe(ctx)
	if err != nil {
		return err
	}
	a.printf("%s\n", msg)
	return nil
}
