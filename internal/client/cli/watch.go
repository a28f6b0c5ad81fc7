package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/journify/internal/client/relaylink"
	"github.com/dmitrijs2005/journify/internal/messaging"
	"github.com/dmitrijs2005/journify/internal/platform"
	"golang.org/x/sync/errgroup"
)

// Watch keeps the client in the foreground: it probes connectivity, drains
// the outbox on every reconnect and handles what the relay sends, until ctx
// is done. url is what this client announces to the relay as shown.
func (a *App) Watch(ctx context.Context, url string) error {
	if _, err := a.notificationService.Reconcile(ctx); err != nil {
		a.logger.Error(ctx, "startup reconcile failed", "err", err)
	}

	// the cache policy may have shrunk since the last write
	if n, err := a.cache.Prune(ctx); err != nil {
		a.logger.Warn(ctx, "response cache prune failed", "err", err)
	} else if n > 0 {
		a.logger.Info(ctx, "response cache pruned", "count", n)
	}

	link := relaylink.New(a.config.RelayURL(), a.handleRelayMessage, a.logger, relaylink.WithURL(url))
	a.link = link

	a.printf("Watching (relay %s). Press Ctrl+C to stop.\n", a.config.RelayURL())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.monitor.Run(gctx) })
	g.Go(func() error {
		err := link.Run(gctx)
		if err != nil && gctx.Err() == nil {
			// keep working without the relay; connectivity still drives sync
			a.logger.Warn(gctx, "relay link stopped", "err", err)
			return nil
		}
		return err
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// handleRelayMessage dispatches one message from the relay.
func (a *App) handleRelayMessage(ctx context.Context, m messaging.Message) error {
	switch msg := m.(type) {
	case messaging.SyncStories:
		return a.monitor.Handle(ctx, msg)
	case messaging.ShowToast:
		return a.env.Notify(ctx, platform.Toast{Message: msg.Message, Level: msg.Level})
	case messaging.StoreOfflineNotification:
		if _, err := a.notificationService.Store(ctx, msg); err != nil {
			return err
		}
		return nil
	case messaging.Focus:
		if err := a.env.Notify(ctx, platform.Toast{Message: "Opened " + msg.URL, Level: messaging.ToastInfo}); err != nil {
			return err
		}
		return a.navigate(ctx, msg.URL)
	default:
		a.logger.Debug(ctx, "ignoring relay message", "kind", m.Kind())
		return nil
	}
}

// navigate records url as shown so later clicks on it focus this client.
func (a *App) navigate(ctx context.Context, url string) error {
	if a.link == nil {
		return nil
	}
	err := a.link.Navigate(ctx, url)
	if errors.Is(err, relaylink.ErrNotConnected) {
		a.logger.Debug(ctx, "relay not connected, url kept for next hello", "url", url)
		return nil
	}
	return err
}
