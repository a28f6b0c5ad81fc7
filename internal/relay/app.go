package relay

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/journify/internal/client/localstore"
	"github.com/dmitrijs2005/journify/internal/logging"
	"github.com/dmitrijs2005/journify/internal/platform"
	"github.com/dmitrijs2005/journify/internal/relay/config"
	"golang.org/x/sync/errgroup"
)

type App struct {
	config *config.Config
	logger logging.Logger
	store  *localstore.Store
	relay  *Relay
}

// NewApp opens the shared store and wires the relay with a desktop notifier.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	store, err := localstore.Open(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	parser, err := NewPushParser(c.DefaultIcon)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("push schema: %w", err)
	}

	r := New(Deps{
		Parser:   parser,
		Store:    store.Notifications,
		Notifier: platform.NewDesktopNotifier("Journify", c.AssetDir),
		Opener:   CommandOpener{Command: c.OpenCommand},
		AppURL:   c.AppURL,
		Logger:   logger,
	})

	return &App{config: c, logger: logger, store: store, relay: r}, nil
}

// Run serves the websocket hub and push intake, plus the inbox watcher when
// configured, until ctx is done.
func (app *App) Run(ctx context.Context) error {
	defer app.store.Close()

	app.logger.Info(ctx, "Starting relay...")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return NewServer(app.config.ListenAddr, app.relay, app.logger).Run(gctx)
	})
	if app.config.InboxDir != "" {
		g.Go(func() error {
			return NewInbox(app.config.InboxDir, app.relay, app.logger).Run(gctx)
		})
	}
	return g.Wait()
}
