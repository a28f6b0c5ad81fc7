package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/journify/internal/client/client"
	"github.com/dmitrijs2005/journify/internal/client/config"
	"github.com/dmitrijs2005/journify/internal/client/connectivity"
	"github.com/dmitrijs2005/journify/internal/client/localstore"
	"github.com/dmitrijs2005/journify/internal/client/relaylink"
	"github.com/dmitrijs2005/journify/internal/client/services"
	"github.com/dmitrijs2005/journify/internal/logging"
	"github.com/dmitrijs2005/journify/internal/platform"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// monitorConn lets services be built before the monitor that drives them.
type monitorConn struct {
	m atomic.Pointer[connectivity.Monitor]
}

func (c *monitorConn) IsOnline() bool {
	m := c.m.Load()
	return m != nil && m.IsOnline()
}

type App struct {
	config *config.Config
	logger logging.Logger
	store  *localstore.Store

	env      platform.Env
	gateway  *client.HTTPClient
	cache    *client.ResponseCache
	monitor  *connectivity.Monitor
	sessions *client.SessionStore

	authService         services.AuthService
	storyService        services.StoryService
	syncService         services.SyncService
	notificationService services.NotificationService
	pushService         services.PushService

	// link is set while Watch runs.
	link *relaylink.Link

	reader      *bufio.Reader
	interactive bool
	out         io.Writer
}

// NewApp opens the local store and wires every service against the API at
// c.APIBaseURL. Toasts go to out; system notifications go to the desktop.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger, in io.Reader, out io.Writer) (*App, error) {
	store, err := localstore.Open(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	return newApp(c, logger, store, nil, platform.Router{
		Toasts: platform.NewConsoleToaster(out),
		System: platform.NewDesktopNotifier("Journify", ""),
	}, in, out), nil
}

// newApp wires an App over an open store. pinger defaults to the gateway.
func newApp(c *config.Config, logger logging.Logger, store *localstore.Store, pinger connectivity.Pinger, notifier platform.Notifier, in io.Reader, out io.Writer) *App {
	conn := &monitorConn{}
	env := platform.Env{Conn: conn, Notifier: notifier}
	now := time.Now

	sessions := client.NewSessionStore(store.Metadata, now)
	cache := client.NewResponseCache(store.Cache, c.CachePolicy(), now, logger)
	gateway := client.NewHTTPClient(client.Options{
		BaseURL: c.APIBaseURL,
		Session: sessions,
		Cache:   cache,
		Conn:    conn,
		Logger:  logger,
	})

	syncSvc := services.NewSyncService(store.Pending, store.Stories, gateway, env, logger, now)
	notes := services.NewNotificationService(store.Notifications, env, logger)
	stories := services.NewStoryService(services.StoryDeps{
		Stories:   store.Stories,
		Favorites: store.Favorites,
		Pending:   store.Pending,
		Client:    gateway,
		Env:       env,
		PhotoDir:  c.PhotoDir,
		Logger:    logger,
		Now:       now,
	})

	if pinger == nil {
		pinger = gateway
	}
	monitor := connectivity.New(pinger, syncSvc, notes, store.Metadata, logger,
		connectivity.WithInterval(c.OnlineCheckInterval),
		connectivity.WithRefresher(func(ctx context.Context) error {
			_, err := stories.List(ctx, true)
			return err
		}),
	)
	conn.m.Store(monitor)
	gateway.SetRegistry(monitor)

	return &App{
		config:              c,
		logger:              logger,
		store:               store,
		env:                 env,
		gateway:             gateway,
		cache:               cache,
		monitor:             monitor,
		sessions:            sessions,
		authService:         services.NewAuthService(gateway, store.Metadata, sessions, env, logger),
		storyService:        stories,
		syncService:         syncSvc,
		notificationService: notes,
		pushService:         services.NewPushService(gateway, store.Metadata, c.PushEndpoint),
		reader:              bufio.NewReader(in),
		interactive:         isTerminal(in),
		out:                 out,
	}
}

func (a *App) Close() error {
	return a.store.Close()
}

func (a *App) mode() Mode {
	if a.monitor.IsOnline() {
		return ModeOnline
	}
	return ModeOffline
}

// checkOnline probes the API once without draining the outbox.
func (a *App) checkOnline(ctx context.Context) Mode {
	a.monitor.Check(ctx)
	return a.mode()
}

func (a *App) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(a.out, format, args...)
}
