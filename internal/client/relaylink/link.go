// Package relaylink keeps a foreground client connected to the notification
// relay and dispatches the messages it receives.
package relaylink

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/dmitrijs2005/journify/internal/logging"
	"github.com/dmitrijs2005/journify/internal/messaging"
	"github.com/google/uuid"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

// Handler is called for every message from the relay, one at a time.
type Handler func(ctx context.Context, m messaging.Message) error

type Link struct {
	url      string
	clientID string
	handler  Handler
	log      logging.Logger

	attempts uint
	delay    time.Duration
	maxDelay time.Duration

	mu      sync.Mutex
	conn    *websocket.Conn
	current string
}

type Option func(*Link)

// WithBackoff bounds one reconnect round.
func WithBackoff(attempts uint, delay, maxDelay time.Duration) Option {
	return func(l *Link) { l.attempts, l.delay, l.maxDelay = attempts, delay, maxDelay }
}

// WithURL sets the url announced in the hello message.
func WithURL(url string) Option {
	return func(l *Link) {
		if url != "" {
			l.current = url
		}
	}
}

func New(url string, h Handler, log logging.Logger, opts ...Option) *Link {
	l := &Link{
		url:      url,
		clientID: uuid.NewString(),
		handler:  h,
		log:      log.With("component", "relaylink"),
		attempts: 10,
		delay:    time.Second,
		maxDelay: 30 * time.Second,
		current:  "/",
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

func (l *Link) ClientID() string { return l.clientID }

// Run connects, announces the client, and reads until ctx is done. A dropped
// connection is redialed with backoff; Run gives up only when a whole round of
// attempts fails.
func (l *Link) Run(ctx context.Context) error {
	for {
		conn, err := l.dial(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("connect relay: %w", err)
		}

		err = l.serve(ctx, conn)
		l.setConn(nil)
		if ctx.Err() != nil {
			_ = conn.Close(websocket.StatusNormalClosure, "")
			return nil
		}
		_ = conn.CloseNow()
		l.log.Warn(ctx, "relay connection lost", "err", err)
	}
}

func (l *Link) dial(ctx context.Context) (*websocket.Conn, error) {
	var conn *websocket.Conn
	err := retry.Do(
		func() error {
			c, _, err := websocket.Dial(ctx, l.url, nil)
			if err != nil {
				return err
			}
			conn = c
			return nil
		},
		retry.Attempts(l.attempts),
		retry.Delay(l.delay),
		retry.MaxDelay(l.maxDelay),
		retry.MaxJitter(l.delay),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			l.log.Debug(ctx, "retrying relay dial", "attempt", n, "err", err)
		}),
	)
	return conn, err
}

func (l *Link) serve(ctx context.Context, conn *websocket.Conn) error {
	l.setConn(conn)
	if err := l.write(ctx, conn, messaging.Hello{ClientID: l.clientID, URL: l.currentURL()}); err != nil {
		return err
	}
	l.log.Info(ctx, "connected to relay", "client_id", l.clientID)

	for {
		var env messaging.Envelope
		if err := wsjson.Read(ctx, conn, &env); err != nil {
			return err
		}
		m, err := env.Unwrap()
		if err != nil {
			l.log.Warn(ctx, "dropping relay message", "kind", env.Type, "err", err)
			continue
		}
		if err := l.handler(ctx, m); err != nil {
			l.log.Warn(ctx, "relay message handler failed", "kind", m.Kind(), "err", err)
		}
	}
}

var ErrNotConnected = errors.New("relay not connected")

// Navigate records the url this client shows and tells the relay when
// connected, so notification clicks can focus it.
func (l *Link) Navigate(ctx context.Context, url string) error {
	l.mu.Lock()
	l.current = url
	conn := l.conn
	l.mu.Unlock()

	if conn == nil {
		return ErrNotConnected
	}
	return l.write(ctx, conn, messaging.Navigate{URL: url})
}

func (l *Link) write(ctx context.Context, conn *websocket.Conn, m messaging.Message) error {
	env, err := messaging.Wrap(m)
	if err != nil {
		return err
	}
	return wsjson.Write(ctx, conn, env)
}

func (l *Link) setConn(c *websocket.Conn) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.conn = c
}

func (l *Link) currentURL() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}
