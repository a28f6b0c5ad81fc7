// Package relay is the notification relay daemon. It accepts push payloads
// while no foreground client may be running, shows them on the desktop,
// defers them for in-app display, and forwards sync requests and clicks to
// connected clients over websockets.
package relay

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/journify/internal/client/client"
	"github.com/dmitrijs2005/journify/internal/client/models"
	"github.com/dmitrijs2005/journify/internal/client/repositories/notifications"
	"github.com/dmitrijs2005/journify/internal/logging"
	"github.com/dmitrijs2005/journify/internal/messaging"
	"github.com/dmitrijs2005/journify/internal/platform"
)

// Delivery reports what happened to one push.
type Delivery struct {
	Notification models.NotificationPayload `json:"notification"`
	Shown        bool                       `json:"shown"`
	Clients      int                        `json:"clients"`
	// DeferredID is set when the payload was stored for later display.
	DeferredID int64 `json:"deferred_id,omitempty"`
}

// ClickResult says whether a click focused an existing client or opened a
// new window.
type ClickResult struct {
	URL     string `json:"url"`
	Focused string `json:"focused,omitempty"`
	Opened  bool   `json:"opened"`
}

type Relay struct {
	hub      *Hub
	parser   *PushParser
	store    notifications.Repository
	notifier platform.Notifier
	opener   Opener
	appURL   string
	log      logging.Logger
}

type Deps struct {
	Hub      *Hub
	Parser   *PushParser
	Store    notifications.Repository
	Notifier platform.Notifier
	Opener   Opener
	AppURL   string
	Logger   logging.Logger
}

func New(d Deps) *Relay {
	if d.Hub == nil {
		d.Hub = NewHub()
	}
	return &Relay{
		hub:      d.Hub,
		parser:   d.Parser,
		store:    d.Store,
		notifier: d.Notifier,
		opener:   d.Opener,
		appURL:   d.AppURL,
		log:      d.Logger.With("component", "relay"),
	}
}

func (r *Relay) Hub() *Hub { return r.hub }

// Push handles one inbound push body.
//
// With active clients the notification is shown and every active client gets
// a toast. Without any, it is still shown, then persisted for in-app
// reconciliation, and every connection that is still loading is handed the
// stored id.
func (r *Relay) Push(ctx context.Context, raw []byte) (Delivery, error) {
	n := r.parser.Parse(raw)
	d := Delivery{Notification: n}

	if err := r.notifier.Notify(ctx, platform.SystemNotification{NotificationPayload: n}); err != nil {
		r.log.Warn(ctx, "show notification failed", "title", n.Title, "err", err)
	} else {
		d.Shown = true
	}

	if active := r.hub.ActiveCount(); active > 0 {
		msg := n.Body
		if msg == "" {
			msg = "Push notification received: " + n.Title
		}
		d.Clients = r.hub.Broadcast(messaging.ShowToast{Message: msg, Level: messaging.ToastInfo}, true)
		r.log.Info(ctx, "push delivered to active clients", "count", d.Clients)
		return d, nil
	}

	id, err := r.store.Enqueue(ctx, n)
	if err != nil {
		return d, fmt.Errorf("defer notification: %w", err)
	}
	d.DeferredID = id
	d.Clients = r.hub.Broadcast(messaging.StoreOfflineNotification{ID: id, Notification: n}, false)
	r.log.Info(ctx, "push deferred", "id", id, "count", d.Clients)
	return d, nil
}

// Click focuses a client already showing the target url or opens a new
// window there. The target comes from data.url and defaults to "/".
func (r *Relay) Click(ctx context.Context, data models.NotificationData, action string) (ClickResult, error) {
	target := models.NotificationPayload{Data: data}.TargetURL()
	res := ClickResult{URL: target}

	if connID, ok := r.hub.FocusURL(target); ok {
		res.Focused = connID
		r.log.Info(ctx, "focused client", "url", target, "client_id", connID, "action", action)
		return res, nil
	}

	if r.opener == nil {
		return res, fmt.Errorf("open %s: no opener configured", target)
	}
	abs := r.absolute(target)
	if err := r.opener.Open(ctx, abs); err != nil {
		return res, fmt.Errorf("open %s: %w", abs, err)
	}
	res.Opened = true
	r.log.Info(ctx, "opened window", "url", abs, "action", action)
	return res, nil
}

func (r *Relay) absolute(target string) string {
	if u, err := url.Parse(target); err == nil && u.IsAbs() {
		return target
	}
	if r.appURL == "" {
		return target
	}
	return strings.TrimRight(r.appURL, "/") + "/" + strings.TrimLeft(target, "/")
}

// Sync forwards a background-sync tag to every connected client. Only the
// stories tag is known; others are ignored.
func (r *Relay) Sync(ctx context.Context, tag string) int {
	if tag != client.SyncTagStories {
		r.log.Debug(ctx, "ignoring unknown sync tag", "tag", tag)
		return 0
	}
	n := r.hub.Broadcast(messaging.SyncStories{Tag: tag}, false)
	r.log.Info(ctx, "background sync forwarded", "tag", tag, "count", n)
	return n
}
