// Package platform is the explicit context handed to every component in
// place of global state: whether the device is online, and how to put
// something in front of the user.
package platform

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/dmitrijs2005/journify/internal/client/models"
	"github.com/dmitrijs2005/journify/internal/messaging"
)

var ErrNoSurface = errors.New("no surface for event")

// Event is either a Toast or a SystemNotification.
type Event interface {
	isEvent()
}

// Toast is transient in-app feedback.
type Toast struct {
	Message string
	Level   messaging.ToastLevel
}

// SystemNotification is shown on the platform notification surface.
type SystemNotification struct {
	models.NotificationPayload
}

func (Toast) isEvent()              {}
func (SystemNotification) isEvent() {}

type Connectivity interface {
	IsOnline() bool
}

type Notifier interface {
	Notify(ctx context.Context, ev Event) error
}

// Env bundles the capabilities components need from their host.
type Env struct {
	Conn     Connectivity
	Notifier Notifier
}

func (e Env) IsOnline() bool {
	if e.Conn == nil {
		return false
	}
	return e.Conn.IsOnline()
}

func (e Env) Notify(ctx context.Context, ev Event) error {
	if e.Notifier == nil {
		return ErrNoSurface
	}
	return e.Notifier.Notify(ctx, ev)
}

// Router sends toasts and system notifications to separate surfaces.
type Router struct {
	Toasts Notifier
	System Notifier
}

func (r Router) Notify(ctx context.Context, ev Event) error {
	var target Notifier
	switch ev.(type) {
	case Toast:
		target = r.Toasts
	case SystemNotification:
		target = r.System
	}
	if target == nil {
		return fmt.Errorf("%w: %T", ErrNoSurface, ev)
	}
	return target.Notify(ctx, ev)
}

// Static is connectivity that only changes when Set is called.
type Static struct {
	online atomic.Bool
}

func NewStatic(online bool) *Static {
	s := &Static{}
	s.online.Store(online)
	return s
}

func (s *Static) IsOnline() bool { return s.online.Load() }

func (s *Static) Set(online bool) { s.online.Store(online) }
