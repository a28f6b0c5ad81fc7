// Package platformtest provides a recording platform.Notifier for tests.
package platformtest

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/journify/internal/platform"
)

// Recorder remembers every event it is given. FailWhen, if set, makes Notify
// return its result for matching events.
type Recorder struct {
	mu       sync.Mutex
	events   []platform.Event
	FailWhen func(platform.Event) error
}

func (r *Recorder) Notify(_ context.Context, ev platform.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	if r.FailWhen != nil {
		return r.FailWhen(ev)
	}
	return nil
}

func (r *Recorder) Events() []platform.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]platform.Event(nil), r.events...)
}

func (r *Recorder) Toasts() []platform.Toast {
	var out []platform.Toast
	for _, ev := range r.Events() {
		if t, ok := ev.(platform.Toast); ok {
			out = append(out, t)
		}
	}
	return out
}

func (r *Recorder) Notifications() []platform.SystemNotification {
	var out []platform.SystemNotification
	for _, ev := range r.Events() {
		if n, ok := ev.(platform.SystemNotification); ok {
			out = append(out, n)
		}
	}
	return out
}
