// Package connectivity watches reachability of the story API and turns
// online transitions and sync requests into work for the sync coordinator
// and notification reconciliation.
package connectivity

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/journify/internal/client/client"
	"github.com/dmitrijs2005/journify/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/journify/internal/client/services"
	"github.com/dmitrijs2005/journify/internal/logging"
	"github.com/dmitrijs2005/journify/internal/messaging"
)

// Pinger reports whether the API can be reached.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Refresher reloads the cached story list after a background sync.
type Refresher func(ctx context.Context) error

type Monitor struct {
	pinger   Pinger
	interval time.Duration
	sync     services.SyncService
	notes    services.NotificationService
	meta     metadata.Repository
	refresh  Refresher
	log      logging.Logger

	online atomic.Bool
	tagsMu sync.Mutex
}

type Option func(*Monitor)

func WithRefresher(r Refresher) Option {
	return func(m *Monitor) { m.refresh = r }
}

func WithInterval(d time.Duration) Option {
	return func(m *Monitor) { m.interval = d }
}

// WithInitialState sets the state the first probe is compared against.
// The default is offline, so a reachable API on start counts as a
// transition.
func WithInitialState(online bool) Option {
	return func(m *Monitor) { m.online.Store(online) }
}

func New(p Pinger, s services.SyncService, n services.NotificationService, meta metadata.Repository, log logging.Logger, opts ...Option) *Monitor {
	m := &Monitor{
		pinger:   p,
		interval: 3 * time.Second,
		sync:     s,
		notes:    n,
		meta:     meta,
		log:      log.With("component", "connectivity"),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

func (m *Monitor) IsOnline() bool { return m.online.Load() }

// Run probes until ctx is done.
func (m *Monitor) Run(ctx context.Context) error {
	m.Probe(ctx)

	t := time.NewTicker(m.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			m.Probe(ctx)
		}
	}
}

// Probe checks reachability once and handles any transition.
func (m *Monitor) Probe(ctx context.Context) {
	m.SetOnline(ctx, m.pinger.Ping(ctx) == nil)
}

// Check probes once and records the result without reacting to it. One-shot
// commands use it so they do not drain on every start.
func (m *Monitor) Check(ctx context.Context) bool {
	online := m.pinger.Ping(ctx) == nil
	m.online.Store(online)
	return online
}

// SetOnline records the state and reacts only when it changed.
func (m *Monitor) SetOnline(ctx context.Context, online bool) {
	if m.online.Swap(online) == online {
		return
	}
	if !online {
		m.log.Info(ctx, "went offline")
		return
	}
	m.log.Info(ctx, "back online")
	m.onOnline(ctx)
}

func (m *Monitor) onOnline(ctx context.Context) {
	if _, err := m.sync.Sync(ctx); err != nil {
		m.log.Error(ctx, "drain after reconnect failed", "err", err)
	}
	if _, err := m.notes.Reconcile(ctx); err != nil {
		m.log.Error(ctx, "reconcile after reconnect failed", "err", err)
	}

	tags, err := m.takeTags(ctx)
	if err != nil {
		m.log.Error(ctx, "load sync tags failed", "err", err)
		return
	}
	for _, tag := range tags {
		if err := m.Handle(ctx, messaging.SyncStories{Tag: tag}); err != nil {
			m.log.Warn(ctx, "background sync failed", "tag", tag, "err", err)
		}
	}
}

// Handle reacts to a cross-process message. Only sync requests carry work
// here; other kinds are ignored.
func (m *Monitor) Handle(ctx context.Context, msg messaging.Message) error {
	sm, ok := msg.(messaging.SyncStories)
	if !ok {
		return nil
	}
	m.log.Debug(ctx, "sync requested", "tag", sm.Tag)

	if _, err := m.sync.Sync(ctx); err != nil {
		return err
	}
	if m.refresh == nil || !m.IsOnline() {
		return nil
	}
	return m.refresh(ctx)
}

// RegisterSync persists tag so it fires on the next online transition, even
// if that transition is observed by another process.
func (m *Monitor) RegisterSync(ctx context.Context, tag string) error {
	m.tagsMu.Lock()
	defer m.tagsMu.Unlock()

	tags, err := m.loadTags(ctx)
	if err != nil {
		return err
	}
	if slices.Contains(tags, tag) {
		return nil
	}
	return m.storeTags(ctx, append(tags, tag))
}

// PendingTags lists registered tags without consuming them.
func (m *Monitor) PendingTags(ctx context.Context) ([]string, error) {
	m.tagsMu.Lock()
	defer m.tagsMu.Unlock()
	return m.loadTags(ctx)
}

func (m *Monitor) takeTags(ctx context.Context) ([]string, error) {
	m.tagsMu.Lock()
	defer m.tagsMu.Unlock()

	tags, err := m.loadTags(ctx)
	if err != nil || len(tags) == 0 {
		return nil, err
	}
	return tags, m.meta.Delete(ctx, metadata.KeySyncTags)
}

func (m *Monitor) loadTags(ctx context.Context) ([]string, error) {
	raw, err := m.meta.Get(ctx, metadata.KeySyncTags)
	if err != nil || len(raw) == 0 {
		return nil, err
	}
	var tags []string
	if err := json.Unmarshal(raw, &tags); err != nil {
		return nil, fmt.Errorf("decode sync tags: %w", err)
	}
	return tags, nil
}

func (m *Monitor) storeTags(ctx context.Context, tags []string) error {
	raw, err := json.Marshal(tags)
	if err != nil {
		return err
	}
	return m.meta.Set(ctx, metadata.KeySyncTags, raw)
}

var _ client.SyncRegistrar = (*Monitor)(nil)
