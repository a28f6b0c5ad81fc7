package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/journify/internal/client/localstore"
	"github.com/dmitrijs2005/journify/internal/client/models"
	"github.com/dmitrijs2005/journify/internal/client/repositories/responsecache"
	"github.com/dmitrijs2005/journify/internal/logging"
	"github.com/dmitrijs2005/journify/internal/platform"
	"github.com/stretchr/testify/require"
)

type fakeRegistry struct {
	mu   sync.Mutex
	tags []string
}

func (f *fakeRegistry) RegisterSync(_ context.Context, tag string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tags = append(f.tags, tag)
	return nil
}

func (f *fakeRegistry) Tags() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.tags...)
}

type harness struct {
	client   *HTTPClient
	store    *localstore.Store
	session  *SessionStore
	registry *fakeRegistry
	conn     *platform.Static
	server   *httptest.Server
	clock    *time.Time
}

func newHarness(t *testing.T, h http.Handler) *harness {
	t.Helper()
	ctx := context.Background()

	store, err := localstore.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	now := time.UnixMilli(1700000000000)
	clock := &now
	nowFn := func() time.Time { return *clock }

	session := NewSessionStore(store.Metadata, nowFn)
	registry := &fakeRegistry{}
	conn := platform.NewStatic(true)

	c := NewHTTPClient(Options{
		BaseURL:  srv.URL,
		Session:  session,
		Cache:    NewResponseCache(store.Cache, responsecache.DefaultPolicy, nowFn, logging.Nop()),
		Conn:     conn,
		Registry: registry,
		Logger:   logging.Nop(),
	})

	return &harness{client: c, store: store, session: session, registry: registry, conn: conn, server: srv, clock: clock}
}

func (h *harness) login(t *testing.T, token string) {
	t.Helper()
	require.NoError(t, h.session.Save(context.Background(), &models.Session{Token: token, UserID: "user-1", Name: "Dimas"}))
}
