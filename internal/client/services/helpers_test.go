package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/journify/internal/client/client"
	"github.com/dmitrijs2005/journify/internal/client/localstore"
	"github.com/dmitrijs2005/journify/internal/client/models"
	"github.com/dmitrijs2005/journify/internal/client/repositories/pending"
	"github.com/dmitrijs2005/journify/internal/logging"
	"github.com/dmitrijs2005/journify/internal/platform"
	"github.com/dmitrijs2005/journify/internal/platform/platformtest"
	"github.com/stretchr/testify/require"
)

// fakeClient implements client.Client for service tests. Methods not
// overridden panic through the nil embedded interface.
type fakeClient struct {
	client.Client

	mu sync.Mutex

	SubmitFn func(p models.AddStoryPayload) (*models.Story, error)
	Submits  []models.AddStoryPayload

	LoginFn    func(email, password string) (*models.Session, error)
	LastLogin  string
	Registered []string

	SubscribeErr error
	Subscribed   []models.PushSubscription
	Unsubscribed []string

	ListFn func(withLocation bool) ([]models.Story, error)
}

func (f *fakeClient) SubmitStory(_ context.Context, p models.AddStoryPayload) (*models.Story, error) {
	f.mu.Lock()
	f.Submits = append(f.Submits, p)
	fn := f.SubmitFn
	f.mu.Unlock()
	if fn != nil {
		return fn(p)
	}
	return &models.Story{ID: "story-srv", Description: p.Description}, nil
}

func (f *fakeClient) SubmitCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Submits)
}

func (f *fakeClient) Login(_ context.Context, email, password string) (*models.Session, error) {
	f.mu.Lock()
	f.LastLogin = email
	f.mu.Unlock()
	if f.LoginFn != nil {
		return f.LoginFn(email, password)
	}
	return &models.Session{Token: "tok-" + email, UserID: "user-1", Name: "Dimas"}, nil
}

func (f *fakeClient) Register(_ context.Context, name, email, _ string) error {
	f.Registered = append(f.Registered, name+"|"+email)
	return nil
}

func (f *fakeClient) Subscribe(_ context.Context, sub models.PushSubscription) (string, error) {
	if f.SubscribeErr != nil {
		return "", f.SubscribeErr
	}
	f.Subscribed = append(f.Subscribed, sub)
	return "subscribed", nil
}

func (f *fakeClient) Unsubscribe(_ context.Context, endpoint string) (string, error) {
	f.Unsubscribed = append(f.Unsubscribed, endpoint)
	return "unsubscribed", nil
}

func (f *fakeClient) ListStories(context.Context) ([]models.Story, error) {
	return f.ListFn(false)
}

func (f *fakeClient) ListStoriesWithLocation(context.Context) ([]models.Story, error) {
	return f.ListFn(true)
}

func (f *fakeClient) Ping(context.Context) error { return nil }

// claimedPending behaves as if a drain in another process holds every entry.
type claimedPending struct {
	pending.Repository
}

func (claimedPending) Claim(context.Context, int64) (bool, error) { return false, nil }

type fixture struct {
	store    *localstore.Store
	client   *fakeClient
	conn     *platform.Static
	recorder *platformtest.Recorder
	env      platform.Env
	clock    *time.Time
	now      func() time.Time
}

func newFixture(t *testing.T, online bool) *fixture {
	t.Helper()

	start := time.UnixMilli(1700000000000)
	clock := &start
	now := func() time.Time { return *clock }

	store, err := localstore.Open(context.Background(), ":memory:", localstore.WithClock(now))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	conn := platform.NewStatic(online)
	rec := &platformtest.Recorder{}

	return &fixture{
		store:    store,
		client:   &fakeClient{},
		conn:     conn,
		recorder: rec,
		env:      platform.Env{Conn: conn, Notifier: rec},
		clock:    clock,
		now:      now,
	}
}

func (f *fixture) advance(d time.Duration) { *f.clock = f.clock.Add(d) }

func (f *fixture) syncService() SyncService {
	return NewSyncService(f.store.Pending, f.store.Stories, f.client, f.env, logging.Nop(), f.now)
}

func (f *fixture) storyService(t *testing.T) StoryService {
	return NewStoryService(StoryDeps{
		Stories:   f.store.Stories,
		Favorites: f.store.Favorites,
		Pending:   f.store.Pending,
		Client:    f.client,
		Env:       f.env,
		PhotoDir:  t.TempDir(),
		Logger:    logging.Nop(),
		Now:       f.now,
	})
}
