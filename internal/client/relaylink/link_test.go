package relaylink

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/journify/internal/client/localstore"
	"github.com/dmitrijs2005/journify/internal/logging"
	"github.com/dmitrijs2005/journify/internal/messaging"
	"github.com/dmitrijs2005/journify/internal/platform/platformtest"
	"github.com/dmitrijs2005/journify/internal/relay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type inbox struct {
	mu   sync.Mutex
	msgs []messaging.Message
}

func (i *inbox) handle(_ context.Context, m messaging.Message) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.msgs = append(i.msgs, m)
	return nil
}

func (i *inbox) all() []messaging.Message {
	i.mu.Lock()
	defer i.mu.Unlock()
	return append([]messaging.Message(nil), i.msgs...)
}

func startRelay(t *testing.T) (*relay.Relay, string) {
	t.Helper()
	store, err := localstore.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	parser, err := relay.NewPushParser("/images/logo.png")
	require.NoError(t, err)
	r := relay.New(relay.Deps{
		Parser:   parser,
		Store:    store.Notifications,
		Notifier: &platformtest.Recorder{},
		Logger:   logging.Nop(),
	})
	srv := httptest.NewServer(relay.NewServer("", r, logging.Nop()).Handler())
	t.Cleanup(srv.Close)
	return r, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func TestLink_ReceivesRelayMessages(t *testing.T) {
	r, url := startRelay(t)
	in := &inbox{}
	link := New(url, in.handle, logging.Nop(), WithBackoff(3, 10*time.Millisecond, 50*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- link.Run(ctx) }()

	require.Eventually(t, func() bool { return r.Hub().ActiveCount() == 1 }, 2*time.Second, 10*time.Millisecond)
	peers := r.Hub().Peers()
	assert.Equal(t, link.ClientID(), peers[0].ClientID)
	assert.Equal(t, "/", peers[0].URL)

	require.NoError(t, link.Navigate(ctx, "/favorites"))
	require.Eventually(t, func() bool { return r.Hub().Peers()[0].URL == "/favorites" }, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, 1, r.Sync(ctx, "sync-stories"))
	_, err := r.Push(ctx, []byte(`{"title":"T","body":"B"}`))
	require.NoError(t, err)

	require.Eventually(t, func() bool { return len(in.all()) == 2 }, 2*time.Second, 10*time.Millisecond)
	msgs := in.all()
	assert.Equal(t, messaging.SyncStories{Tag: "sync-stories"}, msgs[0])
	assert.Equal(t, messaging.ShowToast{Message: "B", Level: messaging.ToastInfo}, msgs[1])

	cancel()
	require.NoError(t, <-done)
}

func TestLink_GivesUpWhenRelayIsDown(t *testing.T) {
	link := New("ws://127.0.0.1:1/ws", (&inbox{}).handle, logging.Nop(), WithBackoff(2, time.Millisecond, 5*time.Millisecond))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := link.Run(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connect relay")
}

func TestLink_NavigateWhileDisconnected(t *testing.T) {
	link := New("ws://127.0.0.1:1/ws", (&inbox{}).handle, logging.Nop())
	require.ErrorIs(t, link.Navigate(context.Background(), "/map"), ErrNotConnected)
	assert.Equal(t, "/map", link.currentURL())

	link = New("ws://127.0.0.1:1/ws", (&inbox{}).handle, logging.Nop(), WithURL("/stories/story-1"))
	assert.Equal(t, "/stories/story-1", link.currentURL())
}
