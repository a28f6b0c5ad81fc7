package cli

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/journify/internal/client/client"
	"github.com/dmitrijs2005/journify/internal/client/models"
	"github.com/dmitrijs2005/journify/internal/messaging"
	"github.com/dmitrijs2005/journify/internal/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCLI_RegisterLoginStatus(t *testing.T) {
	f := newCLIFixture(t)

	out, err := f.run(t, "", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Not logged in (online)")

	f.signUp(t)

	out, err = f.run(t, "", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as Dimas (online)")
	assert.Contains(t, out, "0 stories waiting to sync")
	assert.Contains(t, out, "Local store: schema v5, 0 cached responses")
}

func TestCLI_LoginPromptsForMissingCredentials(t *testing.T) {
	f := newCLIFixture(t)
	_, err := f.run(t, "", "register", "--name", "Dimas", "--email", "dimas@example.com", "--password", "secret123")
	require.NoError(t, err)

	out, err := f.run(t, "dimas@example.com\nsecret123\n", "login")
	require.NoError(t, err)
	assert.Contains(t, out, "Email: ")
	assert.Contains(t, out, "Logged in as Dimas.")
}

func TestCLI_OfflineLoginUsesCachedCredentials(t *testing.T) {
	f := newCLIFixture(t)
	f.signUp(t)
	f.pinger.down.Store(true)

	out, err := f.run(t, "", "login", "--email", "Dimas@example.com", "--password", "secret123")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in offline as Dimas.")

	_, err = f.run(t, "", "login", "--email", "dimas@example.com", "--password", "nope")
	require.ErrorIs(t, err, client.ErrUnauthorized)
}

func TestCLI_OfflineLoginWithoutCache(t *testing.T) {
	f := newCLIFixture(t)
	f.pinger.down.Store(true)

	out, err := f.run(t, "", "login", "--email", "dimas@example.com", "--password", "secret123")
	require.ErrorIs(t, err, client.ErrLocalDataNotAvailable)
	assert.Contains(t, out, "No saved credentials")
}

func TestCLI_OfflineStoryIsSentOnSync(t *testing.T) {
	f := newCLIFixture(t)
	f.signUp(t)
	f.pinger.down.Store(true)

	out, err := f.run(t, "", "story", "add", "test", "--lat", "1.0", "--lon", "2.0")
	require.NoError(t, err)
	assert.Contains(t, out, "saved offline")

	out, err = f.run(t, "", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "1 story waiting to sync")

	out, err = f.run(t, "", "story", "sync")
	require.NoError(t, err)
	assert.Contains(t, out, "Offline, nothing sent.")

	f.pinger.down.Store(false)
	_, err = f.run(t, "", "story", "sync")
	require.NoError(t, err)
	assert.Contains(t, f.recorder.Toasts(), platform.Toast{Message: "1 stories synced", Level: messaging.ToastSuccess})

	out, err = f.run(t, "", "story", "list", "--location")
	require.NoError(t, err)
	assert.Contains(t, out, "test")
	assert.NotContains(t, out, "[pending]")

	out, err = f.run(t, "", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "0 stories waiting to sync")
}

func TestCLI_OnlineStoryIsSentImmediately(t *testing.T) {
	f := newCLIFixture(t)
	f.signUp(t)

	out, err := f.run(t, "", "story", "add", "hello world")
	require.NoError(t, err)
	assert.Contains(t, out, "sent.")

	out, err = f.run(t, "", "story", "sync")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing to sync.")
}

func TestCLI_FailedImmediateSendKeepsStoryAndFails(t *testing.T) {
	f := newCLIFixture(t)

	out, err := f.run(t, "", "story", "add", "kept")
	require.ErrorIs(t, err, client.ErrNotAuthenticated)
	assert.Contains(t, out, "saved locally, sending failed")

	out, err = f.run(t, "", "story", "list", "--local")
	require.NoError(t, err)
	assert.Contains(t, out, "kept")

	out, err = f.run(t, "", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "1 story waiting to sync")
}

func TestCLI_StoryValidation(t *testing.T) {
	f := newCLIFixture(t)
	f.signUp(t)

	_, err := f.run(t, "", "story", "add", "x", "--lat", "north")
	require.Error(t, err)

	_, err = f.run(t, "\n", "story", "add")
	require.Error(t, err)
}

func TestCLI_LocalListShowFavoritesDelete(t *testing.T) {
	f := newCLIFixture(t)
	f.signUp(t)
	f.pinger.down.Store(true)

	_, err := f.run(t, "", "story", "add", "pending one")
	require.NoError(t, err)

	a := f.app(t, "")
	ctx := context.Background()
	local, err := a.storyService.ListLocal(ctx)
	require.NoError(t, err)
	require.Len(t, local, 1)
	id := local[0].ID
	require.True(t, models.IsOfflineID(id))

	out, err := f.run(t, "", "story", "list", "--local")
	require.NoError(t, err)
	assert.Contains(t, out, id)
	assert.Contains(t, out, "[pending]")

	_, err = f.run(t, "", "favorite", "add", id)
	require.NoError(t, err)

	out, err = f.run(t, "", "story", "show", id)
	require.NoError(t, err)
	assert.Contains(t, out, "pending one")
	assert.Contains(t, out, "Favorite:")
	assert.Contains(t, out, "not yet")

	_, err = f.run(t, "", "story", "delete", id)
	require.NoError(t, err)

	out, err = f.run(t, "", "favorite", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "not saved on this device")

	out, err = f.run(t, "", "favorite", "toggle", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Removed")
}

func TestCLI_Notifications(t *testing.T) {
	f := newCLIFixture(t)
	a := f.app(t, "")
	ctx := context.Background()

	_, err := a.notificationService.Store(ctx, messaging.StoreOfflineNotification{
		Notification: models.NotificationPayload{Title: "Story created", Body: "New story: hi"},
	})
	require.NoError(t, err)

	out, err := f.run(t, "", "notifications", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "new")
	assert.Contains(t, out, "Story created")

	out, err = f.run(t, "", "notifications", "reconcile")
	require.NoError(t, err)
	assert.Contains(t, out, "1 notification shown.")
	require.Len(t, f.recorder.Notifications(), 1)

	out, err = f.run(t, "", "notifications", "reconcile")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing to show.")
}

func TestCLI_SubscribeRequiresEndpoint(t *testing.T) {
	f := newCLIFixture(t)
	f.signUp(t)

	_, err := f.run(t, "", "notifications", "subscribe")
	require.Error(t, err)

	out, err := f.run(t, "", "notifications", "subscribe", "--push-endpoint", "http://127.0.0.1:8787/push")
	require.NoError(t, err)
	assert.Contains(t, out, "endpoint: http://127.0.0.1:8787/push")

	out, err = f.run(t, "", "notifications", "unsubscribe")
	require.NoError(t, err)
	assert.Contains(t, out, "unsubscribe")
}

func TestHandleRelayMessage(t *testing.T) {
	f := newCLIFixture(t)
	a := f.app(t, "")
	ctx := context.Background()

	require.NoError(t, a.handleRelayMessage(ctx, messaging.ShowToast{Message: "Push notification received: hi", Level: messaging.ToastInfo}))
	assert.Equal(t, []platform.Toast{{Message: "Push notification received: hi", Level: messaging.ToastInfo}}, f.recorder.Toasts())

	require.NoError(t, a.handleRelayMessage(ctx, messaging.StoreOfflineNotification{
		Notification: models.NotificationPayload{Title: "t", Body: "b"},
	}))
	// already persisted by the relay
	require.NoError(t, a.handleRelayMessage(ctx, messaging.StoreOfflineNotification{ID: 42}))
	notes, err := a.notificationService.List(ctx)
	require.NoError(t, err)
	assert.Len(t, notes, 1)

	require.NoError(t, a.handleRelayMessage(ctx, messaging.SyncStories{Tag: client.SyncTagStories}))
	require.NoError(t, a.handleRelayMessage(ctx, messaging.Hello{ClientID: "x"}))
}

func TestApp_Mode(t *testing.T) {
	f := newCLIFixture(t)
	a := f.app(t, "")
	ctx := context.Background()

	f.pinger.down.Store(true)
	assert.Equal(t, ModeOffline, a.checkOnline(ctx))
	assert.False(t, a.env.IsOnline())

	f.pinger.down.Store(false)
	assert.Equal(t, ModeOnline, a.checkOnline(ctx))
	assert.True(t, a.env.IsOnline())
}
