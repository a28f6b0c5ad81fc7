package platform

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/journify/internal/client/models"
	"github.com/dmitrijs2005/journify/internal/messaging"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	got []Event
}

func (r *recordingNotifier) Notify(_ context.Context, ev Event) error {
	r.got = append(r.got, ev)
	return nil
}

func TestEnv_Defaults(t *testing.T) {
	var env Env
	assert.False(t, env.IsOnline())
	require.ErrorIs(t, env.Notify(context.Background(), Toast{Message: "x"}), ErrNoSurface)

	s := NewStatic(true)
	env = Env{Conn: s}
	assert.True(t, env.IsOnline())
	s.Set(false)
	assert.False(t, env.IsOnline())
}

func TestRouter(t *testing.T) {
	toasts, system := &recordingNotifier{}, &recordingNotifier{}
	r := Router{Toasts: toasts, System: system}
	ctx := context.Background()

	require.NoError(t, r.Notify(ctx, Toast{Message: "saved"}))
	require.NoError(t, r.Notify(ctx, SystemNotification{NotificationPayload: models.NotificationPayload{Title: "Sync complete"}}))

	assert.Len(t, toasts.got, 1)
	assert.Len(t, system.got, 1)

	require.ErrorIs(t, Router{}.Notify(ctx, Toast{}), ErrNoSurface)
}

func TestConsoleToaster(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	c := NewConsoleToaster(&buf)
	ctx := context.Background()

	require.NoError(t, c.Notify(ctx, Toast{Message: "2 stories synced", Level: messaging.ToastSuccess}))
	require.NoError(t, c.Notify(ctx, SystemNotification{NotificationPayload: models.NotificationPayload{Title: "New story", Body: "Dimas posted"}}))

	assert.Equal(t, "» 2 stories synced\n🔔 New story: Dimas posted\n", buf.String())
}

func TestDesktopNotifier(t *testing.T) {
	assets := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(assets, "images"), 0o755))
	logo := filepath.Join(assets, "images", "logo.png")
	require.NoError(t, os.WriteFile(logo, []byte("png"), 0o600))

	var title, body string
	var icon string
	d := &DesktopNotifier{AssetDir: assets, notify: func(t, m, i string) error {
		title, body, icon = t, m, i
		return nil
	}}
	ctx := context.Background()

	require.NoError(t, d.Notify(ctx, SystemNotification{NotificationPayload: models.NotificationPayload{
		Title: "Sync complete", Body: "1 story synced", Icon: "/images/logo.png",
	}}))
	assert.Equal(t, "Sync complete", title)
	assert.Equal(t, "1 story synced", body)
	assert.Equal(t, logo, icon)

	require.NoError(t, d.Notify(ctx, SystemNotification{NotificationPayload: models.NotificationPayload{Icon: "/missing.png"}}))
	assert.Equal(t, "", icon)

	require.ErrorIs(t, d.Notify(ctx, Toast{}), ErrNoSurface)

	d.notify = func(string, string, string) error { return errors.New("no dbus") }
	require.Error(t, d.Notify(ctx, SystemNotification{}))
}
