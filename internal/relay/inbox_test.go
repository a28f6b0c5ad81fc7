package relay

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/journify/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dropFile(t *testing.T, dir, name, body string) {
	t.Helper()
	tmp := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(tmp, []byte(body), 0o600))
	require.NoError(t, os.Rename(tmp, filepath.Join(dir, name)))
}

func TestInbox_ProcessesExistingAndNewFiles(t *testing.T) {
	f := newRelayFixture(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "early.json"), []byte(`{"title":"early"}`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte(`x`), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewInbox(dir, f.relay, logging.Nop()).Run(ctx) }()

	require.Eventually(t, func() bool { return len(f.recorder.Notifications()) == 1 }, 2*time.Second, 10*time.Millisecond)

	dropFile(t, dir, "late.json", `{"title":"late"}`)
	require.Eventually(t, func() bool { return len(f.recorder.Notifications()) == 2 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	notes := f.recorder.Notifications()
	assert.Equal(t, "early", notes[0].Title)
	assert.Equal(t, "late", notes[1].Title)

	_, err := os.Stat(filepath.Join(dir, "early.json"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "ignored.txt"))
	assert.NoError(t, err)

	all, err := f.store.Notifications.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestInbox_KeepsFileWhenPushFails(t *testing.T) {
	f := newRelayFixture(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "push.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"title":"kept"}`), 0o600))

	in := NewInbox(dir, f.relay, logging.Nop())
	require.NoError(t, f.store.Close())
	in.handle(context.Background(), path)

	_, err := os.Stat(path)
	assert.NoError(t, err, "payload must survive a failed push")
}

func TestInbox_RemovesFileAfterPush(t *testing.T) {
	f := newRelayFixture(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "push.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"title":"done"}`), 0o600))

	NewInbox(dir, f.relay, logging.Nop()).handle(context.Background(), path)

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	all, err := f.store.Notifications.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
