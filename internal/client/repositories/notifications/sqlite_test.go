package notifications

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/journify/internal/client/migrations"
	"github.com/dmitrijs2005/journify/internal/client/models"
	"github.com/dmitrijs2005/journify/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "notifications.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, migrations.Up(context.Background(), db))
	return db
}

// steppingClock returns start, start+step, start+2*step, ...
func steppingClock(start, step int64) func() time.Time {
	next := start
	return func() time.Time {
		ts := time.UnixMilli(next)
		next += step
		return ts
	}
}

func TestEnqueue_StampsAndRoundTrips(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t), steppingClock(1000, 1))
	ctx := context.Background()

	p := models.NotificationPayload{
		Title:   "Story baru",
		Body:    "Ada cerita baru",
		Icon:    "/images/logo.png",
		Data:    models.NotificationData{URL: "/#/stories/1"},
		Actions: []models.NotificationAction{{Action: "view", Title: "View"}},
		Vibrate: []int{100, 50, 100},
	}
	id, err := r.Enqueue(ctx, p)
	require.NoError(t, err)
	assert.Positive(t, id)

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].ID)
	assert.Equal(t, p, list[0].NotificationPayload)
	assert.False(t, list[0].Shown)
	assert.Equal(t, int64(1000), list[0].Timestamp.UnixMilli())
}

func TestListUnshown_OldestFirstAndMarkShown(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db, steppingClock(1000, 10))
	ctx := context.Background()

	for _, title := range []string{"first", "second", "third"} {
		_, err := r.Enqueue(ctx, models.NotificationPayload{Title: title})
		require.NoError(t, err)
	}
	// out-of-order timestamp written by another process
	_, err := db.Exec(`UPDATE offline_notifications SET timestamp = 1 WHERE id = 3`)
	require.NoError(t, err)

	list, err := r.ListUnshown(ctx)
	require.NoError(t, err)
	var titles []string
	for _, n := range list {
		titles = append(titles, n.Title)
	}
	assert.Equal(t, []string{"third", "first", "second"}, titles)

	require.NoError(t, r.MarkShown(ctx, list[0].ID))
	unshown, err := r.ListUnshown(ctx)
	require.NoError(t, err)
	assert.Len(t, unshown, 2)

	all, err := r.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	require.ErrorIs(t, r.MarkShown(ctx, 999), common.ErrNotFound)
}

func TestRemove(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t), nil)
	ctx := context.Background()

	id, err := r.Enqueue(ctx, models.NotificationPayload{Title: "x"})
	require.NoError(t, err)
	require.NoError(t, r.Remove(ctx, id))

	list, err := r.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCorruptPayload_StorageError(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db, nil)

	_, err := db.Exec(`INSERT INTO offline_notifications (payload, timestamp, shown) VALUES ('not json', 1, 0)`)
	require.NoError(t, err)

	_, err = r.ListUnshown(context.Background())
	var se *common.StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, common.PartitionNotifications, se.Partition)
}
