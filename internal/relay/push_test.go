package relay

import (
	"testing"

	"github.com/dmitrijs2005/journify/internal/client/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newParser(t *testing.T) *PushParser {
	t.Helper()
	p, err := NewPushParser("/images/logo.png")
	require.NoError(t, err)
	return p
}

func TestParse_FullPayloadKept(t *testing.T) {
	p := newParser(t)
	got := p.Parse([]byte(`{
		"title": "New story",
		"body": "Dimas posted",
		"icon": "/i.png",
		"badge": "/b.png",
		"tag": "story",
		"vibrate": [1, 2],
		"data": {"url": "/stories/9", "storyId": "9"},
		"actions": [{"action": "view", "title": "View"}]
	}`))

	want := models.NotificationPayload{
		Title:   "New story",
		Body:    "Dimas posted",
		Icon:    "/i.png",
		Badge:   "/b.png",
		Tag:     "story",
		Vibrate: []int{1, 2},
		Data:    models.NotificationData{URL: "/stories/9", Extra: map[string]any{"storyId": "9"}},
		Actions: []models.NotificationAction{{Action: "view", Title: "View"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_Defaults(t *testing.T) {
	p := newParser(t)
	got := p.Parse([]byte(`{"body": "hi", "url": "/map"}`))

	assert.Equal(t, DefaultTitle, got.Title)
	assert.Equal(t, "hi", got.Body)
	assert.Equal(t, "/images/logo.png", got.Icon)
	assert.Equal(t, "/images/logo.png", got.Badge)
	assert.Equal(t, "/map", got.TargetURL())
	assert.Equal(t, []int{100, 50, 100}, got.Vibrate)
	require.Len(t, got.Actions, 1)
	assert.Equal(t, "open", got.Actions[0].Action)
	assert.Equal(t, "Open", got.Actions[0].Title)
}

func TestParse_DataWithoutURLDefaultsTarget(t *testing.T) {
	got := newParser(t).Parse([]byte(`{"title": "t", "data": {"k": 1}}`))
	assert.Equal(t, "/", got.TargetURL())
	assert.Equal(t, map[string]any{"k": float64(1)}, got.Data.Extra)
}

func TestParse_NonJSONBecomesText(t *testing.T) {
	got := newParser(t).Parse([]byte("server says hello"))
	assert.Equal(t, "Notification", got.Title)
	assert.Equal(t, "server says hello", got.Body)
	assert.Equal(t, "/", got.TargetURL())
}

func TestParse_SchemaViolationBecomesText(t *testing.T) {
	raw := `{"title": 5, "body": "x"}`
	got := newParser(t).Parse([]byte(raw))
	assert.Equal(t, "Notification", got.Title)
	assert.Equal(t, raw, got.Body)

	got = newParser(t).Parse([]byte(`{"actions": [{"title": "no action"}]}`))
	assert.Equal(t, "Notification", got.Title)
}

func TestParse_Empty(t *testing.T) {
	got := newParser(t).Parse(nil)
	assert.Equal(t, DefaultTitle, got.Title)
	assert.NotEmpty(t, got.Body)
}
