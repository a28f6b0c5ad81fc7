package messaging

import (
	"testing"

	"github.com/dmitrijs2005/journify/internal/client/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode_EveryKind(t *testing.T) {
	msgs := []Message{
		SyncStories{Tag: "sync-stories"},
		ShowToast{Message: "2 stories synced", Level: ToastSuccess},
		StoreOfflineNotification{ID: 7, Notification: models.NotificationPayload{Title: "t", Body: "b"}},
		Hello{ClientID: "c1", URL: "/"},
		Navigate{URL: "/#/map"},
		Focus{URL: "/#/stories/1"},
	}
	for _, m := range msgs {
		t.Run(string(m.Kind()), func(t *testing.T) {
			b, err := Encode(m)
			require.NoError(t, err)

			got, err := Decode(b)
			require.NoError(t, err)
			if diff := cmp.Diff(m, got); diff != "" {
				t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecode_WireShape(t *testing.T) {
	got, err := Decode([]byte(`{"type":"sync-stories"}`))
	require.NoError(t, err)
	assert.Equal(t, SyncStories{}, got)

	b, err := Encode(ShowToast{Message: "hi"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"show-toast","payload":{"message":"hi"}}`, string(b))
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode([]byte(`{"type":"reload-everything"}`))
	require.ErrorIs(t, err, ErrUnknownKind)

	_, err = Decode([]byte(`not json`))
	require.ErrorIs(t, err, ErrMalformed)

	_, err = Decode([]byte(`{"type":"hello","payload":"oops"}`))
	require.ErrorIs(t, err, ErrMalformed)

	_, err = Encode(nil)
	require.ErrorIs(t, err, ErrMalformed)
}
