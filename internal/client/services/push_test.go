package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushSubscribe_KeysGeneratedOnce(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	svc := NewPushService(f.client, f.store.Metadata, "http://127.0.0.1:8787/push")

	msg, sub, err := svc.Subscribe(ctx)
	require.NoError(t, err)
	assert.Equal(t, "subscribed", msg)
	assert.Equal(t, "http://127.0.0.1:8787/push", sub.Endpoint)
	assert.NotEmpty(t, sub.Keys.P256dh)
	assert.NotEmpty(t, sub.Keys.Auth)

	_, again, err := svc.Subscribe(ctx)
	require.NoError(t, err)
	assert.Equal(t, sub.Keys, again.Keys)

	stored, err := svc.Subscription(ctx)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, sub.Endpoint, stored.Endpoint)
}

func TestPushSubscribe_FailureStoresNothing(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	f.client.SubscribeErr = errors.New("nope")
	svc := NewPushService(f.client, f.store.Metadata, "http://relay/push")

	_, _, err := svc.Subscribe(ctx)
	require.Error(t, err)

	stored, err := svc.Subscription(ctx)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestPushUnsubscribe(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	svc := NewPushService(f.client, f.store.Metadata, "http://relay/push")

	_, _, err := svc.Subscribe(ctx)
	require.NoError(t, err)

	msg, err := svc.Unsubscribe(ctx)
	require.NoError(t, err)
	assert.Equal(t, "unsubscribed", msg)
	assert.Equal(t, []string{"http://relay/push"}, f.client.Unsubscribed)

	stored, err := svc.Subscription(ctx)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestPush_NoEndpoint(t *testing.T) {
	f := newFixture(t, true)
	svc := NewPushService(f.client, f.store.Metadata, "")

	_, _, err := svc.Subscribe(context.Background())
	require.ErrorIs(t, err, ErrNoPushEndpoint)
	_, err = svc.Unsubscribe(context.Background())
	require.ErrorIs(t, err, ErrNoPushEndpoint)
}
