package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/journify/internal/client/client"
	"github.com/dmitrijs2005/journify/internal/client/models"
	"github.com/dmitrijs2005/journify/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/journify/internal/cryptox"
)

var ErrNoPushEndpoint = errors.New("push endpoint is not configured")

// PushService registers this device for push delivery with the API.
type PushService interface {
	Subscribe(ctx context.Context) (string, *models.PushSubscription, error)
	Unsubscribe(ctx context.Context) (string, error)
	Subscription(ctx context.Context) (*models.PushSubscription, error)
}

type pushService struct {
	client   client.Client
	meta     metadata.Repository
	endpoint string
}

// NewPushService returns a service that subscribes endpoint, the public url
// of the relay push intake.
func NewPushService(c client.Client, meta metadata.Repository, endpoint string) PushService {
	return &pushService{client: c, meta: meta, endpoint: endpoint}
}

// keys returns the device push keys, generating and storing them the first
// time.
func (s *pushService) keys(ctx context.Context) (*cryptox.PushKeys, error) {
	raw, err := s.meta.Get(ctx, metadata.KeyPushKeys)
	if err != nil {
		return nil, err
	}
	if len(raw) > 0 {
		var k cryptox.PushKeys
		if err := json.Unmarshal(raw, &k); err != nil {
			return nil, fmt.Errorf("decode push keys: %w", err)
		}
		return &k, nil
	}

	k, err := cryptox.GeneratePushKeys()
	if err != nil {
		return nil, err
	}
	raw, err = json.Marshal(k)
	if err != nil {
		return nil, err
	}
	if err := s.meta.Set(ctx, metadata.KeyPushKeys, raw); err != nil {
		return nil, err
	}
	return k, nil
}

func (s *pushService) Subscribe(ctx context.Context) (string, *models.PushSubscription, error) {
	if s.endpoint == "" {
		return "", nil, ErrNoPushEndpoint
	}
	k, err := s.keys(ctx)
	if err != nil {
		return "", nil, err
	}
	sub := &models.PushSubscription{
		Endpoint: s.endpoint,
		Keys:     models.PushKeys{P256dh: k.P256dh, Auth: k.Auth},
	}

	msg, err := s.client.Subscribe(ctx, *sub)
	if err != nil {
		return "", nil, err
	}

	raw, err := json.Marshal(sub)
	if err != nil {
		return "", nil, err
	}
	if err := s.meta.Set(ctx, metadata.KeyPushSubscription, raw); err != nil {
		return "", nil, err
	}
	return msg, sub, nil
}

func (s *pushService) Subscription(ctx context.Context) (*models.PushSubscription, error) {
	raw, err := s.meta.Get(ctx, metadata.KeyPushSubscription)
	if err != nil || len(raw) == 0 {
		return nil, err
	}
	var sub models.PushSubscription
	if err := json.Unmarshal(raw, &sub); err != nil {
		return nil, fmt.Errorf("decode push subscription: %w", err)
	}
	return &sub, nil
}

// Unsubscribe removes the stored subscription, or the configured endpoint
// when none was stored.
func (s *pushService) Unsubscribe(ctx context.Context) (string, error) {
	sub, err := s.Subscription(ctx)
	if err != nil {
		return "", err
	}
	endpoint := s.endpoint
	if sub != nil {
		endpoint = sub.Endpoint
	}
	if endpoint == "" {
		return "", ErrNoPushEndpoint
	}

	msg, err := s.client.Unsubscribe(ctx, endpoint)
	if err != nil {
		return "", err
	}
	if err := s.meta.Delete(ctx, metadata.KeyPushSubscription); err != nil {
		return "", err
	}
	return msg, nil
}
