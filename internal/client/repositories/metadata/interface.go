package metadata

import (
	"context"
)

// Well-known keys.
const (
	KeySession          = "session"
	KeyOfflineVerifier  = "offline_verifier"
	KeyPushKeys         = "push_keys"
	KeyPushSubscription = "push_subscription"
	KeySyncTags         = "sync_tags"
)

// Repository stores opaque values by key. Get returns (nil, nil) for a
// missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
