package responsecache

import (
	"context"
	"time"

	"github.com/dmitrijs2005/journify/internal/client/models"
)

// Policy bounds the cache. Pruning drops entries older than MaxAge first,
// then the oldest entries beyond MaxEntries.
type Policy struct {
	MaxEntries int
	MaxAge     time.Duration
}

// DefaultPolicy keeps at most 50 entries for at most 7 days.
var DefaultPolicy = Policy{MaxEntries: 50, MaxAge: 7 * 24 * time.Hour}

type Repository interface {
	// Put writes the body and its metadata row in one transaction.
	Put(ctx context.Context, url string, body []byte, at time.Time) error

	// Get returns common.ErrNotFound when url is not cached.
	Get(ctx context.Context, url string) (*models.CacheEntry, error)

	// Prune applies p relative to now and returns how many entries it removed.
	Prune(ctx context.Context, now time.Time, p Policy) (int, error)

	// Entries lists cached entries newest first, without bodies.
	Entries(ctx context.Context) ([]models.CacheEntry, error)
}
