package client

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/journify/internal/client/repositories/responsecache"
	"github.com/dmitrijs2005/journify/internal/common"
	"github.com/dmitrijs2005/journify/internal/logging"
)

// ResponseCache is the bounded, expiring cache of raw response bodies.
type ResponseCache struct {
	repo   responsecache.Repository
	policy responsecache.Policy
	now    func() time.Time
	log    logging.Logger
}

func NewResponseCache(repo responsecache.Repository, policy responsecache.Policy, now func() time.Time, log logging.Logger) *ResponseCache {
	if now == nil {
		now = time.Now
	}
	return &ResponseCache{repo: repo, policy: policy, now: now, log: log}
}

// Store writes body for url, then prunes.
func (c *ResponseCache) Store(ctx context.Context, url string, body []byte) error {
	if err := c.repo.Put(ctx, url, body, c.now()); err != nil {
		return err
	}
	removed, err := c.repo.Prune(ctx, c.now(), c.policy)
	if err != nil {
		return err
	}
	if removed > 0 {
		c.log.Debug(ctx, "response cache pruned", "count", removed)
	}
	return nil
}

// Lookup returns the cached body for url. Expired entries are not served.
func (c *ResponseCache) Lookup(ctx context.Context, url string) ([]byte, bool, error) {
	e, err := c.repo.Get(ctx, url)
	if errors.Is(err, common.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if c.policy.MaxAge > 0 && c.now().Sub(e.WrittenAt) > c.policy.MaxAge {
		return nil, false, nil
	}
	return e.Body, true, nil
}

// Prune applies the policy without writing anything.
func (c *ResponseCache) Prune(ctx context.Context) (int, error) {
	return c.repo.Prune(ctx, c.now(), c.policy)
}
