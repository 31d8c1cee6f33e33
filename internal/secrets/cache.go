package secrets

import (
	"context"
	"sync"
	"time"
)

// Cached reuses a token from Source for at most TTL. With TTL <= 0 every
// call goes to Source.
type Cached struct {
	Source TokenSource
	TTL    time.Duration

	now func() time.Time

	mu         sync.Mutex
	token      string
	expiration time.Time
}

// NewCached wraps src with a TTL cache.
func NewCached(src TokenSource, ttl time.Duration) *Cached {
	return &Cached{Source: src, TTL: ttl, now: time.Now}
}

// Token returns the cached token while it is fresh, otherwise fetches a new one.
func (c *Cached) Token(ctx context.Context) (string, error) {
	if c.TTL <= 0 {
		return c.Source.Token(ctx)
	}
	now := c.clock()
	c.mu.Lock()
	if c.token != "" && now.Before(c.expiration) {
		tok := c.token
		c.mu.Unlock()
		return tok, nil
	}
	c.mu.Unlock()

	tok, err := c.Source.Token(ctx)
	if err != nil {
		return "", err
	}
	c.mu.Lock()
	c.token = tok
	c.expiration = now.Add(c.TTL)
	c.mu.Unlock()
	return tok, nil
}

// Invalidate drops the cached token so the next call fetches again.
func (c *Cached) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
	c.expiration = time.Time{}
}

func (c *Cached) clock() time.Time {
	if c.now == nil {
		return time.Now()
	}
	return c.now()
}
