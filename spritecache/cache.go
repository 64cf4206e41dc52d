// Package spritecache keeps sprite images fetched from the API in memory.
//
// Fetches coalesce per key: however many callers ask for an image not yet cached,
// one fetch runs and all of them get its result.
package spritecache

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// A Blob is a fetched image.
type Blob struct {
	Data        []byte
	ContentType string
}

// A Fetcher retrieves the Blob of a key not yet cached.
type Fetcher func(ctx context.Context) (Blob, error)

// A Cache holds Blobs by key, usually the image's storage path.
type Cache struct {
	group   singleflight.Group
	release func(key string, b Blob)

	mu    sync.RWMutex
	blobs map[string]Blob
}

// An Option configures a Cache when calling New.
type Option func(*Cache)

// WithRelease calls fn with every Blob evicted from the Cache.
func WithRelease(fn func(key string, b Blob)) Option {
	return func(c *Cache) {
		c.release = fn
	}
}

// New constructs an empty Cache.
func New(opts ...Option) *Cache {
	c := &Cache{blobs: make(map[string]Blob)}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// GetOrFetch returns the Blob cached at key or fetches it.
//
// Callers asking for the same key while a fetch is in flight share it.
// A failed fetch is not cached; the next call tries again.
// A caller whose ctx ends stops waiting but the fetch carries on for the others.
func (c *Cache) GetOrFetch(ctx context.Context, key string, fetch Fetcher) (Blob, error) {
	if b, ok := c.get(key); ok {
		return b, nil
	}

	ch := c.group.DoChan(key, func() (any, error) {
		if b, ok := c.get(key); ok {
			return b, nil
		}

		b, err := fetch(context.WithoutCancel(ctx))
		if err != nil {
			return Blob{}, err
		}

		c.mu.Lock()
		c.blobs[key] = b
		c.mu.Unlock()

		return b, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return Blob{}, res.Err
		}
		return res.Val.(Blob), nil
	case <-ctx.Done():
		return Blob{}, ctx.Err()
	}
}

func (c *Cache) get(key string) (Blob, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	b, ok := c.blobs[key]
	return b, ok
}

// Delete evicts key, reporting whether it was cached.
func (c *Cache) Delete(key string) bool {
	c.mu.Lock()
	b, ok := c.blobs[key]
	delete(c.blobs, key)
	c.mu.Unlock()

	if ok {
		c.evicted(key, b)
	}

	return ok
}

// DeleteByName evicts every key containing name, returning how many were.
func (c *Cache) DeleteByName(name string) int {
	evicted := make(map[string]Blob)

	c.mu.Lock()
	for key, b := range c.blobs {
		if strings.Contains(key, name) {
			evicted[key] = b
			delete(c.blobs, key)
		}
	}
	c.mu.Unlock()

	for key, b := range evicted {
		c.evicted(key, b)
	}

	return len(evicted)
}

// Clear evicts everything.
func (c *Cache) Clear() {
	c.mu.Lock()
	evicted := c.blobs
	c.blobs = make(map[string]Blob)
	c.mu.Unlock()

	for key, b := range evicted {
		c.evicted(key, b)
	}
}

// Len counts the Blobs cached.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.blobs)
}

func (c *Cache) evicted(key string, b Blob) {
	if c.release != nil {
		c.release(key, b)
	}
}
