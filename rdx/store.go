package rdx

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"farmhand/db"
)

const keyPrefix = "store:"

// CachedStore serves reads under the configured prefixes from the cache and
// drops those entries on any write that overlaps them. Everything else goes
// straight to the wrapped store.
type CachedStore struct {
	db.Store
	cache    Cache
	ttl      time.Duration
	prefixes []string
}

var _ db.Store = (*CachedStore)(nil)

func NewCachedStore(inner db.Store, cache Cache, ttl time.Duration, prefixes ...string) *CachedStore {
	clean := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		clean = append(clean, db.Join(p))
	}
	return &CachedStore{Store: inner, cache: cache, ttl: ttl, prefixes: clean}
}

func (c *CachedStore) Get(ctx context.Context, path string) (db.Snapshot, error) {
	path = db.Join(path)
	if c.cachedRoot(path) == "" {
		return c.Store.Get(ctx, path)
	}

	key := keyPrefix + path
	if raw, ok, err := c.cache.Get(ctx, key); err != nil {
		log.Printf("[rdx] cache get %s: %v", key, err)
	} else if ok {
		var tree any
		if err := json.Unmarshal([]byte(raw), &tree); err == nil {
			return db.NewSnapshot(lastSegment(path), tree), nil
		}
	}

	snap, err := c.Store.Get(ctx, path)
	if err != nil || !snap.Exists() {
		return snap, err
	}
	if raw, err := json.Marshal(snap.Value()); err == nil {
		if err := c.cache.Set(ctx, key, string(raw), c.ttl); err != nil {
			log.Printf("[rdx] cache set %s: %v", key, err)
		}
	}
	return snap, nil
}

func (c *CachedStore) Set(ctx context.Context, path string, value any) error {
	if err := c.Store.Set(ctx, path, value); err != nil {
		return err
	}
	c.invalidate(ctx, db.Join(path))
	return nil
}

func (c *CachedStore) Remove(ctx context.Context, path string) error {
	if err := c.Store.Remove(ctx, path); err != nil {
		return err
	}
	c.invalidate(ctx, db.Join(path))
	return nil
}

// cachedRoot returns the configured prefix that path falls under, or "".
func (c *CachedStore) cachedRoot(path string) string {
	for _, p := range c.prefixes {
		if path == p || strings.HasPrefix(path, p+"/") {
			return p
		}
	}
	return ""
}

func (c *CachedStore) invalidate(ctx context.Context, path string) {
	for _, p := range c.prefixes {
		overlaps := path == "" || path == p || strings.HasPrefix(path, p+"/") || strings.HasPrefix(p, path+"/")
		if !overlaps {
			continue
		}
		if err := c.cache.DelPrefix(ctx, keyPrefix+p); err != nil {
			log.Printf("[rdx] cache invalidate %s: %v", p, err)
		}
	}
}

func lastSegment(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}
