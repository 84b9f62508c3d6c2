package registry

import (
	"context"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/osmakqa/riskandopportunitiesregistry-sub000/models"
)

const loadTimeout = 30 * time.Second

// Cache is the process-wide copy of every registry item. It is never patched:
// any change anywhere invalidates all of it and the next read reloads.
type Cache struct {
	mu    sync.Mutex
	items []models.RegistryItem
	valid bool
	gen   uint64

	group singleflight.Group
}

func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.items = nil
	c.valid = false
	c.gen++
	c.mu.Unlock()
}

// Items returns the cached snapshots, loading them when invalid. Concurrent
// reloads of the same generation share one load, so a caller arriving after
// an invalidation never joins a load that started before it. A load that
// raced an invalidation is returned to its callers but not kept.
//
// The shared load runs detached from any single caller's context; a caller
// whose ctx ends stops waiting without failing the others. The slice must
// not be modified.
func (c *Cache) Items(ctx context.Context, load func(context.Context) ([]models.RegistryItem, error)) ([]models.RegistryItem, error) {
	c.mu.Lock()
	if c.valid {
		items := c.items
		c.mu.Unlock()
		return items, nil
	}
	gen := c.gen
	c.mu.Unlock()

	ch := c.group.DoChan(strconv.FormatUint(gen, 10), func() (interface{}, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()
		items, err := load(lctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if c.gen == gen {
			c.items = items
			c.valid = true
		}
		c.mu.Unlock()
		return items, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]models.RegistryItem), nil
	}
}
