// Package assets loads model prototypes and builds environment materials.
package assets

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/Faultbox/worldsmith/internal/scene"
)

// ErrModelNotFound is returned when no model exists under the requested name.
var ErrModelNotFound = errors.New("model not found")

// Loader produces the prototype object graph of a named model.
// Callers clone the prototype; they never attach it to a scene.
type Loader interface {
	Load(ctx context.Context, name string) (*scene.Node, error)
}

// Cache loads each model once and hands out the cached prototype.
// Concurrent requests for the same name share a single load.
type Cache struct {
	loader Loader
	group  singleflight.Group

	mu     sync.Mutex
	models map[string]*scene.Node

	// Stats
	hits   int
	misses int
}

// NewCache creates a cache in front of loader.
func NewCache(loader Loader) *Cache {
	return &Cache{
		loader: loader,
		models: make(map[string]*scene.Node),
	}
}

// Get returns the prototype for name, loading it on first use.
func (c *Cache) Get(ctx context.Context, name string) (*scene.Node, error) {
	c.mu.Lock()
	proto, ok := c.models[name]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	c.mu.Unlock()
	if ok {
		return proto, nil
	}

	ch := c.group.DoChan(name, func() (any, error) {
		proto, err := c.loader.Load(ctx, name)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.models[name] = proto
		c.mu.Unlock()
		return proto, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("loading model %q: %w", name, res.Err)
		}
		return res.Val.(*scene.Node), nil
	}
}

// Instance returns a fresh deep copy of the named model.
func (c *Cache) Instance(ctx context.Context, name string) (*scene.Node, error) {
	proto, err := c.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	return proto.Clone(), nil
}

// Cached reports whether name is already loaded.
func (c *Cache) Cached(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.models[name]
	return ok
}

// Clear drops every cached prototype.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.models = make(map[string]*scene.Node)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
