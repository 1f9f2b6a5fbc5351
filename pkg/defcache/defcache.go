// Package defcache memoizes coordinate sets parsed from serialized
// definitions, keyed by a digest of the raw definition bytes.
package defcache

import (
	"sync"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"

	"github.com/mohammed-shakir/geocoords/coordinates"
)

type Cache struct {
	mu  sync.Mutex
	lru *lru.Cache[uint64, *coordinates.Coordinates]
	log zerolog.Logger
}

func New(size int, log zerolog.Logger) *Cache {
	if size <= 0 {
		size = 1024
	}
	c, _ := lru.New[uint64, *coordinates.Coordinates](size)
	return &Cache{lru: c, log: log}
}

// ResolveJSON parses a JSON coordinate definition, serving repeats from the
// cache. Callers get a private copy and may mutate it freely.
func (c *Cache) ResolveJSON(def []byte) (*coordinates.Coordinates, error) {
	return c.resolve(def, coordinates.FromJSON)
}

// ResolveYAML is ResolveJSON for YAML definitions.
func (c *Cache) ResolveYAML(def []byte) (*coordinates.Coordinates, error) {
	return c.resolve(def, coordinates.FromYAML)
}

func (c *Cache) resolve(def []byte, parse func([]byte) (*coordinates.Coordinates, error)) (*coordinates.Coordinates, error) {
	key := xxhash.Sum64(def)

	c.mu.Lock()
	cached, ok := c.lru.Get(key)
	c.mu.Unlock()
	if ok {
		c.log.Debug().Uint64("key", key).Msg("definition cache hit")
		return cached.Copy()
	}

	coords, err := parse(def)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.lru.Add(key, coords)
	c.mu.Unlock()
	c.log.Debug().Uint64("key", key).Int("size", coords.Size()).Msg("definition cache miss")
	return coords.Copy()
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Purge()
}
