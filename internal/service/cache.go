package service

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/cespare/xxhash/v2"
)

const cacheShards = 16

// resultCache memoizes single-point evaluations keyed by method and the exact
// bits of t. Each shard is cleared when it reaches its capacity.
type resultCache struct {
	shards   [cacheShards]cacheShard
	perShard int
}

type cacheShard struct {
	mu      sync.RWMutex
	entries map[uint64]float64
}

func newResultCache(capacity int) *resultCache {
	c := &resultCache{perShard: max(capacity/cacheShards, 1)}
	for i := range c.shards {
		c.shards[i].entries = make(map[uint64]float64)
	}
	return c
}

func cacheKey(method string, t float64) uint64 {
	buf := make([]byte, 0, len(method)+9)
	buf = append(buf, method...)
	buf = append(buf, 0)
	buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(t))
	return xxhash.Sum64(buf)
}

func (c *resultCache) shard(key uint64) *cacheShard {
	return &c.shards[key%cacheShards]
}

func (c *resultCache) get(method string, t float64) (float64, bool) {
	key := cacheKey(method, t)
	s := c.shard(key)
	s.mu.RLock()
	defer s.mu.RUnlock()
	z, ok := s.entries[key]
	return z, ok
}

func (c *resultCache) put(method string, t, z float64) {
	key := cacheKey(method, t)
	s := c.shard(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.entries) >= c.perShard {
		clear(s.entries)
	}
	s.entries[key] = z
}

func (c *resultCache) len() int {
	n := 0
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.RLock()
		n += len(s.entries)
		s.mu.RUnlock()
	}
	return n
}
