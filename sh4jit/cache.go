package sh4jit

// Cache is the hash-indexed code cache from spec.md §4.6. Invalidation is
// wholesale: SH-4 instruction-cache address-array writes are the guest's
// only observable cache-flush knob in practice, so a single Invalidate call
// drops every compiled block rather than tracking per-page dirtiness.
type Cache struct {
	blocks map[uint32]*Block
	hits   int64
	misses int64
}

// NewCache returns an empty code cache.
func NewCache() *Cache {
	return &Cache{blocks: make(map[uint32]*Block)}
}

// Lookup returns the cached block for hash, or nil on a miss.
func (c *Cache) Lookup(hash uint32) *Block {
	b, ok := c.blocks[hash]
	if !ok {
		c.misses++
		return nil
	}
	c.hits++
	return b
}

// Insert adds a freshly compiled block to the cache.
func (c *Cache) Insert(b *Block) {
	c.blocks[b.Hash] = b
}

// Invalidate drops every cached block.
func (c *Cache) Invalidate() {
	c.blocks = make(map[uint32]*Block)
}

// Len reports how many blocks are currently cached.
func (c *Cache) Len() int { return len(c.blocks) }

// Stats returns cumulative hit/miss counters, for profiling.
func (c *Cache) Stats() (hits, misses int64) { return c.hits, c.misses }
