package pattern

import (
	"sync"
	"time"
)

// Cache holds compiled patterns keyed by source, engine and timeout so that
// callers handing in pattern strings pay the compile cost once.
// The zero value is ready to use and safe for concurrent use.
type Cache struct {
	entries sync.Map
}

type cacheKey struct {
	src     string
	engine  Engine
	timeout time.Duration
}

// Get returns the compiled pattern for src, compiling it on first use.
// Compile errors are not cached.
func (c *Cache) Get(src string, opts ...Option) (*Pattern, error) {
	o := buildOptions(opts)
	key := cacheKey{src: src, engine: o.engine, timeout: o.timeout}

	if cached, ok := c.entries.Load(key); ok {
		return cached.(*Pattern), nil
	}

	p, err := Compile(src, opts...)
	if err != nil {
		return nil, err
	}

	actual, _ := c.entries.LoadOrStore(key, p)
	return actual.(*Pattern), nil
}

// Len returns the number of cached patterns.
func (c *Cache) Len() int {
	n := 0
	c.entries.Range(func(_, _ interface{}) bool {
		n++
		return true
	})
	return n
}

// Clear drops every cached pattern.
func (c *Cache) Clear() {
	c.entries.Range(func(key, _ interface{}) bool {
		c.entries.Delete(key)
		return true
	})
}
