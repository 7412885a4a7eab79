package forecast

import (
	"sync"
)

// artifactCache holds pretrained model artifacts for the lifetime of
// the process. Each path is loaded at most once, even under concurrent
// first access; entries are read-only after load and never evicted.
type artifactCache struct {
	mu sync.Mutex
	m  map[string]*artifactEntry
}

type artifactEntry struct {
	once sync.Once
	v    any
	err  error
}

var artifacts = &artifactCache{m: make(map[string]*artifactEntry)}

func (c *artifactCache) load(path string, loader func(string) (any, error)) (any, error) {
	c.mu.Lock()
	e, ok := c.m[path]
	if !ok {
		e = &artifactEntry{}
		c.m[path] = e
	}
	c.mu.Unlock()

	e.once.Do(func() {
		e.v, e.err = loader(path)
	})
	return e.v, e.err
}

// reset drops all cached artifacts. Test hook only.
func (c *artifactCache) reset() {
	c.mu.Lock()
	c.m = make(map[string]*artifactEntry)
	c.mu.Unlock()
}
