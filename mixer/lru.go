package mixer

import (
	"container/list"
	"sync"

	"github.com/kaikogame/kaiko/dsp"
)

// fileCache is a small LRU keyed by file path, so repeatedly-scheduled
// sounds (drum hits, countdown beeps) only hit the filesystem once.
// Capacity of 32 matches the working set of a typical beatmap's distinct
// samples without growing unbounded over a long session.
type fileCache struct {
	mu       sync.Mutex
	capacity int
	ll       *list.List
	items    map[string]*list.Element
}

type cacheEntry struct {
	path       string
	buf        dsp.Buffer
	samplerate float64
}

func newFileCache(capacity int) *fileCache {
	return &fileCache{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[string]*list.Element),
	}
}

func (c *fileCache) get(path string) (dsp.Buffer, float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[path]; ok {
		c.ll.MoveToFront(el)
		e := el.Value.(*cacheEntry)
		return e.buf, e.samplerate, true
	}
	return dsp.Buffer{}, 0, false
}

func (c *fileCache) put(path string, buf dsp.Buffer, samplerate float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[path]; ok {
		c.ll.MoveToFront(el)
		el.Value.(*cacheEntry).buf = buf
		el.Value.(*cacheEntry).samplerate = samplerate
		return
	}

	el := c.ll.PushFront(&cacheEntry{path: path, buf: buf, samplerate: samplerate})
	c.items[path] = el

	for c.ll.Len() > c.capacity {
		oldest := c.ll.Back()
		if oldest == nil {
			break
		}
		c.ll.Remove(oldest)
		delete(c.items, oldest.Value.(*cacheEntry).path)
	}
}
