package explain

import "sync"

const defaultCacheCapacity = 100

// promptCache 是按 prompt 缓存生成文案的 FIFO 缓存。
// 容量满时淘汰最早写入的条目;并发安全。
type promptCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]string
	order    []string
}

func newPromptCache(capacity int) *promptCache {
	if capacity <= 0 {
		capacity = defaultCacheCapacity
	}
	return &promptCache{
		capacity: capacity,
		entries:  make(map[string]string, capacity),
	}
}

func (c *promptCache) Get(prompt string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[prompt]
	return v, ok
}

func (c *promptCache) Put(prompt, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[prompt]; ok {
		c.entries[prompt] = text
		return
	}
	if len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[prompt] = text
	c.order = append(c.order, prompt)
}

func (c *promptCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
