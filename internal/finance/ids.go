package finance

import "sync"

// IDGenerator hands out transaction ids.
type IDGenerator interface {
	NextID() int64
}

// Counter is a monotonic IDGenerator. Ids stay unique however fast they are requested.
type Counter struct {
	mu   sync.Mutex
	last int64
}

// NewCounter returns a counter whose first id is last+1.
func NewCounter(last int64) *Counter {
	return &Counter{last: last}
}

func (c *Counter) NextID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.last++

	return c.last
}
