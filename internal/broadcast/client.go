package broadcast

import "sync"

// Client represents one connected live listener.
//
// Design notes:
// - Send is intentionally NOT closed by the hub to avoid panics from
//   concurrent publishers.
// - done signals the pump goroutines to stop.
// - Close is idempotent.
type Client struct {
	Send chan Event

	done      chan struct{}
	closeOnce sync.Once
}

func newClient(queueSize int) *Client {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Client{
		Send: make(chan Event, queueSize),
		done: make(chan struct{}),
	}
}

// Done returns a channel that is closed when the client is shutting down.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Close signals the client goroutines to stop (idempotent).  It does NOT
// close Send to keep Publish safe under concurrency.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}
