// @lixen: #focus{sys[input,queue]}
package input

import (
	"context"
	"sync"
)

// QueueCap is the maximum number of pending key codes
const QueueCap = 2

// Queue is a bounded FIFO of key codes. Producers are backend event handlers;
// the consumer is whatever drives the console. When the queue already holds more
// than one entry, new codes are dropped rather than buffered.
type Queue struct {
	mu      sync.Mutex
	codes   []Code
	dropped uint64
	notify  chan struct{}
}

// NewQueue creates an empty queue
func NewQueue() *Queue {
	return &Queue{
		codes:  make([]Code, 0, QueueCap),
		notify: make(chan struct{}, 1),
	}
}

// Push appends code unless the queue is full; returns false when dropped
func (q *Queue) Push(code Code) bool {
	q.mu.Lock()
	if len(q.codes) > QueueCap-1 {
		q.dropped++
		q.mu.Unlock()
		return false
	}
	q.codes = append(q.codes, code)
	q.mu.Unlock()

	// Non-blocking wake, a pending signal already covers this push
	select {
	case q.notify <- struct{}{}:
	default:
	}
	return true
}

// Pop removes and returns the oldest code
func (q *Queue) Pop() (Code, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.codes) == 0 {
		return 0, false
	}
	c := q.codes[0]
	copy(q.codes, q.codes[1:])
	q.codes = q.codes[:len(q.codes)-1]
	return c, true
}

// Wait blocks until a code is available or ctx is done
func (q *Queue) Wait(ctx context.Context) (Code, error) {
	for {
		if c, ok := q.Pop(); ok {
			return c, nil
		}
		select {
		case <-q.notify:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
}

// Drain removes and returns all pending codes, oldest first
func (q *Queue) Drain() []Code {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.codes) == 0 {
		return nil
	}
	out := make([]Code, len(q.codes))
	copy(out, q.codes)
	q.codes = q.codes[:0]
	return out
}

// Len returns the number of pending codes
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.codes)
}

// Dropped returns how many codes were rejected because the queue was full
func (q *Queue) Dropped() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}
