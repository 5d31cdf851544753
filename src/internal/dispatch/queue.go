// FILE: logfan/src/internal/dispatch/queue.go
package dispatch

import (
	"sync"

	"logfan/src/internal/core"
)

// controlKind tags control messages flowing through the queue alongside
// entries.
type controlKind uint8

const (
	controlFlush controlKind = iota
)

// control is a command for the worker. Flush carries a one-shot reply
// channel (capacity 1) the worker signals after all appenders have been
// flushed.
type control struct {
	kind  controlKind
	reply chan bool
}

// queueItem is either an entry or a control message, never both.
type queueItem struct {
	entry *core.Entry
	ctrl  *control
}

// queue is the unbounded FIFO hand-off between producers and the single
// worker. Push never blocks; Pop blocks until an item arrives or the
// queue is closed and drained. Buffered channels cannot serve here
// because producers must never stall on a full buffer.
type queue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []queueItem
	closed bool
}

func newQueue() *queue {
	q := &queue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// push appends an item. Returns false if the queue has been closed.
func (q *queue) push(it queueItem) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.items = append(q.items, it)
	q.mu.Unlock()
	q.cond.Signal()
	return true
}

// pop removes the oldest item, blocking while the queue is empty. After
// close, remaining items are still handed out; once drained pop returns
// false.
func (q *queue) pop() (queueItem, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 {
		if q.closed {
			return queueItem{}, false
		}
		q.cond.Wait()
	}

	it := q.items[0]
	q.items[0] = queueItem{}
	q.items = q.items[1:]
	if len(q.items) == 0 {
		// Release the drained backing array
		q.items = nil
	}
	return it, true
}

// size returns the current backlog.
func (q *queue) size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// close stops accepting new items and wakes the worker so it can drain
// and exit.
func (q *queue) close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.cond.Broadcast()
}
