package client

import "sync"

// Dispatcher is the context outcomes are delivered on.
type Dispatcher interface {
	Dispatch(fn func())
}

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc func(fn func())

func (f DispatcherFunc) Dispatch(fn func()) { f(fn) }

// SerialDispatcher runs each notification on the calling goroutine while
// holding a lock, so notifications never overlap.
type SerialDispatcher struct {
	mu sync.Mutex
}

func (d *SerialDispatcher) Dispatch(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn()
}

// QueueDispatcher runs notifications in FIFO order on a single goroutine.
// After Close, Dispatch runs fn inline.
type QueueDispatcher struct {
	mu     sync.RWMutex
	closed bool
	queue  chan func()
	done   chan struct{}
}

// NewQueueDispatcher starts the delivery goroutine with the given queue size.
func NewQueueDispatcher(buffer int) *QueueDispatcher {
	if buffer < 0 {
		buffer = 0
	}
	q := &QueueDispatcher{
		queue: make(chan func(), buffer),
		done:  make(chan struct{}),
	}
	go q.loop()
	return q
}

func (q *QueueDispatcher) loop() {
	defer close(q.done)
	for fn := range q.queue {
		fn()
	}
}

func (q *QueueDispatcher) Dispatch(fn func()) {
	q.mu.RLock()
	if q.closed {
		q.mu.RUnlock()
		fn()
		return
	}
	q.queue <- fn
	q.mu.RUnlock()
}

// Close stops accepting work and waits for queued notifications to run.
func (q *QueueDispatcher) Close() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.queue)
	}
	q.mu.Unlock()
	<-q.done
}
