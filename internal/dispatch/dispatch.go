// Package dispatch hands work from worker goroutines back to the single
// goroutine that owns UI-facing state.
package dispatch

import (
	"context"
	"sync"
)

// Dispatcher schedules fn to run on the main context. Implementations must
// run functions one at a time and in submission order.
type Dispatcher interface {
	Dispatch(fn func())
}

// Func adapts an ordinary function to Dispatcher.
type Func func(fn func())

func (f Func) Dispatch(fn func()) { f(fn) }

// Queue is an unbounded FIFO of pending main-context work. Producers call
// Dispatch from any goroutine; the owner pulls with Next or Drain.
type Queue struct {
	mu      sync.Mutex
	pending []func()
	signal  chan struct{}
}

func NewQueue() *Queue {
	return &Queue{signal: make(chan struct{}, 1)}
}

func (q *Queue) Dispatch(fn func()) {
	if fn == nil {
		return
	}
	q.mu.Lock()
	q.pending = append(q.pending, fn)
	q.mu.Unlock()

	select {
	case q.signal <- struct{}{}:
	default:
	}
}

// Next blocks until a function is available or ctx is done.
func (q *Queue) Next(ctx context.Context) (func(), bool) {
	for {
		if fn, ok := q.pop(); ok {
			return fn, true
		}
		select {
		case <-ctx.Done():
			return nil, false
		case <-q.signal:
		}
	}
}

// Drain runs every function queued so far, including ones queued by the
// functions it runs, and reports how many ran.
func (q *Queue) Drain() int {
	n := 0
	for {
		fn, ok := q.pop()
		if !ok {
			return n
		}
		fn()
		n++
	}
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

func (q *Queue) pop() (func(), bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return nil, false
	}
	fn := q.pending[0]
	q.pending[0] = nil
	q.pending = q.pending[1:]
	return fn, true
}
