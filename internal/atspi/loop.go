package atspi

import (
	"context"
	"sync"

	"github.com/godbus/dbus/v5"
)

// Loop is the bridge's event loop. Every piece of bridge state is touched
// only from tasks run by the loop, one at a time, in posting order.
type Loop struct {
	mu    sync.Mutex
	tasks []func()
	wake  chan struct{}
}

func NewLoop() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

// Post queues fn to run after every task queued before it.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.tasks = append(l.tasks, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Invoke runs fn on the loop and waits for it. It must not be called from a
// loop task.
func (l *Loop) Invoke(fn func()) {
	done := make(chan struct{})
	l.Post(func() {
		defer close(done)
		fn()
	})
	<-done
}

// Drain runs queued tasks, including ones they post, until the queue is
// empty. It returns the number of tasks run.
func (l *Loop) Drain() int {
	n := 0
	for {
		l.mu.Lock()
		if len(l.tasks) == 0 {
			l.mu.Unlock()
			return n
		}
		fn := l.tasks[0]
		l.tasks[0] = nil
		l.tasks = l.tasks[1:]
		l.mu.Unlock()

		fn()
		n++
	}
}

// Run drains the queue whenever tasks arrive until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	for {
		l.Drain()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// Await posts then(call) to the loop once call completes.
func (l *Loop) Await(call *dbus.Call, then func(*dbus.Call)) {
	select {
	case c := <-call.Done:
		l.Post(func() { then(c) })
		return
	default:
	}
	go func() {
		c := <-call.Done
		l.Post(func() { then(c) })
	}()
}
