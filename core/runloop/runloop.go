// Package runloop provides a minimal serial task queue used to defer work to
// the next tick of the thread that owns a display surface.
//
// The reconciliation core is single-threaded and cooperative: the surface,
// the model, and the transaction buffer are all touched from one logical
// thread. Some callbacks must still run *after* the current call stack
// unwinds (the surface has not settled its own bookkeeping synchronously),
// which is what Post models. Tasks never run concurrently; the owner decides
// when a tick happens by calling Drain.
package runloop

import "sync"

// Loop is a FIFO queue of deferred tasks. Post may be called from any
// goroutine; Drain must only be called from the owning thread.
type Loop struct {
	mu    sync.Mutex
	tasks []func()
}

// New creates an empty loop.
func New() *Loop {
	return &Loop{}
}

// Post enqueues fn to run on the next Drain. Nil tasks are ignored.
func (l *Loop) Post(fn func()) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	l.tasks = append(l.tasks, fn)
	l.mu.Unlock()
}

// Len returns the number of queued tasks.
func (l *Loop) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tasks)
}

// Drain runs queued tasks in FIFO order until the queue is empty. Tasks
// posted while draining run within the same drain, after all tasks that were
// already queued.
func (l *Loop) Drain() {
	for {
		l.mu.Lock()
		if len(l.tasks) == 0 {
			l.mu.Unlock()
			return
		}
		fn := l.tasks[0]
		l.tasks = l.tasks[1:]
		l.mu.Unlock()

		fn()
	}
}
