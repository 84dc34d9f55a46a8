package service

import "sync"

// Inbox is the queue of work items for the engine goroutine.
// Timer fires and async results enter the engine through it.
type Inbox struct {
	work      chan func()
	done      chan struct{}
	closeOnce sync.Once
}

func NewInbox(size int) *Inbox {
	return &Inbox{
		work: make(chan func(), size),
		done: make(chan struct{}),
	}
}

// Post enqueues fn, blocking while the queue is full. It returns false once the inbox is closed.
func (in *Inbox) Post(fn func()) bool {
	select {
	case <-in.done:
		return false
	default:
	}
	select {
	case in.work <- fn:
		return true
	case <-in.done:
		return false
	}
}

// Close stops accepting work. Items already queued are discarded.
func (in *Inbox) Close() {
	in.closeOnce.Do(func() { close(in.done) })
}
