package service

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"quizroom/internal/model"
)

// Scheduler defers fire until d has elapsed. The returned handle cancels it.
type Scheduler interface {
	Schedule(d time.Duration, fire func()) model.Canceler
}

// RoundScheduler arms clock timers whose fires are posted back into the engine inbox,
// so the callback always runs on the engine goroutine.
type RoundScheduler struct {
	clock clockwork.Clock
	inbox *Inbox
}

func NewRoundScheduler(clock clockwork.Clock, inbox *Inbox) *RoundScheduler {
	return &RoundScheduler{clock: clock, inbox: inbox}
}

func (s *RoundScheduler) Schedule(d time.Duration, fire func()) model.Canceler {
	t := &roundTimer{
		timer: s.clock.NewTimer(d),
		stop:  make(chan struct{}),
	}
	go func() {
		select {
		case <-t.timer.Chan():
			s.inbox.Post(fire)
		case <-t.stop:
		}
	}()
	return t
}

type roundTimer struct {
	timer clockwork.Timer
	stop  chan struct{}
	once  sync.Once
}

// Cancel is idempotent. A fire that already reached the inbox is not recalled;
// the receiver detects it by round number.
func (t *roundTimer) Cancel() {
	t.once.Do(func() {
		stopAndDrainTimer(t.timer)
		close(t.stop)
	})
}

// stopAndDrainTimer stops a timer and drains its channel if it already fired.
func stopAndDrainTimer(timer clockwork.Timer) {
	if !timer.Stop() {
		select {
		case <-timer.Chan():
		default:
		}
	}
}
