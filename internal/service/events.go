package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"quizroom/internal/model"
)

// RoomEvents receives lifecycle notifications from the session machine.
// Emit is called on the engine goroutine and must not block.
type RoomEvents interface {
	Emit(ev model.RoomEvent)
}

// RoomEventSink is an external observer (cache, message bus).
type RoomEventSink interface {
	HandleRoomEvent(ctx context.Context, ev model.RoomEvent) error
}

type noopEvents struct{}

func (noopEvents) Emit(model.RoomEvent) {}

// EventFanout delivers room events to sinks from its own goroutine.
// When the queue is full the event is dropped; the game never waits on observers.
type EventFanout struct {
	sinks   []RoomEventSink
	queue   chan model.RoomEvent
	timeout time.Duration
}

func NewEventFanout(size int, timeout time.Duration, sinks ...RoomEventSink) *EventFanout {
	return &EventFanout{
		sinks:   sinks,
		queue:   make(chan model.RoomEvent, size),
		timeout: timeout,
	}
}

func (f *EventFanout) Emit(ev model.RoomEvent) {
	select {
	case f.queue <- ev:
	default:
		log.Warn().Str("room", ev.Code).Str("kind", string(ev.Kind)).Msg("event queue full, dropping room event")
	}
}

// Run drains the queue until ctx is cancelled, then flushes what is left.
func (f *EventFanout) Run(ctx context.Context) {
	for {
		select {
		case ev := <-f.queue:
			f.deliver(ev)
		case <-ctx.Done():
			for {
				select {
				case ev := <-f.queue:
					f.deliver(ev)
				default:
					return
				}
			}
		}
	}
}

func (f *EventFanout) deliver(ev model.RoomEvent) {
	for _, sink := range f.sinks {
		ctx, cancel := context.WithTimeout(context.Background(), f.timeout)
		if err := sink.HandleRoomEvent(ctx, ev); err != nil {
			log.Error().Err(err).Str("room", ev.Code).Str("kind", string(ev.Kind)).Msg("room event sink failed")
		}
		cancel()
	}
}
