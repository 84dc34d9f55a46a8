package service

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"quizroom/internal/model"
)

type frame struct {
	To      string
	Ref     string
	Type    model.MessageType
	Payload interface{}
}

// recordingBroadcaster expands room broadcasts into one frame per subscriber.
type recordingBroadcaster struct {
	mu     sync.Mutex
	subs   map[string]map[string]bool
	frames []frame
}

func newRecordingBroadcaster() *recordingBroadcaster {
	return &recordingBroadcaster{subs: make(map[string]map[string]bool)}
}

func (b *recordingBroadcaster) Subscribe(roomCode, connID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs[roomCode] == nil {
		b.subs[roomCode] = make(map[string]bool)
	}
	b.subs[roomCode][connID] = true
}

func (b *recordingBroadcaster) Unsubscribe(roomCode, connID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs[roomCode], connID)
}

func (b *recordingBroadcaster) CloseChannel(roomCode string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs, roomCode)
}

func (b *recordingBroadcaster) BroadcastToRoom(roomCode string, msgType model.MessageType, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for connID := range b.subs[roomCode] {
		b.frames = append(b.frames, frame{To: connID, Type: msgType, Payload: payload})
	}
}

func (b *recordingBroadcaster) SendToConn(connID string, msgType model.MessageType, payload interface{}) {
	b.Reply(connID, "", msgType, payload)
}

func (b *recordingBroadcaster) Reply(connID, ref string, msgType model.MessageType, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.frames = append(b.frames, frame{To: connID, Ref: ref, Type: msgType, Payload: payload})
}

// framesFor returns the frames of msgType delivered to connID, oldest first.
func (b *recordingBroadcaster) framesFor(connID string, msgType model.MessageType) []frame {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []frame
	for _, f := range b.frames {
		if f.To == connID && f.Type == msgType {
			out = append(out, f)
		}
	}
	return out
}

func (b *recordingBroadcaster) last(connID string, msgType model.MessageType) (frame, bool) {
	frames := b.framesFor(connID, msgType)
	if len(frames) == 0 {
		return frame{}, false
	}
	return frames[len(frames)-1], true
}

func (b *recordingBroadcaster) subscribed(roomCode, connID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.subs[roomCode][connID]
}

type scheduled struct {
	after    time.Duration
	fire     func()
	canceled bool
}

func (s *scheduled) Cancel() { s.canceled = true }

// manualScheduler records timers; tests fire them by hand.
type manualScheduler struct {
	timers []*scheduled
}

func (s *manualScheduler) Schedule(d time.Duration, fire func()) model.Canceler {
	t := &scheduled{after: d, fire: fire}
	s.timers = append(s.timers, t)
	return t
}

func (s *manualScheduler) latest() *scheduled {
	if len(s.timers) == 0 {
		return nil
	}
	return s.timers[len(s.timers)-1]
}

type recordingEvents struct {
	events []model.RoomEvent
}

func (r *recordingEvents) Emit(ev model.RoomEvent) { r.events = append(r.events, ev) }

var testEpoch = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func testQuestions() []model.Question {
	return []model.Question{
		{ID: "q1", Text: "Largest planet?", Options: []string{"Mars", "Venus", "Jupiter", "Earth"}, CorrectIndex: 2, DurationMs: 10000},
		{ID: "q2", Text: "2 + 2?", Options: []string{"3", "4"}, CorrectIndex: 1, DurationMs: 5000},
	}
}

type fixture struct {
	machine   *SessionMachine
	bcast     *recordingBroadcaster
	scheduler *manualScheduler
	clock     *clockwork.FakeClock
	events    *recordingEvents
}

func newFixture() *fixture {
	f := &fixture{
		bcast:     newRecordingBroadcaster(),
		scheduler: &manualScheduler{},
		clock:     clockwork.NewFakeClockAt(testEpoch),
		events:    &recordingEvents{},
	}
	f.machine = NewSessionMachine(testQuestions(), f.scheduler, f.bcast, f.clock, DefaultSessionConfig())
	f.machine.SetEvents(f.events)
	f.machine.shuffle = func([]int) {}
	return f
}

func (f *fixture) room(code string) *model.Room {
	room, _ := f.machine.Registry().Get(code)
	return room
}
