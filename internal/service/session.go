package service

import (
	"math/rand"
	"time"

	"github.com/jonboulle/clockwork"

	"quizroom/internal/model"
)

// SessionConfig holds the tunables of a game session.
type SessionConfig struct {
	// RoundBuffer is the grace added to a question's duration before the round is scored.
	RoundBuffer   time.Duration
	CorrectReward int
}

// DefaultSessionConfig returns the stock session tunables.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		RoundBuffer:   250 * time.Millisecond,
		CorrectReward: 100,
	}
}

// SessionMachine owns every room and drives the lobby/question/reveal/scoreboard cycle.
// All methods must be called from the engine goroutine.
type SessionMachine struct {
	questions   []model.Question
	registry    *RoomRegistry
	directory   *ConnectionDirectory
	codes       *CodeAllocator
	scheduler   Scheduler
	broadcaster Broadcaster
	events      RoomEvents
	clock       clockwork.Clock
	shuffle     func([]int)
	cfg         SessionConfig
}

// NewSessionMachine creates a session machine over a validated question bank.
func NewSessionMachine(
	questions []model.Question,
	scheduler Scheduler,
	broadcaster Broadcaster,
	clock clockwork.Clock,
	cfg SessionConfig,
) *SessionMachine {
	registry := NewRoomRegistry()
	return &SessionMachine{
		questions:   questions,
		registry:    registry,
		directory:   NewConnectionDirectory(),
		codes:       NewCodeAllocator(registry),
		scheduler:   scheduler,
		broadcaster: broadcaster,
		events:      noopEvents{},
		clock:       clock,
		shuffle:     shuffleInts,
		cfg:         cfg,
	}
}

// SetEvents sets the room event observer (called after initialization).
func (m *SessionMachine) SetEvents(events RoomEvents) {
	if events == nil {
		events = noopEvents{}
	}
	m.events = events
}

func (m *SessionMachine) Registry() *RoomRegistry {
	return m.registry
}

func (m *SessionMachine) Directory() *ConnectionDirectory {
	return m.directory
}

func (m *SessionMachine) Codes() *CodeAllocator {
	return m.codes
}

// Shutdown cancels every pending round timer.
func (m *SessionMachine) Shutdown() {
	m.registry.Each(func(room *model.Room) {
		room.CancelTimer()
	})
}

func shuffleInts(order []int) {
	rand.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
}

func (m *SessionMachine) currentQuestion(room *model.Room) *model.Question {
	return &m.questions[room.QuestionOrder[room.CurrentQuestionIndex]]
}

// broadcastWithHost sends to the room channel and, separately, to the host,
// who is never a channel member.
func (m *SessionMachine) broadcastWithHost(room *model.Room, msgType model.MessageType, payload interface{}) {
	m.broadcaster.BroadcastToRoom(room.Code, msgType, payload)
	m.broadcaster.SendToConn(room.HostConnID, msgType, payload)
}

func (m *SessionMachine) broadcastLobby(room *model.Room) {
	m.broadcastWithHost(room, model.MsgLobbyUpdate, model.LobbyUpdatePayload{
		Code:    room.Code,
		Players: room.LobbyPlayers(),
		State:   room.State,
	})
}

// lookupHostRoom resolves code and checks that connID hosts it.
func (m *SessionMachine) lookupHostRoom(connID, code string) (*model.Room, error) {
	room, ok := m.registry.Get(NormalizeCode(code))
	if !ok {
		return nil, ErrRoomNotFound
	}
	if room.HostConnID != connID {
		return nil, ErrNotHost
	}
	return room, nil
}
