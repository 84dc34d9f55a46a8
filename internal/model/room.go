package model

import "time"

type RoomState string

const (
	RoomLobby      RoomState = "lobby"
	RoomQuestion   RoomState = "question"
	RoomReveal     RoomState = "reveal"
	RoomScoreboard RoomState = "scoreboard"
)

// Role is the part a connection plays in its room.
type Role string

const (
	RoleHost   Role = "host"
	RolePlayer Role = "player"
)

// Canceler stops a pending deferred callback.
type Canceler interface {
	Cancel()
}

// Room is one live game session. Its fields are owned by the session engine.
type Room struct {
	Code       string
	HostConnID string
	CreatedAt  time.Time
	State      RoomState

	players map[string]*Player
	order   []string

	QuestionOrder        []int
	CurrentQuestionIndex int
	Deadline             time.Time

	// Timer is non-nil iff State == RoomQuestion.
	Timer Canceler
	// Round increments every time a question is shown; stale timer fires carry an older value.
	Round uint64
}

// NewRoom creates a room in the lobby state.
func NewRoom(code, hostConnID string, now time.Time) *Room {
	return &Room{
		Code:       code,
		HostConnID: hostConnID,
		CreatedAt:  now,
		State:      RoomLobby,
		players:    make(map[string]*Player),
	}
}

// AddPlayer inserts p, keeping insertion order. An existing entry with the same ID is replaced in place.
func (r *Room) AddPlayer(p *Player) {
	if _, ok := r.players[p.ID]; !ok {
		r.order = append(r.order, p.ID)
	}
	r.players[p.ID] = p
}

// RemovePlayer deletes the player with the given ID and reports whether it existed.
func (r *Room) RemovePlayer(id string) bool {
	if _, ok := r.players[id]; !ok {
		return false
	}
	delete(r.players, id)
	for i, pid := range r.order {
		if pid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

func (r *Room) Player(id string) (*Player, bool) {
	p, ok := r.players[id]
	return p, ok
}

// Players returns the players in join order.
func (r *Room) Players() []*Player {
	out := make([]*Player, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.players[id])
	}
	return out
}

func (r *Room) PlayerCount() int {
	return len(r.players)
}

// CancelTimer stops the pending round timer, if any, and clears the handle.
func (r *Room) CancelTimer() {
	if r.Timer != nil {
		r.Timer.Cancel()
		r.Timer = nil
	}
}

// RoomSummary is a read-only view of a room for inspection endpoints.
type RoomSummary struct {
	Code      string        `json:"code"`
	State     RoomState     `json:"state"`
	Players   []LobbyPlayer `json:"players"`
	Round     int           `json:"round"`
	Total     int           `json:"total"`
	CreatedAt time.Time     `json:"createdAt"`
}

// LobbyPlayers lists players in join order as they appear in lobby updates.
func (r *Room) LobbyPlayers() []LobbyPlayer {
	out := make([]LobbyPlayer, 0, len(r.order))
	for _, p := range r.Players() {
		out = append(out, LobbyPlayer{ID: p.ID, Name: p.Name, Ready: p.Ready, Score: p.Score})
	}
	return out
}

// Summary builds an inspection view of the room.
func (r *Room) Summary() RoomSummary {
	round := 0
	if r.State != RoomLobby {
		round = r.CurrentQuestionIndex + 1
	}
	return RoomSummary{
		Code:      r.Code,
		State:     r.State,
		Players:   r.LobbyPlayers(),
		Round:     round,
		Total:     len(r.QuestionOrder),
		CreatedAt: r.CreatedAt,
	}
}
