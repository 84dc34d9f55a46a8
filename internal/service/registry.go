package service

import (
	"sort"

	"quizroom/internal/model"
)

// RoomRegistry is the process-wide set of live rooms keyed by code.
// It is created once at startup and owned by the engine goroutine; it has no lock.
type RoomRegistry struct {
	rooms map[string]*model.Room
}

func NewRoomRegistry() *RoomRegistry {
	return &RoomRegistry{rooms: make(map[string]*model.Room)}
}

func (r *RoomRegistry) Add(room *model.Room) {
	r.rooms[room.Code] = room
}

func (r *RoomRegistry) Get(code string) (*model.Room, bool) {
	room, ok := r.rooms[code]
	return room, ok
}

func (r *RoomRegistry) Exists(code string) bool {
	_, ok := r.rooms[code]
	return ok
}

func (r *RoomRegistry) Remove(code string) {
	delete(r.rooms, code)
}

func (r *RoomRegistry) Len() int {
	return len(r.rooms)
}

// Codes returns the live room codes sorted.
func (r *RoomRegistry) Codes() []string {
	codes := make([]string, 0, len(r.rooms))
	for code := range r.rooms {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Each calls fn for every live room.
func (r *RoomRegistry) Each(fn func(*model.Room)) {
	for _, room := range r.rooms {
		fn(room)
	}
}
