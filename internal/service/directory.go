package service

import "quizroom/internal/model"

// Membership is the (room, role) pair a connection is bound to.
type Membership struct {
	RoomCode string
	Role     model.Role
}

// ConnectionDirectory maps a connection to at most one membership.
// Owned by the engine goroutine like RoomRegistry.
type ConnectionDirectory struct {
	members map[string]Membership
}

func NewConnectionDirectory() *ConnectionDirectory {
	return &ConnectionDirectory{members: make(map[string]Membership)}
}

// Bind records the membership of connID. It refuses to overwrite an existing binding.
func (d *ConnectionDirectory) Bind(connID, roomCode string, role model.Role) bool {
	if _, ok := d.members[connID]; ok {
		return false
	}
	d.members[connID] = Membership{RoomCode: roomCode, Role: role}
	return true
}

func (d *ConnectionDirectory) Lookup(connID string) (Membership, bool) {
	m, ok := d.members[connID]
	return m, ok
}

func (d *ConnectionDirectory) Remove(connID string) {
	delete(d.members, connID)
}

func (d *ConnectionDirectory) Len() int {
	return len(d.members)
}
