package service

import (
	"github.com/rs/zerolog/log"

	"quizroom/internal/model"
)

// JoinRoom adds connID as a player of the room in the lobby.
func (m *SessionMachine) JoinRoom(connID, code, name string) error {
	room, ok := m.registry.Get(NormalizeCode(code))
	if !ok {
		return ErrRoomNotFound
	}
	if room.State != model.RoomLobby {
		return ErrWrongState
	}
	if _, bound := m.directory.Lookup(connID); bound {
		return ErrAlreadyInRoom
	}
	displayName, err := SanitizeName(name)
	if err != nil {
		return err
	}

	room.AddPlayer(model.NewPlayer(connID, displayName, m.clock.Now()))
	m.directory.Bind(connID, room.Code, model.RolePlayer)
	m.broadcaster.Subscribe(room.Code, connID)

	log.Info().Str("room", room.Code).Str("player", connID).Str("name", displayName).Msg("player joined")
	m.broadcastLobby(room)
	return nil
}

// SetReady toggles the ready flag of a player. Unknown rooms or players are ignored.
func (m *SessionMachine) SetReady(connID, code string, ready bool) {
	room, ok := m.registry.Get(NormalizeCode(code))
	if !ok {
		return
	}
	p, ok := room.Player(connID)
	if !ok {
		return
	}
	p.Ready = ready
	m.broadcastLobby(room)
}

// Disconnect tears down whatever connID was bound to. A host leaving closes the room.
func (m *SessionMachine) Disconnect(connID string) {
	member, ok := m.directory.Lookup(connID)
	if !ok {
		return
	}
	room, ok := m.registry.Get(member.RoomCode)
	if !ok {
		m.directory.Remove(connID)
		return
	}

	switch member.Role {
	case model.RoleHost:
		m.closeRoom(room)
	case model.RolePlayer:
		room.RemovePlayer(connID)
		m.directory.Remove(connID)
		m.broadcaster.Unsubscribe(room.Code, connID)
		log.Info().Str("room", room.Code).Str("player", connID).Msg("player left")
		m.broadcastLobby(room)
	}
}

// closeRoom cancels the room's timer, notifies its players and forgets every binding.
func (m *SessionMachine) closeRoom(room *model.Room) {
	room.CancelTimer()
	m.broadcaster.BroadcastToRoom(room.Code, model.MsgRoomClosed, model.RoomClosedPayload{Code: room.Code})

	for _, p := range room.Players() {
		m.directory.Remove(p.ID)
	}
	m.directory.Remove(room.HostConnID)
	m.registry.Remove(room.Code)
	m.broadcaster.CloseChannel(room.Code)

	log.Info().Str("room", room.Code).Msg("host left, room closed")
	m.events.Emit(model.RoomEvent{Kind: model.RoomEventClosed, Code: room.Code, At: m.clock.Now()})
}

// IsBound reports whether connID still belongs to a room.
func (m *SessionMachine) IsBound(connID string) bool {
	_, ok := m.directory.Lookup(connID)
	return ok
}
