package service

import "errors"

var (
	ErrRoomNotFound       = errors.New("room not found")
	ErrNotHost            = errors.New("only the host can do that")
	ErrWrongState         = errors.New("room is not in the right state for that")
	ErrNoPlayers          = errors.New("at least one player is required")
	ErrAlreadyInRoom      = errors.New("connection already belongs to a room")
	ErrInvalidName        = errors.New("display name is empty")
	ErrUnknownMessage     = errors.New("unknown message type")
	ErrCodeSpaceExhausted = errors.New("no room codes left")
	ErrEngineStopped      = errors.New("engine stopped")
)
