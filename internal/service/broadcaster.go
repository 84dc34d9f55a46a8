package service

import "quizroom/internal/model"

// Broadcaster interface for WebSocket fan-out (avoids import cycle).
// Implementations must not block the caller; slow connections drop frames.
type Broadcaster interface {
	// Subscribe adds a player connection to the room's broadcast channel.
	Subscribe(roomCode, connID string)
	Unsubscribe(roomCode, connID string)
	// CloseChannel drops the room's broadcast channel and all its subscriptions.
	CloseChannel(roomCode string)

	BroadcastToRoom(roomCode string, msgType model.MessageType, payload interface{})
	SendToConn(connID string, msgType model.MessageType, payload interface{})
	// Reply sends a frame correlated with the request ref.
	Reply(connID, ref string, msgType model.MessageType, payload interface{})
}
