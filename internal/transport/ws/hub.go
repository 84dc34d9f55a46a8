package ws

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"

	"quizroom/internal/model"
)

const sendBufferSize = 256

// Hub tracks live WebSocket connections and the room channels they are subscribed to.
// It implements service.Broadcaster; no method blocks on a slow client.
type Hub struct {
	conns map[string]*Connection            // connID -> conn
	rooms map[string]map[string]*Connection // roomCode -> connID -> conn

	mu sync.RWMutex
}

// Connection represents a WebSocket connection
type Connection struct {
	ID   string
	Send chan []byte
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		conns: make(map[string]*Connection),
		rooms: make(map[string]map[string]*Connection),
	}
}

// Register adds a connection
func (h *Hub) Register(connID string) *Connection {
	conn := &Connection{ID: connID, Send: make(chan []byte, sendBufferSize)}
	h.mu.Lock()
	h.conns[connID] = conn
	h.mu.Unlock()
	return conn
}

// Unregister removes a connection from the hub and every room channel, then closes its send queue.
func (h *Hub) Unregister(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	existing, ok := h.conns[conn.ID]
	if !ok || existing != conn {
		return
	}
	delete(h.conns, conn.ID)
	for code, members := range h.rooms {
		delete(members, conn.ID)
		if len(members) == 0 {
			delete(h.rooms, code)
		}
	}
	close(conn.Send)
}

func (h *Hub) Subscribe(roomCode, connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conn, ok := h.conns[connID]
	if !ok {
		return
	}
	if h.rooms[roomCode] == nil {
		h.rooms[roomCode] = make(map[string]*Connection)
	}
	h.rooms[roomCode][connID] = conn
}

func (h *Hub) Unsubscribe(roomCode, connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if members, ok := h.rooms[roomCode]; ok {
		delete(members, connID)
		if len(members) == 0 {
			delete(h.rooms, roomCode)
		}
	}
}

func (h *Hub) CloseChannel(roomCode string) {
	h.mu.Lock()
	delete(h.rooms, roomCode)
	h.mu.Unlock()
}

// BroadcastToRoom sends a frame to every subscriber of the room channel.
func (h *Hub) BroadcastToRoom(roomCode string, msgType model.MessageType, payload interface{}) {
	data, err := encodeFrame(msgType, "", payload)
	if err != nil {
		log.Error().Err(err).Str("type", string(msgType)).Msg("encode frame")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, conn := range h.rooms[roomCode] {
		h.trySend(conn, msgType, data)
	}
}

func (h *Hub) SendToConn(connID string, msgType model.MessageType, payload interface{}) {
	h.Reply(connID, "", msgType, payload)
}

func (h *Hub) Reply(connID, ref string, msgType model.MessageType, payload interface{}) {
	data, err := encodeFrame(msgType, ref, payload)
	if err != nil {
		log.Error().Err(err).Str("type", string(msgType)).Msg("encode frame")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if conn, ok := h.conns[connID]; ok {
		h.trySend(conn, msgType, data)
	}
}

// ConnectionCount returns the number of registered connections.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// trySend must be called with h.mu held.
func (h *Hub) trySend(conn *Connection, msgType model.MessageType, data []byte) {
	select {
	case conn.Send <- data:
	default:
		log.Warn().Str("conn", conn.ID).Str("type", string(msgType)).Msg("send buffer full, dropping frame")
	}
}

func encodeFrame(msgType model.MessageType, ref string, payload interface{}) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(model.Envelope{Type: msgType, Ref: ref, Payload: raw})
}
