package ws

import (
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"quizroom/internal/model"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
)

// Dispatcher receives decoded commands and connection teardown (implemented by service.Engine).
type Dispatcher interface {
	Handle(connID, ref string, in model.Inbound)
	Disconnect(connID string)
}

// Options configures the WebSocket endpoint.
type Options struct {
	// AllowedOrigins limits browser origins; empty allows all.
	AllowedOrigins []string
	RatePerSec     float64
	Burst          int
}

// Handler handles WebSocket connections
type Handler struct {
	hub        *Hub
	dispatcher Dispatcher
	opts       Options
	upgrader   websocket.Upgrader
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, dispatcher Dispatcher, opts Options) *Handler {
	h := &Handler{
		hub:        hub,
		dispatcher: dispatcher,
		opts:       opts,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// ServeWS handles GET /v1/ws. Every upgraded connection gets a fresh identifier.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	wsConn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	conn := h.hub.Register(uuid.NewString())
	log.Debug().Str("conn", conn.ID).Str("remote", r.RemoteAddr).Msg("websocket connected")

	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, conn)
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	if len(h.opts.AllowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range h.opts.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

func (h *Handler) readPump(wsConn *websocket.Conn, conn *Connection) {
	defer func() {
		h.dispatcher.Disconnect(conn.ID)
		h.hub.Unregister(conn)
		wsConn.Close()
		log.Debug().Str("conn", conn.ID).Msg("websocket disconnected")
	}()

	limiter := rate.NewLimiter(rate.Limit(h.opts.RatePerSec), h.opts.Burst)

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("conn", conn.ID).Msg("websocket read error")
			}
			return
		}

		if !limiter.Allow() {
			log.Warn().Str("conn", conn.ID).Msg("rate limit exceeded, dropping frame")
			continue
		}

		ref, in, err := DecodeInbound(data)
		if err != nil {
			h.hub.Reply(conn.ID, ref, model.MsgAck, model.AckPayload{OK: false, Error: err.Error()})
			continue
		}
		h.dispatcher.Handle(conn.ID, ref, in)
	}
}

func (h *Handler) writePump(wsConn *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		wsConn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				wsConn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := writeFrame(wsConn, message); err != nil {
				log.Debug().Err(err).Str("conn", conn.ID).Msg("websocket write failed")
				return
			}

		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

type frameWriter interface {
	NextWriter(messageType int) (io.WriteCloser, error)
}

// writeFrame sends one text frame. Any failure means the connection is unusable.
func writeFrame(fw frameWriter, message []byte) error {
	w, err := fw.NextWriter(websocket.TextMessage)
	if err != nil {
		return err
	}
	if _, err := w.Write(message); err != nil {
		return err
	}
	return w.Close()
}
