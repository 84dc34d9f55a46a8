package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"quizroom/internal/model"
)

const (
	natsMaxReconnects = -1
	natsReconnectWait = 2 * time.Second
	subjectPrefix     = "quizroom.rooms"
)

// Conn is the subset of *nats.Conn used for publishing.
type Conn interface {
	Publish(subject string, data []byte) error
}

// RoomEventMessage is the JSON body published for every room event.
type RoomEventMessage struct {
	EventID string          `json:"eventId"`
	model.RoomEvent
}

// NATSPublisher publishes room events on quizroom.rooms.<code>.<kind>.
type NATSPublisher struct {
	conn Conn
}

func NewNATSPublisher(conn Conn) *NATSPublisher {
	return &NATSPublisher{conn: conn}
}

// Connect dials NATS with reconnect and logging handlers.
func Connect(url string) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Name("quizroom"),
		nats.MaxReconnects(natsMaxReconnects),
		nats.ReconnectWait(natsReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.Error().Err(err).Msg("NATS error")
		}),
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return nc, nil
}

// Subject returns the subject an event is published on.
func Subject(ev model.RoomEvent) string {
	return fmt.Sprintf("%s.%s.%s", subjectPrefix, ev.Code, ev.Kind)
}

// HandleRoomEvent implements service.RoomEventSink.
func (p *NATSPublisher) HandleRoomEvent(ctx context.Context, ev model.RoomEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(RoomEventMessage{EventID: uuid.NewString(), RoomEvent: ev})
	if err != nil {
		return fmt.Errorf("marshal room event: %w", err)
	}
	if err := p.conn.Publish(Subject(ev), data); err != nil {
		return fmt.Errorf("publish room event: %w", err)
	}
	log.Debug().Str("subject", Subject(ev)).Msg("room event published")
	return nil
}
