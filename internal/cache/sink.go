package cache

import (
	"context"
	"fmt"

	"quizroom/internal/model"
)

// EventSink mirrors room lifecycle events into Redis.
type EventSink struct {
	rooms       RoomCache
	leaderboard LeaderboardCache
}

func NewEventSink(rooms RoomCache, leaderboard LeaderboardCache) *EventSink {
	return &EventSink{rooms: rooms, leaderboard: leaderboard}
}

// HandleRoomEvent implements service.RoomEventSink.
// The leaderboard of a closed room is left to expire so final standings stay readable.
func (s *EventSink) HandleRoomEvent(ctx context.Context, ev model.RoomEvent) error {
	switch ev.Kind {
	case model.RoomEventOpened:
		if err := s.leaderboard.Clear(ctx, ev.Code); err != nil {
			return fmt.Errorf("clear leaderboard: %w", err)
		}
		return s.rooms.SetMeta(ctx, ev.Code, &RoomMeta{Code: ev.Code, CreatedAt: ev.At, UpdatedAt: ev.At})
	case model.RoomEventScored:
		if err := s.leaderboard.Record(ctx, ev.Code, ev.Standings); err != nil {
			return fmt.Errorf("record standings: %w", err)
		}
		return s.rooms.SetRound(ctx, ev.Code, ev.Round, ev.At)
	case model.RoomEventClosed:
		return s.rooms.Delete(ctx, ev.Code)
	}
	return nil
}
