package model

import "time"

type RoomEventKind string

const (
	RoomEventOpened RoomEventKind = "opened"
	RoomEventScored RoomEventKind = "scored"
	RoomEventClosed RoomEventKind = "closed"
)

// RoomEvent is an observer notification about a room's lifecycle.
type RoomEvent struct {
	Kind      RoomEventKind  `json:"kind"`
	Code      string         `json:"code"`
	At        time.Time      `json:"at"`
	Round     int            `json:"round,omitempty"`
	Standings []PlayerResult `json:"standings,omitempty"`
}
