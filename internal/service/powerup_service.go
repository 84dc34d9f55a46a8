package service

import (
	"github.com/rs/zerolog/log"

	"quizroom/internal/model"
)

// UsePower spends one of the user's power-ups on a target in the same room.
// Only the target is notified. It reports whether the power-up was applied.
func (m *SessionMachine) UsePower(connID, code, targetID string, kind model.PowerUpKind) bool {
	room, ok := m.registry.Get(NormalizeCode(code))
	if !ok || room.State != model.RoomQuestion {
		return false
	}
	user, ok := room.Player(connID)
	if !ok {
		return false
	}
	if _, ok := room.Player(targetID); !ok {
		return false
	}
	if !kind.Valid() || !user.SpendPowerUp(kind) {
		return false
	}

	log.Debug().Str("room", room.Code).Str("from", connID).Str("target", targetID).Str("kind", string(kind)).Msg("power-up applied")
	m.broadcaster.SendToConn(targetID, model.MsgPowerApplied, model.PowerAppliedPayload{
		Kind: kind,
		From: user.Name,
	})
	return true
}
