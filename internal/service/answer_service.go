package service

import (
	"quizroom/internal/model"
)

// SubmitAnswer locks the player's answer for the current round. Submissions for the
// wrong state, from non-players, out of range or after the grace period are dropped,
// as is every submission after the first. It reports whether the answer was recorded.
func (m *SessionMachine) SubmitAnswer(connID, code string, answerIndex int) bool {
	room, ok := m.registry.Get(NormalizeCode(code))
	if !ok || room.State != model.RoomQuestion {
		return false
	}
	p, ok := room.Player(connID)
	if !ok {
		return false
	}
	if !m.currentQuestion(room).HasOption(answerIndex) {
		return false
	}
	if m.clock.Now().After(room.Deadline.Add(m.cfg.RoundBuffer)) {
		return false
	}
	return p.LockAnswer(answerIndex)
}
