package service

import "quizroom/internal/model"

// ClockSync echoes the client's send time with the server time in milliseconds.
func (m *SessionMachine) ClockSync(t0 int64) model.ClockPongPayload {
	return model.ClockPongPayload{T0: t0, T1: m.clock.Now().UnixMilli()}
}
