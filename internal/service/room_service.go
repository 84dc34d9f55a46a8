package service

import (
	"github.com/rs/zerolog/log"

	"quizroom/internal/model"
)

// CreateRoom opens a new room hosted by connID and returns its code.
func (m *SessionMachine) CreateRoom(connID string) (string, error) {
	if _, bound := m.directory.Lookup(connID); bound {
		return "", ErrAlreadyInRoom
	}

	code, err := m.codes.Allocate()
	if err != nil {
		return "", err
	}

	now := m.clock.Now()
	room := model.NewRoom(code, connID, now)
	m.registry.Add(room)
	m.directory.Bind(connID, code, model.RoleHost)

	log.Info().Str("room", code).Str("host", connID).Msg("room created")
	m.events.Emit(model.RoomEvent{Kind: model.RoomEventOpened, Code: code, At: now})

	m.broadcastLobby(room)
	return code, nil
}

// StartGame shuffles the question order and shows the first question.
func (m *SessionMachine) StartGame(connID, code string) error {
	room, err := m.lookupHostRoom(connID, code)
	if err != nil {
		return err
	}
	if room.State != model.RoomLobby {
		return ErrWrongState
	}
	if room.PlayerCount() == 0 {
		return ErrNoPlayers
	}

	order := make([]int, len(m.questions))
	for i := range order {
		order[i] = i
	}
	m.shuffle(order)
	room.QuestionOrder = order
	room.CurrentQuestionIndex = 0

	log.Info().Str("room", room.Code).Int("players", room.PlayerCount()).Int("questions", len(order)).Msg("game started")
	m.beginRound(room)
	return nil
}

// NextRound advances from the scoreboard to the next question, or back to the lobby
// after the last one.
func (m *SessionMachine) NextRound(connID, code string) error {
	room, err := m.lookupHostRoom(connID, code)
	if err != nil {
		return err
	}
	if room.State != model.RoomScoreboard {
		return ErrWrongState
	}
	room.CancelTimer()

	if room.CurrentQuestionIndex+1 < len(room.QuestionOrder) {
		room.CurrentQuestionIndex++
		m.beginRound(room)
		return nil
	}

	room.State = model.RoomLobby
	for _, p := range room.Players() {
		p.ResetRound()
	}
	log.Info().Str("room", room.Code).Msg("game finished, back to lobby")
	m.broadcastLobby(room)
	return nil
}

// beginRound enters the question state: resets answers, arms the round timer
// and shows the question without its correct index.
func (m *SessionMachine) beginRound(room *model.Room) {
	room.CancelTimer()

	q := m.currentQuestion(room)
	roster := make([]model.RosterEntry, 0, room.PlayerCount())
	for _, p := range room.Players() {
		p.ResetRound()
		roster = append(roster, model.RosterEntry{ID: p.ID, Name: p.Name})
	}

	now := m.clock.Now()
	room.Deadline = now.Add(q.Duration())
	room.Round++
	room.State = model.RoomQuestion

	code, round := room.Code, room.Round
	room.Timer = m.scheduler.Schedule(q.Duration()+m.cfg.RoundBuffer, func() {
		m.EndRound(code, round)
	})

	log.Debug().Str("room", code).Uint64("round", round).Str("question", q.ID).Msg("question shown")
	m.broadcastWithHost(room, model.MsgQuestionShow, model.QuestionShowPayload{
		ID:         q.ID,
		Text:       q.Text,
		Options:    q.Options,
		DurationMs: q.DurationMs,
		ServerTime: now.UnixMilli(),
		Deadline:   room.Deadline.UnixMilli(),
		Round:      room.CurrentQuestionIndex + 1,
		Total:      len(room.QuestionOrder),
		Players:    roster,
	})
}

// EndRound scores the round identified by (code, round) and moves the room through
// reveal to scoreboard. Fires for a room that is gone, has left the question state,
// or has moved to a later round are ignored. It reports whether the round was scored.
func (m *SessionMachine) EndRound(code string, round uint64) bool {
	room, ok := m.registry.Get(code)
	if !ok {
		return false
	}
	if room.State != model.RoomQuestion || room.Round != round {
		log.Debug().Str("room", code).Uint64("round", round).Msg("stale round timer ignored")
		return false
	}
	room.CancelTimer()

	q := m.currentQuestion(room)
	room.State = model.RoomReveal

	results := make([]model.PlayerResult, 0, room.PlayerCount())
	for _, p := range room.Players() {
		correct := p.AnsweredWith(q.CorrectIndex)
		if correct {
			p.Award(m.cfg.CorrectReward)
		}
		results = append(results, model.PlayerResult{
			ID:      p.ID,
			Name:    p.Name,
			Answer:  p.LastAnswer,
			Correct: correct,
			Score:   p.Score,
		})
	}
	m.broadcastWithHost(room, model.MsgQuestionResult, model.QuestionResultPayload{
		CorrectIndex: q.CorrectIndex,
		Results:      results,
	})

	room.State = model.RoomScoreboard
	m.broadcastWithHost(room, model.MsgScoreboardUpdate, model.ScoreboardPayload{Entries: results})

	m.events.Emit(model.RoomEvent{
		Kind:      model.RoomEventScored,
		Code:      code,
		At:        m.clock.Now(),
		Round:     room.CurrentQuestionIndex + 1,
		Standings: results,
	})
	log.Debug().Str("room", code).Uint64("round", round).Msg("round scored")
	return true
}

// RoomSummary returns an inspection view of a live room.
func (m *SessionMachine) RoomSummary(code string) (model.RoomSummary, error) {
	room, ok := m.registry.Get(NormalizeCode(code))
	if !ok {
		return model.RoomSummary{}, ErrRoomNotFound
	}
	return room.Summary(), nil
}
