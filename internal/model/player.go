package model

import "time"

// Player is a participant of exactly one room. ID is the connection identifier.
type Player struct {
	ID       string
	Name     string
	Score    int
	Ready    bool
	JoinedAt time.Time

	// Per-round answer lock and the answer it guards.
	AnsweredCurrent bool
	LastAnswer      *int

	PowerUps map[PowerUpKind]bool
}

// NewPlayer creates a player holding the default power-up set.
func NewPlayer(id, name string, now time.Time) *Player {
	return &Player{
		ID:       id,
		Name:     name,
		JoinedAt: now,
		PowerUps: DefaultPowerUps(),
	}
}

// ResetRound clears the answer lock and the recorded answer.
func (p *Player) ResetRound() {
	p.AnsweredCurrent = false
	p.LastAnswer = nil
}

// LockAnswer records idx as the player's answer for the round.
// Only the first call per round succeeds.
func (p *Player) LockAnswer(idx int) bool {
	if p.AnsweredCurrent {
		return false
	}
	p.AnsweredCurrent = true
	answer := idx
	p.LastAnswer = &answer
	return true
}

// AnsweredWith reports whether the locked answer equals idx.
func (p *Player) AnsweredWith(idx int) bool {
	return p.LastAnswer != nil && *p.LastAnswer == idx
}

// Award adds points to the score. Non-positive amounts are ignored so the score never decreases.
func (p *Player) Award(points int) int {
	if points > 0 {
		p.Score += points
	}
	return p.Score
}

// HasPowerUp reports whether kind is still held.
func (p *Player) HasPowerUp(kind PowerUpKind) bool {
	return p.PowerUps[kind]
}

// SpendPowerUp removes kind from the inventory. It fails when the kind is not held.
func (p *Player) SpendPowerUp(kind PowerUpKind) bool {
	if !p.PowerUps[kind] {
		return false
	}
	delete(p.PowerUps, kind)
	return true
}
