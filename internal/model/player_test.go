package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayer_LockAnswerFirstWins(t *testing.T) {
	p := NewPlayer("c1", "Ana", time.Now())

	assert.True(t, p.LockAnswer(2))
	assert.False(t, p.LockAnswer(0))

	require.NotNil(t, p.LastAnswer)
	assert.Equal(t, 2, *p.LastAnswer)
	assert.True(t, p.AnsweredWith(2))
	assert.False(t, p.AnsweredWith(0))
}

func TestPlayer_ResetRoundReopensLock(t *testing.T) {
	p := NewPlayer("c1", "Ana", time.Now())
	p.LockAnswer(1)

	p.ResetRound()

	assert.False(t, p.AnsweredCurrent)
	assert.Nil(t, p.LastAnswer)
	assert.True(t, p.LockAnswer(3))
}

func TestPlayer_AwardNeverDecreases(t *testing.T) {
	p := NewPlayer("c1", "Ana", time.Now())

	assert.Equal(t, 100, p.Award(100))
	assert.Equal(t, 100, p.Award(-50))
	assert.Equal(t, 100, p.Award(0))
	assert.Equal(t, 200, p.Award(100))
}

func TestPlayer_SpendPowerUpOnce(t *testing.T) {
	p := NewPlayer("c1", "Ana", time.Now())

	for _, kind := range []PowerUpKind{PowerUpFreeze, PowerUpGloop, PowerUpFlash} {
		assert.True(t, p.HasPowerUp(kind))
		assert.True(t, p.SpendPowerUp(kind))
		assert.False(t, p.SpendPowerUp(kind))
		assert.False(t, p.HasPowerUp(kind))
	}
	assert.False(t, p.SpendPowerUp(PowerUpKind("laser")))
}
