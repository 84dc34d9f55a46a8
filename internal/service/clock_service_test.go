package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClockSync(t *testing.T) {
	f := newFixture()
	f.clock.Advance(1500 * time.Millisecond)

	pong := f.machine.ClockSync(42)
	assert.Equal(t, int64(42), pong.T0)
	assert.Equal(t, testEpoch.Add(1500*time.Millisecond).UnixMilli(), pong.T1)
}
