package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var clockStart = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestStepClock_Advances(t *testing.T) {
	clock := NewStepClock(clockStart, time.Second)

	assert.Equal(t, clockStart, clock.Now())
	assert.Equal(t, clockStart.Add(time.Second), clock.Now())
	assert.Equal(t, clockStart.Add(2*time.Second), clock.Now())
}

func TestStepClock_Reset(t *testing.T) {
	clock := NewStepClock(clockStart, time.Minute)
	clock.Now()
	clock.Now()

	clock.Reset()
	assert.Equal(t, clockStart, clock.Now())
}

func TestStepClock_Deterministic(t *testing.T) {
	c1 := NewStepClock(clockStart, time.Millisecond)
	c2 := NewStepClock(clockStart, time.Millisecond)

	for i := 0; i < 100; i++ {
		assert.Equal(t, c1.Now(), c2.Now())
	}
}

func TestFixedNowMatchesClockStart(t *testing.T) {
	assert.Equal(t, clockStart, FixedNow.Time())
}
