// Package clock supplies the time source for step and batch timing.
package clock

import (
	"sync"
	"time"
)

// Epoch is where a Mock created from the zero time starts.
var Epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

// Real reads the system clock.
type Real struct{}

func (Real) Now() time.Time {
	return time.Now()
}

// OrReal returns c, or Real when c is nil.
func OrReal(c Clock) Clock {
	if c == nil {
		return Real{}
	}
	return c
}

// Millis returns end-start in whole milliseconds. A clock that went
// backwards yields 0, never a negative duration.
func Millis(start, end time.Time) int64 {
	if ms := end.Sub(start).Milliseconds(); ms > 0 {
		return ms
	}
	return 0
}

// Mock only moves when told to. Step actions in tests call Advance to
// simulate work, so recorded durations are exact.
type Mock struct {
	mu  sync.Mutex
	now time.Time
}

// NewMock starts a Mock at start, or at Epoch when start is zero.
func NewMock(start time.Time) *Mock {
	if start.IsZero() {
		start = Epoch
	}
	return &Mock{now: start}
}

func (m *Mock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the clock forward by d and returns the new time.
func (m *Mock) Advance(d time.Duration) time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
	return m.now
}

// Set jumps to t, which may be in the past.
func (m *Mock) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
}
