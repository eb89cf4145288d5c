package mocks

import (
	"sync"
	"time"

	"github.com/playtoearn/coinserver/internal/dependencies/clock"
)

// MockClock is a mock implementation of Clock for testing. It is safe
// for concurrent use: the accrual scheduler reads it from dispatch
// goroutines while tests advance it.
type MockClock struct {
	mu  sync.Mutex
	now time.Time
}

// Ensure MockClock implements Clock
var _ clock.Clock = (*MockClock)(nil)

// NewMockClock creates a MockClock set to the given time
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{now: t}
}

// Now returns the mocked current time
func (c *MockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by the given duration
func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Set sets the clock to the given time
func (c *MockClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}
