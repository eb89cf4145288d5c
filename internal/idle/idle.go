// Package idle tracks the external activity-classification signal that
// suspends accrual for AFK players.
package idle

import (
	"sync"

	"github.com/playtoearn/coinserver/internal/model"
)

// Signal reports whether a player is currently considered idle.
// Accrual consumes this as a read-only boolean per player.
type Signal interface {
	IsIdle(id model.PlayerID) bool
}

// Categories the hosting game server classifies activity by. Which of
// them count towards idleness is configuration; these are the defaults
// the reference AFK module ships with.
const (
	CategoryMovement = "movement"
	CategoryDeath    = "death"
	CategoryCamera   = "camera"
)

// DefaultCategories returns the categories that suspend accrual by
// default
func DefaultCategories() []string {
	return []string{CategoryMovement, CategoryDeath, CategoryCamera}
}

// Tracker holds per-player inactive category sets fed by the hosting
// game server's activity events. A player is idle iff at least one
// tracked category reports inactivity.
type Tracker struct {
	mu       sync.RWMutex
	tracked  map[string]bool
	inactive map[model.PlayerID]map[string]bool
}

// Ensure Tracker implements Signal
var _ Signal = (*Tracker)(nil)

// NewTracker creates a tracker counting the given categories towards
// idleness. Reports for untracked categories are retained but ignored.
func NewTracker(categories []string) *Tracker {
	tracked := make(map[string]bool, len(categories))
	for _, c := range categories {
		tracked[c] = true
	}
	return &Tracker{
		tracked:  tracked,
		inactive: make(map[model.PlayerID]map[string]bool),
	}
}

// SetInactive records that a player went inactive (or active again) in
// a category
func (t *Tracker) SetInactive(id model.PlayerID, category string, inactive bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	set, ok := t.inactive[id]
	if !ok {
		if !inactive {
			return
		}
		set = make(map[string]bool)
		t.inactive[id] = set
	}

	if inactive {
		set[category] = true
		return
	}

	delete(set, category)
	if len(set) == 0 {
		delete(t.inactive, id)
	}
}

// Clear drops all activity state for a player, called on disconnect
func (t *Tracker) Clear(id model.PlayerID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.inactive, id)
}

// IsIdle reports whether any tracked category is inactive for the
// player
func (t *Tracker) IsIdle(id model.PlayerID) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for category := range t.inactive[id] {
		if t.tracked[category] {
			return true
		}
	}
	return false
}
