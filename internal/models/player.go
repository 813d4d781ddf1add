package models

import (
	"time"

	"github.com/google/uuid"
)

// Player is one seat in a room. Seats are never removed or renumbered while
// the room exists; eliminated and spectator seats are skipped by turn
// traversal instead.
type Player struct {
	ID   uuid.UUID `json:"id"` // stable identity, survives reconnects
	Name string    `json:"name"`

	Hand []*Card `json:"hand"`

	IsAdmin    bool `json:"isAdmin"`
	Spectator  bool `json:"spectator"`
	Eliminated bool `json:"eliminated"`
	Connected  bool `json:"connected"`

	// HasDrawn marks a voluntary draw this turn; reset on every advance.
	HasDrawn bool `json:"-"`

	// AnnouncedLastCard and LastCardAt drive the call/challenge window.
	// LastCardAt is set when the hand size transitions to exactly 1.
	AnnouncedLastCard bool      `json:"-"`
	LastCardAt        time.Time `json:"-"`
}

// Alive reports whether the player participates in turn traversal.
func (p *Player) Alive() bool {
	return !p.Eliminated && !p.Spectator
}
