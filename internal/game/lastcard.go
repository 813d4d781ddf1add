package game

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/svmoran/duelo/internal/models"
)

// GraceWindow is how long a player on one card is safe from challenges.
const GraceWindow = 2 * time.Second

// noteHandSize must be called after any hand-size change. Reaching exactly
// one card starts the grace clock and clears any prior announcement; moving
// off one card resets both. Assumes lock is held.
func (r *Room) noteHandSize(p *models.Player) {
	if len(p.Hand) == 1 {
		if p.LastCardAt.IsZero() {
			p.LastCardAt = r.now()
			p.AnnouncedLastCard = false
		}
		return
	}
	p.LastCardAt = time.Time{}
	p.AnnouncedLastCard = false
}

// handleAnnounce lets the holder voluntarily declare their last card.
// Assumes lock is held.
func (r *Room) handleAnnounce(playerID uuid.UUID) error {
	p := r.getPlayerByID(playerID)
	if p == nil || len(p.Hand) != 1 {
		return ErrInvalidAction
	}
	p.AnnouncedLastCard = true
	r.logAction(playerID, "last_card_announced", nil)
	return nil
}

// handleChallenge validates a challenge against a silent one-card holder. A
// success forces two penalty draws and marks the lapse as spent; one penalty
// per lapse. Assumes lock is held.
func (r *Room) handleChallenge(challengerID uuid.UUID, targetRaw string) error {
	targetID, err := uuid.Parse(targetRaw)
	if err != nil || targetID == challengerID {
		return ErrInvalidAction
	}
	target := r.getPlayerByID(targetID)
	if target == nil {
		return ErrInvalidAction
	}
	if len(target.Hand) != 1 {
		return fmt.Errorf("%w: target is not on their last card", ErrChallengeDenied)
	}
	if target.AnnouncedLastCard {
		return fmt.Errorf("%w: target already announced", ErrChallengeDenied)
	}
	if r.now().Sub(target.LastCardAt) < GraceWindow {
		return fmt.Errorf("%w: grace window still open", ErrChallengeDenied)
	}

	for i := 0; i < 2; i++ {
		if c := r.drawCard(); c != nil {
			target.Hand = append(target.Hand, c)
		}
	}
	target.AnnouncedLastCard = true
	r.noteHandSize(target)
	r.logAction(challengerID, "last_card_challenge", map[string]interface{}{"target": targetID.String()})
	return nil
}

// challengeable lists the players currently open to a challenge. Assumes
// lock is held.
func (r *Room) challengeable() []uuid.UUID {
	var out []uuid.UUID
	now := r.now()
	for _, p := range r.Players {
		if len(p.Hand) == 1 && !p.AnnouncedLastCard && !p.LastCardAt.IsZero() &&
			now.Sub(p.LastCardAt) >= GraceWindow {
			out = append(out, p.ID)
		}
	}
	return out
}
