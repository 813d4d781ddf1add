package game

import (
	"log"

	"github.com/google/uuid"
	"github.com/svmoran/duelo/internal/models"
)

// ExchangeSession tracks the libre sub-sequence. The step itself lives in
// the room phase (libre_victim -> libre_give -> libre_discard ->
// libre_color); only the initiating actor may act at each step.
type ExchangeSession struct {
	ActorID  uuid.UUID
	VictimID uuid.UUID
}

// applyCardEffect dispatches the just-played card's effect. The card is
// already on the discard pile and the win-on-empty-hand check has already
// run. Saff seat-snapping happens before this is called, so the dispatch
// table is free of out-of-turn special cases. Assumes lock is held.
func (r *Room) applyCardEffect(actor *models.Player, card *models.Card, chosenColor models.Color) {
	switch card.Value {
	case models.ValueSkip:
		r.advance(2)
	case models.ValueReverse:
		r.Direction = -r.Direction
		r.advance(1)
	case models.ValueDrawTwo:
		r.PendingDraw += 2
		r.advance(1)
	case models.ValueWild:
		r.ActiveColor = chosenColor
		r.advance(1)
	case models.ValueWildDrawFour:
		r.ActiveColor = chosenColor
		r.PendingDraw += 4
		r.advance(1)
	case models.ValueRip:
		r.openRipDuel(actor)
	case models.ValueDrawTwelve:
		r.PendingDraw += 12
		r.openPenaltyThreat(actor)
	case models.ValueSuperSkip:
		r.PendingDraw += 4
		r.PendingSkip += 4
		r.openPenaltyThreat(actor)
	case models.ValueLibre:
		r.startExchange(actor)
	default:
		// plain numeral, matching only
		r.advance(1)
	}
}

// openRipDuel opens an elimination duel against the next seated player. With
// fewer than two living players the round ends immediately instead.
// Assumes lock is held.
func (r *Room) openRipDuel(actor *models.Player) {
	if r.aliveCount() < 2 {
		r.endRound(actor.ID)
		return
	}
	defenderSeat := r.nextAliveSeat(r.seatOf(actor.ID), 1)
	defender := r.Players[defenderSeat]
	r.CurrentSeat = defenderSeat
	r.Duel = newDuelSession(DuelRip, actor.ID, defender.ID)
	r.Phase = PhaseRipDecision
	log.Printf("Room %s: rip duel opened, %s threatens %s.", r.Code, actor.ID, defender.ID)
}

// openPenaltyThreat moves the seat to the victim of a severe penalty and
// opens the pending duel session they may invoke instead of accepting.
// Assumes lock is held.
func (r *Room) openPenaltyThreat(actor *models.Player) {
	victimSeat := r.nextAliveSeat(r.seatOf(actor.ID), 1)
	victim := r.Players[victimSeat]
	r.CurrentSeat = victimSeat
	r.Duel = newDuelSession(DuelPenalty, actor.ID, victim.ID)
	r.Phase = PhasePenaltyDecision
	log.Printf("Room %s: penalty threat opened against %s (draw %d, skip %d).", r.Code, victim.ID, r.PendingDraw, r.PendingSkip)
}

// startExchange begins the libre sub-sequence for the actor. Assumes lock is
// held.
func (r *Room) startExchange(actor *models.Player) {
	r.Exchange = &ExchangeSession{ActorID: actor.ID}
	r.Phase = PhaseLibreVictim
}

// playAbsolution cancels the outstanding threat. Only legal from the threat
// phases and only for the threatened player; validated by the caller. The
// card is already discarded. Assumes lock is held.
func (r *Room) playAbsolution(actor *models.Player) {
	r.PendingDraw = 0
	r.PendingSkip = 0
	r.Duel = nil
	r.Phase = PhasePlaying
	log.Printf("Room %s: %s absolved the pending threat.", r.Code, actor.ID)
}

// handleRipDecision resolves the defender's surrender-or-duel choice.
// Assumes lock is held.
func (r *Room) handleRipDecision(playerID uuid.UUID, choice string) error {
	if r.Phase != PhaseRipDecision || r.Duel == nil || r.Duel.DefenderID != playerID {
		return ErrInvalidAction
	}
	switch choice {
	case "surrender":
		defender := r.getPlayerByID(playerID)
		r.Duel = nil
		r.eliminate(defender)
		return nil
	case "duel":
		r.Duel.Active = true
		r.Phase = PhaseDueling
		return nil
	}
	return ErrInvalidAction
}

// handlePenaltyDecision resolves the victim's accept-or-duel choice.
// Assumes lock is held.
func (r *Room) handlePenaltyDecision(playerID uuid.UUID, choice string) error {
	if r.Phase != PhasePenaltyDecision || r.Duel == nil || r.Duel.DefenderID != playerID {
		return ErrInvalidAction
	}
	switch choice {
	case "accept":
		// Counts stay positive; the victim clears them by drawing one card
		// at a time on their own turn.
		r.Duel = nil
		r.Phase = PhasePlaying
		return nil
	case "duel":
		r.Duel.Active = true
		r.Phase = PhaseDueling
		return nil
	}
	return ErrInvalidAction
}

// handleDuelChoice records a symbol from either participant and resolves the
// round once both are in. Assumes lock is held.
func (r *Room) handleDuelChoice(playerID uuid.UUID, choice string) error {
	if r.Phase != PhaseDueling || r.Duel == nil || !r.Duel.Active {
		return ErrInvalidAction
	}
	role := r.Duel.roleOf(playerID)
	if role == "" || !validSymbol(choice) {
		return ErrInvalidAction
	}
	r.Duel.submit(role, choice)
	winner, done := r.Duel.resolveRound()
	if done {
		r.finishDuel(winner)
	}
	return nil
}

// finishDuel dispatches the duel outcome according to what was at stake.
// Assumes lock is held.
func (r *Room) finishDuel(winner DuelRole) {
	d := r.Duel
	r.Duel = nil

	if d.Mode == DuelRip {
		loserID := d.DefenderID
		if winner == RoleDefender {
			loserID = d.AttackerID
		}
		loser := r.getPlayerByID(loserID)
		// Advance counts from the elimination point.
		r.CurrentSeat = r.seatOf(loserID)
		r.eliminate(loser)
		return
	}

	// Penalty duel.
	if winner == RoleDefender {
		r.PendingDraw = 0
		r.PendingSkip = 0
		attacker := r.getPlayerByID(d.AttackerID)
		for i := 0; i < 4; i++ {
			if c := r.drawCard(); c != nil {
				attacker.Hand = append(attacker.Hand, c)
			}
		}
		r.noteHandSize(attacker)
		r.Phase = PhasePlaying
		r.advance(1) // turn passes the defender
		log.Printf("Room %s: defender %s won the penalty duel; attacker drew 4.", r.Code, d.DefenderID)
		return
	}

	// Attacker won: the penalty aggravates and the victim must still
	// self-draw on their turn.
	r.PendingDraw += 4
	r.Phase = PhasePlaying
	log.Printf("Room %s: attacker %s won the penalty duel; pending draw now %d.", r.Code, d.AttackerID, r.PendingDraw)
}

// eliminate flags the player out permanently and runs the win-condition
// check; if the round continues, the turn advances by one from the
// elimination point. Assumes lock is held.
func (r *Room) eliminate(p *models.Player) {
	p.Eliminated = true
	log.Printf("Room %s: player %s eliminated.", r.Code, p.ID)
	r.logAction(p.ID, "player_eliminated", nil)

	switch r.aliveCount() {
	case 0:
		// Should not occur under the duel rules; end without a winner
		// rather than crash.
		r.endRound(uuid.Nil)
	case 1:
		for _, pl := range r.Players {
			if pl.Alive() {
				r.endRound(pl.ID)
				return
			}
		}
	default:
		r.Phase = PhasePlaying
		r.advance(1)
	}
}

// handleExchangeStep drives the libre sub-sequence. Actions from anyone but
// the initiating actor are rejected without effect. Assumes lock is held.
func (r *Room) handleExchangeStep(playerID uuid.UUID, action models.RoomAction) error {
	if r.Exchange == nil || r.Exchange.ActorID != playerID {
		return ErrInvalidAction
	}
	actor := r.getPlayerByID(playerID)

	switch r.Phase {
	case PhaseLibreVictim:
		targetID, err := uuid.Parse(action.Target)
		if err != nil {
			return ErrInvalidAction
		}
		victim := r.getPlayerByID(targetID)
		if victim == nil || victim.ID == actor.ID || !victim.Alive() {
			return ErrInvalidAction
		}
		r.Exchange.VictimID = victim.ID
		r.Phase = PhaseLibreGive
		return nil

	case PhaseLibreGive:
		card := removeFromHand(actor, action.Card)
		if card == nil {
			return ErrUnknownCard
		}
		victim := r.getPlayerByID(r.Exchange.VictimID)
		victim.Hand = append(victim.Hand, card)
		r.noteHandSize(actor)
		r.noteHandSize(victim)
		if len(actor.Hand) == 0 {
			// Nothing left to discard; the sequence cannot continue.
			r.endRound(actor.ID)
			return nil
		}
		r.Phase = PhaseLibreDiscard
		return nil

	case PhaseLibreDiscard:
		card := removeFromHand(actor, action.Card)
		if card == nil {
			return ErrUnknownCard
		}
		r.DiscardPile = append(r.DiscardPile, card)
		if card.Color != models.ColorBlack {
			r.ActiveColor = card.Color
		}
		r.noteHandSize(actor)
		r.Phase = PhaseLibreColor
		return nil

	case PhaseLibreColor:
		color := parseColor(action.Color)
		if color == "" {
			return ErrInvalidAction
		}
		r.ActiveColor = color
		r.Exchange = nil
		if len(actor.Hand) == 0 {
			r.endRound(actor.ID)
			return nil
		}
		r.Phase = PhasePlaying
		r.advance(1)
		return nil
	}
	return ErrInvalidAction
}

// parseColor maps a declared color onto one of the four playable colors.
func parseColor(s string) models.Color {
	switch models.Color(s) {
	case models.ColorRed, models.ColorBlue, models.ColorGreen, models.ColorYellow:
		return models.Color(s)
	}
	return ""
}
