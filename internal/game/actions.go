package game

import (
	"log"

	"github.com/google/uuid"
	"github.com/svmoran/duelo/internal/models"
)

// HandleAction is the main router for inbound player actions. It validates,
// mutates room state, lets effects cascade, and finally pushes fresh
// snapshots to everyone. Rejections leave the room untouched and only the
// actor is notified. Assumes lock is held by the caller (the WS read loop).
func (r *Room) HandleAction(playerID uuid.UUID, action models.RoomAction) {
	if r.Phase == PhaseEnded {
		r.fireError(playerID, ErrInvalidAction, "round is over")
		return
	}
	r.touch()

	var err error
	switch action.Type {
	case "start_round":
		err = r.StartRound(playerID)
	case "play_card":
		err = r.handlePlayCard(playerID, action.Card, action.Color)
	case "play_combo":
		err = r.handlePlayCombo(playerID, action.CardIDs)
	case "exchange_step":
		err = r.handleExchangeStep(playerID, action)
	case "rip_decision":
		err = r.handleRipDecision(playerID, action.Choice)
	case "penalty_decision":
		err = r.handlePenaltyDecision(playerID, action.Choice)
	case "duel_choice":
		err = r.handleDuelChoice(playerID, action.Choice)
	case "announce":
		err = r.handleAnnounce(playerID)
	case "challenge":
		err = r.handleChallenge(playerID, action.Target)
	case "draw":
		err = r.handleDraw(playerID)
	case "pass":
		err = r.handlePass(playerID)
	case "reorder_hand":
		err = r.handleReorder(playerID, action.CardIDs)
	default:
		err = ErrInvalidAction
	}

	if err != nil {
		log.Printf("Room %s: rejected %s from %s: %v", r.Code, action.Type, playerID, err)
		r.fireError(playerID, err, err.Error())
		return
	}

	r.logAction(playerID, action.Type, nil)
	if r.Phase != PhaseEnded {
		r.broadcastSnapshots()
	}
}

// handlePlayCard validates and executes a single-card play: a normal
// in-turn play, a saff reflexive play, a penalty stack, a defensive libre,
// or an absolution while under threat. Assumes lock is held.
func (r *Room) handlePlayCard(playerID uuid.UUID, cardID int, colorRaw string) error {
	p := r.getPlayerByID(playerID)
	if p == nil || !p.Alive() {
		return ErrInvalidAction
	}
	var card *models.Card
	for _, c := range p.Hand {
		if c.ID == cardID {
			card = c
			break
		}
	}
	if card == nil {
		return ErrUnknownCard
	}

	switch r.Phase {
	case PhaseRipDecision, PhasePenaltyDecision:
		// Only the threatened player may escape, and only with absolution.
		if card.Value != models.ValueAbsolution || r.Duel == nil || r.Duel.DefenderID != playerID {
			return ErrInvalidAction
		}
		removeFromHand(p, cardID)
		r.DiscardPile = append(r.DiscardPile, card)
		r.noteHandSize(p)
		r.playAbsolution(p)
		if len(p.Hand) == 0 {
			r.endRound(p.ID)
		}
		return nil
	case PhasePlaying:
	default:
		return ErrInvalidAction
	}

	isCurrent := r.seatOf(playerID) == r.CurrentSeat

	if r.PendingDraw > 0 || r.PendingSkip > 0 {
		if !isCurrent {
			return ErrInvalidAction
		}
		if card.Value == models.ValueLibre && r.PendingDraw > 0 && r.PendingSkip == 0 {
			// Defensive free will: cancel the draw debt, then the
			// exchange sequence runs instead of a normal play.
			removeFromHand(p, cardID)
			r.DiscardPile = append(r.DiscardPile, card)
			r.noteHandSize(p)
			r.PendingDraw = 0
			if len(p.Hand) == 0 {
				r.endRound(p.ID)
				return nil
			}
			r.startExchange(p)
			return nil
		}
		// Stacking: only another draw card keeps the chain alive.
		if !isDrawCard(card) || !r.matchesTop(card) {
			return ErrInvalidAction
		}
	} else if !isCurrent {
		if !r.qualifiesSaff(card) {
			return ErrInvalidAction
		}
		// The turn snaps to the reflexive player before the card's own
		// effect is applied.
		r.CurrentSeat = r.seatOf(playerID)
	} else if !r.matchesTop(card) {
		return ErrInvalidAction
	}

	var chosen models.Color
	if card.Kind == models.KindWild {
		chosen = parseColor(colorRaw)
		if chosen == "" {
			return ErrInvalidAction
		}
	}

	removeFromHand(p, cardID)
	r.DiscardPile = append(r.DiscardPile, card)
	if card.Kind == models.KindNormal {
		r.ActiveColor = card.Color
	}
	r.noteHandSize(p)
	if len(p.Hand) == 0 {
		r.endRound(p.ID)
		return nil
	}
	r.applyCardEffect(p, card, chosen)
	return nil
}

// handlePlayCombo validates and executes a paired-half or run combo.
// Assumes lock is held.
func (r *Room) handlePlayCombo(playerID uuid.UUID, cardIDs []int) error {
	p := r.getPlayerByID(playerID)
	if p == nil || !p.Alive() {
		return ErrInvalidAction
	}
	if r.Phase != PhasePlaying || r.seatOf(playerID) != r.CurrentSeat ||
		r.PendingDraw > 0 || r.PendingSkip > 0 {
		return ErrInvalidAction
	}

	seen := make(map[int]bool, len(cardIDs))
	cards := make([]*models.Card, 0, len(cardIDs))
	for _, id := range cardIDs {
		if seen[id] {
			return ErrUnknownCard
		}
		seen[id] = true
		var found *models.Card
		for _, c := range p.Hand {
			if c.ID == id {
				found = c
				break
			}
		}
		if found == nil {
			return ErrUnknownCard
		}
		cards = append(cards, found)
	}

	color, err := r.validateCombo(cards)
	if err != nil {
		return err
	}

	for _, c := range cards {
		removeFromHand(p, c.ID)
		r.DiscardPile = append(r.DiscardPile, c)
	}
	r.ActiveColor = color
	r.noteHandSize(p)
	if len(p.Hand) == 0 {
		r.endRound(p.ID)
		return nil
	}
	r.advance(1)
	return nil
}

// handleDraw serves both penalty draws (one pending card at a time) and the
// once-per-turn voluntary draw. Assumes lock is held.
func (r *Room) handleDraw(playerID uuid.UUID) error {
	p := r.getPlayerByID(playerID)
	if p == nil || !p.Alive() {
		return ErrInvalidAction
	}
	if r.Phase != PhasePlaying || r.seatOf(playerID) != r.CurrentSeat {
		return ErrInvalidAction
	}

	if r.PendingDraw > 0 {
		if c := r.drawCard(); c != nil {
			p.Hand = append(p.Hand, c)
		}
		r.PendingDraw--
		r.noteHandSize(p)
		if r.PendingDraw == 0 && r.PendingSkip > 0 {
			steps := 1 + r.PendingSkip
			r.PendingSkip = 0
			r.advance(steps)
		}
		return nil
	}

	if p.HasDrawn {
		return ErrInvalidAction
	}
	if c := r.drawCard(); c != nil {
		p.Hand = append(p.Hand, c)
	}
	p.HasDrawn = true
	r.noteHandSize(p)
	return nil
}

// handlePass ends the turn after a fruitless voluntary draw. Assumes lock is
// held.
func (r *Room) handlePass(playerID uuid.UUID) error {
	p := r.getPlayerByID(playerID)
	if p == nil || !p.Alive() {
		return ErrInvalidAction
	}
	if r.Phase != PhasePlaying || r.seatOf(playerID) != r.CurrentSeat ||
		!p.HasDrawn || r.PendingDraw > 0 || r.PendingSkip > 0 {
		return ErrInvalidAction
	}
	r.advance(1)
	return nil
}

// handleReorder rearranges the player's own reported hand order. Pure
// read-side convenience: no game state beyond the ordering changes.
// Assumes lock is held.
func (r *Room) handleReorder(playerID uuid.UUID, cardIDs []int) error {
	p := r.getPlayerByID(playerID)
	if p == nil {
		return ErrInvalidAction
	}
	if len(cardIDs) != len(p.Hand) {
		return ErrUnknownCard
	}
	byID := make(map[int]*models.Card, len(p.Hand))
	for _, c := range p.Hand {
		byID[c.ID] = c
	}
	reordered := make([]*models.Card, 0, len(cardIDs))
	for _, id := range cardIDs {
		c, ok := byID[id]
		if !ok {
			return ErrUnknownCard
		}
		delete(byID, id)
		reordered = append(reordered, c)
	}
	p.Hand = reordered
	return nil
}
