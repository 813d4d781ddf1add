package game

import (
	"github.com/google/uuid"
	"github.com/svmoran/duelo/internal/models"
)

// ViewCard is a fully visible card in a snapshot (discard top, own hand).
type ViewCard struct {
	ID    int    `json:"id"`
	Color string `json:"color"`
	Value string `json:"value"`
	Kind  string `json:"kind"`
}

// ViewPlayer is one seat as everyone may see it: hand contents stay private.
type ViewPlayer struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	HandSize   int    `json:"handSize"`
	IsTurn     bool   `json:"isTurn"`
	IsAdmin    bool   `json:"isAdmin"`
	Eliminated bool   `json:"eliminated"`
	Spectator  bool   `json:"spectator"`
	Connected  bool   `json:"connected"`
	Announced  bool   `json:"announcedLastCard"`
}

// ViewDuel is included only while a duel-related phase is active.
type ViewDuel struct {
	Mode              string `json:"mode"`
	Attacker          string `json:"attacker"`
	Defender          string `json:"defender"`
	Round             int    `json:"round"`
	AttackerScore     int    `json:"attackerScore"`
	DefenderScore     int    `json:"defenderScore"`
	Active            bool   `json:"active"`
	AttackerSubmitted bool   `json:"attackerSubmitted"`
	DefenderSubmitted bool   `json:"defenderSubmitted"`
}

// ViewExchange is included only during the libre phases.
type ViewExchange struct {
	Actor  string `json:"actor"`
	Victim string `json:"victim,omitempty"`
}

// PlayerView is the per-player snapshot pushed after every settled action.
// Hand carries only the recipient's own cards.
type PlayerView struct {
	Room          string        `json:"room"`
	Phase         string        `json:"phase"`
	Players       []ViewPlayer  `json:"players"`
	DiscardTop    *ViewCard     `json:"discardTop,omitempty"`
	ActiveColor   string        `json:"activeColor,omitempty"`
	PendingDraw   int           `json:"pendingDraw"`
	PendingSkip   int           `json:"pendingSkip"`
	DeckSize      int           `json:"deckSize"`
	Duel          *ViewDuel     `json:"duel,omitempty"`
	Exchange      *ViewExchange `json:"exchange,omitempty"`
	Challengeable []string      `json:"challengeable,omitempty"`
	Hand          []ViewCard    `json:"hand"`
	YourTurn      bool          `json:"yourTurn"`
}

func viewCard(c *models.Card) ViewCard {
	return ViewCard{ID: c.ID, Color: string(c.Color), Value: c.Value, Kind: string(c.Kind)}
}

// buildPlayerView assembles the snapshot from the perspective of one player.
// Assumes lock is held.
func (r *Room) buildPlayerView(forPlayer uuid.UUID) PlayerView {
	view := PlayerView{
		Room:        r.Code,
		Phase:       string(r.Phase),
		ActiveColor: string(r.ActiveColor),
		PendingDraw: r.PendingDraw,
		PendingSkip: r.PendingSkip,
		DeckSize:    len(r.Deck),
	}

	if top := r.topDiscard(); top != nil {
		vc := viewCard(top)
		view.DiscardTop = &vc
	}

	for i, p := range r.Players {
		view.Players = append(view.Players, ViewPlayer{
			ID:         p.ID.String(),
			Name:       p.Name,
			HandSize:   len(p.Hand),
			IsTurn:     i == r.CurrentSeat && r.Phase != PhaseWaiting,
			IsAdmin:    p.IsAdmin,
			Eliminated: p.Eliminated,
			Spectator:  p.Spectator,
			Connected:  p.Connected,
			Announced:  p.AnnouncedLastCard,
		})
		if p.ID == forPlayer {
			view.YourTurn = i == r.CurrentSeat && r.Phase != PhaseWaiting
			view.Hand = make([]ViewCard, 0, len(p.Hand))
			for _, c := range p.Hand {
				view.Hand = append(view.Hand, viewCard(c))
			}
		}
	}

	if r.Duel != nil {
		view.Duel = &ViewDuel{
			Mode:              string(r.Duel.Mode),
			Attacker:          r.Duel.AttackerID.String(),
			Defender:          r.Duel.DefenderID.String(),
			Round:             r.Duel.Round,
			AttackerScore:     r.Duel.AttackerScore,
			DefenderScore:     r.Duel.DefenderScore,
			Active:            r.Duel.Active,
			AttackerSubmitted: r.Duel.submitted(RoleAttacker),
			DefenderSubmitted: r.Duel.submitted(RoleDefender),
		}
	}
	if r.Exchange != nil {
		view.Exchange = &ViewExchange{Actor: r.Exchange.ActorID.String()}
		if r.Exchange.VictimID != uuid.Nil {
			view.Exchange.Victim = r.Exchange.VictimID.String()
		}
	}
	for _, id := range r.challengeable() {
		view.Challengeable = append(view.Challengeable, id.String())
	}
	return view
}
