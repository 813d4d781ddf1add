package game

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/svmoran/duelo/internal/models"
)

// Phase is the room state machine. waiting -> playing, then playing cycles
// through the threat/duel/exchange phases and back; ended is terminal.
type Phase string

const (
	PhaseWaiting         Phase = "waiting"
	PhasePlaying         Phase = "playing"
	PhaseRipDecision     Phase = "rip_decision"
	PhasePenaltyDecision Phase = "penalty_decision"
	PhaseDueling         Phase = "dueling"
	PhaseLibreVictim     Phase = "libre_victim"
	PhaseLibreGive       Phase = "libre_give"
	PhaseLibreDiscard    Phase = "libre_discard"
	PhaseLibreColor      Phase = "libre_color"
	PhaseEnded           Phase = "ended"
)

// RoomEventType is an enum-like type for outbound room events.
type RoomEventType string

const (
	EventState    RoomEventType = "state"     // per-player snapshot after every settled action
	EventError    RoomEventType = "error"     // private rejection notice
	EventRoundEnd RoomEventType = "round_end" // terminal, carries the winner
)

// RoomEvent is the single outbound envelope sent to clients.
type RoomEvent struct {
	Type    RoomEventType `json:"type"`
	Reason  string        `json:"reason,omitempty"`
	Message string        `json:"message,omitempty"`
	Winner  string        `json:"winner,omitempty"`
	State   *PlayerView   `json:"state,omitempty"`
}

// OnRoundEndFunc handles a finished round, typically tearing the room down.
type OnRoundEndFunc func(code string, winner uuid.UUID)

// LogActionFunc receives every settled or attempted action for the external
// action feed. Must not block game logic.
type LogActionFunc func(roomCode string, actionIndex int, actor uuid.UUID, action string, payload map[string]interface{})

// Room holds the entire state for a single round in memory. One Room equals
// one round; the room is destroyed when the round ends.
type Room struct {
	Code  string
	Phase Phase

	// Players is the seating order, fixed at join time. Seats are never
	// removed or renumbered; traversal skips eliminated/spectator seats.
	Players []*models.Player

	Deck        []*models.Card
	DiscardPile []*models.Card // top = last element

	CurrentSeat int
	Direction   int // +1 or -1

	// ActiveColor is the color plays must match. It tracks the top discard
	// for colored cards and the declared color after a wild or libre.
	ActiveColor models.Color

	PendingDraw int
	PendingSkip int

	Duel     *DuelSession
	Exchange *ExchangeSession

	LastActivity time.Time

	Mu sync.Mutex

	// BroadcastToPlayerFn sends an event to a single player. It must not
	// acquire the room lock; it is invoked while the lock is held.
	BroadcastToPlayerFn func(playerID uuid.UUID, ev RoomEvent)

	OnRoundEnd OnRoundEndFunc
	LogFn      LogActionFunc

	actionIndex int

	// now is swappable for grace-window tests.
	now func() time.Time
}

// NewRoom builds an empty room in the waiting phase.
func NewRoom(code string) *Room {
	return &Room{
		Code:         code,
		Phase:        PhaseWaiting,
		Direction:    1,
		LastActivity: time.Now(),
		now:          time.Now,
	}
}

// HandleJoin admits the identity and pushes fresh snapshots to everyone.
func (r *Room) HandleJoin(identity uuid.UUID, name string) *models.Player {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	p := r.Join(identity, name)
	r.broadcastSnapshots()
	return p
}

// Join admits the identity into the room, reusing the seat on reconnect.
// Joining after the round has started flags the seat as spectator.
// Assumes lock is held.
func (r *Room) Join(identity uuid.UUID, name string) *models.Player {
	for _, p := range r.Players {
		if p.ID == identity {
			p.Connected = true
			if name != "" {
				p.Name = name
			}
			log.Printf("Room %s: player %s reconnected.", r.Code, identity)
			r.logAction(identity, "player_reconnect", nil)
			return p
		}
	}
	p := &models.Player{
		ID:        identity,
		Name:      name,
		Connected: true,
		IsAdmin:   len(r.Players) == 0,
		Spectator: r.Phase != PhaseWaiting,
	}
	r.Players = append(r.Players, p)
	r.touch()
	log.Printf("Room %s: player %s (%s) joined at seat %d (spectator=%v).", r.Code, identity, name, len(r.Players)-1, p.Spectator)
	r.logAction(identity, "player_join", map[string]interface{}{"spectator": p.Spectator})
	return p
}

// HandleDisconnect marks the player as disconnected. Game-logic fields are
// untouched; a pending decision simply stays pending.
func (r *Room) HandleDisconnect(playerID uuid.UUID) {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	for _, p := range r.Players {
		if p.ID == playerID {
			p.Connected = false
			log.Printf("Room %s: player %s disconnected.", r.Code, playerID)
			r.logAction(playerID, "player_disconnect", nil)
			break
		}
	}
	r.broadcastSnapshots()
}

// Rebind updates only the connectivity flag on reconnect; safe to run
// concurrently with in-flight actions for the same room.
func (r *Room) Rebind(playerID uuid.UUID) bool {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	for _, p := range r.Players {
		if p.ID == playerID {
			p.Connected = true
			r.logAction(playerID, "player_resume", nil)
			r.broadcastSnapshots()
			return true
		}
	}
	return false
}

// StartRound deals a fresh round. Only the admin may trigger it and only
// from the waiting phase. Assumes lock is held.
func (r *Room) StartRound(actor uuid.UUID) error {
	if r.Phase != PhaseWaiting {
		return ErrInvalidAction
	}
	p := r.getPlayerByID(actor)
	if p == nil || !p.IsAdmin {
		return ErrInvalidAction
	}

	r.Deck = buildDeck()
	r.DiscardPile = r.DiscardPile[:0]
	r.PendingDraw = 0
	r.PendingSkip = 0
	r.Duel = nil
	r.Exchange = nil
	r.Direction = 1
	r.CurrentSeat = 0

	for _, pl := range r.Players {
		pl.Eliminated = false
		pl.Hand = nil
		pl.HasDrawn = false
		pl.AnnouncedLastCard = false
		pl.LastCardAt = time.Time{}
	}

	// Flip the starting discard; its color seeds the active color. Black
	// cards are flipped back under the deck until a colored card appears.
	for {
		top := r.drawCard()
		if top.Color == models.ColorBlack {
			r.Deck = append([]*models.Card{top}, r.Deck...)
			continue
		}
		r.DiscardPile = append(r.DiscardPile, top)
		r.ActiveColor = top.Color
		break
	}

	for _, pl := range r.Players {
		if pl.Spectator {
			continue
		}
		for i := 0; i < 7; i++ {
			pl.Hand = append(pl.Hand, r.drawCard())
		}
	}

	if !r.Players[r.CurrentSeat].Alive() {
		r.advance(1)
	}
	r.Phase = PhasePlaying
	r.touch()
	log.Printf("Room %s: round started with %d seats, %d deck cards.", r.Code, len(r.Players), len(r.Deck))
	r.logAction(actor, "round_start", map[string]interface{}{"players": len(r.Players)})
	return nil
}

// getPlayerByID returns the seat record for an identity, or nil.
func (r *Room) getPlayerByID(id uuid.UUID) *models.Player {
	for _, p := range r.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// seatOf returns the seat index for an identity, or -1.
func (r *Room) seatOf(id uuid.UUID) int {
	for i, p := range r.Players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// topDiscard returns the visible top of the discard pile, or nil before the
// round has started.
func (r *Room) topDiscard() *models.Card {
	if len(r.DiscardPile) == 0 {
		return nil
	}
	return r.DiscardPile[len(r.DiscardPile)-1]
}

// removeFromHand detaches a card by arena id. Returns nil if not held.
func removeFromHand(p *models.Player, cardID int) *models.Card {
	for i, c := range p.Hand {
		if c.ID == cardID {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return c
		}
	}
	return nil
}

// endRound finishes the round, notifies everyone and hands the room to the
// teardown callback. Winner may be uuid.Nil in the zero-survivor edge case.
// Assumes lock is held.
func (r *Room) endRound(winner uuid.UUID) {
	if r.Phase == PhaseEnded {
		return
	}
	r.Phase = PhaseEnded
	r.Duel = nil
	r.Exchange = nil
	log.Printf("Room %s: round ended, winner %s.", r.Code, winner)
	r.logAction(winner, "round_end", nil)

	winnerStr := ""
	if winner != uuid.Nil {
		winnerStr = winner.String()
	}
	if r.BroadcastToPlayerFn != nil {
		for _, p := range r.Players {
			if p.Connected {
				r.BroadcastToPlayerFn(p.ID, RoomEvent{Type: EventRoundEnd, Winner: winnerStr})
			}
		}
	}
	if r.OnRoundEnd != nil {
		cb := r.OnRoundEnd
		code := r.Code
		go cb(code, winner)
	}
}

// broadcastSnapshots sends each connected player their private view. Called
// after every settled action. Assumes lock is held.
func (r *Room) broadcastSnapshots() {
	if r.BroadcastToPlayerFn == nil {
		return
	}
	for _, p := range r.Players {
		if !p.Connected {
			continue
		}
		view := r.buildPlayerView(p.ID)
		r.BroadcastToPlayerFn(p.ID, RoomEvent{Type: EventState, State: &view})
	}
}

// fireError sends a private rejection notice. Assumes lock is held.
func (r *Room) fireError(playerID uuid.UUID, err error, message string) {
	if r.BroadcastToPlayerFn == nil {
		return
	}
	r.BroadcastToPlayerFn(playerID, RoomEvent{Type: EventError, Reason: err.Error(), Message: message})
}

// logAction forwards an action record to the feed, if wired. Assumes lock is
// held; the feed implementation must not block.
func (r *Room) logAction(actor uuid.UUID, action string, payload map[string]interface{}) {
	r.actionIndex++
	if r.LogFn != nil {
		r.LogFn(r.Code, r.actionIndex, actor, action, payload)
	}
}

// touch refreshes the idle-eviction clock.
func (r *Room) touch() {
	r.LastActivity = time.Now()
}
