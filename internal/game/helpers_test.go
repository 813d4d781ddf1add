package game

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/svmoran/duelo/internal/models"
)

// mockBroadcaster collects per-player events instead of sending them over WS.
type mockBroadcaster struct {
	mu           sync.Mutex
	playerEvents map[uuid.UUID][]RoomEvent
}

func newMockBroadcaster() *mockBroadcaster {
	return &mockBroadcaster{playerEvents: make(map[uuid.UUID][]RoomEvent)}
}

func (mb *mockBroadcaster) toPlayer(playerID uuid.UUID, ev RoomEvent) {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	mb.playerEvents[playerID] = append(mb.playerEvents[playerID], ev)
}

func (mb *mockBroadcaster) lastEvent(playerID uuid.UUID) *RoomEvent {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	events := mb.playerEvents[playerID]
	if len(events) == 0 {
		return nil
	}
	return &events[len(events)-1]
}

func (mb *mockBroadcaster) clear() {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	mb.playerEvents = make(map[uuid.UUID][]RoomEvent)
}

// setupTestRoom seats numPlayers and starts the round. Seat 0 is the admin.
func setupTestRoom(t *testing.T, numPlayers int) (*Room, []*models.Player, *mockBroadcaster) {
	t.Helper()
	r := NewRoom("TEST")
	mb := newMockBroadcaster()
	r.BroadcastToPlayerFn = mb.toPlayer

	players := make([]*models.Player, numPlayers)
	for i := 0; i < numPlayers; i++ {
		players[i] = r.Join(uuid.New(), "player")
	}
	require.NoError(t, r.StartRound(players[0].ID))
	require.Equal(t, PhasePlaying, r.Phase)
	mb.clear()
	return r, players, mb
}

// totalCards counts every card across deck, discard and hands.
func totalCards(r *Room) int {
	n := len(r.Deck) + len(r.DiscardPile)
	for _, p := range r.Players {
		n += len(p.Hand)
	}
	return n
}

// extractCard pulls a specific card out of the deck or, failing that, any
// hand, so scenario tests stay deterministic regardless of how the deal fell.
func extractCard(t *testing.T, r *Room, color models.Color, value string) *models.Card {
	t.Helper()
	for i, c := range r.Deck {
		if c.Color == color && c.Value == value {
			r.Deck = append(r.Deck[:i], r.Deck[i+1:]...)
			return c
		}
	}
	for _, p := range r.Players {
		for i, c := range p.Hand {
			if c.Color == color && c.Value == value {
				p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
				return c
			}
		}
	}
	t.Fatalf("card %s %s not found in deck or hands", color, value)
	return nil
}

// takeFromDeck moves a specific card into the given hand without breaking
// card conservation.
func takeFromDeck(t *testing.T, r *Room, p *models.Player, color models.Color, value string) *models.Card {
	t.Helper()
	c := extractCard(t, r, color, value)
	p.Hand = append(p.Hand, c)
	return c
}

// setTop moves a specific card onto the discard pile and makes its color
// active (for colored cards).
func setTop(t *testing.T, r *Room, color models.Color, value string) *models.Card {
	t.Helper()
	c := extractCard(t, r, color, value)
	r.DiscardPile = append(r.DiscardPile, c)
	if c.Color != models.ColorBlack {
		r.ActiveColor = c.Color
	}
	return c
}
