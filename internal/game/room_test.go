package game

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinSeatsAndAdmin(t *testing.T) {
	r := NewRoom("TEST")
	a := r.Join(uuid.New(), "alice")
	b := r.Join(uuid.New(), "bob")

	assert.True(t, a.IsAdmin)
	assert.False(t, b.IsAdmin)
	assert.False(t, a.Spectator)
	assert.Len(t, r.Players, 2)
	assert.Equal(t, 0, r.seatOf(a.ID))
	assert.Equal(t, 1, r.seatOf(b.ID))
}

func TestJoinReusesSeatOnReconnect(t *testing.T) {
	r := NewRoom("TEST")
	id := uuid.New()
	first := r.Join(id, "alice")
	first.Connected = false

	again := r.Join(id, "alice2")

	assert.Same(t, first, again)
	assert.True(t, again.Connected)
	assert.Equal(t, "alice2", again.Name)
	assert.Len(t, r.Players, 1)
}

func TestLateJoinerIsSpectator(t *testing.T) {
	r, _, _ := setupTestRoom(t, 2)
	late := r.Join(uuid.New(), "late")

	assert.True(t, late.Spectator)
	assert.False(t, late.Alive())
	assert.Empty(t, late.Hand, "spectators are never dealt in")
}

func TestStartRoundGuards(t *testing.T) {
	r := NewRoom("TEST")
	admin := r.Join(uuid.New(), "alice")
	guest := r.Join(uuid.New(), "bob")

	assert.ErrorIs(t, r.StartRound(guest.ID), ErrInvalidAction, "only the admin deals")
	assert.ErrorIs(t, r.StartRound(uuid.New()), ErrInvalidAction)

	require.NoError(t, r.StartRound(admin.ID))
	assert.ErrorIs(t, r.StartRound(admin.ID), ErrInvalidAction, "no redeal mid-round")
}

func TestStartRoundSkipsSpectatorDeal(t *testing.T) {
	r := NewRoom("TEST")
	admin := r.Join(uuid.New(), "alice")
	r.Join(uuid.New(), "bob")
	ghost := r.Join(uuid.New(), "ghost")
	ghost.Spectator = true

	require.NoError(t, r.StartRound(admin.ID))

	assert.Empty(t, ghost.Hand)
	assert.Len(t, r.Players[0].Hand, 7)
	assert.Len(t, r.Players[1].Hand, 7)
	assert.Equal(t, 0, r.CurrentSeat)
}

func TestDisconnectKeepsSeatState(t *testing.T) {
	r, players, mb := setupTestRoom(t, 2)
	hand := len(players[1].Hand)

	r.HandleDisconnect(players[1].ID)

	assert.False(t, players[1].Connected)
	assert.Len(t, players[1].Hand, hand, "the hand survives the connection")
	assert.False(t, players[1].Eliminated)

	ev := mb.lastEvent(players[0].ID)
	require.NotNil(t, ev)
	assert.Equal(t, EventState, ev.Type)
}

func TestRebind(t *testing.T) {
	r, players, _ := setupTestRoom(t, 2)
	r.HandleDisconnect(players[1].ID)

	assert.True(t, r.Rebind(players[1].ID))
	assert.True(t, players[1].Connected)
	assert.False(t, r.Rebind(uuid.New()), "unknown identities cannot rebind")
}

func TestPlayerViewHidesOtherHands(t *testing.T) {
	r, players, _ := setupTestRoom(t, 3)

	view := r.buildPlayerView(players[1].ID)

	assert.Len(t, view.Hand, 7)
	require.Len(t, view.Players, 3)
	for _, vp := range view.Players {
		assert.Equal(t, 7, vp.HandSize)
	}
	assert.Equal(t, 97, view.DeckSize)
	require.NotNil(t, view.DiscardTop)
	assert.Equal(t, r.topDiscard().ID, view.DiscardTop.ID)
	assert.True(t, view.Players[0].IsTurn)
	assert.False(t, view.YourTurn)
}

func TestPlayerViewCarriesDuel(t *testing.T) {
	r, players, _ := setupTestRoom(t, 3)
	r.Duel = newDuelSession(DuelPenalty, players[0].ID, players[1].ID)
	r.Duel.Active = true
	r.Duel.submit(RoleAttacker, SymbolRock)

	view := r.buildPlayerView(players[2].ID)

	require.NotNil(t, view.Duel)
	assert.Equal(t, "penalty", view.Duel.Mode)
	assert.True(t, view.Duel.AttackerSubmitted, "submission presence is public")
	assert.False(t, view.Duel.DefenderSubmitted)
}

func TestEndRoundFiresCallbackOnce(t *testing.T) {
	r, players, _ := setupTestRoom(t, 2)
	done := make(chan string, 2)
	r.OnRoundEnd = func(code string, winner uuid.UUID) {
		done <- code
	}

	r.endRound(players[0].ID)
	r.endRound(players[0].ID) // idempotent

	assert.Equal(t, "TEST", <-done)
	select {
	case <-done:
		t.Fatal("round-end callback fired twice")
	default:
	}
	assert.Equal(t, PhaseEnded, r.Phase)
}

func TestRemoveFromHand(t *testing.T) {
	_, players, _ := setupTestRoom(t, 2)
	p := players[0]
	c := p.Hand[3]

	got := removeFromHand(p, c.ID)
	assert.Same(t, c, got)
	assert.Len(t, p.Hand, 6)
	assert.Nil(t, removeFromHand(p, c.ID), "a card leaves the hand only once")
}
