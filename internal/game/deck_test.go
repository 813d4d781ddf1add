package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svmoran/duelo/internal/models"
)

func TestBuildDeckComposition(t *testing.T) {
	deck := buildDeck()
	require.Len(t, deck, DeckSize)

	seenIDs := make(map[int]bool, DeckSize)
	type key struct {
		color models.Color
		value string
	}
	counts := make(map[key]int)
	for _, c := range deck {
		assert.False(t, seenIDs[c.ID], "duplicate card id %d", c.ID)
		assert.GreaterOrEqual(t, c.ID, 0)
		assert.Less(t, c.ID, DeckSize)
		seenIDs[c.ID] = true
		counts[key{c.Color, c.Value}]++
	}

	for _, color := range models.Colors {
		assert.Equal(t, 1, counts[key{color, models.ValueZero}], "%s zero", color)
		for _, value := range models.ColoredValues {
			if value == models.ValueZero {
				continue
			}
			assert.Equal(t, 2, counts[key{color, value}], "%s %s", color, value)
		}
	}
	assert.Equal(t, 4, counts[key{models.ColorBlack, models.ValueWild}])
	assert.Equal(t, 4, counts[key{models.ColorBlack, models.ValueWildDrawFour}])
	for _, value := range models.SpecialValues {
		assert.Equal(t, 2, counts[key{models.ColorBlack, value}], "special %s", value)
	}
}

func TestShufflePreservesMultiset(t *testing.T) {
	deck := buildDeck()
	before := make(map[int]bool, len(deck))
	for _, c := range deck {
		before[c.ID] = true
	}

	shuffle(deck)

	require.Len(t, deck, DeckSize)
	after := make(map[int]bool, len(deck))
	for _, c := range deck {
		assert.False(t, after[c.ID], "shuffle duplicated card id %d", c.ID)
		after[c.ID] = true
		assert.True(t, before[c.ID])
	}
}

func TestInitialDeal(t *testing.T) {
	r, players, _ := setupTestRoom(t, 4)

	for _, p := range players {
		assert.Len(t, p.Hand, 7)
	}
	// 126 total, 28 dealt, 1 flipped onto the pile.
	assert.Len(t, r.Deck, 97)
	assert.Len(t, r.DiscardPile, 1)
	assert.Equal(t, DeckSize, totalCards(r))

	top := r.topDiscard()
	require.NotNil(t, top)
	assert.NotEqual(t, models.ColorBlack, top.Color, "starting discard must be colored")
	assert.Equal(t, top.Color, r.ActiveColor)
}

func TestRecycleDiscardKeepsTop(t *testing.T) {
	r, _, _ := setupTestRoom(t, 2)

	// Move a chunk of the deck onto the pile, then empty the deck.
	for i := 0; i < 20; i++ {
		r.DiscardPile = append(r.DiscardPile, r.drawCard())
	}
	top := r.topDiscard()
	r.Players[0].Hand = append(r.Players[0].Hand, r.Deck...)
	r.Deck = nil

	r.recycleDiscard()

	require.Len(t, r.DiscardPile, 1)
	assert.Same(t, top, r.topDiscard())
	assert.Len(t, r.Deck, 20)
	assert.Equal(t, DeckSize, totalCards(r))
}

func TestRecycleRepeatedDraws(t *testing.T) {
	r, _, _ := setupTestRoom(t, 2)

	// Cycle far more cards than the deck holds; every draw must succeed and
	// the card total must never drift.
	for i := 0; i < 400; i++ {
		c := r.drawCard()
		require.NotNil(t, c, "draw %d failed", i)
		r.DiscardPile = append(r.DiscardPile, c)
		assert.Equal(t, DeckSize, totalCards(r))
	}
}

func TestDrawFromExhaustedDiscardRebuilds(t *testing.T) {
	r := NewRoom("TEST")
	r.Deck = nil
	r.DiscardPile = nil

	c := r.drawCard()
	require.NotNil(t, c)
	assert.Len(t, r.Deck, DeckSize-1)
}
