package game

import (
	"log"
	"math/rand"
	"time"

	"github.com/svmoran/duelo/internal/models"
)

// DeckSize is the fixed card total: 108 colored + 8 wilds + 10 specials.
const DeckSize = 108 + 8 + 10

// buildDeck constructs and shuffles a fresh 126-card deck. Card IDs are a
// dense arena 0..125 assigned in construction order; ownership of an ID is
// tracked by whichever container (deck, hand, discard) currently holds it.
func buildDeck() []*models.Card {
	deck := make([]*models.Card, 0, DeckSize)
	id := 0
	add := func(color models.Color, value string, kind models.Kind) {
		deck = append(deck, &models.Card{ID: id, Color: color, Value: value, Kind: kind})
		id++
	}

	for _, color := range models.Colors {
		for _, value := range models.ColoredValues {
			add(color, value, models.KindNormal)
			if value != models.ValueZero {
				add(color, value, models.KindNormal)
			}
		}
	}
	for i := 0; i < 4; i++ {
		add(models.ColorBlack, models.ValueWild, models.KindWild)
		add(models.ColorBlack, models.ValueWildDrawFour, models.KindWild)
	}
	for _, value := range models.SpecialValues {
		add(models.ColorBlack, value, models.KindSpecial)
		add(models.ColorBlack, value, models.KindSpecial)
	}

	shuffle(deck)
	return deck
}

// shuffle applies a uniform Fisher-Yates permutation in place.
func shuffle(cards []*models.Card) {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	r.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
}

// drawCard pops the top deck card, recycling the discard pile when the deck
// runs dry. A draw only fails when essentially every card is held in hands.
// Assumes lock is held.
func (r *Room) drawCard() *models.Card {
	if len(r.Deck) == 0 {
		r.recycleDiscard()
	}
	if len(r.Deck) == 0 {
		log.Printf("Room %s: deck empty after recycle, cannot draw.", r.Code)
		return nil
	}
	card := r.Deck[len(r.Deck)-1]
	r.Deck = r.Deck[:len(r.Deck)-1]
	return card
}

// recycleDiscard refills the deck from the discard pile, leaving only the
// top card behind. If the discard pile itself is down to one card or fewer,
// a fresh deck is rebuilt instead (defensive fallback for the case where
// nearly every card is in hands). Assumes lock is held.
func (r *Room) recycleDiscard() {
	if len(r.DiscardPile) <= 1 {
		log.Printf("Room %s: discard pile exhausted (%d cards), rebuilding a fresh deck.", r.Code, len(r.DiscardPile))
		r.Deck = buildDeck()
		r.DiscardPile = r.DiscardPile[:0]
		return
	}
	top := r.DiscardPile[len(r.DiscardPile)-1]
	r.Deck = append(r.Deck, r.DiscardPile[:len(r.DiscardPile)-1]...)
	r.DiscardPile = []*models.Card{top}
	shuffle(r.Deck)
	log.Printf("Room %s: recycled discard pile into deck (%d cards).", r.Code, len(r.Deck))
}
