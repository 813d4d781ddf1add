package game

import (
	"sort"

	"github.com/svmoran/duelo/internal/models"
)

// matchesTop reports whether a card is playable on the current pile in the
// plain case: same active color, same value as the top card, or a wild.
// Specials other than absolution behave like wilds for matching purposes;
// absolution is phase-gated elsewhere and is never a plain play.
// Assumes lock is held.
func (r *Room) matchesTop(card *models.Card) bool {
	switch card.Kind {
	case models.KindWild:
		return true
	case models.KindSpecial:
		return card.Value != models.ValueAbsolution
	}
	if card.Color == r.ActiveColor {
		return true
	}
	top := r.topDiscard()
	return top != nil && card.Value == top.Value
}

// qualifiesSaff reports whether an out-of-turn player may reflexively play
// this card: color and value both exactly match the printed top card.
// Never valid for wild or special cards, and never while a penalty is
// outstanding. Assumes lock is held.
func (r *Room) qualifiesSaff(card *models.Card) bool {
	if r.Phase != PhasePlaying || r.PendingDraw > 0 || r.PendingSkip > 0 {
		return false
	}
	if card.Kind != models.KindNormal {
		return false
	}
	top := r.topDiscard()
	return top != nil && card.Color == top.Color && card.Value == top.Value
}

// isDrawCard reports whether a card stacks onto a pending draw penalty.
func isDrawCard(card *models.Card) bool {
	return card.Value == models.ValueDrawTwo || card.Value == models.ValueWildDrawFour
}

// validateCombo checks a multi-card selection against the two combo forms
// and returns the color the combo imposes. No state is mutated. Assumes
// lock is held.
func (r *Room) validateCombo(cards []*models.Card) (models.Color, error) {
	if len(cards) < 2 {
		return "", ErrIllegalCombo
	}
	top := r.topDiscard()

	// Paired-half: exactly two one-and-a-half cards of one color, on a
	// three of that same color.
	if len(cards) == 2 &&
		cards[0].Value == models.ValueOneHalf && cards[1].Value == models.ValueOneHalf {
		if cards[0].Color != cards[1].Color {
			return "", ErrIllegalCombo
		}
		if top == nil || top.Value != models.ValueThree || top.Color != cards[0].Color {
			return "", ErrIllegalCombo
		}
		return cards[0].Color, nil
	}

	// Run ("ladder"): one non-wild color, contiguous ranks in the fixed
	// ordering 0, 1, 1.5, 2 .. 9.
	color := cards[0].Color
	if color == models.ColorBlack {
		return "", ErrIllegalCombo
	}
	idxs := make([]int, 0, len(cards))
	for _, c := range cards {
		if c.Color != color {
			return "", ErrIllegalCombo
		}
		ri := c.RankIndex()
		if ri < 0 {
			return "", ErrIllegalCombo
		}
		idxs = append(idxs, ri)
	}
	sort.Ints(idxs)
	for i := 1; i < len(idxs); i++ {
		if idxs[i] != idxs[i-1]+1 {
			return "", ErrIllegalCombo
		}
	}

	topIdx := -1
	if top != nil {
		topIdx = top.RankIndex()
	}

	if len(idxs) >= 3 {
		if color == r.ActiveColor {
			return color, nil
		}
		for _, ri := range idxs {
			if ri == topIdx {
				return color, nil
			}
		}
		return "", ErrIllegalCombo
	}

	// Two-card run: only on a matching-colored top whose rank index sits
	// immediately adjacent to the pair, on either side.
	if top == nil || top.Color != color || topIdx < 0 {
		return "", ErrIllegalCombo
	}
	if idxs[0] == topIdx+1 || idxs[1] == topIdx-1 {
		return color, nil
	}
	return "", ErrIllegalCombo
}
