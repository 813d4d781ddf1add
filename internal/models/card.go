package models

// Color is the printed color of a card. Wild and special cards are black.
type Color string

const (
	ColorRed    Color = "red"
	ColorBlue   Color = "blue"
	ColorGreen  Color = "green"
	ColorYellow Color = "yellow"
	ColorBlack  Color = "black"
)

// Colors lists the four playable colors, in deck-construction order.
var Colors = []Color{ColorRed, ColorBlue, ColorGreen, ColorYellow}

// Kind partitions the deck into plain colored cards, the two wild variants,
// and the five black special cards.
type Kind string

const (
	KindNormal  Kind = "normal"
	KindWild    Kind = "wild"
	KindSpecial Kind = "special"
)

// Value labels for every card in the deck. Colored ranks run 0..9 (including
// the one-and-a-half), plus skip/reverse/draw_two. The rest are black.
const (
	ValueZero    = "0"
	ValueOne     = "1"
	ValueOneHalf = "1.5"
	ValueTwo     = "2"
	ValueThree   = "3"
	ValueFour    = "4"
	ValueFive    = "5"
	ValueSix     = "6"
	ValueSeven   = "7"
	ValueEight   = "8"
	ValueNine    = "9"
	ValueSkip    = "skip"
	ValueReverse = "reverse"
	ValueDrawTwo = "draw_two"

	ValueWild         = "wild"
	ValueWildDrawFour = "wild_draw_four"

	ValueRip        = "rip"         // elimination duel
	ValueAbsolution = "absolution"  // cancels a pending threat
	ValueDrawTwelve = "draw_twelve" // severe penalty
	ValueLibre      = "libre"       // card exchange / defensive free will
	ValueSuperSkip  = "super_skip"  // draw 4 and skip 4
)

// NumberValues is the fixed rank ordering used for run combos.
var NumberValues = []string{
	ValueZero, ValueOne, ValueOneHalf, ValueTwo, ValueThree, ValueFour,
	ValueFive, ValueSix, ValueSeven, ValueEight, ValueNine,
}

// ColoredValues are the fourteen ranks printed in each of the four colors.
var ColoredValues = append(append([]string{}, NumberValues...),
	ValueSkip, ValueReverse, ValueDrawTwo)

// SpecialValues are the five black special cards, two copies each.
var SpecialValues = []string{
	ValueRip, ValueAbsolution, ValueDrawTwelve, ValueLibre, ValueSuperSkip,
}

// Card is immutable once created. ID is a dense arena index assigned at deck
// construction; identity is by ID, never by color/value (duplicates exist).
type Card struct {
	ID    int    `json:"id"`
	Color Color  `json:"color"`
	Value string `json:"value"`
	Kind  Kind   `json:"kind"`
}

// RankIndex returns the card's position in NumberValues, or -1 if the card
// is not a plain numbered rank.
func (c *Card) RankIndex() int {
	return RankIndexOf(c.Value)
}

// RankIndexOf returns the position of a value label in NumberValues, or -1.
func RankIndexOf(value string) int {
	for i, v := range NumberValues {
		if v == value {
			return i
		}
	}
	return -1
}
