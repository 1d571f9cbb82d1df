package game

import "strconv"

// Suit is one of the four French suits, stored as the symbol clients render.
type Suit string

const (
	SuitSpades   Suit = "♠"
	SuitHearts   Suit = "♥"
	SuitDiamonds Suit = "♦"
	SuitClubs    Suit = "♣"
)

// Suits lists every suit in deck-building order.
var Suits = []Suit{SuitSpades, SuitHearts, SuitDiamonds, SuitClubs}

// ValidSuit reports whether s is one of the four playable suits.
func ValidSuit(s Suit) bool {
	for _, v := range Suits {
		if s == v {
			return true
		}
	}
	return false
}

// Rank is a card rank, "A" through "K".
type Rank string

// Ranks lists every rank in deck-building order.
var Ranks = []Rank{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}

// Card is an immutable rank and suit pair. Two full 52-card sets are in play
// at once, so equal values repeat; hands address cards by position, never by
// value equality.
type Card struct {
	Rank Rank `json:"rank"`
	Suit Suit `json:"suit"`
}

func (c Card) String() string {
	return string(c.Rank) + string(c.Suit)
}

// EffectKind classifies a card's special effect when played.
type EffectKind int

const (
	EffectNormal EffectKind = iota
	EffectAttack
	EffectExtraTurn
	EffectWild
)

func (k EffectKind) String() string {
	switch k {
	case EffectNormal:
		return "NORMAL"
	case EffectAttack:
		return "ATTACK"
	case EffectExtraTurn:
		return "EXTRA_TURN"
	case EffectWild:
		return "WILD"
	default:
		return "UNKNOWN"
	}
}

// AttackKind identifies which attack chain a card belongs to.
type AttackKind int

const (
	AttackTwoRank AttackKind = iota
	AttackBlackQueen
)

func (k AttackKind) String() string {
	switch k {
	case AttackTwoRank:
		return "2"
	case AttackBlackQueen:
		return "Q♠"
	default:
		return "UNKNOWN"
	}
}

// CardEffect describes what playing a card does. Draw is the forced-draw
// amount one card of an attack kind adds to its chain.
type CardEffect struct {
	Kind   EffectKind
	Attack AttackKind
	Draw   int
}

// EffectOf returns the fixed effect mapping for a card: rank 2 opens the
// two-rank attack (draw 2), the queen of spades opens the black-queen attack
// (draw 5), ranks 5 and 7 grant an extra turn, rank 8 is wild.
func EffectOf(c Card) CardEffect {
	switch {
	case c.Rank == "2":
		return CardEffect{Kind: EffectAttack, Attack: AttackTwoRank, Draw: 2}
	case c.Rank == "Q" && c.Suit == SuitSpades:
		return CardEffect{Kind: EffectAttack, Attack: AttackBlackQueen, Draw: 5}
	case c.Rank == "5" || c.Rank == "7":
		return CardEffect{Kind: EffectExtraTurn}
	case c.Rank == "8":
		return CardEffect{Kind: EffectWild}
	default:
		return CardEffect{Kind: EffectNormal}
	}
}

// NumericValue returns the card's face value used for ron matching only:
// A=1, numerals literal, J=11, Q=12, K=13. Distinct from Points.
func NumericValue(c Card) int {
	switch c.Rank {
	case "A":
		return 1
	case "J":
		return 11
	case "Q":
		return 12
	case "K":
		return 13
	default:
		n, _ := strconv.Atoi(string(c.Rank))
		return n
	}
}

// HandValue sums NumericValue over a hand.
func HandValue(hand []Card) int {
	total := 0
	for _, c := range hand {
		total += NumericValue(c)
	}
	return total
}

// rankPoints is the payout value table. The queen of spades is the one
// suit-dependent exception, handled in Points.
var rankPoints = map[Rank]float64{
	"A":  0.1,
	"2":  4,
	"3":  0.3,
	"4":  0.4,
	"5":  2,
	"6":  0.6,
	"7":  2,
	"8":  4,
	"9":  0.9,
	"10": 1,
	"J":  1,
	"Q":  1,
	"K":  1,
}

const queenSpadePoints = 5

// Points returns the card's payout value, used only when settling a round.
func Points(c Card) float64 {
	if c.Rank == "Q" && c.Suit == SuitSpades {
		return queenSpadePoints
	}
	return rankPoints[c.Rank]
}

// HandPoints sums Points over a hand.
func HandPoints(hand []Card) float64 {
	total := 0.0
	for _, c := range hand {
		total += Points(c)
	}
	return total
}
