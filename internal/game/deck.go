package game

import (
	"errors"
	"math/rand"
)

// deckSetCount is how many full 52-card sets the draw pile holds.
const deckSetCount = 2

// ErrEmptyDeck is returned by Draw when no cards remain.
var ErrEmptyDeck = errors.New("deck is empty")

// Deck is the shared draw pile: two concatenated 52-card sets in a uniformly
// random permutation.
type Deck struct {
	cards []Card
}

// NewDeck builds and shuffles a fresh 104-card deck.
func NewDeck() *Deck {
	cards := make([]Card, 0, deckSetCount*len(Suits)*len(Ranks))
	for i := 0; i < deckSetCount; i++ {
		for _, suit := range Suits {
			for _, rank := range Ranks {
				cards = append(cards, Card{Rank: rank, Suit: suit})
			}
		}
	}
	rand.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
	return &Deck{cards: cards}
}

// Draw removes and returns the top card.
func (d *Deck) Draw() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, ErrEmptyDeck
	}
	top := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return top, nil
}

// Remaining reports how many cards are left to draw.
func (d *Deck) Remaining() int {
	return len(d.cards)
}
