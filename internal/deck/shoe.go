package deck

import (
	"errors"
	"fmt"
	rand "math/rand/v2"
)

// ErrShoeEmpty is returned by Draw when no cards remain. The shoe never
// rebuilds itself on a failed draw; callers decide when a reshuffle is
// allowed to happen.
var ErrShoeEmpty = errors.New("shoe is empty")

// Shoe is a drawable source of cards. A single-deck shoe holds the 52
// distinct cards in a random permutation; multi-deck shoes hold that many
// copies of each card. Cards drawn do not reappear until Rebuild.
type Shoe struct {
	cards []Card
	decks int
	rng   *rand.Rand
}

// NewShoe creates a shuffled shoe of the given number of 52-card decks.
// The RNG is injected so games and tests control determinism.
func NewShoe(decks int, rng *rand.Rand) (*Shoe, error) {
	if decks < 1 {
		return nil, fmt.Errorf("shoe needs at least one deck, got %d", decks)
	}
	s := &Shoe{
		cards: make([]Card, 0, decks*52),
		decks: decks,
		rng:   rng,
	}
	s.Rebuild()
	return s, nil
}

// Rebuild restores the shoe to its full complement of cards and
// reshuffles. Any cards previously dealt are discarded.
func (s *Shoe) Rebuild() {
	s.cards = s.cards[:0]
	for d := 0; d < s.decks; d++ {
		for suit := Spades; suit <= Clubs; suit++ {
			for rank := Two; rank <= Ace; rank++ {
				s.cards = append(s.cards, NewCard(suit, rank))
			}
		}
	}
	s.shuffle()
}

// Fisher-Yates
func (s *Shoe) shuffle() {
	for i := len(s.cards) - 1; i > 0; i-- {
		j := s.rng.IntN(i + 1)
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	}
}

// Draw removes and returns the next card, or ErrShoeEmpty.
func (s *Shoe) Draw() (Card, error) {
	if len(s.cards) == 0 {
		return Card{}, ErrShoeEmpty
	}
	card := s.cards[0]
	s.cards = s.cards[1:]
	return card, nil
}

// Remaining returns the number of undrawn cards.
func (s *Shoe) Remaining() int {
	return len(s.cards)
}

// Decks returns the number of decks the shoe was built from.
func (s *Shoe) Decks() int {
	return s.decks
}
