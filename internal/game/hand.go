package game

import (
	"strings"

	"github.com/lox/blackjack/internal/deck"
)

// Hand is an ordered set of cards belonging to one party plus the bet
// riding on it. Value, softness and bust status are recomputed whenever a
// card is added rather than stored alongside the cards.
type Hand struct {
	cards []deck.Card

	// Bet is the chips wagered on this hand. Zero for the dealer.
	Bet int

	total   int
	softAce bool

	fromSplit bool
	doubled   bool
	stood     bool
}

// NewHand creates a hand holding the given cards.
func NewHand(bet int, cards ...deck.Card) *Hand {
	h := &Hand{Bet: bet}
	h.cards = append(h.cards, cards...)
	h.evaluate()
	return h
}

// Add appends a drawn card to the hand.
func (h *Hand) Add(card deck.Card) {
	h.cards = append(h.cards, card)
	h.evaluate()
}

// Count all aces as 11, then demote one at a time to 1 while the hand
// would bust. Order-independent and never counts an ace both ways.
func (h *Hand) evaluate() {
	total := 0
	aces := 0
	for _, c := range h.cards {
		total += c.BlackjackValue()
		if c.IsAce() {
			aces++
		}
	}
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	h.total = total
	h.softAce = aces > 0
}

// Total returns the best non-busting value of the hand, or the minimum
// value when every interpretation busts.
func (h *Hand) Total() int {
	return h.total
}

// IsSoft returns true if at least one ace is currently counted as 11.
func (h *Hand) IsSoft() bool {
	return h.softAce
}

// IsBust returns true if the hand total exceeds 21.
func (h *Hand) IsBust() bool {
	return h.total > 21
}

// IsBlackjack returns true for a natural: exactly two cards totalling 21
// on a hand that did not come from a split.
func (h *Hand) IsBlackjack() bool {
	return len(h.cards) == 2 && h.total == 21 && !h.fromSplit
}

// IsPair returns true if the hand is exactly two cards of equal rank.
func (h *Hand) IsPair() bool {
	return len(h.cards) == 2 && h.cards[0].Rank == h.cards[1].Rank
}

// Size returns the number of cards in the hand.
func (h *Hand) Size() int {
	return len(h.cards)
}

// Cards returns a copy of the hand's cards in deal order.
func (h *Hand) Cards() []deck.Card {
	out := make([]deck.Card, len(h.cards))
	copy(out, h.cards)
	return out
}

// Card returns the card at position i.
func (h *Hand) Card(i int) deck.Card {
	return h.cards[i]
}

// FromSplit returns true if the hand was created by splitting a pair.
func (h *Hand) FromSplit() bool {
	return h.fromSplit
}

// Doubled returns true if the bet on this hand was doubled.
func (h *Hand) Doubled() bool {
	return h.doubled
}

// Finished returns true once the hand can take no further cards: it
// stood, busted, or is a natural.
func (h *Hand) Finished() bool {
	return h.stood || h.IsBust() || h.IsBlackjack()
}

func (h *Hand) stand() {
	h.stood = true
}

// String returns the hand's cards separated by spaces (e.g. "A♠ K♦")
func (h *Hand) String() string {
	parts := make([]string, len(h.cards))
	for i, c := range h.cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
