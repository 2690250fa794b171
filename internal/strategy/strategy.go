// Package strategy recommends blackjack moves from basic strategy
// lookup tables. Recommendations are purely advisory; legality is the
// round's business, never enforced here.
package strategy

import (
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

type rec byte

const (
	hit rec = iota
	stand
	double // double when allowed, otherwise hit
	split
)

// Dealer upcard columns run 2..11 (ace counts 11); index 0 is upcard 2.
const upcardColumns = 10

// Hard totals 5..17. Totals above 17 always stand, below 5 cannot occur
// with two or more cards.
var hardTable = map[int][upcardColumns]rec{
	5:  {hit, hit, hit, hit, hit, hit, hit, hit, hit, hit},
	6:  {hit, hit, hit, hit, hit, hit, hit, hit, hit, hit},
	7:  {hit, hit, hit, hit, hit, hit, hit, hit, hit, hit},
	8:  {hit, hit, hit, hit, hit, hit, hit, hit, hit, hit},
	9:  {hit, double, double, double, double, hit, hit, hit, hit, hit},
	10: {double, double, double, double, double, double, double, double, hit, hit},
	11: {double, double, double, double, double, double, double, double, double, hit},
	12: {hit, hit, stand, stand, stand, hit, hit, hit, hit, hit},
	13: {stand, stand, stand, stand, stand, hit, hit, hit, hit, hit},
	14: {stand, stand, stand, stand, stand, hit, hit, hit, hit, hit},
	15: {stand, stand, stand, stand, stand, hit, hit, hit, hit, hit},
	16: {stand, stand, stand, stand, stand, hit, hit, hit, hit, hit},
	17: {stand, stand, stand, stand, stand, stand, stand, stand, stand, stand},
}

// Soft totals 13 (A,2) through 19. Soft 20+ always stands.
var softTable = map[int][upcardColumns]rec{
	13: {hit, hit, hit, double, double, hit, hit, hit, hit, hit},
	14: {hit, hit, hit, double, double, hit, hit, hit, hit, hit},
	15: {hit, hit, double, double, double, hit, hit, hit, hit, hit},
	16: {hit, hit, double, double, double, hit, hit, hit, hit, hit},
	17: {hit, double, double, double, double, hit, hit, hit, hit, hit},
	18: {stand, double, double, double, double, stand, stand, hit, hit, hit},
	19: {stand, stand, stand, stand, stand, stand, stand, stand, stand, stand},
}

// Pairs keyed by the paired card's blackjack value (aces under 11).
var pairTable = map[int][upcardColumns]rec{
	2:  {split, split, split, split, split, split, hit, hit, hit, hit},
	3:  {split, split, split, split, split, split, hit, hit, hit, hit},
	4:  {hit, hit, hit, split, split, hit, hit, hit, hit, hit},
	5:  {double, double, double, double, double, double, double, double, hit, hit},
	6:  {split, split, split, split, split, hit, hit, hit, hit, hit},
	7:  {split, split, split, split, split, split, hit, hit, hit, hit},
	8:  {split, split, split, split, split, split, split, split, split, split},
	9:  {split, split, split, split, split, stand, split, split, stand, stand},
	10: {stand, stand, stand, stand, stand, stand, stand, stand, stand, stand},
	11: {split, split, split, split, split, split, split, split, split, split},
}

// Recommend returns the basic strategy action for the given player hand
// against the dealer's upcard. Inputs the tables do not cover fail closed
// to Stand, the most conservative legal action. Double recommendations
// degrade to Hit when the hand can no longer double.
func Recommend(hand game.HandView, upcard deck.Card) game.Action {
	if len(hand.Cards) < 2 || hand.Bust || hand.Finished {
		return game.Stand
	}

	col := upcard.BlackjackValue() - 2
	if col < 0 || col >= upcardColumns {
		return game.Stand
	}

	canDouble := len(hand.Cards) == 2

	if canDouble && isPair(hand.Cards) {
		if row, ok := pairTable[hand.Cards[0].BlackjackValue()]; ok {
			return toAction(row[col], canDouble)
		}
	}

	if hand.Soft {
		if row, ok := softTable[hand.Total]; ok {
			return toAction(row[col], canDouble)
		}
		return game.Stand
	}

	if row, ok := hardTable[hand.Total]; ok {
		return toAction(row[col], canDouble)
	}
	return game.Stand
}

func isPair(cards []deck.Card) bool {
	return len(cards) == 2 && cards[0].Rank == cards[1].Rank
}

func toAction(r rec, canDouble bool) game.Action {
	switch r {
	case hit:
		return game.Hit
	case double:
		if canDouble {
			return game.Double
		}
		return game.Hit
	case split:
		return game.Split
	default:
		return game.Stand
	}
}
