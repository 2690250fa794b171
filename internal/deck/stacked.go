package deck

// NewStackedShoe creates a shoe that deals the given cards in order and
// never replenishes itself. Used for deterministic tests and replaying
// recorded rounds; the automatic reshuffle policy does not apply to it.
func NewStackedShoe(cards ...Card) *Shoe {
	stacked := make([]Card, len(cards))
	copy(stacked, cards)
	return &Shoe{cards: stacked}
}
