package game

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Rules captures the table configuration a Round plays under. All chip
// amounts are integers; the blackjack payout is a rational so settlement
// never leaves integer arithmetic.
type Rules struct {
	StartingChips int
	MinBet        int
	BetStep       int
	Decks         int

	// Blackjack pays PayoutNum:PayoutDen on the bet (3:2 by default).
	PayoutNum int
	PayoutDen int

	// DealerHitsSoft17 makes the dealer draw on soft 17 rather than stand
	// on all 17s.
	DealerHitsSoft17 bool

	// MaxHands caps how many hands a player can hold after splitting.
	MaxHands int

	// AutoStandOn21 stands the active hand automatically when a hit
	// reaches exactly 21. Off by default; an explicit Stand is required.
	AutoStandOn21 bool

	// SplitBlackjackPaysNatural pays a two-card 21 on a split hand at
	// blackjack odds instead of 1:1.
	SplitBlackjackPaysNatural bool

	// OneCardOnSplitAces gives each hand from a split pair of aces a
	// single card and then stands it, per the standard rule.
	OneCardOnSplitAces bool
}

// rulesConfig is the HCL shape of a table block. Pointer fields so an
// omitted value keeps its default rather than decoding to the zero
// value.
type rulesConfig struct {
	StartingChips             *int  `hcl:"starting_chips,optional"`
	MinBet                    *int  `hcl:"min_bet,optional"`
	BetStep                   *int  `hcl:"bet_step,optional"`
	Decks                     *int  `hcl:"decks,optional"`
	PayoutNum                 *int  `hcl:"payout_num,optional"`
	PayoutDen                 *int  `hcl:"payout_den,optional"`
	DealerHitsSoft17          *bool `hcl:"dealer_hits_soft_17,optional"`
	MaxHands                  *int  `hcl:"max_hands,optional"`
	AutoStandOn21             *bool `hcl:"auto_stand_on_21,optional"`
	SplitBlackjackPaysNatural *bool `hcl:"split_blackjack_pays_natural,optional"`
	OneCardOnSplitAces        *bool `hcl:"one_card_on_split_aces,optional"`
}

// rulesFile is the HCL wrapper: rules live in a single `table` block.
type rulesFile struct {
	Table *rulesConfig `hcl:"table,block"`
}

// DefaultRules returns the default table configuration
func DefaultRules() Rules {
	return Rules{
		StartingChips:      500,
		MinBet:             25,
		BetStep:            25,
		Decks:              1,
		PayoutNum:          3,
		PayoutDen:          2,
		DealerHitsSoft17:   false,
		MaxHands:           4,
		AutoStandOn21:      false,
		OneCardOnSplitAces: true,
	}
}

// LoadRules loads table rules from an HCL file, falling back to defaults
// when the file does not exist. Values missing from the file keep their
// defaults.
func LoadRules(filename string) (Rules, error) {
	rules := DefaultRules()

	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return rules, nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return rules, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var rf rulesFile
	diags = gohcl.DecodeBody(file.Body, nil, &rf)
	if diags.HasErrors() {
		return rules, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	if rf.Table == nil {
		return rules, nil
	}

	rf.Table.apply(&rules)
	return rules, nil
}

// apply overlays the values set in the file onto the defaults.
func (c *rulesConfig) apply(r *Rules) {
	if c.StartingChips != nil {
		r.StartingChips = *c.StartingChips
	}
	if c.MinBet != nil {
		r.MinBet = *c.MinBet
	}
	if c.BetStep != nil {
		r.BetStep = *c.BetStep
	}
	if c.Decks != nil {
		r.Decks = *c.Decks
	}
	if c.PayoutNum != nil {
		r.PayoutNum = *c.PayoutNum
	}
	if c.PayoutDen != nil {
		r.PayoutDen = *c.PayoutDen
	}
	if c.DealerHitsSoft17 != nil {
		r.DealerHitsSoft17 = *c.DealerHitsSoft17
	}
	if c.MaxHands != nil {
		r.MaxHands = *c.MaxHands
	}
	if c.AutoStandOn21 != nil {
		r.AutoStandOn21 = *c.AutoStandOn21
	}
	if c.SplitBlackjackPaysNatural != nil {
		r.SplitBlackjackPaysNatural = *c.SplitBlackjackPaysNatural
	}
	if c.OneCardOnSplitAces != nil {
		r.OneCardOnSplitAces = *c.OneCardOnSplitAces
	}
}

// Validate validates the table rules
func (r Rules) Validate() error {
	if r.StartingChips <= 0 {
		return fmt.Errorf("%w: starting chips must be positive, got %d", ErrInvalidConfig, r.StartingChips)
	}
	if r.MinBet <= 0 {
		return fmt.Errorf("%w: minimum bet must be positive, got %d", ErrInvalidConfig, r.MinBet)
	}
	if r.BetStep <= 0 {
		return fmt.Errorf("%w: bet step must be positive, got %d", ErrInvalidConfig, r.BetStep)
	}
	if r.MinBet > r.StartingChips {
		return fmt.Errorf("%w: minimum bet %d exceeds starting chips %d", ErrInvalidConfig, r.MinBet, r.StartingChips)
	}
	if r.Decks < 1 || r.Decks > 8 {
		return fmt.Errorf("%w: decks must be between 1 and 8, got %d", ErrInvalidConfig, r.Decks)
	}
	if r.PayoutNum <= 0 || r.PayoutDen <= 0 {
		return fmt.Errorf("%w: payout ratio must be positive, got %d:%d", ErrInvalidConfig, r.PayoutNum, r.PayoutDen)
	}
	if r.MaxHands < 1 || r.MaxHands > 4 {
		return fmt.Errorf("%w: max hands must be between 1 and 4, got %d", ErrInvalidConfig, r.MaxHands)
	}
	return nil
}

// BlackjackWinnings returns the winnings a natural pays on the given bet,
// rounded down to whole chips.
func (r Rules) BlackjackWinnings(bet int) int {
	return bet * r.PayoutNum / r.PayoutDen
}
