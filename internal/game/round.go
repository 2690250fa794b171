package game

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/deck"
)

// HandResult is the settlement record for a single player hand.
type HandResult struct {
	HandIndex int
	Outcome   Outcome
	Bet       int
	Net       int
	Doubled   bool
	FromSplit bool
}

// Round is the aggregate for one player session at the table: the shoe,
// the dealer hand, one to Rules.MaxHands player hands, the bankroll and
// the current state. All transitions are synchronous and caller-driven;
// a command either advances the state or returns an error leaving the
// round untouched. There is no background work and no locking - exactly
// one round is ever active.
type Round struct {
	rules  Rules
	shoe   *deck.Shoe
	logger *log.Logger
	bus    EventBus

	state    State
	bankroll int
	bet      int

	dealer  *Hand
	hands   []*Hand
	active  int
	results []HandResult
	net     int
}

// NewRound creates a round in the Betting state with the configured
// starting bankroll. The shoe is owned by the round from here on.
func NewRound(rules Rules, shoe *deck.Shoe, logger *log.Logger) (*Round, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return &Round{
		rules:    rules,
		shoe:     shoe,
		logger:   logger,
		bus:      NewEventBus(),
		state:    Betting,
		bankroll: rules.StartingChips,
		bet:      rules.MinBet,
	}, nil
}

// EventBus returns the bus round events are published on.
func (r *Round) EventBus() EventBus {
	return r.bus
}

// Rules returns the table rules the round plays under.
func (r *Round) Rules() Rules {
	return r.rules
}

// State returns the current round state.
func (r *Round) State() State {
	return r.state
}

// Bankroll returns the player's chips outside any active wager.
func (r *Round) Bankroll() int {
	return r.bankroll
}

// Bet returns the bet the next deal will place.
func (r *Round) Bet() int {
	return r.bet
}

// Net returns the summed chip delta of the last settled round.
func (r *Round) Net() int {
	return r.net
}

// Results returns the per-hand settlement records of the last settled
// round, in hand order.
func (r *Round) Results() []HandResult {
	out := make([]HandResult, len(r.results))
	copy(out, r.results)
	return out
}

// wagered is the total chips riding on all hands this round.
func (r *Round) wagered() int {
	total := 0
	for _, h := range r.hands {
		total += h.Bet
	}
	return total
}

// available is the bankroll not yet committed to a hand, the ceiling for
// doubles and splits.
func (r *Round) available() int {
	return r.bankroll - r.wagered()
}

// AdjustBet moves the bet by delta chips. Only legal while betting; the
// result must stay a multiple of the bet step within
// [minimum bet, bankroll].
func (r *Round) AdjustBet(delta int) error {
	if r.state != Betting {
		return ErrIllegalCommand
	}
	if delta == 0 || delta%r.rules.BetStep != 0 {
		return fmt.Errorf("%w: bet moves in steps of %d", ErrIllegalCommand, r.rules.BetStep)
	}
	next := r.bet + delta
	if next < r.rules.MinBet {
		return ErrBetBelowMinimum
	}
	if next > r.bankroll {
		return ErrInsufficientFunds
	}
	r.bet = next
	return nil
}

// Deal starts the round: two cards to the player, two to the dealer with
// the hole card hidden. A natural 21 skips the player turn entirely and
// runs the dealer to settlement.
func (r *Round) Deal() error {
	if r.state != Betting {
		return ErrIllegalCommand
	}
	if r.bet < r.rules.MinBet {
		return ErrBetBelowMinimum
	}
	if r.bet > r.bankroll {
		return ErrInsufficientFunds
	}

	// Reshuffle between rounds once half the shoe is gone. Never inside a
	// round, so no card can repeat within a hand.
	if r.shoe.Remaining() < r.shoe.Decks()*26 {
		r.logger.Debug("rebuilding shoe", "remaining", r.shoe.Remaining())
		r.shoe.Rebuild()
	}

	r.state = Dealing
	r.hands = []*Hand{NewHand(r.bet)}
	r.dealer = NewHand(0)
	r.active = 0
	r.results = nil
	r.net = 0

	r.bus.Publish(NewRoundStartedEvent(r.bet, r.bankroll))

	// Alternating deal order: player, dealer, player, dealer.
	for i := 0; i < 2; i++ {
		if err := r.dealTo(r.hands[0], 0, false); err != nil {
			return err
		}
		if err := r.dealTo(r.dealer, 0, i == 1); err != nil {
			return err
		}
	}

	r.logger.Debug("dealt round",
		"player", r.hands[0].String(),
		"playerTotal", r.hands[0].Total(),
		"dealerUp", r.dealer.Card(0).String())

	if r.hands[0].IsBlackjack() {
		r.playDealer()
		return nil
	}

	r.state = PlayerTurn
	return nil
}

func (r *Round) dealTo(h *Hand, handIndex int, hidden bool) error {
	card, err := r.shoe.Draw()
	if err != nil {
		return fmt.Errorf("dealing card: %w", err)
	}
	h.Add(card)
	r.bus.Publish(NewCardDealtEvent(card, h == r.dealer, handIndex, hidden))
	return nil
}

// ActiveHand returns the hand currently awaiting a decision, or nil.
func (r *Round) ActiveHand() *Hand {
	if r.state != PlayerTurn || r.active >= len(r.hands) {
		return nil
	}
	return r.hands[r.active]
}

// ActiveHandIndex returns the index of the hand awaiting a decision.
func (r *Round) ActiveHandIndex() int {
	return r.active
}

// Hands returns the player hands in play order.
func (r *Round) Hands() []*Hand {
	return r.hands
}

// Dealer returns the dealer's hand.
func (r *Round) Dealer() *Hand {
	return r.dealer
}

// DealerUpcard returns the dealer's visible card. Only valid once a round
// has been dealt.
func (r *Round) DealerUpcard() deck.Card {
	return r.dealer.Card(0)
}

// LegalActions returns the actions the active hand may take, empty
// outside the player turn.
func (r *Round) LegalActions() []Action {
	h := r.ActiveHand()
	if h == nil {
		return nil
	}
	actions := []Action{Hit, Stand}
	if h.Size() == 2 && r.available() >= h.Bet {
		actions = append(actions, Double)
		if h.IsPair() && len(r.hands) < r.rules.MaxHands {
			actions = append(actions, Split)
		}
	}
	return actions
}

func (r *Round) legal(action Action) bool {
	for _, a := range r.LegalActions() {
		if a == action {
			return true
		}
	}
	return false
}

// Hit draws one card to the active hand. Busting ends the hand; reaching
// 21 only stands automatically when the rules say so.
func (r *Round) Hit() error {
	if !r.legal(Hit) {
		return ErrIllegalCommand
	}
	h := r.hands[r.active]
	if err := r.dealTo(h, r.active, false); err != nil {
		return err
	}
	r.bus.Publish(NewPlayerActionEvent(Hit, r.active, h.Total()))
	r.logger.Debug("hit", "hand", r.active, "total", h.Total(), "soft", h.IsSoft())

	if h.IsBust() {
		r.advance()
		return nil
	}
	if h.Total() == 21 && r.rules.AutoStandOn21 {
		h.stand()
		r.advance()
	}
	return nil
}

// Stand finishes the active hand.
func (r *Round) Stand() error {
	if !r.legal(Stand) {
		return ErrIllegalCommand
	}
	h := r.hands[r.active]
	h.stand()
	r.bus.Publish(NewPlayerActionEvent(Stand, r.active, h.Total()))
	r.logger.Debug("stand", "hand", r.active, "total", h.Total())
	r.advance()
	return nil
}

// DoubleDown doubles the active hand's bet, draws exactly one card and
// finishes the hand. Requires a two-card hand and chips to cover the
// matching bet.
func (r *Round) DoubleDown() error {
	if r.state != PlayerTurn {
		return ErrIllegalCommand
	}
	h := r.hands[r.active]
	if h.Size() != 2 {
		return ErrIllegalCommand
	}
	if r.available() < h.Bet {
		return ErrInsufficientFunds
	}
	h.Bet *= 2
	h.doubled = true
	if err := r.dealTo(h, r.active, false); err != nil {
		return err
	}
	h.stand()
	r.bus.Publish(NewPlayerActionEvent(Double, r.active, h.Total()))
	r.logger.Debug("double", "hand", r.active, "total", h.Total(), "bet", h.Bet)
	r.advance()
	return nil
}

// SplitPair splits the active two-card pair into two hands, placing a
// matching bet on the new hand and dealing one card to each. Split aces
// receive their single card and stand when the rules say so.
func (r *Round) SplitPair() error {
	if r.state != PlayerTurn {
		return ErrIllegalCommand
	}
	h := r.hands[r.active]
	if !h.IsPair() || len(r.hands) >= r.rules.MaxHands {
		return ErrIllegalCommand
	}
	if r.available() < h.Bet {
		return ErrInsufficientFunds
	}

	first := NewHand(h.Bet, h.Card(0))
	second := NewHand(h.Bet, h.Card(1))
	first.fromSplit = true
	second.fromSplit = true

	r.hands[r.active] = first
	r.hands = append(r.hands, nil)
	copy(r.hands[r.active+2:], r.hands[r.active+1:])
	r.hands[r.active+1] = second

	if err := r.dealTo(first, r.active, false); err != nil {
		return err
	}
	if err := r.dealTo(second, r.active+1, false); err != nil {
		return err
	}

	if h.Card(0).IsAce() && r.rules.OneCardOnSplitAces {
		first.stand()
		second.stand()
	}

	r.bus.Publish(NewHandSplitEvent(r.active, len(r.hands)))
	r.logger.Debug("split", "hand", r.active, "hands", len(r.hands))

	if first.Finished() {
		r.advance()
	}
	return nil
}

// advance moves play to the next unfinished hand, or runs the dealer when
// every hand is done.
func (r *Round) advance() {
	for i := r.active; i < len(r.hands); i++ {
		if !r.hands[i].Finished() {
			r.active = i
			return
		}
	}
	r.playDealer()
}

// playDealer reveals the hole card and draws by house policy: stand on
// hard 17+, and on soft 17 unless the rules hit it. Drawing is skipped
// entirely when every player hand busted.
func (r *Round) playDealer() {
	r.state = DealerTurn
	r.bus.Publish(NewDealerRevealEvent(r.dealer.Card(1), r.dealer.Total()))

	allBusted := true
	for _, h := range r.hands {
		if !h.IsBust() {
			allBusted = false
			break
		}
	}

	if !allBusted {
		for r.dealerShouldDraw() {
			if err := r.dealTo(r.dealer, 0, false); err != nil {
				// Shoe exhausted mid-draw; settle with what the dealer
				// holds rather than leaving the round wedged.
				r.logger.Error("dealer draw failed", "error", err)
				break
			}
		}
	}

	r.logger.Debug("dealer done", "dealer", r.dealer.String(), "total", r.dealer.Total())
	r.settle()
}

func (r *Round) dealerShouldDraw() bool {
	total := r.dealer.Total()
	if total < 17 {
		return true
	}
	return total == 17 && r.dealer.IsSoft() && r.rules.DealerHitsSoft17
}

// settle compares every player hand against the dealer, applies the net
// delta to the bankroll and records per-hand results. Pure arithmetic on
// the hands; no cards move here.
func (r *Round) settle() {
	r.results = make([]HandResult, 0, len(r.hands))
	r.net = 0

	for i, h := range r.hands {
		outcome, net := r.settleHand(h)
		r.net += net
		result := HandResult{
			HandIndex: i,
			Outcome:   outcome,
			Bet:       h.Bet,
			Net:       net,
			Doubled:   h.Doubled(),
			FromSplit: h.FromSplit(),
		}
		r.results = append(r.results, result)
		r.bus.Publish(NewHandSettledEvent(result))
	}

	r.bankroll += r.net
	r.state = Settled
	gameOver := r.bankroll < r.rules.MinBet
	if gameOver {
		r.state = GameOver
	}
	r.bus.Publish(NewRoundSettledEvent(r.net, r.bankroll, gameOver))
	r.logger.Debug("settled", "net", r.net, "bankroll", r.bankroll)
}

func (r *Round) settleHand(h *Hand) (Outcome, int) {
	if h.IsBust() {
		return OutcomeBust, -h.Bet
	}

	natural := h.IsBlackjack()
	if !natural && r.rules.SplitBlackjackPaysNatural && h.FromSplit() && h.Size() == 2 && h.Total() == 21 {
		natural = true
	}

	dealerNatural := r.dealer.IsBlackjack()
	if natural {
		if dealerNatural {
			return OutcomePush, 0
		}
		return OutcomeBlackjack, r.rules.BlackjackWinnings(h.Bet)
	}
	if dealerNatural {
		return OutcomeLoss, -h.Bet
	}
	if r.dealer.IsBust() {
		return OutcomeWin, h.Bet
	}

	switch {
	case h.Total() > r.dealer.Total():
		return OutcomeWin, h.Bet
	case h.Total() < r.dealer.Total():
		return OutcomeLoss, -h.Bet
	default:
		return OutcomePush, 0
	}
}

// NextRound returns to Betting with the carried-forward bankroll, keeping
// the previous bet where it is still affordable. Illegal once the
// bankroll cannot cover the minimum bet.
func (r *Round) NextRound() error {
	if r.state != Settled {
		return ErrIllegalCommand
	}
	r.hands = nil
	r.dealer = nil
	r.active = 0
	if r.bet > r.bankroll {
		r.bet = r.bankroll - r.bankroll%r.rules.BetStep
		if r.bet < r.rules.MinBet {
			r.bet = r.rules.MinBet
		}
	}
	r.state = Betting
	return nil
}
