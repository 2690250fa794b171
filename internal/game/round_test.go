package game

import (
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/deck"
)

// Stacked shoes deal in argument order. The opening deal alternates
// player, dealer, player, dealer(hole); any further cards go to whoever
// draws next.
func newTestRound(t *testing.T, rules Rules, cards ...deck.Card) *Round {
	t.Helper()
	r, err := NewRound(rules, deck.NewStackedShoe(cards...), log.New(io.Discard))
	require.NoError(t, err)
	return r
}

func c(rank deck.Rank) deck.Card {
	return deck.NewCard(deck.Clubs, rank)
}

func TestAdjustBet(t *testing.T) {
	r := newTestRound(t, DefaultRules())

	require.NoError(t, r.AdjustBet(25))
	assert.Equal(t, 50, r.Bet())

	err := r.AdjustBet(10)
	assert.ErrorIs(t, err, ErrIllegalCommand)
	assert.Equal(t, 50, r.Bet(), "rejected adjust must not move the bet")

	err = r.AdjustBet(-50)
	assert.ErrorIs(t, err, ErrBetBelowMinimum)

	err = r.AdjustBet(500)
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	require.NoError(t, r.AdjustBet(-25))
	assert.Equal(t, 25, r.Bet())
}

func TestPlayerWinsOnHigherTotal(t *testing.T) {
	r := newTestRound(t, DefaultRules(),
		c(deck.Ten), c(deck.Ten), c(deck.Nine), c(deck.Eight))

	require.NoError(t, r.Deal())
	assert.Equal(t, PlayerTurn, r.State())
	require.NoError(t, r.Stand())

	assert.Equal(t, Settled, r.State())
	assert.Equal(t, 525, r.Bankroll())
	require.Len(t, r.Results(), 1)
	assert.Equal(t, OutcomeWin, r.Results()[0].Outcome)
	assert.Equal(t, 25, r.Results()[0].Net)
}

func TestBlackjackPaysThreeToTwo(t *testing.T) {
	// Dealer draws out to 21 and still loses to the natural.
	r := newTestRound(t, DefaultRules(),
		c(deck.Ace), c(deck.Nine), c(deck.King), c(deck.Seven), c(deck.Five))

	require.NoError(t, r.AdjustBet(25))
	require.NoError(t, r.Deal())

	// A natural skips the player turn entirely.
	assert.Equal(t, Settled, r.State())
	require.Len(t, r.Results(), 1)
	assert.Equal(t, OutcomeBlackjack, r.Results()[0].Outcome)
	assert.Equal(t, 75, r.Results()[0].Net)
	assert.Equal(t, 575, r.Bankroll())
}

func TestBothNaturalsPush(t *testing.T) {
	r := newTestRound(t, DefaultRules(),
		c(deck.Ace), c(deck.King), c(deck.Queen), c(deck.Ace))

	require.NoError(t, r.Deal())
	assert.Equal(t, Settled, r.State())
	assert.Equal(t, OutcomePush, r.Results()[0].Outcome)
	assert.Equal(t, 500, r.Bankroll())
}

func TestDealerNaturalBeatsTwenty(t *testing.T) {
	r := newTestRound(t, DefaultRules(),
		c(deck.Ten), c(deck.Ace), c(deck.Queen), c(deck.King))

	require.NoError(t, r.Deal())
	require.NoError(t, r.Stand())
	assert.Equal(t, OutcomeLoss, r.Results()[0].Outcome)
	assert.Equal(t, 475, r.Bankroll())
}

func TestDealerBusts(t *testing.T) {
	r := newTestRound(t, DefaultRules(),
		c(deck.Ten), c(deck.Ten), c(deck.Eight), c(deck.Six), c(deck.Ten))

	require.NoError(t, r.Deal())
	require.NoError(t, r.Stand())

	assert.True(t, r.Dealer().IsBust())
	assert.Equal(t, OutcomeWin, r.Results()[0].Outcome)
	assert.Equal(t, 525, r.Bankroll())
}

func TestPlayerBustSkipsDealerDraw(t *testing.T) {
	r := newTestRound(t, DefaultRules(),
		c(deck.Ten), c(deck.Ten), c(deck.Six), c(deck.Six), c(deck.Nine))

	require.NoError(t, r.Deal())
	require.NoError(t, r.Hit())

	assert.Equal(t, Settled, r.State())
	assert.Equal(t, OutcomeBust, r.Results()[0].Outcome)
	assert.Equal(t, 475, r.Bankroll())
	// Dealer sits on 16 with no reason to draw.
	assert.Equal(t, 2, r.Dealer().Size())
}

func TestDoubleDown(t *testing.T) {
	r := newTestRound(t, DefaultRules(),
		c(deck.Five), c(deck.Ten), c(deck.Six), c(deck.Seven), c(deck.Ten))

	require.NoError(t, r.Deal())
	require.NoError(t, r.DoubleDown())

	assert.Equal(t, Settled, r.State())
	h := r.Hands()[0]
	assert.Equal(t, 50, h.Bet)
	assert.Equal(t, 3, h.Size())
	assert.Equal(t, 21, h.Total())
	assert.True(t, r.Results()[0].Doubled)
	assert.Equal(t, 50, r.Results()[0].Net)
	assert.Equal(t, 550, r.Bankroll())
}

func TestDoubleDownNeedsMatchingChips(t *testing.T) {
	rules := DefaultRules()
	rules.StartingChips = 25
	r := newTestRound(t, rules,
		c(deck.Five), c(deck.Ten), c(deck.Six), c(deck.Seven))

	require.NoError(t, r.Deal())
	err := r.DoubleDown()
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, PlayerTurn, r.State(), "failed double must leave the turn open")
}

func TestDoubleDownOnlyOnTwoCards(t *testing.T) {
	r := newTestRound(t, DefaultRules(),
		c(deck.Five), c(deck.Ten), c(deck.Six), c(deck.Seven), c(deck.Two))

	require.NoError(t, r.Deal())
	require.NoError(t, r.Hit())
	assert.ErrorIs(t, r.DoubleDown(), ErrIllegalCommand)
}

func TestSplitPair(t *testing.T) {
	r := newTestRound(t, DefaultRules(),
		deck.NewCard(deck.Spades, deck.Eight), c(deck.Ten),
		deck.NewCard(deck.Hearts, deck.Eight), c(deck.Seven),
		c(deck.Ten), c(deck.Two), c(deck.Ten))

	require.NoError(t, r.Deal())
	require.NoError(t, r.SplitPair())

	require.Len(t, r.Hands(), 2)
	assert.Equal(t, 18, r.Hands()[0].Total())
	assert.Equal(t, 10, r.Hands()[1].Total())
	assert.Equal(t, 0, r.ActiveHandIndex())

	require.NoError(t, r.Stand())
	assert.Equal(t, 1, r.ActiveHandIndex())
	require.NoError(t, r.Hit())
	require.NoError(t, r.Stand())

	assert.Equal(t, Settled, r.State())
	results := r.Results()
	require.Len(t, results, 2)
	assert.Equal(t, OutcomeWin, results[0].Outcome)
	assert.Equal(t, OutcomeWin, results[1].Outcome)
	assert.True(t, results[0].FromSplit)
	assert.Equal(t, 550, r.Bankroll())
}

func TestSplitAcesGetOneCardEach(t *testing.T) {
	r := newTestRound(t, DefaultRules(),
		deck.NewCard(deck.Spades, deck.Ace), c(deck.Ten),
		deck.NewCard(deck.Hearts, deck.Ace), c(deck.Eight),
		c(deck.Five), c(deck.Five))

	require.NoError(t, r.Deal())
	require.NoError(t, r.SplitPair())

	// Both hands stood automatically, so the dealer has already played.
	assert.Equal(t, Settled, r.State())
	require.Len(t, r.Results(), 2)
	for _, res := range r.Results() {
		assert.Equal(t, OutcomeLoss, res.Outcome)
	}
	assert.Equal(t, 450, r.Bankroll())
}

func TestSplitTwentyOneIsNotANatural(t *testing.T) {
	r := newTestRound(t, DefaultRules(),
		deck.NewCard(deck.Spades, deck.Ace), c(deck.Ten),
		deck.NewCard(deck.Hearts, deck.Ace), c(deck.Eight),
		c(deck.King), c(deck.Queen))

	require.NoError(t, r.Deal())
	require.NoError(t, r.SplitPair())

	assert.Equal(t, Settled, r.State())
	for _, res := range r.Results() {
		assert.Equal(t, OutcomeWin, res.Outcome)
		assert.Equal(t, 25, res.Net, "split 21 pays even money")
	}
}

func TestSplitRequiresPairAndFunds(t *testing.T) {
	r := newTestRound(t, DefaultRules(),
		c(deck.Ten), c(deck.Ten), c(deck.Nine), c(deck.Eight))
	require.NoError(t, r.Deal())
	assert.ErrorIs(t, r.SplitPair(), ErrIllegalCommand)

	rules := DefaultRules()
	rules.StartingChips = 25
	r = newTestRound(t, rules,
		deck.NewCard(deck.Spades, deck.Eight), c(deck.Ten),
		deck.NewCard(deck.Hearts, deck.Eight), c(deck.Seven))
	require.NoError(t, r.Deal())
	assert.ErrorIs(t, r.SplitPair(), ErrInsufficientFunds)
}

func TestLegalActions(t *testing.T) {
	r := newTestRound(t, DefaultRules(),
		deck.NewCard(deck.Spades, deck.Eight), c(deck.Ten),
		deck.NewCard(deck.Hearts, deck.Eight), c(deck.Seven),
		c(deck.Two))

	assert.Empty(t, r.LegalActions(), "no actions while betting")

	require.NoError(t, r.Deal())
	assert.ElementsMatch(t, []Action{Hit, Stand, Double, Split}, r.LegalActions())

	require.NoError(t, r.Hit())
	assert.ElementsMatch(t, []Action{Hit, Stand}, r.LegalActions())
}

func TestHitToTwentyOneKeepsTurnOpen(t *testing.T) {
	r := newTestRound(t, DefaultRules(),
		c(deck.Ten), c(deck.Ten), c(deck.Four), c(deck.Eight), c(deck.Seven))

	require.NoError(t, r.Deal())
	require.NoError(t, r.Hit())

	assert.Equal(t, 21, r.Hands()[0].Total())
	assert.Equal(t, PlayerTurn, r.State())

	require.NoError(t, r.Stand())
	assert.Equal(t, OutcomeWin, r.Results()[0].Outcome)
}

func TestAutoStandOnTwentyOne(t *testing.T) {
	rules := DefaultRules()
	rules.AutoStandOn21 = true
	r := newTestRound(t, rules,
		c(deck.Ten), c(deck.Ten), c(deck.Four), c(deck.Eight), c(deck.Seven))

	require.NoError(t, r.Deal())
	require.NoError(t, r.Hit())

	assert.Equal(t, Settled, r.State())
	assert.Equal(t, OutcomeWin, r.Results()[0].Outcome)
}

func TestDealerStandsOnSoftSeventeen(t *testing.T) {
	r := newTestRound(t, DefaultRules(),
		c(deck.Ten), c(deck.Ace), c(deck.Eight), c(deck.Six))

	require.NoError(t, r.Deal())
	require.NoError(t, r.Stand())

	assert.Equal(t, 2, r.Dealer().Size())
	assert.Equal(t, OutcomeWin, r.Results()[0].Outcome)
}

func TestDealerHitsSoftSeventeen(t *testing.T) {
	rules := DefaultRules()
	rules.DealerHitsSoft17 = true
	r := newTestRound(t, rules,
		c(deck.Ten), c(deck.Ace), c(deck.Eight), c(deck.Six), c(deck.Four))

	require.NoError(t, r.Deal())
	require.NoError(t, r.Stand())

	assert.Equal(t, 21, r.Dealer().Total())
	assert.Equal(t, OutcomeLoss, r.Results()[0].Outcome)
}

func TestCommandsOutsideTheirState(t *testing.T) {
	r := newTestRound(t, DefaultRules(),
		c(deck.Ten), c(deck.Ten), c(deck.Nine), c(deck.Eight))

	assert.ErrorIs(t, r.Hit(), ErrIllegalCommand)
	assert.ErrorIs(t, r.Stand(), ErrIllegalCommand)
	assert.ErrorIs(t, r.DoubleDown(), ErrIllegalCommand)
	assert.ErrorIs(t, r.NextRound(), ErrIllegalCommand)

	require.NoError(t, r.Deal())
	assert.ErrorIs(t, r.Deal(), ErrIllegalCommand)
	assert.ErrorIs(t, r.AdjustBet(25), ErrIllegalCommand)
}

func TestDealAtExactMinimumBankroll(t *testing.T) {
	rules := DefaultRules()
	rules.StartingChips = 25
	r := newTestRound(t, rules,
		c(deck.Ten), c(deck.Ten), c(deck.Nine), c(deck.Eight))

	require.NoError(t, r.Deal())
	require.NoError(t, r.Stand())
	assert.Equal(t, 50, r.Bankroll())
}

func TestGameOverBelowMinimumBet(t *testing.T) {
	rules := DefaultRules()
	rules.StartingChips = 25
	r := newTestRound(t, rules,
		c(deck.Ten), c(deck.Ten), c(deck.Six), c(deck.Nine))

	require.NoError(t, r.Deal())
	require.NoError(t, r.Stand())

	assert.Equal(t, GameOver, r.State())
	assert.Equal(t, 0, r.Bankroll())
	assert.ErrorIs(t, r.NextRound(), ErrIllegalCommand)
	assert.ErrorIs(t, r.Deal(), ErrIllegalCommand)
}

func TestNextRoundClampsBetToBankroll(t *testing.T) {
	r := newTestRound(t, DefaultRules(),
		c(deck.Ten), c(deck.Ten), c(deck.Six), c(deck.Ten))
	r.bankroll = 100

	require.NoError(t, r.AdjustBet(50))
	require.NoError(t, r.Deal())
	require.NoError(t, r.Stand())
	assert.Equal(t, 25, r.Bankroll())

	require.NoError(t, r.NextRound())
	assert.Equal(t, Betting, r.State())
	assert.Equal(t, 25, r.Bet())
}

func TestRoundEventsArePublished(t *testing.T) {
	r := newTestRound(t, DefaultRules(),
		c(deck.Ten), c(deck.Ten), c(deck.Nine), c(deck.Eight))

	var events []GameEvent
	r.EventBus().Subscribe(eventSubscriberFunc(func(e GameEvent) {
		events = append(events, e)
	}))

	require.NoError(t, r.Deal())
	require.NoError(t, r.Stand())

	var types []EventType
	for _, e := range events {
		types = append(types, e.EventType())
	}
	assert.Equal(t, []EventType{
		EventTypeRoundStarted,
		EventTypeCardDealt, EventTypeCardDealt, EventTypeCardDealt, EventTypeCardDealt,
		EventTypePlayerAction,
		EventTypeDealerReveal,
		EventTypeHandSettled,
		EventTypeRoundSettled,
	}, types)

	last, ok := events[len(events)-1].(RoundSettledEvent)
	require.True(t, ok)
	assert.Equal(t, 25, last.Net)
	assert.Equal(t, 525, last.Bankroll)
}

type eventSubscriberFunc func(GameEvent)

func (f eventSubscriberFunc) OnEvent(event GameEvent) { f(event) }

func TestSnapshotMasksHoleCard(t *testing.T) {
	r := newTestRound(t, DefaultRules(),
		c(deck.Ten), c(deck.Nine), c(deck.Eight), c(deck.Seven))

	require.NoError(t, r.Deal())
	snap := r.Snapshot()

	require.Len(t, snap.Dealer.Cards, 1)
	assert.Equal(t, 9, snap.Dealer.Total)
	assert.True(t, snap.Dealer.HoleHidden)

	require.NoError(t, r.Stand())
	snap = r.Snapshot()
	require.Len(t, snap.Dealer.Cards, 2)
	assert.Equal(t, 16, snap.Dealer.Total)
	assert.False(t, snap.Dealer.HoleHidden)
}

func TestShoeExhaustionSurfacesError(t *testing.T) {
	r := newTestRound(t, DefaultRules(),
		c(deck.Ten), c(deck.Ten), c(deck.Four))

	err := r.Deal()
	require.Error(t, err)
	assert.True(t, errors.Is(err, deck.ErrShoeEmpty))
}
