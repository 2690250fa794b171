package game

import "github.com/lox/blackjack/internal/deck"

// HandView is the observable state of a single player hand.
type HandView struct {
	Cards     []deck.Card
	Total     int
	Soft      bool
	Bust      bool
	Blackjack bool
	Bet       int
	Doubled   bool
	FromSplit bool
	Finished  bool
	Active    bool
}

// DealerView is the observable state of the dealer's hand. Until the
// dealer acts, the hole card is masked and the total covers only the
// visible cards.
type DealerView struct {
	Cards      []deck.Card
	HoleHidden bool
	Total      int
	Bust       bool
	Blackjack  bool
}

// Snapshot is an immutable view of the round for presentation layers.
// Observers read snapshots and issue commands; they never touch the
// round's state directly.
type Snapshot struct {
	State        State
	Bankroll     int
	Bet          int
	Hands        []HandView
	Dealer       DealerView
	ActiveHand   int
	LegalActions []Action
	Net          int
	Results      []HandResult
}

// Snapshot captures the current observable state of the round.
func (r *Round) Snapshot() Snapshot {
	snap := Snapshot{
		State:        r.state,
		Bankroll:     r.bankroll,
		Bet:          r.bet,
		ActiveHand:   r.active,
		LegalActions: r.LegalActions(),
		Net:          r.net,
		Results:      r.Results(),
	}

	for i, h := range r.hands {
		snap.Hands = append(snap.Hands, HandView{
			Cards:     h.Cards(),
			Total:     h.Total(),
			Soft:      h.IsSoft(),
			Bust:      h.IsBust(),
			Blackjack: h.IsBlackjack(),
			Bet:       h.Bet,
			Doubled:   h.Doubled(),
			FromSplit: h.FromSplit(),
			Finished:  h.Finished(),
			Active:    r.state == PlayerTurn && i == r.active,
		})
	}

	if r.dealer != nil {
		hidden := r.state == PlayerTurn || r.state == Dealing
		dv := DealerView{
			Cards:      r.dealer.Cards(),
			HoleHidden: hidden,
		}
		if hidden {
			// Mask the hole card and report only the upcard's value.
			dv.Cards = dv.Cards[:1]
			dv.Total = r.dealer.Card(0).BlackjackValue()
		} else {
			dv.Total = r.dealer.Total()
			dv.Bust = r.dealer.IsBust()
			dv.Blackjack = r.dealer.IsBlackjack()
		}
		snap.Dealer = dv
	}

	return snap
}
