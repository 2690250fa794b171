// Package stats accumulates settlement results across rounds. The ledger
// is append-only: settlement records hand outcomes, everything else reads
// snapshots.
package stats

import "github.com/lox/blackjack/internal/game"

// Entry is one hand's outcome in the ledger history.
type Entry struct {
	Outcome string `json:"outcome"`
	Bet     int    `json:"bet"`
	Net     int    `json:"net"`
}

// Totals are the running counters. Busted hands count as both a bust and
// a loss, matching how the table reports them. All amounts are integer
// chips.
type Totals struct {
	Wins      int `json:"wins"`
	Losses    int `json:"losses"`
	Pushes    int `json:"pushes"`
	Busts     int `json:"busts"`
	Doubles   int `json:"doubles"`
	Splits    int `json:"splits"`
	ChipsWon  int `json:"chips_won"`
	ChipsLost int `json:"chips_lost"`
	Net       int `json:"net"`
}

// Snapshot is a read-only copy of the ledger, sufficient to export
// without re-deriving any hand logic.
type Snapshot struct {
	Totals  Totals  `json:"totals"`
	History []Entry `json:"history"`
}

// Ledger tracks outcomes across rounds. Mutated only through Record;
// never by presentation layers.
type Ledger struct {
	totals  Totals
	history []Entry
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Record appends one hand's settlement result.
func (l *Ledger) Record(result game.HandResult) {
	switch result.Outcome {
	case game.OutcomeWin, game.OutcomeBlackjack:
		l.totals.Wins++
		l.totals.ChipsWon += result.Net
	case game.OutcomeBust:
		l.totals.Busts++
		l.totals.Losses++
		l.totals.ChipsLost += -result.Net
	case game.OutcomeLoss:
		l.totals.Losses++
		l.totals.ChipsLost += -result.Net
	case game.OutcomePush:
		l.totals.Pushes++
	}
	if result.Doubled {
		l.totals.Doubles++
	}
	if result.FromSplit {
		l.totals.Splits++
	}
	l.totals.Net += result.Net

	l.history = append(l.history, Entry{
		Outcome: result.Outcome.String(),
		Bet:     result.Bet,
		Net:     result.Net,
	})
}

// OnEvent records hand settlements published on the round's event bus,
// letting the ledger subscribe directly as a settlement observer.
func (l *Ledger) OnEvent(event game.GameEvent) {
	if e, ok := event.(game.HandSettledEvent); ok {
		l.Record(e.Result)
	}
}

// Hands returns the number of hands recorded.
func (l *Ledger) Hands() int {
	return len(l.history)
}

// Totals returns a copy of the running counters.
func (l *Ledger) Totals() Totals {
	return l.totals
}

// Snapshot returns a read-only copy of the ledger.
func (l *Ledger) Snapshot() Snapshot {
	history := make([]Entry, len(l.history))
	copy(history, l.history)
	return Snapshot{Totals: l.totals, History: history}
}

// Merge folds another ledger's snapshot into this one, preserving
// history order within each source. Used when parallel simulations each
// keep their own ledger.
func (l *Ledger) Merge(s Snapshot) {
	l.totals.Wins += s.Totals.Wins
	l.totals.Losses += s.Totals.Losses
	l.totals.Pushes += s.Totals.Pushes
	l.totals.Busts += s.Totals.Busts
	l.totals.Doubles += s.Totals.Doubles
	l.totals.Splits += s.Totals.Splits
	l.totals.ChipsWon += s.Totals.ChipsWon
	l.totals.ChipsLost += s.Totals.ChipsLost
	l.totals.Net += s.Totals.Net
	l.history = append(l.history, s.History...)
}
