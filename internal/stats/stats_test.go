package stats

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/game"
)

func TestRecordAccumulates(t *testing.T) {
	l := NewLedger()
	l.Record(game.HandResult{Outcome: game.OutcomeWin, Bet: 25, Net: 25})
	l.Record(game.HandResult{Outcome: game.OutcomeBlackjack, Bet: 50, Net: 75})
	l.Record(game.HandResult{Outcome: game.OutcomeLoss, Bet: 25, Net: -25})
	l.Record(game.HandResult{Outcome: game.OutcomeBust, Bet: 25, Net: -25})
	l.Record(game.HandResult{Outcome: game.OutcomePush, Bet: 25, Net: 0})

	totals := l.Totals()
	assert.Equal(t, 2, totals.Wins)
	assert.Equal(t, 2, totals.Losses, "a bust also counts as a loss")
	assert.Equal(t, 1, totals.Busts)
	assert.Equal(t, 1, totals.Pushes)
	assert.Equal(t, 100, totals.ChipsWon)
	assert.Equal(t, 50, totals.ChipsLost)
	assert.Equal(t, 50, totals.Net)
	assert.Equal(t, 5, l.Hands())
}

func TestRecordCountsDoublesAndSplits(t *testing.T) {
	l := NewLedger()
	l.Record(game.HandResult{Outcome: game.OutcomeWin, Bet: 50, Net: 50, Doubled: true})
	l.Record(game.HandResult{Outcome: game.OutcomeLoss, Bet: 25, Net: -25, FromSplit: true})
	l.Record(game.HandResult{Outcome: game.OutcomeWin, Bet: 25, Net: 25, FromSplit: true})

	totals := l.Totals()
	assert.Equal(t, 1, totals.Doubles)
	assert.Equal(t, 2, totals.Splits)
}

func TestLedgerSubscribesToSettlements(t *testing.T) {
	l := NewLedger()
	bus := game.NewEventBus()
	bus.Subscribe(l)

	bus.Publish(game.NewHandSettledEvent(game.HandResult{Outcome: game.OutcomeWin, Bet: 25, Net: 25}))
	bus.Publish(game.NewRoundSettledEvent(25, 525, false))

	assert.Equal(t, 1, l.Hands(), "only hand settlements are recorded")
	assert.Equal(t, 1, l.Totals().Wins)
}

func TestMerge(t *testing.T) {
	a := NewLedger()
	a.Record(game.HandResult{Outcome: game.OutcomeWin, Bet: 25, Net: 25})

	b := NewLedger()
	b.Record(game.HandResult{Outcome: game.OutcomeLoss, Bet: 25, Net: -25})
	b.Record(game.HandResult{Outcome: game.OutcomePush, Bet: 25, Net: 0})

	a.Merge(b.Snapshot())

	totals := a.Totals()
	assert.Equal(t, 1, totals.Wins)
	assert.Equal(t, 1, totals.Losses)
	assert.Equal(t, 1, totals.Pushes)
	assert.Equal(t, 0, totals.Net)
	assert.Equal(t, 3, a.Hands())
}

func TestSnapshotIsACopy(t *testing.T) {
	l := NewLedger()
	l.Record(game.HandResult{Outcome: game.OutcomeWin, Bet: 25, Net: 25})

	snap := l.Snapshot()
	snap.History[0].Net = 999

	assert.Equal(t, 25, l.Snapshot().History[0].Net)
}

// Chip counts are integers throughout, so an export and re-import must
// reproduce the snapshot exactly.
func TestSnapshotJSONRoundTrip(t *testing.T) {
	l := NewLedger()
	l.Record(game.HandResult{Outcome: game.OutcomeBlackjack, Bet: 50, Net: 75})
	l.Record(game.HandResult{Outcome: game.OutcomeBust, Bet: 25, Net: -25, Doubled: false})
	l.Record(game.HandResult{Outcome: game.OutcomeWin, Bet: 50, Net: 50, Doubled: true})
	snap := l.Snapshot()

	data, err := MarshalSnapshot(snap)
	require.NoError(t, err)

	back, err := UnmarshalSnapshot(data)
	require.NoError(t, err)
	assert.Equal(t, snap, back)
}

func TestFormatText(t *testing.T) {
	l := NewLedger()
	l.Record(game.HandResult{Outcome: game.OutcomeWin, Bet: 25, Net: 25})

	text := FormatText(l.Snapshot())
	assert.Contains(t, text, "wins: 1\n")
	assert.Contains(t, text, "losses: 0\n")
	assert.Contains(t, text, "net: 25\n")
}

func TestWriteFiles(t *testing.T) {
	l := NewLedger()
	l.Record(game.HandResult{Outcome: game.OutcomeWin, Bet: 25, Net: 25})

	dir := t.TempDir()
	require.NoError(t, WriteFiles(l.Snapshot(), dir))

	data, err := os.ReadFile(filepath.Join(dir, "stats.json"))
	require.NoError(t, err)
	back, err := UnmarshalSnapshot(data)
	require.NoError(t, err)
	assert.Equal(t, 1, back.Totals.Wins)

	text, err := os.ReadFile(filepath.Join(dir, "stats.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(text), "wins: 1")
}
