package stats

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/lox/blackjack/internal/fileutil"
)

// MarshalSnapshot encodes a snapshot as indented JSON.
func MarshalSnapshot(s Snapshot) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// UnmarshalSnapshot decodes a snapshot previously written by
// MarshalSnapshot. Chip amounts survive unchanged; everything is integer
// arithmetic end to end.
func UnmarshalSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("parsing stats snapshot: %w", err)
	}
	return s, nil
}

// FormatText renders the running totals as plain key: value lines.
func FormatText(s Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "wins: %d\n", s.Totals.Wins)
	fmt.Fprintf(&b, "losses: %d\n", s.Totals.Losses)
	fmt.Fprintf(&b, "pushes: %d\n", s.Totals.Pushes)
	fmt.Fprintf(&b, "busts: %d\n", s.Totals.Busts)
	fmt.Fprintf(&b, "doubles: %d\n", s.Totals.Doubles)
	fmt.Fprintf(&b, "splits: %d\n", s.Totals.Splits)
	fmt.Fprintf(&b, "chips_won: %d\n", s.Totals.ChipsWon)
	fmt.Fprintf(&b, "chips_lost: %d\n", s.Totals.ChipsLost)
	fmt.Fprintf(&b, "net: %d\n", s.Totals.Net)
	return b.String()
}

// WriteFiles writes stats.json and stats.txt into dir. Writes are atomic
// so a reader never sees a partial export.
func WriteFiles(s Snapshot, dir string) error {
	data, err := MarshalSnapshot(s)
	if err != nil {
		return fmt.Errorf("encoding stats: %w", err)
	}
	if err := fileutil.WriteFileAtomic(filepath.Join(dir, "stats.json"), data, 0o644); err != nil {
		return fmt.Errorf("writing stats.json: %w", err)
	}
	if err := fileutil.WriteFileAtomic(filepath.Join(dir, "stats.txt"), []byte(FormatText(s)), 0o644); err != nil {
		return fmt.Errorf("writing stats.txt: %w", err)
	}
	return nil
}
