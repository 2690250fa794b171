package deck

import (
	"errors"
	"testing"

	"github.com/lox/blackjack/internal/randutil"
)

func TestShoeDealsEveryCardOnce(t *testing.T) {
	shoe, err := NewShoe(1, randutil.New(42))
	if err != nil {
		t.Fatalf("NewShoe: %v", err)
	}
	if shoe.Remaining() != 52 {
		t.Fatalf("expected 52 cards, got %d", shoe.Remaining())
	}

	seen := make(map[Card]int)
	for shoe.Remaining() > 0 {
		card, err := shoe.Draw()
		if err != nil {
			t.Fatalf("Draw: %v", err)
		}
		seen[card]++
	}

	if len(seen) != 52 {
		t.Fatalf("expected 52 distinct cards, got %d", len(seen))
	}
	for card, count := range seen {
		if count != 1 {
			t.Errorf("card %s dealt %d times", card, count)
		}
	}
}

func TestShoeEmptyDraw(t *testing.T) {
	shoe, err := NewShoe(1, randutil.New(1))
	if err != nil {
		t.Fatalf("NewShoe: %v", err)
	}
	for shoe.Remaining() > 0 {
		if _, err := shoe.Draw(); err != nil {
			t.Fatalf("Draw: %v", err)
		}
	}

	_, err = shoe.Draw()
	if !errors.Is(err, ErrShoeEmpty) {
		t.Fatalf("expected ErrShoeEmpty, got %v", err)
	}
}

func TestShoeRebuild(t *testing.T) {
	shoe, err := NewShoe(1, randutil.New(7))
	if err != nil {
		t.Fatalf("NewShoe: %v", err)
	}
	for i := 0; i < 30; i++ {
		if _, err := shoe.Draw(); err != nil {
			t.Fatalf("Draw: %v", err)
		}
	}

	shoe.Rebuild()
	if shoe.Remaining() != 52 {
		t.Fatalf("expected full shoe after rebuild, got %d", shoe.Remaining())
	}
}

func TestMultiDeckShoe(t *testing.T) {
	shoe, err := NewShoe(6, randutil.New(3))
	if err != nil {
		t.Fatalf("NewShoe: %v", err)
	}
	if shoe.Remaining() != 312 {
		t.Fatalf("expected 312 cards, got %d", shoe.Remaining())
	}
	if shoe.Decks() != 6 {
		t.Fatalf("expected 6 decks, got %d", shoe.Decks())
	}

	seen := make(map[Card]int)
	for shoe.Remaining() > 0 {
		card, _ := shoe.Draw()
		seen[card]++
	}
	for card, count := range seen {
		if count != 6 {
			t.Errorf("card %s appeared %d times, want 6", card, count)
		}
	}
}

func TestNewShoeRejectsZeroDecks(t *testing.T) {
	if _, err := NewShoe(0, randutil.New(1)); err == nil {
		t.Fatal("expected error for zero decks")
	}
}

func TestStackedShoeDealsInOrder(t *testing.T) {
	cards := []Card{
		NewCard(Spades, Ace),
		NewCard(Hearts, King),
		NewCard(Diamonds, Two),
	}
	shoe := NewStackedShoe(cards...)

	for i, want := range cards {
		got, err := shoe.Draw()
		if err != nil {
			t.Fatalf("Draw %d: %v", i, err)
		}
		if got != want {
			t.Errorf("Draw %d = %s, want %s", i, got, want)
		}
	}
	if _, err := shoe.Draw(); !errors.Is(err, ErrShoeEmpty) {
		t.Fatalf("expected ErrShoeEmpty, got %v", err)
	}
}

func TestShuffleIsSeedDeterministic(t *testing.T) {
	a, _ := NewShoe(1, randutil.New(99))
	b, _ := NewShoe(1, randutil.New(99))

	for a.Remaining() > 0 {
		ca, _ := a.Draw()
		cb, _ := b.Draw()
		if ca != cb {
			t.Fatalf("same seed produced different order: %s vs %s", ca, cb)
		}
	}
}
