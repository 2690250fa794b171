// Package sim plays rounds headlessly with the basic strategy advisor
// driving every decision, for measuring outcomes over many rounds.
package sim

import (
	"fmt"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/stats"
	"github.com/lox/blackjack/internal/strategy"
)

// Config holds configuration for running simulations
type Config struct {
	Rounds  int
	Workers int
	Seed    int64
	Rules   game.Rules
	Logger  *log.Logger
}

// Result is the merged outcome of a simulation run.
type Result struct {
	Stats  stats.Snapshot
	Rounds int
	Rebuys int
}

// Simulator runs blackjack round simulations
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Workers < 1 {
		config.Workers = 1
	}
	return &Simulator{config: config}
}

// Run plays the configured number of rounds split across workers. Each
// worker owns an independent round, shoe and ledger seeded from the base
// seed, so runs are reproducible for a given seed and worker count.
func (s *Simulator) Run() (Result, error) {
	if err := s.config.Rules.Validate(); err != nil {
		return Result{}, err
	}

	type workerResult struct {
		snapshot stats.Snapshot
		rounds   int
		rebuys   int
	}

	results := make([]workerResult, s.config.Workers)
	var g errgroup.Group

	perWorker := s.config.Rounds / s.config.Workers
	remainder := s.config.Rounds % s.config.Workers

	for w := 0; w < s.config.Workers; w++ {
		rounds := perWorker
		if w < remainder {
			rounds++
		}
		seed := s.config.Seed + int64(w)
		logger := s.config.Logger.WithPrefix(fmt.Sprintf("worker-%d", w))
		g.Go(func() error {
			ledger, played, rebuys, err := s.playRounds(rounds, seed, logger)
			if err != nil {
				return err
			}
			results[w] = workerResult{snapshot: ledger.Snapshot(), rounds: played, rebuys: rebuys}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	merged := stats.NewLedger()
	out := Result{}
	for _, wr := range results {
		merged.Merge(wr.snapshot)
		out.Rounds += wr.rounds
		out.Rebuys += wr.rebuys
	}
	out.Stats = merged.Snapshot()
	return out, nil
}

// playRounds plays the requested number of rounds, rebuying with a
// fresh round whenever the bankroll drops below the table minimum.
func (s *Simulator) playRounds(rounds int, seed int64, logger *log.Logger) (*stats.Ledger, int, int, error) {
	ledger := stats.NewLedger()
	rebuys := 0

	round, err := s.newRound(seed, logger, ledger)
	if err != nil {
		return nil, 0, 0, err
	}

	played := 0
	for played < rounds {
		if err := round.Deal(); err != nil {
			return nil, played, rebuys, fmt.Errorf("deal on round %d: %w", played+1, err)
		}
		if err := s.playHands(round); err != nil {
			return nil, played, rebuys, fmt.Errorf("round %d: %w", played+1, err)
		}
		played++

		switch round.State() {
		case game.Settled:
			if err := round.NextRound(); err != nil {
				return nil, played, rebuys, err
			}
		case game.GameOver:
			rebuys++
			logger.Debug("bankroll busted, rebuying", "round", played, "rebuys", rebuys)
			round, err = s.newRound(seed+int64(rebuys)*7919, logger, ledger)
			if err != nil {
				return nil, played, rebuys, err
			}
		}
	}

	logger.Debug("worker finished", "rounds", played, "net", ledger.Totals().Net)
	return ledger, played, rebuys, nil
}

func (s *Simulator) newRound(seed int64, logger *log.Logger, ledger *stats.Ledger) (*game.Round, error) {
	shoe, err := deck.NewShoe(s.config.Rules.Decks, randutil.New(seed))
	if err != nil {
		return nil, err
	}
	round, err := game.NewRound(s.config.Rules, shoe, logger)
	if err != nil {
		return nil, err
	}
	round.EventBus().Subscribe(ledger)
	return round, nil
}

// playHands drives the player turn with basic strategy until the round
// settles. Recommendations that are not legal degrade to Hit, and Hit
// itself degrades to Stand, so the loop always terminates.
func (s *Simulator) playHands(round *game.Round) error {
	for round.State() == game.PlayerTurn {
		snap := round.Snapshot()
		view := snap.Hands[snap.ActiveHand]
		action := strategy.Recommend(view, round.DealerUpcard())

		if !actionLegal(snap.LegalActions, action) {
			if action == game.Double || action == game.Split {
				action = game.Hit
			} else {
				action = game.Stand
			}
		}

		var err error
		switch action {
		case game.Hit:
			err = round.Hit()
		case game.Stand:
			err = round.Stand()
		case game.Double:
			err = round.DoubleDown()
		case game.Split:
			err = round.SplitPair()
		}
		if err != nil {
			return fmt.Errorf("applying %s: %w", action, err)
		}
	}
	return nil
}

func actionLegal(legal []game.Action, action game.Action) bool {
	for _, a := range legal {
		if a == action {
			return true
		}
	}
	return false
}
