package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/sim"
	"github.com/lox/blackjack/internal/stats"
	"github.com/lox/blackjack/internal/tui"
)

type CLI struct {
	Config string `type:"path" default:"table.hcl" help:"Table rules HCL file"`
	Debug  bool   `help:"Enable debug logging"`

	// Rule overrides; zero means use the config file value.
	Chips  int `default:"0" help:"Override starting chips"`
	MinBet int `default:"0" help:"Override table minimum bet"`
	Decks  int `default:"0" help:"Override number of decks in the shoe"`

	Play     PlayCmd     `cmd:"" default:"1" help:"Play blackjack at the table"`
	Simulate SimulateCmd `cmd:"" help:"Auto-play rounds with basic strategy and report statistics"`
}

func (c *CLI) applyOverrides(rules *game.Rules) {
	if c.Chips > 0 {
		rules.StartingChips = c.Chips
	}
	if c.MinBet > 0 {
		rules.MinBet = c.MinBet
	}
	if c.Decks > 0 {
		rules.Decks = c.Decks
	}
}

type PlayCmd struct {
	Seed     int64  `default:"0" help:"Shoe RNG seed (0 for time-based)"`
	StatsDir string `type:"path" default:"." help:"Directory for exported statistics"`
	LogFile  string `default:"blackjack.log" help:"Debug log file (the TUI owns the terminal)"`
}

type SimulateCmd struct {
	Rounds  int   `default:"10000" help:"Number of rounds to simulate"`
	Workers int   `default:"4" help:"Parallel simulation workers"`
	Seed    int64 `default:"1" help:"Base RNG seed"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("blackjack"),
		kong.Description("Single-table blackjack with a terminal UI."))

	rules, err := game.LoadRules(cli.Config)
	if err != nil {
		log.Fatal("Failed to load table rules", "error", err)
	}
	cli.applyOverrides(&rules)
	if err := rules.Validate(); err != nil {
		log.Fatal("Invalid table rules", "error", err)
	}

	err = ctx.Run(&runContext{rules: rules, debug: cli.Debug})
	ctx.FatalIfErrorf(err)
}

type runContext struct {
	rules game.Rules
	debug bool
}

func (c *PlayCmd) Run(rc *runContext) error {
	logFile, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o666)
	if err != nil {
		return fmt.Errorf("failed to create debug log: %w", err)
	}
	defer logFile.Close()

	logger := log.NewWithOptions(logFile, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})
	if rc.debug {
		logger.SetLevel(log.DebugLevel)
	}

	seed := c.Seed
	if seed == 0 {
		seed = int64(os.Getpid())<<32 | int64(os.Getppid())
	}

	shoe, err := deck.NewShoe(rc.rules.Decks, randutil.New(seed))
	if err != nil {
		return err
	}
	round, err := game.NewRound(rc.rules, shoe, logger)
	if err != nil {
		return err
	}

	model := tui.New(round, stats.NewLedger(), logger, c.StatsDir, nil)
	logger.Info("starting table", "chips", rc.rules.StartingChips, "minBet", rc.rules.MinBet)

	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func (c *SimulateCmd) Run(rc *runContext) error {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	if rc.debug {
		logger.SetLevel(log.DebugLevel)
	}

	simulator := sim.New(sim.Config{
		Rounds:  c.Rounds,
		Workers: c.Workers,
		Seed:    c.Seed,
		Rules:   rc.rules,
		Logger:  logger,
	})

	result, err := simulator.Run()
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	t := result.Stats.Totals
	hands := t.Wins + t.Losses + t.Pushes
	logger.Info("simulation complete",
		"rounds", result.Rounds,
		"hands", hands,
		"rebuys", result.Rebuys)

	fmt.Printf("Rounds:     %d\n", result.Rounds)
	fmt.Printf("Hands:      %d\n", hands)
	fmt.Printf("Wins:       %d\n", t.Wins)
	fmt.Printf("Losses:     %d (%d busts)\n", t.Losses, t.Busts)
	fmt.Printf("Pushes:     %d\n", t.Pushes)
	fmt.Printf("Doubles:    %d\n", t.Doubles)
	fmt.Printf("Splits:     %d\n", t.Splits)
	fmt.Printf("Net chips:  %+d\n", t.Net)
	if hands > 0 {
		fmt.Printf("Net/hand:   %+.3f\n", float64(t.Net)/float64(hands))
	}
	return nil
}
