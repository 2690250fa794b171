// Package tui is the terminal presentation layer. It observes round
// snapshots and events, and drives the core purely through commands; no
// game state lives here.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/stats"
	"github.com/lox/blackjack/internal/strategy"
)

// dealerRevealDelay is how long the dealer's play stays on screen before
// the settlement banner appears.
const dealerRevealDelay = 700 * time.Millisecond

// maxLogLines caps the event log pane.
const maxLogLines = 6

// settledMsg ends the dealer-reveal pause.
type settledMsg struct{}

type keyMap struct {
	BetUp   key.Binding
	BetDown key.Binding
	Deal    key.Binding
	Hit     key.Binding
	Stand   key.Binding
	Double  key.Binding
	Split   key.Binding
	Hint    key.Binding
	Next    key.Binding
	Export  key.Binding
	Quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		BetUp:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "raise bet")),
		BetDown: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "lower bet")),
		Deal:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "deal")),
		Hit:     key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "hit")),
		Stand:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stand")),
		Double:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "double")),
		Split:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "split")),
		Hint:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "hints")),
		Next:    key.NewBinding(key.WithKeys("n", "enter"), key.WithHelp("n", "next round")),
		Export:  key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export stats")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Hit, k.Stand, k.Double, k.Split, k.Hint, k.Export, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.BetUp, k.BetDown, k.Deal},
		{k.Hit, k.Stand, k.Double, k.Split},
		{k.Hint, k.Next, k.Export, k.Quit},
	}
}

// Model is the Bubble Tea model for the blackjack table.
type Model struct {
	round     *game.Round
	ledger    *stats.Ledger
	logger    *log.Logger
	clock     quartz.Clock
	keys      keyMap
	help      help.Model
	exportDir string

	hintsEnabled bool
	revealing    bool
	message      string
	errMsg       string
	eventLog     []string

	width    int
	height   int
	quitting bool
}

// New creates the TUI model. The ledger is subscribed to the round's
// events so settlement records accumulate without the model's help.
func New(round *game.Round, ledger *stats.Ledger, logger *log.Logger, exportDir string, clock quartz.Clock) *Model {
	if clock == nil {
		clock = quartz.NewReal()
	}
	m := &Model{
		round:     round,
		ledger:    ledger,
		logger:    logger.WithPrefix("tui"),
		clock:     clock,
		keys:      newKeyMap(),
		help:      help.New(),
		exportDir: exportDir,
	}
	round.EventBus().Subscribe(ledger)
	round.EventBus().Subscribe(m)
	return m
}

// OnEvent feeds the event log pane from the round's event bus.
func (m *Model) OnEvent(event game.GameEvent) {
	var line string
	switch e := event.(type) {
	case game.RoundStartedEvent:
		line = fmt.Sprintf("round started, bet %d", e.Bet)
	case game.CardDealtEvent:
		if e.Hidden {
			line = "dealer takes the hole card"
		} else if e.ToDealer {
			line = fmt.Sprintf("dealer draws %s", e.Card)
		} else {
			line = fmt.Sprintf("player dealt %s", e.Card)
		}
	case game.PlayerActionEvent:
		line = fmt.Sprintf("%s on hand %d (%d)", e.Action, e.HandIndex+1, e.HandTotal)
	case game.HandSplitEvent:
		line = fmt.Sprintf("split hand %d, now %d hands", e.HandIndex+1, e.Hands)
	case game.DealerRevealEvent:
		line = fmt.Sprintf("dealer reveals %s (%d)", e.HoleCard, e.Total)
	case game.HandSettledEvent:
		line = fmt.Sprintf("hand %d: %s (%+d)", e.Result.HandIndex+1, e.Result.Outcome, e.Result.Net)
	case game.RoundSettledEvent:
		line = fmt.Sprintf("round over, net %+d, chips %d", e.Net, e.Bankroll)
	default:
		return
	}
	m.eventLog = append(m.eventLog, line)
	if len(m.eventLog) > maxLogLines {
		m.eventLog = m.eventLog[len(m.eventLog)-maxLogLines:]
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case settledMsg:
		m.revealing = false
		m.message = m.settlementMessage()
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		if m.revealing {
			// Swallow input while the dealer's play is on screen.
			return m, nil
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.errMsg = ""

	if key.Matches(msg, m.keys.Hint) {
		m.hintsEnabled = !m.hintsEnabled
		return m, nil
	}
	if key.Matches(msg, m.keys.Export) {
		if err := stats.WriteFiles(m.ledger.Snapshot(), m.exportDir); err != nil {
			m.logger.Error("stats export failed", "error", err)
			m.errMsg = err.Error()
		} else {
			m.message = "statistics exported"
		}
		return m, nil
	}

	switch m.round.State() {
	case game.Betting:
		step := m.round.Rules().BetStep
		switch {
		case key.Matches(msg, m.keys.BetUp):
			m.reportErr(m.round.AdjustBet(step))
		case key.Matches(msg, m.keys.BetDown):
			m.reportErr(m.round.AdjustBet(-step))
		case key.Matches(msg, m.keys.Deal):
			m.message = ""
			if err := m.round.Deal(); err != nil {
				m.reportErr(err)
			} else if m.roundDone() {
				// Natural blackjack settles without a player turn.
				return m, m.startReveal()
			}
		}

	case game.PlayerTurn:
		var err error
		acted := false
		switch {
		case key.Matches(msg, m.keys.Hit):
			err, acted = m.round.Hit(), true
		case key.Matches(msg, m.keys.Stand):
			err, acted = m.round.Stand(), true
		case key.Matches(msg, m.keys.Double):
			err, acted = m.round.DoubleDown(), true
		case key.Matches(msg, m.keys.Split):
			err, acted = m.round.SplitPair(), true
		}
		if acted {
			m.reportErr(err)
			if err == nil && m.roundDone() {
				return m, m.startReveal()
			}
		}

	case game.Settled:
		if key.Matches(msg, m.keys.Next) {
			if err := m.round.NextRound(); err == nil {
				m.message = ""
				m.eventLog = nil
			} else {
				m.reportErr(err)
			}
		}
	}
	return m, nil
}

func (m *Model) reportErr(err error) {
	if err != nil {
		m.errMsg = err.Error()
	}
}

func (m *Model) roundDone() bool {
	state := m.round.State()
	return state == game.Settled || state == game.GameOver
}

// startReveal holds the settlement banner back for a beat so the
// dealer's cards land on screen first.
func (m *Model) startReveal() tea.Cmd {
	m.revealing = true
	return func() tea.Msg {
		timer := m.clock.NewTimer(dealerRevealDelay, "dealer-reveal")
		<-timer.C
		return settledMsg{}
	}
}

func (m *Model) settlementMessage() string {
	results := m.round.Results()
	if len(results) == 0 {
		return ""
	}
	if m.round.State() == game.GameOver {
		return "You're out of chips!"
	}
	if len(results) == 1 {
		return resultMessage(results[0])
	}
	parts := make([]string, len(results))
	for i, r := range results {
		parts[i] = fmt.Sprintf("hand %d: %s", i+1, r.Outcome)
	}
	return fmt.Sprintf("%s (net %+d)", strings.Join(parts, ", "), m.round.Net())
}

func resultMessage(r game.HandResult) string {
	switch r.Outcome {
	case game.OutcomeBlackjack:
		return fmt.Sprintf("Blackjack! You win %d", r.Net)
	case game.OutcomeWin:
		return fmt.Sprintf("You win %d", r.Net)
	case game.OutcomeBust:
		return "Bust! Dealer wins."
	case game.OutcomeLoss:
		return "Dealer wins."
	case game.OutcomePush:
		return "Push. Bet returned."
	default:
		return ""
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	snap := m.round.Snapshot()
	var b strings.Builder

	b.WriteString(titleStyle.Render(" ♠ ♥ Blackjack ♦ ♣ "))
	b.WriteString("\n\n")

	if snap.State != game.Betting {
		b.WriteString(labelStyle.Render("Dealer"))
		if !snap.Dealer.HoleHidden {
			b.WriteString(labelStyle.Render(fmt.Sprintf(" (%d)", snap.Dealer.Total)))
		}
		b.WriteString("\n")
		b.WriteString(renderDealer(snap.Dealer))
		b.WriteString("\n\n")

		for i, h := range snap.Hands {
			b.WriteString(m.renderHand(snap, i, h))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(chipsStyle.Render(fmt.Sprintf("Chips: $%d", snap.Bankroll)))
	b.WriteString(labelStyle.Render(fmt.Sprintf("   Bet: $%d", snap.Bet)))
	b.WriteString("\n\n")

	if hint := m.currentHint(snap); hint != "" {
		b.WriteString(hintStyle.Render("Hint: " + hint))
		b.WriteString("\n")
	}
	if m.message != "" && !m.revealing {
		b.WriteString(messageStyle.Render(m.message))
		b.WriteString("\n")
	}
	if m.errMsg != "" {
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderStats())
	b.WriteString("\n")

	if len(m.eventLog) > 0 {
		b.WriteString(logStyle.Render(strings.Join(m.eventLog, "\n")))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return tableStyle.Render(b.String())
}

func (m *Model) renderHand(snap game.Snapshot, i int, h game.HandView) string {
	label := fmt.Sprintf("Hand %d (%d)", i+1, h.Total)
	if len(snap.Hands) == 1 {
		label = fmt.Sprintf("Player (%d)", h.Total)
	}
	switch {
	case h.Blackjack:
		label += " blackjack"
	case h.Bust:
		label += " bust"
	case h.Soft:
		label += " soft"
	}
	if h.Doubled {
		label += fmt.Sprintf(" doubled to $%d", h.Bet)
	}

	body := labelStyle.Render(label) + "\n" + renderCards(h.Cards, false)
	if h.Active {
		return activeHandStyle.Render(body)
	}
	return body
}

func renderDealer(d game.DealerView) string {
	rendered := renderCards(d.Cards, false)
	if d.HoleHidden {
		hole := hiddenCardStyle.Render("??")
		return lipgloss.JoinHorizontal(lipgloss.Top, rendered, " ", hole)
	}
	return rendered
}

func renderCards(cards []deck.Card, hidden bool) string {
	parts := make([]string, 0, len(cards)*2)
	for i, c := range cards {
		if i > 0 {
			parts = append(parts, " ")
		}
		style := cardStyle
		if c.IsRed() && hasColor() {
			style = redCardStyle
		}
		parts = append(parts, style.Render(c.String()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) currentHint(snap game.Snapshot) string {
	if !m.hintsEnabled || snap.State != game.PlayerTurn {
		return ""
	}
	view := snap.Hands[snap.ActiveHand]
	return strategy.Recommend(view, m.round.DealerUpcard()).String()
}

func (m *Model) renderStats() string {
	t := m.ledger.Totals()
	lines := []string{
		fmt.Sprintf("Wins: %d", t.Wins),
		fmt.Sprintf("Losses: %d", t.Losses),
		fmt.Sprintf("Pushes: %d", t.Pushes),
		fmt.Sprintf("Busts: %d", t.Busts),
		fmt.Sprintf("Chips Won: %d", t.ChipsWon),
		fmt.Sprintf("Chips Lost: %d", t.ChipsLost),
	}
	return statsStyle.Render(strings.Join(lines, "\n"))
}
