package game

// State identifies where a round is in its lifecycle
type State int

const (
	Betting State = iota
	Dealing
	PlayerTurn
	DealerTurn
	Settled
	GameOver
)

// String returns the string representation of a state
func (s State) String() string {
	switch s {
	case Betting:
		return "Betting"
	case Dealing:
		return "Dealing"
	case PlayerTurn:
		return "Player Turn"
	case DealerTurn:
		return "Dealer Turn"
	case Settled:
		return "Settled"
	case GameOver:
		return "Game Over"
	default:
		return "Unknown"
	}
}

// Action represents a player decision during their turn
type Action int

const (
	Hit Action = iota
	Stand
	Double
	Split
)

// String returns the string representation of an action
func (a Action) String() string {
	switch a {
	case Hit:
		return "Hit"
	case Stand:
		return "Stand"
	case Double:
		return "Double"
	case Split:
		return "Split"
	default:
		return "Unknown"
	}
}

// Outcome classifies how a single hand settled
type Outcome int

const (
	OutcomeWin Outcome = iota
	OutcomeBlackjack
	OutcomeLoss
	OutcomeBust
	OutcomePush
)

// String returns the string representation of an outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeWin:
		return "Win"
	case OutcomeBlackjack:
		return "Blackjack"
	case OutcomeLoss:
		return "Loss"
	case OutcomeBust:
		return "Bust"
	case OutcomePush:
		return "Push"
	default:
		return "Unknown"
	}
}
