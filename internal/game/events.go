package game

import (
	"time"

	"github.com/lox/blackjack/internal/deck"
)

// EventType represents a game event type with type safety
type EventType string

// EventType constants for game domain events
const (
	EventTypeRoundStarted EventType = "round_started"
	EventTypeCardDealt    EventType = "card_dealt"
	EventTypePlayerAction EventType = "player_action"
	EventTypeHandSplit    EventType = "hand_split"
	EventTypeDealerReveal EventType = "dealer_reveal"
	EventTypeHandSettled  EventType = "hand_settled"
	EventTypeRoundSettled EventType = "round_settled"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents any event that occurs during a round
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// RoundStartedEvent is published when the initial deal begins
type RoundStartedEvent struct {
	Bet       int
	Bankroll  int
	timestamp time.Time
}

func (e RoundStartedEvent) EventType() EventType { return EventTypeRoundStarted }
func (e RoundStartedEvent) Timestamp() time.Time { return e.timestamp }

// NewRoundStartedEvent creates a new round started event
func NewRoundStartedEvent(bet, bankroll int) RoundStartedEvent {
	return RoundStartedEvent{Bet: bet, Bankroll: bankroll, timestamp: time.Now()}
}

// CardDealtEvent is published for every card that leaves the shoe.
// Hidden is true for the dealer's hole card until it is revealed.
type CardDealtEvent struct {
	Card      deck.Card
	ToDealer  bool
	HandIndex int
	Hidden    bool
	timestamp time.Time
}

func (e CardDealtEvent) EventType() EventType { return EventTypeCardDealt }
func (e CardDealtEvent) Timestamp() time.Time { return e.timestamp }

// NewCardDealtEvent creates a new card dealt event
func NewCardDealtEvent(card deck.Card, toDealer bool, handIndex int, hidden bool) CardDealtEvent {
	return CardDealtEvent{
		Card:      card,
		ToDealer:  toDealer,
		HandIndex: handIndex,
		Hidden:    hidden,
		timestamp: time.Now(),
	}
}

// PlayerActionEvent is published when a player command is accepted
type PlayerActionEvent struct {
	Action    Action
	HandIndex int
	HandTotal int
	timestamp time.Time
}

func (e PlayerActionEvent) EventType() EventType { return EventTypePlayerAction }
func (e PlayerActionEvent) Timestamp() time.Time { return e.timestamp }

// NewPlayerActionEvent creates a new player action event
func NewPlayerActionEvent(action Action, handIndex, handTotal int) PlayerActionEvent {
	return PlayerActionEvent{
		Action:    action,
		HandIndex: handIndex,
		HandTotal: handTotal,
		timestamp: time.Now(),
	}
}

// HandSplitEvent is published when a pair is split into two hands
type HandSplitEvent struct {
	HandIndex int
	Hands     int
	timestamp time.Time
}

func (e HandSplitEvent) EventType() EventType { return EventTypeHandSplit }
func (e HandSplitEvent) Timestamp() time.Time { return e.timestamp }

// NewHandSplitEvent creates a new hand split event
func NewHandSplitEvent(handIndex, hands int) HandSplitEvent {
	return HandSplitEvent{HandIndex: handIndex, Hands: hands, timestamp: time.Now()}
}

// DealerRevealEvent is published when the dealer's hole card turns over
type DealerRevealEvent struct {
	HoleCard  deck.Card
	Total     int
	timestamp time.Time
}

func (e DealerRevealEvent) EventType() EventType { return EventTypeDealerReveal }
func (e DealerRevealEvent) Timestamp() time.Time { return e.timestamp }

// NewDealerRevealEvent creates a new dealer reveal event
func NewDealerRevealEvent(holeCard deck.Card, total int) DealerRevealEvent {
	return DealerRevealEvent{HoleCard: holeCard, Total: total, timestamp: time.Now()}
}

// HandSettledEvent is published per player hand during settlement
type HandSettledEvent struct {
	Result    HandResult
	timestamp time.Time
}

func (e HandSettledEvent) EventType() EventType { return EventTypeHandSettled }
func (e HandSettledEvent) Timestamp() time.Time { return e.timestamp }

// NewHandSettledEvent creates a new hand settled event
func NewHandSettledEvent(result HandResult) HandSettledEvent {
	return HandSettledEvent{Result: result, timestamp: time.Now()}
}

// RoundSettledEvent is published once all hands have settled
type RoundSettledEvent struct {
	Net       int
	Bankroll  int
	GameOver  bool
	timestamp time.Time
}

func (e RoundSettledEvent) EventType() EventType { return EventTypeRoundSettled }
func (e RoundSettledEvent) Timestamp() time.Time { return e.timestamp }

// NewRoundSettledEvent creates a new round settled event
func NewRoundSettledEvent(net, bankroll int, gameOver bool) RoundSettledEvent {
	return RoundSettledEvent{Net: net, Bankroll: bankroll, GameOver: gameOver, timestamp: time.Now()}
}

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is a basic in-memory event bus implementation
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() EventBus {
	return &SimpleEventBus{
		subscribers: make([]EventSubscriber, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event GameEvent) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}
