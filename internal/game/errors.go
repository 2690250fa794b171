package game

import "errors"

// Core command errors. Every rejected command reports one of these so the
// presentation layer can give concrete feedback; the round state is
// untouched whenever one is returned.
var (
	// ErrIllegalCommand means the command is not in the legal-action set
	// for the current state, e.g. Hit after Stand.
	ErrIllegalCommand = errors.New("command not legal in current state")

	// ErrInsufficientFunds means the bet, double or split would exceed the
	// player's bankroll.
	ErrInsufficientFunds = errors.New("insufficient chips")

	// ErrBetBelowMinimum means the bet is under the table minimum.
	ErrBetBelowMinimum = errors.New("bet below table minimum")

	// ErrInvalidConfig means the table rules are not playable.
	ErrInvalidConfig = errors.New("invalid table rules")
)
