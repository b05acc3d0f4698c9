package services

import "errors"

// Failure conditions raised by the tournament manager. They split into two
// kinds: invalid input (the caller sent something malformed; nothing was
// persisted) and illegal state transitions (the operation is not valid for
// the tournament's current state). The handler layer maps each to an HTTP
// status.
var (
	// Invalid input.
	ErrNoParticipants             = errors.New("tournament requires at least one participant")
	ErrParticipantNotInTournament = errors.New("participant does not belong to this tournament")

	// Illegal state transitions.
	ErrTournamentNotFound    = errors.New("tournament not found")
	ErrTournamentComplete    = errors.New("tournament qualification is already complete")
	ErrTournamentNotComplete = errors.New("tournament qualification is not complete yet")
	ErrRoundNotComplete      = errors.New("current round still has unplayed pairings")
	ErrBracketNotInitialized = errors.New("bracket has not been initialized for this tournament")
)
