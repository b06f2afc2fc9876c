package engine

import "errors"

// Every operation on a Game reports rejection through one of these
// sentinel errors so handlers can map outcomes without string matching.
// All of them are final for the attempt that produced them; none call
// for a retry.
var (
	// Capacity.
	ErrTableFull    = errors.New("table already full")
	ErrGameFinished = errors.New("game already finished")

	// Identity.
	ErrDuplicatePlayer = errors.New("player already seated at this table")
	ErrUnknownPlayer   = errors.New("player is not seated at this table")

	// Phase.
	ErrNotEnoughPlayers = errors.New("not enough players")
	ErrNoActiveRound    = errors.New("no active round")
	ErrRoundInProgress  = errors.New("round already in progress")
	ErrNotCalling       = errors.New("round is not in its calling phase")
	ErrNotPlaying       = errors.New("round is not in its playing phase")

	// Turn.
	ErrOutOfTurn = errors.New("out of turn")

	// Play validation.
	ErrCardNotInHand = errors.New("card not in hand")
	ErrInvalidCall   = errors.New("call out of range")

	// Usage errors, not normal game outcomes.
	ErrTrickIncomplete = errors.New("trick is not complete")
)
