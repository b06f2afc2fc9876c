package engine

import (
	"fmt"

	"github.com/google/uuid"
)

// MaxRounds is the number of rounds in a complete game.
const MaxRounds = 5

// GameStatus is the table-level lifecycle stage, derived from the
// roster and the last round's phase.
type GameStatus uint8

const (
	// StatusForming lasts until four players are seated.
	StatusForming GameStatus = iota
	// StatusInRound means the last round is calling or playing.
	StatusInRound
	// StatusBetweenRounds means the last round completed and another
	// may still be started.
	StatusBetweenRounds
	// StatusFinished means all five rounds have completed.
	StatusFinished
)

func (s GameStatus) String() string {
	switch s {
	case StatusForming:
		return "forming"
	case StatusInRound:
		return "in_round"
	case StatusBetweenRounds:
		return "between_rounds"
	case StatusFinished:
		return "finished"
	}
	return fmt.Sprintf("status(%d)", uint8(s))
}

// Player is a seated participant, identified by an opaque token whose
// format and verification belong to the identity layer, not the engine.
type Player struct {
	ID string `json:"id"`
}

// Game is the aggregate a single table mutates through: the ordered
// roster (seat = list position) and the ordered rounds. It is a plain
// value with no hidden state; handlers load a snapshot from the store,
// apply exactly one operation, and hand the result back for commit.
//
// The whole aggregate round-trips through JSON with player order, round
// order, trick order, and per-seat hands preserved exactly.
type Game struct {
	ID      uuid.UUID `json:"id"`
	Players []Player  `json:"players"`
	Rounds  []*Round  `json:"rounds"`
}

// NewGame creates an empty table with a fresh identifier.
func NewGame() *Game {
	return &Game{ID: uuid.New()}
}

// Status derives the table-level lifecycle stage.
func (g *Game) Status() GameStatus {
	if len(g.Players) < NumSeats {
		return StatusForming
	}
	r := g.lastRound()
	if r == nil {
		return StatusBetweenRounds
	}
	if r.Phase() != PhaseComplete {
		return StatusInRound
	}
	if len(g.Rounds) == MaxRounds {
		return StatusFinished
	}
	return StatusBetweenRounds
}

// AddPlayer seats a new player and returns the resulting seat count.
// A duplicate identity or a full table is rejected, never a crash.
func (g *Game) AddPlayer(identity string) (int, error) {
	if _, err := g.seatOf(identity); err == nil {
		return 0, ErrDuplicatePlayer
	}
	if len(g.Players) >= NumSeats {
		return 0, ErrTableFull
	}
	g.Players = append(g.Players, Player{ID: identity})
	return len(g.Players), nil
}

// StartRound deals the next round. It requires a full table, no round
// currently in progress, and fewer than five rounds dealt. The leading
// seat rotates with the round number so every seat leads once before
// any seat leads twice.
func (g *Game) StartRound() error {
	if len(g.Players) < NumSeats {
		return ErrNotEnoughPlayers
	}
	if r := g.lastRound(); r != nil && r.Phase() != PhaseComplete {
		return ErrRoundInProgress
	}
	if len(g.Rounds) >= MaxRounds {
		return ErrGameFinished
	}
	leader := Seat(len(g.Rounds) % NumSeats)
	g.Rounds = append(g.Rounds, newRound(leader))
	return nil
}

// Call records identity's bid for the current round.
func (g *Game) Call(identity string, value int) error {
	seat, err := g.seatOf(identity)
	if err != nil {
		return err
	}
	r := g.activeRound()
	if r == nil {
		return ErrNoActiveRound
	}
	return r.call(seat, value)
}

// PlayCard records identity playing card into the current trick.
func (g *Game) PlayCard(identity string, card Card) error {
	seat, err := g.seatOf(identity)
	if err != nil {
		return err
	}
	r := g.activeRound()
	if r == nil {
		return ErrNoActiveRound
	}
	return r.play(seat, card)
}

// CurrentTurnSeat reports whose move it is. It is a read-only
// derivation: calling it twice without an intervening mutation always
// returns the same seat. With no round in progress it returns
// ErrNoActiveRound.
func (g *Game) CurrentTurnSeat() (Seat, error) {
	r := g.activeRound()
	if r == nil {
		return 0, ErrNoActiveRound
	}
	return r.turn()
}

// seatOf resolves an identity to its seat.
func (g *Game) seatOf(identity string) (Seat, error) {
	for i, p := range g.Players {
		if p.ID == identity {
			return Seat(i), nil
		}
	}
	return 0, ErrUnknownPlayer
}

// lastRound returns the most recently dealt round, or nil.
func (g *Game) lastRound() *Round {
	if len(g.Rounds) == 0 {
		return nil
	}
	return g.Rounds[len(g.Rounds)-1]
}

// activeRound returns the round currently accepting actions, or nil.
func (g *Game) activeRound() *Round {
	r := g.lastRound()
	if r == nil || r.Phase() == PhaseComplete {
		return nil
	}
	return r
}
