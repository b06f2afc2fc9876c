// Package store persists Game documents in a shared store under
// optimistic concurrency control.
//
// One game is one serialized document under its game key, plus one
// index key per seated player mapping identity to game id (the index is
// what enforces one-game-per-player; the engine never sees it). Every
// mutation runs a watch / read / decide / conditionally-commit cycle:
// on conflict the whole cycle is retried against freshly read state, up
// to a cap, and nothing is ever committed on the losing side.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/prasantadh/callbreakum-be/internal/engine"
)

var (
	// ErrGameNotFound means there is no document under the game key.
	ErrGameNotFound = errors.New("game not found")
	// ErrAlreadyInGame means the identity's index key points at a game.
	ErrAlreadyInGame = errors.New("player is in another game")
	// ErrGameBusy means the retry cap was exhausted under contention.
	ErrGameBusy = errors.New("game is busy, try again")
)

// DefaultMaxRetries bounds the conflict-retry loop so one hot game
// cannot live-lock a handler.
const DefaultMaxRetries = 10

// Store is the persistence surface the request handlers work against.
// Implementations must serialize concurrent mutations of one game:
// of two racing commits exactly one lands, and the loser's decision is
// recomputed against the winner's committed state.
type Store interface {
	// CreateGame creates a fresh game with identity seated first and
	// indexes the identity. Fails with ErrAlreadyInGame if the identity
	// is already indexed to any game.
	CreateGame(ctx context.Context, identity string) (*engine.Game, error)

	// JoinGame seats identity at an existing game and indexes it.
	JoinGame(ctx context.Context, gameID uuid.UUID, identity string) (*engine.Game, error)

	// GetGame loads a read-only snapshot of the game.
	GetGame(ctx context.Context, gameID uuid.UUID) (*engine.Game, error)

	// UpdateGame loads the game, applies exactly one engine operation
	// via apply, and commits the new snapshot. A store conflict retries
	// the whole cycle with apply re-run against fresh state; an error
	// returned by apply aborts without committing and is reported
	// as-is, never retried.
	UpdateGame(ctx context.Context, gameID uuid.UUID, apply func(*engine.Game) error) (*engine.Game, error)
}

// gameKey is the document key for a game.
func gameKey(id uuid.UUID) string { return "game:" + id.String() }

// playerKey is the identity → game-id index key.
func playerKey(identity string) string { return "player:" + identity }
