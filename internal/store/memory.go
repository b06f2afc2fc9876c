package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/prasantadh/callbreakum-be/internal/engine"
)

// ErrTxFailed is the in-memory conflict signal: a watched key was
// committed to between watch and commit. It plays the role
// redis.TxFailedErr plays for the Redis store and is always resolved by
// retrying, never surfaced past the Store methods.
var ErrTxFailed = errors.New("transaction aborted by concurrent write")

// Memory is a Store keeping documents in process memory with the same
// watch / read / conditionally-commit semantics as the Redis store. It
// backs tests and single-process runs; per-key version counters stand
// in for Redis's key epoch tracking.
type Memory struct {
	mu         sync.Mutex
	data       map[string][]byte
	versions   map[string]uint64
	maxRetries int
}

var _ Store = (*Memory)(nil)

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		data:       make(map[string][]byte),
		versions:   make(map[string]uint64),
		maxRetries: DefaultMaxRetries,
	}
}

// memTx is one optimistic attempt: it remembers the version of every
// watched key at watch time and commits only if none have moved since.
type memTx struct {
	store   *Memory
	watched map[string]uint64
	writes  map[string][]byte
}

// watch begins an attempt over keys, snapshotting their versions.
func (m *Memory) watch(keys ...string) *memTx {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := &memTx{
		store:   m,
		watched: make(map[string]uint64, len(keys)),
		writes:  make(map[string][]byte),
	}
	for _, key := range keys {
		tx.watched[key] = m.versions[key]
	}
	return tx
}

// get reads a key's current value.
func (tx *memTx) get(key string) ([]byte, bool) {
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()
	value, ok := tx.store.data[key]
	return value, ok
}

// set queues a write for commit.
func (tx *memTx) set(key string, value []byte) {
	tx.writes[key] = value
}

// commit atomically applies the queued writes, but only if no watched
// key has been committed to since watch; otherwise it applies nothing
// and returns ErrTxFailed.
func (tx *memTx) commit() error {
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()
	for key, version := range tx.watched {
		if tx.store.versions[key] != version {
			return ErrTxFailed
		}
	}
	for key, value := range tx.writes {
		tx.store.data[key] = value
		tx.store.versions[key]++
	}
	return nil
}

// transact mirrors Redis.transact: retry the full cycle on conflict,
// stop immediately on any other error, give up with ErrGameBusy once
// the cap is exhausted.
func (m *Memory) transact(ctx context.Context, keys []string, fn func(tx *memTx) error) error {
	for attempt := 0; attempt < m.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := fn(m.watch(keys...))
		if !errors.Is(err, ErrTxFailed) {
			return err
		}
	}
	return ErrGameBusy
}

// CreateGame creates and stores a fresh game with identity in seat 0.
func (m *Memory) CreateGame(ctx context.Context, identity string) (*engine.Game, error) {
	var game *engine.Game
	err := m.transact(ctx, []string{playerKey(identity)}, func(tx *memTx) error {
		if _, taken := tx.get(playerKey(identity)); taken {
			return ErrAlreadyInGame
		}
		game = engine.NewGame()
		if _, err := game.AddPlayer(identity); err != nil {
			return err
		}
		return tx.commitGame(game, identity)
	})
	if err != nil {
		return nil, err
	}
	return game, nil
}

// JoinGame seats identity at an existing game.
func (m *Memory) JoinGame(ctx context.Context, gameID uuid.UUID, identity string) (*engine.Game, error) {
	var game *engine.Game
	err := m.transact(ctx, []string{gameKey(gameID), playerKey(identity)}, func(tx *memTx) error {
		if _, taken := tx.get(playerKey(identity)); taken {
			return ErrAlreadyInGame
		}
		var err error
		game, err = tx.readGame(gameID)
		if err != nil {
			return err
		}
		if _, err := game.AddPlayer(identity); err != nil {
			return err
		}
		return tx.commitGame(game, identity)
	})
	if err != nil {
		return nil, err
	}
	return game, nil
}

// GetGame loads a snapshot of the game.
func (m *Memory) GetGame(ctx context.Context, gameID uuid.UUID) (*engine.Game, error) {
	m.mu.Lock()
	doc, ok := m.data[gameKey(gameID)]
	m.mu.Unlock()
	if !ok {
		return nil, ErrGameNotFound
	}
	return decodeGame(doc)
}

// UpdateGame runs one engine operation under the optimistic protocol,
// recomputing apply against fresh state after every conflict.
func (m *Memory) UpdateGame(ctx context.Context, gameID uuid.UUID, apply func(*engine.Game) error) (*engine.Game, error) {
	var game *engine.Game
	err := m.transact(ctx, []string{gameKey(gameID)}, func(tx *memTx) error {
		var err error
		game, err = tx.readGame(gameID)
		if err != nil {
			return err
		}
		if err := apply(game); err != nil {
			return err
		}
		return tx.commitGame(game)
	})
	if err != nil {
		return nil, err
	}
	return game, nil
}

// readGame loads and decodes the game document within the attempt.
func (tx *memTx) readGame(gameID uuid.UUID) (*engine.Game, error) {
	doc, ok := tx.get(gameKey(gameID))
	if !ok {
		return nil, ErrGameNotFound
	}
	return decodeGame(doc)
}

// commitGame queues the updated document plus index entries for the
// newly seated identities, then attempts the conditional commit.
func (tx *memTx) commitGame(game *engine.Game, indexed ...string) error {
	doc, err := json.Marshal(game)
	if err != nil {
		return err
	}
	tx.set(gameKey(game.ID), doc)
	for _, identity := range indexed {
		tx.set(playerKey(identity), []byte(game.ID.String()))
	}
	return tx.commit()
}
