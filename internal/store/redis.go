package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/prasantadh/callbreakum-be/internal/engine"
)

// Redis is the production Store: game documents and the player index
// live in one Redis instance, and the optimistic protocol maps directly
// onto WATCH / MULTI / EXEC. No lock is held across the decide step;
// contention is resolved by abort-and-retry.
type Redis struct {
	client     *redis.Client
	maxRetries int
	log        logrus.FieldLogger
}

var _ Store = (*Redis)(nil)

// NewRedis wraps an already-connected client. maxRetries bounds the
// conflict-retry loop; values below 1 fall back to DefaultMaxRetries.
func NewRedis(client *redis.Client, log logrus.FieldLogger, maxRetries int) *Redis {
	if maxRetries < 1 {
		maxRetries = DefaultMaxRetries
	}
	return &Redis{client: client, maxRetries: maxRetries, log: log}
}

// transact runs fn under WATCH of keys, retrying the whole cycle when a
// concurrent commit to a watched key aborts the transaction. Any error
// other than the conflict signal, logical rejections included, ends the
// loop immediately.
func (s *Redis) transact(ctx context.Context, keys []string, fn func(tx *redis.Tx) error) error {
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		err := s.client.Watch(ctx, fn, keys...)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
		s.log.WithFields(logrus.Fields{
			"keys":    keys,
			"attempt": attempt + 1,
		}).Debug("transaction aborted by concurrent write, retrying")
	}
	return ErrGameBusy
}

// CreateGame creates and persists a fresh game with identity in seat 0.
func (s *Redis) CreateGame(ctx context.Context, identity string) (*engine.Game, error) {
	var game *engine.Game
	err := s.transact(ctx, []string{playerKey(identity)}, func(tx *redis.Tx) error {
		if err := checkNotIndexed(ctx, tx, identity); err != nil {
			return err
		}
		game = engine.NewGame()
		if _, err := game.AddPlayer(identity); err != nil {
			return err
		}
		return commitGame(ctx, tx, game, identity)
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"game": game.ID, "player": identity}).Info("game created")
	return game, nil
}

// JoinGame seats identity at an existing game.
func (s *Redis) JoinGame(ctx context.Context, gameID uuid.UUID, identity string) (*engine.Game, error) {
	var game *engine.Game
	err := s.transact(ctx, []string{gameKey(gameID), playerKey(identity)}, func(tx *redis.Tx) error {
		if err := checkNotIndexed(ctx, tx, identity); err != nil {
			return err
		}
		var err error
		game, err = readGame(ctx, tx, gameID)
		if err != nil {
			return err
		}
		if _, err := game.AddPlayer(identity); err != nil {
			return err
		}
		return commitGame(ctx, tx, game, identity)
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"game": gameID, "player": identity}).Info("player joined")
	return game, nil
}

// GetGame loads a snapshot without entering a transaction.
func (s *Redis) GetGame(ctx context.Context, gameID uuid.UUID) (*engine.Game, error) {
	doc, err := s.client.Get(ctx, gameKey(gameID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load game %s: %w", gameID, err)
	}
	return decodeGame(doc)
}

// UpdateGame runs one engine operation under the optimistic protocol.
// apply is re-invoked on a fresh snapshot after every conflict, so its
// decision is always computed against the state it will commit over.
func (s *Redis) UpdateGame(ctx context.Context, gameID uuid.UUID, apply func(*engine.Game) error) (*engine.Game, error) {
	var game *engine.Game
	err := s.transact(ctx, []string{gameKey(gameID)}, func(tx *redis.Tx) error {
		var err error
		game, err = readGame(ctx, tx, gameID)
		if err != nil {
			return err
		}
		if err := apply(game); err != nil {
			return err
		}
		return commitGame(ctx, tx, game)
	})
	if err != nil {
		return nil, err
	}
	return game, nil
}

// checkNotIndexed rejects identities whose index key already points at
// a game. The key stays watched, so a racing CreateGame cannot slip a
// second membership in after the check.
func checkNotIndexed(ctx context.Context, tx *redis.Tx, identity string) error {
	err := tx.Get(ctx, playerKey(identity)).Err()
	if err == nil {
		return ErrAlreadyInGame
	}
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return fmt.Errorf("check player index %q: %w", identity, err)
}

// readGame loads and decodes the watched game document inside tx.
func readGame(ctx context.Context, tx *redis.Tx, gameID uuid.UUID) (*engine.Game, error) {
	doc, err := tx.Get(ctx, gameKey(gameID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load game %s: %w", gameID, err)
	}
	return decodeGame(doc)
}

// commitGame attempts the MULTI/EXEC batch: the updated document plus
// an index entry per newly seated identity. go-redis reports a conflict
// on any watched key as redis.TxFailedErr.
func commitGame(ctx context.Context, tx *redis.Tx, game *engine.Game, indexed ...string) error {
	doc, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("encode game %s: %w", game.ID, err)
	}
	_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, gameKey(game.ID), doc, 0)
		for _, identity := range indexed {
			pipe.Set(ctx, playerKey(identity), game.ID.String(), 0)
		}
		return nil
	})
	return err
}

func decodeGame(doc []byte) (*engine.Game, error) {
	var game engine.Game
	if err := json.Unmarshal(doc, &game); err != nil {
		return nil, fmt.Errorf("decode game document: %w", err)
	}
	return &game, nil
}
