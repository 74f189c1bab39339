// Package session keeps game states keyed by an opaque session id.
package session

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/medusa-dj/djrogue/internal/game"
)

var ErrNotFound = errors.New("session not found")

// Store is the key-value port the HTTP layer persists games through.
// Get returns a state the caller may mutate; Put stores a snapshot of it.
type Store interface {
	Get(ctx context.Context, id string) (*game.State, error)
	Put(ctx context.Context, id string, st *game.State) error
}

// Ranker is implemented by stores that can list the best games.
type Ranker interface {
	TopScores(ctx context.Context, minTurn, limit int) ([]ScoreRow, error)
}

type ScoreRow struct {
	ID    string `json:"id"`
	Turn  int    `json:"turn"`
	Score int    `json:"score"`
}

func NewID() string {
	return uuid.NewString()
}
