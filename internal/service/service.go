// Package service is the application layer shared by the HTTP and gRPC adapters:
// it loads a session, runs the engine and stores the result.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/medusa-dj/djrogue/internal/game"
	"github.com/medusa-dj/djrogue/internal/model"
	"github.com/medusa-dj/djrogue/internal/session"
)

var (
	ErrRankingUnsupported = errors.New("session store cannot rank games")
	// ErrCorruptState wraps a stored state that fails validation.
	ErrCorruptState = errors.New("stored game state is corrupt")
)

// GameView is what adapters return for one session.
type GameView struct {
	ID         string      `json:"id"`
	TotalTurns int         `json:"total_turns"`
	Finished   bool        `json:"finished"`
	State      *game.State `json:"state"`
}

type PlayResult struct {
	GameView
	Turn model.TurnResult `json:"turn_result"`
}

// Service serializes turns per session; different sessions proceed in parallel.
type Service struct {
	engine *game.Engine
	store  session.Store
	logger *slog.Logger

	mu    sync.Mutex
	locks map[string]*sessionLock
}

// sessionLock lives in the map only while some call holds or waits on it.
type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func New(engine *game.Engine, store session.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		engine: engine,
		store:  store,
		logger: logger,
		locks:  make(map[string]*sessionLock),
	}
}

func (s *Service) Engine() *game.Engine { return s.engine }

// lock serializes calls for one session and returns the matching unlock.
func (s *Service) lock(id string) func() {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sessionLock{}
		s.locks[id] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, id)
		}
		s.mu.Unlock()
	}
}


func (s *Service) view(id string, st *game.State) GameView {
	total := s.engine.Config().TotalTurns
	return GameView{ID: id, TotalTurns: total, Finished: st.Finished(total), State: st}
}

// Create starts a game under a fresh session id. A nil seed means ambient randomness.
func (s *Service) Create(ctx context.Context, seed *int64) (GameView, error) {
	st, err := s.engine.NewGame(seed)
	if err != nil {
		return GameView{}, err
	}
	id := session.NewID()
	if err := s.store.Put(ctx, id, st); err != nil {
		return GameView{}, err
	}
	s.logger.Info("game created", "session", id, "seeded", seed != nil)
	return s.view(id, st), nil
}

func (s *Service) Get(ctx context.Context, id string) (GameView, error) {
	st, err := s.store.Get(ctx, id)
	if err != nil {
		return GameView{}, err
	}
	return s.view(id, st), nil
}

// Play takes the 1-based choice the player sees.
func (s *Service) Play(ctx context.Context, id string, choice int) (PlayResult, error) {
	unlock := s.lock(id)
	defer unlock()

	st, err := s.store.Get(ctx, id)
	if err != nil {
		return PlayResult{}, err
	}
	if err := st.Validate(s.engine.Config()); err != nil {
		s.logger.Error("stored state rejected", "session", id, "error", err)
		return PlayResult{}, fmt.Errorf("%w: session %s: %v", ErrCorruptState, id, err)
	}
	tr, err := s.engine.Play(st, choice-1)
	if err != nil {
		return PlayResult{}, err
	}
	// the turn is committed even if the caller has gone away
	if err := s.store.Put(context.WithoutCancel(ctx), id, st); err != nil {
		return PlayResult{}, err
	}
	s.logger.Debug("turn played",
		"session", id,
		"turn", tr.TurnIndex,
		"card", tr.ChosenCard.String(),
		"points", tr.PointsGained,
		"vibe", tr.VibeAfter,
		"reaction", tr.Reaction,
	)
	if st.Finished(s.engine.Config().TotalTurns) {
		s.logger.Info("game finished", "session", id, "score", st.Score)
	}
	return PlayResult{GameView: s.view(id, st), Turn: tr}, nil
}

func (s *Service) Summary(ctx context.Context, id string) (game.Summary, error) {
	st, err := s.store.Get(ctx, id)
	if err != nil {
		return game.Summary{}, err
	}
	return s.engine.Summary(st), nil
}

// Leaderboard lists finished games, best first.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]session.ScoreRow, error) {
	ranker, ok := s.store.(session.Ranker)
	if !ok {
		return nil, ErrRankingUnsupported
	}
	rows, err := ranker.TopScores(ctx, s.engine.Config().TotalTurns, limit)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []session.ScoreRow{}
	}
	return rows, nil
}
