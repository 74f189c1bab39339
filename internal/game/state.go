package game

import (
	"fmt"
	"maps"
	"slices"

	"github.com/medusa-dj/djrogue/internal/config"
	"github.com/medusa-dj/djrogue/internal/model"
)

// State is one session's game. Whoever is executing a turn owns it; callers serialize access.
type State struct {
	// Seed is nil for ambient randomness.
	Seed *int64 `json:"seed,omitempty"`

	Turn  int     `json:"turn"`
	Score int     `json:"score"`
	Vibe  float64 `json:"vibe"`

	Club   model.ClubState  `json:"club"`
	Active model.SongCard   `json:"active"`
	Hand   []model.SongCard `json:"hand"`

	History      []model.TurnResult `json:"history"`
	LastReaction string             `json:"last_reaction"`
}

func (s *State) Finished(totalTurns int) bool {
	return s.Turn >= totalTurns
}

// Last is the most recent turn, or nil before the first play.
func (s *State) Last() *model.TurnResult {
	if len(s.History) == 0 {
		return nil
	}
	return &s.History[len(s.History)-1]
}

// Clone returns a deep copy; history diagnostics are copied too.
func (s *State) Clone() *State {
	out := *s
	if s.Seed != nil {
		seed := *s.Seed
		out.Seed = &seed
	}
	out.Hand = slices.Clone(s.Hand)
	out.History = make([]model.TurnResult, len(s.History))
	for i, tr := range s.History {
		tr.Diagnostics = maps.Clone(tr.Diagnostics)
		out.History[i] = tr
	}
	return &out
}

// Validate checks the structural invariants of a stored state.
func (s *State) Validate(cfg config.Config) error {
	var errs []string
	if s.Turn < 0 || s.Turn > cfg.TotalTurns {
		errs = append(errs, fmt.Sprintf("turn %d outside [0,%d]", s.Turn, cfg.TotalTurns))
	}
	if len(s.Hand) != cfg.HandSize {
		errs = append(errs, fmt.Sprintf("hand has %d cards, want %d", len(s.Hand), cfg.HandSize))
	}
	if len(s.History) != s.Turn {
		errs = append(errs, fmt.Sprintf("history has %d turns, want %d", len(s.History), s.Turn))
	}
	if s.Vibe < cfg.VibeMin || s.Vibe > cfg.VibeMax {
		errs = append(errs, fmt.Sprintf("vibe %.2f outside [%.0f,%.0f]", s.Vibe, cfg.VibeMin, cfg.VibeMax))
	}
	if s.Score < 0 {
		errs = append(errs, "score is negative")
	}
	if last := s.Last(); last != nil && last.ScoreTotal != s.Score {
		errs = append(errs, fmt.Sprintf("score %d does not match history total %d", s.Score, last.ScoreTotal))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid game state: %v", errs)
	}
	return nil
}
