// Package game runs turns: it wires card dealing, scoring and the club simulation around a State.
package game

import (
	"errors"
	"fmt"

	"github.com/medusa-dj/djrogue/internal/club"
	"github.com/medusa-dj/djrogue/internal/config"
	"github.com/medusa-dj/djrogue/internal/deck"
	"github.com/medusa-dj/djrogue/internal/genre"
	"github.com/medusa-dj/djrogue/internal/model"
	"github.com/medusa-dj/djrogue/internal/rng"
	"github.com/medusa-dj/djrogue/internal/scoring"
)

var (
	ErrGameOver      = errors.New("game is over")
	ErrInvalidChoice = errors.New("invalid hand choice")
)

// Engine is stateless between turns and safe to share across sessions.
type Engine struct {
	cfg    config.Config
	cat    *genre.Catalog
	deck   *deck.Generator
	scorer *scoring.Engine
	club   *club.Simulator
}

func NewEngine(cat *genre.Catalog, cfg config.Config) (*Engine, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	gen, err := deck.NewGenerator(cat, cfg)
	if err != nil {
		return nil, err
	}
	return &Engine{
		cfg:    cfg,
		cat:    cat,
		deck:   gen,
		scorer: scoring.NewEngine(cat, cfg),
		club:   club.NewSimulator(cfg),
	}, nil
}

func (e *Engine) Config() config.Config   { return e.cfg }
func (e *Engine) Catalog() *genre.Catalog { return e.cat }

// NewGame deals the base song and the first hand from one generator seeded with seed.
func (e *Engine) NewGame(seed *int64) (*State, error) {
	var src rng.Source
	if seed != nil {
		src = rng.NewSeeded(*seed)
	} else {
		src = rng.NewAmbient()
	}

	active := e.deck.Base(src)
	hand, err := e.deck.Deal(src, active)
	if err != nil {
		return nil, fmt.Errorf("deal first hand: %w", err)
	}

	st := &State{
		Turn:  0,
		Score: 0,
		Vibe:  e.cfg.VibeStart,
		Club: model.ClubState{
			Capacity: e.cfg.CapacityStart,
			Male:     e.cfg.MaleStart,
			Queer:    e.cfg.QueerStart,
			Normie:   e.cfg.NormieStart,
		},
		Active:  active,
		Hand:    hand,
		History: []model.TurnResult{},
	}
	if seed != nil {
		s := *seed
		st.Seed = &s
	}
	return st, nil
}

// turnSource re-derives the generator for a turn, so no generator state has to be persisted.
func turnSource(st *State) rng.Source {
	if st.Seed == nil {
		return rng.NewSeeded(rng.TurnSeed(rng.AmbientSeed(), st.Turn))
	}
	return rng.NewSeeded(rng.TurnSeed(*st.Seed, st.Turn))
}

// Play plays hand[choice] (0-based) and advances st in place. On error st is untouched.
// One generator serves the whole turn: scoring, then the club, then the next deal.
func (e *Engine) Play(st *State, choice int) (model.TurnResult, error) {
	if st.Finished(e.cfg.TotalTurns) {
		return model.TurnResult{}, ErrGameOver
	}
	if choice < 0 || choice >= len(st.Hand) {
		return model.TurnResult{}, fmt.Errorf("%w: %d not in [0,%d)", ErrInvalidChoice, choice, len(st.Hand))
	}

	src := turnSource(st)
	chosen := st.Hand[choice]
	vibeBefore := st.Vibe
	capBefore := st.Club.Capacity

	out, err := e.scorer.Score(src, scoring.Input{
		TurnIndex:  st.Turn,
		ScoreTotal: st.Score,
		Vibe:       st.Vibe,
		Club:       st.Club,
		Active:     st.Active,
		Chosen:     chosen,
		History:    st.History,
	})
	if err != nil {
		return model.TurnResult{}, fmt.Errorf("score turn %d: %w", st.Turn, err)
	}

	vibeAfter := model.Clamp(st.Vibe+out.VibeDelta, e.cfg.VibeMin, e.cfg.VibeMax)

	nextClub, clubDiag := e.club.Advance(src, club.Input{
		Club:        st.Club,
		VibeBefore:  vibeBefore,
		VibeAfter:   vibeAfter,
		Diagnostics: out.Diagnostics,
	})

	nextHand, err := e.deck.Deal(src, chosen)
	if err != nil {
		return model.TurnResult{}, fmt.Errorf("deal turn %d: %w", st.Turn+1, err)
	}

	diag := out.Diagnostics.Merge(clubDiag)
	diag["vibe_delta"] = out.VibeDelta

	tr := model.TurnResult{
		TurnIndex:      st.Turn,
		ChosenIndex:    choice,
		ChosenCard:     chosen,
		PrevActive:     st.Active,
		PointsGained:   out.Points,
		ScoreTotal:     st.Score + out.Points,
		VibeBefore:     vibeBefore,
		VibeAfter:      vibeAfter,
		CapacityBefore: capBefore,
		CapacityAfter:  nextClub.Capacity,
		Diagnostics:    diag,
		Reaction:       out.Reaction,
	}

	st.History = append(st.History, tr)
	st.LastReaction = formatReaction(out.Points, out.VibeDelta, out.Reaction)
	st.Score = tr.ScoreTotal
	st.Vibe = vibeAfter
	st.Club = nextClub
	st.Active = chosen
	st.Turn++
	st.Hand = nextHand
	return tr, nil
}

func formatReaction(points int, vibeDelta float64, reaction string) string {
	sign, vsign := "", ""
	if points >= 0 {
		sign = "+"
	}
	if vibeDelta >= 0 {
		vsign = "+"
	}
	return fmt.Sprintf("%s%d pts • %s%.0f vibe - %s", sign, points, vsign, vibeDelta, reaction)
}

// Summary is the end-of-night view.
type Summary struct {
	Score        int     `json:"score"`
	Turns        int     `json:"turns"`
	TurnsPlayed  int     `json:"turns_played"`
	AvgVibe      float64 `json:"avg_vibe"`
	PeakCapacity float64 `json:"peak_capacity"`
	Finished     bool    `json:"finished"`
}

// Summary falls back to the current vibe and capacity when nothing has been played.
func (e *Engine) Summary(st *State) Summary {
	sum := Summary{
		Score:        st.Score,
		Turns:        e.cfg.TotalTurns,
		TurnsPlayed:  len(st.History),
		AvgVibe:      st.Vibe,
		PeakCapacity: st.Club.Capacity,
		Finished:     st.Finished(e.cfg.TotalTurns),
	}
	if len(st.History) == 0 {
		return sum
	}
	var vibeTotal float64
	peak := st.History[0].CapacityAfter
	for _, tr := range st.History {
		vibeTotal += tr.VibeAfter
		peak = max(peak, tr.CapacityAfter)
	}
	sum.AvgVibe = vibeTotal / float64(len(st.History))
	sum.PeakCapacity = peak
	return sum
}
