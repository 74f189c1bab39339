// Package club evolves the room between turns: how full it is and who is in it.
package club

import (
	"math"

	"github.com/medusa-dj/djrogue/internal/config"
	"github.com/medusa-dj/djrogue/internal/model"
	"github.com/medusa-dj/djrogue/internal/rng"
)

const (
	ChurnPenaltyScale = 1.35
	FillBoostScale    = 0.95

	TrainwreckChurn    = 0.14
	TrainwreckFillMult = 0.45

	LowVibeTurbulence    = 0.22
	TrainwreckTurbulence = 0.18

	DriftStep  = 0.06
	DriftBase  = 0.55
	RatioFloor = 0.02
	RatioCeil  = 0.98

	TurnoverThreshold = 0.04
	TurnoverScale     = 1.5
	TurnoverMax       = 0.12
)

// Input to one club transition. Scoring carries the trainwreck flag under "did_trainwreck".
type Input struct {
	Club        model.ClubState
	VibeBefore  float64
	VibeAfter   float64
	Diagnostics model.Diagnostics
}

type Simulator struct {
	cfg config.Config
}

func NewSimulator(cfg config.Config) *Simulator {
	return &Simulator{cfg: cfg}
}

// Advance returns the next club state. Capacity responds to vibe and trainwrecks,
// and the demographic splits random-walk faster when the room is unhappy.
// Draws: three drift uniforms, then three turnover uniforms only if capacity moved more than 4 points.
func (s *Simulator) Advance(src rng.Source, in Input) (model.ClubState, model.Diagnostics) {
	before := in.Club
	trainwreck := in.Diagnostics.Flag("did_trainwreck")

	v01 := model.Vibe01(in.VibeAfter, s.cfg.VibeMin, s.cfg.VibeMax)

	churn := s.cfg.ChurnBase + (1-v01)*s.cfg.VibeChurnPenalty*ChurnPenaltyScale
	fill := s.cfg.FillBase + v01*s.cfg.VibeFillBoost*FillBoostScale
	if trainwreck {
		churn += TrainwreckChurn
		fill *= TrainwreckFillMult
	}

	// churn leaves first, then the door refills against the reduced room
	capAfter := before.Capacity
	capAfter -= capAfter * churn
	capAfter += (1 - capAfter) * fill
	capAfter = model.Clamp(capAfter, 0, 1)

	turbulence := (1 - v01) * LowVibeTurbulence
	if trainwreck {
		turbulence += TrainwreckTurbulence
	}

	drift := func(v float64) float64 {
		step := rng.Uniform(src, -DriftStep, DriftStep) * (DriftBase + turbulence)
		return model.Clamp(v+step, RatioFloor, RatioCeil)
	}
	after := model.ClubState{
		Capacity: capAfter,
		Male:     drift(before.Male),
		Queer:    drift(before.Queer),
		Normie:   drift(before.Normie),
	}

	// a big swing in the crowd also reshuffles who is in it
	if capDelta := math.Abs(capAfter - before.Capacity); capDelta > TurnoverThreshold {
		boost := min(TurnoverMax, capDelta*TurnoverScale)
		jitter := func(v float64) float64 {
			return model.Clamp(v+rng.Uniform(src, -boost, boost), RatioFloor, RatioCeil)
		}
		after.Male = jitter(after.Male)
		after.Queer = jitter(after.Queer)
		after.Normie = jitter(after.Normie)
	}

	diag := model.Diagnostics{
		"churn":      churn,
		"fill":       fill,
		"turbulence": turbulence,
	}
	record(diag, "capacity", before.Capacity, after.Capacity)
	record(diag, "male", before.Male, after.Male)
	record(diag, "queer", before.Queer, after.Queer)
	record(diag, "normie", before.Normie, after.Normie)
	return after, diag
}

func record(d model.Diagnostics, field string, before, after float64) {
	d[field+"_before"] = before
	d[field+"_after"] = after
	d[field+"_delta"] = after - before
}
