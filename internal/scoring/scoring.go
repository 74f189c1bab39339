// Package scoring evaluates a played card against the room and the recent set.
package scoring

import (
	"math"

	"github.com/medusa-dj/djrogue/internal/config"
	"github.com/medusa-dj/djrogue/internal/genre"
	"github.com/medusa-dj/djrogue/internal/model"
	"github.com/medusa-dj/djrogue/internal/rng"
)

// Game-balance constants. These were tuned by play-testing; keep them exact.
const (
	AppealFloor = 0.25
	AppealScale = 0.75

	RepWindow       = 3
	RepBPMClose     = 8
	RepSameMult     = 0.72
	RepSimilarCut   = 0.88
	RepSimilarMult  = 0.88
	RepMultFloor    = 0.30
	SafePenaltyMult = 0.70

	TrainwreckThreshold = 0.45
	TrainwreckChanceCap = 0.88
	TrainwreckPointMult = 0.12

	SurpriseChanceCap     = 0.14
	SurpriseMaxSimilarity = 0.75
	SurprisePointMult     = 1.12
	SurpriseVibeBonus     = 6.0
)

// Reactions shown to the player.
const (
	ReactionTrainwreck = "TRAINWRECK! You lose the room. People bail fast."
	ReactionSwitchUp   = "Switch-up lands. Hands go up."
	ReactionRestless   = "Same lane too long. The room gets restless."
	ReactionLockedIn   = "Locked in. The room nods in unison."
	ReactionBoldHit    = "Bold choice, but it hits. The floor heats up."
	ReactionSafeBored  = "Safe, but the room looks bored."
	ReactionDrifting   = "Hmm... people start drifting."
	ReactionHolds      = "Solid. The vibe holds."
)

// Input is everything one scoring call reads. History is not modified.
type Input struct {
	TurnIndex  int
	ScoreTotal int
	Vibe       float64
	Club       model.ClubState
	Active     model.SongCard
	Chosen     model.SongCard
	History    []model.TurnResult
}

// Outcome of playing one card. VibeDelta is unclamped; the caller clamps the resulting vibe.
type Outcome struct {
	Points      int
	VibeDelta   float64
	Reaction    string
	Diagnostics model.Diagnostics
}

// Engine scores choices. It holds only read-only collaborators and is safe to share.
type Engine struct {
	cat *genre.Catalog
	cfg config.Config
}

func NewEngine(cat *genre.Catalog, cfg config.Config) *Engine {
	return &Engine{cat: cat, cfg: cfg}
}

// Score draws, in order: three appeal gaussians, the trainwreck roll, then (if no trainwreck) the surprise roll.
// The only error is an unknown genre on either card.
func (e *Engine) Score(src rng.Source, in Input) (Outcome, error) {
	vibe01 := model.Vibe01(in.Vibe, e.cfg.VibeMin, e.cfg.VibeMax)

	similarity, err := e.cat.Similarity(in.Active.Genre, in.Active.BPM, in.Chosen.Genre, in.Chosen.BPM)
	if err != nil {
		return Outcome{}, err
	}
	risk := 1 - similarity

	appeal := Appeal(src, e.cat.Tendency(in.Chosen.Genre), in.Club)
	variety := Variety(in.History, in.Chosen, e.cfg.VarietyWindow)

	repMult, repHits, err := RepetitionPenalty(e.cat, in.History, in.Chosen)
	if err != nil {
		return Outcome{}, err
	}

	safePenalty := 1.0
	if similarity >= e.cfg.SafeSimilarityCap {
		safePenalty = SafePenaltyMult
	}
	// variety in [~0.1..1.0] maps to [~0.61..1.15]; low variety is actively bad
	varietyMult := 0.55 + 0.60*variety
	vibeMult := 0.35 + 1.15*vibe01 // 0.35..1.50
	appealMult := 0.55 + 0.95*appeal

	rawPoints := e.cfg.BasePoints * vibeMult * appealMult * varietyMult * safePenalty * repMult

	vibeDelta := (appeal-0.65)*22 +
		(variety-0.55)*12 -
		risk*12 -
		(1-repMult)*18

	trainwreckChance := 0.0
	if similarity < TrainwreckThreshold {
		trainwreckChance = model.Clamp(risk*1.05+(1-vibe01)*0.35, 0, TrainwreckChanceCap)
	}
	didTrainwreck := rng.Chance(src, trainwreckChance)

	var (
		reaction       string
		surpriseChance float64
		didSurprise    bool
	)
	if didTrainwreck {
		rawPoints *= TrainwreckPointMult
		vibeDelta -= 26 + 28*risk
		reaction = ReactionTrainwreck
	} else {
		surpriseChance = model.Clamp(appeal*0.18+variety*0.14-similarity*0.10, 0, SurpriseChanceCap)
		// the roll is consumed even when similarity rules the surprise out
		roll := rng.Chance(src, surpriseChance)
		if roll && similarity < SurpriseMaxSimilarity {
			didSurprise = true
			rawPoints *= SurprisePointMult
			vibeDelta += SurpriseVibeBonus
			reaction = ReactionSwitchUp
		}
	}

	if reaction == "" {
		reaction = pickReaction(repMult, appeal, similarity)
	}

	points := max(0, int(math.RoundToEven(rawPoints)))

	diag := model.Diagnostics{
		"vibe01":               vibe01,
		"similarity":           similarity,
		"risk":                 risk,
		"appeal":               appeal,
		"variety":              variety,
		"safe_penalty":         safePenalty,
		"rep_mult":             repMult,
		"rep_hits":             float64(repHits),
		"trainwreck_threshold": TrainwreckThreshold,
		"trainwreck_chance":    trainwreckChance,
		"did_trainwreck":       boolFloat(didTrainwreck),
		"surprise_chance":      surpriseChance,
		"did_surprise":         boolFloat(didSurprise),
		"vibe_mult":            vibeMult,
		"appeal_mult":          appealMult,
		"variety_mult":         varietyMult,
		"raw_points":           rawPoints,
	}
	return Outcome{Points: points, VibeDelta: vibeDelta, Reaction: reaction, Diagnostics: diag}, nil
}

func pickReaction(repMult, appeal, similarity float64) string {
	switch {
	case repMult < 0.65:
		return ReactionRestless
	case appeal > 0.85 && similarity > 0.55:
		return ReactionLockedIn
	case appeal > 0.85 && similarity <= 0.55:
		return ReactionBoldHit
	case appeal <= 0.60 && similarity > 0.70:
		return ReactionSafeBored
	case appeal <= 0.60 && similarity <= 0.55:
		return ReactionDrifting
	default:
		return ReactionHolds
	}
}

func boolFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
