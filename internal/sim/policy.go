package sim

import (
	"fmt"
	"math"

	"github.com/samber/lo"

	"github.com/medusa-dj/djrogue/internal/game"
	"github.com/medusa-dj/djrogue/internal/genre"
	"github.com/medusa-dj/djrogue/internal/model"
	"github.com/medusa-dj/djrogue/internal/rng"
)

// Policy selects which card an automated DJ plays.
type Policy string

const (
	PolicyFirst   Policy = "first"
	PolicyRandom  Policy = "random"
	PolicySafe    Policy = "safe"    // closest to the active song
	PolicyBold    Policy = "bold"    // furthest from the active song
	PolicyVariety Policy = "variety" // genre played least recently
)

var Policies = []Policy{PolicyFirst, PolicyRandom, PolicySafe, PolicyBold, PolicyVariety}

func ParsePolicy(s string) (Policy, error) {
	p := Policy(s)
	if !lo.Contains(Policies, p) {
		return "", fmt.Errorf("unknown policy %q (want one of %v)", s, Policies)
	}
	return p, nil
}

// choose returns a 0-based hand index. Ties go to the lowest index.
func choose(p Policy, cat *genre.Catalog, st *game.State, src rng.Source) (int, error) {
	switch p {
	case PolicyFirst:
		return 0, nil
	case PolicyRandom:
		return src.IntN(len(st.Hand)), nil
	case PolicySafe, PolicyBold:
		sims, err := similarities(cat, st.Active, st.Hand)
		if err != nil {
			return 0, err
		}
		if p == PolicySafe {
			return lo.IndexOf(sims, lo.Max(sims)), nil
		}
		return lo.IndexOf(sims, lo.Min(sims)), nil
	case PolicyVariety:
		ages := lo.Map(st.Hand, func(c model.SongCard, _ int) int {
			return turnsSince(st.History, c.Genre)
		})
		return lo.IndexOf(ages, lo.Max(ages)), nil
	}
	return 0, fmt.Errorf("unknown policy %q", p)
}

func similarities(cat *genre.Catalog, active model.SongCard, hand []model.SongCard) ([]float64, error) {
	out := make([]float64, len(hand))
	for i, c := range hand {
		s, err := cat.Similarity(active.Genre, active.BPM, c.Genre, c.BPM)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

// turnsSince counts plays since genre was last chosen; never played is MaxInt.
func turnsSince(history []model.TurnResult, g string) int {
	_, idx, found := lo.FindLastIndexOf(history, func(tr model.TurnResult) bool {
		return tr.ChosenCard.Genre == g
	})
	if !found {
		return math.MaxInt
	}
	return len(history) - idx
}
