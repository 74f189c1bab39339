package scoring

import (
	"github.com/medusa-dj/djrogue/internal/genre"
	"github.com/medusa-dj/djrogue/internal/model"
	"github.com/medusa-dj/djrogue/internal/rng"
)

// Appeal samples how well a genre lands with the current room, on [0.25, 1.0].
// Each axis blends as ratio*a + (1-ratio)*(1-a), so a genre that wins the minority side
// still scores well in a room that leans the other way. Draw order: male, queer, normie.
func Appeal(src rng.Source, t genre.Tendency, club model.ClubState) float64 {
	aMale := model.Clamp(rng.Gauss(src, t.AppealMale.Mean, t.AppealMale.Std), 0, 1)
	aQueer := model.Clamp(rng.Gauss(src, t.AppealQueer.Mean, t.AppealQueer.Std), 0, 1)
	aNormie := model.Clamp(rng.Gauss(src, t.AppealNormie.Mean, t.AppealNormie.Std), 0, 1)

	blended := (blend(club.Male, aMale) + blend(club.Queer, aQueer) + blend(club.Normie, aNormie)) / 3

	// keep it soft and non-solvable
	return AppealFloor + AppealScale*blended
}

func blend(ratio, a float64) float64 {
	return ratio*a + (1-ratio)*(1-a)
}

// Variety is the share of distinct genres among the trailing window plus the chosen card.
// window <= 0 uses the whole history.
func Variety(history []model.TurnResult, chosen model.SongCard, window int) float64 {
	recent := history
	if window > 0 && len(history) > window {
		recent = history[len(history)-window:]
	}
	seen := make(map[string]struct{}, len(recent)+1)
	for _, tr := range recent {
		seen[tr.ChosenCard.Genre] = struct{}{}
	}
	seen[chosen.Genre] = struct{}{}
	return float64(len(seen)) / float64(len(recent)+1)
}

// RepetitionPenalty punishes same-genre, close-BPM repeats over the last three plays, newest first.
// Both conditions can fire for one entry and both stack multiplicatively; the result is floored at 0.30.
// Three matching plays in a row land near 0.72^3 before the similarity cut.
func RepetitionPenalty(cat *genre.Catalog, history []model.TurnResult, chosen model.SongCard) (float64, int, error) {
	window := history
	if len(window) > RepWindow {
		window = window[len(window)-RepWindow:]
	}

	mult, hits := 1.0, 0
	for i := len(window) - 1; i >= 0; i-- {
		prev := window[i].ChosenCard

		bpmGap := prev.BPM - chosen.BPM
		if bpmGap < 0 {
			bpmGap = -bpmGap
		}
		if prev.Genre == chosen.Genre && bpmGap <= RepBPMClose {
			hits++
			mult *= RepSameMult
		}

		// also punish ultra-high similarity regardless of genre name
		sim, err := cat.Similarity(prev.Genre, prev.BPM, chosen.Genre, chosen.BPM)
		if err != nil {
			return 0, 0, err
		}
		if sim >= RepSimilarCut {
			mult *= RepSimilarMult
		}
	}
	return model.Clamp(mult, RepMultFloor, 1), hits, nil
}
