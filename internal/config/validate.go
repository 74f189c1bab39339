package config

import "fmt"

// Validate checks semantic constraints of a resolved Config.
func Validate(c Config) error {
	var errs []string

	if c.TurnsPerHour <= 0 || c.Hours <= 0 {
		errs = append(errs, "turns.per_hour and turns.hours must be >= 1")
	}

	// hand arithmetic
	if c.HandSize <= 0 {
		errs = append(errs, "hand.size must be >= 1")
	}
	if c.SimilarCards < 0 || c.DifferentCards < 0 {
		errs = append(errs, "hand.similar and hand.different must be >= 0")
	}
	if c.SimilarCards+c.DifferentCards != c.HandSize {
		errs = append(errs, fmt.Sprintf("hand.similar (%d) + hand.different (%d) must equal hand.size (%d)",
			c.SimilarCards, c.DifferentCards, c.HandSize))
	}

	if c.BPMMin <= 0 || c.BPMMax <= c.BPMMin {
		errs = append(errs, "bpm must satisfy 0 < min < max")
	}

	if c.VibeMax < c.VibeMin {
		errs = append(errs, "vibe.max must be >= vibe.min")
	} else if c.VibeStart < c.VibeMin || c.VibeStart > c.VibeMax {
		errs = append(errs, "vibe.start must lie in [vibe.min, vibe.max]")
	}

	for _, f := range []struct {
		name string
		v    float64
	}{
		{"club.capacity_start", c.CapacityStart},
		{"club.male_start", c.MaleStart},
		{"club.queer_start", c.QueerStart},
		{"club.normie_start", c.NormieStart},
		{"club.churn_base", c.ChurnBase},
		{"club.fill_base", c.FillBase},
		{"scoring.safe_similarity_cap", c.SafeSimilarityCap},
	} {
		if f.v < 0 || f.v > 1 {
			errs = append(errs, f.name+" must be in [0,1]")
		}
	}
	if c.VibeFillBoost < 0 || c.VibeChurnPenalty < 0 {
		errs = append(errs, "club.vibe_fill_boost and club.vibe_churn_penalty must be >= 0")
	}

	if c.BasePoints < 0 {
		errs = append(errs, "scoring.base_points must be >= 0")
	}
	if c.VarietyWindow < 0 {
		errs = append(errs, "scoring.variety_window must be >= 0 (0 means whole history)")
	}

	if len(errs) > 0 {
		return &ConfigurationError{Problems: errs}
	}
	return nil
}
