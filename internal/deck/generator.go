package deck

import (
	"fmt"

	"github.com/medusa-dj/djrogue/internal/config"
	"github.com/medusa-dj/djrogue/internal/genre"
	"github.com/medusa-dj/djrogue/internal/model"
	"github.com/medusa-dj/djrogue/internal/rng"
)

// Policy names which generator produced a card.
type Policy string

const (
	PolicyBase      Policy = "base"
	PolicySimilar   Policy = "similar"
	PolicyDifferent Policy = "different"
)

// Tuning for the similar/different policies.
const (
	KeepGenreProb = 0.75 // similar: chance to stay in the active genre

	SimilarActiveWeight = 0.65 // similar: bpm mean leans toward the active song
	SimilarStdScale     = 0.70
	SimilarStdFloor     = 3.0

	FarMinDistance        = 3 // different: minimum ring distance
	DifferentActiveWeight = 0.25
	DifferentStdFloor     = 4.0

	WildcardProb     = 0.12 // different: chance to resample bpm from the raw genre distribution
	WildcardStdScale = 1.25
)

// TaggedCard is a dealt card plus the policy that produced it.
type TaggedCard struct {
	Card   model.SongCard
	Policy Policy
}

// Generator deals hands biased by similarity to the active song.
type Generator struct {
	cat *genre.Catalog
	cfg config.Config
}

// NewGenerator checks the static hand arithmetic once; a mismatch is a ConfigurationError.
func NewGenerator(cat *genre.Catalog, cfg config.Config) (*Generator, error) {
	if cfg.SimilarCards+cfg.DifferentCards != cfg.HandSize {
		return nil, &config.ConfigurationError{Problems: []string{
			fmt.Sprintf("hand.similar (%d) + hand.different (%d) must equal hand.size (%d)",
				cfg.SimilarCards, cfg.DifferentCards, cfg.HandSize),
		}}
	}
	return &Generator{cat: cat, cfg: cfg}, nil
}

// Base is a random song whose BPM is shaped by its genre's own distribution.
func (g *Generator) Base(src rng.Source) model.SongCard {
	name := rng.Pick(src, g.cat.Names())
	t := g.cat.Tendency(name)
	lo, hi := g.cat.BPMBounds(name)
	return model.SongCard{
		BPM:   TruncatedNormal(src, t.BPM.Mean, t.BPM.Std, lo, hi),
		Genre: name,
	}
}

// Similar keeps the active genre most of the time, otherwise steps to a ring neighbour.
// BPM comes from the target genre, nudged toward the active BPM.
func (g *Generator) Similar(src rng.Source, active model.SongCard) (model.SongCard, error) {
	keep, err := rng.Draw(KeepGenreProb, src)
	if err != nil {
		return model.SongCard{}, err
	}
	name := active.Genre
	if !keep {
		left, right, err := g.cat.Neighbors(active.Genre)
		if err != nil {
			return model.SongCard{}, err
		}
		name = rng.Pick(src, []string{left, right})
	} else if _, err := g.cat.Index(name); err != nil {
		return model.SongCard{}, err
	}

	t := g.cat.Tendency(name)
	lo, hi := g.cat.BPMBounds(name)
	mean := SimilarActiveWeight*float64(active.BPM) + (1-SimilarActiveWeight)*t.BPM.Mean
	std := max(SimilarStdFloor, t.BPM.Std*SimilarStdScale)

	return model.SongCard{BPM: TruncatedNormal(src, mean, std, lo, hi), Genre: name}, nil
}

// Different jumps at least FarMinDistance around the ring and leans harder toward the genre mean.
// Occasionally the BPM is redrawn wide to create a true risk card.
func (g *Generator) Different(src rng.Source, active model.SongCard) (model.SongCard, error) {
	candidates, err := g.cat.Far(active.Genre, FarMinDistance)
	if err != nil {
		return model.SongCard{}, err
	}
	var name string
	if len(candidates) > 0 {
		name = rng.Pick(src, candidates)
	} else {
		name = rng.Pick(src, g.cat.Names())
	}

	t := g.cat.Tendency(name)
	lo, hi := g.cat.BPMBounds(name)
	mean := DifferentActiveWeight*float64(active.BPM) + (1-DifferentActiveWeight)*t.BPM.Mean
	std := max(DifferentStdFloor, t.BPM.Std)

	bpm := TruncatedNormal(src, mean, std, lo, hi)
	wild, err := rng.Draw(WildcardProb, src)
	if err != nil {
		return model.SongCard{}, err
	}
	if wild {
		bpm = TruncatedNormal(src, t.BPM.Mean, t.BPM.Std*WildcardStdScale, lo, hi)
	}
	return model.SongCard{BPM: bpm, Genre: name}, nil
}

// Deal returns HandSize cards: SimilarCards similar ones then DifferentCards different ones, shuffled.
func (g *Generator) Deal(src rng.Source, active model.SongCard) ([]model.SongCard, error) {
	tagged, err := g.DealTagged(src, active)
	if err != nil {
		return nil, err
	}
	hand := make([]model.SongCard, len(tagged))
	for i, tc := range tagged {
		hand[i] = tc.Card
	}
	return hand, nil
}

// DealTagged is Deal with each card's policy kept, for inspection.
func (g *Generator) DealTagged(src rng.Source, active model.SongCard) ([]TaggedCard, error) {
	hand := make([]TaggedCard, 0, g.cfg.HandSize)
	for range g.cfg.SimilarCards {
		c, err := g.Similar(src, active)
		if err != nil {
			return nil, fmt.Errorf("deal similar card: %w", err)
		}
		hand = append(hand, TaggedCard{Card: c, Policy: PolicySimilar})
	}
	for range g.cfg.DifferentCards {
		c, err := g.Different(src, active)
		if err != nil {
			return nil, fmt.Errorf("deal different card: %w", err)
		}
		hand = append(hand, TaggedCard{Card: c, Policy: PolicyDifferent})
	}
	rng.Shuffle(src, hand)
	return hand, nil
}
