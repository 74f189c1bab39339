package genre

import (
	"slices"

	"github.com/agnivade/levenshtein"
)

// Default similarity weights.
const (
	GenreWeight = 0.65
	BPMWeight   = 0.35
)

// Catalog is the read-only genre table plus the cyclic ring used for distance.
// It is built once at startup and shared by every component; nothing mutates it afterwards.
type Catalog struct {
	names  []string
	index  map[string]int
	defs   map[string]Tendency
	bounds Bounds
}

// NewCatalog builds a catalog whose ring is the sorted set of defs' names.
func NewCatalog(defs map[string]Tendency, bounds Bounds) *Catalog {
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	slices.Sort(names)
	return newCatalog(names, defs, bounds)
}

// Fallback builds the built-in ring with default tendencies for every name.
func Fallback(bounds Bounds) *Catalog {
	return newCatalog(slices.Clone(FallbackNames), map[string]Tendency{}, bounds)
}

func newCatalog(names []string, defs map[string]Tendency, bounds Bounds) *Catalog {
	idx := make(map[string]int, len(names))
	for i, n := range names {
		idx[n] = i
	}
	return &Catalog{names: names, index: idx, defs: defs, bounds: bounds}
}

// Names returns the ring order.
func (c *Catalog) Names() []string { return slices.Clone(c.names) }

func (c *Catalog) Len() int { return len(c.names) }

func (c *Catalog) Bounds() Bounds { return c.bounds }

// Has reports whether name is on the ring.
func (c *Catalog) Has(name string) bool {
	_, ok := c.index[name]
	return ok
}

// Index returns the ring position of name.
func (c *Catalog) Index(name string) (int, error) {
	i, ok := c.index[name]
	if !ok {
		return 0, &UnknownGenreError{Name: name, Suggestion: c.closest(name)}
	}
	return i, nil
}

func (c *Catalog) closest(name string) string {
	best, bestDist := "", -1
	for _, cand := range c.names {
		d := levenshtein.ComputeDistance(name, cand)
		if bestDist < 0 || d < bestDist {
			best, bestDist = cand, d
		}
	}
	// only suggest when the typo is small relative to the word
	if bestDist < 0 || bestDist > max(2, len(name)/2) {
		return ""
	}
	return best
}

// At returns the genre at ring position i, wrapping in both directions.
func (c *Catalog) At(i int) string {
	n := len(c.names)
	return c.names[((i%n)+n)%n]
}

// RingDistance is min(|ia-ib|, n-|ia-ib|).
func (c *Catalog) RingDistance(a, b string) (int, error) {
	ia, err := c.Index(a)
	if err != nil {
		return 0, err
	}
	ib, err := c.Index(b)
	if err != nil {
		return 0, err
	}
	raw := ia - ib
	if raw < 0 {
		raw = -raw
	}
	return min(raw, len(c.names)-raw), nil
}

// MaxRingDistance is floor(n/2), never below 1 so normalization stays defined.
func (c *Catalog) MaxRingDistance() int {
	return max(1, len(c.names)/2)
}

func (c *Catalog) NormGenreDistance(a, b string) (float64, error) {
	d, err := c.RingDistance(a, b)
	if err != nil {
		return 0, err
	}
	return float64(d) / float64(c.MaxRingDistance()), nil
}

func (c *Catalog) NormBPMDistance(a, b int) float64 {
	span := c.bounds.Max - c.bounds.Min
	if span <= 0 {
		return 0
	}
	d := a - b
	if d < 0 {
		d = -d
	}
	return float64(d) / float64(span)
}

// Similarity scores two songs on [0,1] with the default 0.65/0.35 genre/BPM weights.
func (c *Catalog) Similarity(genreA string, bpmA int, genreB string, bpmB int) (float64, error) {
	return c.SimilarityWeighted(genreA, bpmA, genreB, bpmB, GenreWeight, BPMWeight)
}

func (c *Catalog) SimilarityWeighted(genreA string, bpmA int, genreB string, bpmB int, genreWeight, bpmWeight float64) (float64, error) {
	gd, err := c.NormGenreDistance(genreA, genreB)
	if err != nil {
		return 0, err
	}
	bd := c.NormBPMDistance(bpmA, bpmB)
	return 1 - min(1, genreWeight*gd+bpmWeight*bd), nil
}

// Neighbors returns the two ring-adjacent genres (left, right).
func (c *Catalog) Neighbors(name string) (string, string, error) {
	i, err := c.Index(name)
	if err != nil {
		return "", "", err
	}
	return c.At(i - 1), c.At(i + 1), nil
}

// Far lists genres at least minDist away on the ring, in ring order.
func (c *Catalog) Far(name string, minDist int) ([]string, error) {
	if _, err := c.Index(name); err != nil {
		return nil, err
	}
	var out []string
	for _, g := range c.names {
		// both names are known, so the error is always nil here
		if d, _ := c.RingDistance(name, g); d >= minDist {
			out = append(out, g)
		}
	}
	return out, nil
}

// Tendency never fails: names without loaded data get the default tendency.
func (c *Catalog) Tendency(name string) Tendency {
	if t, ok := c.defs[name]; ok {
		return t
	}
	return defaultTendency(name, c.bounds)
}

// BPMBounds intersects the genre's configured range with the global bounds.
// An empty or inverted intersection falls back to the global bounds.
func (c *Catalog) BPMBounds(name string) (int, int) {
	t := c.Tendency(name)
	lo, hi := c.bounds.Min, c.bounds.Max
	if t.BPM.Min != nil {
		lo = int(*t.BPM.Min)
	}
	if t.BPM.Max != nil {
		hi = int(*t.BPM.Max)
	}
	lo = max(c.bounds.Min, lo)
	hi = min(c.bounds.Max, hi)
	if lo >= hi {
		return c.bounds.Min, c.bounds.Max
	}
	return lo, hi
}
