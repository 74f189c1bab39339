package rng

import (
	"errors"
	"math"
)

var ErrInvalidProb = errors.New("rng: probability must be a finite value in [0,1]")

// Draw reports whether an event with probability p happens. A certain or
// impossible event is decided without touching src; Chance always consumes one value.
func Draw(p float64, src Source) (bool, error) {
	if err := validateProb(p); err != nil {
		return false, err
	}
	if p <= 0 {
		return false, nil
	}
	if p >= 1 {
		return true, nil
	}
	if src == nil {
		src = NewAmbient()
	}
	return src.Float64() < p, nil
}

func validateProb(p float64) error {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return ErrInvalidProb
	}
	if p < 0 || p > 1 {
		return ErrInvalidProb
	}
	return nil
}
